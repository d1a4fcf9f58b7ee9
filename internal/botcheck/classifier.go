// Package botcheck classifies traffic sources as bots. Session
// reconstruction consumes it as a black box through the Classifier
// interface; the shipped implementation combines user-agent parsing
// with a signature table.
package botcheck

import (
	"strings"

	"github.com/mssola/useragent"
)

// Signals are the per-session fields the classifier inspects.
type Signals struct {
	Browser   string
	OS        string
	Device    string
	City      string
	Referrer  string
	UserAgent string
}

// Result is the classification verdict for one session.
type Result struct {
	IsBot       bool   `json:"is_bot"`
	BotName     string `json:"bot_name,omitempty"`
	BotCategory string `json:"bot_category,omitempty"`
}

// Classifier decides whether a session's traffic looks automated.
type Classifier interface {
	Classify(sig Signals) Result
}

type signature struct {
	needle   string
	name     string
	category string
}

// Known crawler and referrer-spam signatures, matched case-insensitively
// against browser name and referrer host.
var signatures = []signature{
	{"googlebot", "Googlebot", "search_crawler"},
	{"bingbot", "Bingbot", "search_crawler"},
	{"duckduckbot", "DuckDuckBot", "search_crawler"},
	{"yandexbot", "YandexBot", "search_crawler"},
	{"baiduspider", "Baiduspider", "search_crawler"},
	{"ahrefsbot", "AhrefsBot", "seo_crawler"},
	{"semrushbot", "SemrushBot", "seo_crawler"},
	{"mj12bot", "MJ12bot", "seo_crawler"},
	{"facebookexternalhit", "Facebook", "link_preview"},
	{"slackbot", "Slackbot", "link_preview"},
	{"twitterbot", "Twitterbot", "link_preview"},
	{"headlesschrome", "Headless Chrome", "automation"},
	{"phantomjs", "PhantomJS", "automation"},
	{"selenium", "Selenium", "automation"},
	{"curl", "curl", "script"},
	{"python-requests", "python-requests", "script"},
	{"wget", "wget", "script"},
}

// UserAgentClassifier is the default Classifier. It prefers the raw
// user-agent string when the tracker captured one and falls back to the
// already-parsed browser/device fields otherwise.
type UserAgentClassifier struct{}

// New returns the default classifier.
func New() *UserAgentClassifier {
	return &UserAgentClassifier{}
}

// Classify implements Classifier.
func (c *UserAgentClassifier) Classify(sig Signals) Result {
	if sig.UserAgent != "" {
		if r, ok := matchSignature(sig.UserAgent); ok {
			return r
		}
		ua := useragent.New(sig.UserAgent)
		if ua.Bot() {
			name, _ := ua.Browser()
			return Result{IsBot: true, BotName: name, BotCategory: "crawler"}
		}
	}

	if r, ok := matchSignature(sig.Browser); ok {
		return r
	}
	if r, ok := matchSignature(sig.Referrer); ok {
		return r
	}
	if strings.EqualFold(sig.Device, "bot") {
		return Result{IsBot: true, BotName: sig.Browser, BotCategory: "crawler"}
	}

	return Result{}
}

func matchSignature(s string) (Result, bool) {
	if s == "" {
		return Result{}, false
	}
	lower := strings.ToLower(s)
	for _, sig := range signatures {
		if strings.Contains(lower, sig.needle) {
			return Result{IsBot: true, BotName: sig.name, BotCategory: sig.category}, true
		}
	}
	return Result{}, false
}
