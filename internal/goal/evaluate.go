package goal

import (
	"math"
	"strings"

	"github.com/pagepulse/pagepulse/internal/event"
)

// Evaluate computes a goal's progress over an event snapshot. All
// string comparison is case-insensitive. Most goal types count every
// qualifying event; page_destination and pages_visited instead count
// distinct matched destinations, so their current value is bounded by
// the number of configured destinations. Unknown goal types evaluate to
// zero progress rather than failing, so new types can ship ahead of
// this engine.
func Evaluate(g *Goal, events []*event.RawEvent) Progress {
	current := 0

	switch g.Type {
	case TypePageDestination, TypePagesVisited:
		rule := g.Condition.PageDestination
		matched := make(map[string]struct{})
		for _, e := range events {
			if dest, ok := matchDestination(rule, e); ok {
				matched[dest] = struct{}{}
			}
		}
		current = len(matched)

	case TypeCombined:
		for _, e := range events {
			if matchAll(g.Sub, e) {
				current++
			}
		}

	default:
		cond := g.Condition
		cond.Type = g.Type
		for _, e := range events {
			if matchCondition(&cond, e) {
				current++
			}
		}
	}

	target := g.TargetValue
	if target < 1 {
		target = 1
	}
	pct := int(math.Round(float64(current) / float64(target) * 100))
	if pct > 100 {
		pct = 100
	}

	return Progress{
		Current:    current,
		Percentage: pct,
		Completed:  current >= g.TargetValue,
	}
}

// matchAll reports whether one event satisfies every sub-condition
// simultaneously. This is a literal AND over a single event's fields,
// matching observed production behavior; see DESIGN.md for the
// session-level alternative that was considered and rejected.
func matchAll(subs []Condition, e *event.RawEvent) bool {
	if len(subs) == 0 {
		return false
	}
	for i := range subs {
		if !matchCondition(&subs[i], e) {
			return false
		}
	}
	return true
}

// matchCondition evaluates a single simple condition against one event.
// Conditions whose rule struct is missing, and condition types this
// engine does not know, never match.
func matchCondition(c *Condition, e *event.RawEvent) bool {
	switch c.Type {
	case TypeCTAClick:
		return matchCTAClick(c.CTAClick, e)
	case TypePageDestination, TypePagesVisited:
		_, ok := matchDestination(c.PageDestination, e)
		return ok
	case TypeURLPattern:
		return matchURLPattern(c.URLPattern, e)
	case TypeScrollDepth:
		return matchScrollDepth(c.ScrollDepth, e)
	case TypeTimeOnPage:
		return matchTimeOnPage(c.TimeOnPage, e)
	}
	return false
}

func matchCTAClick(rule *CTAClickRule, e *event.RawEvent) bool {
	if rule == nil {
		return false
	}
	if e.CTAText == "" && e.CTASelector == "" {
		return false
	}

	text := strings.ToLower(e.CTAText)
	if text != "" {
		for _, pattern := range rule.TextPatterns {
			p := strings.ToLower(pattern)
			if rule.MatchMode == MatchExact {
				if text == p {
					return true
				}
			} else if strings.Contains(text, p) {
				return true
			}
		}
	}

	selector := strings.ToLower(e.CTASelector)
	if selector != "" {
		for _, s := range rule.Selectors {
			if strings.Contains(selector, strings.ToLower(s)) {
				return true
			}
		}
	}

	return false
}

// matchDestination returns the configured destination the event matched
// so callers can deduplicate by it. Only page_view events with a URL
// qualify.
func matchDestination(rule *PageDestinationRule, e *event.RawEvent) (string, bool) {
	if rule == nil {
		return "", false
	}
	if e.EventType != event.TypePageView || e.PageURL == "" {
		return "", false
	}

	recorded := normalizeURL(e.PageURL)
	for _, dest := range rule.Destinations {
		configured := normalizeURL(dest)
		if configured == "" {
			continue
		}

		switch rule.MatchMode {
		case MatchExact:
			if recorded == configured {
				return dest, true
			}
		case MatchPattern:
			if strings.Contains(recorded, configured) {
				return dest, true
			}
		default: // contains: bidirectional containment
			if strings.Contains(recorded, configured) || strings.Contains(configured, recorded) {
				return dest, true
			}
		}
	}

	return "", false
}

func matchURLPattern(rule *URLPatternRule, e *event.RawEvent) bool {
	if rule == nil {
		return false
	}
	if e.CTAText == "" && e.Metadata.Href == "" {
		return false
	}

	href := strings.ToLower(e.Metadata.Href)
	if href != "" {
		for _, p := range rule.URLPatterns {
			if strings.Contains(href, strings.ToLower(p)) {
				return true
			}
		}
	}

	text := strings.ToLower(e.CTAText)
	if text != "" {
		for _, p := range rule.TextPatterns {
			if strings.Contains(text, strings.ToLower(p)) {
				return true
			}
		}
	}

	return false
}

func matchScrollDepth(rule *ScrollDepthRule, e *event.RawEvent) bool {
	if e.EventType != event.TypePageExit || e.ScrollDepth == nil {
		return false
	}
	threshold := float64(DefaultScrollThreshold)
	if rule != nil && rule.Threshold > 0 {
		threshold = rule.Threshold
	}
	return *e.ScrollDepth >= threshold
}

func matchTimeOnPage(rule *TimeOnPageRule, e *event.RawEvent) bool {
	if e.EventType != event.TypePageExit || e.TimeOnPage == nil {
		return false
	}
	minimum := float64(DefaultMinTimeOnPage)
	if rule != nil && rule.MinSeconds > 0 {
		minimum = rule.MinSeconds
	}
	return *e.TimeOnPage >= minimum
}

// normalizeURL lowercases and strips the trailing slash so both sides
// of a destination comparison share one canonical form.
func normalizeURL(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, "/")
	return s
}
