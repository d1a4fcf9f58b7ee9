// Package goal implements the conversion-goal rule engine. A goal's
// condition is a tagged union over the supported rule variants; a
// combined goal ANDs several simple conditions against one event at a
// time. Evaluation is a pure function of (goal, events) and is never
// persisted — progress is recomputed fresh on every query.
package goal

// Type discriminates the condition variants.
type Type string

const (
	TypeCTAClick        Type = "cta_click"
	TypePageDestination Type = "page_destination"
	TypeURLPattern      Type = "url_pattern"
	TypeScrollDepth     Type = "scroll_depth"
	TypeTimeOnPage      Type = "time_on_page"
	TypeCombined        Type = "combined"

	// Legacy types kept for configurations predating the current goal
	// editor. pages_visited behaves like page_destination; event_count
	// is unknown to the engine and never matches.
	TypePagesVisited Type = "pages_visited"
	TypeEventCount   Type = "event_count"
)

// Match modes for text and destination rules.
const (
	MatchExact    = "exact"
	MatchPartial  = "partial"
	MatchPattern  = "pattern"
	MatchContains = "contains"
)

// Default thresholds applied when a rule omits them.
const (
	DefaultScrollThreshold = 75
	DefaultMinTimeOnPage   = 60
)

// CTAClickRule matches call-to-action clicks by button text or CSS
// selector.
type CTAClickRule struct {
	TextPatterns []string `json:"text_patterns"`
	Selectors    []string `json:"selectors"`
	MatchMode    string   `json:"match_mode"` // exact | partial
}

// PageDestinationRule matches page_view events against configured
// destination URLs. Matched destinations are deduplicated: visiting the
// same destination twice counts once.
type PageDestinationRule struct {
	Destinations []string `json:"destinations"`
	MatchMode    string   `json:"match_mode"` // exact | pattern | contains
}

// URLPatternRule matches outbound link activity by href or link text.
type URLPatternRule struct {
	URLPatterns  []string `json:"url_patterns"`
	TextPatterns []string `json:"text_patterns"`
}

// ScrollDepthRule matches page_exit events whose reported scroll depth
// reaches the threshold.
type ScrollDepthRule struct {
	Threshold float64 `json:"threshold"`
}

// TimeOnPageRule matches page_exit events whose reported time on page
// reaches the minimum, in seconds.
type TimeOnPageRule struct {
	MinSeconds float64 `json:"min_seconds"`
}

// Condition is the tagged union of rule variants. Exactly the field
// matching Type is set; the rest stay nil. Combined conditions are not
// nested — a sub-condition is always one of the simple variants.
type Condition struct {
	Type Type `json:"type"`

	CTAClick        *CTAClickRule        `json:"cta_click,omitempty"`
	PageDestination *PageDestinationRule `json:"page_destination,omitempty"`
	URLPattern      *URLPatternRule      `json:"url_pattern,omitempty"`
	ScrollDepth     *ScrollDepthRule     `json:"scroll_depth,omitempty"`
	TimeOnPage      *TimeOnPageRule      `json:"time_on_page,omitempty"`
}

// Goal is an externally configured conversion goal. The engine only
// reads goals; Enabled is a presentation concern and does not gate
// evaluation.
type Goal struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Type          Type        `json:"type"`
	Condition     Condition   `json:"condition"`
	Sub           []Condition `json:"sub,omitempty"` // combined goals only
	TargetValue   int         `json:"target_value"`
	CurrencyValue float64     `json:"currency_value"`
	Enabled       bool        `json:"enabled"`
}

// Progress is the derived completion state of a goal against an event
// snapshot. Current is monotonic non-decreasing as the event set grows.
type Progress struct {
	Current    int  `json:"current"`
	Percentage int  `json:"percentage"`
	Completed  bool `json:"completed"`
}
