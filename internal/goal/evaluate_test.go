package goal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pagepulse/pagepulse/internal/event"
)

var base = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func ctaEvent(text string) *event.RawEvent {
	return &event.RawEvent{EventType: event.TypeCTAClick, CreatedAt: base, CTAText: text}
}

func pageView(url string) *event.RawEvent {
	return &event.RawEvent{EventType: event.TypePageView, CreatedAt: base, PageURL: url}
}

func pageExit(scroll, timeOnPage *float64) *event.RawEvent {
	return &event.RawEvent{
		EventType:   event.TypePageExit,
		CreatedAt:   base,
		ScrollDepth: scroll,
		TimeOnPage:  timeOnPage,
	}
}

func f(v float64) *float64 { return &v }

func TestCTAClickPartialMatchCaseInsensitive(t *testing.T) {
	g := &Goal{
		Type:        TypeCTAClick,
		Condition:   Condition{CTAClick: &CTAClickRule{TextPatterns: []string{"Comprar"}, MatchMode: MatchPartial}},
		TargetValue: 5,
	}

	events := []*event.RawEvent{
		ctaEvent("Comprar Agora"),
		ctaEvent("comprar"),
		ctaEvent("Checkout"),
	}

	p := Evaluate(g, events)
	assert.Equal(t, 2, p.Current)
	assert.Equal(t, 40, p.Percentage)
	assert.False(t, p.Completed)
}

func TestCTAClickExactMode(t *testing.T) {
	g := &Goal{
		Type:        TypeCTAClick,
		Condition:   Condition{CTAClick: &CTAClickRule{TextPatterns: []string{"Comprar"}, MatchMode: MatchExact}},
		TargetValue: 1,
	}

	events := []*event.RawEvent{
		ctaEvent("Comprar Agora"), // partial only
		ctaEvent("COMPRAR"),       // exact, case-insensitive
	}

	p := Evaluate(g, events)
	assert.Equal(t, 1, p.Current)
	assert.True(t, p.Completed)
}

func TestCTAClickSelectorContains(t *testing.T) {
	g := &Goal{
		Type:        TypeCTAClick,
		Condition:   Condition{CTAClick: &CTAClickRule{Selectors: []string{".buy-button"}}},
		TargetValue: 1,
	}

	e := &event.RawEvent{EventType: event.TypeClick, CreatedAt: base, CTASelector: "div.hero > .buy-button.primary"}
	p := Evaluate(g, []*event.RawEvent{e})
	assert.Equal(t, 1, p.Current)
}

func TestScrollDepthThreshold(t *testing.T) {
	g := &Goal{
		Type:        TypeScrollDepth,
		Condition:   Condition{ScrollDepth: &ScrollDepthRule{Threshold: 75}},
		TargetValue: 3,
	}

	events := []*event.RawEvent{
		pageExit(f(80), nil),
		pageExit(f(50), nil),
		pageExit(nil, nil), // null scroll depth never matches
	}

	p := Evaluate(g, events)
	assert.Equal(t, 1, p.Current)
}

func TestScrollDepthOnlyOnPageExit(t *testing.T) {
	g := &Goal{Type: TypeScrollDepth, TargetValue: 1}

	e := &event.RawEvent{EventType: event.TypePageView, CreatedAt: base, ScrollDepth: f(90)}
	p := Evaluate(g, []*event.RawEvent{e})
	assert.Zero(t, p.Current)
}

func TestTimeOnPageDefaultMinimum(t *testing.T) {
	g := &Goal{Type: TypeTimeOnPage, TargetValue: 2}

	events := []*event.RawEvent{
		pageExit(nil, f(90)),
		pageExit(nil, f(59)),
		pageExit(nil, nil),
	}

	p := Evaluate(g, events)
	assert.Equal(t, 1, p.Current)
}

func TestPageDestinationDeduplicatesByDestination(t *testing.T) {
	g := &Goal{
		Type: TypePageDestination,
		Condition: Condition{PageDestination: &PageDestinationRule{
			Destinations: []string{"/pricing", "/checkout"},
			MatchMode:    MatchExact,
		}},
		TargetValue: 2,
	}

	events := []*event.RawEvent{
		pageView("/pricing"),
		pageView("/pricing/"), // trailing slash normalized, same destination
		pageView("/PRICING"),
		pageView("/pricing"),
	}

	p := Evaluate(g, events)
	assert.Equal(t, 1, p.Current)

	events = append(events, pageView("/checkout"))
	p = Evaluate(g, events)
	assert.Equal(t, 2, p.Current)
	assert.True(t, p.Completed)
}

func TestPageDestinationBoundedByConfigured(t *testing.T) {
	g := &Goal{
		Type: TypePageDestination,
		Condition: Condition{PageDestination: &PageDestinationRule{
			Destinations: []string{"/a", "/b", "/c"},
		}},
		TargetValue: 10,
	}

	var events []*event.RawEvent
	for i := 0; i < 50; i++ {
		events = append(events, pageView("/a"), pageView("/b"), pageView("/c"))
	}

	p := Evaluate(g, events)
	assert.LessOrEqual(t, p.Current, 3)
}

func TestPageDestinationMatchModes(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		dest    string
		url     string
		matches bool
	}{
		{"exact hit", MatchExact, "/pricing", "/pricing", true},
		{"exact miss on subpath", MatchExact, "/pricing", "/pricing/teams", false},
		{"pattern recorded contains configured", MatchPattern, "/pricing", "/pricing/teams", true},
		{"pattern miss", MatchPattern, "/pricing/teams", "/pricing", false},
		{"contains is bidirectional", MatchContains, "/pricing/teams", "/pricing", true},
		{"contains other direction", MatchContains, "/pricing", "/pricing/teams", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Goal{
				Type: TypePageDestination,
				Condition: Condition{PageDestination: &PageDestinationRule{
					Destinations: []string{tt.dest},
					MatchMode:    tt.mode,
				}},
				TargetValue: 1,
			}
			p := Evaluate(g, []*event.RawEvent{pageView(tt.url)})
			if tt.matches {
				assert.Equal(t, 1, p.Current)
			} else {
				assert.Zero(t, p.Current)
			}
		})
	}
}

func TestPagesVisitedLegacyAlias(t *testing.T) {
	g := &Goal{
		Type: TypePagesVisited,
		Condition: Condition{PageDestination: &PageDestinationRule{
			Destinations: []string{"/a", "/b"},
			MatchMode:    MatchExact,
		}},
		TargetValue: 2,
	}

	events := []*event.RawEvent{pageView("/a"), pageView("/a"), pageView("/b")}
	p := Evaluate(g, events)
	assert.Equal(t, 2, p.Current)
	assert.True(t, p.Completed)
}

func TestURLPatternMatchesHrefOrText(t *testing.T) {
	g := &Goal{
		Type: TypeURLPattern,
		Condition: Condition{URLPattern: &URLPatternRule{
			URLPatterns:  []string{"promo.test"},
			TextPatterns: []string{"offer"},
		}},
		TargetValue: 3,
	}

	byHref := &event.RawEvent{EventType: event.TypeClick, CreatedAt: base}
	byHref.Metadata.Href = "https://PROMO.test/landing"

	byText := ctaEvent("Special Offer!")

	neither := &event.RawEvent{EventType: event.TypeClick, CreatedAt: base}

	p := Evaluate(g, []*event.RawEvent{byHref, byText, neither})
	assert.Equal(t, 2, p.Current)
}

func TestCombinedRequiresAllOnSameEvent(t *testing.T) {
	g := &Goal{
		Type: TypeCombined,
		Sub: []Condition{
			{Type: TypeScrollDepth, ScrollDepth: &ScrollDepthRule{Threshold: 50}},
			{Type: TypeTimeOnPage, TimeOnPage: &TimeOnPageRule{MinSeconds: 30}},
		},
		TargetValue: 1,
	}

	both := pageExit(f(80), f(45))
	scrollOnly := pageExit(f(80), f(5))
	timeOnly := pageExit(f(10), f(45))

	// Conditions on separate events never combine.
	p := Evaluate(g, []*event.RawEvent{scrollOnly, timeOnly})
	assert.Zero(t, p.Current)

	p = Evaluate(g, []*event.RawEvent{both, scrollOnly})
	assert.Equal(t, 1, p.Current)
}

func TestCombinedWithNoSubConditions(t *testing.T) {
	g := &Goal{Type: TypeCombined, TargetValue: 1}
	p := Evaluate(g, []*event.RawEvent{pageView("/a")})
	assert.Zero(t, p.Current)
}

func TestUnknownGoalTypeNeverMatches(t *testing.T) {
	for _, typ := range []Type{TypeEventCount, Type("engagement_score"), Type("")} {
		g := &Goal{Type: typ, TargetValue: 1}
		p := Evaluate(g, []*event.RawEvent{pageView("/a"), ctaEvent("x")})
		assert.Zero(t, p.Current, "type %q", typ)
		assert.False(t, p.Completed)
	}
}

func TestPercentageClampAndZeroTarget(t *testing.T) {
	g := &Goal{
		Type:        TypeCTAClick,
		Condition:   Condition{CTAClick: &CTAClickRule{TextPatterns: []string{"buy"}, MatchMode: MatchPartial}},
		TargetValue: 0,
	}

	p := Evaluate(g, []*event.RawEvent{ctaEvent("Buy"), ctaEvent("buy now")})
	// Zero target is guarded to 1 in the percentage math.
	assert.Equal(t, 100, p.Percentage)
	assert.True(t, p.Completed)
	assert.Equal(t, 2, p.Current)
}

func TestEvaluateDeterministic(t *testing.T) {
	g := &Goal{
		Type:        TypeCTAClick,
		Condition:   Condition{CTAClick: &CTAClickRule{TextPatterns: []string{"buy"}, MatchMode: MatchPartial}},
		TargetValue: 3,
	}
	events := []*event.RawEvent{ctaEvent("Buy"), ctaEvent("buy now"), pageView("/a")}

	first := Evaluate(g, events)
	second := Evaluate(g, events)
	assert.Equal(t, first, second)
}

func TestCurrentMonotonicUnderGrowingSnapshot(t *testing.T) {
	goals := []*Goal{
		{
			Type:        TypeCTAClick,
			Condition:   Condition{CTAClick: &CTAClickRule{TextPatterns: []string{"buy"}, MatchMode: MatchPartial}},
			TargetValue: 3,
		},
		{
			Type: TypePageDestination,
			Condition: Condition{PageDestination: &PageDestinationRule{
				Destinations: []string{"/a", "/b"},
				MatchMode:    MatchExact,
			}},
			TargetValue: 2,
		},
		{Type: TypeScrollDepth, TargetValue: 2},
	}

	all := []*event.RawEvent{
		ctaEvent("Buy"),
		pageView("/a"),
		pageExit(f(90), nil),
		ctaEvent("buy more"),
		pageView("/b"),
		pageExit(f(40), nil),
	}

	for _, g := range goals {
		prev := 0
		for n := 0; n <= len(all); n++ {
			p := Evaluate(g, all[:n])
			assert.GreaterOrEqual(t, p.Current, prev)
			prev = p.Current
		}
	}
}
