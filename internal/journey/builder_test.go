package journey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagepulse/pagepulse/internal/event"
)

var base = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func ev(sessionID, eventType string, offset time.Duration, pageURL string) *event.RawEvent {
	return &event.RawEvent{
		SessionID: sessionID,
		EventType: eventType,
		CreatedAt: base.Add(offset),
		PageURL:   pageURL,
	}
}

func TestBuildEmptyInput(t *testing.T) {
	journeys := Build(nil)
	assert.Empty(t, journeys)
	assert.NotNil(t, journeys)
}

func TestSingleEventSessionYieldsOneZeroDurationStep(t *testing.T) {
	journeys := Build([]*event.RawEvent{
		ev("s1", event.TypePageView, 0, "https://shop.test/a"),
	})
	require.Len(t, journeys, 1)
	require.Len(t, journeys[0].Steps, 1)
	assert.Equal(t, "/a", journeys[0].Steps[0].Page)
	assert.Equal(t, event.TypePageView, journeys[0].Steps[0].Action)
	assert.Zero(t, journeys[0].Steps[0].DurationSec)
}

func TestStepsCollapseSamePage(t *testing.T) {
	journeys := Build([]*event.RawEvent{
		ev("s1", event.TypePageView, 0, "https://shop.test/a"),
		ev("s1", event.TypeClick, 5*time.Second, "https://shop.test/a"),
		ev("s1", event.TypePageView, 10*time.Second, "https://shop.test/b"),
		ev("s1", event.TypeClick, 15*time.Second, "https://shop.test/b"),
	})
	require.Len(t, journeys, 1)

	steps := journeys[0].Steps
	require.Len(t, steps, 2)
	assert.Equal(t, "/a", steps[0].Page)
	assert.Equal(t, "/b", steps[1].Page)

	// Dwell on /a runs until the first event on a different page.
	assert.Equal(t, 10.0, steps[0].DurationSec)
	// Last page has no successor on another page.
	assert.Zero(t, steps[1].DurationSec)
}

func TestStepCarriesCTAAndScroll(t *testing.T) {
	depth := 60.0
	e := ev("s1", event.TypeCTAClick, 0, "https://shop.test/a")
	e.CTAText = "Buy now"
	e.ScrollDepth = &depth

	journeys := Build([]*event.RawEvent{e})
	require.Len(t, journeys, 1)
	require.Len(t, journeys[0].Steps, 1)
	assert.Equal(t, "Buy now", journeys[0].Steps[0].CTAClicked)
	assert.Equal(t, 60.0, journeys[0].Steps[0].ScrollDepth)
}

func TestConversionDetection(t *testing.T) {
	price := 80.0
	cart := 150.0

	purchase := ev("s1", event.TypePurchase, 10*time.Second, "https://shop.test/checkout")
	purchase.CartValue = &cart
	lead := ev("s1", event.TypeLead, 20*time.Second, "https://shop.test/checkout")
	lead.ProductPrice = &price

	journeys := Build([]*event.RawEvent{
		ev("s1", event.TypePageView, 0, "https://shop.test/a"),
		purchase,
		lead,
		ev("s2", event.TypePageView, 0, "https://shop.test/a"),
	})
	require.Len(t, journeys, 2)

	var converted, plain *Journey
	for i := range journeys {
		if journeys[i].SessionID == "s1" {
			converted = &journeys[i]
		} else {
			plain = &journeys[i]
		}
	}

	require.NotNil(t, converted)
	assert.True(t, converted.Converted)
	assert.Equal(t, 230.0, converted.ConversionValue)

	require.NotNil(t, plain)
	assert.False(t, plain.Converted)
	assert.Zero(t, plain.ConversionValue)
}

func TestProductPricePreferredOverCartValue(t *testing.T) {
	price := 80.0
	cart := 150.0
	purchase := ev("s1", event.TypePurchase, 0, "https://shop.test/checkout")
	purchase.ProductPrice = &price
	purchase.CartValue = &cart

	journeys := Build([]*event.RawEvent{purchase})
	require.Len(t, journeys, 1)
	assert.Equal(t, 80.0, journeys[0].ConversionValue)
}

func TestStepDurationsBoundedBySessionSpan(t *testing.T) {
	events := []*event.RawEvent{
		ev("s1", event.TypePageView, 0, "https://shop.test/a"),
		ev("s1", event.TypePageView, 8*time.Second, "https://shop.test/b"),
		ev("s1", event.TypeClick, 14*time.Second, "https://shop.test/b"),
		ev("s1", event.TypePageView, 21*time.Second, "https://shop.test/c"),
		ev("s1", event.TypePageExit, 30*time.Second, "https://shop.test/c"),
	}

	journeys := Build(events)
	require.Len(t, journeys, 1)

	span := events[len(events)-1].CreatedAt.Sub(events[0].CreatedAt).Seconds()
	total := 0.0
	for _, step := range journeys[0].Steps {
		total += step.DurationSec
	}
	assert.LessOrEqual(t, total, span)
}

func TestStepsAreTimeOrdered(t *testing.T) {
	// Shuffled input; steps must come out in timestamp order.
	events := []*event.RawEvent{
		ev("s1", event.TypePageView, 20*time.Second, "https://shop.test/c"),
		ev("s1", event.TypePageView, 0, "https://shop.test/a"),
		ev("s1", event.TypePageView, 10*time.Second, "https://shop.test/b"),
	}

	journeys := Build(events)
	require.Len(t, journeys, 1)

	steps := journeys[0].Steps
	require.Len(t, steps, 3)
	for i := 1; i < len(steps); i++ {
		assert.False(t, steps[i].Timestamp.Before(steps[i-1].Timestamp))
	}
}
