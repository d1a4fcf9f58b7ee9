// Package stats computes the dashboard's headline totals. Every rate
// guards its denominator and reports 0 instead of NaN or Inf.
package stats

import (
	"github.com/pagepulse/pagepulse/internal/event"
)

// Overview are the aggregate totals shown at the top of the dashboard.
type Overview struct {
	TotalEvents    int     `json:"total_events"`
	Visitors       int     `json:"visitors"`
	PageViews      int     `json:"page_views"`
	CTAClicks      int     `json:"cta_clicks"`
	CTR            float64 `json:"ctr"` // CTA clicks per page view, percent
	TotalPurchases int     `json:"total_purchases"`
	TotalRevenue   float64 `json:"total_revenue"`
	AvgTicket      float64 `json:"avg_ticket"`
	Conversions    int     `json:"conversions"`
	ConversionRate float64 `json:"conversion_rate"` // converting sessions per session, percent
	AvgScrollDepth float64 `json:"avg_scroll_depth"`
}

// Compute derives the overview from an event snapshot. Empty input
// yields a zeroed Overview.
func Compute(events []*event.RawEvent) Overview {
	o := Overview{TotalEvents: len(events)}

	visitors := make(map[string]struct{})
	sessions := make(map[string]struct{})
	converted := make(map[string]struct{})

	scrollSum := 0.0
	scrollSamples := 0

	for _, e := range events {
		if e.VisitorID != "" {
			visitors[e.VisitorID] = struct{}{}
		}
		sessions[e.GroupKey()] = struct{}{}

		switch e.EventType {
		case event.TypePageView:
			o.PageViews++
		case event.TypeClick, event.TypeCTAClick:
			if e.CTAText != "" || e.CTASelector != "" {
				o.CTAClicks++
			}
		case event.TypePurchase:
			o.TotalPurchases++
			o.TotalRevenue += e.Revenue()
		}

		if e.IsConversion() {
			o.Conversions++
			converted[e.GroupKey()] = struct{}{}
		}

		if e.ScrollDepth != nil {
			scrollSum += *e.ScrollDepth
			scrollSamples++
		}
	}

	o.Visitors = len(visitors)

	if o.PageViews > 0 {
		o.CTR = float64(o.CTAClicks) / float64(o.PageViews) * 100
	}
	if o.TotalPurchases > 0 {
		o.AvgTicket = o.TotalRevenue / float64(o.TotalPurchases)
	}
	if len(sessions) > 0 {
		o.ConversionRate = float64(len(converted)) / float64(len(sessions)) * 100
	}
	if scrollSamples > 0 {
		o.AvgScrollDepth = scrollSum / float64(scrollSamples)
	}

	return o
}
