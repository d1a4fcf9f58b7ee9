package event

import (
	"time"

	"github.com/google/uuid"
)

// Parse converts a decoded JSON event from the tracking stream into a
// RawEvent. Unknown fields are ignored and missing fields stay at their
// zero value; an invalid or absent event id is replaced with a fresh
// UUID so downstream storage always has a key.
func Parse(raw map[string]interface{}) *RawEvent {
	e := &RawEvent{}

	if v, ok := raw["id"].(string); ok {
		if _, err := uuid.Parse(v); err == nil {
			e.ID = v
		}
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	e.SessionID = getString(raw, "session_id")
	e.VisitorID = getString(raw, "visitor_id")
	e.EventType = getString(raw, "event_type")

	if v, ok := raw["created_at"].(float64); ok {
		e.CreatedAt = time.UnixMilli(int64(v))
	} else if v, ok := raw["created_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			e.CreatedAt = ts
		}
	}

	e.PageURL = getString(raw, "page_url")
	e.CTAText = getString(raw, "cta_text")
	e.CTASelector = getString(raw, "cta_selector")
	e.ScrollDepth = getFloat64Ptr(raw, "scroll_depth")
	e.TimeOnPage = getFloat64Ptr(raw, "time_on_page")
	e.ProductName = getString(raw, "product_name")
	e.ProductPrice = getFloat64Ptr(raw, "product_price")
	e.CartValue = getFloat64Ptr(raw, "cart_value")

	e.Device = getString(raw, "device")
	e.Browser = getString(raw, "browser")
	e.OS = getString(raw, "os")
	e.City = getString(raw, "city")
	e.Country = getString(raw, "country")
	e.Referrer = getString(raw, "referrer")
	e.UserAgent = getString(raw, "user_agent")

	e.UTMSource = getString(raw, "utm_source")
	e.UTMMedium = getString(raw, "utm_medium")
	e.UTMCampaign = getString(raw, "utm_campaign")
	e.UTMTerm = getString(raw, "utm_term")
	e.UTMContent = getString(raw, "utm_content")

	if meta, ok := raw["metadata"].(map[string]interface{}); ok {
		e.Metadata = parseMetadata(meta)
	}

	return e
}

func parseMetadata(meta map[string]interface{}) Metadata {
	m := Metadata{
		ClickX:    getFloat64(meta, "click_x"),
		ClickY:    getFloat64(meta, "click_y"),
		ViewportW: getInt(meta, "viewport_w"),
		ViewportH: getInt(meta, "viewport_h"),
		DocHeight: getInt(meta, "doc_height"),
		Href:      getString(meta, "href"),
	}

	if samples, ok := meta["move_samples"].([]interface{}); ok {
		for _, s := range samples {
			point, ok := s.(map[string]interface{})
			if !ok {
				continue
			}
			m.MoveSamples = append(m.MoveSamples, MoveSample{
				X: getFloat64(point, "x"),
				Y: getFloat64(point, "y"),
			})
		}
	}

	return m
}

func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getFloat64(m map[string]interface{}, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}

func getFloat64Ptr(m map[string]interface{}, key string) *float64 {
	if v, ok := m[key].(float64); ok {
		return &v
	}
	return nil
}
