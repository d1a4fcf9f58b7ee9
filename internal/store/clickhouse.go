// Package store holds the external persistence adapters: the
// ClickHouse event store the aggregations read their snapshots from and
// the Postgres store holding goal configurations.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/event"
)

// ClickHouse is the event store. The aggregation core never talks to it
// directly; callers fetch a snapshot and hand the slice to the pure
// aggregators.
type ClickHouse struct {
	conn driver.Conn
}

func NewClickHouse(cfg config.ClickHouseConfig) (*ClickHouse, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := conn.Ping(context.Background()); err != nil {
		return nil, err
	}

	return &ClickHouse{conn: conn}, nil
}

// FetchEvents reads the event snapshot for a time range. The snapshot
// comes back unordered; aggregators sort internally.
func (c *ClickHouse) FetchEvents(ctx context.Context, from, to time.Time) ([]*event.RawEvent, error) {
	rows, err := c.conn.Query(ctx, `
		SELECT
			id, session_id, visitor_id, event_type, created_at,
			page_url, cta_text, cta_selector,
			scroll_depth, time_on_page,
			product_name, product_price, cart_value,
			device, browser, os, city, country, referrer, user_agent,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content,
			metadata
		FROM raw_events
		WHERE created_at >= ? AND created_at < ?
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer rows.Close()

	var events []*event.RawEvent
	for rows.Next() {
		e := &event.RawEvent{}
		var metadata string
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.VisitorID, &e.EventType, &e.CreatedAt,
			&e.PageURL, &e.CTAText, &e.CTASelector,
			&e.ScrollDepth, &e.TimeOnPage,
			&e.ProductName, &e.ProductPrice, &e.CartValue,
			&e.Device, &e.Browser, &e.OS, &e.City, &e.Country, &e.Referrer, &e.UserAgent,
			&e.UTMSource, &e.UTMMedium, &e.UTMCampaign, &e.UTMTerm, &e.UTMContent,
			&metadata,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if metadata != "" {
			// Metadata rides as a JSON column; unreadable payloads
			// degrade to an empty metadata block rather than failing
			// the whole snapshot.
			_ = json.Unmarshal([]byte(metadata), &e.Metadata)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// InsertEvents batch-inserts events from the ingest worker.
func (c *ClickHouse) InsertEvents(ctx context.Context, events []*event.RawEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := c.conn.PrepareBatch(ctx, `
		INSERT INTO raw_events (
			id, session_id, visitor_id, event_type, created_at,
			page_url, cta_text, cta_selector,
			scroll_depth, time_on_page,
			product_name, product_price, cart_value,
			device, browser, os, city, country, referrer, user_agent,
			utm_source, utm_medium, utm_campaign, utm_term, utm_content,
			metadata
		)
	`)
	if err != nil {
		return err
	}

	for _, e := range events {
		metadata, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		err = batch.Append(
			e.ID, e.SessionID, e.VisitorID, e.EventType, e.CreatedAt,
			e.PageURL, e.CTAText, e.CTASelector,
			e.ScrollDepth, e.TimeOnPage,
			e.ProductName, e.ProductPrice, e.CartValue,
			e.Device, e.Browser, e.OS, e.City, e.Country, e.Referrer, e.UserAgent,
			e.UTMSource, e.UTMMedium, e.UTMCampaign, e.UTMTerm, e.UTMContent,
			string(metadata),
		)
		if err != nil {
			return err
		}
	}

	return batch.Send()
}

func (c *ClickHouse) Close() error {
	return c.conn.Close()
}
