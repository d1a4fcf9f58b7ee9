// Package ingest decodes tracking payloads from the stream and writes
// them to the event store in batches.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pagepulse/pagepulse/internal/config"
	"github.com/pagepulse/pagepulse/internal/event"
)

// EventWriter is the batch insert side of the event store.
type EventWriter interface {
	InsertEvents(ctx context.Context, events []*event.RawEvent) error
}

// Pipeline buffers parsed events and flushes them to the writer when
// the buffer reaches the batch size or the flush interval elapses.
type Pipeline struct {
	writer   EventWriter
	batchCfg config.BatchConfig

	mu     sync.Mutex
	buffer []*event.RawEvent

	ticker *time.Ticker
	done   chan struct{}
}

// NewPipeline creates the ingest pipeline and starts its flush loop.
func NewPipeline(writer EventWriter, batchCfg config.BatchConfig) *Pipeline {
	p := &Pipeline{
		writer:   writer,
		batchCfg: batchCfg,
		buffer:   make([]*event.RawEvent, 0, batchCfg.Size),
		done:     make(chan struct{}),
	}

	p.ticker = time.NewTicker(batchCfg.FlushInterval)
	go p.flushLoop()

	return p
}

// Process decodes one payload from the stream and buffers the event.
// Payloads that are not JSON objects are rejected; field-level problems
// inside a valid object are absorbed by the tolerant event parser.
func (p *Pipeline) Process(ctx context.Context, payload []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return fmt.Errorf("decode event payload: %w", err)
	}
	e := event.Parse(raw)

	p.mu.Lock()
	p.buffer = append(p.buffer, e)
	full := len(p.buffer) >= p.batchCfg.Size
	p.mu.Unlock()

	if full {
		p.Flush()
	}
	return nil
}

func (p *Pipeline) flushLoop() {
	for {
		select {
		case <-p.done:
			return
		case <-p.ticker.C:
			p.Flush()
		}
	}
}

// Flush writes all buffered events to the store.
func (p *Pipeline) Flush() {
	p.mu.Lock()
	if len(p.buffer) == 0 {
		p.mu.Unlock()
		return
	}
	batch := p.buffer
	p.buffer = make([]*event.RawEvent, 0, p.batchCfg.Size)
	p.mu.Unlock()

	start := time.Now()
	if err := p.writer.InsertEvents(context.Background(), batch); err != nil {
		log.Error().Err(err).Int("count", len(batch)).Msg("Failed to insert events")
		return
	}
	log.Info().
		Int("count", len(batch)).
		Dur("duration", time.Since(start)).
		Msg("Flushed events")
}

// Stop halts the flush loop and drains the buffer.
func (p *Pipeline) Stop() {
	p.ticker.Stop()
	close(p.done)
	p.Flush()
}
