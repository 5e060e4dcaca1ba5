package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

// StreamSource consumes a JSON tick stream over WebSocket and serves the
// most recent quote per ticker. Fetch never blocks on the network: a ticker
// with no tick yet is simply unavailable, which feeds the fail-open policy.
type StreamSource struct {
	url string

	mu     sync.RWMutex
	latest map[string]domain.LiveQuote
}

func NewStreamSource(url string) *StreamSource {
	return &StreamSource{
		url:    url,
		latest: make(map[string]domain.LiveQuote),
	}
}

// Run connects and reads ticks until the context is cancelled, reconnecting
// with backoff on connection loss.
func (s *StreamSource) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := s.readLoop(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Str("url", s.url).Err(err).
				Dur("backoff", backoff).Msg("quote stream dropped, reconnecting")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (s *StreamSource) readLoop(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var quote domain.LiveQuote
		if err := json.Unmarshal(data, &quote); err != nil {
			log.Debug().Err(err).Msg("dropping malformed tick")
			continue
		}
		if quote.Ticker == "" {
			continue
		}
		if quote.ObservedAt.IsZero() {
			quote.ObservedAt = time.Now()
		}

		s.mu.Lock()
		s.latest[quote.Ticker] = quote
		s.mu.Unlock()
	}
}

// Fetch returns the last streamed quote for the ticker.
func (s *StreamSource) Fetch(_ context.Context, ticker string) (*domain.LiveQuote, error) {
	s.mu.RLock()
	quote, ok := s.latest[ticker]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no tick received yet for %s", ticker)
	}
	return &quote, nil
}
