// Package feed provides live-quote sources for the requalification poller.
// The engine itself is agnostic to how the upstream hybrid price source
// picks between regular, premarket and afterhours prices; these adapters
// only move quotes.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

// PollSource fetches quotes from an HTTP endpoint, rate limited so a burst
// of recommendations cannot hammer the provider.
type PollSource struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// NewPollSource creates an HTTP quote source. rps bounds requests per
// second across all tickers of the polling session.
func NewPollSource(baseURL string, rps float64) *PollSource {
	return &PollSource{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
}

// Fetch returns the latest quote for a ticker. Any transport or decode
// failure surfaces as an error so the caller can fail open.
func (s *PollSource) Fetch(ctx context.Context, ticker string) (*domain.LiveQuote, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/quote?symbol=%s", s.baseURL, url.QueryEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch quote %s: status %d", ticker, resp.StatusCode)
	}

	var quote domain.LiveQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("decode quote %s: %w", ticker, err)
	}
	if quote.Ticker == "" {
		quote.Ticker = ticker
	}
	return &quote, nil
}
