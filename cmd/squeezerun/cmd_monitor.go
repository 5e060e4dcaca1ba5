package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/seanyjeong/stock-sub000/internal/config"
	"github.com/seanyjeong/stock-sub000/internal/domain"
	"github.com/seanyjeong/stock-sub000/internal/feed"
	"github.com/seanyjeong/stock-sub000/internal/requalify"
)

func newMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Poll live quotes and requalify recommendations",
		Long: `Loads a recommendation set and polls the live price source with
adaptive cadence (10s during regular session, 60s otherwise). When a price
cannot be obtained the prior verdict stands; a recommendation is never
disqualified by a feed outage.`,
		RunE: runMonitor,
	}
	cmd.Flags().String("recs", "", "Path to recommendations JSON (required)")
	cmd.Flags().String("quotes-url", "", "Base URL of the HTTP quote endpoint")
	cmd.Flags().String("stream-url", "", "WebSocket URL of the quote tick stream")
	cmd.Flags().Float64("quote-rps", 5, "Quote requests per second for the HTTP source")
	return cmd
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	recsPath, _ := cmd.Flags().GetString("recs")
	if recsPath == "" {
		return fmt.Errorf("--recs is required")
	}
	recs, err := loadRecommendations(recsPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := buildQuoteSource(ctx, cmd)
	if err != nil {
		return err
	}

	filter := requalify.NewFilter(cfg.Requalify)
	poller := requalify.NewPoller(source, filter, cfg.Poll, func(v requalify.Verdict) {
		evt := log.Info().Str("ticker", v.Ticker).Bool("valid", v.Valid)
		if v.Reason != "" {
			evt = evt.Str("reason", v.Reason)
		}
		if v.Stale {
			evt = evt.Bool("stale", true)
		}
		evt.Msg("requalification verdict")
	})

	log.Info().Int("recommendations", len(recs)).Msg("monitoring started")
	if err := poller.Run(ctx, recs); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func buildQuoteSource(ctx context.Context, cmd *cobra.Command) (requalify.QuoteSource, error) {
	streamURL, _ := cmd.Flags().GetString("stream-url")
	quotesURL, _ := cmd.Flags().GetString("quotes-url")

	switch {
	case streamURL != "":
		stream := feed.NewStreamSource(streamURL)
		go func() {
			if err := stream.Run(ctx); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("quote stream stopped")
			}
		}()
		return feed.NewBreakerSource("quote-stream", stream), nil
	case quotesURL != "":
		rps, _ := cmd.Flags().GetFloat64("quote-rps")
		return feed.NewBreakerSource("quote-http", feed.NewPollSource(quotesURL, rps)), nil
	default:
		return nil, fmt.Errorf("one of --quotes-url or --stream-url is required")
	}
}

func loadRecommendations(path string) ([]domain.Recommendation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recommendations: %w", err)
	}
	var recs []domain.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return recs, nil
}
