package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/seanyjeong/stock-sub000/internal/config"
	"github.com/seanyjeong/stock-sub000/internal/feed"
	"github.com/seanyjeong/stock-sub000/internal/httpapi"
	"github.com/seanyjeong/stock-sub000/internal/metrics"
	"github.com/seanyjeong/stock-sub000/internal/normalize"
	"github.com/seanyjeong/stock-sub000/internal/requalify"
	"github.com/seanyjeong/stock-sub000/internal/scan"
	"github.com/seanyjeong/stock-sub000/internal/scoring"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the latest scan cycle and verdicts over HTTP",
		Long: `Scores the snapshot batch and serves the ranked list on a local
read-only JSON API. The batch file is re-read on an interval so an external
collector can keep replacing it wholesale.`,
		RunE: runServe,
	}
	addBatchFlags(cmd.Flags())
	cmd.Flags().Duration("rescan", 5*time.Minute, "How often to reload and rescore the batch file")
	cmd.Flags().String("recs", "", "Path to recommendations JSON; enables live requalification")
	cmd.Flags().String("quotes-url", "", "Base URL of the HTTP quote endpoint")
	cmd.Flags().String("stream-url", "", "WebSocket URL of the quote tick stream")
	cmd.Flags().Float64("quote-rps", 5, "Quote requests per second for the HTTP source")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	inputPath, _ := cmd.Flags().GetString("input")
	if inputPath == "" {
		return fmt.Errorf("--input is required")
	}
	holdings := tickerSet(flagString(cmd, "holdings"))
	regSHO := tickerSet(flagString(cmd, "regsho"))
	rescan, _ := cmd.Flags().GetDuration("rescan")

	registry := prometheus.NewRegistry()
	m := metrics.NewRegistry(registry)
	pipeline := scan.New(
		normalize.New(normalize.Externals{RegSHO: regSHO}),
		scoring.NewScorer(cfg.Scoring),
		m,
	)

	store := httpapi.NewStore()
	runCycle := func() {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			log.Error().Str("path", inputPath).Err(err).Msg("read snapshot batch")
			return
		}
		batch, err := normalize.ParseBatch(data)
		if err != nil {
			log.Error().Str("path", inputPath).Err(err).Msg("parse snapshot batch")
			return
		}
		store.SetCycle(pipeline.Run(batch, holdings))
	}
	runCycle()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(rescan)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runCycle()
			}
		}
	}()

	if recsPath := flagString(cmd, "recs"); recsPath != "" {
		recs, err := loadRecommendations(recsPath)
		if err != nil {
			return err
		}
		source, err := buildQuoteSource(ctx, cmd)
		if err != nil {
			return err
		}
		poller := requalify.NewPoller(
			feed.NewInstrumentedSource(source, m.QuoteFailures),
			requalify.NewFilter(cfg.Requalify),
			cfg.Poll,
			func(v requalify.Verdict) {
				store.SetVerdict(v)
				m.ObserveVerdict(v.Valid)
			},
		)
		go func() {
			if err := poller.Run(ctx, recs); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("requalification poller stopped")
			}
		}()
		log.Info().Int("recommendations", len(recs)).Msg("live requalification enabled")
	}

	server := httpapi.NewServer(cfg.Server, store, registry)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
