package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanyjeong/stock-sub000/internal/domain"
	"github.com/seanyjeong/stock-sub000/internal/normalize"
	"github.com/seanyjeong/stock-sub000/internal/scoring"
)

func fp(v float64) *float64 { return &v }

func testPipeline() *Pipeline {
	return New(
		normalize.New(normalize.Externals{RegSHO: map[string]bool{"REGS": true}}),
		scoring.NewScorer(scoring.DefaultConfig()),
		nil,
	)
}

func snapshot(ticker string, si float64) domain.TickerSnapshot {
	return domain.TickerSnapshot{
		Ticker:           ticker,
		ShortInterestPct: fp(si),
		MarketCap:        fp(80_000_000),
		CollectedAt:      time.Now(),
	}
}

func TestPipeline_ScoresAndRanksBatch(t *testing.T) {
	p := testPipeline()

	result := p.Run([]domain.TickerSnapshot{
		snapshot("AAA", 15),
		snapshot("BBB", 45),
		snapshot("CCC", 25),
	}, nil)

	require.Len(t, result.Entries, 3)
	assert.NotEmpty(t, result.CycleID)
	assert.Equal(t, "BBB", result.Entries[0].Ticker)
	assert.Equal(t, 1, result.Entries[0].Rank)
	assert.Empty(t, result.Skipped)
}

func TestPipeline_BadRecordSkippedNotFatal(t *testing.T) {
	p := testPipeline()

	result := p.Run([]domain.TickerSnapshot{
		snapshot("GOOD", 30),
		{Ticker: ""}, // malformed: no symbol
		snapshot("ALSO", 20),
	}, nil)

	require.Len(t, result.Entries, 2, "the rest of the batch still scores")
	require.Len(t, result.Skipped, 1)
	assert.NotEmpty(t, result.Skipped[0].Reason)

	for _, e := range result.Entries {
		assert.NotEmpty(t, e.Ticker, "a failed ticker never appears with default-zero data")
	}
}

func TestPipeline_HoldingsAnnotated(t *testing.T) {
	p := testPipeline()

	result := p.Run([]domain.TickerSnapshot{
		snapshot("HELD", 30),
		snapshot("FREE", 30),
	}, map[string]bool{"HELD": true})

	byTicker := map[string]domain.ScoreBreakdown{}
	for _, e := range result.Entries {
		byTicker[e.Ticker] = e
	}
	assert.True(t, byTicker["HELD"].IsHolding)
	assert.False(t, byTicker["FREE"].IsHolding)
}

func TestPipeline_RegSHOFlagFlowsThrough(t *testing.T) {
	p := testPipeline()

	result := p.Run([]domain.TickerSnapshot{snapshot("REGS", 5)}, nil)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, 5.0, result.Entries[0].StructuralProtection, "RegSHO listing is worth 5 points")
}

func TestPipeline_EachCycleIsIndependent(t *testing.T) {
	p := testPipeline()
	batch := []domain.TickerSnapshot{snapshot("AAA", 45)}

	first := p.Run(batch, nil)
	second := p.Run(batch, nil)

	assert.NotEqual(t, first.CycleID, second.CycleID)
	assert.Equal(t, first.Entries[0].CombinedScore, second.Entries[0].CombinedScore,
		"identical input scores identically across cycles")
}

func TestPipeline_EmptyBatch(t *testing.T) {
	result := testPipeline().Run(nil, nil)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.Skipped)
}

func TestCycleResult_RankedPagination(t *testing.T) {
	p := testPipeline()
	result := p.Run([]domain.TickerSnapshot{
		snapshot("AAA", 45),
		snapshot("BBB", 35),
		snapshot("CCC", 25),
	}, nil)

	page := result.Ranked().Expand(1, 1)
	require.Len(t, page, 1)
	assert.Equal(t, 2, page[0].Rank)
}
