// Package rank orders a cycle's score breakdowns into the final candidate
// list with a fully deterministic total order.
package rank

import (
	"sort"

	"github.com/seanyjeong/stock-sub000/internal/domain"
)

// Ranked is one cycle's ordered candidate list. The slice is descending by
// combined score with deterministic tie-breaks; Rank fields are 1-based.
type Ranked struct {
	Entries []domain.ScoreBreakdown `json:"entries"`
}

// Rank orders the breakdowns and annotates holdings. Holdings membership is
// a display flag only and never moves a ticker up the list. The input slice
// is not modified.
func Rank(breakdowns []domain.ScoreBreakdown, holdings map[string]bool) Ranked {
	entries := make([]domain.ScoreBreakdown, len(breakdowns))
	copy(entries, breakdowns)

	for i := range entries {
		if holdings[entries[i].Ticker] {
			entries[i].IsHolding = true
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return Less(entries[j], entries[i])
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return Ranked{Entries: entries}
}

// Less reports whether a orders strictly below b: by combined score, then
// rating rank, then raw score, with ascending ticker as the final tie-break
// so equal scores still order deterministically.
func Less(a, b domain.ScoreBreakdown) bool {
	if a.CombinedScore != b.CombinedScore {
		return a.CombinedScore < b.CombinedScore
	}
	if a.Rating.Rank() != b.Rating.Rank() {
		return a.Rating.Rank() < b.Rating.Rank()
	}
	if a.RawScore != b.RawScore {
		return a.RawScore < b.RawScore
	}
	return a.Ticker > b.Ticker
}

// Top returns the first n entries, or everything when n <= 0 or exceeds the
// list. Rank numbering is preserved so a later Expand continues seamlessly.
func (r Ranked) Top(n int) []domain.ScoreBreakdown {
	if n <= 0 || n >= len(r.Entries) {
		return r.Entries
	}
	return r.Entries[:n]
}

// Expand returns the page of n entries starting after offset, driving the
// caller's "show more" interaction. An offset past the end yields an empty
// page.
func (r Ranked) Expand(offset, n int) []domain.ScoreBreakdown {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(r.Entries) {
		return nil
	}
	rest := r.Entries[offset:]
	if n <= 0 || n >= len(rest) {
		return rest
	}
	return rest[:n]
}
