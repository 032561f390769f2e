// Package results turns per-slot tallies into render-ready ratios.
package results

import (
	"github.com/katsuo-ito/slotsync/internal/model"
)

// RatioSet holds the percentage share of each answer for one slot. When the
// total is zero all ratios are zero and the bar renders empty.
type RatioSet struct {
	OK    float64
	Maybe float64
	NG    float64
}

// Ratios computes the percentage split for one slot's tallies. Pure and
// deterministic: identical tallies always yield identical ratios.
func Ratios(ok, maybe, ng int) RatioSet {
	total := ok + maybe + ng
	if total <= 0 {
		return RatioSet{}
	}
	return RatioSet{
		OK:    float64(ok) / float64(total) * 100,
		Maybe: float64(maybe) / float64(total) * 100,
		NG:    float64(ng) / float64(total) * 100,
	}
}

// Row pairs one candidate's tallies with its computed ratios.
type Row struct {
	Candidate model.CandidateResult
	Total     int
	Ratios    RatioSet
}

// BuildRows maps a snapshot's candidates to display rows, keeping the
// order delivered by the server.
func BuildRows(snapshot *model.ResultsSnapshot) []Row {
	rows := make([]Row, 0, len(snapshot.Candidates))
	for _, c := range snapshot.Candidates {
		rows = append(rows, Row{
			Candidate: c,
			Total:     c.OK + c.Maybe + c.NG,
			Ratios:    Ratios(c.OK, c.Maybe, c.NG),
		})
	}
	return rows
}
