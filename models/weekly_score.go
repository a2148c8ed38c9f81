package models

import "sort"

// ScoredPick is a saved pick with its outcome. Pending picks belong to
// games without a final result.
type ScoredPick struct {
	Pick
	Kind    PickKind `json:"kind"`
	Score   float64  `json:"score"`
	Pending bool     `json:"pending"`
}

// PickerScore totals one picker's points by pick kind
type PickerScore struct {
	Picker   string  `json:"picker"`
	Regular  float64 `json:"regular"`
	BestBet  float64 `json:"best_bet"`
	MNF      float64 `json:"mnf"`
	Survivor float64 `json:"survivor"`
	Underdog float64 `json:"underdog"`
	Total    float64 `json:"total"`
	Graded   int     `json:"graded"`
	Pending  int     `json:"pending"`
}

// Add folds a scored pick into the totals
func (s *PickerScore) Add(p ScoredPick) {
	if p.Pending {
		s.Pending++
		return
	}
	s.Graded++
	switch p.Kind {
	case PickKindRegular:
		s.Regular += p.Score
	case PickKindBestBet:
		s.BestBet += p.Score
	case PickKindMNF:
		s.MNF += p.Score
	case PickKindSurvivor:
		s.Survivor += p.Score
	case PickKindUnderdog:
		s.Underdog += p.Score
	}
	s.Total += p.Score
}

// Merge adds another score for the same picker
func (s *PickerScore) Merge(o PickerScore) {
	s.Regular += o.Regular
	s.BestBet += o.BestBet
	s.MNF += o.MNF
	s.Survivor += o.Survivor
	s.Underdog += o.Underdog
	s.Total += o.Total
	s.Graded += o.Graded
	s.Pending += o.Pending
}

// WeeklyScore is the graded result of a week
type WeeklyScore struct {
	Season  int           `json:"season"`
	Week    int           `json:"week"`
	Picks   []ScoredPick  `json:"picks"`
	Pickers []PickerScore `json:"pickers"`
}

// Leaderboard is a season's standings
type Leaderboard struct {
	Season  int           `json:"season"`
	Weeks   []int         `json:"weeks"`
	Pickers []PickerScore `json:"pickers"`
}

// SortPickerScores orders by total points, then name
func SortPickerScores(scores []PickerScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Total != scores[j].Total {
			return scores[i].Total > scores[j].Total
		}
		return scores[i].Picker < scores[j].Picker
	})
}

// DatabaseStats describes the saved picks as a whole. Ranges are nil when
// nothing has been saved.
type DatabaseStats struct {
	TotalPicks    int  `json:"total_picks"`
	UniquePickers int  `json:"unique_pickers"`
	MinSeason     *int `json:"min_season"`
	MaxSeason     *int `json:"max_season"`
	MinWeek       *int `json:"min_week"`
	MaxWeek       *int `json:"max_week"`
}

// StatsFromPicks computes database stats from a full pick listing
func StatsFromPicks(picks []Pick) DatabaseStats {
	stats := DatabaseStats{TotalPicks: len(picks)}
	pickers := make(map[string]struct{})
	for _, p := range picks {
		pickers[p.Picker] = struct{}{}
		stats.MinSeason = minInt(stats.MinSeason, p.Season)
		stats.MaxSeason = maxInt(stats.MaxSeason, p.Season)
		stats.MinWeek = minInt(stats.MinWeek, p.Week)
		stats.MaxWeek = maxInt(stats.MaxWeek, p.Week)
	}
	stats.UniquePickers = len(pickers)
	return stats
}

func minInt(cur *int, v int) *int {
	if cur == nil || v < *cur {
		return &v
	}
	return cur
}

func maxInt(cur *int, v int) *int {
	if cur == nil || v > *cur {
		return &v
	}
	return cur
}
