package models

import (
	"github.com/cockroachdb/errors"
)

// MaxSpreadPicks caps regular plus best-bet picks per week
const MaxSpreadPicks = 6

// PickSet holds one picker's selections for a season/week. It is a value:
// every change returns a new PickSet and leaves the receiver untouched.
type PickSet struct {
	season   int
	week     int
	picker   string
	spread   map[string]PickRecord
	order    []string
	survivor *PickRecord
	underdog *PickRecord
	mnf      *PickRecord
}

// NewPickSet returns an empty pick set
func NewPickSet(season, week int, picker string) PickSet {
	return PickSet{
		season: season,
		week:   week,
		picker: picker,
		spread: make(map[string]PickRecord),
	}
}

// PickSetFromRecords rebuilds a pick set from stored records in saved order.
// Records the set cannot hold are returned as dropped: a second record for a
// game or side-pool slot that is already filled, a team that is not in its
// game, and spread picks past MaxSpreadPicks.
func PickSetFromRecords(season, week int, picker string, records []PickRecord) (PickSet, []PickRecord) {
	set := NewPickSet(season, week, picker)
	var dropped []PickRecord
	for _, r := range records {
		rec := r
		if !recordTeamInGame(rec) {
			dropped = append(dropped, rec)
			continue
		}
		switch rec.Kind {
		case PickKindRegular, PickKindBestBet:
			if _, exists := set.spread[rec.GameID]; exists || len(set.order) >= MaxSpreadPicks {
				dropped = append(dropped, rec)
				continue
			}
			set.order = append(set.order, rec.GameID)
			set.spread[rec.GameID] = rec
		case PickKindSurvivor:
			if !fillSlot(&set.survivor, rec) {
				dropped = append(dropped, rec)
			}
		case PickKindUnderdog:
			if !fillSlot(&set.underdog, rec) {
				dropped = append(dropped, rec)
			}
		case PickKindMNF:
			if !fillSlot(&set.mnf, rec) {
				dropped = append(dropped, rec)
			}
		default:
			dropped = append(dropped, rec)
		}
	}
	return set, dropped
}

func fillSlot(slot **PickRecord, rec PickRecord) bool {
	if *slot != nil {
		return false
	}
	*slot = &rec
	return true
}

func recordTeamInGame(rec PickRecord) bool {
	_, _, away, home, err := ParseGameID(rec.GameID)
	if err != nil {
		return false
	}
	return rec.Team == away || rec.Team == home
}

func (s PickSet) Season() int    { return s.season }
func (s PickSet) Week() int      { return s.week }
func (s PickSet) Picker() string { return s.picker }

// WithPicker returns a copy of the set owned by picker
func (s PickSet) WithPicker(picker string) PickSet {
	next := s.clone()
	next.picker = picker
	return next
}

// Selection returns the regular/best-bet slot for a game, or nil
func (s PickSet) Selection(gameID string) *Selection {
	rec, ok := s.spread[gameID]
	if !ok {
		return nil
	}
	return &Selection{Team: rec.Team, Kind: rec.Kind}
}

func (s PickSet) Survivor() *PickRecord { return copyRecord(s.survivor) }
func (s PickSet) Underdog() *PickRecord { return copyRecord(s.underdog) }
func (s PickSet) MNF() *PickRecord      { return copyRecord(s.mnf) }

// SpreadPickCount returns the number of regular and best-bet picks
func (s PickSet) SpreadPickCount() int {
	return len(s.spread)
}

// BestBetCount returns the number of best-bet picks
func (s PickSet) BestBetCount() int {
	n := 0
	for _, rec := range s.spread {
		if rec.Kind == PickKindBestBet {
			n++
		}
	}
	return n
}

// Len returns the number of records across every kind
func (s PickSet) Len() int {
	n := len(s.spread)
	for _, r := range []*PickRecord{s.survivor, s.underdog, s.mnf} {
		if r != nil {
			n++
		}
	}
	return n
}

// IsEmpty reports whether the set holds no records at all
func (s PickSet) IsEmpty() bool {
	return s.Len() == 0
}

// Records lists spread picks in the order they were made, followed by the
// survivor, underdog and monday night picks
func (s PickSet) Records() []PickRecord {
	out := make([]PickRecord, 0, s.Len())
	for _, gameID := range s.order {
		out = append(out, s.spread[gameID])
	}
	for _, r := range []*PickRecord{s.survivor, s.underdog, s.mnf} {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// Picks converts the set into persisted rows
func (s PickSet) Picks() []Pick {
	records := s.Records()
	picks := make([]Pick, 0, len(records))
	for _, r := range records {
		picks = append(picks, r.ToPick(s.season, s.week, s.picker))
	}
	return picks
}

// CanClick checks whether a regular/best-bet click on team is allowed
func (s PickSet) CanClick(game Game, team string) error {
	if s.picker == "" {
		return ErrNoPicker
	}
	if err := s.checkGame(game, team); err != nil {
		return err
	}
	if current := s.Selection(game.ID); current != nil && current.Team != team {
		return errors.Wrapf(ErrOtherSidePicked, "%s already picked in %s", current.Team, game.ID)
	}
	others := len(s.spread)
	if _, ok := s.spread[game.ID]; ok {
		others--
	}
	if others >= MaxSpreadPicks {
		return errors.Wrapf(ErrPickCapReached, "%d of %d picks used", others, MaxSpreadPicks)
	}
	return nil
}

// ClickSpread advances a game's regular/best-bet slot for team. spread is
// snapshotted into the record when the slot ends up selected.
func (s PickSet) ClickSpread(game Game, team string, spread *float64) (PickSet, error) {
	if err := s.CanClick(game, team); err != nil {
		return s, err
	}

	next := s.clone()
	sel := Transition(s.Selection(game.ID), team)
	if sel == nil {
		delete(next.spread, game.ID)
		next.order = removeGameID(next.order, game.ID)
		return next, nil
	}

	if _, exists := next.spread[game.ID]; !exists {
		next.order = append(next.order, game.ID)
	}
	next.spread[game.ID] = PickRecord{
		GameID: game.ID,
		Team:   sel.Team,
		Kind:   sel.Kind,
		Spread: copyFloat(spread),
	}
	return next, nil
}

// ClickMNF toggles the monday night pick. Only the week's designated
// monday night game accepts it.
func (s PickSet) ClickMNF(game Game, team string, spread *float64) (PickSet, error) {
	if s.picker == "" {
		return s, ErrNoPicker
	}
	if err := s.checkGame(game, team); err != nil {
		return s, err
	}
	if !game.IsMNF {
		return s, errors.Wrapf(ErrNotMNFGame, "%s", game.ID)
	}

	current := ""
	if s.mnf != nil && s.mnf.GameID == game.ID {
		current = s.mnf.Team
	}

	next := s.clone()
	next.mnf = singletonRecord(game, TransitionMNF(current, team), PickKindMNF, spread)
	return next, nil
}

// ClickSurvivor toggles or replaces the week's survivor pick
func (s PickSet) ClickSurvivor(game Game, team string, spread *float64) (PickSet, error) {
	return s.clickSingleton(game, team, PickKindSurvivor, spread)
}

// ClickUnderdog toggles or replaces the week's underdog pick
func (s PickSet) ClickUnderdog(game Game, team string, spread *float64) (PickSet, error) {
	return s.clickSingleton(game, team, PickKindUnderdog, spread)
}

func (s PickSet) clickSingleton(game Game, team string, kind PickKind, spread *float64) (PickSet, error) {
	if s.picker == "" {
		return s, ErrNoPicker
	}
	if err := s.checkGame(game, team); err != nil {
		return s, err
	}

	next := s.clone()
	slot := &next.survivor
	if kind == PickKindUnderdog {
		slot = &next.underdog
	}

	current := ""
	if *slot != nil {
		current = (*slot).Team
	}
	*slot = singletonRecord(game, SelectSingleton(current, team), kind, spread)
	return next, nil
}

func (s PickSet) checkGame(game Game, team string) error {
	if game.Season != s.season || game.Week != s.week {
		return errors.Wrapf(ErrWeekMismatch, "game %s is season %d week %d", game.ID, game.Season, game.Week)
	}
	if !game.HasTeam(team) {
		return errors.Wrapf(ErrTeamNotInGame, "%s not in %s", team, game.ID)
	}
	return nil
}

// ValidateForSave is the save gate. The cap and exclusivity rules are
// maintained by every click, so only identity and emptiness are checked.
func ValidateForSave(s PickSet) error {
	if s.picker == "" {
		return ErrNoPicker
	}
	if s.IsEmpty() {
		return ErrEmptyPickSet
	}
	return nil
}

func (s PickSet) clone() PickSet {
	next := s
	next.spread = make(map[string]PickRecord, len(s.spread))
	for k, v := range s.spread {
		next.spread[k] = v
	}
	next.order = append([]string(nil), s.order...)
	next.survivor = copyRecord(s.survivor)
	next.underdog = copyRecord(s.underdog)
	next.mnf = copyRecord(s.mnf)
	return next
}

func singletonRecord(game Game, team string, kind PickKind, spread *float64) *PickRecord {
	if team == "" {
		return nil
	}
	return &PickRecord{
		GameID: game.ID,
		Team:   team,
		Kind:   kind,
		Spread: copyFloat(spread),
	}
}

func removeGameID(ids []string, gameID string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != gameID {
			out = append(out, id)
		}
	}
	return out
}

func copyRecord(r *PickRecord) *PickRecord {
	if r == nil {
		return nil
	}
	c := *r
	c.Spread = copyFloat(r.Spread)
	return &c
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
