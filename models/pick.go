package models

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// PickKind is the closed set of pick types a picker can make
type PickKind string

const (
	PickKindRegular  PickKind = "regular"
	PickKindBestBet  PickKind = "best_bet"
	PickKindSurvivor PickKind = "survivor"
	PickKindUnderdog PickKind = "underdog"
	PickKindMNF      PickKind = "mnf"
)

// PickKinds lists every kind in display order
var PickKinds = []PickKind{
	PickKindRegular,
	PickKindBestBet,
	PickKindSurvivor,
	PickKindUnderdog,
	PickKindMNF,
}

// ParsePickKind converts a stored pick_type. Rows written before pick types
// existed have an empty value and are treated as regular picks.
func ParsePickKind(s string) (PickKind, error) {
	switch PickKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", PickKindRegular:
		return PickKindRegular, nil
	case PickKindBestBet:
		return PickKindBestBet, nil
	case PickKindSurvivor:
		return PickKindSurvivor, nil
	case PickKindUnderdog:
		return PickKindUnderdog, nil
	case PickKindMNF:
		return PickKindMNF, nil
	}
	return "", errors.Wrapf(ErrUnknownPickKind, "%q", s)
}

// IsSpreadPick returns true for the kinds that share a game's regular slot
func (k PickKind) IsSpreadPick() bool {
	return k == PickKindRegular || k == PickKindBestBet
}

// Selection is a game's regular/best-bet slot
type Selection struct {
	Team string   `json:"team_picked"`
	Kind PickKind `json:"pick_type"`
}

// PickRecord is one selection inside a pick set
type PickRecord struct {
	GameID string   `json:"game_id"`
	Team   string   `json:"team_picked"`
	Kind   PickKind `json:"pick_type"`
	Spread *float64 `json:"spread,omitempty"`
}

// Pick is the persisted row for a single saved selection
type Pick struct {
	Season     int       `json:"season" bson:"season" db:"season"`
	Week       int       `json:"week" bson:"week" db:"week"`
	GameID     string    `json:"game_id" bson:"game_id" db:"game_id"`
	TeamPicked string    `json:"team_picked" bson:"team_picked" db:"team_picked"`
	PickType   string    `json:"pick_type" bson:"pick_type" db:"pick_type"`
	Spread     *float64  `json:"spread" bson:"spread" db:"spread"`
	Picker     string    `json:"picker" bson:"picker" db:"picker"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}

// Record converts a stored row into a pick record, normalizing legacy rows:
// a missing pick_type means regular, and older sheets stored the side pools
// under "survivor_<game_id>" style keys.
func (p Pick) Record() (PickRecord, error) {
	gameID := p.GameID
	kindValue := p.PickType
	for _, prefix := range []PickKind{PickKindSurvivor, PickKindUnderdog, PickKindMNF} {
		if rest, ok := strings.CutPrefix(gameID, string(prefix)+"_"); ok {
			gameID = rest
			if kindValue == "" || kindValue == string(PickKindRegular) {
				kindValue = string(prefix)
			}
			break
		}
	}

	kind, err := ParsePickKind(kindValue)
	if err != nil {
		return PickRecord{}, err
	}
	team, err := StandardizeTeam(p.TeamPicked)
	if err != nil {
		return PickRecord{}, err
	}

	return PickRecord{
		GameID: gameID,
		Team:   team,
		Kind:   kind,
		Spread: p.Spread,
	}, nil
}

// ToPick converts a record into its persisted row
func (r PickRecord) ToPick(season, week int, picker string) Pick {
	return Pick{
		Season:     season,
		Week:       week,
		GameID:     r.GameID,
		TeamPicked: r.Team,
		PickType:   string(r.Kind),
		Spread:     r.Spread,
		Picker:     picker,
	}
}
