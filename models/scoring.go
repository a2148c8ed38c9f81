package models

import (
	"math"

	"github.com/cockroachdb/errors"
)

// AwayCover returns 1 when the away side covers, 0 when the home side does
// and 0.5 on a push. result is the home-minus-away margin and spread is
// home-relative, so the home side covers when result+spread is positive.
func AwayCover(result, spread float64) float64 {
	adjusted := result + spread
	switch {
	case adjusted < 0:
		return 1
	case adjusted > 0:
		return 0
	}
	return 0.5
}

// Score evaluates a pick against a completed game
func Score(rec PickRecord, game Game) (float64, error) {
	if !game.HasTeam(rec.Team) {
		return 0, errors.Wrapf(ErrTeamNotInGame, "%s not in %s", rec.Team, game.ID)
	}
	if !game.IsFinal() {
		return 0, errors.Wrapf(ErrGameNotFinal, "%s", game.ID)
	}
	result := *game.Result
	awayPick := rec.Team == game.Away

	switch rec.Kind {
	case PickKindRegular, PickKindBestBet, PickKindMNF:
		if !game.HasSpread() {
			return 0, errors.Wrapf(ErrNoSpread, "%s", game.ID)
		}
		away := AwayCover(result, *game.SpreadLine)
		score := away
		if !awayPick {
			score = 1 - away
		}
		if rec.Kind == PickKindBestBet {
			score *= 2
		}
		return score, nil

	case PickKindSurvivor:
		if wonOutright(awayPick, result) {
			return 1, nil
		}
		return 0, nil

	case PickKindUnderdog:
		if !game.HasSpread() {
			return 0, errors.Wrapf(ErrNoSpread, "%s", game.ID)
		}
		// a favorite entered as the underdog pick never pays
		teamSpread, _ := game.TeamSpread(rec.Team)
		if teamSpread > 0 && wonOutright(awayPick, result) {
			return math.Abs(*game.SpreadLine), nil
		}
		return 0, nil
	}

	return 0, errors.Wrapf(ErrUnknownPickKind, "%q", rec.Kind)
}

func wonOutright(awayPick bool, result float64) bool {
	if awayPick {
		return result < 0
	}
	return result > 0
}
