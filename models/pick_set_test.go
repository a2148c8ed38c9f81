package models

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekFiveMatchups = [][2]string{
	{"BUF", "KC"}, {"DAL", "PHI"}, {"GB", "CHI"}, {"MIA", "NYJ"},
	{"LAC", "DEN"}, {"SEA", "SF"}, {"TB", "NO"}, {"ATL", "CAR"},
	{"LV", "PIT"},
}

func weekFiveGames() []Game {
	games := make([]Game, 0, len(weekFiveMatchups))
	for i, m := range weekFiveMatchups {
		g := Game{
			ID:         GameID(2024, 5, m[0], m[1]),
			Season:     2024,
			Week:       5,
			Away:       m[0],
			Home:       m[1],
			SpreadLine: Float(float64(i) - 4.5),
		}
		games = append(games, g)
	}
	games[len(games)-1].IsMNF = true
	return games
}

func TestClickSpreadCycle(t *testing.T) {
	game := weekFiveGames()[0]
	set := NewPickSet(2024, 5, "GRIFF")

	set, err := set.ClickSpread(game, "KC", game.SpreadLine)
	require.NoError(t, err)
	assert.Equal(t, &Selection{Team: "KC", Kind: PickKindRegular}, set.Selection(game.ID))
	require.Len(t, set.Records(), 1)
	assert.Equal(t, -4.5, *set.Records()[0].Spread)

	set, err = set.ClickSpread(game, "KC", game.SpreadLine)
	require.NoError(t, err)
	assert.Equal(t, &Selection{Team: "KC", Kind: PickKindBestBet}, set.Selection(game.ID))
	assert.Equal(t, 1, set.BestBetCount())

	set, err = set.ClickSpread(game, "KC", game.SpreadLine)
	require.NoError(t, err)
	assert.Nil(t, set.Selection(game.ID))
	assert.True(t, set.IsEmpty())
}

func TestClickSpreadIsImmutable(t *testing.T) {
	game := weekFiveGames()[0]
	empty := NewPickSet(2024, 5, "GRIFF")

	picked, err := empty.ClickSpread(game, "BUF", game.SpreadLine)
	require.NoError(t, err)

	assert.True(t, empty.IsEmpty())
	assert.Equal(t, 1, picked.Len())
}

func TestCanClick(t *testing.T) {
	games := weekFiveGames()

	t.Run("no picker", func(t *testing.T) {
		_, err := NewPickSet(2024, 5, "").ClickSpread(games[0], "KC", nil)
		assert.True(t, errors.Is(err, ErrNoPicker))
	})

	t.Run("other side already picked", func(t *testing.T) {
		set, err := NewPickSet(2024, 5, "GRIFF").ClickSpread(games[0], "KC", nil)
		require.NoError(t, err)
		_, err = set.ClickSpread(games[0], "BUF", nil)
		assert.True(t, errors.Is(err, ErrOtherSidePicked))
	})

	t.Run("team not in game", func(t *testing.T) {
		_, err := NewPickSet(2024, 5, "GRIFF").ClickSpread(games[0], "DAL", nil)
		assert.True(t, errors.Is(err, ErrTeamNotInGame))
	})

	t.Run("different week", func(t *testing.T) {
		_, err := NewPickSet(2024, 6, "GRIFF").ClickSpread(games[0], "KC", nil)
		assert.True(t, errors.Is(err, ErrWeekMismatch))
	})

	t.Run("cap reached by other games", func(t *testing.T) {
		set := NewPickSet(2024, 5, "GRIFF")
		var err error
		for _, g := range games[:MaxSpreadPicks] {
			set, err = set.ClickSpread(g, g.Home, g.SpreadLine)
			require.NoError(t, err)
		}
		assert.Equal(t, MaxSpreadPicks, set.SpreadPickCount())

		_, err = set.ClickSpread(games[MaxSpreadPicks], games[MaxSpreadPicks].Away, nil)
		assert.True(t, errors.Is(err, ErrPickCapReached))

		// a game already in the set can still cycle
		set, err = set.ClickSpread(games[0], games[0].Home, nil)
		require.NoError(t, err)
		assert.Equal(t, PickKindBestBet, set.Selection(games[0].ID).Kind)
	})
}

func TestSideOfCapPicks(t *testing.T) {
	games := weekFiveGames()
	set := NewPickSet(2024, 5, "GRIFF")
	var err error
	for _, g := range games[:MaxSpreadPicks] {
		set, err = set.ClickSpread(g, g.Away, g.SpreadLine)
		require.NoError(t, err)
	}

	set, err = set.ClickSurvivor(games[2], "CHI", games[2].SpreadLine)
	require.NoError(t, err)
	set, err = set.ClickUnderdog(games[3], "MIA", games[3].SpreadLine)
	require.NoError(t, err)
	mnf := games[len(games)-1]
	set, err = set.ClickMNF(mnf, mnf.Home, mnf.SpreadLine)
	require.NoError(t, err)

	assert.Equal(t, 9, set.Len())
	assert.Equal(t, MaxSpreadPicks, set.SpreadPickCount())
	require.NoError(t, ValidateForSave(set))

	records := set.Records()
	assert.Equal(t, PickKindSurvivor, records[6].Kind)
	assert.Equal(t, PickKindUnderdog, records[7].Kind)
	assert.Equal(t, PickKindMNF, records[8].Kind)
}

func TestClickSurvivorToggle(t *testing.T) {
	games := weekFiveGames()
	set := NewPickSet(2024, 5, "GRIFF")

	set, err := set.ClickSurvivor(games[0], "KC", nil)
	require.NoError(t, err)
	assert.Equal(t, "KC", set.Survivor().Team)

	set, err = set.ClickSurvivor(games[1], "PHI", nil)
	require.NoError(t, err)
	assert.Equal(t, "PHI", set.Survivor().Team)
	assert.Equal(t, games[1].ID, set.Survivor().GameID)

	set, err = set.ClickSurvivor(games[1], "PHI", nil)
	require.NoError(t, err)
	assert.Nil(t, set.Survivor())
}

func TestClickUnderdogIndependentOfSurvivor(t *testing.T) {
	games := weekFiveGames()
	set := NewPickSet(2024, 5, "GRIFF")

	set, err := set.ClickSurvivor(games[0], "KC", nil)
	require.NoError(t, err)
	set, err = set.ClickUnderdog(games[0], "BUF", nil)
	require.NoError(t, err)
	set, err = set.ClickSpread(games[0], "KC", nil)
	require.NoError(t, err)

	assert.Equal(t, "KC", set.Survivor().Team)
	assert.Equal(t, "BUF", set.Underdog().Team)
	assert.Equal(t, 3, set.Len())
}

func TestClickMNF(t *testing.T) {
	games := weekFiveGames()
	mnf := games[len(games)-1]
	set := NewPickSet(2024, 5, "GRIFF")

	_, err := set.ClickMNF(games[0], "KC", nil)
	assert.True(t, errors.Is(err, ErrNotMNFGame))

	set, err = set.ClickMNF(mnf, "PIT", nil)
	require.NoError(t, err)
	assert.Equal(t, "PIT", set.MNF().Team)

	set, err = set.ClickMNF(mnf, "PIT", nil)
	require.NoError(t, err)
	assert.Nil(t, set.MNF())
}

func TestValidateForSave(t *testing.T) {
	game := weekFiveGames()[0]

	assert.True(t, errors.Is(ValidateForSave(NewPickSet(2024, 5, "")), ErrNoPicker))
	assert.True(t, errors.Is(ValidateForSave(NewPickSet(2024, 5, "GRIFF")), ErrEmptyPickSet))

	set, err := NewPickSet(2024, 5, "GRIFF").ClickSurvivor(game, "KC", nil)
	require.NoError(t, err)
	assert.NoError(t, ValidateForSave(set))
}

func TestCapInvariantUnderRandomClicks(t *testing.T) {
	games := weekFiveGames()
	rng := rand.New(rand.NewSource(42))
	set := NewPickSet(2024, 5, "GRIFF")

	for i := 0; i < 2000; i++ {
		g := games[rng.Intn(len(games))]
		team := g.Away
		if rng.Intn(2) == 0 {
			team = g.Home
		}
		if next, err := set.ClickSpread(g, team, g.SpreadLine); err == nil {
			set = next
		}

		require.LessOrEqual(t, set.SpreadPickCount(), MaxSpreadPicks)
		for _, g := range games {
			sel := set.Selection(g.ID)
			if sel != nil {
				require.True(t, g.HasTeam(sel.Team))
			}
		}
	}
}

func TestPickSetFromRecords(t *testing.T) {
	records := []PickRecord{
		{GameID: "2024_05_BUF_KC", Team: "KC", Kind: PickKindRegular},
		{GameID: "2024_05_DAL_PHI", Team: "DAL", Kind: PickKindBestBet, Spread: Float(2.5)},
		{GameID: "2024_05_GB_CHI", Team: "GB", Kind: PickKindSurvivor},
	}

	set, dropped := PickSetFromRecords(2024, 5, "GRIFF", records)
	assert.Empty(t, dropped)
	assert.Equal(t, 2, set.SpreadPickCount())
	assert.Equal(t, "KC", set.Selection("2024_05_BUF_KC").Team)
	assert.Equal(t, "GB", set.Survivor().Team)

	picks := set.Picks()
	require.Len(t, picks, 3)
	assert.Equal(t, "GRIFF", picks[0].Picker)
	assert.Equal(t, 2024, picks[1].Season)
	assert.Equal(t, "best_bet", picks[1].PickType)
	assert.Equal(t, 2.5, *picks[1].Spread)
}

func TestPickSetFromRecordsDropsWhatTheSetCannotHold(t *testing.T) {
	games := []string{"BUF_KC", "DAL_PHI", "GB_CHI", "NO_ATL", "SF_LA", "NYJ_MIA", "DEN_LV"}
	var records []PickRecord
	for _, g := range games {
		teams := strings.Split(g, "_")
		records = append(records, PickRecord{GameID: "2024_05_" + g, Team: teams[1], Kind: PickKindRegular})
	}
	records = append(records,
		PickRecord{GameID: "2024_05_BUF_KC", Team: "BUF", Kind: PickKindRegular},
		PickRecord{GameID: "2024_05_GB_CHI", Team: "GB", Kind: PickKindSurvivor},
		PickRecord{GameID: "2024_05_SF_LA", Team: "SF", Kind: PickKindSurvivor},
		PickRecord{GameID: "2024_05_NO_ATL", Team: "DAL", Kind: PickKindUnderdog},
		PickRecord{GameID: "2024_05_DEN_LV", Team: "DEN", Kind: PickKindMNF},
	)

	set, dropped := PickSetFromRecords(2024, 5, "GRIFF", records)
	assert.Equal(t, MaxSpreadPicks, set.SpreadPickCount())
	assert.Nil(t, set.Selection("2024_05_DEN_LV"))
	assert.Equal(t, "KC", set.Selection("2024_05_BUF_KC").Team)
	assert.Equal(t, "GB", set.Survivor().Team)
	assert.Nil(t, set.Underdog())
	assert.Equal(t, "DEN", set.MNF().Team)

	require.Len(t, dropped, 4)
	assert.Equal(t, "2024_05_DEN_LV", dropped[0].GameID)
	assert.Equal(t, "BUF", dropped[1].Team)
	assert.Equal(t, "SF", dropped[2].Team)
	assert.Equal(t, "DAL", dropped[3].Team)
}
