package services

import (
	"context"
	"strings"
	"testing"

	"no-homers/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyCSV = `season,week,game_id,team_picked,pick_type,spread,picker
2024,5,2024_05_CLE_WAS,WSH,best_bet,-3,griff
2024,5,survivor_2024_05_NO_KC,KC,,-5.5,griff
2024,5,2024_5_BUF_HOU,BUF,,1,sam
2024,5,2024_06_BUF_HOU,BUF,,,sam
2024,5,2024_05_BUF_HOU,XYZ,,,sam
2024,5,2024_05_BUF_HOU,BUF,,,
`

func TestImportPicksCSV(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()

	summary, err := NewLegacyImportService(store).ImportPicksCSV(ctx, strings.NewReader(legacyCSV))
	require.NoError(t, err)
	assert.Equal(t, 6, summary.Rows)
	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, 2, summary.Weeks)

	griff, err := store.FindByPickerAndWeek(ctx, "GRIFF", 2024, 5)
	require.NoError(t, err)
	require.Len(t, griff, 2)
	assert.Equal(t, "WAS", griff[0].TeamPicked)
	assert.Equal(t, "best_bet", griff[0].PickType)
	assert.Equal(t, "2024_05_NO_KC", griff[1].GameID)
	assert.Equal(t, "survivor", griff[1].PickType)

	sam, err := store.FindByPickerAndWeek(ctx, "SAM", 2024, 5)
	require.NoError(t, err)
	require.Len(t, sam, 1)
	assert.Equal(t, "regular", sam[0].PickType)
	assert.Equal(t, "2024_05_BUF_HOU", sam[0].GameID)
}

func TestImportPicksCSVMissingColumn(t *testing.T) {
	_, err := NewLegacyImportService(database.NewMemoryStore()).ImportPicksCSV(context.Background(),
		strings.NewReader("season,week,team_picked,picker\n"))
	assert.Error(t, err)
}

func TestImportPicksCSVRejectsBrokenWeeks(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()

	rows := []string{"season,week,game_id,team_picked,pick_type,spread,picker"}
	// seven spread picks for GRIFF
	for _, g := range []string{"ARI_SF", "BUF_HOU", "CHI_CAR", "CLE_WAS", "DAL_PIT", "DEN_LV", "GB_LA"} {
		rows = append(rows, "2024,5,2024_05_"+g+","+strings.Split(g, "_")[0]+",regular,,griff")
	}
	rows = append(rows,
		// both sides of one game
		"2024,5,2024_05_NO_KC,NO,regular,,sam",
		"2024,5,2024_05_NO_KC,KC,regular,,sam",
		// two survivor picks
		"2024,5,2024_05_NO_KC,KC,survivor,,alex",
		"2024,5,2024_05_CLE_WAS,WAS,survivor,,alex",
		// team outside its game
		"2024,5,2024_05_NO_KC,DAL,underdog,,pat",
		// a clean week
		"2024,5,2024_05_NO_KC,KC,mnf,,lee",
		"2024,5,2024_05_CLV_WSH,CLE,best_bet,,lee",
	)

	summary, err := NewLegacyImportService(store).ImportPicksCSV(ctx, strings.NewReader(strings.Join(rows, "\n")+"\n"))
	require.NoError(t, err)
	assert.Equal(t, 14, summary.Rows)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 4, summary.Rejected)
	assert.Equal(t, 1, summary.Weeks)

	for _, picker := range []string{"GRIFF", "SAM", "ALEX", "PAT"} {
		got, err := store.FindByPickerAndWeek(ctx, picker, 2024, 5)
		require.NoError(t, err)
		assert.Empty(t, got, picker)
	}
	lee, err := store.FindByPickerAndWeek(ctx, "LEE", 2024, 5)
	require.NoError(t, err)
	require.Len(t, lee, 2)
	assert.Equal(t, "2024_05_CLE_WAS", lee[0].GameID)
}
