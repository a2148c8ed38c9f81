package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePickKind(t *testing.T) {
	for _, kind := range PickKinds {
		got, err := ParsePickKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	got, err := ParsePickKind("")
	require.NoError(t, err)
	assert.Equal(t, PickKindRegular, got)

	got, err = ParsePickKind(" Best_Bet ")
	require.NoError(t, err)
	assert.Equal(t, PickKindBestBet, got)

	_, err = ParsePickKind("parlay")
	assert.True(t, errors.Is(err, ErrUnknownPickKind))
}

func TestPickRecordNormalization(t *testing.T) {
	tests := []struct {
		name string
		row  Pick
		want PickRecord
	}{
		{
			name: "bare team is a regular pick",
			row:  Pick{GameID: "2024_05_BUF_KC", TeamPicked: "KC"},
			want: PickRecord{GameID: "2024_05_BUF_KC", Team: "KC", Kind: PickKindRegular},
		},
		{
			name: "prefixed survivor key",
			row:  Pick{GameID: "survivor_2024_05_BUF_KC", TeamPicked: "BUF"},
			want: PickRecord{GameID: "2024_05_BUF_KC", Team: "BUF", Kind: PickKindSurvivor},
		},
		{
			name: "prefixed key keeps an explicit kind",
			row:  Pick{GameID: "underdog_2024_05_BUF_KC", TeamPicked: "BUF", PickType: "underdog"},
			want: PickRecord{GameID: "2024_05_BUF_KC", Team: "BUF", Kind: PickKindUnderdog},
		},
		{
			name: "team alias is standardized",
			row:  Pick{GameID: "2024_05_LA_WAS", TeamPicked: "LAR", PickType: "best_bet", Spread: Float(1.5)},
			want: PickRecord{GameID: "2024_05_LA_WAS", Team: "LA", Kind: PickKindBestBet, Spread: Float(1.5)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.row.Record()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPickRecordRejectsUnknownTeam(t *testing.T) {
	_, err := Pick{GameID: "2024_05_BUF_KC", TeamPicked: "XXX"}.Record()
	assert.True(t, errors.Is(err, ErrUnknownTeam))
}
