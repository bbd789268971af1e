package rating_test

import (
	"testing"

	"github.com/maelh/chessmates/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate_EqualRatingsWin(t *testing.T) {
	got, err := rating.Update(1200, 1200, rating.Win, 32)
	require.NoError(t, err)
	assert.Equal(t, 1216, got, "winner of an even match gains half the K-factor")
}

func TestUpdate_EqualRatingsLoss(t *testing.T) {
	got, err := rating.Update(1200, 1200, rating.Loss, 32)
	require.NoError(t, err)
	assert.Equal(t, 1184, got, "loser of an even match loses half the K-factor")
}

func TestUpdate_EqualRatingsDraw(t *testing.T) {
	got, err := rating.Update(1200, 1200, rating.Draw, 32)
	require.NoError(t, err)
	assert.Equal(t, 1200, got, "a draw between equals changes nothing")
}

func TestUpdate_UnderdogWinGainsMore(t *testing.T) {
	underdog, err := rating.Update(1000, 1400, rating.Win, 32)
	require.NoError(t, err)
	even, err := rating.Update(1000, 1000, rating.Win, 32)
	require.NoError(t, err)

	assert.Greater(t, underdog-1000, even-1000, "beating a stronger opponent pays more")
}

func TestUpdate_FavoriteLossCostsMore(t *testing.T) {
	favorite, err := rating.Update(1400, 1000, rating.Loss, 32)
	require.NoError(t, err)

	assert.Less(t, favorite, 1400)
	assert.Greater(t, 1400-favorite, 16, "losing as the favorite costs more than an even loss")
}

func TestUpdate_ZeroSumForEqualRatings(t *testing.T) {
	winner, err := rating.Update(1200, 1200, rating.Win, 32)
	require.NoError(t, err)
	loser, err := rating.Update(1200, 1200, rating.Loss, 32)
	require.NoError(t, err)

	assert.Equal(t, 0, (winner-1200)+(loser-1200))
}

func TestUpdate_InvalidOutcome(t *testing.T) {
	_, err := rating.Update(1200, 1200, 0.7, 32)
	assert.Error(t, err)
}

func TestUpdate_NonPositiveKFallsBackToDefault(t *testing.T) {
	got, err := rating.Update(1200, 1200, rating.Win, 0)
	require.NoError(t, err)
	assert.Equal(t, 1200+rating.DefaultK/2, got)
}
