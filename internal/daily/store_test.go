package daily

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordrush/internal/db"
)

func TestStoreLeaderboard(t *testing.T) {
	sqlDB, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(sqlDB))

	ctx := context.Background()
	st := NewStore(sqlDB)

	played, err := st.AlreadyPlayed(ctx, "p1", "2026-10-17")
	require.NoError(t, err)
	assert.False(t, played)

	for _, r := range []Result{
		{PlayerID: "p1", Date: "2026-10-17", Answer: "KİTAP", Guesses: 4},
		{PlayerID: "p2", Date: "2026-10-17", Answer: "KİTAP", Guesses: 2},
		{PlayerID: "p3", Date: "2026-10-17", Answer: "KİTAP", Guesses: 4},
		{PlayerID: "p1", Date: "2026-10-17", Answer: "KİTAP", Guesses: 1}, // duplicate: ignored
		{PlayerID: "p4", Date: "2026-10-18", Answer: "ELMAS", Guesses: 1},
	} {
		require.NoError(t, st.InsertResult(ctx, r))
	}

	played, err = st.AlreadyPlayed(ctx, "p1", "2026-10-17")
	require.NoError(t, err)
	assert.True(t, played)

	rows, err := st.Leaderboard(ctx, "2026-10-17", 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{
		{PlayerID: "p2", Guesses: 2},
		{PlayerID: "p1", Guesses: 4},
		{PlayerID: "p3", Guesses: 4},
	}, rows)

	rows, err = st.Leaderboard(ctx, "2026-10-17", 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = st.Leaderboard(ctx, "2000-01-01", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
