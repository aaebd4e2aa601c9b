package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/IonicArgon/appli-archiver/internal/domain"
)

func jobs(t *testing.T) []domain.Job {
	t.Helper()
	var out []domain.Job
	for i, h := range []string{"applied", "applied>interview>offer", "applied>rejected"} {
		j, err := domain.FromHistory(i+1, domain.Fields{
			DateApplied: "2024-01-15",
			Company:     "Co" + string(rune('A'+i)),
			Position:    "Engineer",
		}, h)
		require.NoError(t, err)
		out = append(out, j)
	}
	return out
}

func TestToSQLiteWritesSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobs.db")

	counts, err := ToSQLite(ctx, path, jobs(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.ElementsMatch(t, []StatusCount{
		{Status: domain.StatusApplied, Count: 1},
		{Status: domain.StatusOffer, Count: 1},
		{Status: domain.StatusRejected, Count: 1},
	}, counts)

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	var apps, hist int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications;`).Scan(&apps))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM status_history;`).Scan(&hist))
	assert.Equal(t, 3, apps)
	assert.Equal(t, 6, hist)

	var list string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT status_list FROM applications WHERE id = 2;`).Scan(&list))
	assert.Equal(t, "applied>interview>offer", list)
}

func TestToSQLiteReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobs.db")
	log := zaptest.NewLogger(t)

	_, err := ToSQLite(ctx, path, jobs(t), log)
	require.NoError(t, err)
	counts, err := ToSQLite(ctx, path, jobs(t)[:1], log)
	require.NoError(t, err)
	assert.Equal(t, []StatusCount{{Status: domain.StatusApplied, Count: 1}}, counts)

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	var apps, hist int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications;`).Scan(&apps))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM status_history;`).Scan(&hist))
	assert.Equal(t, 1, apps)
	assert.Equal(t, 1, hist)
}
