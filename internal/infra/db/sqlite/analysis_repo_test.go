package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ecomlabs/research-agent/internal/domain/analysis"
	"github.com/ecomlabs/research-agent/pkg/errors"
)

func newRepo(t *testing.T) *AnalysisRepository {
	t.Helper()
	db, err := Connect(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAnalysisRepository(db)
}

func runningAnalysis(id string, created time.Time) *domain.Analysis {
	return &domain.Analysis{
		ID:        domain.AnalysisID(id),
		Query:     "iPhone 15 Pro",
		Status:    domain.StatusRunning,
		CreatedAt: created,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, runningAnalysis("a1", created)))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisID("a1"), got.ID)
	assert.Equal(t, "iPhone 15 Pro", got.Query)
	assert.Equal(t, domain.StatusRunning, got.Status)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.Nil(t, got.CompletedAt)
	assert.Nil(t, got.Report)
	assert.Nil(t, got.Error)
}

func TestCreateDuplicate(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, runningAnalysis("a1", now)))
	err := repo.Create(ctx, runningAnalysis("a1", now))
	assert.True(t, errors.Is(err, errors.ErrAlreadyExists))
}

func TestGetMissing(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestUpdateTerminalState(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, runningAnalysis("a1", created)))

	completed := created.Add(30 * time.Second)
	status := domain.StatusCompleted
	report := "reports/iPhone_15_Pro_report.html"
	require.NoError(t, repo.Update(ctx, "a1", domain.Update{
		Status:      &status,
		CompletedAt: &completed,
		Report:      &report,
	}))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(completed))
	require.NotNil(t, got.Report)
	assert.Equal(t, report, *got.Report)
	assert.Nil(t, got.Error)
	assert.True(t, got.IsTerminal())
}

func TestUpdateEmptyIsNoOp(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, runningAnalysis("a1", time.Now())))

	require.NoError(t, repo.Update(ctx, "a1", domain.Update{}))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, got.Status)
}

func TestUpdateMissing(t *testing.T) {
	repo := newRepo(t)
	status := domain.StatusFailed
	err := repo.Update(context.Background(), "nope", domain.Update{Status: &status})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestListNewestFirst(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, runningAnalysis("older", base)))
	require.NoError(t, repo.Create(ctx, runningAnalysis("newer", base.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, runningAnalysis("newest", base.Add(2*time.Second))))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, domain.AnalysisID("newest"), list[0].ID)
	assert.Equal(t, domain.AnalysisID("newer"), list[1].ID)
	assert.Equal(t, domain.AnalysisID("older"), list[2].ID)
}
