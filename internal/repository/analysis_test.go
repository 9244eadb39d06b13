package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, Config{SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migrate is idempotent")
	require.NoError(t, db.HealthCheck(ctx, time.Second))
	return db
}

func TestRebind(t *testing.T) {
	db := &DB{Dialect: DialectSQLite}
	assert.Equal(t, "SELECT 1 WHERE a = ?1 AND b = ?12", db.rebind("SELECT 1 WHERE a = $1 AND b = $12"))
	pg := &DB{Dialect: DialectPostgres}
	assert.Equal(t, "a = $1", pg.rebind("a = $1"))
}

func TestAnalysisLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(newTestDB(t), nil)

	a, err := repo.Start(ctx, "bid.pdf", constants.PDF, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, string(constants.AnalysisStatusRunning), a.Status)

	result := &entity.StructuredResult{
		Document:   entity.RawDocument{Source: "bid.pdf", Text: "Tender ID: 1"},
		KeyFields:  entity.KeyFieldResult{constants.FieldTenderID: "1"},
		Validation: entity.ValidationReport{{Kind: entity.DiagnosticMissingField, Field: constants.FieldOrganization, Message: "Missing critical field: Organization"}},
	}
	require.NoError(t, repo.FinishSuccess(ctx, a.ID, "pdftotext", 2, result))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.AnalysisStatusOK), got.Status)
	require.NotNil(t, got.Method)
	assert.Equal(t, "pdftotext", *got.Method)
	assert.Equal(t, 2, got.Pages)
	assert.Equal(t, 1, got.Diagnostics)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, a.StartedAt, got.StartedAt)
	require.NotNil(t, got.Result)
	assert.Equal(t, "1", got.Result.KeyFields[constants.FieldTenderID])

	latest, err := repo.FindLatestByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, latest.ID)
}

func TestAnalysisFailure(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(newTestDB(t), nil)

	a, err := repo.Start(ctx, "scan.pdf", constants.PDF, "hash-2")
	require.NoError(t, err)
	require.NoError(t, repo.FinishFailure(ctx, a.ID, "no text"))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.AnalysisStatusFailed), got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "no text", *got.ErrorMessage)
	assert.Nil(t, got.Result)

	_, err = repo.FindLatestByHash(ctx, "hash-2")
	assert.ErrorIs(t, err, common.ErrNotFound, "failed runs are not reused")
}

func TestAnalysisNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewAnalysisRepository(newTestDB(t), nil)

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, repo.FinishFailure(ctx, uuid.New(), "x"), common.ErrNotFound)
}

func TestAnalysisList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewAnalysisRepository(db, nil).(*analysisRepo)

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return at }
		_, err := repo.Start(ctx, fmt.Sprintf("doc-%d.txt", i), constants.TEXT, fmt.Sprintf("h%d", i))
		require.NoError(t, err)
	}

	list, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "doc-2.txt", list[0].Source)
	assert.Equal(t, "doc-1.txt", list[1].Source)
}

func TestAnalysisStartRejectsUnknownFormat(t *testing.T) {
	repo := NewAnalysisRepository(newTestDB(t), nil)
	_, err := repo.Start(context.Background(), "bid.docx", "DOCX", "hash-3")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}
