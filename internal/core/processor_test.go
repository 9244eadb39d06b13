package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/core/textextract"
	"github.com/joseph-ayodele/tender-analyzer/internal/repository"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (textextract.Result, error) {
	f.calls++
	if f.err != nil {
		return textextract.Result{}, f.err
	}
	return textextract.Result{Text: f.text, Pages: 1, Method: "fake"}, nil
}

func newTestProcessor(t *testing.T, ex textextract.TextExtractor) (*Processor, repository.AnalysisRepository) {
	t.Helper()
	ctx := context.Background()
	db, err := repository.Open(ctx, repository.Config{SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	repo := repository.NewAnalysisRepository(db, nil)
	return NewProcessor(nil, ex, nil, repo), repo
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestProcessFile(t *testing.T) {
	ex := &fakeExtractor{text: tenderText}
	p, repo := newTestProcessor(t, ex)
	path := writeDoc(t, "bid.pdf", "%PDF-fake")

	a, err := p.ProcessFile(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, string(constants.AnalysisStatusOK), a.Status)
	assert.Equal(t, "bid.pdf", a.Source)
	assert.Equal(t, constants.PDF, a.Format)
	require.NotNil(t, a.Result)
	assert.Equal(t, "GEM/2025/B/5512309", a.Result.KeyFields[constants.FieldTenderID])

	stored, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Result.KeyFields, stored.Result.KeyFields)

	again, err := p.ProcessFile(context.Background(), path, false)
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID, "identical content is reused")
	assert.True(t, again.Reused)
	assert.False(t, a.Reused)
	assert.Equal(t, 1, ex.calls)

	forced, err := p.ProcessFile(context.Background(), path, true)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, forced.ID)
	assert.Equal(t, 2, ex.calls)
}

func TestProcessFileExtractFailure(t *testing.T) {
	p, repo := newTestProcessor(t, &fakeExtractor{err: common.ErrNoText})
	path := writeDoc(t, "scan.pdf", "%PDF-scan")

	a, err := p.ProcessFile(context.Background(), path, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrNoText))
	require.NotNil(t, a)
	assert.Equal(t, string(constants.AnalysisStatusFailed), a.Status)

	stored, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.AnalysisStatusFailed), stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Contains(t, *stored.ErrorMessage, "no text")
}

func TestProcessFileRejectsUnsupported(t *testing.T) {
	p, _ := newTestProcessor(t, &fakeExtractor{})
	_, err := p.ProcessFile(context.Background(), writeDoc(t, "bid.docx", "x"), false)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestProcessText(t *testing.T) {
	p, _ := newTestProcessor(t, &fakeExtractor{})

	a, err := p.ProcessText(context.Background(), "pasted", tenderText)
	require.NoError(t, err)
	assert.Equal(t, constants.TEXT, a.Format)
	require.NotNil(t, a.Method)
	assert.Equal(t, textextract.MethodPlainText, *a.Method)
	assert.Len(t, a.Result.BOQItems, 2)

	again, err := p.ProcessText(context.Background(), "pasted again", tenderText)
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID)
}
