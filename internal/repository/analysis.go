package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/tender-analyzer/constants"
	"github.com/joseph-ayodele/tender-analyzer/internal/common"
	"github.com/joseph-ayodele/tender-analyzer/internal/entity"
)

type AnalysisRepository interface {
	Start(ctx context.Context, source, format, contentHash string) (*entity.Analysis, error)
	FinishSuccess(ctx context.Context, id uuid.UUID, method string, pages int, result *entity.StructuredResult) error
	FinishFailure(ctx context.Context, id uuid.UUID, message string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Analysis, error)
	FindLatestByHash(ctx context.Context, contentHash string) (*entity.Analysis, error)
	List(ctx context.Context, limit int) ([]*entity.Analysis, error)
}

type analysisRepo struct {
	db  *DB
	log *slog.Logger
	now func() time.Time
}

func NewAnalysisRepository(db *DB, log *slog.Logger) AnalysisRepository {
	if log == nil {
		log = slog.Default()
	}
	return &analysisRepo{db: db, log: log, now: time.Now}
}

const analysisColumns = `id, source, format, content_hash, status, method, error_message, pages, diagnostics, result, started_at, finished_at`

func (r *analysisRepo) Start(ctx context.Context, source, format, contentHash string) (*entity.Analysis, error) {
	if !slices.Contains(constants.FileTypes, format) {
		return nil, fmt.Errorf("%w: format %q", common.ErrValidation, format)
	}
	a := &entity.Analysis{
		ID:          uuid.New(),
		Source:      source,
		Format:      format,
		ContentHash: contentHash,
		Status:      string(constants.AnalysisStatusRunning),
		StartedAt:   r.now().UTC().Truncate(time.Millisecond),
	}
	_, err := r.db.ExecContext(ctx, r.db.rebind(
		`INSERT INTO analysis (id, source, format, content_hash, status, started_at) VALUES ($1, $2, $3, $4, $5, $6)`),
		a.ID.String(), a.Source, a.Format, a.ContentHash, a.Status, a.StartedAt.UnixMilli(),
	)
	if err != nil {
		r.log.Error("analysis start failed", "source", source, "err", err)
		return nil, fmt.Errorf("%w: insert analysis: %v", common.ErrDatabase, err)
	}
	r.log.Info("analysis started", "analysis_id", a.ID, "source", source, "format", format)
	return a, nil
}

func (r *analysisRepo) FinishSuccess(ctx context.Context, id uuid.UUID, method string, pages int, result *entity.StructuredResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	diagnostics := 0
	if result != nil {
		diagnostics = len(result.Validation)
	}
	res, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE analysis SET status = $1, method = $2, pages = $3, diagnostics = $4, result = $5, error_message = NULL, finished_at = $6 WHERE id = $7`),
		string(constants.AnalysisStatusOK), method, pages, diagnostics, string(payload), r.now().UTC().UnixMilli(), id.String(),
	)
	if err := r.checkUpdated(res, err, id); err != nil {
		r.log.Error("analysis finish(OK) failed", "analysis_id", id, "err", err)
		return err
	}
	r.log.Info("analysis finished (OK)", "analysis_id", id, "method", method, "diagnostics", diagnostics)
	return nil
}

func (r *analysisRepo) FinishFailure(ctx context.Context, id uuid.UUID, message string) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(
		`UPDATE analysis SET status = $1, error_message = $2, finished_at = $3 WHERE id = $4`),
		string(constants.AnalysisStatusFailed), message, r.now().UTC().UnixMilli(), id.String(),
	)
	if err := r.checkUpdated(res, err, id); err != nil {
		r.log.Error("analysis finish(FAILED) failed", "analysis_id", id, "err", err)
		return err
	}
	r.log.Warn("analysis finished (FAILED)", "analysis_id", id, "error", message)
	return nil
}

func (r *analysisRepo) checkUpdated(res sql.Result, err error, id uuid.UUID) error {
	if err != nil {
		return fmt.Errorf("%w: update analysis: %v", common.ErrDatabase, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", common.ErrDatabase, err)
	}
	if n == 0 {
		return fmt.Errorf("analysis %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Analysis, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT `+analysisColumns+` FROM analysis WHERE id = $1`), id.String())
	a, err := scanAnalysis(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get analysis: %v", common.ErrDatabase, err)
	}
	return a, nil
}

// FindLatestByHash returns the newest successful analysis of identical content.
func (r *analysisRepo) FindLatestByHash(ctx context.Context, contentHash string) (*entity.Analysis, error) {
	row := r.db.QueryRowContext(ctx, r.db.rebind(
		`SELECT `+analysisColumns+` FROM analysis WHERE content_hash = $1 AND status = $2 ORDER BY started_at DESC LIMIT 1`),
		contentHash, string(constants.AnalysisStatusOK))
	a, err := scanAnalysis(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis with hash %s: %w", contentHash, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find analysis: %v", common.ErrDatabase, err)
	}
	return a, nil
}

// List returns the most recent analyses without their results.
func (r *analysisRepo) List(ctx context.Context, limit int) ([]*entity.Analysis, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, r.db.rebind(
		`SELECT `+analysisColumns+` FROM analysis ORDER BY started_at DESC LIMIT $1`), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list analyses: %v", common.ErrDatabase, err)
	}
	defer rows.Close()

	var out []*entity.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows, false)
		if err != nil {
			return nil, fmt.Errorf("%w: scan analysis: %v", common.ErrDatabase, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list analyses: %v", common.ErrDatabase, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(s scanner, withResult bool) (*entity.Analysis, error) {
	var (
		a                   entity.Analysis
		id                  string
		method, errMsg, raw sql.NullString
		startedAt           int64
		finishedAt          sql.NullInt64
	)
	if err := s.Scan(&id, &a.Source, &a.Format, &a.ContentHash, &a.Status, &method, &errMsg,
		&a.Pages, &a.Diagnostics, &raw, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("bad analysis id %q: %w", id, err)
	}
	a.ID = parsed
	a.StartedAt = time.UnixMilli(startedAt).UTC()
	if method.Valid {
		a.Method = &method.String
	}
	if errMsg.Valid {
		a.ErrorMessage = &errMsg.String
	}
	if finishedAt.Valid {
		t := time.UnixMilli(finishedAt.Int64).UTC()
		a.FinishedAt = &t
	}
	if withResult && raw.Valid && raw.String != "" {
		var res entity.StructuredResult
		if err := json.Unmarshal([]byte(raw.String), &res); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		a.Result = &res
	}
	return &a, nil
}
