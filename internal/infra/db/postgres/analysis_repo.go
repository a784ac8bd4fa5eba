package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	domain "github.com/ecomlabs/research-agent/internal/domain/analysis"
	"github.com/ecomlabs/research-agent/pkg/errors"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analysis_history
(analysis_id, query, status, created_at, completed_at, report, error)
VALUES ($1,$2,$3,$4,$5,$6,$7);`

	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		string(a.ID), a.Query, string(a.Status),
		created, a.CompletedAt, a.Report, a.Error,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errors.Wrapf(errors.ErrAlreadyExists, "analysis %s", a.ID)
		}
		return err
	}
	return nil
}

func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT analysis_id, query, status, created_at, completed_at, report, error
FROM analysis_history
WHERE analysis_id=$1 LIMIT 1;`

	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, string(id)))
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "analysis %s", id)
	}
	return a, err
}

func (r *AnalysisRepository) List(ctx context.Context) ([]*domain.Analysis, error) {
	const q = `
SELECT analysis_id, query, status, created_at, completed_at, report, error
FROM analysis_history
ORDER BY created_at DESC;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnalysisRepository) Update(ctx context.Context, id domain.AnalysisID, u domain.Update) error {
	if u.Empty() {
		return nil
	}

	var set []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if u.Status != nil {
		set = append(set, "status = "+arg(string(*u.Status)))
	}
	if u.CompletedAt != nil {
		set = append(set, "completed_at = "+arg(*u.CompletedAt))
	}
	if u.Report != nil {
		set = append(set, "report = "+arg(*u.Report))
	}
	if u.Error != nil {
		set = append(set, "error = "+arg(*u.Error))
	}

	q := "UPDATE analysis_history SET " + strings.Join(set, ", ") +
		" WHERE analysis_id = " + arg(string(id)) + ";"
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrapf(errors.ErrNotFound, "analysis %s", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var a domain.Analysis
	var id, status string
	var completed sql.NullTime
	var report, errMsg sql.NullString
	if err := row.Scan(&id, &a.Query, &status, &a.CreatedAt, &completed, &report, &errMsg); err != nil {
		return nil, err
	}
	a.ID = domain.AnalysisID(id)
	a.Status = domain.Status(status)
	if completed.Valid {
		t := completed.Time
		a.CompletedAt = &t
	}
	if report.Valid {
		a.Report = &report.String
	}
	if errMsg.Valid {
		a.Error = &errMsg.String
	}
	return &a, nil
}
