package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const applicationColumns = `id, candidate_id, job_id, company_id, status, current_round_id, notes, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (id, candidate_id, job_id, company_id, status, current_round_id, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`
	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.CandidateID,
		app.JobID,
		app.CompanyID,
		app.Status,
		nullableString(app.CurrentRoundID),
		nullableString(app.Notes),
		app.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, appID string) (Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 LIMIT 1`
	app, err := scanApplication(r.DB.QueryRowContext(ctx, query, appID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	return app, nil
}

func (r *PGRepo) ListByCompany(ctx context.Context, companyID string) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE company_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, companyID)
}

func (r *PGRepo) ListByCandidate(ctx context.Context, candidateID string) ([]Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE candidate_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, candidateID)
}

func (r *PGRepo) ListByIDs(ctx context.Context, appIDs []string) ([]Application, error) {
	if len(appIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(appIDs))
	args := make([]any, len(appIDs))
	for i, id := range appIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	return r.list(ctx, query, args...)
}

func (r *PGRepo) Update(ctx context.Context, app Application) error {
	const query = `
UPDATE applications
SET status = $1,
    current_round_id = $2,
    notes = $3,
    updated_at = now()
WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query,
		app.Status,
		nullableString(app.CurrentRoundID),
		nullableString(app.Notes),
		app.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetCandidate(ctx context.Context, candidateID string) (Candidate, error) {
	const query = `
SELECT id, full_name, email, phone
FROM users
WHERE id = $1
LIMIT 1`
	var cand Candidate
	var fullName sql.NullString
	var phone sql.NullString
	err := r.DB.QueryRowContext(ctx, query, candidateID).Scan(
		&cand.ID,
		&fullName,
		&cand.Email,
		&phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	if fullName.Valid {
		cand.Name = fullName.String
	}
	if phone.Valid {
		cand.Phone = phone.String
	}
	return cand, nil
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (Application, error) {
	var app Application
	var currentRoundID sql.NullString
	var notes sql.NullString
	err := row.Scan(
		&app.ID,
		&app.CandidateID,
		&app.JobID,
		&app.CompanyID,
		&app.Status,
		&currentRoundID,
		&notes,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return Application{}, err
	}
	if currentRoundID.Valid {
		app.CurrentRoundID = currentRoundID.String
	}
	if notes.Valid {
		app.Notes = notes.String
	}
	return app, nil
}

var _ Repo = (*PGRepo)(nil)

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
