package jobs

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, company_id, title, description, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now())`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.CompanyID,
		job.Title,
		nullableString(job.Description),
		job.IsActive,
		job.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, jobID string) (Job, error) {
	const query = `
SELECT id, company_id, title, description, is_active, created_at, updated_at
FROM jobs
WHERE id = $1
LIMIT 1`
	var job Job
	var description sql.NullString
	err := r.DB.QueryRowContext(ctx, query, jobID).Scan(
		&job.ID,
		&job.CompanyID,
		&job.Title,
		&description,
		&job.IsActive,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	if description.Valid {
		job.Description = description.String
	}
	return job, nil
}

func (r *PGRepo) ListByCompany(ctx context.Context, companyID string) ([]Job, error) {
	const query = `
SELECT id, company_id, title, description, is_active, created_at, updated_at
FROM jobs
WHERE company_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		var job Job
		var description sql.NullString
		if err := rows.Scan(
			&job.ID,
			&job.CompanyID,
			&job.Title,
			&description,
			&job.IsActive,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if description.Valid {
			job.Description = description.String
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetCompany(ctx context.Context, companyID string) (Company, error) {
	const query = `
SELECT id, name, owner_id
FROM companies
WHERE id = $1
LIMIT 1`
	var company Company
	var ownerID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, companyID).Scan(
		&company.ID,
		&company.Name,
		&ownerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	if ownerID.Valid {
		company.OwnerID = ownerID.String
	}
	return company, nil
}

var _ Repo = (*PGRepo)(nil)

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
