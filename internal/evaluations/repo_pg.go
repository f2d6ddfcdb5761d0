package evaluations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"hirehelp-backend/internal/rounds"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const pgUniqueViolation = "23505"

const evaluationColumns = `id, round_id, application_id, evaluator_id, status, score, notes, feedback,
scheduled_at, reporting_at, completed_at,
interview_mode, platform, meeting_link, location, assigned_interviewers,
version, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, eval Evaluation) error {
	location, interviewers, err := encodeEvalJSON(eval)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO evaluations (id, round_id, application_id, evaluator_id, status, score, notes, feedback,
    scheduled_at, reporting_at, completed_at,
    interview_mode, platform, meeting_link, location, assigned_interviewers,
    version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, now())`
	_, err = r.DB.ExecContext(ctx, query,
		eval.ID,
		eval.RoundID,
		eval.ApplicationID,
		eval.EvaluatorID,
		string(eval.Status),
		eval.Score,
		nullString(eval.Notes),
		nullString(eval.Feedback),
		eval.ScheduledAt,
		eval.ReportingAt,
		eval.CompletedAt,
		nullString(string(eval.Mode)),
		nullString(eval.Platform),
		nullString(eval.MeetingLink),
		location,
		interviewers,
		eval.Version,
		eval.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, evalID string) (Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE id = $1 LIMIT 1`
	eval, err := scanEvaluation(r.DB.QueryRowContext(ctx, query, evalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Evaluation{}, ErrNotFound
		}
		return Evaluation{}, err
	}
	return eval, nil
}

func (r *PGRepo) GetByRoundAndApplication(ctx context.Context, roundID, applicationID string) (Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE round_id = $1 AND application_id = $2 LIMIT 1`
	eval, err := scanEvaluation(r.DB.QueryRowContext(ctx, query, roundID, applicationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Evaluation{}, ErrNotFound
		}
		return Evaluation{}, err
	}
	return eval, nil
}

func (r *PGRepo) ListByApplications(ctx context.Context, applicationIDs []string) ([]Evaluation, error) {
	if len(applicationIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(applicationIDs))
	args := make([]any, len(applicationIDs))
	for i, id := range applicationIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := `SELECT ` + evaluationColumns + ` FROM evaluations
WHERE application_id IN (` + strings.Join(placeholders, ", ") + `)
ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, eval)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, eval Evaluation) (Evaluation, error) {
	location, interviewers, err := encodeEvalJSON(eval)
	if err != nil {
		return Evaluation{}, err
	}
	const query = `
UPDATE evaluations
SET evaluator_id = $1,
    status = $2,
    score = $3,
    notes = $4,
    feedback = $5,
    scheduled_at = $6,
    reporting_at = $7,
    completed_at = $8,
    interview_mode = $9,
    platform = $10,
    meeting_link = $11,
    location = $12,
    assigned_interviewers = $13,
    version = version + 1,
    updated_at = now()
WHERE id = $14 AND version = $15`
	res, err := r.DB.ExecContext(ctx, query,
		eval.EvaluatorID,
		string(eval.Status),
		eval.Score,
		nullString(eval.Notes),
		nullString(eval.Feedback),
		eval.ScheduledAt,
		eval.ReportingAt,
		eval.CompletedAt,
		nullString(string(eval.Mode)),
		nullString(eval.Platform),
		nullString(eval.MeetingLink),
		location,
		interviewers,
		eval.ID,
		eval.Version,
	)
	if err != nil {
		return Evaluation{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Evaluation{}, err
	}
	if n == 0 {
		// Distinguish a stale version from a missing row.
		if _, getErr := r.GetByID(ctx, eval.ID); getErr != nil {
			return Evaluation{}, getErr
		}
		return Evaluation{}, ErrConflict
	}
	eval.Version++
	return eval, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row rowScanner) (Evaluation, error) {
	var eval Evaluation
	var status string
	var score sql.NullFloat64
	var notes, feedback, mode, platform, meetingLink sql.NullString
	var scheduledAt, reportingAt, completedAt sql.NullTime
	var location, interviewers []byte

	err := row.Scan(
		&eval.ID,
		&eval.RoundID,
		&eval.ApplicationID,
		&eval.EvaluatorID,
		&status,
		&score,
		&notes,
		&feedback,
		&scheduledAt,
		&reportingAt,
		&completedAt,
		&mode,
		&platform,
		&meetingLink,
		&location,
		&interviewers,
		&eval.Version,
		&eval.CreatedAt,
		&eval.UpdatedAt,
	)
	if err != nil {
		return Evaluation{}, err
	}

	eval.Status = Status(status)
	eval.Notes = notes.String
	eval.Feedback = feedback.String
	eval.Mode = Mode(mode.String)
	eval.Platform = platform.String
	eval.MeetingLink = meetingLink.String
	if score.Valid {
		v := score.Float64
		eval.Score = &v
	}
	if scheduledAt.Valid {
		t := scheduledAt.Time
		eval.ScheduledAt = &t
	}
	if reportingAt.Valid {
		t := reportingAt.Time
		eval.ReportingAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		eval.CompletedAt = &t
	}
	if len(location) > 0 {
		var loc OfflineDetails
		if err := json.Unmarshal(location, &loc); err != nil {
			return Evaluation{}, fmt.Errorf("decode location: %w", err)
		}
		eval.Location = &loc
	}
	if len(interviewers) > 0 {
		var list []rounds.Interviewer
		if err := json.Unmarshal(interviewers, &list); err != nil {
			return Evaluation{}, fmt.Errorf("decode interviewers: %w", err)
		}
		eval.Interviewers = list
	}
	return eval, nil
}

func encodeEvalJSON(eval Evaluation) (location, interviewers any, err error) {
	if eval.Location != nil {
		b, err := json.Marshal(eval.Location)
		if err != nil {
			return nil, nil, fmt.Errorf("encode location: %w", err)
		}
		location = b
	}
	if len(eval.Interviewers) > 0 {
		b, err := json.Marshal(eval.Interviewers)
		if err != nil {
			return nil, nil, fmt.Errorf("encode interviewers: %w", err)
		}
		interviewers = b
	}
	return location, interviewers, nil
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
