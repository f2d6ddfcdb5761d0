package rounds

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const pgUniqueViolation = "23505"

const roundColumns = `id, job_id, name, description, round_order, round_type, is_archived, is_active, archived_at,
form_link, platform, duration, instructions, mcq_questions,
interview_mode, interviewers, meeting_link,
scheduled_at, scheduled_date, scheduled_time, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, round Round) error {
	questions, interviewers, err := encodeRoundJSON(round)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO rounds (id, job_id, name, description, round_order, round_type, is_archived, is_active, archived_at,
    form_link, platform, duration, instructions, mcq_questions,
    interview_mode, interviewers, meeting_link,
    scheduled_at, scheduled_date, scheduled_time, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, now())`
	_, err = r.DB.ExecContext(ctx, query,
		round.ID,
		round.JobID,
		round.Name,
		nullString(round.Description),
		round.Order,
		string(round.Type),
		round.IsArchived,
		round.IsActive,
		round.ArchivedAt,
		nullString(round.FormLink),
		nullString(round.Platform),
		nullString(round.Duration),
		nullString(round.Instructions),
		questions,
		nullString(round.InterviewMode),
		interviewers,
		nullString(round.MeetingLink),
		round.ScheduledAt,
		nullString(round.ScheduledDate),
		nullString(round.ScheduledTime),
		round.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, roundID string) (Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1 LIMIT 1`
	round, err := scanRound(r.DB.QueryRowContext(ctx, query, roundID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Round{}, ErrNotFound
		}
		return Round{}, err
	}
	return round, nil
}

func (r *PGRepo) ListByJob(ctx context.Context, jobID string) ([]Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE job_id = $1 AND is_archived = false ORDER BY round_order ASC`
	rows, err := r.DB.QueryContext(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, round)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, round Round) error {
	questions, interviewers, err := encodeRoundJSON(round)
	if err != nil {
		return err
	}
	const query = `
UPDATE rounds
SET name = $1,
    description = $2,
    round_order = $3,
    round_type = $4,
    is_archived = $5,
    is_active = $6,
    archived_at = $7,
    form_link = $8,
    platform = $9,
    duration = $10,
    instructions = $11,
    mcq_questions = $12,
    interview_mode = $13,
    interviewers = $14,
    meeting_link = $15,
    scheduled_at = $16,
    scheduled_date = $17,
    scheduled_time = $18,
    updated_at = now()
WHERE id = $19`
	res, err := r.DB.ExecContext(ctx, query,
		round.Name,
		nullString(round.Description),
		round.Order,
		string(round.Type),
		round.IsArchived,
		round.IsActive,
		round.ArchivedAt,
		nullString(round.FormLink),
		nullString(round.Platform),
		nullString(round.Duration),
		nullString(round.Instructions),
		questions,
		nullString(round.InterviewMode),
		interviewers,
		nullString(round.MeetingLink),
		round.ScheduledAt,
		nullString(round.ScheduledDate),
		nullString(round.ScheduledTime),
		round.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) LastOrder(ctx context.Context, jobID string) (int, error) {
	const query = `SELECT max(round_order) FROM rounds WHERE job_id = $1`
	var last sql.NullInt64
	if err := r.DB.QueryRowContext(ctx, query, jobID).Scan(&last); err != nil {
		return 0, err
	}
	if !last.Valid {
		return 0, ErrNotFound
	}
	return int(last.Int64), nil
}

func (r *PGRepo) NextAfter(ctx context.Context, jobID string, order int) (Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds
WHERE job_id = $1 AND round_order > $2 AND is_archived = false AND is_active = true
ORDER BY round_order ASC
LIMIT 1`
	round, err := scanRound(r.DB.QueryRowContext(ctx, query, jobID, order))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Round{}, ErrNotFound
		}
		return Round{}, err
	}
	return round, nil
}

func (r *PGRepo) OrderTaken(ctx context.Context, jobID string, order int, excludeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM rounds WHERE job_id = $1 AND round_order = $2 AND id <> $3)`
	var taken bool
	if err := r.DB.QueryRowContext(ctx, query, jobID, order, excludeID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func (r *PGRepo) CreateResponse(ctx context.Context, resp MCQResponse) error {
	answers, err := json.Marshal(resp.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	isCorrect, err := json.Marshal(resp.IsCorrect)
	if err != nil {
		return fmt.Errorf("encode correctness: %w", err)
	}
	const query = `
INSERT INTO mcq_responses (id, round_id, application_id, candidate_id, answers, is_correct, score, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.DB.ExecContext(ctx, query,
		resp.ID,
		resp.RoundID,
		resp.ApplicationID,
		resp.CandidateID,
		answers,
		isCorrect,
		resp.Score,
		resp.SubmittedAt,
	)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *PGRepo) GetResponse(ctx context.Context, roundID, applicationID string) (MCQResponse, error) {
	const query = `
SELECT id, round_id, application_id, candidate_id, answers, is_correct, score, submitted_at
FROM mcq_responses
WHERE round_id = $1 AND application_id = $2
LIMIT 1`
	var resp MCQResponse
	var answers, isCorrect []byte
	err := r.DB.QueryRowContext(ctx, query, roundID, applicationID).Scan(
		&resp.ID,
		&resp.RoundID,
		&resp.ApplicationID,
		&resp.CandidateID,
		&answers,
		&isCorrect,
		&resp.Score,
		&resp.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MCQResponse{}, ErrNotFound
		}
		return MCQResponse{}, err
	}
	if err := json.Unmarshal(answers, &resp.Answers); err != nil {
		return MCQResponse{}, fmt.Errorf("decode answers: %w", err)
	}
	if err := json.Unmarshal(isCorrect, &resp.IsCorrect); err != nil {
		return MCQResponse{}, fmt.Errorf("decode correctness: %w", err)
	}
	return resp, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRound(row rowScanner) (Round, error) {
	var round Round
	var description, formLink, platform, duration, instructions sql.NullString
	var interviewMode, meetingLink, scheduledDate, scheduledTime sql.NullString
	var roundType string
	var archivedAt, scheduledAt sql.NullTime
	var questions, interviewers []byte

	err := row.Scan(
		&round.ID,
		&round.JobID,
		&round.Name,
		&description,
		&round.Order,
		&roundType,
		&round.IsArchived,
		&round.IsActive,
		&archivedAt,
		&formLink,
		&platform,
		&duration,
		&instructions,
		&questions,
		&interviewMode,
		&interviewers,
		&meetingLink,
		&scheduledAt,
		&scheduledDate,
		&scheduledTime,
		&round.CreatedAt,
		&round.UpdatedAt,
	)
	if err != nil {
		return Round{}, err
	}

	round.Type = Type(roundType)
	round.Description = description.String
	round.FormLink = formLink.String
	round.Platform = platform.String
	round.Duration = duration.String
	round.Instructions = instructions.String
	round.InterviewMode = interviewMode.String
	round.MeetingLink = meetingLink.String
	round.ScheduledDate = scheduledDate.String
	round.ScheduledTime = scheduledTime.String
	if archivedAt.Valid {
		t := archivedAt.Time
		round.ArchivedAt = &t
	}
	if scheduledAt.Valid {
		t := scheduledAt.Time
		round.ScheduledAt = &t
	}
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &round.Questions); err != nil {
			return Round{}, fmt.Errorf("decode questions: %w", err)
		}
	}
	if len(interviewers) > 0 {
		if err := json.Unmarshal(interviewers, &round.Interviewers); err != nil {
			return Round{}, fmt.Errorf("decode interviewers: %w", err)
		}
	}
	return round, nil
}

func encodeRoundJSON(round Round) (questions, interviewers any, err error) {
	if len(round.Questions) > 0 {
		b, err := json.Marshal(round.Questions)
		if err != nil {
			return nil, nil, fmt.Errorf("encode questions: %w", err)
		}
		questions = b
	}
	if len(round.Interviewers) > 0 {
		b, err := json.Marshal(round.Interviewers)
		if err != nil {
			return nil, nil, fmt.Errorf("encode interviewers: %w", err)
		}
		interviewers = b
	}
	return questions, interviewers, nil
}

func nullString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
