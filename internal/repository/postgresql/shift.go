package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/schedule"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) schedule.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `id, schedule_id, template_id, job_name, start_time, end_time,
	   status, max_assignees, note_exempt, created_at, updated_at`

func scanShift(row pgx.Row) (schedule.Shift, error) {
	var s schedule.Shift
	err := row.Scan(
		&s.ID, &s.ScheduleID, &s.TemplateID, &s.JobName, &s.StartTime, &s.EndTime,
		&s.Status, &s.MaxAssignees, &s.NoteExempt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s schedule.Shift) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (schedule_id, template_id, job_name, start_time, end_time, status, max_assignees, note_exempt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		s.ScheduleID, s.TemplateID, s.JobName, s.StartTime, s.EndTime,
		s.Status, s.MaxAssignees, s.NoteExempt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return schedule.Shift{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return s, nil
}

// GetByID implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Shift{}, schedule.ErrShiftNotFound
		}
		return schedule.Shift{}, fmt.Errorf("failed to get shift by ID: %w", err)
	}

	return s, nil
}

// GetByIDForUpdate implements schedule.ShiftRepository. The row lock serializes
// concurrent assignment attempts on the same shift for the lifetime of the
// enclosing transaction.
func (r *shiftRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Shift{}, schedule.ErrShiftNotFound
		}
		return schedule.Shift{}, fmt.Errorf("failed to lock shift row: %w", err)
	}

	return s, nil
}

// ListBySchedule implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) ListBySchedule(ctx context.Context, scheduleID string) ([]schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE schedule_id = $1 ORDER BY start_time ASC, created_at ASC, id ASC`

	rows, err := q.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts by schedule: %w", err)
	}
	defer rows.Close()

	return collectShifts(rows)
}

// List implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY start_time ASC, created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	return collectShifts(rows)
}

func collectShifts(rows pgx.Rows) ([]schedule.Shift, error) {
	var shifts []schedule.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// UpdateStatus implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) UpdateStatus(ctx context.Context, id string, status schedule.ShiftStatus) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE shifts SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update shift status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrShiftNotFound
	}
	return nil
}
