package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/schedule"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
)

type scheduleRepositoryImpl struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}

const scheduleColumns = `id, name, start_date, end_date, status, created_by, created_at, updated_at`

func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var s schedule.Schedule
	err := row.Scan(
		&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.Status, &s.CreatedBy,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO schedules (name, start_date, end_date, status, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, s.Name, s.StartDate, s.EndDate, s.Status, s.CreatedBy).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to create schedule: %w", err)
	}

	return s, nil
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	s, err := scanSchedule(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule by ID: %w", err)
	}

	return s, nil
}

// List implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) List(ctx context.Context) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY created_at ASC, id ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

// Update implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Update(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE schedules
		SET name = $1, start_date = $2, end_date = $3, status = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + scheduleColumns

	updated, err := scanSchedule(q.QueryRow(ctx, query, s.Name, s.StartDate, s.EndDate, s.Status, s.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to update schedule: %w", err)
	}

	return updated, nil
}

// UpdateStatus implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) UpdateStatus(ctx context.Context, id string, status schedule.ScheduleStatus) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE schedules SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

// ========================================
// SHIFT TEMPLATES
// ========================================

type shiftTemplateRepositoryImpl struct {
	db *database.DB
}

func NewShiftTemplateRepository(db *database.DB) schedule.ShiftTemplateRepository {
	return &shiftTemplateRepositoryImpl{db: db}
}

const templateColumns = `id, label, start_time, end_time, color, created_at, updated_at`

func scanTemplate(row pgx.Row) (schedule.ShiftTemplate, error) {
	var t schedule.ShiftTemplate
	err := row.Scan(&t.ID, &t.Label, &t.StartTime, &t.EndTime, &t.Color, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// Create implements schedule.ShiftTemplateRepository.
func (r *shiftTemplateRepositoryImpl) Create(ctx context.Context, t schedule.ShiftTemplate) (schedule.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_templates (label, start_time, end_time, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, t.Label, t.StartTime, t.EndTime, t.Color).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return schedule.ShiftTemplate{}, fmt.Errorf("failed to create shift template: %w", err)
	}

	return t, nil
}

// GetByID implements schedule.ShiftTemplateRepository.
func (r *shiftTemplateRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	t, err := scanTemplate(q.QueryRow(ctx, `SELECT `+templateColumns+` FROM shift_templates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.ShiftTemplate{}, schedule.ErrTemplateNotFound
		}
		return schedule.ShiftTemplate{}, fmt.Errorf("failed to get shift template by ID: %w", err)
	}

	return t, nil
}

// List implements schedule.ShiftTemplateRepository.
func (r *shiftTemplateRepositoryImpl) List(ctx context.Context) ([]schedule.ShiftTemplate, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+templateColumns+` FROM shift_templates ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift templates: %w", err)
	}
	defer rows.Close()

	var templates []schedule.ShiftTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift template: %w", err)
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

// Delete implements schedule.ShiftTemplateRepository.
func (r *shiftTemplateRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrTemplateNotFound
	}
	return nil
}
