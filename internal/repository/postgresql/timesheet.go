package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/timesheet"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
)

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

const timesheetColumns = `id, user_id, period_start, period_end, regular_hours, overtime_hours,
	   total_hours, status, approved_by, approved_at, created_at, updated_at`

func scanTimesheet(row pgx.Row) (timesheet.Timesheet, error) {
	var t timesheet.Timesheet
	err := row.Scan(
		&t.ID, &t.UserID, &t.PeriodStart, &t.PeriodEnd, &t.RegularHours, &t.OvertimeHours,
		&t.TotalHours, &t.Status, &t.ApprovedBy, &t.ApprovedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Upsert implements timesheet.TimesheetRepository. The conflict target is the
// unique (user_id, period_start) pair, so regenerating a period replaces its
// totals in place and resets approver fields.
func (r *timesheetRepositoryImpl) Upsert(ctx context.Context, t timesheet.Timesheet) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheets (user_id, period_start, period_end, regular_hours, overtime_hours, total_hours, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, period_start) DO UPDATE
		SET period_end = EXCLUDED.period_end,
			regular_hours = EXCLUDED.regular_hours,
			overtime_hours = EXCLUDED.overtime_hours,
			total_hours = EXCLUDED.total_hours,
			status = EXCLUDED.status,
			approved_by = NULL,
			approved_at = NULL,
			updated_at = NOW()
		RETURNING ` + timesheetColumns

	updated, err := scanTimesheet(q.QueryRow(ctx, query,
		t.UserID, t.PeriodStart, t.PeriodEnd, t.RegularHours, t.OvertimeHours, t.TotalHours, t.Status,
	))
	if err != nil {
		return timesheet.Timesheet{}, fmt.Errorf("failed to upsert timesheet: %w", err)
	}

	return updated, nil
}

// GetByID implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, t.user_id, t.period_start, t.period_end, t.regular_hours, t.overtime_hours,
			   t.total_hours, t.status, t.approved_by, t.approved_at, t.created_at, t.updated_at,
			   u.full_name AS user_name
		FROM timesheets t
		LEFT JOIN users u ON u.id = t.user_id
		WHERE t.id = $1
	`

	var t timesheet.Timesheet
	err := q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.PeriodStart, &t.PeriodEnd, &t.RegularHours, &t.OvertimeHours,
		&t.TotalHours, &t.Status, &t.ApprovedBy, &t.ApprovedAt, &t.CreatedAt, &t.UpdatedAt,
		&t.UserName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.Timesheet{}, fmt.Errorf("failed to get timesheet by ID: %w", err)
	}

	return t, nil
}

// GetByUserAndPeriod implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByUserAndPeriod(ctx context.Context, userID string, periodStart time.Time) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE user_id = $1 AND period_start = $2`

	t, err := scanTimesheet(q.QueryRow(ctx, query, userID, periodStart))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.Timesheet{}, fmt.Errorf("failed to get timesheet by user and period: %w", err)
	}

	return t, nil
}

// ListByUser implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE user_id = $1 ORDER BY period_start ASC, id ASC`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets by user: %w", err)
	}
	defer rows.Close()

	return collectTimesheets(rows)
}

// List implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) List(ctx context.Context) ([]timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+timesheetColumns+` FROM timesheets ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	defer rows.Close()

	return collectTimesheets(rows)
}

func collectTimesheets(rows pgx.Rows) ([]timesheet.Timesheet, error) {
	var timesheets []timesheet.Timesheet
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		timesheets = append(timesheets, t)
	}
	return timesheets, rows.Err()
}

// UpdateStatus implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) UpdateStatus(ctx context.Context, id string, status timesheet.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE timesheets SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update timesheet status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}

// Approve implements timesheet.TimesheetRepository. Status, approver, and
// approval timestamp move in one statement so they can never drift apart.
func (r *timesheetRepositoryImpl) Approve(ctx context.Context, id string, approvedBy string, approvedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE timesheets
		SET status = $1, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, timesheet.StatusApproved, approvedBy, approvedAt, id)
	if err != nil {
		return fmt.Errorf("failed to approve timesheet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timesheet.ErrTimesheetNotFound
	}
	return nil
}
