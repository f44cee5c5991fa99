package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/timeentry"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
)

type timeEntryRepositoryImpl struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timeentry.TimeEntryRepository {
	return &timeEntryRepositoryImpl{db: db}
}

const timeEntryColumns = `id, user_id, shift_id, clock_in, clock_out, break_minutes,
	   status, attachments, signature_path, note, created_at, updated_at`

func scanTimeEntry(row pgx.Row) (timeentry.TimeEntry, error) {
	var e timeentry.TimeEntry
	err := row.Scan(
		&e.ID, &e.UserID, &e.ShiftID, &e.ClockIn, &e.ClockOut, &e.BreakMinutes,
		&e.Status, &e.Attachments, &e.SignaturePath, &e.Note, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// Create implements timeentry.TimeEntryRepository. The partial unique index
// on (user_id) WHERE status = 'active' makes a second concurrent clock-in
// fail at the database rather than racing the application check.
func (r *timeEntryRepositoryImpl) Create(ctx context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_entries (user_id, shift_id, clock_in, break_minutes, status, attachments, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if e.Attachments == nil {
		e.Attachments = []string{}
	}

	err := q.QueryRow(ctx, query,
		e.UserID, e.ShiftID, e.ClockIn, e.BreakMinutes, e.Status, e.Attachments, e.Note,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return timeentry.TimeEntry{}, timeentry.ErrAlreadyClockedIn
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return e, nil
}

// GetByID implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) GetByID(ctx context.Context, id string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	e, err := scanTimeEntry(q.QueryRow(ctx, `SELECT `+timeEntryColumns+` FROM time_entries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get time entry by ID: %w", err)
	}

	return e, nil
}

// GetActiveByUser implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) GetActiveByUser(ctx context.Context, userID string) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE user_id = $1 AND status = $2 LIMIT 1`

	e, err := scanTimeEntry(q.QueryRow(ctx, query, userID, timeentry.StatusActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrNotClockedIn
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to get active time entry: %w", err)
	}

	return e, nil
}

// ListByUser implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries by user: %w", err)
	}
	defer rows.Close()

	return collectTimeEntries(rows)
}

// List implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) List(ctx context.Context) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+timeEntryColumns+` FROM time_entries ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	return collectTimeEntries(rows)
}

// ListCompletedInPeriod implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) ListCompletedInPeriod(ctx context.Context, userID string, periodStart, periodEnd time.Time) ([]timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + timeEntryColumns + `
		FROM time_entries
		WHERE user_id = $1
		  AND status IN ($2, $3)
		  AND clock_in >= $4
		  AND clock_in < $5
		ORDER BY clock_in ASC, id ASC
	`

	rows, err := q.Query(ctx, query, userID, timeentry.StatusCompleted, timeentry.StatusLocked, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed time entries in period: %w", err)
	}
	defer rows.Close()

	return collectTimeEntries(rows)
}

func collectTimeEntries(rows pgx.Rows) ([]timeentry.TimeEntry, error) {
	var entries []timeentry.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Update implements timeentry.TimeEntryRepository. Locked entries are
// excluded at the SQL level; the service surfaces ErrEntryLocked first for a
// better message, this is the backstop.
func (r *timeEntryRepositoryImpl) Update(ctx context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET clock_in = $1, clock_out = $2, break_minutes = $3, status = $4, note = $5, signature_path = $6, updated_at = NOW()
		WHERE id = $7 AND status <> $8
		RETURNING ` + timeEntryColumns

	updated, err := scanTimeEntry(q.QueryRow(ctx, query,
		e.ClockIn, e.ClockOut, e.BreakMinutes, e.Status, e.Note, e.SignaturePath, e.ID, timeentry.StatusLocked,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.TimeEntry{}, timeentry.ErrEntryLocked
		}
		return timeentry.TimeEntry{}, fmt.Errorf("failed to update time entry: %w", err)
	}

	return updated, nil
}

// UpdateStatus implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) UpdateStatus(ctx context.Context, id string, status timeentry.Status) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE time_entries SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update time entry status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeentry.ErrEntryNotFound
	}
	return nil
}

// AddAttachment implements timeentry.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) AddAttachment(ctx context.Context, id string, path string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_entries
		SET attachments = array_append(attachments, $1), updated_at = NOW()
		WHERE id = $2 AND status <> $3
	`

	tag, err := q.Exec(ctx, query, path, id, timeentry.StatusLocked)
	if err != nil {
		return fmt.Errorf("failed to add attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeentry.ErrEntryLocked
	}
	return nil
}
