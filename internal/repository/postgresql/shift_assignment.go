package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/schedule"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
)

type shiftAssignmentRepositoryImpl struct {
	db *database.DB
}

func NewShiftAssignmentRepository(db *database.DB) schedule.ShiftAssignmentRepository {
	return &shiftAssignmentRepositoryImpl{db: db}
}

const assignmentColumns = `id, shift_id, user_id, status, assigned_at, accepted_at, created_at, updated_at`

func scanAssignment(row pgx.Row) (schedule.ShiftAssignment, error) {
	var a schedule.ShiftAssignment
	err := row.Scan(
		&a.ID, &a.ShiftID, &a.UserID, &a.Status, &a.AssignedAt, &a.AcceptedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements schedule.ShiftAssignmentRepository. The unique constraint
// on (shift_id, user_id) backs the one-assignment-per-user-per-shift rule.
func (r *shiftAssignmentRepositoryImpl) Create(ctx context.Context, a schedule.ShiftAssignment) (schedule.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (shift_id, user_id, status, assigned_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, a.ShiftID, a.UserID, a.Status, a.AssignedAt).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return schedule.ShiftAssignment{}, schedule.ErrDuplicateAssignee
		}
		return schedule.ShiftAssignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return a, nil
}

// GetByID implements schedule.ShiftAssignmentRepository.
func (r *shiftAssignmentRepositoryImpl) GetByID(ctx context.Context, id string) (schedule.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAssignment(q.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM shift_assignments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.ShiftAssignment{}, schedule.ErrAssignmentNotFound
		}
		return schedule.ShiftAssignment{}, fmt.Errorf("failed to get shift assignment by ID: %w", err)
	}

	return a, nil
}

// ListByShift implements schedule.ShiftAssignmentRepository.
func (r *shiftAssignmentRepositoryImpl) ListByShift(ctx context.Context, shiftID string) ([]schedule.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.shift_id, a.user_id, a.status, a.assigned_at, a.accepted_at,
			   a.created_at, a.updated_at,
			   u.full_name AS user_name
		FROM shift_assignments a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.shift_id = $1
		ORDER BY a.created_at ASC, a.id ASC
	`

	rows, err := q.Query(ctx, query, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments by shift: %w", err)
	}
	defer rows.Close()

	var assignments []schedule.ShiftAssignment
	for rows.Next() {
		var a schedule.ShiftAssignment
		err := rows.Scan(
			&a.ID, &a.ShiftID, &a.UserID, &a.Status, &a.AssignedAt, &a.AcceptedAt,
			&a.CreatedAt, &a.UpdatedAt, &a.UserName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// ListByUser implements schedule.ShiftAssignmentRepository.
func (r *shiftAssignmentRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]schedule.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + assignmentColumns + ` FROM shift_assignments WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments by user: %w", err)
	}
	defer rows.Close()

	var assignments []schedule.ShiftAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// CountActiveByShift implements schedule.ShiftAssignmentRepository.
func (r *shiftAssignmentRepositoryImpl) CountActiveByShift(ctx context.Context, shiftID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM shift_assignments WHERE shift_id = $1 AND status <> $2`,
		shiftID, schedule.AssignmentStatusRejected,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active assignments: %w", err)
	}

	return count, nil
}

// UpdateStatus implements schedule.ShiftAssignmentRepository.
func (r *shiftAssignmentRepositoryImpl) UpdateStatus(ctx context.Context, id string, status schedule.AssignmentStatus) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE shift_assignments SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrAssignmentNotFound
	}
	return nil
}

// Accept implements schedule.ShiftAssignmentRepository. Status and
// accepted_at move together so assignedAt <= acceptedAt always holds.
func (r *shiftAssignmentRepositoryImpl) Accept(ctx context.Context, id string) (schedule.ShiftAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET status = $1, accepted_at = NOW(), updated_at = NOW()
		WHERE id = $2
		RETURNING ` + assignmentColumns

	a, err := scanAssignment(q.QueryRow(ctx, query, schedule.AssignmentStatusAccepted, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.ShiftAssignment{}, schedule.ErrAssignmentNotFound
		}
		return schedule.ShiftAssignment{}, fmt.Errorf("failed to accept shift assignment: %w", err)
	}

	return a, nil
}

// CompleteActiveByShift implements schedule.ShiftAssignmentRepository.
func (r *shiftAssignmentRepositoryImpl) CompleteActiveByShift(ctx context.Context, shiftID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`UPDATE shift_assignments SET status = $1, updated_at = NOW() WHERE shift_id = $2 AND status <> $3`,
		schedule.AssignmentStatusCompleted, shiftID, schedule.AssignmentStatusRejected,
	)
	if err != nil {
		return fmt.Errorf("failed to complete shift assignments: %w", err)
	}
	return nil
}
