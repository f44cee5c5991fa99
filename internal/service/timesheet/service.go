package timesheet

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/audit"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/timeentry"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/timesheet"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/repository/postgresql"
)

type TimesheetServiceImpl struct {
	db *database.DB
	timesheet.TimesheetRepository
	timeentry.TimeEntryRepository
	user.UserRepository
	audit.AuditLogRepository

	overtimeThreshold decimal.Decimal
}

func NewTimesheetService(
	db *database.DB,
	timesheetRepository timesheet.TimesheetRepository,
	entryRepository timeentry.TimeEntryRepository,
	userRepository user.UserRepository,
	auditRepository audit.AuditLogRepository,
	weeklyOvertimeThresholdHours int,
) timesheet.TimesheetService {
	return &TimesheetServiceImpl{
		db:                  db,
		TimesheetRepository: timesheetRepository,
		TimeEntryRepository: entryRepository,
		UserRepository:      userRepository,
		AuditLogRepository:  auditRepository,
		overtimeThreshold:   decimal.NewFromInt(int64(weeklyOvertimeThresholdHours)),
	}
}

// Generate implements timesheet.TimesheetService. Aggregation is idempotent:
// rerunning the same period upserts the same row. Approved and exported
// periods are immutable and refuse regeneration.
func (s *TimesheetServiceImpl) Generate(ctx context.Context, req timesheet.GenerateTimesheetRequest, actorID string) (timesheet.TimesheetResponse, error) {
	if _, err := s.UserRepository.GetByID(ctx, req.UserID); err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	periodStart, periodEnd := req.Period()

	existing, err := s.TimesheetRepository.GetByUserAndPeriod(ctx, req.UserID, periodStart)
	if err == nil && existing.IsFinal() {
		return timesheet.TimesheetResponse{}, timesheet.ErrTimesheetFinal
	}
	if err != nil && !errors.Is(err, timesheet.ErrTimesheetNotFound) {
		return timesheet.TimesheetResponse{}, err
	}

	entries, err := s.TimeEntryRepository.ListCompletedInPeriod(ctx, req.UserID, periodStart, periodEnd)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if len(entries) == 0 {
		return timesheet.TimesheetResponse{}, timesheet.ErrNoCompletedEntries
	}

	regular, overtime := s.splitHours(entries, periodStart)

	newSheet := timesheet.Timesheet{
		UserID:        req.UserID,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		RegularHours:  regular,
		OvertimeHours: overtime,
		TotalHours:    regular.Add(overtime),
		Status:        timesheet.StatusPending,
	}

	var saved timesheet.Timesheet
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		saved, err = s.TimesheetRepository.Upsert(txCtx, newSheet)
		if err != nil {
			return err
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionCreate,
			ResourceType: audit.ResourceTimesheet,
			ResourceID:   saved.ID,
			PHIAccessed:  true,
		})
		return err
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	return timesheet.ToResponse(saved), nil
}

// splitHours buckets worked time into seven-day weeks anchored at the period
// start and applies the weekly overtime threshold per bucket.
func (s *TimesheetServiceImpl) splitHours(entries []timeentry.TimeEntry, periodStart time.Time) (regular, overtime decimal.Decimal) {
	weekMinutes := map[int]int64{}
	for _, e := range entries {
		week := int(e.ClockIn.Sub(periodStart) / (7 * 24 * time.Hour))
		weekMinutes[week] += int64(e.Elapsed() / time.Minute)
	}

	sixty := decimal.NewFromInt(60)
	regular = decimal.Zero
	overtime = decimal.Zero
	for _, minutes := range weekMinutes {
		hours := decimal.NewFromInt(minutes).Div(sixty).Round(2)
		if hours.GreaterThan(s.overtimeThreshold) {
			regular = regular.Add(s.overtimeThreshold)
			overtime = overtime.Add(hours.Sub(s.overtimeThreshold))
		} else {
			regular = regular.Add(hours)
		}
	}
	return regular, overtime
}

// GetByID implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) GetByID(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	sheet, err := s.TimesheetRepository.GetByID(ctx, id)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return timesheet.ToResponse(sheet), nil
}

// ListByUser implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) ListByUser(ctx context.Context, userID string) (timesheet.ListTimesheetsResponse, error) {
	sheets, err := s.TimesheetRepository.ListByUser(ctx, userID)
	if err != nil {
		return timesheet.ListTimesheetsResponse{}, err
	}
	return toListResponse(sheets), nil
}

// List implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) List(ctx context.Context) (timesheet.ListTimesheetsResponse, error) {
	sheets, err := s.TimesheetRepository.List(ctx)
	if err != nil {
		return timesheet.ListTimesheetsResponse{}, err
	}
	return toListResponse(sheets), nil
}

func toListResponse(sheets []timesheet.Timesheet) timesheet.ListTimesheetsResponse {
	resp := timesheet.ListTimesheetsResponse{Timesheets: make([]timesheet.TimesheetResponse, 0, len(sheets))}
	for _, t := range sheets {
		resp.Timesheets = append(resp.Timesheets, timesheet.ToResponse(t))
	}
	return resp
}

// Submit implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Submit(ctx context.Context, id string, actorID string) (timesheet.TimesheetResponse, error) {
	return s.transition(ctx, id, timesheet.StatusSubmitted, actorID, audit.ActionUpdate)
}

// Approve implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Approve(ctx context.Context, req timesheet.ApproveTimesheetRequest) (timesheet.TimesheetResponse, error) {
	if req.ApprovedBy == "" {
		return timesheet.TimesheetResponse{}, timesheet.ErrApproverRequired
	}

	sheet, err := s.TimesheetRepository.GetByID(ctx, req.ID)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if !timesheet.CanTransition(sheet.Status, timesheet.StatusApproved) {
		return timesheet.TimesheetResponse{}, &timesheet.InvalidTransitionError{From: sheet.Status, To: timesheet.StatusApproved}
	}

	approvedAt := time.Now()
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.TimesheetRepository.Approve(txCtx, req.ID, req.ApprovedBy, approvedAt); err != nil {
			return err
		}

		_, err := s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      req.ApprovedBy,
			Action:       audit.ActionApprove,
			ResourceType: audit.ResourceTimesheet,
			ResourceID:   req.ID,
			PHIAccessed:  true,
		})
		return err
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	sheet.Status = timesheet.StatusApproved
	sheet.ApprovedBy = &req.ApprovedBy
	sheet.ApprovedAt = &approvedAt
	return timesheet.ToResponse(sheet), nil
}

// Reject implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Reject(ctx context.Context, id string, actorID string) (timesheet.TimesheetResponse, error) {
	return s.transition(ctx, id, timesheet.StatusRejected, actorID, audit.ActionReject)
}

// Export implements timesheet.TimesheetService.
func (s *TimesheetServiceImpl) Export(ctx context.Context, id string, actorID string) (timesheet.TimesheetResponse, error) {
	return s.transition(ctx, id, timesheet.StatusExported, actorID, audit.ActionExport)
}

func (s *TimesheetServiceImpl) transition(ctx context.Context, id string, to timesheet.Status, actorID string, action string) (timesheet.TimesheetResponse, error) {
	sheet, err := s.TimesheetRepository.GetByID(ctx, id)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	if !timesheet.CanTransition(sheet.Status, to) {
		return timesheet.TimesheetResponse{}, &timesheet.InvalidTransitionError{From: sheet.Status, To: to}
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.TimesheetRepository.UpdateStatus(txCtx, id, to); err != nil {
			return err
		}

		_, err := s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       action,
			ResourceType: audit.ResourceTimesheet,
			ResourceID:   id,
			PHIAccessed:  true,
		})
		return err
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	sheet.Status = to
	return timesheet.ToResponse(sheet), nil
}
