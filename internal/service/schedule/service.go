package schedule

import (
	"context"
	"time"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/audit"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/schedule"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/repository/postgresql"
)

type ScheduleServiceImpl struct {
	db *database.DB
	schedule.ScheduleRepository
	schedule.ShiftTemplateRepository
	schedule.ShiftRepository
	schedule.ShiftAssignmentRepository
	user.UserRepository
	audit.AuditLogRepository
}

func NewScheduleService(
	db *database.DB,
	scheduleRepository schedule.ScheduleRepository,
	templateRepository schedule.ShiftTemplateRepository,
	shiftRepository schedule.ShiftRepository,
	assignmentRepository schedule.ShiftAssignmentRepository,
	userRepository user.UserRepository,
	auditRepository audit.AuditLogRepository,
) schedule.ScheduleService {
	return &ScheduleServiceImpl{
		db:                        db,
		ScheduleRepository:        scheduleRepository,
		ShiftTemplateRepository:   templateRepository,
		ShiftRepository:           shiftRepository,
		ShiftAssignmentRepository: assignmentRepository,
		UserRepository:            userRepository,
		AuditLogRepository:        auditRepository,
	}
}

// CreateSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) CreateSchedule(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	start, end := req.DateRange()

	created, err := s.ScheduleRepository.Create(ctx, schedule.Schedule{
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		Status:    schedule.ScheduleStatus(req.Status),
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	return schedule.ToScheduleResponse(created), nil
}

// GetSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) GetSchedule(ctx context.Context, id string) (schedule.ScheduleResponse, error) {
	sch, err := s.ScheduleRepository.GetByID(ctx, id)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return schedule.ToScheduleResponse(sch), nil
}

// ListSchedules implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListSchedules(ctx context.Context) ([]schedule.ScheduleResponse, error) {
	schedules, err := s.ScheduleRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]schedule.ScheduleResponse, 0, len(schedules))
	for _, sch := range schedules {
		resp = append(resp, schedule.ToScheduleResponse(sch))
	}
	return resp, nil
}

// UpdateSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) UpdateSchedule(ctx context.Context, req schedule.UpdateScheduleRequest) (schedule.ScheduleResponse, error) {
	sch, err := s.ScheduleRepository.GetByID(ctx, req.ID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	sch.Name = req.Name
	sch.StartDate, sch.EndDate = req.DateRange()

	updated, err := s.ScheduleRepository.Update(ctx, sch)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	return schedule.ToScheduleResponse(updated), nil
}

// UpdateScheduleStatus implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) UpdateScheduleStatus(ctx context.Context, id string, status schedule.ScheduleStatus) error {
	if _, err := s.ScheduleRepository.GetByID(ctx, id); err != nil {
		return err
	}
	return s.ScheduleRepository.UpdateStatus(ctx, id, status)
}

// CreateShiftTemplate implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) CreateShiftTemplate(ctx context.Context, req schedule.CreateShiftTemplateRequest) (schedule.ShiftTemplateResponse, error) {
	created, err := s.ShiftTemplateRepository.Create(ctx, schedule.ShiftTemplate{
		Label:     req.Label,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Color:     req.Color,
	})
	if err != nil {
		return schedule.ShiftTemplateResponse{}, err
	}
	return schedule.ToShiftTemplateResponse(created), nil
}

// ListShiftTemplates implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListShiftTemplates(ctx context.Context) ([]schedule.ShiftTemplateResponse, error) {
	templates, err := s.ShiftTemplateRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]schedule.ShiftTemplateResponse, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, schedule.ToShiftTemplateResponse(t))
	}
	return resp, nil
}

// DeleteShiftTemplate implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DeleteShiftTemplate(ctx context.Context, id string) error {
	return s.ShiftTemplateRepository.Delete(ctx, id)
}

// CreateShift implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) CreateShift(ctx context.Context, req schedule.CreateShiftRequest, actorID string) (schedule.ShiftResponse, error) {
	if req.ScheduleID != nil {
		if _, err := s.ScheduleRepository.GetByID(ctx, *req.ScheduleID); err != nil {
			return schedule.ShiftResponse{}, err
		}
	}
	if req.TemplateID != nil {
		if _, err := s.ShiftTemplateRepository.GetByID(ctx, *req.TemplateID); err != nil {
			return schedule.ShiftResponse{}, err
		}
	}

	start, end := req.Interval()
	newShift := schedule.Shift{
		ScheduleID:   req.ScheduleID,
		TemplateID:   req.TemplateID,
		JobName:      req.JobName,
		StartTime:    start,
		EndTime:      end,
		Status:       schedule.ShiftStatusOpen,
		MaxAssignees: req.MaxAssignees,
		NoteExempt:   req.NoteExempt,
	}

	var created schedule.Shift
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		created, err = s.ShiftRepository.Create(txCtx, newShift)
		if err != nil {
			return err
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionCreate,
			ResourceType: audit.ResourceShift,
			ResourceID:   created.ID,
		})
		return err
	})
	if err != nil {
		return schedule.ShiftResponse{}, err
	}

	return schedule.ToShiftResponse(created, time.Now()), nil
}

// GetShift implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) GetShift(ctx context.Context, id string) (schedule.ShiftResponse, error) {
	shift, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		return schedule.ShiftResponse{}, err
	}

	assignments, err := s.ShiftAssignmentRepository.ListByShift(ctx, id)
	if err != nil {
		return schedule.ShiftResponse{}, err
	}
	shift.Assignments = assignments

	return schedule.ToShiftResponse(shift, time.Now()), nil
}

// ListShifts implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListShifts(ctx context.Context) ([]schedule.ShiftResponse, error) {
	shifts, err := s.ShiftRepository.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.toShiftResponses(shifts), nil
}

// ListShiftsBySchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListShiftsBySchedule(ctx context.Context, scheduleID string) ([]schedule.ShiftResponse, error) {
	if _, err := s.ScheduleRepository.GetByID(ctx, scheduleID); err != nil {
		return nil, err
	}

	shifts, err := s.ShiftRepository.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return s.toShiftResponses(shifts), nil
}

func (s *ScheduleServiceImpl) toShiftResponses(shifts []schedule.Shift) []schedule.ShiftResponse {
	now := time.Now()
	resp := make([]schedule.ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		resp = append(resp, schedule.ToShiftResponse(shift, now))
	}
	return resp
}

// TransitionShift implements schedule.ScheduleService. The transition is
// validated from the effective status, so a shift whose start time already
// derived it into in_progress can be completed without an explicit
// in_progress write first. The derived state is persisted along with the
// requested one.
func (s *ScheduleServiceImpl) TransitionShift(ctx context.Context, req schedule.TransitionShiftRequest, actorID string) (schedule.ShiftResponse, error) {
	var shift schedule.Shift
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		shift, err = s.ShiftRepository.GetByIDForUpdate(txCtx, req.ShiftID)
		if err != nil {
			return err
		}

		shift.Status = shift.EffectiveStatus(time.Now())
		if err := shift.Transition(schedule.ShiftStatus(req.Status)); err != nil {
			return err
		}

		if err := s.ShiftRepository.UpdateStatus(txCtx, shift.ID, shift.Status); err != nil {
			return err
		}

		// Completing the shift completes everyone still on it.
		if shift.Status == schedule.ShiftStatusCompleted {
			if err := s.ShiftAssignmentRepository.CompleteActiveByShift(txCtx, shift.ID); err != nil {
				return err
			}
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionUpdate,
			ResourceType: audit.ResourceShift,
			ResourceID:   shift.ID,
		})
		return err
	})
	if err != nil {
		return schedule.ShiftResponse{}, err
	}

	return schedule.ToShiftResponse(shift, time.Now()), nil
}

// AssignUser implements schedule.ScheduleService. The shift row is locked
// for the capacity check, so two concurrent assignments serialize and the
// loser sees the updated count.
func (s *ScheduleServiceImpl) AssignUser(ctx context.Context, req schedule.CreateAssignmentRequest, actorID string) (schedule.ShiftAssignmentResponse, error) {
	assignee, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return schedule.ShiftAssignmentResponse{}, err
	}
	if !assignee.IsActive() {
		return schedule.ShiftAssignmentResponse{}, user.ErrUserArchived
	}

	var created schedule.ShiftAssignment
	var shift schedule.Shift
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		shift, err = s.ShiftRepository.GetByIDForUpdate(txCtx, req.ShiftID)
		if err != nil {
			return err
		}

		if shift.Status != schedule.ShiftStatusOpen && shift.Status != schedule.ShiftStatusAssigned {
			return schedule.ErrShiftNotAssignable
		}

		count, err := s.ShiftAssignmentRepository.CountActiveByShift(txCtx, shift.ID)
		if err != nil {
			return err
		}
		if count >= shift.MaxAssignees {
			return schedule.ErrCapacityExceeded
		}

		created, err = s.ShiftAssignmentRepository.Create(txCtx, schedule.ShiftAssignment{
			ShiftID:    shift.ID,
			UserID:     req.UserID,
			Status:     schedule.AssignmentStatusAssigned,
			AssignedAt: time.Now(),
		})
		if err != nil {
			return err
		}

		if shift.Status == schedule.ShiftStatusOpen {
			if err := s.ShiftRepository.UpdateStatus(txCtx, shift.ID, schedule.ShiftStatusAssigned); err != nil {
				return err
			}
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionUpdate,
			ResourceType: audit.ResourceShift,
			ResourceID:   shift.ID,
		})
		return err
	})
	if err != nil {
		return schedule.ShiftAssignmentResponse{}, err
	}

	resp := schedule.ToShiftAssignmentResponse(created)
	rate := assignee.RateForJob(shift.JobName)
	resp.JobRate = &rate
	return resp, nil
}

// ListAssignmentsByUser implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListAssignmentsByUser(ctx context.Context, userID string) ([]schedule.ShiftAssignmentResponse, error) {
	assignments, err := s.ShiftAssignmentRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]schedule.ShiftAssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, schedule.ToShiftAssignmentResponse(a))
	}
	return resp, nil
}

// AcceptAssignment implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) AcceptAssignment(ctx context.Context, assignmentID string, userID string) (schedule.ShiftAssignmentResponse, error) {
	assignment, err := s.ShiftAssignmentRepository.GetByID(ctx, assignmentID)
	if err != nil {
		return schedule.ShiftAssignmentResponse{}, err
	}
	if assignment.UserID != userID {
		return schedule.ShiftAssignmentResponse{}, schedule.ErrAssignmentNotFound
	}
	if assignment.Status != schedule.AssignmentStatusAssigned {
		return schedule.ShiftAssignmentResponse{}, schedule.ErrAssignmentDecided
	}

	accepted, err := s.ShiftAssignmentRepository.Accept(ctx, assignmentID)
	if err != nil {
		return schedule.ShiftAssignmentResponse{}, err
	}
	return schedule.ToShiftAssignmentResponse(accepted), nil
}

// RejectAssignment implements schedule.ScheduleService. Rejecting the last
// active assignment reverts the shift to open so its slot can be refilled.
func (s *ScheduleServiceImpl) RejectAssignment(ctx context.Context, assignmentID string, userID string) (schedule.ShiftAssignmentResponse, error) {
	assignment, err := s.ShiftAssignmentRepository.GetByID(ctx, assignmentID)
	if err != nil {
		return schedule.ShiftAssignmentResponse{}, err
	}
	if assignment.UserID != userID {
		return schedule.ShiftAssignmentResponse{}, schedule.ErrAssignmentNotFound
	}
	if assignment.Status != schedule.AssignmentStatusAssigned {
		return schedule.ShiftAssignmentResponse{}, schedule.ErrAssignmentDecided
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		shift, err := s.ShiftRepository.GetByIDForUpdate(txCtx, assignment.ShiftID)
		if err != nil {
			return err
		}

		if err := s.ShiftAssignmentRepository.UpdateStatus(txCtx, assignmentID, schedule.AssignmentStatusRejected); err != nil {
			return err
		}

		count, err := s.ShiftAssignmentRepository.CountActiveByShift(txCtx, shift.ID)
		if err != nil {
			return err
		}
		if count == 0 && shift.Status == schedule.ShiftStatusAssigned {
			if err := s.ShiftRepository.UpdateStatus(txCtx, shift.ID, schedule.ShiftStatusOpen); err != nil {
				return err
			}
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      userID,
			Action:       audit.ActionReject,
			ResourceType: audit.ResourceShift,
			ResourceID:   shift.ID,
		})
		return err
	})
	if err != nil {
		return schedule.ShiftAssignmentResponse{}, err
	}

	rejected, err := s.ShiftAssignmentRepository.GetByID(ctx, assignmentID)
	if err != nil {
		return schedule.ShiftAssignmentResponse{}, err
	}
	return schedule.ToShiftAssignmentResponse(rejected), nil
}
