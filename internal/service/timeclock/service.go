package timeclock

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/audit"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/schedule"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/timeentry"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/storage"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/repository/postgresql"
)

type TimeclockServiceImpl struct {
	db *database.DB
	timeentry.TimeEntryRepository
	schedule.ShiftRepository
	audit.AuditLogRepository
	storage.FileStorage
}

func NewTimeclockService(
	db *database.DB,
	entryRepository timeentry.TimeEntryRepository,
	shiftRepository schedule.ShiftRepository,
	auditRepository audit.AuditLogRepository,
	fileStorage storage.FileStorage,
) timeentry.TimeclockService {
	return &TimeclockServiceImpl{
		db:                  db,
		TimeEntryRepository: entryRepository,
		ShiftRepository:     shiftRepository,
		AuditLogRepository:  auditRepository,
		FileStorage:         fileStorage,
	}
}

// ClockIn implements timeentry.TimeclockService. The partial unique index on
// active entries backs the one-session-per-user rule; a concurrent duplicate
// surfaces as ErrAlreadyClockedIn from the insert.
func (s *TimeclockServiceImpl) ClockIn(ctx context.Context, req timeentry.ClockInRequest) (timeentry.TimeEntryResponse, error) {
	if _, err := s.TimeEntryRepository.GetActiveByUser(ctx, req.UserID); err == nil {
		return timeentry.TimeEntryResponse{}, timeentry.ErrAlreadyClockedIn
	} else if !errors.Is(err, timeentry.ErrNotClockedIn) {
		return timeentry.TimeEntryResponse{}, err
	}

	if req.ShiftID != nil {
		if _, err := s.ShiftRepository.GetByID(ctx, *req.ShiftID); err != nil {
			return timeentry.TimeEntryResponse{}, err
		}
	}

	var created timeentry.TimeEntry
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		created, err = s.TimeEntryRepository.Create(txCtx, timeentry.TimeEntry{
			UserID:  req.UserID,
			ShiftID: req.ShiftID,
			ClockIn: time.Now(),
			Status:  timeentry.StatusActive,
			Note:    req.Note,
		})
		if err != nil {
			return err
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      req.UserID,
			Action:       audit.ActionCreate,
			ResourceType: audit.ResourceTimeEntry,
			ResourceID:   created.ID,
			PHIAccessed:  true,
		})
		return err
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	return timeentry.ToResponse(created), nil
}

// ClockOut implements timeentry.TimeclockService.
func (s *TimeclockServiceImpl) ClockOut(ctx context.Context, req timeentry.ClockOutRequest) (timeentry.TimeEntryResponse, error) {
	entry, err := s.TimeEntryRepository.GetActiveByUser(ctx, req.UserID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	noteExempt := false
	if entry.ShiftID != nil {
		shift, err := s.ShiftRepository.GetByID(ctx, *entry.ShiftID)
		if err != nil {
			return timeentry.TimeEntryResponse{}, err
		}
		noteExempt = shift.NoteExempt
	}
	if !noteExempt && req.FileHeader == nil {
		return timeentry.TimeEntryResponse{}, timeentry.ErrAttachmentRequired
	}

	var attachmentPath string
	if req.FileHeader != nil {
		path := fmt.Sprintf("timeclock/%s/%s%s", req.UserID, uuid.NewString(), filepath.Ext(req.FileHeader.Filename))
		attachmentPath, err = s.FileStorage.Upload(ctx, req.File, path, req.FileHeader.Header.Get("Content-Type"))
		if err != nil {
			return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to store shift note attachment: %w", err)
		}
	}

	now := time.Now()
	entry.ClockOut = &now
	entry.BreakMinutes = req.BreakMinutes
	entry.Status = timeentry.StatusCompleted
	if req.Note != nil {
		entry.Note = req.Note
	}

	if req.SignatureHeader != nil {
		path := fmt.Sprintf("timeclock/%s/signatures/%s%s", req.UserID, uuid.NewString(), filepath.Ext(req.SignatureHeader.Filename))
		signaturePath, err := s.FileStorage.Upload(ctx, req.Signature, path, req.SignatureHeader.Header.Get("Content-Type"))
		if err != nil {
			return timeentry.TimeEntryResponse{}, fmt.Errorf("failed to store signature: %w", err)
		}
		entry.SignaturePath = &signaturePath
	}

	var updated timeentry.TimeEntry
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		updated, err = s.TimeEntryRepository.Update(txCtx, entry)
		if err != nil {
			return err
		}

		if attachmentPath != "" {
			if err := s.TimeEntryRepository.AddAttachment(txCtx, entry.ID, attachmentPath); err != nil {
				return err
			}
			updated.Attachments = append(updated.Attachments, attachmentPath)
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      req.UserID,
			Action:       audit.ActionUpdate,
			ResourceType: audit.ResourceTimeEntry,
			ResourceID:   entry.ID,
			PHIAccessed:  true,
		})
		return err
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	return timeentry.ToResponse(updated), nil
}

// GetActive implements timeentry.TimeclockService.
func (s *TimeclockServiceImpl) GetActive(ctx context.Context, userID string) (timeentry.TimeEntryResponse, error) {
	entry, err := s.TimeEntryRepository.GetActiveByUser(ctx, userID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	return timeentry.ToResponse(entry), nil
}

// GetByID implements timeentry.TimeclockService.
func (s *TimeclockServiceImpl) GetByID(ctx context.Context, id string) (timeentry.TimeEntryResponse, error) {
	entry, err := s.TimeEntryRepository.GetByID(ctx, id)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	return timeentry.ToResponse(entry), nil
}

// ListByUser implements timeentry.TimeclockService.
func (s *TimeclockServiceImpl) ListByUser(ctx context.Context, userID string) (timeentry.ListTimeEntriesResponse, error) {
	entries, err := s.TimeEntryRepository.ListByUser(ctx, userID)
	if err != nil {
		return timeentry.ListTimeEntriesResponse{}, err
	}
	return toListResponse(entries), nil
}

// List implements timeentry.TimeclockService.
func (s *TimeclockServiceImpl) List(ctx context.Context) (timeentry.ListTimeEntriesResponse, error) {
	entries, err := s.TimeEntryRepository.List(ctx)
	if err != nil {
		return timeentry.ListTimeEntriesResponse{}, err
	}
	return toListResponse(entries), nil
}

func toListResponse(entries []timeentry.TimeEntry) timeentry.ListTimeEntriesResponse {
	resp := timeentry.ListTimeEntriesResponse{Entries: make([]timeentry.TimeEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, timeentry.ToResponse(e))
	}
	return resp
}

// Amend implements timeentry.TimeclockService. Locked entries are excluded
// at the SQL level too, so a concurrent lock cannot slip an amendment in.
func (s *TimeclockServiceImpl) Amend(ctx context.Context, req timeentry.AmendEntryRequest, actorID string) (timeentry.TimeEntryResponse, error) {
	entry, err := s.TimeEntryRepository.GetByID(ctx, req.ID)
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}
	if entry.IsLocked() {
		return timeentry.TimeEntryResponse{}, timeentry.ErrEntryLocked
	}
	if entry.IsActive() {
		return timeentry.TimeEntryResponse{}, timeentry.ErrNotClockedIn
	}

	clockIn, clockOut := req.Times()
	if clockIn != nil {
		entry.ClockIn = *clockIn
	}
	if clockOut != nil {
		entry.ClockOut = clockOut
	}
	if entry.ClockOut != nil && !entry.ClockIn.Before(*entry.ClockOut) {
		return timeentry.TimeEntryResponse{}, timeentry.ErrClockOutBeforeIn
	}
	if req.BreakMinutes != nil {
		entry.BreakMinutes = *req.BreakMinutes
	}
	if req.Note != nil {
		entry.Note = req.Note
	}

	var updated timeentry.TimeEntry
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		updated, err = s.TimeEntryRepository.Update(txCtx, entry)
		if err != nil {
			return err
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionUpdate,
			ResourceType: audit.ResourceTimeEntry,
			ResourceID:   entry.ID,
			PHIAccessed:  true,
		})
		return err
	})
	if err != nil {
		return timeentry.TimeEntryResponse{}, err
	}

	return timeentry.ToResponse(updated), nil
}

// Lock implements timeentry.TimeclockService.
func (s *TimeclockServiceImpl) Lock(ctx context.Context, id string, actorID string) error {
	entry, err := s.TimeEntryRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.IsActive() {
		return timeentry.ErrNotClockedIn
	}
	if entry.IsLocked() {
		return nil
	}

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.TimeEntryRepository.UpdateStatus(txCtx, id, timeentry.StatusLocked); err != nil {
			return err
		}

		_, err := s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionLock,
			ResourceType: audit.ResourceTimeEntry,
			ResourceID:   id,
			PHIAccessed:  true,
		})
		return err
	})
}

// Unlock implements timeentry.TimeclockService.
func (s *TimeclockServiceImpl) Unlock(ctx context.Context, id string, actorID string) error {
	entry, err := s.TimeEntryRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !entry.IsLocked() {
		return timeentry.ErrEntryNotLocked
	}

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.TimeEntryRepository.UpdateStatus(txCtx, id, timeentry.StatusCompleted); err != nil {
			return err
		}

		_, err := s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      actorID,
			Action:       audit.ActionUnlock,
			ResourceType: audit.ResourceTimeEntry,
			ResourceID:   id,
			PHIAccessed:  true,
		})
		return err
	})
}
