package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/audit"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/document"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/email"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/storage"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/repository/postgresql"
)

type DocumentServiceImpl struct {
	db *database.DB
	document.DocumentRepository
	user.UserRepository
	audit.AuditLogRepository
	storage.FileStorage
	email.EmailService

	warningWindow time.Duration
}

func NewDocumentService(
	db *database.DB,
	documentRepository document.DocumentRepository,
	userRepository user.UserRepository,
	auditRepository audit.AuditLogRepository,
	fileStorage storage.FileStorage,
	emailService email.EmailService,
	expiryWarningDays int,
) document.DocumentService {
	return &DocumentServiceImpl{
		db:                 db,
		DocumentRepository: documentRepository,
		UserRepository:     userRepository,
		AuditLogRepository: auditRepository,
		FileStorage:        fileStorage,
		EmailService:       emailService,
		warningWindow:      time.Duration(expiryWarningDays) * 24 * time.Hour,
	}
}

// Upload implements document.DocumentService.
func (s *DocumentServiceImpl) Upload(ctx context.Context, req document.UploadDocumentRequest) (document.DocumentResponse, error) {
	path := fmt.Sprintf("documents/%s/%s%s", req.UserID, uuid.NewString(), filepath.Ext(req.FileHeader.Filename))
	storedPath, err := s.FileStorage.Upload(ctx, req.File, path, req.FileHeader.Header.Get("Content-Type"))
	if err != nil {
		return document.DocumentResponse{}, fmt.Errorf("failed to store document file: %w", err)
	}

	newDoc := document.Document{
		UserID:     req.UserID,
		Name:       req.Name,
		Category:   req.Category,
		FilePath:   storedPath,
		Status:     document.StatusSubmitted,
		ExpiryDate: req.Expiry(),
	}

	var created document.Document
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		created, err = s.DocumentRepository.Create(txCtx, newDoc)
		if err != nil {
			return err
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      req.UserID,
			Action:       audit.ActionCreate,
			ResourceType: audit.ResourceDocument,
			ResourceID:   created.ID,
			PHIAccessed:  true,
		})
		return err
	})
	if err != nil {
		return document.DocumentResponse{}, err
	}

	return document.ToResponse(created, time.Now(), s.warningWindow), nil
}

// GetByID implements document.DocumentService.
func (s *DocumentServiceImpl) GetByID(ctx context.Context, id string) (document.DocumentResponse, error) {
	doc, err := s.DocumentRepository.GetByID(ctx, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	return document.ToResponse(doc, time.Now(), s.warningWindow), nil
}

// ListByUser implements document.DocumentService.
func (s *DocumentServiceImpl) ListByUser(ctx context.Context, userID string) (document.ListDocumentsResponse, error) {
	docs, err := s.DocumentRepository.ListByUser(ctx, userID)
	if err != nil {
		return document.ListDocumentsResponse{}, err
	}
	return s.toListResponse(docs), nil
}

// List implements document.DocumentService.
func (s *DocumentServiceImpl) List(ctx context.Context) (document.ListDocumentsResponse, error) {
	docs, err := s.DocumentRepository.List(ctx)
	if err != nil {
		return document.ListDocumentsResponse{}, err
	}
	return s.toListResponse(docs), nil
}

func (s *DocumentServiceImpl) toListResponse(docs []document.Document) document.ListDocumentsResponse {
	now := time.Now()
	resp := document.ListDocumentsResponse{Documents: make([]document.DocumentResponse, 0, len(docs))}
	for _, d := range docs {
		resp.Documents = append(resp.Documents, document.ToResponse(d, now, s.warningWindow))
	}
	return resp
}

// Download implements document.DocumentService. The view lands in the audit
// trail before any bytes leave storage.
func (s *DocumentServiceImpl) Download(ctx context.Context, id string, actorID string) (document.DocumentResponse, io.ReadCloser, error) {
	doc, err := s.DocumentRepository.GetByID(ctx, id)
	if err != nil {
		return document.DocumentResponse{}, nil, err
	}

	_, err = s.AuditLogRepository.Append(ctx, audit.AuditLog{
		ActorID:      actorID,
		Action:       audit.ActionView,
		ResourceType: audit.ResourceDocument,
		ResourceID:   doc.ID,
		PHIAccessed:  true,
	})
	if err != nil {
		return document.DocumentResponse{}, nil, err
	}

	reader, err := s.FileStorage.Download(ctx, doc.FilePath)
	if err != nil {
		return document.DocumentResponse{}, nil, err
	}

	return document.ToResponse(doc, time.Now(), s.warningWindow), reader, nil
}

// Review implements document.DocumentService.
func (s *DocumentServiceImpl) Review(ctx context.Context, req document.ReviewDocumentRequest) (document.DocumentResponse, error) {
	doc, err := s.DocumentRepository.GetByID(ctx, req.ID)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	if doc.Status != document.StatusSubmitted {
		return document.DocumentResponse{}, document.ErrDocumentAlreadyReviewed
	}

	status := document.StatusRejected
	action := audit.ActionReject
	if req.Approve {
		status = document.StatusApproved
		action = audit.ActionApprove
	}

	var reviewed document.Document
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		var err error
		reviewed, err = s.DocumentRepository.Review(txCtx, req.ID, status, req.ReviewedBy)
		if err != nil {
			return err
		}

		_, err = s.AuditLogRepository.Append(txCtx, audit.AuditLog{
			ActorID:      req.ReviewedBy,
			Action:       action,
			ResourceType: audit.ResourceDocument,
			ResourceID:   req.ID,
			PHIAccessed:  true,
		})
		return err
	})
	if err != nil {
		return document.DocumentResponse{}, err
	}

	return document.ToResponse(reviewed, time.Now(), s.warningWindow), nil
}

// ExpiringCount implements document.DocumentService.
func (s *DocumentServiceImpl) ExpiringCount(ctx context.Context) (document.ExpiringCountResponse, error) {
	docs, err := s.DocumentRepository.List(ctx)
	if err != nil {
		return document.ExpiringCountResponse{}, err
	}

	now := time.Now()
	var resp document.ExpiringCountResponse
	for _, d := range docs {
		switch d.EffectiveStatus(now, s.warningWindow) {
		case document.StatusExpiring:
			resp.Expiring++
		case document.StatusExpired:
			resp.Expired++
		}
	}
	return resp, nil
}

// NotifyExpiring implements document.DocumentService. Failures for one
// owner do not stop the sweep.
func (s *DocumentServiceImpl) NotifyExpiring(ctx context.Context) (document.ExpiringNoticesResponse, error) {
	docs, err := s.DocumentRepository.List(ctx)
	if err != nil {
		return document.ExpiringNoticesResponse{}, err
	}

	now := time.Now()
	var resp document.ExpiringNoticesResponse
	for _, d := range docs {
		if d.EffectiveStatus(now, s.warningWindow) != document.StatusExpiring {
			continue
		}

		owner, err := s.UserRepository.GetByID(ctx, d.UserID)
		if err != nil {
			slog.Error("failed to resolve document owner", "document_id", d.ID, "error", err)
			continue
		}

		expiry := d.ExpiryDate.Format("2006-01-02")
		if err := s.EmailService.SendDocumentExpiryNotice(owner.Email, owner.FullName, d.Name, expiry); err != nil {
			slog.Error("failed to send expiry notice", "document_id", d.ID, "error", err)
			continue
		}
		resp.Notified++
	}

	return resp, nil
}
