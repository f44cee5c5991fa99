package document

import (
	"context"
	"io"
)

type DocumentService interface {
	Upload(ctx context.Context, req UploadDocumentRequest) (DocumentResponse, error)

	GetByID(ctx context.Context, id string) (DocumentResponse, error)
	ListByUser(ctx context.Context, userID string) (ListDocumentsResponse, error)
	List(ctx context.Context) (ListDocumentsResponse, error)

	// Download streams the stored file. Reading a credential document is a
	// PHI access and lands in the audit trail.
	Download(ctx context.Context, id string, actorID string) (DocumentResponse, io.ReadCloser, error)

	// Review approves or rejects a submitted document. Already-reviewed
	// documents refuse a second decision.
	Review(ctx context.Context, req ReviewDocumentRequest) (DocumentResponse, error)

	// ExpiringCount returns the badge counts of documents nearing or past
	// expiry, derived server-side at call time.
	ExpiringCount(ctx context.Context) (ExpiringCountResponse, error)

	// NotifyExpiring emails each owner of a document inside the warning
	// window. Invoked by an external periodic trigger, not an in-process
	// timer.
	NotifyExpiring(ctx context.Context) (ExpiringNoticesResponse, error)
}
