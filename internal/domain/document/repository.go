package document

import (
	"context"
)

type DocumentRepository interface {
	Create(ctx context.Context, d Document) (Document, error)
	GetByID(ctx context.Context, id string) (Document, error)
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	List(ctx context.Context) ([]Document, error)

	// Review sets the stored status together with reviewer fields.
	Review(ctx context.Context, id string, status Status, reviewedBy string) (Document, error)
}
