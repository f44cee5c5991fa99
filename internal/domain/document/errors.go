package document

import "errors"

var (
	ErrDocumentNotFound         = errors.New("document not found")
	ErrDocumentAlreadyReviewed  = errors.New("document has already been approved or rejected")
	ErrNotDocumentOwner         = errors.New("document belongs to another user")
)
