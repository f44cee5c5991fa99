package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/audit"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/document"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/repository/postgresql"
)

func testTxContext(t *testing.T) context.Context {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return postgresql.ContextWithTx(context.Background(), mock)
}

type fakeDocumentRepo struct {
	docs   map[string]document.Document
	nextID int
}

func (f *fakeDocumentRepo) Create(_ context.Context, d document.Document) (document.Document, error) {
	f.nextID++
	d.ID = fmt.Sprintf("doc-%d", f.nextID)
	f.docs[d.ID] = d
	return d, nil
}

func (f *fakeDocumentRepo) GetByID(_ context.Context, id string) (document.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return document.Document{}, document.ErrDocumentNotFound
	}
	return d, nil
}

func (f *fakeDocumentRepo) ListByUser(_ context.Context, userID string) ([]document.Document, error) {
	var out []document.Document
	for _, d := range f.docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocumentRepo) List(_ context.Context) ([]document.Document, error) {
	var out []document.Document
	for _, d := range f.docs {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDocumentRepo) Review(_ context.Context, id string, status document.Status, reviewedBy string) (document.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return document.Document{}, document.ErrDocumentNotFound
	}
	now := time.Now()
	d.Status = status
	d.ReviewedBy = &reviewedBy
	d.ReviewedAt = &now
	f.docs[id] = d
	return d, nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) { return u, nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByOnboardingToken(_ context.Context, _ string) (user.User, error) {
	return user.User{}, user.ErrOnboardingTokenInvalid
}

func (f *fakeUserRepo) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (f *fakeUserRepo) Update(_ context.Context, u user.User) (user.User, error) { return u, nil }

func (f *fakeUserRepo) UpdateStatus(_ context.Context, _ string, _ user.Status) error { return nil }

func (f *fakeUserRepo) CompleteOnboarding(_ context.Context, _ string, _ string) error { return nil }

func (f *fakeUserRepo) LinkGoogleAccount(_ context.Context, _ string, _ string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, _ string, _ string) error { return nil }

type expiryNotice struct {
	to       string
	document string
	expiry   string
}

type fakeEmailService struct {
	notices []expiryNotice
}

func (f *fakeEmailService) SendOnboardingInvitation(_, _, _, _, _ string) error { return nil }

func (f *fakeEmailService) SendDocumentExpiryNotice(to, _, documentName, expiryDate string) error {
	f.notices = append(f.notices, expiryNotice{to: to, document: documentName, expiry: expiryDate})
	return nil
}

type fakeAuditRepo struct {
	entries []audit.AuditLog
}

func (f *fakeAuditRepo) Append(_ context.Context, entry audit.AuditLog) (audit.AuditLog, error) {
	entry.ID = fmt.Sprintf("audit-%d", len(f.entries)+1)
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeAuditRepo) List(_ context.Context, _ audit.ListFilter) ([]audit.AuditLog, error) {
	return f.entries, nil
}

type fakeStorage struct {
	uploads map[string][]byte
}

func (f *fakeStorage) Upload(_ context.Context, file io.Reader, path string, _ string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.uploads[path] = data
	return path, nil
}

func (f *fakeStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := f.uploads[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(_ context.Context, path string) error {
	delete(f.uploads, path)
	return nil
}

func (f *fakeStorage) GetURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "http://localhost/" + path, nil
}

func (f *fakeStorage) Exists(_ context.Context, path string) (bool, error) {
	_, ok := f.uploads[path]
	return ok, nil
}

const expiryWarningDays = 30

type testFixture struct {
	svc     document.DocumentService
	docs    *fakeDocumentRepo
	audits  *fakeAuditRepo
	storage *fakeStorage
	emails  *fakeEmailService
}

func newTestFixture() *testFixture {
	docs := &fakeDocumentRepo{docs: map[string]document.Document{}}
	users := &fakeUserRepo{users: map[string]user.User{
		"nurse-1": {ID: "nurse-1", FullName: "Dana Reyes", Email: "dana@example.com", Status: user.StatusActive},
		"nurse-2": {ID: "nurse-2", FullName: "Sam Okafor", Email: "sam@example.com", Status: user.StatusActive},
	}}
	audits := &fakeAuditRepo{}
	store := &fakeStorage{uploads: map[string][]byte{}}
	emails := &fakeEmailService{}
	svc := NewDocumentService(nil, docs, users, audits, store, emails, expiryWarningDays)
	return &testFixture{svc: svc, docs: docs, audits: audits, storage: store, emails: emails}
}

func credentialFile(name string) (multipart.File, *multipart.FileHeader) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename=%q`, name)},
		"Content-Type":        {"application/pdf"},
	})
	part.Write([]byte("license scan"))
	w.Close()

	r := multipart.NewReader(&buf, w.Boundary())
	form, _ := r.ReadForm(1 << 20)
	fh := form.File["file"][0]
	file, _ := fh.Open()
	return file, fh
}

func uploadRequest(t *testing.T, userID, expiryDate string) document.UploadDocumentRequest {
	file, header := credentialFile("rn-license.pdf")
	req := document.UploadDocumentRequest{
		UserID:     userID,
		Name:       "RN License",
		Category:   "license",
		ExpiryDate: expiryDate,
		File:       file,
		FileHeader: header,
	}
	require.NoError(t, req.Validate())
	return req
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	resp, err := fx.svc.Upload(ctx, uploadRequest(t, "nurse-1", "2030-06-01"))
	require.NoError(t, err)
	assert.Equal(t, string(document.StatusSubmitted), resp.Status)
	require.NotNil(t, resp.ExpiryDate)
	assert.Equal(t, "2030-06-01", *resp.ExpiryDate)
	assert.Contains(t, fx.storage.uploads, resp.FilePath)

	require.Len(t, fx.audits.entries, 1)
	assert.Equal(t, audit.ActionCreate, fx.audits.entries[0].Action)
	assert.Equal(t, audit.ResourceDocument, fx.audits.entries[0].ResourceType)
	assert.True(t, fx.audits.entries[0].PHIAccessed)
}

func TestDocumentService_Review(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	created, err := fx.svc.Upload(ctx, uploadRequest(t, "nurse-1", "2030-06-01"))
	require.NoError(t, err)

	approved, err := fx.svc.Review(ctx, document.ReviewDocumentRequest{ID: created.ID, ReviewedBy: "hr-1", Approve: true})
	require.NoError(t, err)
	assert.Equal(t, string(document.StatusApproved), approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, "hr-1", *approved.ReviewedBy)

	t.Run("second review rejected", func(t *testing.T) {
		_, err := fx.svc.Review(ctx, document.ReviewDocumentRequest{ID: created.ID, ReviewedBy: "hr-1", Approve: false})
		assert.ErrorIs(t, err, document.ErrDocumentAlreadyReviewed)
	})
}

func TestDocumentService_Download_AuditsView(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	created, err := fx.svc.Upload(ctx, uploadRequest(t, "nurse-1", "2030-06-01"))
	require.NoError(t, err)
	uploadAudits := len(fx.audits.entries)

	resp, reader, err := fx.svc.Download(ctx, created.ID, "hr-1")
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "license scan", string(data))
	assert.Equal(t, created.ID, resp.ID)

	require.Len(t, fx.audits.entries, uploadAudits+1)
	view := fx.audits.entries[len(fx.audits.entries)-1]
	assert.Equal(t, audit.ActionView, view.Action)
	assert.Equal(t, "hr-1", view.ActorID)
	assert.True(t, view.PHIAccessed)
}

func TestDocumentService_ExpiringCount(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	now := time.Now()
	expiry := func(d time.Duration) *time.Time {
		e := now.Add(d)
		return &e
	}

	fx.docs.docs["fresh"] = document.Document{ID: "fresh", UserID: "nurse-1", Status: document.StatusApproved, ExpiryDate: expiry(90 * 24 * time.Hour)}
	fx.docs.docs["soon"] = document.Document{ID: "soon", UserID: "nurse-1", Status: document.StatusApproved, ExpiryDate: expiry(10 * 24 * time.Hour)}
	fx.docs.docs["gone"] = document.Document{ID: "gone", UserID: "nurse-2", Status: document.StatusApproved, ExpiryDate: expiry(-24 * time.Hour)}
	fx.docs.docs["none"] = document.Document{ID: "none", UserID: "nurse-2", Status: document.StatusApproved}

	resp, err := fx.svc.ExpiringCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Expiring)
	assert.Equal(t, 1, resp.Expired)
}

func TestDocumentService_NotifyExpiring(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	now := time.Now()
	expiry := func(d time.Duration) *time.Time {
		e := now.Add(d)
		return &e
	}

	fx.docs.docs["soon"] = document.Document{ID: "soon", UserID: "nurse-1", Name: "RN License", Status: document.StatusApproved, ExpiryDate: expiry(10 * 24 * time.Hour)}
	fx.docs.docs["fresh"] = document.Document{ID: "fresh", UserID: "nurse-2", Status: document.StatusApproved, ExpiryDate: expiry(90 * 24 * time.Hour)}
	fx.docs.docs["gone"] = document.Document{ID: "gone", UserID: "nurse-2", Status: document.StatusApproved, ExpiryDate: expiry(-24 * time.Hour)}
	fx.docs.docs["orphan"] = document.Document{ID: "orphan", UserID: "ghost", Name: "CPR Card", Status: document.StatusApproved, ExpiryDate: expiry(5 * 24 * time.Hour)}

	resp, err := fx.svc.NotifyExpiring(ctx)
	require.NoError(t, err)

	// Only the expiring document with a resolvable owner gets a notice;
	// expired and far-out documents stay quiet.
	assert.Equal(t, 1, resp.Notified)
	require.Len(t, fx.emails.notices, 1)
	assert.Equal(t, "dana@example.com", fx.emails.notices[0].to)
	assert.Equal(t, "RN License", fx.emails.notices[0].document)
}
