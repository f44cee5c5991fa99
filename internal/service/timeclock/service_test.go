package timeclock

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
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/schedule"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/timeentry"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/repository/postgresql"
)

func testTxContext(t *testing.T) context.Context {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return postgresql.ContextWithTx(context.Background(), mock)
}

type fakeEntryRepo struct {
	entries map[string]timeentry.TimeEntry
	nextID  int
}

func (f *fakeEntryRepo) Create(_ context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	f.nextID++
	e.ID = fmt.Sprintf("entry-%d", f.nextID)
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeEntryRepo) GetByID(_ context.Context, id string) (timeentry.TimeEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeEntryRepo) GetActiveByUser(_ context.Context, userID string) (timeentry.TimeEntry, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.Status == timeentry.StatusActive {
			return e, nil
		}
	}
	return timeentry.TimeEntry{}, timeentry.ErrNotClockedIn
}

func (f *fakeEntryRepo) ListByUser(_ context.Context, userID string) ([]timeentry.TimeEntry, error) {
	var out []timeentry.TimeEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) List(_ context.Context) ([]timeentry.TimeEntry, error) {
	var out []timeentry.TimeEntry
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEntryRepo) ListCompletedInPeriod(_ context.Context, _ string, _, _ time.Time) ([]timeentry.TimeEntry, error) {
	return nil, nil
}

func (f *fakeEntryRepo) Update(_ context.Context, e timeentry.TimeEntry) (timeentry.TimeEntry, error) {
	if _, ok := f.entries[e.ID]; !ok {
		return timeentry.TimeEntry{}, timeentry.ErrEntryNotFound
	}
	f.entries[e.ID] = e
	return e, nil
}

func (f *fakeEntryRepo) UpdateStatus(_ context.Context, id string, status timeentry.Status) error {
	e, ok := f.entries[id]
	if !ok {
		return timeentry.ErrEntryNotFound
	}
	e.Status = status
	f.entries[id] = e
	return nil
}

func (f *fakeEntryRepo) AddAttachment(_ context.Context, id string, path string) error {
	e, ok := f.entries[id]
	if !ok {
		return timeentry.ErrEntryNotFound
	}
	e.Attachments = append(e.Attachments, path)
	f.entries[id] = e
	return nil
}

type fakeShiftRepo struct {
	shifts map[string]schedule.Shift
}

func (f *fakeShiftRepo) Create(_ context.Context, s schedule.Shift) (schedule.Shift, error) {
	f.shifts[s.ID] = s
	return s, nil
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string) (schedule.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return schedule.Shift{}, schedule.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) GetByIDForUpdate(ctx context.Context, id string) (schedule.Shift, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeShiftRepo) ListBySchedule(_ context.Context, _ string) ([]schedule.Shift, error) {
	return nil, nil
}

func (f *fakeShiftRepo) List(_ context.Context) ([]schedule.Shift, error) { return nil, nil }

func (f *fakeShiftRepo) UpdateStatus(_ context.Context, _ string, _ schedule.ShiftStatus) error {
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

type testFixture struct {
	svc     timeentry.TimeclockService
	entries *fakeEntryRepo
	shifts  *fakeShiftRepo
	audits  *fakeAuditRepo
	storage *fakeStorage
}

func newTestFixture() *testFixture {
	entries := &fakeEntryRepo{entries: map[string]timeentry.TimeEntry{}}
	shifts := &fakeShiftRepo{shifts: map[string]schedule.Shift{}}
	audits := &fakeAuditRepo{}
	store := &fakeStorage{uploads: map[string][]byte{}}
	svc := NewTimeclockService(nil, entries, shifts, audits, store)
	return &testFixture{svc: svc, entries: entries, shifts: shifts, audits: audits, storage: store}
}

func formFile(field, name string) (multipart.File, *multipart.FileHeader) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name)},
		"Content-Type":        {"image/png"},
	})
	part.Write([]byte("signed shift note"))
	w.Close()

	r := multipart.NewReader(&buf, w.Boundary())
	form, _ := r.ReadForm(1 << 20)
	fh := form.File[field][0]
	file, _ := fh.Open()
	return file, fh
}

func attachment(name string) (multipart.File, *multipart.FileHeader) {
	return formFile("file", name)
}

func TestTimeclockService_ClockIn(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	resp, err := fx.svc.ClockIn(ctx, timeentry.ClockInRequest{UserID: "nurse-1"})
	require.NoError(t, err)
	assert.Equal(t, string(timeentry.StatusActive), resp.Status)
	assert.Nil(t, resp.ClockOut)

	require.Len(t, fx.audits.entries, 1)
	assert.Equal(t, audit.ResourceTimeEntry, fx.audits.entries[0].ResourceType)
	assert.True(t, fx.audits.entries[0].PHIAccessed)

	t.Run("second clock-in rejected", func(t *testing.T) {
		_, err := fx.svc.ClockIn(ctx, timeentry.ClockInRequest{UserID: "nurse-1"})
		assert.ErrorIs(t, err, timeentry.ErrAlreadyClockedIn)
	})

	t.Run("other users unaffected", func(t *testing.T) {
		_, err := fx.svc.ClockIn(ctx, timeentry.ClockInRequest{UserID: "nurse-2"})
		assert.NoError(t, err)
	})
}

func TestTimeclockService_ClockIn_UnknownShift(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	shiftID := "ghost"
	_, err := fx.svc.ClockIn(ctx, timeentry.ClockInRequest{UserID: "nurse-1", ShiftID: &shiftID})
	assert.ErrorIs(t, err, schedule.ErrShiftNotFound)
}

func TestTimeclockService_ClockOut_RequiresAttachment(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	_, err := fx.svc.ClockIn(ctx, timeentry.ClockInRequest{UserID: "nurse-1"})
	require.NoError(t, err)

	_, err = fx.svc.ClockOut(ctx, timeentry.ClockOutRequest{UserID: "nurse-1"})
	assert.ErrorIs(t, err, timeentry.ErrAttachmentRequired)

	file, header := attachment("note.png")
	resp, err := fx.svc.ClockOut(ctx, timeentry.ClockOutRequest{
		UserID:       "nurse-1",
		BreakMinutes: 30,
		File:         file,
		FileHeader:   header,
	})
	require.NoError(t, err)
	assert.Equal(t, string(timeentry.StatusCompleted), resp.Status)
	assert.Equal(t, 30, resp.BreakMinutes)
	require.Len(t, resp.Attachments, 1)
	assert.Contains(t, fx.storage.uploads, resp.Attachments[0])
}

func TestTimeclockService_ClockOut_NoteExemptShift(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	fx.shifts.shifts["shift-1"] = schedule.Shift{ID: "shift-1", JobName: "On-call", NoteExempt: true}

	shiftID := "shift-1"
	_, err := fx.svc.ClockIn(ctx, timeentry.ClockInRequest{UserID: "nurse-1", ShiftID: &shiftID})
	require.NoError(t, err)

	resp, err := fx.svc.ClockOut(ctx, timeentry.ClockOutRequest{UserID: "nurse-1"})
	require.NoError(t, err)
	assert.Equal(t, string(timeentry.StatusCompleted), resp.Status)
	assert.Empty(t, resp.Attachments)
}

func TestTimeclockService_ClockOut_StoresSignature(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	fx.shifts.shifts["shift-1"] = schedule.Shift{ID: "shift-1", JobName: "On-call", NoteExempt: true}

	shiftID := "shift-1"
	_, err := fx.svc.ClockIn(ctx, timeentry.ClockInRequest{UserID: "nurse-1", ShiftID: &shiftID})
	require.NoError(t, err)

	signature, signatureHeader := formFile("signature", "signature.png")
	resp, err := fx.svc.ClockOut(ctx, timeentry.ClockOutRequest{
		UserID:          "nurse-1",
		Signature:       signature,
		SignatureHeader: signatureHeader,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.SignaturePath)
	assert.Contains(t, fx.storage.uploads, *resp.SignaturePath)

	stored := fx.entries.entries[resp.ID]
	require.NotNil(t, stored.SignaturePath)
	assert.Equal(t, *resp.SignaturePath, *stored.SignaturePath)
}

func TestTimeclockService_ClockOut_NotClockedIn(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	_, err := fx.svc.ClockOut(ctx, timeentry.ClockOutRequest{UserID: "nurse-1"})
	assert.ErrorIs(t, err, timeentry.ErrNotClockedIn)
}

func TestTimeclockService_Amend(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	clockIn := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8 * time.Hour)
	fx.entries.entries["entry-1"] = timeentry.TimeEntry{
		ID:       "entry-1",
		UserID:   "nurse-1",
		ClockIn:  clockIn,
		ClockOut: &clockOut,
		Status:   timeentry.StatusCompleted,
	}

	amendedOut := clockIn.Add(9 * time.Hour).Format(time.RFC3339)
	breakMinutes := 45
	req := timeentry.AmendEntryRequest{ID: "entry-1", ClockOut: &amendedOut, BreakMinutes: &breakMinutes}
	require.NoError(t, req.Validate())

	resp, err := fx.svc.Amend(ctx, req, "manager-1")
	require.NoError(t, err)
	require.NotNil(t, resp.ClockOut)
	assert.True(t, resp.ClockOut.Equal(clockIn.Add(9*time.Hour)))
	assert.Equal(t, 45, resp.BreakMinutes)

	require.Len(t, fx.audits.entries, 1)
	assert.Equal(t, "manager-1", fx.audits.entries[0].ActorID)
}

func TestTimeclockService_Amend_Rejections(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	clockIn := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8 * time.Hour)
	fx.entries.entries["locked"] = timeentry.TimeEntry{
		ID: "locked", UserID: "nurse-1", ClockIn: clockIn, ClockOut: &clockOut, Status: timeentry.StatusLocked,
	}
	fx.entries.entries["active"] = timeentry.TimeEntry{
		ID: "active", UserID: "nurse-2", ClockIn: clockIn, Status: timeentry.StatusActive,
	}
	fx.entries.entries["done"] = timeentry.TimeEntry{
		ID: "done", UserID: "nurse-3", ClockIn: clockIn, ClockOut: &clockOut, Status: timeentry.StatusCompleted,
	}

	t.Run("locked entry", func(t *testing.T) {
		_, err := fx.svc.Amend(ctx, timeentry.AmendEntryRequest{ID: "locked"}, "manager-1")
		assert.ErrorIs(t, err, timeentry.ErrEntryLocked)
	})

	t.Run("active entry", func(t *testing.T) {
		_, err := fx.svc.Amend(ctx, timeentry.AmendEntryRequest{ID: "active"}, "manager-1")
		assert.ErrorIs(t, err, timeentry.ErrNotClockedIn)
	})

	t.Run("clock-out before clock-in", func(t *testing.T) {
		badIn := clockIn.Add(10 * time.Hour).Format(time.RFC3339)
		req := timeentry.AmendEntryRequest{ID: "done", ClockIn: &badIn}
		require.NoError(t, req.Validate())

		_, err := fx.svc.Amend(ctx, req, "manager-1")
		assert.ErrorIs(t, err, timeentry.ErrClockOutBeforeIn)
	})
}

func TestTimeclockService_LockUnlock(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	clockIn := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	clockOut := clockIn.Add(8 * time.Hour)
	fx.entries.entries["entry-1"] = timeentry.TimeEntry{
		ID: "entry-1", UserID: "nurse-1", ClockIn: clockIn, ClockOut: &clockOut, Status: timeentry.StatusCompleted,
	}

	require.NoError(t, fx.svc.Lock(ctx, "entry-1", "payroll-1"))
	assert.Equal(t, timeentry.StatusLocked, fx.entries.entries["entry-1"].Status)

	// Locking an already locked entry is a no-op.
	require.NoError(t, fx.svc.Lock(ctx, "entry-1", "payroll-1"))

	t.Run("unlock restores completed", func(t *testing.T) {
		require.NoError(t, fx.svc.Unlock(ctx, "entry-1", "payroll-1"))
		assert.Equal(t, timeentry.StatusCompleted, fx.entries.entries["entry-1"].Status)
	})

	t.Run("unlock of unlocked entry fails", func(t *testing.T) {
		assert.ErrorIs(t, fx.svc.Unlock(ctx, "entry-1", "payroll-1"), timeentry.ErrEntryNotLocked)
	})

	t.Run("active entry cannot be locked", func(t *testing.T) {
		fx.entries.entries["active"] = timeentry.TimeEntry{ID: "active", UserID: "nurse-2", ClockIn: clockIn, Status: timeentry.StatusActive}
		assert.ErrorIs(t, fx.svc.Lock(ctx, "active", "payroll-1"), timeentry.ErrNotClockedIn)
	})
}
