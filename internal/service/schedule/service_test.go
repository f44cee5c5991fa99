package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/audit"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/schedule"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/user"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/repository/postgresql"
)

func testTxContext(t *testing.T) context.Context {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return postgresql.ContextWithTx(context.Background(), mock)
}

type fakeScheduleRepo struct {
	schedules map[string]schedule.Schedule
}

func (f *fakeScheduleRepo) Create(_ context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	s.ID = fmt.Sprintf("schedule-%d", len(f.schedules)+1)
	f.schedules[s.ID] = s
	return s, nil
}

func (f *fakeScheduleRepo) GetByID(_ context.Context, id string) (schedule.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	return s, nil
}

func (f *fakeScheduleRepo) List(_ context.Context) ([]schedule.Schedule, error) {
	var out []schedule.Schedule
	for _, s := range f.schedules {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeScheduleRepo) Update(_ context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	f.schedules[s.ID] = s
	return s, nil
}

func (f *fakeScheduleRepo) UpdateStatus(_ context.Context, id string, status schedule.ScheduleStatus) error {
	s, ok := f.schedules[id]
	if !ok {
		return schedule.ErrScheduleNotFound
	}
	s.Status = status
	f.schedules[id] = s
	return nil
}

type fakeTemplateRepo struct {
	templates map[string]schedule.ShiftTemplate
}

func (f *fakeTemplateRepo) Create(_ context.Context, t schedule.ShiftTemplate) (schedule.ShiftTemplate, error) {
	t.ID = fmt.Sprintf("template-%d", len(f.templates)+1)
	f.templates[t.ID] = t
	return t, nil
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id string) (schedule.ShiftTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return schedule.ShiftTemplate{}, schedule.ErrTemplateNotFound
	}
	return t, nil
}

func (f *fakeTemplateRepo) List(_ context.Context) ([]schedule.ShiftTemplate, error) {
	var out []schedule.ShiftTemplate
	for _, t := range f.templates {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTemplateRepo) Delete(_ context.Context, id string) error {
	delete(f.templates, id)
	return nil
}

type fakeShiftRepo struct {
	shifts map[string]schedule.Shift
}

func (f *fakeShiftRepo) Create(_ context.Context, s schedule.Shift) (schedule.Shift, error) {
	s.ID = fmt.Sprintf("shift-%d", len(f.shifts)+1)
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

func (f *fakeShiftRepo) ListBySchedule(_ context.Context, scheduleID string) ([]schedule.Shift, error) {
	var out []schedule.Shift
	for _, s := range f.shifts {
		if s.ScheduleID != nil && *s.ScheduleID == scheduleID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShiftRepo) List(_ context.Context) ([]schedule.Shift, error) {
	var out []schedule.Shift
	for _, s := range f.shifts {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeShiftRepo) UpdateStatus(_ context.Context, id string, status schedule.ShiftStatus) error {
	s, ok := f.shifts[id]
	if !ok {
		return schedule.ErrShiftNotFound
	}
	s.Status = status
	f.shifts[id] = s
	return nil
}

type fakeAssignmentRepo struct {
	assignments map[string]schedule.ShiftAssignment
	nextID      int
}

func (f *fakeAssignmentRepo) Create(_ context.Context, a schedule.ShiftAssignment) (schedule.ShiftAssignment, error) {
	for _, existing := range f.assignments {
		if existing.ShiftID == a.ShiftID && existing.UserID == a.UserID {
			return schedule.ShiftAssignment{}, schedule.ErrDuplicateAssignee
		}
	}
	f.nextID++
	a.ID = fmt.Sprintf("assignment-%d", f.nextID)
	f.assignments[a.ID] = a
	return a, nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id string) (schedule.ShiftAssignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return schedule.ShiftAssignment{}, schedule.ErrAssignmentNotFound
	}
	return a, nil
}

func (f *fakeAssignmentRepo) ListByShift(_ context.Context, shiftID string) ([]schedule.ShiftAssignment, error) {
	var out []schedule.ShiftAssignment
	for _, a := range f.assignments {
		if a.ShiftID == shiftID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) ListByUser(_ context.Context, userID string) ([]schedule.ShiftAssignment, error) {
	var out []schedule.ShiftAssignment
	for _, a := range f.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) CountActiveByShift(_ context.Context, shiftID string) (int, error) {
	count := 0
	for _, a := range f.assignments {
		if a.ShiftID == shiftID && a.IsActive() {
			count++
		}
	}
	return count, nil
}

func (f *fakeAssignmentRepo) UpdateStatus(_ context.Context, id string, status schedule.AssignmentStatus) error {
	a, ok := f.assignments[id]
	if !ok {
		return schedule.ErrAssignmentNotFound
	}
	a.Status = status
	f.assignments[id] = a
	return nil
}

func (f *fakeAssignmentRepo) Accept(_ context.Context, id string) (schedule.ShiftAssignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return schedule.ShiftAssignment{}, schedule.ErrAssignmentNotFound
	}
	now := time.Now()
	a.Status = schedule.AssignmentStatusAccepted
	a.AcceptedAt = &now
	f.assignments[id] = a
	return a, nil
}

func (f *fakeAssignmentRepo) CompleteActiveByShift(_ context.Context, shiftID string) error {
	for id, a := range f.assignments {
		if a.ShiftID == shiftID && a.IsActive() {
			a.Status = schedule.AssignmentStatusCompleted
			f.assignments[id] = a
		}
	}
	return nil
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

type testFixture struct {
	svc         schedule.ScheduleService
	shifts      *fakeShiftRepo
	assignments *fakeAssignmentRepo
	audits      *fakeAuditRepo
}

func newTestFixture() *testFixture {
	shifts := &fakeShiftRepo{shifts: map[string]schedule.Shift{}}
	assignments := &fakeAssignmentRepo{assignments: map[string]schedule.ShiftAssignment{}}
	audits := &fakeAuditRepo{}
	users := &fakeUserRepo{users: map[string]user.User{
		"nurse-1": {
			ID: "nurse-1", Status: user.StatusActive, Role: user.RoleRN,
			HourlyRate: decimal.NewFromInt(42),
			JobRates:   map[string]decimal.Decimal{"Night RN": decimal.NewFromInt(55)},
		},
		"nurse-2":  {ID: "nurse-2", Status: user.StatusActive, Role: user.RoleLPN, HourlyRate: decimal.NewFromInt(38)},
		"nurse-3":  {ID: "nurse-3", Status: user.StatusActive, Role: user.RoleCNA},
		"archived": {ID: "archived", Status: user.StatusArchived, Role: user.RoleStaff},
	}}

	svc := NewScheduleService(
		nil,
		&fakeScheduleRepo{schedules: map[string]schedule.Schedule{}},
		&fakeTemplateRepo{templates: map[string]schedule.ShiftTemplate{}},
		shifts,
		assignments,
		users,
		audits,
	)
	return &testFixture{svc: svc, shifts: shifts, assignments: assignments, audits: audits}
}

func (fx *testFixture) seedShift(status schedule.ShiftStatus, maxAssignees int) string {
	return fx.seedShiftAt(status, maxAssignees, time.Now().Add(12*time.Hour), time.Now().Add(24*time.Hour))
}

func (fx *testFixture) seedShiftAt(status schedule.ShiftStatus, maxAssignees int, start, end time.Time) string {
	id := fmt.Sprintf("shift-%d", len(fx.shifts.shifts)+1)
	fx.shifts.shifts[id] = schedule.Shift{
		ID:           id,
		JobName:      "Night RN",
		StartTime:    start,
		EndTime:      end,
		Status:       status,
		MaxAssignees: maxAssignees,
	}
	return id
}

func TestScheduleService_AssignUser_FillsCapacity(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	shiftID := fx.seedShift(schedule.ShiftStatusOpen, 2)

	first, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-1"}, "scheduler-1")
	require.NoError(t, err)
	assert.Equal(t, string(schedule.AssignmentStatusAssigned), first.Status)

	// First assignment moves the shift out of open.
	assert.Equal(t, schedule.ShiftStatusAssigned, fx.shifts.shifts[shiftID].Status)

	_, err = fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-2"}, "scheduler-1")
	require.NoError(t, err)

	_, err = fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-3"}, "scheduler-1")
	assert.ErrorIs(t, err, schedule.ErrCapacityExceeded)
}

func TestScheduleService_AssignUser_ResolvesJobRate(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	shiftID := fx.seedShift(schedule.ShiftStatusOpen, 2)

	overridden, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-1"}, "scheduler-1")
	require.NoError(t, err)
	require.NotNil(t, overridden.JobRate)
	assert.True(t, overridden.JobRate.Equal(decimal.NewFromInt(55)), "per-job override applies, got %s", overridden.JobRate)

	base, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-2"}, "scheduler-1")
	require.NoError(t, err)
	require.NotNil(t, base.JobRate)
	assert.True(t, base.JobRate.Equal(decimal.NewFromInt(38)), "base rate applies without an override, got %s", base.JobRate)
}

func TestScheduleService_UpdateSchedule(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	createReq := schedule.CreateScheduleRequest{
		Name: "March rotation", StartDate: "2026-03-02", EndDate: "2026-03-08", Status: "draft", CreatedBy: "scheduler-1",
	}
	require.NoError(t, createReq.Validate())

	created, err := fx.svc.CreateSchedule(ctx, createReq)
	require.NoError(t, err)

	updateReq := schedule.UpdateScheduleRequest{ID: created.ID, Name: "March rotation (extended)", StartDate: "2026-03-02", EndDate: "2026-03-15"}
	require.NoError(t, updateReq.Validate())

	updated, err := fx.svc.UpdateSchedule(ctx, updateReq)
	require.NoError(t, err)
	assert.Equal(t, "March rotation (extended)", updated.Name)
	assert.Equal(t, "2026-03-15", updated.EndDate)
	assert.Equal(t, "scheduler-1", updated.CreatedBy)

	t.Run("unknown schedule", func(t *testing.T) {
		req := schedule.UpdateScheduleRequest{ID: "ghost", Name: "x", StartDate: "2026-03-02", EndDate: "2026-03-08"}
		require.NoError(t, req.Validate())
		_, err := fx.svc.UpdateSchedule(ctx, req)
		assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
	})
}

func TestScheduleService_AssignUser_DuplicateAssignee(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	shiftID := fx.seedShift(schedule.ShiftStatusOpen, 3)

	_, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-1"}, "scheduler-1")
	require.NoError(t, err)

	_, err = fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-1"}, "scheduler-1")
	assert.ErrorIs(t, err, schedule.ErrDuplicateAssignee)
}

func TestScheduleService_AssignUser_ArchivedAssignee(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	shiftID := fx.seedShift(schedule.ShiftStatusOpen, 1)

	_, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "archived"}, "scheduler-1")
	assert.ErrorIs(t, err, user.ErrUserArchived)
}

func TestScheduleService_AssignUser_ShiftNotAssignable(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	for _, status := range []schedule.ShiftStatus{schedule.ShiftStatusInProgress, schedule.ShiftStatusCompleted, schedule.ShiftStatusCancelled} {
		shiftID := fx.seedShift(status, 1)
		_, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-1"}, "scheduler-1")
		assert.ErrorIs(t, err, schedule.ErrShiftNotAssignable, "status %s", status)
	}
}

func TestScheduleService_RejectAssignment_LastActiveReopensShift(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	shiftID := fx.seedShift(schedule.ShiftStatusOpen, 1)

	created, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-1"}, "scheduler-1")
	require.NoError(t, err)
	require.Equal(t, schedule.ShiftStatusAssigned, fx.shifts.shifts[shiftID].Status)

	rejected, err := fx.svc.RejectAssignment(ctx, created.ID, "nurse-1")
	require.NoError(t, err)
	assert.Equal(t, string(schedule.AssignmentStatusRejected), rejected.Status)

	// Slot freed, shift takes assignments again.
	assert.Equal(t, schedule.ShiftStatusOpen, fx.shifts.shifts[shiftID].Status)

	_, err = fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-2"}, "scheduler-1")
	require.NoError(t, err)
}

func TestScheduleService_RejectAssignment_OthersRemainActive(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	shiftID := fx.seedShift(schedule.ShiftStatusOpen, 2)

	first, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-1"}, "scheduler-1")
	require.NoError(t, err)
	_, err = fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-2"}, "scheduler-1")
	require.NoError(t, err)

	_, err = fx.svc.RejectAssignment(ctx, first.ID, "nurse-1")
	require.NoError(t, err)

	assert.Equal(t, schedule.ShiftStatusAssigned, fx.shifts.shifts[shiftID].Status)
}

func TestScheduleService_AcceptAssignment(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	shiftID := fx.seedShift(schedule.ShiftStatusOpen, 1)

	created, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-1"}, "scheduler-1")
	require.NoError(t, err)

	t.Run("only the assignee may accept", func(t *testing.T) {
		_, err := fx.svc.AcceptAssignment(ctx, created.ID, "nurse-2")
		assert.ErrorIs(t, err, schedule.ErrAssignmentNotFound)
	})

	accepted, err := fx.svc.AcceptAssignment(ctx, created.ID, "nurse-1")
	require.NoError(t, err)
	assert.Equal(t, string(schedule.AssignmentStatusAccepted), accepted.Status)
	assert.NotNil(t, accepted.AcceptedAt)

	t.Run("decided assignments cannot be accepted again", func(t *testing.T) {
		_, err := fx.svc.AcceptAssignment(ctx, created.ID, "nurse-1")
		assert.ErrorIs(t, err, schedule.ErrAssignmentDecided)
	})

	t.Run("decided assignments cannot be rejected", func(t *testing.T) {
		_, err := fx.svc.RejectAssignment(ctx, created.ID, "nurse-1")
		assert.ErrorIs(t, err, schedule.ErrAssignmentDecided)
	})
}

func TestScheduleService_TransitionShift(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	shiftID := fx.seedShift(schedule.ShiftStatusAssigned, 1)

	resp, err := fx.svc.TransitionShift(ctx, schedule.TransitionShiftRequest{ShiftID: shiftID, Status: string(schedule.ShiftStatusInProgress)}, "scheduler-1")
	require.NoError(t, err)
	assert.Equal(t, string(schedule.ShiftStatusInProgress), resp.Status)

	_, err = fx.svc.TransitionShift(ctx, schedule.TransitionShiftRequest{ShiftID: shiftID, Status: string(schedule.ShiftStatusOpen)}, "scheduler-1")
	assert.ErrorIs(t, err, schedule.ErrInvalidTransition)
}

func TestScheduleService_TransitionShift_StartedShiftCompletesDirectly(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()

	// Stored status is still assigned, but the start time has passed, so the
	// shift reads as in_progress and completes without an explicit
	// in_progress write.
	shiftID := fx.seedShiftAt(schedule.ShiftStatusAssigned, 1, time.Now().Add(-2*time.Hour), time.Now().Add(10*time.Hour))

	resp, err := fx.svc.TransitionShift(ctx, schedule.TransitionShiftRequest{ShiftID: shiftID, Status: string(schedule.ShiftStatusCompleted)}, "scheduler-1")
	require.NoError(t, err)
	assert.Equal(t, string(schedule.ShiftStatusCompleted), resp.Status)
	assert.Equal(t, schedule.ShiftStatusCompleted, fx.shifts.shifts[shiftID].Status)

	t.Run("open shifts do not advance with time", func(t *testing.T) {
		openID := fx.seedShiftAt(schedule.ShiftStatusOpen, 1, time.Now().Add(-2*time.Hour), time.Now().Add(10*time.Hour))
		_, err := fx.svc.TransitionShift(ctx, schedule.TransitionShiftRequest{ShiftID: openID, Status: string(schedule.ShiftStatusCompleted)}, "scheduler-1")
		assert.ErrorIs(t, err, schedule.ErrInvalidTransition)
	})
}

func TestScheduleService_TransitionShift_CompletingCompletesAssignments(t *testing.T) {
	ctx := testTxContext(t)
	fx := newTestFixture()
	shiftID := fx.seedShift(schedule.ShiftStatusOpen, 2)

	kept, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-1"}, "scheduler-1")
	require.NoError(t, err)
	dropped, err := fx.svc.AssignUser(ctx, schedule.CreateAssignmentRequest{ShiftID: shiftID, UserID: "nurse-2"}, "scheduler-1")
	require.NoError(t, err)
	_, err = fx.svc.RejectAssignment(ctx, dropped.ID, "nurse-2")
	require.NoError(t, err)

	_, err = fx.svc.TransitionShift(ctx, schedule.TransitionShiftRequest{ShiftID: shiftID, Status: string(schedule.ShiftStatusInProgress)}, "scheduler-1")
	require.NoError(t, err)
	resp, err := fx.svc.TransitionShift(ctx, schedule.TransitionShiftRequest{ShiftID: shiftID, Status: string(schedule.ShiftStatusCompleted)}, "scheduler-1")
	require.NoError(t, err)
	assert.Equal(t, string(schedule.ShiftStatusCompleted), resp.Status)

	assert.Equal(t, schedule.AssignmentStatusCompleted, fx.assignments.assignments[kept.ID].Status)
	assert.Equal(t, schedule.AssignmentStatusRejected, fx.assignments.assignments[dropped.ID].Status)
}
