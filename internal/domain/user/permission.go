package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// User Management
	PermissionUserViewAll Permission = "user.view_all"
	PermissionUserManage  Permission = "user.manage"

	// Scheduling
	PermissionScheduleView   Permission = "schedule.view"
	PermissionScheduleManage Permission = "schedule.manage"
	PermissionShiftAssign    Permission = "shift.assign"

	// Time Tracking
	PermissionTimeclockCreate  Permission = "timeclock.create"
	PermissionTimeclockViewOwn Permission = "timeclock.view_own"
	PermissionTimeclockViewAll Permission = "timeclock.view_all"
	PermissionTimeclockAmend   Permission = "timeclock.amend"
	PermissionTimeclockUnlock  Permission = "timeclock.unlock"

	// Payroll
	PermissionTimesheetViewOwn  Permission = "timesheet.view_own"
	PermissionTimesheetGenerate Permission = "timesheet.generate"
	PermissionTimesheetApprove  Permission = "timesheet.approve"
	PermissionTimesheetExport   Permission = "timesheet.export"

	// Documents
	PermissionDocumentViewOwn Permission = "document.view_own"
	PermissionDocumentCreate  Permission = "document.create"
	PermissionDocumentViewAll Permission = "document.view_all"
	PermissionDocumentApprove Permission = "document.approve"

	// Audit
	PermissionAuditView Permission = "audit.view"
)

// staffPermissions is the baseline every clinical and non-clinical staff
// member receives.
var staffPermissions = []Permission{
	PermissionViewOwnProfile,
	PermissionEditOwnProfile,
	PermissionScheduleView,
	PermissionTimeclockCreate,
	PermissionTimeclockViewOwn,
	PermissionTimesheetViewOwn,
	PermissionDocumentViewOwn,
	PermissionDocumentCreate,
}

// RolePermissions maps roles to their permissions. Authorization decisions go
// through HasPermission so role checks stay in one auditable place.
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionUserViewAll,
		PermissionUserManage,
		PermissionScheduleView,
		PermissionScheduleManage,
		PermissionShiftAssign,
		PermissionTimeclockCreate,
		PermissionTimeclockViewOwn,
		PermissionTimeclockViewAll,
		PermissionTimeclockAmend,
		PermissionTimeclockUnlock,
		PermissionTimesheetViewOwn,
		PermissionTimesheetGenerate,
		PermissionTimesheetApprove,
		PermissionTimesheetExport,
		PermissionDocumentViewOwn,
		PermissionDocumentCreate,
		PermissionDocumentViewAll,
		PermissionDocumentApprove,
		PermissionAuditView,
	},
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionUserViewAll,
		PermissionUserManage,
		PermissionScheduleView,
		PermissionScheduleManage,
		PermissionShiftAssign,
		PermissionTimeclockCreate,
		PermissionTimeclockViewOwn,
		PermissionTimeclockViewAll,
		PermissionTimeclockAmend,
		PermissionTimeclockUnlock,
		PermissionTimesheetViewOwn,
		PermissionTimesheetGenerate,
		PermissionTimesheetApprove,
		PermissionTimesheetExport,
		PermissionDocumentViewOwn,
		PermissionDocumentCreate,
		PermissionDocumentViewAll,
		PermissionDocumentApprove,
		PermissionAuditView,
	},
	RoleScheduler: append([]Permission{
		PermissionUserViewAll,
		PermissionScheduleManage,
		PermissionShiftAssign,
	}, staffPermissions...),
	RolePayroll: append([]Permission{
		PermissionUserViewAll,
		PermissionTimeclockViewAll,
		PermissionTimeclockAmend,
		PermissionTimeclockUnlock,
		PermissionTimesheetGenerate,
		PermissionTimesheetApprove,
		PermissionTimesheetExport,
	}, staffPermissions...),
	RoleHR: append([]Permission{
		PermissionUserViewAll,
		PermissionUserManage,
		PermissionDocumentViewAll,
		PermissionDocumentApprove,
	}, staffPermissions...),
	RoleManager: append([]Permission{
		PermissionUserViewAll,
		PermissionScheduleManage,
		PermissionShiftAssign,
		PermissionTimeclockViewAll,
		PermissionTimeclockAmend,
		PermissionTimesheetGenerate,
		PermissionDocumentViewAll,
	}, staffPermissions...),
	RoleStaff: staffPermissions,
	RoleCNA:   staffPermissions,
	RoleLPN:   staffPermissions,
	RoleRN:    staffPermissions,
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
