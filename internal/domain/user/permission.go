package user

import "slices"

// Action names an operation guarded by the permission table.
type Action string

const (
	ActionViewAttendance    Action = "VIEW_ATTENDANCE"
	ActionMarkAttendance    Action = "MARK_ATTENDANCE"
	ActionMarkNonWorkingDay Action = "MARK_NON_WORKING_DAY"
	ActionCreateLeave       Action = "CREATE_LEAVE"
	ActionViewOwnLeaves     Action = "VIEW_OWN_LEAVES"
	ActionViewLeaves        Action = "VIEW_LEAVES"
	ActionApproveLeave      Action = "APPROVE_LEAVE"
	ActionWithdrawLeave     Action = "WITHDRAW_LEAVE"
	ActionCreateOvertime    Action = "CREATE_OVERTIME"
	ActionViewOvertime      Action = "VIEW_OVERTIME"
	ActionApproveOvertime   Action = "APPROVE_OVERTIME"
	ActionManageSalaries    Action = "MANAGE_SALARIES"
	ActionViewSalaries      Action = "VIEW_SALARIES"
	ActionSubmitExpense     Action = "SUBMIT_EXPENSE"
	ActionViewExpenses      Action = "VIEW_EXPENSES"
	ActionViewCompOff       Action = "VIEW_COMP_OFF"
	ActionManageCalendar    Action = "MANAGE_CALENDAR"
	ActionViewCalendar      Action = "VIEW_CALENDAR"
)

// Rule is one row of the permission table.
type Rule struct {
	Roles       []Role
	Profiles    []Profile
	StoreBound  []Profile // subset of Profiles limited to their own store
	SelfService bool      // plain employees may act on themselves
}

var elevated = []Profile{ProfileCoordinator, ProfileStoreDirector, ProfileManager, ProfileManagingDirector}

// Permissions is the authoritative action table.
var Permissions = map[Action]Rule{
	ActionViewAttendance: {
		Roles:      []Role{RoleAdmin, RoleHR},
		Profiles:   elevated,
		StoreBound: []Profile{ProfileCoordinator, ProfileStoreDirector},
	},
	ActionMarkAttendance: {
		Roles:       []Role{RoleAdmin, RoleHR},
		Profiles:    elevated,
		SelfService: true,
	},
	ActionMarkNonWorkingDay: {
		Roles:    []Role{RoleAdmin, RoleHR},
		Profiles: []Profile{ProfileManagingDirector},
	},
	ActionCreateLeave: {
		Roles:       []Role{RoleAdmin, RoleHR},
		Profiles:    elevated,
		SelfService: true,
	},
	ActionViewOwnLeaves: {
		Roles:       []Role{RoleAdmin, RoleHR},
		Profiles:    elevated,
		SelfService: true,
	},
	ActionViewLeaves: {
		Roles:      []Role{RoleAdmin, RoleHR},
		Profiles:   elevated,
		StoreBound: []Profile{ProfileCoordinator, ProfileStoreDirector},
	},
	ActionApproveLeave: {
		Roles:      []Role{RoleAdmin},
		Profiles:   elevated,
		StoreBound: []Profile{ProfileCoordinator, ProfileStoreDirector},
	},
	ActionWithdrawLeave: {
		Roles:       []Role{RoleAdmin, RoleHR},
		Profiles:    elevated,
		SelfService: true,
	},
	ActionCreateOvertime: {
		Roles:       []Role{RoleAdmin, RoleHR},
		Profiles:    elevated,
		SelfService: true,
	},
	ActionViewOvertime: {
		Roles:      []Role{RoleAdmin, RoleHR},
		Profiles:   elevated,
		StoreBound: []Profile{ProfileCoordinator, ProfileStoreDirector},
	},
	ActionApproveOvertime: {
		Roles:      []Role{RoleAdmin},
		Profiles:   []Profile{ProfileStoreDirector, ProfileManager, ProfileManagingDirector},
		StoreBound: []Profile{ProfileStoreDirector},
	},
	ActionManageSalaries: {
		Roles:    []Role{RoleAdmin, RoleHR},
		Profiles: []Profile{ProfileManagingDirector},
	},
	ActionViewSalaries: {
		Roles:      []Role{RoleAdmin, RoleHR},
		Profiles:   []Profile{ProfileStoreDirector, ProfileManagingDirector},
		StoreBound: []Profile{ProfileStoreDirector},
	},
	ActionSubmitExpense: {
		Roles:       []Role{RoleAdmin, RoleHR},
		Profiles:    elevated,
		SelfService: true,
	},
	ActionViewExpenses: {
		Roles:      []Role{RoleAdmin, RoleHR},
		Profiles:   []Profile{ProfileStoreDirector, ProfileManagingDirector},
		StoreBound: []Profile{ProfileStoreDirector},
	},
	ActionViewCompOff: {
		Roles:      []Role{RoleAdmin, RoleHR},
		Profiles:   []Profile{ProfileStoreDirector, ProfileManager, ProfileManagingDirector},
		StoreBound: []Profile{ProfileStoreDirector},
	},
	ActionManageCalendar: {
		Roles:    []Role{RoleAdmin},
		Profiles: []Profile{ProfileManagingDirector},
	},
	ActionViewCalendar: {
		Roles:    []Role{RoleAdmin, RoleHR, RoleEmployee},
		Profiles: append([]Profile{ProfileEmployee}, elevated...),
	},
}

// Allows reports whether the role/profile pair passes the allow-lists of the
// action, including the plain-employee self-service case.
func (r Rule) Allows(role Role, profile Profile) bool {
	if slices.Contains(r.Roles, role) || slices.Contains(r.Profiles, profile) {
		return true
	}
	return r.SelfService && !profile.IsElevated()
}

// IsStoreBound reports whether profile is limited to its own store for this action.
func (r Rule) IsStoreBound(profile Profile) bool {
	return slices.Contains(r.StoreBound, profile)
}
