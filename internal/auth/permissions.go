package auth

// Roles a user can hold within a tenant. zono_admin is the platform
// super-admin and passes every tenant-level check.
const (
	RoleStaff       = "staff"
	RoleRider       = "rider"
	RoleKitchen     = "kitchen"
	RoleManager     = "manager"
	RoleTenantAdmin = "tenant_admin"
	RoleZonoAdmin   = "zono_admin"
)

// Actions gate the mutating operations of the core. Ownership rules
// (e.g. "a staff member may clock in their own record") are enforced by
// the services on top of this table.
const (
	ActionShiftManage       = "shift.manage"
	ActionSwapApprove       = "swap.approve"
	ActionAttendanceEdit    = "attendance.edit"
	ActionMarkAbsent        = "attendance.mark_absent"
	ActionAttendanceViewAll = "attendance.view_all"
	ActionAvailabilityAll   = "availability.view_all"
	ActionInventoryManage   = "inventory.manage"
	ActionEmployeeManage    = "employee.manage"
	ActionTenantManage      = "tenant.manage"
)

var managerial = []string{RoleManager, RoleTenantAdmin, RoleZonoAdmin}

// permissions is the single (action -> allowed roles) table. The
// per-operation role lists that used to be scattered across handlers
// all resolve through here.
var permissions = map[string][]string{
	ActionShiftManage:       managerial,
	ActionSwapApprove:       managerial,
	ActionAttendanceEdit:    managerial,
	ActionMarkAbsent:        managerial,
	ActionAttendanceViewAll: managerial,
	ActionAvailabilityAll:   managerial,
	ActionInventoryManage:   managerial,
	ActionEmployeeManage:    {RoleTenantAdmin, RoleZonoAdmin},
	ActionTenantManage:      {RoleZonoAdmin},
}

func Can(role, action string) bool {
	allowed, ok := permissions[action]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// IsManagerial reports whether the role may act on behalf of other
// employees in the tenant.
func IsManagerial(role string) bool {
	for _, r := range managerial {
		if r == role {
			return true
		}
	}
	return false
}
