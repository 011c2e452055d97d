package auth

const (
	RoleEmployee    = "employee"
	RoleManager     = "manager"
	RoleAdmin       = "admin"
	RoleSystemAdmin = "system_admin"
)

const (
	PermEmployeesRead  = "core.employees.read"
	PermKpiRead        = "kpi.read"
	PermKpiWrite       = "kpi.write"
	PermKpiAssign      = "kpi.assign"
	PermKpiApprove     = "kpi.approve"
	PermRewardsRead    = "rewards.read"
	PermRewardsWrite   = "rewards.write"
	PermRewardsCompute = "rewards.compute"
	PermAuditRead      = "audit.read"
	PermSystemAdmin    = "admin.system"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermKpiRead,
	PermKpiWrite,
	PermKpiAssign,
	PermKpiApprove,
	PermRewardsRead,
	PermRewardsWrite,
	PermRewardsCompute,
	PermAuditRead,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermKpiRead,
		PermKpiWrite,
		PermRewardsRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermKpiRead,
		PermKpiWrite,
		PermKpiAssign,
		PermKpiApprove,
		PermRewardsRead,
		PermRewardsCompute,
	},
	RoleAdmin: {
		PermEmployeesRead,
		PermKpiRead,
		PermKpiWrite,
		PermKpiAssign,
		PermKpiApprove,
		PermRewardsRead,
		PermRewardsWrite,
		PermRewardsCompute,
		PermAuditRead,
	},
	RoleSystemAdmin: {
		PermSystemAdmin,
	},
}
