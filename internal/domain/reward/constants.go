package reward

const (
	RoleITStaff         = "IT_STAFF"
	RoleSales           = "SALES"
	RoleCustomerService = "CUSTOMER_SERVICE"
	RoleManager         = "MANAGER"
)

const (
	TypeBonus   = "bonus"
	TypePenalty = "penalty"
)

const (
	BucketQuarterly = "quarterly"
	BucketAnnual    = "annual"
	BucketPenalty   = "penalty"
)
