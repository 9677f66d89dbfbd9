package domain

const (
	StaffIdCtxKey   = "lf-staffId"
	StaffRoleCtxKey = "lf-staffRole"
)

const (
	StaffIdHeader   = "lf-staff-id"
	StaffRoleHeader = "lf-staff-role"
)
