package model

// Role is an admin-tier permission label, distinct from the identity class.
type Role string

const (
	RoleSuperAdmin        Role = "hsh_2_sa_4"
	RoleCounter           Role = "counter"
	RoleTransferClerk     Role = "transfer_clerk"
	RoleBadrHospitalAdmin Role = "badr_hospital_admin"
	RoleObserver          Role = "observer"
	RoleSecondManager     Role = "second_manager"
)

// AdminRoles lists the roles an Admin row may carry. RoleSuperAdmin is
// reserved for the super_admins table.
var AdminRoles = []Role{
	RoleCounter,
	RoleTransferClerk,
	RoleBadrHospitalAdmin,
	RoleObserver,
	RoleSecondManager,
}

// IsAdminRole reports whether r can be assigned to an Admin row.
func IsAdminRole(r Role) bool {
	for _, ar := range AdminRoles {
		if ar == r {
			return true
		}
	}
	return false
}
