package domain

// Role identifies what a console user is allowed to do. system_admin and
// clinic_manager are admin-equivalent: they see every module and may operate
// across clinics. The remaining roles are clinic-bound staff roles.
type Role string

const (
	RoleSystemAdmin   Role = "system_admin"
	RoleClinicManager Role = "clinic_manager"
	RoleCounselor     Role = "counselor"
	RoleEmocStaff     Role = "emoc_staff"
	RoleRdfStaff      Role = "rdf_staff"
	RoleOutdoorStaff  Role = "outdoor_staff"
)

// IsAdminEquivalent reports whether the role bypasses module allow-lists
// and clinic scoping.
func (r Role) IsAdminEquivalent() bool {
	return r == RoleSystemAdmin || r == RoleClinicManager
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleClinicManager, RoleCounselor,
		RoleEmocStaff, RoleRdfStaff, RoleOutdoorStaff:
		return true
	}
	return false
}

// User is the authenticated principal as returned by the clinic backend.
// A non-admin user always carries a clinic_id; system-wide roles may not.
type User struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Role       Role   `json:"role"`
	ClinicID   int    `json:"clinic_id,omitempty"`
	ClinicName string `json:"clinic_name,omitempty"`
	IsActive   bool   `json:"is_active"`
}
