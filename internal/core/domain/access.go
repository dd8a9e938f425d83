package domain

// Module names a console module that can be gated per role.
type Module string

const (
	ModuleDashboard  Module = "dashboard"
	ModulePatients   Module = "patients"
	ModuleVisits     Module = "visits"
	ModuleBilling    Module = "billing"
	ModuleReports    Module = "reports"
	ModuleSettings   Module = "settings"
	ModuleFinance    Module = "finance"
	ModuleCounseling Module = "counseling"
	ModuleEmoc       Module = "emoc"
	ModuleRdf        Module = "rdf"
	ModuleOutdoor    Module = "outdoor"
)

// moduleGrants is the static per-role module allow-list. Admin-equivalent
// roles are not listed here: they pass every check unconditionally.
var moduleGrants = map[Role][]Module{
	RoleCounselor:    {ModuleDashboard, ModuleCounseling, ModulePatients, ModuleVisits},
	RoleEmocStaff:    {ModuleDashboard, ModuleEmoc, ModulePatients, ModuleVisits},
	RoleRdfStaff:     {ModuleDashboard, ModuleRdf, ModulePatients},
	RoleOutdoorStaff: {ModuleOutdoor, ModulePatients, ModuleVisits, ModuleBilling},
}

// HasModuleAccess reports whether the role may use the given module.
func HasModuleAccess(role Role, module Module) bool {
	if role.IsAdminEquivalent() {
		return true
	}
	for _, m := range moduleGrants[role] {
		if m == module {
			return true
		}
	}
	return false
}

// ModulesFor returns the modules the role may use, for navigation rendering.
// Admin-equivalent roles get the full set.
func ModulesFor(role Role) []Module {
	if role.IsAdminEquivalent() {
		return []Module{
			ModuleDashboard, ModulePatients, ModuleVisits, ModuleBilling,
			ModuleReports, ModuleSettings, ModuleFinance, ModuleCounseling,
			ModuleEmoc, ModuleRdf, ModuleOutdoor,
		}
	}
	grants := moduleGrants[role]
	out := make([]Module, len(grants))
	copy(out, grants)
	return out
}
