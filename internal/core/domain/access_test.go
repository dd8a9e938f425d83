package domain

import "testing"

func TestHasModuleAccess_AdminEquivalentRoles(t *testing.T) {
	allModules := []Module{
		ModuleDashboard, ModulePatients, ModuleVisits, ModuleBilling,
		ModuleReports, ModuleSettings, ModuleFinance, ModuleCounseling,
		ModuleEmoc, ModuleRdf, ModuleOutdoor,
	}

	for _, role := range []Role{RoleSystemAdmin, RoleClinicManager} {
		for _, m := range allModules {
			if !HasModuleAccess(role, m) {
				t.Fatalf("%s should access %s", role, m)
			}
		}
	}
}

func TestHasModuleAccess_StaffAllowLists(t *testing.T) {
	cases := []struct {
		role    Role
		module  Module
		allowed bool
	}{
		{RoleOutdoorStaff, ModuleOutdoor, true},
		{RoleOutdoorStaff, ModulePatients, true},
		{RoleOutdoorStaff, ModuleFinance, false},
		{RoleOutdoorStaff, ModuleSettings, false},
		{RoleCounselor, ModuleCounseling, true},
		{RoleCounselor, ModuleFinance, false},
		{RoleEmocStaff, ModuleEmoc, true},
		{RoleEmocStaff, ModuleRdf, false},
		{RoleRdfStaff, ModuleRdf, true},
		{RoleRdfStaff, ModuleVisits, false},
	}

	for _, tc := range cases {
		if got := HasModuleAccess(tc.role, tc.module); got != tc.allowed {
			t.Fatalf("HasModuleAccess(%s, %s) = %v, want %v", tc.role, tc.module, got, tc.allowed)
		}
	}
}

func TestHasModuleAccess_UnknownRole(t *testing.T) {
	if HasModuleAccess(Role("ghost"), ModuleDashboard) {
		t.Fatalf("unknown role should have no access")
	}
}

func TestModulesFor_CopiesGrants(t *testing.T) {
	mods := ModulesFor(RoleOutdoorStaff)
	if len(mods) == 0 {
		t.Fatalf("expected grants for outdoor_staff")
	}
	mods[0] = Module("mutated")
	if !HasModuleAccess(RoleOutdoorStaff, ModuleOutdoor) {
		t.Fatalf("mutating the returned slice must not affect the allow-list")
	}
}

func TestSession_CanAccess(t *testing.T) {
	var nilSession *Session
	if nilSession.CanAccess(ModuleDashboard) {
		t.Fatalf("nil session should have no access")
	}

	anonymous := &Session{ID: "s1", Token: "tok"}
	if anonymous.CanAccess(ModuleDashboard) {
		t.Fatalf("session without user should have no access")
	}

	staff := &Session{ID: "s2", Token: "tok", User: &User{ID: 7, Role: RoleOutdoorStaff}}
	if !staff.CanAccess(ModuleOutdoor) {
		t.Fatalf("outdoor_staff should access outdoor")
	}
	if staff.CanAccess(ModuleFinance) {
		t.Fatalf("outdoor_staff should not access finance")
	}
}

func TestClinicByID(t *testing.T) {
	clinic, ok := ClinicByID(1)
	if !ok {
		t.Fatalf("clinic 1 should exist")
	}
	if clinic.Name == "" {
		t.Fatalf("clinic should carry display fields")
	}

	if _, ok := ClinicByID(999); ok {
		t.Fatalf("clinic 999 should not exist")
	}
}
