package services

import "testing"

func TestResolveRegistrationGrant(t *testing.T) {
	tests := []struct {
		name          string
		existingUsers int64
		requestedRole string
		wantRole      string
		wantAdmin     bool
	}{
		{"first user bootstraps as admin", 0, "staff", "admin", true},
		{"first user admin request stays admin", 0, "admin", "admin", true},
		{"later staff stays staff", 3, "staff", "staff", false},
		{"later trainer stays trainer", 3, "trainer", "trainer", false},
		{"later admin role carries the admin flag", 3, "admin", "admin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, isAdmin := ResolveRegistrationGrant(tt.existingUsers, tt.requestedRole)
			if role != tt.wantRole || isAdmin != tt.wantAdmin {
				t.Fatalf("got (%q, %v), want (%q, %v)", role, isAdmin, tt.wantRole, tt.wantAdmin)
			}
		})
	}
}
