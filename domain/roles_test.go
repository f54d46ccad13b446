package domain

import "testing"

func TestRoleTotalOrder(t *testing.T) {
	ordered := []Role{RoleGuest, RoleUser, RoleManager, RoleAdmin}

	for i, lower := range ordered {
		for j, higher := range ordered {
			got := higher.AtLeast(lower)
			want := j >= i
			if got != want {
				t.Errorf("(%s).AtLeast(%s) = %v, want %v", higher, lower, got, want)
			}
		}
	}
}

func TestRoleAtLeast_UnknownRole(t *testing.T) {
	if Role("superuser").AtLeast(RoleGuest) {
		t.Error("unknown role must not satisfy any check")
	}
	if RoleAdmin.AtLeast(Role("superuser")) {
		t.Error("checks against unknown roles must deny")
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"guest", RoleGuest, false},
		{"user", RoleUser, false},
		{"manager", RoleManager, false},
		{"admin", RoleAdmin, false},
		{"Admin", RoleGuest, true},
		{"", RoleGuest, true},
		{"root", RoleGuest, true},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseManageCategory(t *testing.T) {
	for _, valid := range []string{"hospital", "clinic", "pharmacy"} {
		if _, err := ParseManageCategory(valid); err != nil {
			t.Errorf("ParseManageCategory(%q) unexpected error: %v", valid, err)
		}
	}
	if _, err := ParseManageCategory("dentist"); err == nil {
		t.Error("ParseManageCategory(\"dentist\") expected error")
	}
}
