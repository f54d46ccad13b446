package domain

import "fmt"

// Role is the privilege level carried by a credential. Roles form a total
// order; comparisons go through the rank table, never string equality.
type Role string

const (
	RoleGuest   Role = "guest"
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

var roleRank = map[Role]int{
	RoleGuest:   0,
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// ParseRole validates a role string coming from storage or a token claim.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRank[r]; !ok {
		return RoleGuest, fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// AtLeast reports whether r satisfies a check requiring min. Unknown roles
// never satisfy anything.
func (r Role) AtLeast(min Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	mr, ok := roleRank[min]
	if !ok {
		return false
	}
	return rr >= mr
}

func (r Role) String() string { return string(r) }

// ManageCategory identifies which facility collection a management grant
// applies to.
type ManageCategory string

const (
	CategoryHospital ManageCategory = "hospital"
	CategoryClinic   ManageCategory = "clinic"
	CategoryPharmacy ManageCategory = "pharmacy"
)

// ParseManageCategory validates a category string from a request or grant row.
func ParseManageCategory(s string) (ManageCategory, error) {
	switch c := ManageCategory(s); c {
	case CategoryHospital, CategoryClinic, CategoryPharmacy:
		return c, nil
	default:
		return "", fmt.Errorf("unknown manage category %q", s)
	}
}

func (c ManageCategory) String() string { return string(c) }
