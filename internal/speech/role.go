package speech

import (
	"fmt"
	"strings"
)

// Role is the kind of speaker a line is voiced as.
type Role int

const (
	Narrator Role = iota
	Male
	Female
	Protagonist
	Custom
)

var roleNames = [...]string{
	Narrator:    "narrator",
	Male:        "male",
	Female:      "female",
	Protagonist: "protagonist",
	Custom:      "custom",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range roleNames {
		if name == s {
			return Role(i), nil
		}
	}
	return Narrator, fmt.Errorf("unknown voice role %q", s)
}
