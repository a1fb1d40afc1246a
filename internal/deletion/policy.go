package deletion

import (
	"fmt"
	"strings"
)

// Policy decides what happens to the non-kept members of duplicate groups.
type Policy string

const (
	// PolicyNo only reports groups.
	PolicyNo Policy = "no"
	// PolicyYes asks, group by group, which member to keep.
	PolicyYes Policy = "yes"
	// PolicyAll keeps the first member of every group after one confirmation.
	PolicyAll Policy = "all"
)

// Policies lists the accepted values in prompt order.
func Policies() []Policy {
	return []Policy{PolicyNo, PolicyYes, PolicyAll}
}

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyNo, PolicyYes, PolicyAll:
		return p, nil
	default:
		return "", fmt.Errorf("delete policy must be one of no, yes, all; got %q", s)
	}
}

// Describe returns the prompt label for p.
func (p Policy) Describe() string {
	switch p {
	case PolicyNo:
		return "no  - only list duplicates"
	case PolicyYes:
		return "yes - choose which file to keep in each group"
	case PolicyAll:
		return "all - keep the first file of every group, delete the rest"
	default:
		return string(p)
	}
}
