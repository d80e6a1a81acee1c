package store

import (
	"fmt"
	"strings"
)

// IDPolicy decides the id Add gives a new item.
type IDPolicy int

const (
	// IDPolicyMax uses the highest id in the list plus one, or 1 for an empty
	// list. Ids come back into use once the list has been emptied, which is
	// how the backend's existing data was numbered.
	IDPolicyMax IDPolicy = iota
	// IDPolicyMonotonic never hands out an id seen earlier in the session.
	IDPolicyMonotonic
)

func (p IDPolicy) String() string {
	switch p {
	case IDPolicyMax:
		return "max"
	case IDPolicyMonotonic:
		return "monotonic"
	default:
		return fmt.Sprintf("IDPolicy(%d)", int(p))
	}
}

// ParseIDPolicy accepts "max" or "monotonic". Empty means max.
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "max":
		return IDPolicyMax, nil
	case "monotonic":
		return IDPolicyMonotonic, nil
	}
	return IDPolicyMax, fmt.Errorf("unknown id policy %q (want max or monotonic)", s)
}
