package webhook

import (
	"fmt"
	"sort"
	"strings"
)

/* AspectType is what happened to the object
 * ObjectType is what kind of object it happened to
 * Anything outside these sets is rejected before dispatch
 */
type AspectType int

const (
	Create AspectType = iota + 1
	Update
	Delete
)

// String returns the string representation of the aspect type
func (a AspectType) String() string {
	switch a {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// ParseAspectType creates an AspectType from its wire name
func ParseAspectType(s string) (AspectType, error) {
	switch s {
	case "create":
		return Create, nil
	case "update":
		return Update, nil
	case "delete":
		return Delete, nil
	default:
		return 0, fmt.Errorf("invalid aspect type: %q", s)
	}
}

type ObjectType int

const (
	Activity ObjectType = iota + 1
	Athlete
)

// String returns the string representation of the object type
func (o ObjectType) String() string {
	switch o {
	case Activity:
		return "activity"
	case Athlete:
		return "athlete"
	default:
		return "unknown"
	}
}

// ParseObjectType creates an ObjectType from its wire name
func ParseObjectType(s string) (ObjectType, error) {
	switch s {
	case "activity":
		return Activity, nil
	case "athlete":
		return Athlete, nil
	default:
		return 0, fmt.Errorf("invalid object type: %q", s)
	}
}

// AspectSet is the set of aspect types the service acts on
type AspectSet map[AspectType]struct{}

// NewAspectSet builds a set from wire names, e.g. from "create,update"
func NewAspectSet(names ...string) (AspectSet, error) {
	set := AspectSet{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		a, err := ParseAspectType(name)
		if err != nil {
			return nil, err
		}
		set[a] = struct{}{}
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("aspect set cannot be empty")
	}
	return set, nil
}

// Contains reports whether a is handled
func (s AspectSet) Contains(a AspectType) bool {
	_, ok := s[a]
	return ok
}

// String lists the set in a stable order
func (s AspectSet) String() string {
	names := make([]string, 0, len(s))
	for a := range s {
		names = append(names, a.String())
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
