package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a semantic version as used throughout the pack ecosystem:
// MAJOR.MINOR.PATCH with an optional pre-release suffix introduced by '-'.
// Build metadata (a trailing '+...') is accepted and ignored in comparisons,
// matching the pdsc/cbuild version conventions.
type Version struct {
	Major, Minor, Patch int
	Pre                 string
}

// ParseVersion parses a semantic version string.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("version: empty string")
	}
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	pre := ""
	if i := strings.IndexByte(s, '-'); i >= 0 {
		pre = s[i+1:]
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return Version{}, fmt.Errorf("version: invalid format %q", s)
	}
	nums := [3]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("version: invalid segment %q in %q", p, s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Pre: pre}, nil
}

// MustParseVersion parses a version, panicking on error. Intended for
// compile-time-known literals (tests, defaults).
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

// Compare returns -1, 0, or 1 if v is less than, equal to, or greater than
// other. A version without a pre-release suffix is greater than the same
// MAJOR.MINOR.PATCH with a pre-release suffix (standard semver precedence).
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		return cmpInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return cmpInt(v.Minor, other.Minor)
	}
	if v.Patch != other.Patch {
		return cmpInt(v.Patch, other.Patch)
	}
	if v.Pre == other.Pre {
		return 0
	}
	if v.Pre == "" {
		return 1
	}
	if other.Pre == "" {
		return -1
	}
	if v.Pre < other.Pre {
		return -1
	}
	return 1
}

func (v Version) Less(other Version) bool    { return v.Compare(other) < 0 }
func (v Version) Greater(other Version) bool { return v.Compare(other) > 0 }
func (v Version) Equal(other Version) bool   { return v.Compare(other) == 0 }

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// VersionConstraintKind identifies the shape of a version constraint
// expression attached to a pack or component selector.
type VersionConstraintKind int

const (
	// ConstraintAny matches every version (no constraint given).
	ConstraintAny VersionConstraintKind = iota
	// ConstraintExact requires an exact version match ("@version").
	ConstraintExact
	// ConstraintMin requires a version >= Min ("@>=version").
	ConstraintMin
	// ConstraintRange requires Min <= version <= Max ("min:max").
	ConstraintRange
)

// VersionConstraint restricts which pack/component versions are acceptable.
// It is the in-memory form of the "vendor::name@[>=]version[:max]" pack
// constraint syntax.
type VersionConstraint struct {
	Kind VersionConstraintKind
	Min  Version
	Max  Version // only meaningful when Kind == ConstraintRange
}

// ParseVersionConstraint parses the version portion of a pack/component
// constraint expression, e.g. "5.8.0", ">=5.8.0", "5.8.0:6.0.0".
func ParseVersionConstraint(expr string) (VersionConstraint, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return VersionConstraint{Kind: ConstraintAny}, nil
	}
	if strings.HasPrefix(expr, ">=") {
		rest := expr[2:]
		if i := strings.IndexByte(rest, ':'); i >= 0 {
			minV, err := ParseVersion(rest[:i])
			if err != nil {
				return VersionConstraint{}, err
			}
			maxV, err := ParseVersion(rest[i+1:])
			if err != nil {
				return VersionConstraint{}, err
			}
			return VersionConstraint{Kind: ConstraintRange, Min: minV, Max: maxV}, nil
		}
		minV, err := ParseVersion(rest)
		if err != nil {
			return VersionConstraint{}, err
		}
		return VersionConstraint{Kind: ConstraintMin, Min: minV}, nil
	}
	if i := strings.IndexByte(expr, ':'); i >= 0 {
		minV, err := ParseVersion(expr[:i])
		if err != nil {
			return VersionConstraint{}, err
		}
		maxV, err := ParseVersion(expr[i+1:])
		if err != nil {
			return VersionConstraint{}, err
		}
		return VersionConstraint{Kind: ConstraintRange, Min: minV, Max: maxV}, nil
	}
	exact, err := ParseVersion(expr)
	if err != nil {
		return VersionConstraint{}, err
	}
	return VersionConstraint{Kind: ConstraintExact, Min: exact}, nil
}

// Satisfies reports whether v is within the constraint.
func (c VersionConstraint) Satisfies(v Version) bool {
	switch c.Kind {
	case ConstraintAny:
		return true
	case ConstraintExact:
		return v.Equal(c.Min)
	case ConstraintMin:
		return !v.Less(c.Min)
	case ConstraintRange:
		return !v.Less(c.Min) && !v.Greater(c.Max)
	default:
		return false
	}
}

func (c VersionConstraint) String() string {
	switch c.Kind {
	case ConstraintAny:
		return ""
	case ConstraintExact:
		return c.Min.String()
	case ConstraintMin:
		return ">=" + c.Min.String()
	case ConstraintRange:
		return c.Min.String() + ":" + c.Max.String()
	default:
		return ""
	}
}

// IntersectVersionConstraints computes the constraint that satisfies both a
// and b. Returns ok=false if the intersection is empty (invariant/property
// test: version range intersection must be associative, see
// TestIntersectVersionConstraintsAssociative in version_test.go and
// TestIntersectAllAssociative in usecases/pack_resolver_test.go).
func IntersectVersionConstraints(a, b VersionConstraint) (result VersionConstraint, ok bool) {
	lo, loExact := effectiveMin(a)
	hi, hasHi := effectiveMax(a)
	lo2, lo2Exact := effectiveMin(b)
	hi2, hasHi2 := effectiveMax(b)

	min := lo
	if lo2.Greater(min) {
		min = lo2
	}

	var max Version
	hasMax := false
	if hasHi {
		max = hi
		hasMax = true
	}
	if hasHi2 && (!hasMax || hi2.Less(max)) {
		max = hi2
		hasMax = true
	}

	if hasMax && min.Greater(max) {
		return VersionConstraint{}, false
	}

	exactReq := (a.Kind == ConstraintExact) || (b.Kind == ConstraintExact)
	if exactReq {
		// both exacts must agree, and any min/max from the other side must accept it.
		var exact Version
		if a.Kind == ConstraintExact {
			exact = a.Min
		} else {
			exact = b.Min
		}
		if !a.Satisfies(exact) || !b.Satisfies(exact) {
			return VersionConstraint{}, false
		}
		return VersionConstraint{Kind: ConstraintExact, Min: exact}, true
	}

	_ = loExact
	_ = lo2Exact
	if !hasMax {
		if min == (Version{}) {
			return VersionConstraint{Kind: ConstraintAny}, true
		}
		return VersionConstraint{Kind: ConstraintMin, Min: min}, true
	}
	return VersionConstraint{Kind: ConstraintRange, Min: min, Max: max}, true
}

func effectiveMin(c VersionConstraint) (Version, bool) {
	switch c.Kind {
	case ConstraintExact, ConstraintMin, ConstraintRange:
		return c.Min, true
	default:
		return Version{}, false
	}
}

func effectiveMax(c VersionConstraint) (Version, bool) {
	switch c.Kind {
	case ConstraintExact:
		return c.Min, true
	case ConstraintRange:
		return c.Max, true
	default:
		return Version{}, false
	}
}
