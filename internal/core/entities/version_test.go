package entities

import "testing"

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"5.8.0", "5.8.0", 0},
		{"5.8.0", "5.9.0", -1},
		{"5.9.0", "5.8.0", 1},
		{"5.8.0-rc1", "5.8.0", -1},
		{"1.0.0", "1.0", 0},
	}
	for _, tt := range tests {
		a := MustParseVersion(tt.a)
		b := MustParseVersion(tt.b)
		if got := a.Compare(b); got != tt.want {
			t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestVersionConstraintSatisfies(t *testing.T) {
	tests := []struct {
		expr string
		v    string
		want bool
	}{
		{"5.8.0", "5.8.0", true},
		{"5.8.0", "5.8.1", false},
		{">=5.8.0", "6.0.0", true},
		{">=5.8.0", "5.7.0", false},
		{"5.8.0:6.0.0", "5.9.0", true},
		{"5.8.0:6.0.0", "6.0.1", false},
		{"", "9.9.9", true},
	}
	for _, tt := range tests {
		c, err := ParseVersionConstraint(tt.expr)
		if err != nil {
			t.Fatalf("ParseVersionConstraint(%q): %v", tt.expr, err)
		}
		v := MustParseVersion(tt.v)
		if got := c.Satisfies(v); got != tt.want {
			t.Errorf("constraint %q satisfies %q = %v, want %v", tt.expr, tt.v, got, tt.want)
		}
	}
}

// TestIntersectVersionConstraintsAssociative checks the property the pack
// resolver depends on: intersecting three constraints gives the same result
// regardless of grouping order.
func TestIntersectVersionConstraintsAssociative(t *testing.T) {
	a, _ := ParseVersionConstraint(">=5.0.0")
	b, _ := ParseVersionConstraint("5.0.0:6.5.0")
	c, _ := ParseVersionConstraint(">=5.5.0")

	left, okLeft := IntersectVersionConstraints(a, b)
	if !okLeft {
		t.Fatal("a ∩ b should not be empty")
	}
	leftResult, okLeftAll := IntersectVersionConstraints(left, c)

	right, okRight := IntersectVersionConstraints(b, c)
	if !okRight {
		t.Fatal("b ∩ c should not be empty")
	}
	rightResult, okRightAll := IntersectVersionConstraints(a, right)

	if okLeftAll != okRightAll {
		t.Fatalf("associativity mismatch on ok: left=%v right=%v", okLeftAll, okRightAll)
	}
	if okLeftAll && leftResult != rightResult {
		t.Errorf("associativity mismatch: (a∩b)∩c = %+v, a∩(b∩c) = %+v", leftResult, rightResult)
	}
}

func TestIntersectVersionConstraintsEmpty(t *testing.T) {
	a, _ := ParseVersionConstraint("5.0.0:5.5.0")
	b, _ := ParseVersionConstraint(">=6.0.0")
	_, ok := IntersectVersionConstraints(a, b)
	if ok {
		t.Error("expected empty intersection for disjoint ranges")
	}
}
