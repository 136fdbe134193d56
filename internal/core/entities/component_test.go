package entities

import "testing"

func TestComponentAttributesString(t *testing.T) {
	a := ComponentAttributes{Cvendor: "ARM", Cclass: "CMSIS", Cgroup: "CORE", Cversion: "5.8.0"}
	want := "ARM::CMSIS:CORE@5.8.0"
	if got := a.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestComponentSelectorMatches(t *testing.T) {
	c, err := NewComponent(ComponentAttributes{
		Cvendor: "ARM", Cclass: "CMSIS", Cgroup: "CORE", Cversion: "5.8.0",
	}, PackID{Vendor: "ARM", Name: "CMSIS", Version: "5.8.0"})
	if err != nil {
		t.Fatalf("NewComponent: %v", err)
	}

	tests := []struct {
		name string
		sel  ComponentSelector
		want bool
	}{
		{"class+group match", ComponentSelector{Cclass: "CMSIS", Cgroup: "CORE"}, true},
		{"wrong group", ComponentSelector{Cclass: "CMSIS", Cgroup: "DSP"}, false},
		{"vendor from pack", ComponentSelector{Cvendor: "ARM", Cclass: "CMSIS"}, true},
		{"version constraint satisfied", func() ComponentSelector {
			vc, _ := ParseVersionConstraint(">=5.0.0")
			return ComponentSelector{Cclass: "CMSIS", Version: vc}
		}(), true},
		{"version constraint unsatisfied", func() ComponentSelector {
			vc, _ := ParseVersionConstraint(">=6.0.0")
			return ComponentSelector{Cclass: "CMSIS", Version: vc}
		}(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Matches(c); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComponentValidate(t *testing.T) {
	c := &Component{Attributes: ComponentAttributes{Cclass: "", Cgroup: "CORE"}}
	if err := c.Validate(); err == nil {
		t.Error("expected validation error for empty Cclass")
	}
}
