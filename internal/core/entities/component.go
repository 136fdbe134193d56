package entities

import (
	"fmt"
	"strings"
)

// ComponentAttributes is the seven-attribute tuple that identifies a
// component within a pack: Cvendor (optional, defaults to the pack's
// vendor), Cclass, Cbundle (optional), Cgroup, Csub (optional), Cvariant
// (optional), Cversion.
type ComponentAttributes struct {
	Cvendor  string
	Cclass   string
	Cbundle  string
	Cgroup   string
	Csub     string
	Cvariant string
	Cversion string
}

// String renders the attribute tuple the way it appears in an RTE
// component-ID string: "Vendor::Class&Bundle:Group:Sub&Variant@Version".
func (a ComponentAttributes) String() string {
	var b strings.Builder
	if a.Cvendor != "" {
		b.WriteString(a.Cvendor)
		b.WriteString("::")
	}
	b.WriteString(a.Cclass)
	if a.Cbundle != "" {
		b.WriteString("&")
		b.WriteString(a.Cbundle)
	}
	if a.Cgroup != "" {
		b.WriteString(":")
		b.WriteString(a.Cgroup)
	}
	if a.Csub != "" {
		b.WriteString(":")
		b.WriteString(a.Csub)
	}
	if a.Cvariant != "" {
		b.WriteString("&")
		b.WriteString(a.Cvariant)
	}
	if a.Cversion != "" {
		b.WriteString("@")
		b.WriteString(a.Cversion)
	}
	return b.String()
}

// ComponentFile is a single file contributed by a component: a source,
// header, config (user-editable copy-on-select), linker script, or library.
type ComponentFile struct {
	Path     string
	Category string // "source" | "header" | "config" | "linkerScript" | "library" | "doc"
	Attr     string // "config" marks a file as copied into the project on first selection
	Version  string
	Select   string
}

// Component is a single selectable unit of reusable code inside a Pack, the
// atom the component solver (usecases.ComponentSolver) works with.
type Component struct {
	Attributes   ComponentAttributes
	Pack         PackID
	ConditionRef string
	APIRef       string
	Files        []ComponentFile
	GeneratorRef string
	Bootstrap    bool
	MaxInstances int
	Description  string
}

// NewComponent builds a Component for the given attribute tuple, validating
// the required Cclass/Cgroup fields.
func NewComponent(attrs ComponentAttributes, pack PackID) (*Component, error) {
	if err := ValidateName(attrs.Cclass); err != nil {
		return nil, NewValidationError("Component", "Cclass", attrs.Cclass, "invalid class", err)
	}
	if err := ValidateName(attrs.Cgroup); err != nil {
		return nil, NewValidationError("Component", "Cgroup", attrs.Cgroup, "invalid group", err)
	}
	return &Component{Attributes: attrs, Pack: pack, MaxInstances: 1}, nil
}

// Validate checks structural validity of the component's own fields (not
// its condition, which is resolved separately against the active pack
// catalog).
func (c *Component) Validate() error {
	var errs ValidationErrors
	if err := ValidateName(c.Attributes.Cclass); err != nil {
		errs.Add("Component", "Cclass", c.Attributes.Cclass, "invalid class", err)
	}
	if err := ValidateName(c.Attributes.Cgroup); err != nil {
		errs.Add("Component", "Cgroup", c.Attributes.Cgroup, "invalid group", err)
	}
	for _, f := range c.Files {
		if err := ValidatePath(f.Path); err != nil {
			errs.Add("Component", "Files", f.Path, "invalid file path", err)
		}
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ID returns the component's full attribute-tuple identity string,
// including the owning pack's vendor when Cvendor was not set explicitly.
func (c *Component) ID() string {
	a := c.Attributes
	if a.Cvendor == "" {
		a.Cvendor = c.Pack.Vendor
	}
	return a.String()
}

// ComponentSelector is a (possibly partial) attribute match used by
// project/layer component references: empty fields are wildcards.
type ComponentSelector struct {
	Cvendor  string
	Cclass   string
	Cbundle  string
	Cgroup   string
	Csub     string
	Cvariant string
	Version  VersionConstraint
}

// Matches reports whether a concrete component satisfies this selector.
func (sel ComponentSelector) Matches(c *Component) bool {
	a := c.Attributes
	if sel.Cvendor != "" && !strings.EqualFold(sel.Cvendor, a.Cvendor) && !strings.EqualFold(sel.Cvendor, c.Pack.Vendor) {
		return false
	}
	if sel.Cclass != "" && sel.Cclass != a.Cclass {
		return false
	}
	if sel.Cbundle != "" && sel.Cbundle != a.Cbundle {
		return false
	}
	if sel.Cgroup != "" && sel.Cgroup != a.Cgroup {
		return false
	}
	if sel.Csub != "" && sel.Csub != a.Csub {
		return false
	}
	if sel.Cvariant != "" && sel.Cvariant != a.Cvariant {
		return false
	}
	if sel.Version.Kind != ConstraintAny {
		v, err := ParseVersion(a.Cversion)
		if err != nil || !sel.Version.Satisfies(v) {
			return false
		}
	}
	return true
}

// String renders the selector as "Cvendor::Cclass:Cgroup", substituting
// "*" for each of those three left unset. Cbundle, Csub, Cvariant and the
// version constraint are not rendered.
func (sel ComponentSelector) String() string {
	star := func(s string) string {
		if s == "" {
			return "*"
		}
		return s
	}
	return fmt.Sprintf("%s::%s:%s", star(sel.Cvendor), star(sel.Cclass), star(sel.Cgroup))
}

// ResolvedComponent pairs a component selector from a project/layer with the
// concrete component the solver picked for it.
type ResolvedComponent struct {
	Selector  ComponentSelector
	Component *Component
	Instance  int
}
