package entities

import "fmt"

// PackID identifies a pack release: Vendor.Name.Version.
type PackID struct {
	Vendor  string
	Name    string
	Version string
}

// String renders "Vendor::Name@Version", the RTE notation used in
// component-ID strings and diagnostics.
func (p PackID) String() string {
	return fmt.Sprintf("%s::%s@%s", p.Vendor, p.Name, p.Version)
}

// BaseID renders "Vendor::Name" without the version, used to group releases
// of the same pack.
func (p PackID) BaseID() string {
	return fmt.Sprintf("%s::%s", p.Vendor, p.Name)
}

// Release is one published version of a pack plus its release notes, as
// enumerated in a PDSC's <releases> element. The packchk-style pass
// (usecases.CheckPack) flags duplicate release versions; it does not check
// their order.
type Release struct {
	Version string
	Date    string
	Text    string
}

// Pack is a fully-parsed CMSIS-Pack: identity, component catalog, named
// conditions, API declarations, and the device/board descriptions it
// contributes.
type Pack struct {
	ID         PackID
	URL        string
	License    string
	Releases   []Release
	Components []*Component
	Conditions map[string]*Condition
	APIs       []APIDecl
	Devices    []DeviceFamily
	Boards     []Board
	Generators []GeneratorDecl
	Examples   []Example
	Path       string // installed location on disk
}

// APIDecl is a named API surface a component may declare implementation of
// (Capiversion/Cgroup). usecases.ResolveAPIs matches a component's APIRef
// against Cgroup and picks the newest declared Capiversion; it does not
// count how many selected components implement an API.
type APIDecl struct {
	Cgroup       string
	Cbundle      string
	Capiversion  string
	ConditionRef string
	Exclusive    bool
}

// DeviceFamily is the pack-level device description used to seed an SVD
// lookup and the device/board selector in `list devices`.
type DeviceFamily struct {
	Vendor    string
	Family    string
	SubFamily string
	Devices   []string
	SVDFile   string
}

// Board is a pack-described evaluation board, mounting one or more devices.
type Board struct {
	Vendor  string
	Name    string
	Devices []string
	Mounted []MountedDevice
}

// MountedDevice is a device instance soldered onto a board. A board selects
// its single mounted device unless the device is overridden explicitly.
type MountedDevice struct {
	Dvendor string
	Dname   string
	Pname   string
}

// Example is a pack-described sample project, as enumerated in a PDSC's
// <examples> element, surfaced by `list examples`.
type Example struct {
	Name   string
	Folder string
	Doc    string
	Vendor string // board vendor, from the example's <board> reference
	Board  string
}

// GeneratorDecl is a pack-declared external generator (legacy .gpdsc-style
// or a global generator referenced by ID from a component).
type GeneratorDecl struct {
	ID         string
	Name       string
	Exe        map[string]string // host-OS -> executable path, relative to pack root
	WorkingDir string
}

// PackConstraint is a solution/project-level pack reference:
// "vendor::name[@version-constraint]".
type PackConstraint struct {
	Vendor     string
	Name       string // empty means "all packs from Vendor"
	Constraint VersionConstraint
}

// Satisfies reports whether a concrete pack ID matches this constraint.
func (pc PackConstraint) Satisfies(id PackID) bool {
	if pc.Vendor != "" && pc.Vendor != id.Vendor {
		return false
	}
	if pc.Name != "" && pc.Name != id.Name {
		return false
	}
	v, err := ParseVersion(id.Version)
	if err != nil {
		return false
	}
	return pc.Constraint.Satisfies(v)
}

func (pc PackConstraint) String() string {
	s := pc.Vendor
	if pc.Name != "" {
		s += "::" + pc.Name
	}
	if vs := pc.Constraint.String(); vs != "" {
		s += "@" + vs
	}
	return s
}

// ResolvedPack is one pack selected by the pack resolver to satisfy the
// active context's component/condition requirements, with the selector
// strings that caused its selection (used for the lock file's
// "selectedBy" projection and for diagnostics).
type ResolvedPack struct {
	ID         PackID
	SelectedBy []string
	Hash       uint64 // xxhash of the pack's normalized catalog, embedded in the lock and checked by CheckFrozen
}
