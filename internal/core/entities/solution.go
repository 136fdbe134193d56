package entities

import "slices"

// ProcessorAttrs captures the processor-core attribute set shared by
// build-types and target-types: FPU/DSP/MVE presence, endianness,
// TrustZone mode, and branch-protection scheme.
type ProcessorAttrs struct {
	FPU               string // "on" | "off" | "dp" | ""
	DSP               string
	MVE               string // "" | "no" | "fp"
	Endian            string // "little" | "big" | ""
	TrustZone         string // "secure" | "non-secure" | "off" | ""
	BranchProtection  string
}

// AttributeSet is the named compiler/toolchain attribute bag shared by
// BuildType and TargetType.
type AttributeSet struct {
	Compiler    string
	Optimize    string
	Debug       string // "on" | "off"
	Warnings    string
	LanguageC   string
	LanguageCpp string
	LTO         bool
	Defines     []string
	Undefines   []string
	AddPaths    []string
	DelPaths    []string
	Misc        map[string][]string // tool name ("CC","CXX","ASM","Link") -> extra flags
	Processor   ProcessorAttrs
}

// Merge overlays child (more specific) attributes on top of base,
// following an additive-merge rule: scalar fields set in child win; list
// fields from base and child concatenate (defines/add-paths) or the
// child's del-paths subtract from the accumulated list.
func (base AttributeSet) Merge(child AttributeSet) AttributeSet {
	out := base
	if child.Compiler != "" {
		out.Compiler = child.Compiler
	}
	if child.Optimize != "" {
		out.Optimize = child.Optimize
	}
	if child.Debug != "" {
		out.Debug = child.Debug
	}
	if child.Warnings != "" {
		out.Warnings = child.Warnings
	}
	if child.LanguageC != "" {
		out.LanguageC = child.LanguageC
	}
	if child.LanguageCpp != "" {
		out.LanguageCpp = child.LanguageCpp
	}
	out.LTO = out.LTO || child.LTO
	out.Defines = mergeUndefine(append(slices.Clone(base.Defines), child.Defines...), child.Undefines)
	out.AddPaths = subtractPaths(append(slices.Clone(base.AddPaths), child.AddPaths...), child.DelPaths)
	out.Misc = mergeMisc(base.Misc, child.Misc)
	out.Processor = mergeProcessor(base.Processor, child.Processor)
	return out
}

func mergeUndefine(defines, undefines []string) []string {
	if len(undefines) == 0 {
		return defines
	}
	undef := make(map[string]bool, len(undefines))
	for _, u := range undefines {
		undef[u] = true
	}
	out := defines[:0:0]
	for _, d := range defines {
		if !undef[d] {
			out = append(out, d)
		}
	}
	return out
}

func subtractPaths(paths, del []string) []string {
	if len(del) == 0 {
		return paths
	}
	rm := make(map[string]bool, len(del))
	for _, d := range del {
		rm[d] = true
	}
	out := paths[:0:0]
	for _, p := range paths {
		if !rm[p] {
			out = append(out, p)
		}
	}
	return out
}

func mergeMisc(base, child map[string][]string) map[string][]string {
	out := make(map[string][]string, len(base)+len(child))
	for k, v := range base {
		out[k] = append(out[k], v...)
	}
	for k, v := range child {
		out[k] = append(out[k], v...)
	}
	return out
}

func mergeProcessor(base, child ProcessorAttrs) ProcessorAttrs {
	out := base
	if child.FPU != "" {
		out.FPU = child.FPU
	}
	if child.DSP != "" {
		out.DSP = child.DSP
	}
	if child.MVE != "" {
		out.MVE = child.MVE
	}
	if child.Endian != "" {
		out.Endian = child.Endian
	}
	if child.TrustZone != "" {
		out.TrustZone = child.TrustZone
	}
	if child.BranchProtection != "" {
		out.BranchProtection = child.BranchProtection
	}
	return out
}

// BuildType is a named attribute set a solution/project declares, selected
// by the ".<build-type>" segment of a context ID.
type BuildType struct {
	Name       string
	Attributes AttributeSet
}

// MemoryRegion is a named region of a target's memory map (from the
// device/board description or an explicit target-type override).
type MemoryRegion struct {
	Name   string
	Start  uint64
	Size   uint64
	Access string // e.g. "rx", "rwx"
	Default bool
	Startup bool
}

// TargetSet names a debug-adapter configuration plus the memory images it
// programs, selected by the `-a/--active <target-type>@<set>` flag.
type TargetSet struct {
	Name     string
	Debugger string
	Images   []string
}

// TargetType is a named attribute set plus device/board selection,
// selected by the "+<target-type>" segment of a context ID.
type TargetType struct {
	Name       string
	Attributes AttributeSet
	Device     string
	Board      string
	Memory     []MemoryRegion
	TargetSets []TargetSet
}

// OutputDirs is the solution-level {intdir, outdir} pair, overridable per
// project/context.
type OutputDirs struct {
	Intdir string
	Outdir string
}

// GeneratorRef is a project/layer-level reference to a pack-declared
// generator, naming the component that requires it.
type GeneratorRef struct {
	ID      string
	Name    string
	Workdir string
}

// ExecuteStep is a pre/post-build shell step declared at solution, project,
// or layer scope.
type ExecuteStep struct {
	Name    string
	Run     string
	Always  bool
	ForContext, NotForContext []string
}

// ProjectRef is a solution-level reference to a project file plus the
// context filters restricting which build/target-type combinations it
// participates in.
type ProjectRef struct {
	Path          string
	ForContext    []string
	NotForContext []string
}

// Solution is the top-level declarative document (*.csolution.yml): the set
// of projects, named build-types and target-types, shared pack
// constraints, and output locations that the context resolver expands into
// a list of Context values.
type Solution struct {
	Name        string
	Description string
	Projects    []ProjectRef
	BuildTypes  map[string]*BuildType
	TargetTypes map[string]*TargetType
	Output      OutputDirs
	Packs       []PackConstraint
	Generators  []GeneratorRef
	Executes    []ExecuteStep
	Path        string
}

// NewSolution creates an empty, named Solution ready for population by the
// YAML loader.
func NewSolution(name string) (*Solution, error) {
	if err := ValidateName(name); err != nil {
		return nil, NewValidationError("Solution", "Name", name, "invalid name", err)
	}
	return &Solution{
		Name:        name,
		BuildTypes:  make(map[string]*BuildType),
		TargetTypes: make(map[string]*TargetType),
	}, nil
}

// Validate checks solution-level structural invariants: every project
// reference must have a non-empty path, and build/target type names must
// be valid names (ValidateName).
func (s *Solution) Validate() error {
	var errs ValidationErrors
	if err := ValidateName(s.Name); err != nil {
		errs.Add("Solution", "Name", s.Name, "invalid name", err)
	}
	for _, p := range s.Projects {
		if err := ValidatePath(p.Path); err != nil {
			errs.Add("Solution", "Projects", p.Path, "invalid project path", err)
		}
	}
	for name := range s.BuildTypes {
		if err := ValidateName(name); err != nil {
			errs.Add("Solution", "BuildTypes", name, "invalid build-type name", err)
		}
	}
	for name := range s.TargetTypes {
		if err := ValidateName(name); err != nil {
			errs.Add("Solution", "TargetTypes", name, "invalid target-type name", err)
		}
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// AllContextIDs enumerates the full cartesian product of projects x
// build-types x target-types, before for-context/not-for-context filtering
// is applied (usecases.ContextFactory and usecases.SelectContexts narrow
// their own enumeration). Build-types and target-types come from maps, so
// their order here is not defined.
func (s *Solution) AllContextIDs() []ContextID {
	var ids []ContextID
	builds := []string{""}
	if len(s.BuildTypes) > 0 {
		builds = builds[:0]
		for name := range s.BuildTypes {
			builds = append(builds, name)
		}
	}
	targets := []string{""}
	if len(s.TargetTypes) > 0 {
		targets = targets[:0]
		for name := range s.TargetTypes {
			targets = append(targets, name)
		}
	}
	for _, p := range s.Projects {
		project := projectNameFromPath(p.Path)
		for _, b := range builds {
			for _, t := range targets {
				ids = append(ids, ContextID{Project: project, BuildType: b, TargetType: t})
			}
		}
	}
	return ids
}

func projectNameFromPath(path string) string {
	name := path
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' || name[i] == '\\' {
			name = name[i+1:]
			break
		}
	}
	for _, suffix := range []string{".cproject.yml", ".cproject.yaml"} {
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}
