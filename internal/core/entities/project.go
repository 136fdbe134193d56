package entities

// OutputSpec is a project's declared output name and artifact kinds
// ("bin", "elf", "hex", "lib", "cmse", "map").
type OutputSpec struct {
	Name  string
	Types []string
}

// ComponentRef is a project/layer-level request for a component, by
// selector, optionally scoped to specific contexts and carrying a
// per-reference build-attribute override.
type ComponentRef struct {
	Selector      ComponentSelector
	ForContext    []string
	NotForContext []string
	Build         *AttributeSet
}

// FileRef is a single source/header/linker-script file entry inside a
// Group, optionally scoped to specific contexts.
type FileRef struct {
	Path          string
	Category      string
	ForContext    []string
	NotForContext []string
}

// Group is a named, possibly nested collection of files inside a project
// or layer, mirroring the <groups>/<files> nesting of a *.cproject.yml.
type Group struct {
	Name          string
	Files         []FileRef
	Groups        []Group
	ForContext    []string
	NotForContext []string
}

// LinkerSpec is a project's linker-script selection: either an explicit
// script file or "auto", meaning the active target-type's default region
// layout generates one.
type LinkerSpec struct {
	Script string
	Auto   bool
	Regions []MemoryRegion
}

// Project is a single *.cproject.yml document: the component/group/file
// tree, device/board selection, and per-project build overrides that
// combine with a Solution's build-types/target-types to produce Contexts.
type Project struct {
	Name        string
	Output      OutputSpec
	Device      string
	Board       string
	Packs       []PackConstraint
	Components  []ComponentRef
	Groups      []Group
	Layers      []string // paths to *.clayer.yml files referenced by this project
	Connections []string // connection IDs this project consumes, for the layer resolver
	Linker      LinkerSpec
	Generators  []GeneratorRef
	Executes    []ExecuteStep
	Build       AttributeSet
	Path        string
}

// NewProject creates an empty, named Project ready for population by the
// YAML loader.
func NewProject(name string) (*Project, error) {
	if err := ValidateName(name); err != nil {
		return nil, NewValidationError("Project", "Name", name, "invalid name", err)
	}
	return &Project{Name: name}, nil
}

// Validate checks structural invariants: a valid name, valid group/file
// paths, and that every component selector names at least a Cclass.
func (p *Project) Validate() error {
	var errs ValidationErrors

	if err := ValidateName(p.Name); err != nil {
		errs.Add("Project", "Name", p.Name, "invalid name", err)
	}

	for _, c := range p.Components {
		if c.Selector.Cclass == "" {
			errs.Add("Project", "Components", p.Name, "component selector missing Cclass", ErrEmptyName)
		}
	}

	var walkGroup func(g Group)
	walkGroup = func(g Group) {
		if g.Name == "" {
			errs.Add("Project", "Groups", p.Name, "group missing name", ErrEmptyName)
		}
		for _, f := range g.Files {
			if err := ValidatePath(f.Path); err != nil {
				errs.Add("Project", "Files", f.Path, "invalid file path", err)
			}
		}
		for _, sub := range g.Groups {
			walkGroup(sub)
		}
	}
	for _, g := range p.Groups {
		walkGroup(g)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ComponentCount returns the number of component references in the project.
func (p *Project) ComponentCount() int {
	return len(p.Components)
}

// FileCount returns the total number of files across all groups (including
// nested groups).
func (p *Project) FileCount() int {
	var count func(gs []Group) int
	count = func(gs []Group) int {
		n := 0
		for _, g := range gs {
			n += len(g.Files)
			n += count(g.Groups)
		}
		return n
	}
	return count(p.Groups)
}

// ProjectStats holds project statistics (component, file and layer counts).
type ProjectStats struct {
	Components int
	Files      int
	Layers     int
}

// Stats returns project statistics.
func (p *Project) Stats() ProjectStats {
	return ProjectStats{
		Components: p.ComponentCount(),
		Files:      p.FileCount(),
		Layers:     len(p.Layers),
	}
}
