package yamlloader

// These DTOs mirror the *.csolution.yml / *.cproject.yml / *.clayer.yml /
// cdefault.yml document shapes: yaml.v3 decodes a document into a generic
// map, mapstructure decodes that map into these types, and they are then
// converted into internal/core/entities. Keeping the wire shape
// separate from the domain type lets the decoder accept the YAML
// documents' dash/kebab-case keys without leaking that convention into the
// entities package.

type attributeSetDoc struct {
	Compiler  string              `yaml:"compiler,omitempty"`
	Optimize  string              `yaml:"optimize,omitempty"`
	Debug     string              `yaml:"debug,omitempty"`
	Warnings  string              `yaml:"warnings,omitempty"`
	LanguageC string              `yaml:"language-C,omitempty"`
	LanguageCC string             `yaml:"language-CPP,omitempty"`
	LTO       bool                `yaml:"lto,omitempty"`
	Defines   []string            `yaml:"define,omitempty"`
	Undefines []string            `yaml:"undefine,omitempty"`
	AddPaths  []string            `yaml:"add-path,omitempty"`
	DelPaths  []string            `yaml:"del-path,omitempty"`
	Misc      map[string][]string `yaml:"misc,omitempty"`
	Processor processorAttrsDoc   `yaml:"processor,omitempty"`
}

type processorAttrsDoc struct {
	FPU              string `yaml:"fpu,omitempty"`
	DSP              string `yaml:"dsp,omitempty"`
	MVE              string `yaml:"mve,omitempty"`
	Endian           string `yaml:"endian,omitempty"`
	TrustZone        string `yaml:"trustzone,omitempty"`
	BranchProtection string `yaml:"branch-protection,omitempty"`
}

type packConstraintDoc struct {
	Pack string `yaml:"pack"`
}

type generatorRefDoc struct {
	ID      string `yaml:"generator-id,omitempty"`
	Name    string `yaml:"name,omitempty"`
	Workdir string `yaml:"workdir,omitempty"`
}

type executeStepDoc struct {
	Name          string   `yaml:"execute,omitempty"`
	Run           string   `yaml:"run,omitempty"`
	Always        bool     `yaml:"always,omitempty"`
	ForContext    []string `yaml:"for-context,omitempty"`
	NotForContext []string `yaml:"not-for-context,omitempty"`
}

type memoryRegionDoc struct {
	Name    string `yaml:"name"`
	Start   string `yaml:"start,omitempty"`
	Size    string `yaml:"size,omitempty"`
	Access  string `yaml:"access,omitempty"`
	Default bool   `yaml:"default,omitempty"`
	Startup bool   `yaml:"startup,omitempty"`
}

type targetSetDoc struct {
	Name     string   `yaml:"set"`
	Debugger string   `yaml:"debugger,omitempty"`
	Images   []string `yaml:"images,omitempty"`
}

// --- csolution.yml ---

type solutionFileDoc struct {
	Solution solutionDoc `yaml:"solution"`
}

type solutionDoc struct {
	Name        string                  `yaml:"name,omitempty"`
	Description string                  `yaml:"description,omitempty"`
	CDefault    string                  `yaml:"cdefault,omitempty"`
	Packs       []packConstraintDoc     `yaml:"packs,omitempty"`
	BuildTypes  map[string]attributeSetDoc `yaml:"build-types,omitempty"`
	TargetTypes map[string]targetTypeDoc  `yaml:"target-types,omitempty"`
	Projects    []projectRefDoc         `yaml:"projects"`
	OutputDirs  outputDirsDoc           `yaml:"output-dirs,omitempty"`
	Generators  []generatorRefDoc       `yaml:"generators,omitempty"`
	Executes    []executeStepDoc        `yaml:"executes,omitempty"`
}

type targetTypeDoc struct {
	attributeSetDoc `yaml:",inline"`
	Device           string            `yaml:"device,omitempty"`
	Board            string            `yaml:"board,omitempty"`
	Memory           []memoryRegionDoc `yaml:"memory,omitempty"`
	TargetSets       []targetSetDoc    `yaml:"target-set,omitempty"`
}

type outputDirsDoc struct {
	Intdir string `yaml:"intdir,omitempty"`
	Outdir string `yaml:"outdir,omitempty"`
}

type projectRefDoc struct {
	Project       string   `yaml:"project"`
	ForContext    []string `yaml:"for-context,omitempty"`
	NotForContext []string `yaml:"not-for-context,omitempty"`
}

// --- cproject.yml ---

type projectFileDoc struct {
	Project projectDoc `yaml:"project"`
}

type projectDoc struct {
	Device      string              `yaml:"device,omitempty"`
	Board       string              `yaml:"board,omitempty"`
	Output      outputSpecDoc       `yaml:"output,omitempty"`
	Packs       []packConstraintDoc `yaml:"packs,omitempty"`
	Components  []componentRefDoc   `yaml:"components,omitempty"`
	Groups      []groupDoc          `yaml:"groups,omitempty"`
	Layers      []layerRefDoc       `yaml:"layers,omitempty"`
	Connections []string            `yaml:"connections,omitempty"`
	Linker      linkerDoc           `yaml:"linker,omitempty"`
	Generators  []generatorRefDoc   `yaml:"generators,omitempty"`
	Executes    []executeStepDoc    `yaml:"executes,omitempty"`
	attributeSetDoc `yaml:",inline"`
}

type outputSpecDoc struct {
	Name  string   `yaml:"name,omitempty"`
	Type  []string `yaml:"type,omitempty"`
}

type componentRefDoc struct {
	Component     string           `yaml:"component"`
	ForContext    []string         `yaml:"for-context,omitempty"`
	NotForContext []string         `yaml:"not-for-context,omitempty"`
	Build         *attributeSetDoc `yaml:"build,omitempty"`
}

type fileRefDoc struct {
	File          string   `yaml:"file"`
	Category      string   `yaml:"category,omitempty"`
	ForContext    []string `yaml:"for-context,omitempty"`
	NotForContext []string `yaml:"not-for-context,omitempty"`
}

type groupDoc struct {
	Group         string       `yaml:"group"`
	Files         []fileRefDoc `yaml:"files,omitempty"`
	Groups        []groupDoc   `yaml:"groups,omitempty"`
	ForContext    []string     `yaml:"for-context,omitempty"`
	NotForContext []string     `yaml:"not-for-context,omitempty"`
}

type layerRefDoc struct {
	Layer string `yaml:"layer"`
}

type linkerDoc struct {
	Script  string            `yaml:"script,omitempty"`
	Auto    bool              `yaml:"auto,omitempty"`
	Regions []memoryRegionDoc `yaml:"regions,omitempty"`
}

// --- clayer.yml ---

type layerFileDoc struct {
	Layer layerDoc `yaml:"layer"`
}

type layerDoc struct {
	Type        string            `yaml:"type,omitempty"`
	ForBoard    []string          `yaml:"for-board,omitempty"`
	ForDevice   []string          `yaml:"for-device,omitempty"`
	Components  []componentRefDoc `yaml:"components,omitempty"`
	Groups      []groupDoc        `yaml:"groups,omitempty"`
	Connections []connectionDoc   `yaml:"connections,omitempty"`
}

type kvDoc struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value,omitempty"`
}

type connectionDoc struct {
	Connect     string  `yaml:"connect"`
	Set         string  `yaml:"set,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Provides    []kvDoc `yaml:"provides,omitempty"`
	Consumes    []kvDoc `yaml:"consumes,omitempty"`
}

// --- cdefault.yml ---

type cdefaultFileDoc struct {
	Default attributeSetDoc `yaml:"default"`
}
