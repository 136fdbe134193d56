package usecases

import (
	"fmt"
	"sort"
	"strings"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// ComponentSolver matches component selectors against the catalog of
// loaded packs, evaluates each candidate's condition against the active
// environment, and resolves APIs/bundles/instances.
type ComponentSolver struct {
	Packs []*entities.Pack
	Sink  DiagnosticSink
}

// NewComponentSolver builds a solver over the packs selected by the pack
// resolver for one context.
func NewComponentSolver(packs []*entities.Pack, sink DiagnosticSink) *ComponentSolver {
	return &ComponentSolver{Packs: packs, Sink: sink}
}

// BuildEnvironment constructs the immutable active environment for a
// context's device/board/toolchain/processor attributes.
func BuildEnvironment(ctx *entities.Context) *entities.Environment {
	env := entities.NewEnvironment()
	if ctx.Project != nil {
		env.Set("Dname", ctx.Project.Device)
		env.Set("Bname", ctx.Project.Board)
	}
	if ctx.TargetType != nil {
		if ctx.TargetType.Device != "" {
			env.Set("Dname", ctx.TargetType.Device)
		}
		if ctx.TargetType.Board != "" {
			env.Set("Bname", ctx.TargetType.Board)
		}
		attrs := ctx.TargetType.Attributes
		env.Set("Dfpu", attrs.Processor.FPU)
		env.Set("Ddsp", attrs.Processor.DSP)
		env.Set("Dmve", attrs.Processor.MVE)
		env.Set("Dendian", attrs.Processor.Endian)
		env.Set("Dtz", attrs.Processor.TrustZone)
		env.Set("DbranchProt", attrs.Processor.BranchProtection)
	}
	build := EffectiveBuild(ctx)
	env.Set("Tcompiler", build.Compiler)
	if ctx.Project != nil {
		env.Set("Coutput-type", ctx.Project.Output.Name)
	}
	return env
}

// allComponents flattens every loaded pack's catalog into one slice,
// preserving pack order.
func (s *ComponentSolver) allComponents() []*entities.Component {
	var out []*entities.Component
	for _, p := range s.Packs {
		out = append(out, p.Components...)
	}
	return out
}

// conditionResolver builds a cycle-safe resolve closure for a condition
// belonging to the pack that owns it, searching every loaded pack's
// condition table. Conditions are only unique by (pack, id), but this
// simplification treats the id as globally unique within the active pack
// set, matching how each condition is scoped to the PDSC that declares it.
func (s *ComponentSolver) conditionResolver(env *entities.Environment) func(id string) (bool, error) {
	allConds := make(map[string]*entities.Condition)
	for _, p := range s.Packs {
		for id, c := range p.Conditions {
			allConds[id] = c
		}
	}
	visiting := make(map[string]bool)
	var resolve func(id string) (bool, error)
	resolve = func(id string) (bool, error) {
		cond, ok := allConds[id]
		if !ok {
			return false, fmt.Errorf("condition %q not found", id)
		}
		if visiting[id] {
			return false, fmt.Errorf("%w: condition %q", entities.ErrCyclicDerivation, id)
		}
		visiting[id] = true
		defer delete(visiting, id)
		return cond.Evaluate(env, resolve)
	}
	return resolve
}

// EvaluateCondition reports whether the component's condition (if any)
// holds against env.
func (s *ComponentSolver) EvaluateCondition(c *entities.Component, env *entities.Environment) (bool, error) {
	if c.ConditionRef == "" {
		return true, nil
	}
	resolve := s.conditionResolver(env)
	return resolve(c.ConditionRef)
}

// candidateRank scores a candidate by pack constraint strength first,
// then descending Cversion, then a tie-break. Lower rank sorts first (wins).
type candidateRank struct {
	component    *entities.Component
	constraintRank int // 0 = exact, 1 = bounded, 2 = latest/any
	version      entities.Version
}

func rankSelector(sel entities.ComponentSelector) int {
	switch sel.Version.Kind {
	case entities.ConstraintExact:
		return 0
	case entities.ConstraintRange, entities.ConstraintMin:
		return 1
	default:
		return 2
	}
}

// Select resolves one ComponentRef against the catalog, returning the
// winning component or an error naming the selector verbatim if no
// candidate matches.
func (s *ComponentSolver) Select(ref entities.ComponentRef, env *entities.Environment) (*entities.Component, error) {
	constraintRank := rankSelector(ref.Selector)
	var candidates []candidateRank
	for _, c := range s.allComponents() {
		if !ref.Selector.Matches(c) {
			continue
		}
		ok, err := s.EvaluateCondition(c, env)
		if err != nil {
			return nil, fmt.Errorf("selector %s: %w", ref.Selector.String(), err)
		}
		if !ok {
			continue
		}
		v, err := entities.ParseVersion(c.Attributes.Cversion)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidateRank{component: c, constraintRank: constraintRank, version: v})
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("unresolved component selector: %s", ref.Selector.String())
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.constraintRank != b.constraintRank {
			return a.constraintRank < b.constraintRank
		}
		if c := b.version.Compare(a.version); c != 0 {
			return c < 0
		}
		av, bv := a.component.Attributes, b.component.Attributes
		if av.Cvendor != bv.Cvendor {
			return av.Cvendor < bv.Cvendor
		}
		if av.Cbundle != bv.Cbundle {
			return av.Cbundle < bv.Cbundle
		}
		return av.Cvariant < bv.Cvariant
	})

	if len(candidates) > 1 {
		top, next := candidates[0], candidates[1]
		if top.constraintRank == next.constraintRank &&
			top.version.Equal(next.version) &&
			top.component.Attributes.Cvendor == next.component.Attributes.Cvendor &&
			top.component.Attributes.Cbundle == next.component.Attributes.Cbundle &&
			top.component.Attributes.Cvariant == next.component.Attributes.Cvariant {
			return nil, fmt.Errorf("ambiguous component selector %s: tie between %s and %s",
				ref.Selector.String(), top.component.ID(), next.component.ID())
		}
	}
	return candidates[0].component, nil
}

// ResolveAll resolves every ComponentRef in refs, expanding instances and
// enforcing bundle consistency, returning the resolved components plus
// any selector-level errors collected (not raised immediately, so the
// solver can report as many problems as possible.
func (s *ComponentSolver) ResolveAll(refs []entities.ComponentRef, env *entities.Environment) ([]entities.ResolvedComponent, []error) {
	var out []entities.ResolvedComponent
	var errs []error
	bundleByGroup := make(map[string]string) // Cclass/Cgroup -> bundle name already committed

	for _, ref := range refs {
		c, err := s.Select(ref, env)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		groupKey := c.Attributes.Cvendor + "/" + c.Attributes.Cclass + "/" + c.Attributes.Cgroup
		if c.Attributes.Cbundle != "" {
			if existing, ok := bundleByGroup[groupKey]; ok && existing != c.Attributes.Cbundle {
				errs = append(errs, fmt.Errorf("bundle conflict in %s: %s and %s both selected", groupKey, existing, c.Attributes.Cbundle))
				continue
			}
			bundleByGroup[groupKey] = c.Attributes.Cbundle
		}

		instances := c.MaxInstances
		if instances < 1 {
			instances = 1
		}
		for i := 0; i < instances; i++ {
			out = append(out, entities.ResolvedComponent{Selector: ref.Selector, Component: c, Instance: i})
		}
	}
	return out, errs
}

// SubstituteInstance replaces the "%Instance%" placeholder in a config
// file's content with the instance index, applied once per instance when a
// component with instances > 1 is selected.
func SubstituteInstance(content string, instance int) string {
	return strings.ReplaceAll(content, "%Instance%", fmt.Sprintf("%d", instance))
}

// ResolveAPIs picks, for every distinct APIRef named by at least one
// resolved component, the declared API with that Cgroup and the highest
// Capiversion. An APIRef that no loaded pack declares is an error;
// per-consumer version ranges are not checked.
func ResolveAPIs(resolved []entities.ResolvedComponent, packs []*entities.Pack) ([]entities.APIDecl, []error) {
	apiByKey := make(map[string][]entities.APIDecl)
	for _, p := range packs {
		for _, a := range p.APIs {
			key := a.Cgroup
			apiByKey[key] = append(apiByKey[key], a)
		}
	}

	consumersByKey := make(map[string][]string)
	for _, rc := range resolved {
		if rc.Component.APIRef == "" {
			continue
		}
		consumersByKey[rc.Component.APIRef] = append(consumersByKey[rc.Component.APIRef], rc.Component.ID())
	}

	var out []entities.APIDecl
	var errs []error
	keys := make([]string, 0, len(consumersByKey))
	for k := range consumersByKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		candidates := apiByKey[key]
		if len(candidates) == 0 {
			errs = append(errs, fmt.Errorf("API %q referenced but not declared by any loaded pack", key))
			continue
		}
		// Highest Capiversion that every consumer's implicit requirement
		// (same Cgroup) accepts; since APIDecl carries no per-consumer
		// range in this model, the newest declared version wins once
		// consistency is established.
		sort.Slice(candidates, func(i, j int) bool {
			vi, _ := entities.ParseVersion(candidates[i].Capiversion)
			vj, _ := entities.ParseVersion(candidates[j].Capiversion)
			return vi.Greater(vj)
		})
		out = append(out, candidates[0])
	}
	return out, errs
}
