package usecases

import (
	"fmt"
	"sort"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// LayerSlot is one required layer type a project must fill, with its
// candidate layers (already filtered by for-board/for-device compatibility
// upstream).
type LayerSlot struct {
	Type       string
	Candidates []*entities.Layer
}

// LayerAssignment maps a required layer type to the chosen layer.
type LayerAssignment map[string]*entities.Layer

// LayerResolver performs the backtracking constraint search over
// provides/consumes contracts declared by candidate layers.
type LayerResolver struct {
	Slots []LayerSlot
}

// NewLayerResolver orders slots by candidate-count ascending (rarest
// requirement first), so the search explores the most constrained layer
// type first and prunes dead branches as early as possible.
func NewLayerResolver(slots []LayerSlot) *LayerResolver {
	ordered := append([]LayerSlot{}, slots...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Candidates) < len(ordered[j].Candidates)
	})
	return &LayerResolver{Slots: ordered}
}

// Unsatisfied describes one consume key the search could not satisfy.
type Unsatisfied struct {
	LayerType string
	LayerName string
	Key       string
	Value     string
}

func (u Unsatisfied) String() string {
	return fmt.Sprintf("%s (type %s) requires %s=%s, no compatible layer provides it", u.LayerName, u.LayerType, u.Key, u.Value)
}

// Resolve finds one valid layer assignment: a choice of exactly one layer
// per slot such that every consume is satisfied by some chosen layer's
// provide, and no two chosen layers provide conflicting values for the
// same key. Returns the assignment plus a nil report on success, or a nil
// assignment plus the list of unsatisfied consumes on failure.
func (r *LayerResolver) Resolve() (LayerAssignment, []Unsatisfied) {
	assignment := make(LayerAssignment)
	provides := make(map[string]string) // key -> value already committed
	var ok bool
	var trace []Unsatisfied
	ok = r.backtrack(0, assignment, provides, &trace)
	if !ok {
		return nil, trace
	}
	return assignment, nil
}

// ResolveAll enumerates every valid assignment (the `--update-idx` mode),
// in the same slot order as Resolve.
func (r *LayerResolver) ResolveAll() []LayerAssignment {
	var all []LayerAssignment
	assignment := make(LayerAssignment)
	provides := make(map[string]string)
	r.collectAll(0, assignment, provides, &all)
	return all
}

func (r *LayerResolver) backtrack(slotIdx int, assignment LayerAssignment, provides map[string]string, trace *[]Unsatisfied) bool {
	if slotIdx == len(r.Slots) {
		return r.allConsumesSatisfied(assignment, trace)
	}
	slot := r.Slots[slotIdx]
	for _, cand := range slot.Candidates {
		if !compatibleProvides(cand, provides) {
			continue
		}
		if !r.remainingCanSatisfy(slotIdx+1, cand, provides) {
			for _, conn := range cand.Connections {
				for _, kv := range conn.Consumes {
					if !satisfiedBy(kv, provides) && !r.someRemainingProvides(slotIdx+1, kv) {
						*trace = append(*trace, Unsatisfied{LayerType: slot.Type, LayerName: cand.Name, Key: kv.Key, Value: kv.Value})
					}
				}
			}
			continue
		}
		newProvides := cloneProvides(provides)
		applyProvides(cand, newProvides)
		assignment[slot.Type] = cand
		if r.backtrack(slotIdx+1, assignment, newProvides, trace) {
			return true
		}
		delete(assignment, slot.Type)
	}
	return false
}

func (r *LayerResolver) collectAll(slotIdx int, assignment LayerAssignment, provides map[string]string, all *[]LayerAssignment) {
	if slotIdx == len(r.Slots) {
		if ok, _ := r.allConsumesSatisfiedQuiet(assignment); ok {
			copied := make(LayerAssignment, len(assignment))
			for k, v := range assignment {
				copied[k] = v
			}
			*all = append(*all, copied)
		}
		return
	}
	slot := r.Slots[slotIdx]
	for _, cand := range slot.Candidates {
		if !compatibleProvides(cand, provides) {
			continue
		}
		newProvides := cloneProvides(provides)
		applyProvides(cand, newProvides)
		assignment[slot.Type] = cand
		r.collectAll(slotIdx+1, assignment, newProvides, all)
		delete(assignment, slot.Type)
	}
}

// compatibleProvides reports whether adding cand's provides to the running
// set introduces no identity conflict: no key it provides already holds a
// different value from a previously committed layer.
func compatibleProvides(cand *entities.Layer, provides map[string]string) bool {
	for _, conn := range cand.Connections {
		for _, kv := range conn.Provides {
			if existing, ok := provides[kv.Key]; ok && existing != kv.Value {
				return false
			}
		}
	}
	return true
}

func cloneProvides(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func applyProvides(l *entities.Layer, provides map[string]string) {
	for _, conn := range l.Connections {
		for _, kv := range conn.Provides {
			provides[kv.Key] = kv.Value
		}
	}
}

// remainingCanSatisfy prunes a branch when a newly added layer's consumes
// introduce a requirement no remaining unfilled slot's candidates could
// ever provide.
func (r *LayerResolver) remainingCanSatisfy(fromSlot int, justAdded *entities.Layer, provides map[string]string) bool {
	for _, conn := range justAdded.Connections {
		for _, kv := range conn.Consumes {
			if kv.Value == "" {
				if _, ok := provides[kv.Key]; ok {
					continue
				}
			} else if v, ok := provides[kv.Key]; ok && v == kv.Value {
				continue
			}
			if !r.someRemainingProvides(fromSlot, kv) {
				return false
			}
		}
	}
	return true
}

func (r *LayerResolver) someRemainingProvides(fromSlot int, need entities.KV) bool {
	for i := fromSlot; i < len(r.Slots); i++ {
		for _, cand := range r.Slots[i].Candidates {
			for _, conn := range cand.Connections {
				for _, p := range conn.Provides {
					if p.Key == need.Key && (need.Value == "" || p.Value == need.Value) {
						return true
					}
				}
			}
		}
	}
	return false
}

// allConsumesSatisfied checks the final assignment's consumes against the
// union of all chosen provides, recording unsatisfied consumes into trace.
func (r *LayerResolver) allConsumesSatisfied(assignment LayerAssignment, trace *[]Unsatisfied) bool {
	provides := unionProvides(assignment)
	ok := true
	for slotType, l := range assignment {
		for _, conn := range l.Connections {
			for _, kv := range conn.Consumes {
				if !satisfiedBy(kv, provides) {
					ok = false
					if trace != nil {
						*trace = append(*trace, Unsatisfied{LayerType: slotType, LayerName: l.Name, Key: kv.Key, Value: kv.Value})
					}
				}
			}
		}
	}
	return ok
}

func (r *LayerResolver) allConsumesSatisfiedQuiet(assignment LayerAssignment) (bool, []Unsatisfied) {
	var trace []Unsatisfied
	ok := r.allConsumesSatisfied(assignment, &trace)
	return ok, trace
}

func unionProvides(assignment LayerAssignment) map[string]string {
	out := make(map[string]string)
	for _, l := range assignment {
		for _, conn := range l.Connections {
			for _, kv := range conn.Provides {
				out[kv.Key] = kv.Value
			}
		}
	}
	return out
}

func satisfiedBy(need entities.KV, provides map[string]string) bool {
	v, ok := provides[need.Key]
	if !ok {
		return false
	}
	return need.Value == "" || v == need.Value
}
