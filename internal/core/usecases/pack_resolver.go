package usecases

import (
	"context"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/embedstack/cbuild/internal/core/entities"
)

// PackResolver decides exactly which pack versions are required to satisfy
// a set of active contexts.
type PackResolver struct {
	Repo   PackRepository
	Sink   DiagnosticSink
	Policy LoadPolicy
}

// NewPackResolver constructs a resolver over the given installed-pack
// repository.
func NewPackResolver(repo PackRepository, sink DiagnosticSink, policy LoadPolicy) *PackResolver {
	return &PackResolver{Repo: repo, Sink: sink, Policy: policy}
}

// constraintsFor gathers every PackConstraint applicable to a base pack id
// (vendor::name) across the solution and every active context's project.
func constraintsFor(sol *entities.Solution, ctxs []*entities.Context) map[string][]entities.PackConstraint {
	byBase := make(map[string][]entities.PackConstraint)
	add := func(c entities.PackConstraint) {
		key := c.Vendor + "::" + c.Name
		byBase[key] = append(byBase[key], c)
	}
	for _, c := range sol.Packs {
		add(c)
	}
	seenProjects := make(map[string]bool)
	for _, ctx := range ctxs {
		if ctx.Project == nil || seenProjects[ctx.Project.Name] {
			continue
		}
		seenProjects[ctx.Project.Name] = true
		for _, c := range ctx.Project.Packs {
			add(c)
		}
	}
	return byBase
}

// intersectAll folds IntersectVersionConstraints across every constraint
// sharing a pack-id; an empty intersection is an error.
func intersectAll(constraints []entities.PackConstraint) (entities.VersionConstraint, error) {
	acc := entities.VersionConstraint{Kind: entities.ConstraintAny}
	for _, c := range constraints {
		merged, ok := entities.IntersectVersionConstraints(acc, c.Constraint)
		if !ok {
			return entities.VersionConstraint{}, fmt.Errorf("pack constraint intersection empty for %s::%s", c.Vendor, c.Name)
		}
		acc = merged
	}
	return acc, nil
}

// Resolve computes the resolved-packs list for the given solution and
// active contexts, applying the configured load policy and every pack
// constraint simultaneously.
func (r *PackResolver) Resolve(ctx context.Context, sol *entities.Solution, active []*entities.Context) ([]entities.ResolvedPack, error) {
	installed, err := r.Repo.Installed(ctx)
	if err != nil {
		return nil, fmt.Errorf("pack resolver: list installed packs: %w", err)
	}
	sort.Slice(installed, func(i, j int) bool {
		if installed[i].Vendor != installed[j].Vendor {
			return installed[i].Vendor < installed[j].Vendor
		}
		if installed[i].Name != installed[j].Name {
			return installed[i].Name < installed[j].Name
		}
		vi, _ := entities.ParseVersion(installed[i].Version)
		vj, _ := entities.ParseVersion(installed[j].Version)
		return vi.Greater(vj)
	})

	byBase := constraintsFor(sol, active)

	// Group installed versions by base pack id, preserving the
	// vendor/name/version-descending order already established above.
	versionsByBase := make(map[string][]entities.PackID)
	baseOrder := make([]string, 0)
	for _, id := range installed {
		key := id.Vendor + "::" + id.Name
		if _, ok := versionsByBase[key]; !ok {
			baseOrder = append(baseOrder, key)
		}
		versionsByBase[key] = append(versionsByBase[key], id)
	}

	var out []entities.ResolvedPack
	for _, key := range baseOrder {
		versions := versionsByBase[key]
		cs := byBase[key]
		var rng entities.VersionConstraint
		if len(cs) > 0 {
			merged, err := intersectAll(cs)
			if err != nil {
				r.Sink.Error("M500", err.Error(), nil, "", 0, 0)
				return nil, err
			}
			rng = merged
		} else {
			rng = entities.VersionConstraint{Kind: entities.ConstraintAny}
		}

		selectedBy := selectorStrings(cs)
		selected := selectByPolicy(versions, rng, r.Policy)
		for _, id := range selected {
			pack, err := r.Repo.Load(ctx, id, r.Sink)
			var hash uint64
			if err == nil && pack != nil {
				hash = hashPack(pack)
			}
			out = append(out, entities.ResolvedPack{ID: id, SelectedBy: selectedBy, Hash: hash})
		}
		if len(selected) == 0 && len(cs) > 0 {
			r.Sink.Error("M501", fmt.Sprintf("no installed pack version for %s satisfies constraint", key), nil, "", 0, 0)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ID.Vendor != out[j].ID.Vendor {
			return out[i].ID.Vendor < out[j].ID.Vendor
		}
		return out[i].ID.Name < out[j].ID.Name
	})
	for i := range out {
		sort.Strings(out[i].SelectedBy)
	}
	return out, nil
}

func selectorStrings(cs []entities.PackConstraint) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.String())
	}
	return out
}

// selectByPolicy applies the loading policy to the
// (already version-descending-sorted) candidate list, after filtering to
// versions the constraint range accepts.
func selectByPolicy(versions []entities.PackID, rng entities.VersionConstraint, policy LoadPolicy) []entities.PackID {
	var accepted []entities.PackID
	for _, id := range versions {
		v, err := entities.ParseVersion(id.Version)
		if err != nil || !rng.Satisfies(v) {
			continue
		}
		accepted = append(accepted, id)
	}
	if len(accepted) == 0 {
		return nil
	}
	switch policy {
	case LoadAll:
		return accepted
	case LoadRequired:
		return selectNamedVersions(accepted, rng)
	case LoadLatest, LoadDefault:
		fallthrough
	default:
		return accepted[:1]
	}
}

// selectNamedVersions implements the "required" load policy: only the
// version(s) literally written into the constraint expression (the exact
// version, or a ">="/range boundary), not every installed version the
// range happens to accept.
func selectNamedVersions(accepted []entities.PackID, rng entities.VersionConstraint) []entities.PackID {
	if rng.Kind == entities.ConstraintAny {
		return nil
	}
	var named []entities.PackID
	for _, id := range accepted {
		v, err := entities.ParseVersion(id.Version)
		if err != nil {
			continue
		}
		switch rng.Kind {
		case entities.ConstraintExact, entities.ConstraintMin:
			if v.Equal(rng.Min) {
				named = append(named, id)
			}
		case entities.ConstraintRange:
			if v.Equal(rng.Min) || v.Equal(rng.Max) {
				named = append(named, id)
			}
		}
	}
	return named
}

// hashPack computes a deterministic xxhash of a pack's normalized
// component-attribute catalog. The resolver embeds it alongside each
// entry's selectedBy list in the emitted lock file, and CheckFrozen
// compares it back to catch catalog drift a version-string comparison
// alone would miss.
func hashPack(p *entities.Pack) uint64 {
	ids := make([]string, 0, len(p.Components))
	for _, c := range p.Components {
		ids = append(ids, c.ID())
	}
	sort.Strings(ids)
	var buf []byte
	buf = append(buf, p.ID.String()...)
	for _, id := range ids {
		buf = append(buf, '\n')
		buf = append(buf, id...)
	}
	return xxhash.Sum64(buf)
}

// CheckFrozen compares a freshly computed resolution against a previously
// written lock to detect drift: any new pack needed, or a locked version
// falling outside the live constraint range, is an error.
func CheckFrozen(fresh, locked []entities.ResolvedPack) []*entities.PackDrift {
	freshByBase := make(map[string]entities.ResolvedPack, len(fresh))
	for _, p := range fresh {
		freshByBase[p.ID.BaseID()] = p
	}
	lockedByBase := make(map[string]entities.ResolvedPack, len(locked))
	for _, p := range locked {
		lockedByBase[p.ID.BaseID()] = p
	}

	var drifts []*entities.PackDrift
	for base, f := range freshByBase {
		l, ok := lockedByBase[base]
		if !ok {
			drifts = append(drifts, entities.NewPackDrift(f.ID, entities.DriftPackMissing,
				fmt.Sprintf("pack %s newly required, not present in frozen lock", f.ID), ""))
			continue
		}
		if l.ID.Version != f.ID.Version {
			drifts = append(drifts, entities.NewPackDrift(f.ID, entities.DriftVersionMismatch,
				fmt.Sprintf("locked version %s differs from freshly resolved %s", l.ID.Version, f.ID.Version), ""))
			continue
		}
		if l.Hash != 0 && f.Hash != 0 && l.Hash != f.Hash {
			drifts = append(drifts, entities.NewPackDrift(f.ID, entities.DriftCatalogChanged,
				fmt.Sprintf("pack %s content changed on disk since the lock was written (same version %s, catalog hash differs)", f.ID.BaseID(), f.ID.Version), ""))
		}
	}
	for base, l := range lockedByBase {
		if _, ok := freshByBase[base]; !ok {
			drifts = append(drifts, entities.NewPackDrift(l.ID, entities.DriftConstraintViolated,
				fmt.Sprintf("locked pack %s no longer required or installed", l.ID), ""))
		}
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].Pack.String() < drifts[j].Pack.String() })
	return drifts
}
