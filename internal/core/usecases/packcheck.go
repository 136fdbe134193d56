package usecases

import (
	"fmt"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// PackCheckIssue is one finding from a pack-local consistency pass,
// independent of any context resolution.
type PackCheckIssue struct {
	Pack    entities.PackID
	Message string
}

// CheckPack runs a packchk-style self-consistency pass over one fully
// parsed pack: duplicate component attribute tuples and API references
// that name no declared API.
func CheckPack(p *entities.Pack) []PackCheckIssue {
	var issues []PackCheckIssue

	seen := make(map[string]bool, len(p.Components))
	apiKeys := make(map[string]bool, len(p.APIs))
	for _, a := range p.APIs {
		apiKeys[a.Cgroup] = true
	}

	for _, c := range p.Components {
		id := c.ID()
		if seen[id] {
			issues = append(issues, PackCheckIssue{Pack: p.ID, Message: fmt.Sprintf("duplicate component tuple %q", id)})
		}
		seen[id] = true

		if c.APIRef != "" && !apiKeys[c.APIRef] {
			issues = append(issues, PackCheckIssue{Pack: p.ID, Message: fmt.Sprintf("component %q references undeclared API %q", id, c.APIRef)})
		}
		if c.ConditionRef != "" {
			if _, ok := p.Conditions[c.ConditionRef]; !ok {
				issues = append(issues, PackCheckIssue{Pack: p.ID, Message: fmt.Sprintf("component %q references undeclared condition %q", id, c.ConditionRef)})
			}
		}
	}

	releaseSeen := make(map[string]bool, len(p.Releases))
	for _, r := range p.Releases {
		if releaseSeen[r.Version] {
			issues = append(issues, PackCheckIssue{Pack: p.ID, Message: fmt.Sprintf("duplicate release entry for version %q", r.Version)})
		}
		releaseSeen[r.Version] = true
	}

	return issues
}

// CheckPacks runs CheckPack over every pack and reports the findings
// through sink as warnings (M600); the command pipeline runs it over the
// loaded pack catalog.
func CheckPacks(packs []*entities.Pack, sink DiagnosticSink) []PackCheckIssue {
	var all []PackCheckIssue
	for _, p := range packs {
		issues := CheckPack(p)
		all = append(all, issues...)
		for _, iss := range issues {
			sink.Warn("M600", iss.Message, nil, p.Path, 0, 0)
		}
	}
	return all
}
