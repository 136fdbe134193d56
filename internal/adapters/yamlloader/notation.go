package yamlloader

import (
	"fmt"
	"strings"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// parsePackConstraint parses the "Vendor[::Name][@constraint]" RTE notation
// used in a csolution/cproject "packs:" list, the inverse of
// entities.PackConstraint.String().
func parsePackConstraint(s string) (entities.PackConstraint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return entities.PackConstraint{}, fmt.Errorf("yamlloader: empty pack constraint")
	}
	versionExpr := ""
	if i := strings.IndexByte(s, '@'); i >= 0 {
		versionExpr = s[i+1:]
		s = s[:i]
	}
	vendor, name := s, ""
	if i := strings.Index(s, "::"); i >= 0 {
		vendor, name = s[:i], s[i+2:]
	}
	constraint, err := entities.ParseVersionConstraint(versionExpr)
	if err != nil {
		return entities.PackConstraint{}, fmt.Errorf("yamlloader: pack constraint %q: %w", s, err)
	}
	return entities.PackConstraint{Vendor: vendor, Name: name, Constraint: constraint}, nil
}

// parseComponentSelector parses the
// "[Vendor::]Cclass[&Cbundle][:Cgroup[:Csub]][&Cvariant][@version]" RTE
// component-ID notation, the inverse of
// entities.ComponentAttributes.String().
func parseComponentSelector(s string) (entities.ComponentSelector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return entities.ComponentSelector{}, fmt.Errorf("yamlloader: empty component selector")
	}
	var sel entities.ComponentSelector
	if i := strings.IndexByte(s, '@'); i >= 0 {
		constraint, err := entities.ParseVersionConstraint(s[i+1:])
		if err != nil {
			return entities.ComponentSelector{}, fmt.Errorf("yamlloader: component selector %q: %w", s, err)
		}
		sel.Version = constraint
		s = s[:i]
	}
	if i := strings.Index(s, "::"); i >= 0 {
		sel.Cvendor = s[:i]
		s = s[i+2:]
	}
	segments := strings.Split(s, ":")
	if len(segments) > 0 {
		sel.Cclass, sel.Cbundle = splitAmp(segments[0])
	}
	if len(segments) > 1 {
		sel.Cgroup = segments[1]
	}
	if len(segments) > 2 {
		sel.Csub, sel.Cvariant = splitAmp(segments[2])
	} else if len(segments) == 2 {
		sel.Cgroup, sel.Cvariant = splitAmp(segments[1])
	}
	return sel, nil
}

func splitAmp(s string) (first, second string) {
	if i := strings.IndexByte(s, '&'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// parseHexOrDecimal parses a numeric literal written as either a decimal
// string or a "0x"-prefixed hex string, matching the notation used for
// memory region start/size fields.
func parseHexOrDecimal(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	var v uint64
	_, err := fmt.Sscanf(s, "0x%x", &v)
	if err == nil {
		return v, nil
	}
	_, err = fmt.Sscanf(s, "%d", &v)
	if err != nil {
		return 0, fmt.Errorf("yamlloader: invalid numeric literal %q", s)
	}
	return v, nil
}
