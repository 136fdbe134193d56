package usecases

import (
	"fmt"
	"sort"
	"strings"

	"github.com/embedstack/cbuild/internal/core/entities/svd"
)

// SvdService orchestrates the SVD pipeline: dimension expansion,
// derivedFrom resolution, and the consistency checker, turning their
// output into sink diagnostics.
type SvdService struct {
	Sink DiagnosticSink
}

// NewSvdService constructs an SvdService writing to sink.
func NewSvdService(sink DiagnosticSink) *SvdService {
	return &SvdService{Sink: sink}
}

// Process runs dimension expansion, then derivedFrom resolution, then the
// consistency checker against a freshly parsed device tree, reporting
// every finding through the sink and returning the consistency issues for
// programmatic use.
func (s *SvdService) Process(file string, d *svd.Device) ([]svd.ConsistencyIssue, error) {
	if err := ExpandPeripheralDims(d); err != nil {
		s.Sink.Error("SVD201", err.Error(), nil, file, 0, 0)
		return nil, err
	}
	if err := svd.ResolveDerivedFrom(d); err != nil {
		s.Sink.Error("SVD202", err.Error(), nil, file, 0, 0)
		return nil, err
	}
	issues := svd.Check(d)
	for _, iss := range issues {
		if iss.Warning {
			s.Sink.Warn("SVD114", iss.String(), nil, file, 0, 0)
			continue
		}
		s.Sink.Error("SVD113", iss.String(), nil, file, 0, 0)
	}
	if errs := checkIdentifiers(d); len(errs) > 0 {
		for _, e := range errs {
			s.Sink.Warn("SVD210", e, nil, file, 0, 0)
		}
	}
	return issues, nil
}

// ExpandPeripheralDims walks the device tree and expands every
// dimensioned peripheral, top-level register and field into its sibling
// instances; clusters and the registers inside them are not expanded.
// Expansion runs top-down since a peripheral's dim determines
// the base address each expanded register's own dim then offsets from.
func ExpandPeripheralDims(d *svd.Device) error {
	var expanded []*svd.Peripheral
	for _, p := range d.Peripherals {
		if p.Dim == nil {
			if err := expandRegistersIn(p); err != nil {
				return err
			}
			expanded = append(expanded, p)
			continue
		}
		elems := svd.Expand(p.Name, p.BaseAddress, p.Dim)
		for _, e := range elems {
			cp := clonePeripheralShallow(p)
			cp.Name = e.Name
			cp.BaseAddress = e.AddressOffset
			cp.Dim = nil
			if err := expandRegistersIn(cp); err != nil {
				return err
			}
			expanded = append(expanded, cp)
		}
	}
	d.Peripherals = expanded
	return nil
}

func clonePeripheralShallow(p *svd.Peripheral) *svd.Peripheral {
	cp := *p
	cp.Registers = append([]*svd.Register{}, p.Registers...)
	cp.Clusters = append([]*svd.Cluster{}, p.Clusters...)
	cp.AddressBlocks = append([]svd.AddressBlock{}, p.AddressBlocks...)
	cp.Interrupts = append([]svd.Interrupt{}, p.Interrupts...)
	return &cp
}

func expandRegistersIn(p *svd.Peripheral) error {
	var out []*svd.Register
	for _, r := range p.Registers {
		if r.Dim == nil {
			out = append(out, r)
			continue
		}
		elems := svd.Expand(r.Name, r.AddressOffset, &svd.Dimension{
			Dim:          r.Dim.Dim,
			DimIncrement: r.Dim.DimIncrement,
			DimIndex:     r.Dim.DimIndex,
		})
		for _, e := range elems {
			cr := *r
			cr.Name = e.Name
			cr.AddressOffset = e.AddressOffset
			cr.Dim = nil
			cr.Fields = expandFieldsIn(r.Fields)
			regCopy := cr
			out = append(out, &regCopy)
		}
	}
	p.Registers = out
	return nil
}

// expandFieldsIn expands any dimensioned field using the "extend" form:
// each index produces a field whose name substitutes the index and whose
// bit offset advances by the field's own width. A dim over a field may
// only use this extend form, never the array form registers/peripherals use.
func expandFieldsIn(fields []*svd.Field) []*svd.Field {
	var out []*svd.Field
	for _, f := range fields {
		if f.Dim == nil {
			out = append(out, f)
			continue
		}
		indices := f.Dim.Indices()
		for i, idx := range indices {
			cf := *f
			cf.Name = substituteFieldIndex(f.Name, idx)
			cf.BitOffset = f.BitOffset + i*f.BitWidth
			cf.Dim = nil
			fc := cf
			out = append(out, &fc)
		}
	}
	return out
}

func substituteFieldIndex(pattern, idx string) string {
	if strings.Contains(pattern, "%s") {
		return strings.Replace(pattern, "%s", idx, 1)
	}
	return pattern + idx
}

// checkIdentifiers applies the reserved-word and identifier rules across
// peripherals/registers/fields: "reserved" (case insensitive), a leading
// underscore, or a length over 32 characters each warn.
func checkIdentifiers(d *svd.Device) []string {
	var warnings []string
	check := func(scope, name string) {
		lower := strings.ToLower(name)
		if lower == "reserved" {
			warnings = append(warnings, fmt.Sprintf("%s: identifier %q is reserved", scope, name))
		}
		if strings.HasPrefix(name, "_") {
			warnings = append(warnings, fmt.Sprintf("%s: identifier %q has a leading underscore", scope, name))
		}
		if len(name) > 32 {
			warnings = append(warnings, fmt.Sprintf("%s: identifier %q exceeds 32 characters", scope, name))
		}
	}
	for _, p := range d.Peripherals {
		check("peripheral", p.Name)
		for _, r := range p.Registers {
			check(p.Name+"."+r.Name, r.Name)
			for _, f := range r.Fields {
				check(p.Name+"."+r.Name+"."+f.Name, f.Name)
			}
		}
	}
	return warnings
}

// PeripheralAddressOverlaps reports address-block overlaps between blocks
// that are neighbours in address order. It does not consult
// AlternatePeripheral (svd.Check does), so every such overlap is reported.
func PeripheralAddressOverlaps(d *svd.Device) []string {
	type span struct {
		name     string
		lo, hi   uint64
	}
	var spans []span
	for _, p := range d.Peripherals {
		for _, ab := range p.AddressBlocks {
			lo := p.BaseAddress + ab.Offset
			hi := lo + ab.Size
			spans = append(spans, span{name: p.Name, lo: lo, hi: hi})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	var out []string
	for i := 1; i < len(spans); i++ {
		if spans[i].lo < spans[i-1].hi {
			out = append(out, fmt.Sprintf("peripheral %q address block overlaps %q", spans[i].name, spans[i-1].name))
		}
	}
	return out
}

// EffectiveAccess resolves a register's effective access by walking the
// register -> peripheral -> device chain, returning the nearest defined
// (non-empty) value and falling back to the SVD default "read-write".
func EffectiveAccess(d *svd.Device, p *svd.Peripheral, r *svd.Register) string {
	if r != nil && r.Access != "" {
		return r.Access
	}
	if p != nil && p.Access != "" {
		return p.Access
	}
	if d.Access != "" {
		return d.Access
	}
	return "read-write"
}
