package svd

import (
	"fmt"

	"github.com/embedstack/cbuild/internal/core/entities"
)

// ResolveDerivedFrom resolves every derivedFrom reference among a device's
// peripherals: the referenced peripheral is deep-copied, then the
// referencing peripheral's own non-zero fields override the copy, matching
// SvdDevice.cpp's CalculateDimensions/derivedFrom pass. Cross-peripheral
// cycles are detected with entities.RefGraph before any copying happens.
func ResolveDerivedFrom(d *Device) error {
	graph := entities.NewRefGraph()
	byName := make(map[string]*Peripheral, len(d.Peripherals))
	for _, p := range d.Peripherals {
		byName[p.Name] = p
		if p.DerivedFrom != "" {
			graph.AddEdge(p.Name, p.DerivedFrom)
		}
	}
	if cyc := graph.FindCycle(); cyc != nil {
		return entities.CycleError(cyc)
	}

	resolved := make(map[string]bool)
	var resolveOne func(p *Peripheral) error
	resolveOne = func(p *Peripheral) error {
		if p.DerivedFrom == "" || resolved[p.Name] {
			resolved[p.Name] = true
			return nil
		}
		base, ok := byName[p.DerivedFrom]
		if !ok {
			return fmt.Errorf("peripheral %q: derivedFrom %q not found", p.Name, p.DerivedFrom)
		}
		if err := resolveOne(base); err != nil {
			return err
		}
		mergePeripheral(p, base)
		resolved[p.Name] = true
		return nil
	}

	for _, p := range d.Peripherals {
		if err := resolveOne(p); err != nil {
			return err
		}
	}
	return resolveClusterAndRegisterDerivation(d)
}

// mergePeripheral overlays base's fields onto p wherever p left them at
// their zero value, a deep copy followed by override as the original
// derivedFrom semantics require (never a shallow alias: mutating p's
// registers afterward must not affect base's).
func mergePeripheral(p, base *Peripheral) {
	if p.Description == "" {
		p.Description = base.Description
	}
	if p.GroupName == "" {
		p.GroupName = base.GroupName
	}
	if p.Size == 0 {
		p.Size = base.Size
	}
	if p.Access == "" {
		p.Access = base.Access
	}
	if p.ResetValue == 0 {
		p.ResetValue = base.ResetValue
	}
	if p.ResetMask == 0 {
		p.ResetMask = base.ResetMask
	}
	if len(p.AddressBlocks) == 0 {
		p.AddressBlocks = append([]AddressBlock{}, base.AddressBlocks...)
	}
	if len(p.Interrupts) == 0 {
		p.Interrupts = append([]Interrupt{}, base.Interrupts...)
	}
	if len(p.Registers) == 0 {
		p.Registers = cloneRegisters(base.Registers)
	}
	if len(p.Clusters) == 0 {
		p.Clusters = cloneClusters(base.Clusters)
	}
}

func cloneRegisters(in []*Register) []*Register {
	out := make([]*Register, len(in))
	for i, r := range in {
		cp := *r
		cp.Fields = cloneFields(r.Fields)
		out[i] = &cp
	}
	return out
}

func cloneFields(in []*Field) []*Field {
	out := make([]*Field, len(in))
	for i, f := range in {
		cp := *f
		cp.EnumeratedValues = append([]EnumeratedValue{}, f.EnumeratedValues...)
		out[i] = &cp
	}
	return out
}

func cloneClusters(in []*Cluster) []*Cluster {
	out := make([]*Cluster, len(in))
	for i, c := range in {
		cp := *c
		cp.Registers = cloneRegisters(c.Registers)
		cp.Clusters = cloneClusters(c.Clusters)
		out[i] = &cp
	}
	return out
}

// resolveClusterAndRegisterDerivation resolves derivedFrom references that
// occur within a single peripheral's register/cluster tree (a register
// deriving from a sibling register), separately from the cross-peripheral
// pass above since those references are scoped by name to their enclosing
// peripheral.
func resolveClusterAndRegisterDerivation(d *Device) error {
	for _, p := range d.Peripherals {
		regByName := make(map[string]*Register, len(p.Registers))
		for _, r := range p.Registers {
			regByName[r.Name] = r
		}
		graph := entities.NewRefGraph()
		for _, r := range p.Registers {
			if r.DerivedFrom != "" {
				graph.AddEdge(r.Name, r.DerivedFrom)
			}
		}
		if cyc := graph.FindCycle(); cyc != nil {
			return fmt.Errorf("peripheral %q: %w", p.Name, entities.CycleError(cyc))
		}
		resolved := make(map[string]bool)
		var resolveReg func(r *Register) error
		resolveReg = func(r *Register) error {
			if r.DerivedFrom == "" || resolved[r.Name] {
				resolved[r.Name] = true
				return nil
			}
			base, ok := regByName[r.DerivedFrom]
			if !ok {
				return fmt.Errorf("register %q: derivedFrom %q not found in peripheral %q", r.Name, r.DerivedFrom, p.Name)
			}
			if err := resolveReg(base); err != nil {
				return err
			}
			mergeRegister(r, base)
			resolved[r.Name] = true
			return nil
		}
		for _, r := range p.Registers {
			if err := resolveReg(r); err != nil {
				return err
			}
		}
	}
	return nil
}

func mergeRegister(r, base *Register) {
	if r.Description == "" {
		r.Description = base.Description
	}
	if r.Size == 0 {
		r.Size = base.Size
	}
	if r.Access == "" {
		r.Access = base.Access
	}
	if r.ResetValue == 0 {
		r.ResetValue = base.ResetValue
	}
	if r.ResetMask == 0 {
		r.ResetMask = base.ResetMask
	}
	if len(r.Fields) == 0 {
		r.Fields = cloneFields(base.Fields)
	}
}
