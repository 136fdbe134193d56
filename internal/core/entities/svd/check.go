package svd

import "fmt"

// ConsistencyIssue is a single problem found by Check: overlapping fields,
// an out-of-range field, an overlapping or wrapping address block, or a
// duplicate peripheral base address.
type ConsistencyIssue struct {
	Peripheral string
	Register   string
	Message    string
	// Warning marks issues that do not invalidate the node, such as a
	// cross-peripheral address-block overlap with no declared
	// alternatePeripheral.
	Warning bool
}

func (i ConsistencyIssue) String() string {
	if i.Register != "" {
		return fmt.Sprintf("%s.%s: %s", i.Peripheral, i.Register, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Peripheral, i.Message)
}

// Check runs the device-tree consistency pass the original SvdConv applies
// after dimension expansion and derivedFrom resolution: duplicate
// peripheral base addresses, registers whose fields exceed the register's
// effective access size, and overlapping field bit ranges within the same
// register.
func Check(d *Device) []ConsistencyIssue {
	var issues []ConsistencyIssue

	seenBase := make(map[uint64]string)
	type absBlock struct {
		lo, hi     uint64
		peripheral string
		alternate  string
	}
	var allBlocks []absBlock

	for _, p := range d.Peripherals {
		if other, ok := seenBase[p.BaseAddress]; ok {
			issues = append(issues, ConsistencyIssue{
				Peripheral: p.Name,
				Message:    fmt.Sprintf("base address 0x%X duplicates peripheral %q", p.BaseAddress, other),
			})
		} else {
			seenBase[p.BaseAddress] = p.Name
		}

		for i, bi := range p.AddressBlocks {
			lo, hi := p.blockRange(bi)
			if hi < lo {
				issues = append(issues, ConsistencyIssue{
					Peripheral: p.Name,
					Message:    fmt.Sprintf("address block %d wraps past the 32-bit address space", i),
				})
			}
			for j := i + 1; j < len(p.AddressBlocks); j++ {
				olo, ohi := p.blockRange(p.AddressBlocks[j])
				if lo < ohi && hi > olo {
					issues = append(issues, ConsistencyIssue{
						Peripheral: p.Name,
						Message:    fmt.Sprintf("address blocks %d and %d overlap within peripheral", i, j),
					})
				}
			}
			allBlocks = append(allBlocks, absBlock{lo: lo, hi: hi, peripheral: p.Name, alternate: p.AlternatePeripheral})
		}

		for _, r := range p.Registers {
			issues = append(issues, checkRegister(p.Name, r)...)
		}
	}

	for i := 0; i < len(allBlocks); i++ {
		for j := i + 1; j < len(allBlocks); j++ {
			a, b := allBlocks[i], allBlocks[j]
			if a.peripheral == b.peripheral {
				continue
			}
			if a.lo >= b.hi || a.hi <= b.lo {
				continue
			}
			if a.alternate == b.peripheral || b.alternate == a.peripheral {
				continue
			}
			issues = append(issues, ConsistencyIssue{
				Peripheral: a.peripheral,
				Message:    fmt.Sprintf("address block overlaps peripheral %q (declare alternatePeripheral to allow)", b.peripheral),
				Warning:    true,
			})
		}
	}
	return issues
}

type fieldSpan struct {
	lo, hi int
	name   string
}

// fieldAccess resolves the effective access class for a field, bubbling up
// to the register's own access when the field leaves it unset.
func fieldAccess(r *Register, f *Field) string {
	if f.Access != "" {
		return f.Access
	}
	if r.Access != "" {
		return r.Access
	}
	return "read-write"
}

// readsField / writesField decide whether a field contributes to the
// read-class or write-class overlap check. read-write (and unspecified)
// fields contribute to both classes; read-only/write-only contribute to
// exactly one, so a read-only and a write-only field are allowed to share
// the same bits (e.g. a status register aliased over a command register).
func readsField(access string) bool  { return access != "write-only" && access != "writeOnce" }
func writesField(access string) bool { return access != "read-only" }

func checkRegister(peripheralName string, r *Register) []ConsistencyIssue {
	var issues []ConsistencyIssue
	size := r.EffectiveAccessSize()

	var readSpans, writeSpans []fieldSpan
	for _, f := range r.Fields {
		top := f.BitOffset + f.BitWidth
		if top > size {
			issues = append(issues, ConsistencyIssue{
				Peripheral: peripheralName,
				Register:   r.Name,
				Message:    fmt.Sprintf("field %q bit range [%d:%d) exceeds register access size %d", f.Name, f.BitOffset, top, size),
			})
		}
		access := fieldAccess(r, f)
		span := fieldSpan{lo: f.BitOffset, hi: top, name: f.Name}
		if readsField(access) {
			if other, ok := overlaps(readSpans, span); ok {
				issues = append(issues, ConsistencyIssue{
					Peripheral: peripheralName,
					Register:   r.Name,
					Message:    fmt.Sprintf("field overlap in register %s between %s and %s", r.Name, other, f.Name),
				})
			}
			readSpans = append(readSpans, span)
		}
		if writesField(access) {
			if other, ok := overlaps(writeSpans, span); ok {
				issues = append(issues, ConsistencyIssue{
					Peripheral: peripheralName,
					Register:   r.Name,
					Message:    fmt.Sprintf("field overlap in register %s between %s and %s", r.Name, other, f.Name),
				})
			}
			writeSpans = append(writeSpans, span)
		}
	}
	return issues
}

func overlaps(spans []fieldSpan, s fieldSpan) (string, bool) {
	for _, other := range spans {
		if s.lo < other.hi && s.hi > other.lo {
			return other.name, true
		}
	}
	return "", false
}
