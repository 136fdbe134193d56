package usecases

import (
	"testing"

	"github.com/embedstack/cbuild/internal/core/entities/svd"
)

// TestExpandPeripheralDimsScenarioS4 covers scenario S4: a
// register "GPIO_%s" with dim=4 at offset 0x00 expands to four registers
// at the expected stepped offsets.
func TestExpandPeripheralDimsScenarioS4(t *testing.T) {
	d := &svd.Device{
		Peripherals: []*svd.Peripheral{
			{
				Name:        "GPIO",
				BaseAddress: 0x40000000,
				Registers: []*svd.Register{
					{
						Name:          "GPIO_%s",
						AddressOffset: 0x00,
						Size:          32,
						Dim: &svd.Dimension{
							Dim:          4,
							DimIncrement: 4,
							DimIndex:     []string{"A", "B", "C", "D"},
						},
					},
				},
			},
		},
	}
	if err := ExpandPeripheralDims(d); err != nil {
		t.Fatalf("ExpandPeripheralDims: %v", err)
	}
	p := d.Peripherals[0]
	if len(p.Registers) != 4 {
		t.Fatalf("expected 4 expanded registers, got %d", len(p.Registers))
	}
	wantNames := []string{"GPIO_A", "GPIO_B", "GPIO_C", "GPIO_D"}
	wantOffsets := []uint64{0x00, 0x04, 0x08, 0x0C}
	for i, r := range p.Registers {
		if r.Name != wantNames[i] {
			t.Errorf("register[%d].Name = %q, want %q", i, r.Name, wantNames[i])
		}
		if r.AddressOffset != wantOffsets[i] {
			t.Errorf("register[%d].AddressOffset = 0x%X, want 0x%X", i, r.AddressOffset, wantOffsets[i])
		}
	}
}

// TestSvdServiceFieldOverlapScenarioS5 covers scenario S5: two
// overlapping read-write fields in the same register are both flagged.
func TestSvdServiceFieldOverlapScenarioS5(t *testing.T) {
	d := &svd.Device{
		Peripherals: []*svd.Peripheral{
			{
				Name:        "PERIPH",
				BaseAddress: 0x40001000,
				Registers: []*svd.Register{
					{
						Name: "CR",
						Size: 32,
						Fields: []*svd.Field{
							{Name: "EN", BitOffset: 0, BitWidth: 1, Access: "read-write"},
							{Name: "MODE", BitOffset: 0, BitWidth: 4, Access: "read-write"},
						},
					},
				},
			},
		},
	}
	sink := &fakeSink{}
	svc := NewSvdService(sink)
	issues, err := svc.Process("device.svd", d)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(issues) == 0 {
		t.Fatal("expected at least one overlap issue")
	}
	found := false
	for _, iss := range issues {
		if iss.Register == "CR" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an issue reported against register CR, got %+v", issues)
	}
	if len(sink.errs) == 0 {
		t.Error("expected the overlap to be reported through the diagnostic sink")
	}
}

func TestExpandFieldExtendForm(t *testing.T) {
	fields := []*svd.Field{
		{
			Name: "CH%s", BitOffset: 0, BitWidth: 2,
			Dim: &svd.Dimension{Dim: 3, DimIndex: []string{"0", "1", "2"}},
		},
	}
	out := expandFieldsIn(fields)
	if len(out) != 3 {
		t.Fatalf("expected 3 expanded fields, got %d", len(out))
	}
	wantOffsets := []int{0, 2, 4}
	for i, f := range out {
		if f.BitOffset != wantOffsets[i] {
			t.Errorf("field[%d].BitOffset = %d, want %d", i, f.BitOffset, wantOffsets[i])
		}
	}
}
