package svd

import (
	"reflect"
	"testing"
)

func TestParseDimIndexCommaList(t *testing.T) {
	got := ParseDimIndex("A,B,C")
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseDimIndex(%q) = %v, want %v", "A,B,C", got, want)
	}
}

func TestParseDimIndexNumericRange(t *testing.T) {
	got := ParseDimIndex("0-3")
	want := []string{"0", "1", "2", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseDimIndex(%q) = %v, want %v", "0-3", got, want)
	}
}

func TestParseDimIndexCharRange(t *testing.T) {
	got := ParseDimIndex("A-D")
	want := []string{"A", "B", "C", "D"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseDimIndex(%q) = %v, want %v", "A-D", got, want)
	}
}

func TestParseDimIndexLowercaseCharRange(t *testing.T) {
	got := ParseDimIndex("a-c")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseDimIndex(%q) = %v, want %v", "a-c", got, want)
	}
}

func TestParseDimIndexSingleToken(t *testing.T) {
	got := ParseDimIndex("GPIO")
	want := []string{"GPIO"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseDimIndex(%q) = %v, want %v", "GPIO", got, want)
	}
}

func TestExpandWithCharRangeDimIndex(t *testing.T) {
	d := &Dimension{
		Dim:          4,
		DimIncrement: 4,
		DimIndex:     ParseDimIndex("A-D"),
	}
	elems := Expand("GPIO_%s", 0x00, d)
	if len(elems) != 4 {
		t.Fatalf("expected 4 expanded elements, got %d", len(elems))
	}
	wantNames := []string{"GPIO_A", "GPIO_B", "GPIO_C", "GPIO_D"}
	wantOffsets := []uint64{0x00, 0x04, 0x08, 0x0C}
	for i, e := range elems {
		if e.Name != wantNames[i] {
			t.Errorf("elems[%d].Name = %q, want %q", i, e.Name, wantNames[i])
		}
		if e.AddressOffset != wantOffsets[i] {
			t.Errorf("elems[%d].AddressOffset = 0x%X, want 0x%X", i, e.AddressOffset, wantOffsets[i])
		}
	}
}
