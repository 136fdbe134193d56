// Package xmlloader decodes the CMSIS-Pack XML document kinds: a pack's
// PDSC manifest and the SVD device description it references. No XML
// library appears among the example corpus's dependencies (the pack's own
// direct stack is YAML/TOML-oriented), so this package stays on the
// standard library's encoding/xml (see DESIGN.md).
package xmlloader

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/embedstack/cbuild/internal/core/entities/svd"
)

type svdDeviceXML struct {
	XMLName         xml.Name         `xml:"device"`
	Vendor          string           `xml:"vendor"`
	Name            string           `xml:"name"`
	Series          string           `xml:"series"`
	Version         string           `xml:"version"`
	Description     string           `xml:"description"`
	AddressUnitBits int              `xml:"addressUnitBits"`
	Width           int              `xml:"width"`
	Size            int              `xml:"size"`
	Access          string           `xml:"access"`
	ResetValue      string           `xml:"resetValue"`
	ResetMask       string           `xml:"resetMask"`
	CPU             svdCPUXML        `xml:"cpu"`
	Peripherals     svdPeripheralsXML `xml:"peripherals"`
}

type svdCPUXML struct {
	Name                string `xml:"name"`
	Revision            string `xml:"revision"`
	Endian              string `xml:"endian"`
	MpuPresent          bool   `xml:"mpuPresent"`
	FpuPresent          bool   `xml:"fpuPresent"`
	FpuDP               bool   `xml:"fpuDP"`
	DspPresent          bool   `xml:"dspPresent"`
	NvicPrioBits        int    `xml:"nvicPrioBits"`
	VendorSystickConfig bool   `xml:"vendorSystickConfig"`
}

type svdPeripheralsXML struct {
	Peripheral []svdPeripheralXML `xml:"peripheral"`
}

type svdDimXML struct {
	Dim          string `xml:"dim"`
	DimIncrement string `xml:"dimIncrement"`
	DimIndex     string `xml:"dimIndex"`
	DimName      string `xml:"dimName"`
}

type svdPeripheralXML struct {
	svdDimXML
	Name                string            `xml:"name"`
	Version             string            `xml:"version"`
	Description         string            `xml:"description"`
	GroupName           string            `xml:"groupName"`
	BaseAddress         string            `xml:"baseAddress"`
	Size                int               `xml:"size"`
	Access              string            `xml:"access"`
	ResetValue          string            `xml:"resetValue"`
	ResetMask           string            `xml:"resetMask"`
	DerivedFrom         string            `xml:"derivedFrom,attr"`
	AlternatePeripheral string            `xml:"alternatePeripheral"`
	AddressBlock        []svdAddrBlockXML `xml:"addressBlock"`
	Interrupt           []svdInterruptXML `xml:"interrupt"`
	Registers           svdRegistersXML   `xml:"registers"`
}

type svdAddrBlockXML struct {
	Offset string `xml:"offset"`
	Size   string `xml:"size"`
	Usage  string `xml:"usage"`
}

type svdInterruptXML struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Value       int    `xml:"value"`
}

type svdRegistersXML struct {
	Register []svdRegisterXML `xml:"register"`
	Cluster  []svdClusterXML  `xml:"cluster"`
}

type svdRegisterXML struct {
	svdDimXML
	Name          string       `xml:"name"`
	DisplayName   string       `xml:"displayName"`
	Description   string       `xml:"description"`
	AddressOffset string       `xml:"addressOffset"`
	Size          int          `xml:"size"`
	Access        string       `xml:"access"`
	ResetValue    string       `xml:"resetValue"`
	ResetMask     string       `xml:"resetMask"`
	DerivedFrom   string       `xml:"derivedFrom,attr"`
	Fields        svdFieldsXML `xml:"fields"`
}

type svdClusterXML struct {
	svdDimXML
	Name          string           `xml:"name"`
	Description   string           `xml:"description"`
	AddressOffset string           `xml:"addressOffset"`
	Size          int              `xml:"size"`
	Access        string           `xml:"access"`
	ResetValue    string           `xml:"resetValue"`
	ResetMask     string           `xml:"resetMask"`
	DerivedFrom   string           `xml:"derivedFrom,attr"`
	Register      []svdRegisterXML `xml:"register"`
	Cluster       []svdClusterXML  `xml:"cluster"`
}

type svdFieldsXML struct {
	Field []svdFieldXML `xml:"field"`
}

type svdFieldXML struct {
	svdDimXML
	Name             string           `xml:"name"`
	Description      string           `xml:"description"`
	BitOffset        *int             `xml:"bitOffset"`
	BitWidth         *int             `xml:"bitWidth"`
	BitRange         string           `xml:"bitRange"`
	Lsb              *int             `xml:"lsb"`
	Msb              *int             `xml:"msb"`
	Access           string           `xml:"access"`
	DerivedFrom      string           `xml:"derivedFrom,attr"`
	EnumeratedValues svdEnumValuesXML `xml:"enumeratedValues"`
}

type svdEnumValuesXML struct {
	EnumeratedValue []svdEnumValueXML `xml:"enumeratedValue"`
}

type svdEnumValueXML struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Value       string `xml:"value"`
	IsDefault   bool   `xml:"isDefault"`
}

// LoadSVD parses a .svd file into the domain device tree, leaving
// dimension expansion and derivedFrom resolution to
// usecases.SvdService.Process.
func LoadSVD(path string) (*svd.Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc svdDeviceXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("xmlloader: %s: %w", path, err)
	}
	d := &svd.Device{
		Vendor:          doc.Vendor,
		Name:            doc.Name,
		Series:          doc.Series,
		Version:         doc.Version,
		Description:     doc.Description,
		AddressUnitBits: doc.AddressUnitBits,
		Width:           doc.Width,
		Size:            doc.Size,
		Access:          doc.Access,
		ResetValue:      parseNum(doc.ResetValue),
		ResetMask:       parseNum(doc.ResetMask),
		CPU: svd.CPU{
			Name: doc.CPU.Name, Revision: doc.CPU.Revision, Endian: doc.CPU.Endian,
			MpuPresent: doc.CPU.MpuPresent, FpuPresent: doc.CPU.FpuPresent, FpuDP: doc.CPU.FpuDP,
			DspPresent: doc.CPU.DspPresent, NvicPrioBits: doc.CPU.NvicPrioBits,
			VendorSystickConfig: doc.CPU.VendorSystickConfig,
		},
	}
	for _, p := range doc.Peripherals.Peripheral {
		d.Peripherals = append(d.Peripherals, toSvdPeripheral(p))
	}
	return d, nil
}

func toDim(d svdDimXML) *svd.Dimension {
	if d.Dim == "" {
		return nil
	}
	dim, _ := strconv.Atoi(d.Dim)
	return &svd.Dimension{
		Dim:          dim,
		DimIncrement: parseNum(d.DimIncrement),
		DimIndex:     svd.ParseDimIndex(d.DimIndex),
		DimName:      d.DimName,
	}
}

func toSvdPeripheral(p svdPeripheralXML) *svd.Peripheral {
	out := &svd.Peripheral{
		Name: p.Name, Version: p.Version, Description: p.Description, GroupName: p.GroupName,
		BaseAddress: parseNum(p.BaseAddress), Size: p.Size, Access: p.Access,
		ResetValue: parseNum(p.ResetValue), ResetMask: parseNum(p.ResetMask),
		DerivedFrom: p.DerivedFrom, AlternatePeripheral: p.AlternatePeripheral, Dim: toDim(p.svdDimXML),
	}
	for _, ab := range p.AddressBlock {
		out.AddressBlocks = append(out.AddressBlocks, svd.AddressBlock{
			Offset: parseNum(ab.Offset), Size: parseNum(ab.Size), Usage: ab.Usage,
		})
	}
	for _, irq := range p.Interrupt {
		out.Interrupts = append(out.Interrupts, svd.Interrupt{
			Name: irq.Name, Description: irq.Description, Value: irq.Value,
		})
	}
	for _, r := range p.Registers.Register {
		out.Registers = append(out.Registers, toSvdRegister(r))
	}
	for _, c := range p.Registers.Cluster {
		out.Clusters = append(out.Clusters, toSvdCluster(c))
	}
	return out
}

func toSvdCluster(c svdClusterXML) *svd.Cluster {
	out := &svd.Cluster{
		Name: c.Name, Description: c.Description, AddressOffset: parseNum(c.AddressOffset),
		Size: c.Size, Access: c.Access, ResetValue: parseNum(c.ResetValue),
		ResetMask: parseNum(c.ResetMask), DerivedFrom: c.DerivedFrom, Dim: toDim(c.svdDimXML),
	}
	for _, r := range c.Register {
		out.Registers = append(out.Registers, toSvdRegister(r))
	}
	for _, sub := range c.Cluster {
		out.Clusters = append(out.Clusters, toSvdCluster(sub))
	}
	return out
}

func toSvdRegister(r svdRegisterXML) *svd.Register {
	out := &svd.Register{
		Name: r.Name, DisplayName: r.DisplayName, Description: r.Description,
		AddressOffset: parseNum(r.AddressOffset), Size: r.Size, Access: r.Access,
		ResetValue: parseNum(r.ResetValue), ResetMask: parseNum(r.ResetMask),
		DerivedFrom: r.DerivedFrom, Dim: toDim(r.svdDimXML),
	}
	for _, f := range r.Fields.Field {
		out.Fields = append(out.Fields, toSvdField(f))
	}
	return out
}

func toSvdField(f svdFieldXML) *svd.Field {
	offset, width := fieldBitRange(f)
	out := &svd.Field{
		Name: f.Name, Description: f.Description, BitOffset: offset, BitWidth: width,
		Access: f.Access, DerivedFrom: f.DerivedFrom, Dim: toDim(f.svdDimXML),
	}
	for _, ev := range f.EnumeratedValues.EnumeratedValue {
		out.EnumeratedValues = append(out.EnumeratedValues, svd.EnumeratedValue{
			Name: ev.Name, Description: ev.Description, Value: parseNum(ev.Value), IsDefault: ev.IsDefault,
		})
	}
	return out
}

// fieldBitRange resolves a field's bit offset/width from whichever of SVD's
// three equivalent notations the document uses:
// bitOffset+bitWidth, lsb+msb, or bitRange "[msb:lsb]".
func fieldBitRange(f svdFieldXML) (offset, width int) {
	if f.BitOffset != nil {
		offset = *f.BitOffset
		if f.BitWidth != nil {
			width = *f.BitWidth
		} else {
			width = 1
		}
		return
	}
	if f.Lsb != nil && f.Msb != nil && *f.Msb >= *f.Lsb {
		return *f.Lsb, *f.Msb - *f.Lsb + 1
	}
	if f.BitRange != "" {
		s := strings.Trim(f.BitRange, "[]")
		parts := strings.SplitN(s, ":", 2)
		if len(parts) == 2 {
			msb, err1 := strconv.Atoi(parts[0])
			lsb, err2 := strconv.Atoi(parts[1])
			if err1 == nil && err2 == nil && msb >= lsb {
				return lsb, msb - lsb + 1
			}
		}
	}
	return 0, 1
}

func parseNum(s string) uint64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err == nil {
			return v
		}
		return 0
	}
	if strings.HasPrefix(s, "#") {
		v, err := strconv.ParseUint(s[1:], 2, 64)
		if err == nil {
			return v
		}
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err == nil {
		return v
	}
	return 0
}
