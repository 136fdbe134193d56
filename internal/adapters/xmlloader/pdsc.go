package xmlloader

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/embedstack/cbuild/internal/core/entities"
)

type pdscXML struct {
	XMLName     xml.Name          `xml:"package"`
	Vendor      string            `xml:"vendor"`
	Name        string            `xml:"name"`
	Description string            `xml:"description"`
	URL         string            `xml:"url"`
	License     string            `xml:"license"`
	Releases    pdscReleasesXML   `xml:"releases"`
	Conditions  pdscCondsXML      `xml:"conditions"`
	Components  pdscCompsXML      `xml:"components"`
	APIs        pdscAPIsXML       `xml:"apis"`
	Devices     pdscDevicesXML    `xml:"devices"`
	Boards      pdscBoardsXML     `xml:"boards"`
	Generators  pdscGeneratorsXML `xml:"generators"`
	Examples    pdscExamplesXML   `xml:"examples"`
}

type pdscReleasesXML struct {
	Release []struct {
		Version string `xml:"version,attr"`
		Date    string `xml:"date,attr"`
		Text    string `xml:",chardata"`
	} `xml:"release"`
}

type pdscCondsXML struct {
	Condition []pdscConditionXML `xml:"condition"`
}

type pdscConditionXML struct {
	ID      string                `xml:"id,attr"`
	Accept  []pdscConditionAttrXML `xml:"accept"`
	Require []pdscConditionAttrXML `xml:"require"`
	Deny    []pdscConditionAttrXML `xml:"deny"`
}

type pdscConditionAttrXML struct {
	Dname      string `xml:"Dname,attr"`
	Dvendor    string `xml:"Dvendor,attr"`
	Pname      string `xml:"Pname,attr"`
	Tcompiler  string `xml:"Tcompiler,attr"`
	Cclass     string `xml:"Cclass,attr"`
	Cgroup     string `xml:"Cgroup,attr"`
	Csub       string `xml:"Csub,attr"`
	ConditionID string `xml:"condition,attr"`
}

func (a pdscConditionAttrXML) toAttributes() []entities.Attribute {
	var out []entities.Attribute
	add := func(key, val string) {
		if val != "" {
			out = append(out, entities.Attribute{Key: key, Value: val})
		}
	}
	add("Dname", a.Dname)
	add("Dvendor", a.Dvendor)
	add("Pname", a.Pname)
	add("Tcompiler", a.Tcompiler)
	add("Cclass", a.Cclass)
	add("Cgroup", a.Cgroup)
	add("Csub", a.Csub)
	if a.ConditionID != "" {
		out = append(out, entities.Attribute{ConditionID: a.ConditionID})
	}
	return out
}

type pdscCompsXML struct {
	Component []pdscComponentXML `xml:"component"`
	Bundle    []pdscBundleXML    `xml:"bundle"`
}

type pdscBundleXML struct {
	Cbundle   string             `xml:"Cbundle,attr"`
	Cclass    string             `xml:"Cclass,attr"`
	Component []pdscComponentXML `xml:"component"`
}

type pdscComponentXML struct {
	Cvendor      string            `xml:"Cvendor,attr"`
	Cclass       string            `xml:"Cclass,attr"`
	Cgroup       string            `xml:"Cgroup,attr"`
	Csub         string            `xml:"Csub,attr"`
	Cvariant     string            `xml:"Cvariant,attr"`
	Cversion     string            `xml:"Cversion,attr"`
	Capiversion  string            `xml:"Capiversion,attr"`
	Condition    string            `xml:"condition,attr"`
	Generator    string            `xml:"generator,attr"`
	Bootstrap    bool              `xml:"Rte_Components_h,attr"`
	MaxInstances int               `xml:"maxInstances,attr"`
	Description  string            `xml:"description"`
	Files        pdscFilesXML      `xml:"files"`
}

type pdscFilesXML struct {
	File []pdscFileXML `xml:"file"`
}

type pdscFileXML struct {
	Name     string `xml:"name,attr"`
	Category string `xml:"category,attr"`
	Attr     string `xml:"attr,attr"`
	Version  string `xml:"version,attr"`
	Select   string `xml:"select,attr"`
}

type pdscAPIsXML struct {
	API []struct {
		Cgroup      string `xml:"Cgroup,attr"`
		Cbundle     string `xml:"Cbundle,attr"`
		Capiversion string `xml:"Capiversion,attr"`
		Condition   string `xml:"condition,attr"`
		Exclusive   bool   `xml:"exclusive,attr"`
	} `xml:"api"`
}

type pdscDevicesXML struct {
	Family []pdscFamilyXML `xml:"family"`
}

type pdscFamilyXML struct {
	Dvendor   string              `xml:"Dvendor,attr"`
	Dfamily   string              `xml:"Dfamily,attr"`
	SubFamily []pdscSubFamilyXML  `xml:"subFamily"`
	Device    []pdscDeviceRefXML  `xml:"device"`
	Book      []struct {
		Name string `xml:"name,attr"`
	} `xml:"book"`
	Debug []struct {
		SVD string `xml:"svd,attr"`
	} `xml:"debug"`
}

type pdscSubFamilyXML struct {
	DsubFamily string             `xml:"DsubFamily,attr"`
	Device     []pdscDeviceRefXML `xml:"device"`
}

type pdscDeviceRefXML struct {
	Dname string `xml:"Dname,attr"`
}

type pdscBoardsXML struct {
	Board []pdscBoardXML `xml:"board"`
}

type pdscBoardXML struct {
	Vendor       string `xml:"vendor,attr"`
	Name         string `xml:"name,attr"`
	MountedDevice []struct {
		Dvendor string `xml:"Dvendor,attr"`
		Dname   string `xml:"Dname,attr"`
		Pname   string `xml:"Pname,attr"`
	} `xml:"mountedDevice"`
}

type pdscExamplesXML struct {
	Example []pdscExampleXML `xml:"example"`
}

type pdscExampleXML struct {
	Name   string `xml:"name,attr"`
	Folder string `xml:"folder,attr"`
	Doc    string `xml:"doc,attr"`
	Board  struct {
		Vendor string `xml:"vendor,attr"`
		Name   string `xml:"name,attr"`
	} `xml:"board"`
}

type pdscGeneratorsXML struct {
	Generator []struct {
		ID      string `xml:"id,attr"`
		Name    string `xml:"name,attr"`
		Workdir string `xml:"workingDir,attr"`
		Exe     []struct {
			Host string `xml:"host,attr"`
			Path string `xml:",chardata"`
		} `xml:"exe"`
	} `xml:"generator"`
}

// LoadPDSC parses a .pdsc manifest from an installed pack directory into a
// fully-populated entities.Pack, with Path set to packRoot.
func LoadPDSC(path string, packRoot string) (*entities.Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc pdscXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("xmlloader: %s: %w", path, err)
	}

	version := ""
	if len(doc.Releases.Release) > 0 {
		version = doc.Releases.Release[0].Version
	}
	pack := &entities.Pack{
		ID:      entities.PackID{Vendor: doc.Vendor, Name: doc.Name, Version: version},
		URL:     doc.URL,
		License: doc.License,
		Path:    packRoot,
	}
	for _, r := range doc.Releases.Release {
		pack.Releases = append(pack.Releases, entities.Release{
			Version: r.Version, Date: r.Date, Text: strings.TrimSpace(r.Text),
		})
	}

	pack.Conditions = make(map[string]*entities.Condition, len(doc.Conditions.Condition))
	for _, c := range doc.Conditions.Condition {
		cond := &entities.Condition{ID: c.ID}
		for _, a := range c.Require {
			cond.Rules = append(cond.Rules, entities.Rule{Kind: entities.RuleRequire, Attributes: a.toAttributes()})
		}
		for _, a := range c.Accept {
			cond.Rules = append(cond.Rules, entities.Rule{Kind: entities.RuleAccept, Attributes: a.toAttributes()})
		}
		for _, a := range c.Deny {
			cond.Rules = append(cond.Rules, entities.Rule{Kind: entities.RuleDeny, Attributes: a.toAttributes()})
		}
		pack.Conditions[c.ID] = cond
	}

	addComponent := func(cXML pdscComponentXML, cbundle string) {
		comp, err := entities.NewComponent(entities.ComponentAttributes{
			Cvendor: cXML.Cvendor, Cclass: cXML.Cclass, Cbundle: cbundle,
			Cgroup: cXML.Cgroup, Csub: cXML.Csub, Cvariant: cXML.Cvariant, Cversion: cXML.Cversion,
		}, pack.ID)
		if err != nil {
			return
		}
		comp.ConditionRef = cXML.Condition
		comp.GeneratorRef = cXML.Generator
		comp.Bootstrap = cXML.Bootstrap
		comp.Description = cXML.Description
		if cXML.MaxInstances > 0 {
			comp.MaxInstances = cXML.MaxInstances
		}
		for _, f := range cXML.Files.File {
			comp.Files = append(comp.Files, entities.ComponentFile{
				Path: f.Name, Category: f.Category, Attr: f.Attr, Version: f.Version, Select: f.Select,
			})
		}
		pack.Components = append(pack.Components, comp)
	}
	for _, c := range doc.Components.Component {
		addComponent(c, "")
	}
	for _, b := range doc.Components.Bundle {
		for _, c := range b.Component {
			addComponent(c, b.Cbundle)
		}
	}

	for _, a := range doc.APIs.API {
		pack.APIs = append(pack.APIs, entities.APIDecl{
			Cgroup: a.Cgroup, Cbundle: a.Cbundle, Capiversion: a.Capiversion,
			ConditionRef: a.Condition, Exclusive: a.Exclusive,
		})
	}

	for _, fam := range doc.Devices.Family {
		svdFile := ""
		if len(fam.Debug) > 0 {
			svdFile = fam.Debug[0].SVD
		}
		var devices []string
		for _, d := range fam.Device {
			devices = append(devices, d.Dname)
		}
		for _, sub := range fam.SubFamily {
			var subDevices []string
			for _, d := range sub.Device {
				subDevices = append(subDevices, d.Dname)
			}
			pack.Devices = append(pack.Devices, entities.DeviceFamily{
				Vendor: fam.Dvendor, Family: fam.Dfamily, SubFamily: sub.DsubFamily,
				Devices: subDevices, SVDFile: svdFile,
			})
		}
		pack.Devices = append(pack.Devices, entities.DeviceFamily{
			Vendor: fam.Dvendor, Family: fam.Dfamily, Devices: devices, SVDFile: svdFile,
		})
	}

	for _, b := range doc.Boards.Board {
		board := entities.Board{Vendor: b.Vendor, Name: b.Name}
		for _, md := range b.MountedDevice {
			board.Mounted = append(board.Mounted, entities.MountedDevice{
				Dvendor: md.Dvendor, Dname: md.Dname, Pname: md.Pname,
			})
			board.Devices = append(board.Devices, md.Dname)
		}
		pack.Boards = append(pack.Boards, board)
	}

	for _, g := range doc.Generators.Generator {
		decl := entities.GeneratorDecl{ID: g.ID, Name: g.Name, WorkingDir: g.Workdir, Exe: map[string]string{}}
		for _, e := range g.Exe {
			decl.Exe[e.Host] = strings.TrimSpace(e.Path)
		}
		pack.Generators = append(pack.Generators, decl)
	}

	for _, e := range doc.Examples.Example {
		pack.Examples = append(pack.Examples, entities.Example{
			Name: e.Name, Folder: e.Folder, Doc: e.Doc,
			Vendor: e.Board.Vendor, Board: e.Board.Name,
		})
	}

	return pack, nil
}

// SVDPath resolves a device family's declared SVD file relative to the
// pack's installed root.
func SVDPath(packRoot, svdFile string) string {
	if svdFile == "" {
		return ""
	}
	return filepath.Join(packRoot, svdFile)
}
