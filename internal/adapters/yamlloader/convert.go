package yamlloader

import (
	"fmt"

	"github.com/embedstack/cbuild/internal/core/entities"
	"github.com/embedstack/cbuild/internal/core/usecases"
)

func toAttributeSet(d attributeSetDoc) entities.AttributeSet {
	return entities.AttributeSet{
		Compiler:    d.Compiler,
		Optimize:    d.Optimize,
		Debug:       d.Debug,
		Warnings:    d.Warnings,
		LanguageC:   d.LanguageC,
		LanguageCpp: d.LanguageCC,
		LTO:         d.LTO,
		Defines:     d.Defines,
		Undefines:   d.Undefines,
		AddPaths:    d.AddPaths,
		DelPaths:    d.DelPaths,
		Misc:        d.Misc,
		Processor: entities.ProcessorAttrs{
			FPU:              d.Processor.FPU,
			DSP:              d.Processor.DSP,
			MVE:              d.Processor.MVE,
			Endian:           d.Processor.Endian,
			TrustZone:        d.Processor.TrustZone,
			BranchProtection: d.Processor.BranchProtection,
		},
	}
}

func toPackConstraints(docs []packConstraintDoc) ([]entities.PackConstraint, error) {
	out := make([]entities.PackConstraint, 0, len(docs))
	for _, d := range docs {
		pc, err := parsePackConstraint(d.Pack)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, nil
}

func toGeneratorRefs(docs []generatorRefDoc) []entities.GeneratorRef {
	out := make([]entities.GeneratorRef, 0, len(docs))
	for _, d := range docs {
		out = append(out, entities.GeneratorRef{ID: d.ID, Name: d.Name, Workdir: d.Workdir})
	}
	return out
}

func toExecuteSteps(docs []executeStepDoc) []entities.ExecuteStep {
	out := make([]entities.ExecuteStep, 0, len(docs))
	for _, d := range docs {
		out = append(out, entities.ExecuteStep{
			Name: d.Name, Run: d.Run, Always: d.Always,
			ForContext: d.ForContext, NotForContext: d.NotForContext,
		})
	}
	return out
}

func toMemoryRegions(docs []memoryRegionDoc) ([]entities.MemoryRegion, error) {
	out := make([]entities.MemoryRegion, 0, len(docs))
	for _, d := range docs {
		start, err := parseHexOrDecimal(d.Start)
		if err != nil {
			return nil, err
		}
		size, err := parseHexOrDecimal(d.Size)
		if err != nil {
			return nil, err
		}
		out = append(out, entities.MemoryRegion{
			Name: d.Name, Start: start, Size: size, Access: d.Access,
			Default: d.Default, Startup: d.Startup,
		})
	}
	return out, nil
}

func toTargetSets(docs []targetSetDoc) []entities.TargetSet {
	out := make([]entities.TargetSet, 0, len(docs))
	for _, d := range docs {
		out = append(out, entities.TargetSet{Name: d.Name, Debugger: d.Debugger, Images: d.Images})
	}
	return out
}

func toComponentRefs(docs []componentRefDoc) ([]entities.ComponentRef, error) {
	out := make([]entities.ComponentRef, 0, len(docs))
	for _, d := range docs {
		sel, err := parseComponentSelector(d.Component)
		if err != nil {
			return nil, err
		}
		ref := entities.ComponentRef{Selector: sel, ForContext: d.ForContext, NotForContext: d.NotForContext}
		if d.Build != nil {
			attrs := toAttributeSet(*d.Build)
			ref.Build = &attrs
		}
		out = append(out, ref)
	}
	return out, nil
}

func toGroups(docs []groupDoc) []entities.Group {
	out := make([]entities.Group, 0, len(docs))
	for _, d := range docs {
		files := make([]entities.FileRef, 0, len(d.Files))
		for _, f := range d.Files {
			files = append(files, entities.FileRef{
				Path: f.File, Category: f.Category,
				ForContext: f.ForContext, NotForContext: f.NotForContext,
			})
		}
		out = append(out, entities.Group{
			Name: d.Group, Files: files, Groups: toGroups(d.Groups),
			ForContext: d.ForContext, NotForContext: d.NotForContext,
		})
	}
	return out
}

func toSolution(doc solutionDoc, path string) (*entities.Solution, error) {
	sol, err := entities.NewSolution(doc.Name)
	if err != nil {
		return nil, err
	}
	sol.Description = doc.Description
	sol.Path = path
	sol.Output = entities.OutputDirs{Intdir: doc.OutputDirs.Intdir, Outdir: doc.OutputDirs.Outdir}
	sol.Generators = toGeneratorRefs(doc.Generators)
	sol.Executes = toExecuteSteps(doc.Executes)

	packs, err := toPackConstraints(doc.Packs)
	if err != nil {
		return nil, err
	}
	sol.Packs = packs

	for name, bt := range doc.BuildTypes {
		sol.BuildTypes[name] = &entities.BuildType{Name: name, Attributes: toAttributeSet(bt)}
	}
	for name, tt := range doc.TargetTypes {
		memory, err := toMemoryRegions(tt.Memory)
		if err != nil {
			return nil, fmt.Errorf("yamlloader: target-type %q: %w", name, err)
		}
		sol.TargetTypes[name] = &entities.TargetType{
			Name:       name,
			Attributes: toAttributeSet(tt.attributeSetDoc),
			Device:     tt.Device,
			Board:      tt.Board,
			Memory:     memory,
			TargetSets: toTargetSets(tt.TargetSets),
		}
	}
	for _, p := range doc.Projects {
		sol.Projects = append(sol.Projects, entities.ProjectRef{
			Path: p.Project, ForContext: p.ForContext, NotForContext: p.NotForContext,
		})
	}
	return sol, nil
}

func toProject(doc projectDoc, name, path string) (*entities.Project, error) {
	proj, err := entities.NewProject(name)
	if err != nil {
		return nil, err
	}
	proj.Path = path
	proj.Device = doc.Device
	proj.Board = doc.Board
	proj.Output = entities.OutputSpec{Name: doc.Output.Name, Types: doc.Output.Type}
	proj.Build = toAttributeSet(doc.attributeSetDoc)
	proj.Connections = doc.Connections
	proj.Generators = toGeneratorRefs(doc.Generators)
	proj.Executes = toExecuteSteps(doc.Executes)
	proj.Linker = entities.LinkerSpec{Script: doc.Linker.Script, Auto: doc.Linker.Auto}
	regions, err := toMemoryRegions(doc.Linker.Regions)
	if err != nil {
		return nil, err
	}
	proj.Linker.Regions = regions

	packs, err := toPackConstraints(doc.Packs)
	if err != nil {
		return nil, err
	}
	proj.Packs = packs

	comps, err := toComponentRefs(doc.Components)
	if err != nil {
		return nil, err
	}
	proj.Components = comps

	proj.Groups = toGroups(doc.Groups)
	for _, l := range doc.Layers {
		proj.Layers = append(proj.Layers, l.Layer)
	}
	return proj, nil
}

func toLayer(doc layerDoc, name, path string) (*entities.Layer, error) {
	layer := &entities.Layer{
		Name: name, Type: doc.Type, ForBoard: doc.ForBoard, ForDevice: doc.ForDevice, Path: path,
	}
	comps, err := toComponentRefs(doc.Components)
	if err != nil {
		return nil, err
	}
	layer.Components = comps
	layer.Groups = toGroups(doc.Groups)
	for _, c := range doc.Connections {
		conn := entities.Connection{ID: c.Connect, Set: c.Set, Description: c.Description}
		for _, p := range c.Provides {
			conn.Provides = append(conn.Provides, entities.KV{Key: p.Key, Value: p.Value})
		}
		for _, cn := range c.Consumes {
			conn.Consumes = append(conn.Consumes, entities.KV{Key: cn.Key, Value: cn.Value})
		}
		layer.Connections = append(layer.Connections, conn)
	}
	return layer, nil
}

var _ usecases.SolutionLoader = (*Loader)(nil)
var _ usecases.CdefaultLoader = (*Loader)(nil)
