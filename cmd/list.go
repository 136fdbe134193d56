package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/embedstack/cbuild/internal/adapters/packrepo"
	"github.com/embedstack/cbuild/internal/adapters/settings"
	"github.com/embedstack/cbuild/internal/adapters/xdgpaths"
	"github.com/embedstack/cbuild/internal/core/entities"
	"github.com/embedstack/cbuild/internal/core/usecases"
	"github.com/embedstack/cbuild/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Query resolved or installed state",
	Long:    "list reports one subject at a time: packs, boards, configs, contexts, components, dependencies, devices, environment, examples, generators, layers, target-sets, toolchains.",
	GroupID: "query",
}

func init() {
	rootCmd.AddCommand(listCmd)
	for _, sub := range []*cobra.Command{
		listContextsCmd, listPacksCmd, listComponentsCmd, listDevicesCmd, listBoardsCmd,
		listLayersCmd, listGeneratorsCmd, listDependenciesCmd, listTargetSetsCmd,
		listToolchainsCmd, listEnvironmentCmd, listConfigsCmd, listExamplesCmd,
	} {
		listCmd.AddCommand(sub)
	}
}

// listOutput renders a plain string list to stdout, respecting -e/--export
// json and -f/--filter.
func listOutput(items []string) {
	sort.Strings(items)
	if filterExpr != "" {
		items = filterStrings(items, filterExpr)
	}
	if exportFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(items)
		return
	}
	ui.NewOutput().List(items)
}

func filterStrings(items []string, pattern string) []string {
	m := entities.NewGlobMatcher(pattern)
	var out []string
	for _, it := range items {
		if m.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

var listContextsCmd = &cobra.Command{
	Use:   "contexts <solution.yml>",
	Short: "List every candidate context a solution expands to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		pl, err := loadPipeline(cmd.Context(), resolver, args[0])
		if err != nil {
			return err
		}
		set := pl.all
		if len(contextFilters) > 0 || activeTarget != "" || contextSetFile != "" {
			set = pl.selected
		}
		listOutput(usecases.SortedNames(set))
		return finish(pl.diag, pl.formatter)
	},
}

var listPacksCmd = &cobra.Command{
	Use:   "packs [solution.yml]",
	Short: "List installed packs, or a solution's resolved pack set",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return listInstalledPacks(cmd.Context(), resolver)
		}
		pl, err := loadPipeline(cmd.Context(), resolver, args[0])
		if err != nil {
			return err
		}
		seen := make(map[string]bool)
		var out []string
		for _, c := range pl.selected {
			for _, p := range c.Packs {
				if !seen[p.ID.String()] {
					seen[p.ID.String()] = true
					out = append(out, p.ID.String())
				}
			}
		}
		listOutput(out)
		return finish(pl.diag, pl.formatter)
	},
}

func listInstalledPacks(ctx context.Context, resolver *settings.Resolver) error {
	diag, formatter := newDiagnostics()
	if resolver.PackRoot() == "" {
		return &exitError{code: exitVariableNotDefined, err: fmt.Errorf("CMSIS_PACK_ROOT is not defined")}
	}
	repo := packrepo.New(resolver.PackRoot())
	ids, err := repo.Installed(ctx)
	if err != nil {
		return err
	}
	var out []string
	for _, id := range ids {
		out = append(out, id.String())
	}
	listOutput(out)
	return finish(diag, formatter)
}

var listComponentsCmd = &cobra.Command{
	Use:   "components <solution.yml>",
	Short: "List resolved components per context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		pl, err := loadPipeline(cmd.Context(), resolver, args[0])
		if err != nil {
			return err
		}
		var out []string
		for _, c := range pl.selected {
			for _, rc := range c.Components {
				out = append(out, c.ID.String()+": "+rc.Component.ID())
			}
		}
		listOutput(out)
		return finish(pl.diag, pl.formatter)
	},
}

var listDependenciesCmd = &cobra.Command{
	Use:   "dependencies <solution.yml>",
	Short: "List unresolved component API dependencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		pl, err := loadPipeline(cmd.Context(), resolver, args[0])
		if err != nil {
			return err
		}
		var out []string
		for _, c := range pl.selected {
			_, errs := usecases.ResolveAPIs(c.Components, pl.catalog)
			for _, e := range errs {
				out = append(out, c.ID.String()+": "+e.Error())
			}
		}
		listOutput(out)
		return finish(pl.diag, pl.formatter)
	},
}

var listDevicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices declared by installed packs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		if resolver.PackRoot() == "" {
			return &exitError{code: exitVariableNotDefined, err: fmt.Errorf("CMSIS_PACK_ROOT is not defined")}
		}
		diag, formatter := newDiagnostics()
		ctx := cmd.Context()
		repo := packrepo.New(resolver.PackRoot())
		ids, err := repo.Installed(ctx)
		if err != nil {
			return err
		}
		var out []string
		for _, id := range ids {
			pack, err := repo.Load(ctx, id, diag)
			if err != nil {
				continue
			}
			for _, fam := range pack.Devices {
				for _, d := range fam.Devices {
					out = append(out, fmt.Sprintf("%s::%s", fam.Vendor, d))
				}
			}
		}
		listOutput(out)
		return finish(diag, formatter)
	},
}

var listBoardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List evaluation boards declared by installed packs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		if resolver.PackRoot() == "" {
			return &exitError{code: exitVariableNotDefined, err: fmt.Errorf("CMSIS_PACK_ROOT is not defined")}
		}
		diag, formatter := newDiagnostics()
		ctx := cmd.Context()
		repo := packrepo.New(resolver.PackRoot())
		ids, err := repo.Installed(ctx)
		if err != nil {
			return err
		}
		var out []string
		for _, id := range ids {
			pack, err := repo.Load(ctx, id, diag)
			if err != nil {
				continue
			}
			for _, b := range pack.Boards {
				out = append(out, fmt.Sprintf("%s::%s", b.Vendor, b.Name))
			}
		}
		listOutput(out)
		return finish(diag, formatter)
	},
}

var listLayersCmd = &cobra.Command{
	Use:   "layers <solution.yml>",
	Short: "List layer connection assignments the layer resolver finds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		pl, err := loadPipeline(cmd.Context(), resolver, args[0])
		if err != nil {
			return err
		}
		out, err := describeLayerAssignments(cmd.Context(), pl)
		if err != nil {
			return err
		}
		listOutput(out)
		return finish(pl.diag, pl.formatter)
	},
}

var listGeneratorsCmd = &cobra.Command{
	Use:   "generators <solution.yml>",
	Short: "List pending external generator invocations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		pl, err := loadPipeline(cmd.Context(), resolver, args[0])
		if err != nil {
			return err
		}
		globals := make(map[string]bool)
		for _, p := range pl.catalog {
			for _, g := range p.Generators {
				globals[g.ID] = true
			}
		}
		var out []string
		for _, c := range pl.selected {
			for _, pg := range usecases.CollectPendingGenerators(c.Components, globals) {
				out = append(out, fmt.Sprintf("%s: %s (%s)", c.ID.String(), pg.GeneratorID, pg.Component))
			}
		}
		listOutput(out)
		return finish(pl.diag, pl.formatter)
	},
}

var listTargetSetsCmd = &cobra.Command{
	Use:   "target-sets <solution.yml>",
	Short: "List named target-sets declared by target-types",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		pl, err := loadPipeline(cmd.Context(), resolver, args[0])
		if err != nil {
			return err
		}
		var out []string
		for name, tt := range pl.solution.TargetTypes {
			for _, ts := range tt.TargetSets {
				out = append(out, fmt.Sprintf("%s@%s", name, ts.Name))
			}
		}
		listOutput(out)
		return finish(pl.diag, pl.formatter)
	},
}

var listToolchainsCmd = &cobra.Command{
	Use:   "toolchains",
	Short: "List toolchain definitions found under CMSIS_COMPILER_ROOT",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		diag, formatter := newDiagnostics()
		if resolver.CompilerRoot() == "" {
			return &exitError{code: exitCompilerNotDefined, err: fmt.Errorf("CMSIS_COMPILER_ROOT is not defined")}
		}
		entries, err := os.ReadDir(resolver.CompilerRoot())
		if err != nil {
			return err
		}
		var out []string
		for _, e := range entries {
			out = append(out, e.Name())
		}
		listOutput(out)
		return finish(diag, formatter)
	},
}

var listEnvironmentCmd = &cobra.Command{
	Use:   "environment",
	Short: "Print the effective CMSIS_PACK_ROOT/CMSIS_COMPILER_ROOT and settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		out := ui.NewOutput()
		out.KeyValue("CMSIS_PACK_ROOT", resolver.PackRoot())
		out.KeyValue("CMSIS_COMPILER_ROOT", resolver.CompilerRoot())
		out.KeyValue("settings file", xdgpaths.NewResolver().SettingsFile())
		out.KeyValue("load policy", fmt.Sprintf("%v", resolver.LoadPolicy()))
		diag, formatter := newDiagnostics()
		return finish(diag, formatter)
	},
}

var listConfigsCmd = &cobra.Command{
	Use:   "configs <solution.yml>",
	Short: "List config files (copy-on-select component files) a project owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		pl, err := loadPipeline(cmd.Context(), resolver, args[0])
		if err != nil {
			return err
		}
		var out []string
		for _, c := range pl.selected {
			for _, rc := range c.Components {
				for _, f := range rc.Component.Files {
					if f.Category == "config" || f.Attr == "config" {
						out = append(out, f.Path)
					}
				}
			}
		}
		listOutput(out)
		return finish(pl.diag, pl.formatter)
	},
}

var listExamplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "List example projects declared by installed packs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := newResolver(cmd)
		if err != nil {
			return err
		}
		if resolver.PackRoot() == "" {
			return &exitError{code: exitVariableNotDefined, err: fmt.Errorf("CMSIS_PACK_ROOT is not defined")}
		}
		diag, formatter := newDiagnostics()
		ctx := cmd.Context()
		repo := packrepo.New(resolver.PackRoot())
		ids, err := repo.Installed(ctx)
		if err != nil {
			return err
		}
		var out []string
		for _, id := range ids {
			pack, err := repo.Load(ctx, id, diag)
			if err != nil {
				continue
			}
			for _, e := range pack.Examples {
				name := fmt.Sprintf("%s::%s", id.BaseID(), e.Name)
				if e.Board != "" {
					name = fmt.Sprintf("%s (%s::%s)", name, e.Vendor, e.Board)
				}
				out = append(out, name)
			}
		}
		listOutput(out)
		return finish(diag, formatter)
	},
}

// describeLayerAssignments loads every layer a project's selected contexts
// reference, groups candidates by declared layer type, and runs the
// connection resolver over the resulting slots.
func describeLayerAssignments(ctx context.Context, pl *pipeline) ([]string, error) {
	base := solutionDir(pl.solution.Path)
	slotsByType := make(map[string]*usecases.LayerSlot)
	var order []string
	for _, c := range pl.selected {
		for _, layerPath := range c.Project.Layers {
			layer, err := pl.loader.LoadLayer(ctx, filepath.Join(base, layerPath), pl.diag)
			if err != nil {
				continue
			}
			slot, ok := slotsByType[layer.Type]
			if !ok {
				slot = &usecases.LayerSlot{Type: layer.Type}
				slotsByType[layer.Type] = slot
				order = append(order, layer.Type)
			}
			slot.Candidates = append(slot.Candidates, layer)
		}
	}
	if len(order) == 0 {
		return nil, nil
	}
	var slots []usecases.LayerSlot
	for _, t := range order {
		slots = append(slots, *slotsByType[t])
	}
	resolver := usecases.NewLayerResolver(slots)
	assignment, unsatisfied := resolver.Resolve()
	var out []string
	for layerType, layer := range assignment {
		out = append(out, fmt.Sprintf("%s: %s", layerType, layer.Name))
	}
	for _, u := range unsatisfied {
		out = append(out, "unsatisfied: "+u.String())
	}
	return out, nil
}
