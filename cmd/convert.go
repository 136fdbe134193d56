package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/embedstack/cbuild/internal/adapters/lockwriter"
	"github.com/embedstack/cbuild/internal/core/entities"
	"github.com/embedstack/cbuild/internal/core/usecases"
)

var convertCmd = &cobra.Command{
	Use:     "convert <solution.yml>",
	Aliases: []string{"c"},
	Short:   "Resolve a solution's contexts and emit the *.cbuild-*.yml lock files",
	Long: `convert expands a *.csolution.yml document into contexts, resolves each
context's packs and components, and writes the cbuild-pack.yml,
cbuild-set.yml, and per-context cbuild.yml documents.`,
	GroupID: "resolve",
	Example: `  cbuild convert project.csolution.yml
  cbuild convert -c Proj.Debug+CortexM4 project.csolution.yml
  cbuild convert --dry-run --verbose project.csolution.yml`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	solutionPath := args[0]
	resolver, err := newResolver(cmd)
	if err != nil {
		return err
	}
	if resolver.PackRoot() == "" {
		return &exitError{code: exitVariableNotDefined, err: fmt.Errorf("CMSIS_PACK_ROOT is not defined")}
	}

	ctx := cmd.Context()
	pl, err := loadPipeline(ctx, resolver, solutionPath)
	if err != nil {
		return err
	}

	if len(pl.selected) == 0 {
		pl.diag.Error("M001", "no context matched the requested selection", nil, solutionPath, 0, 0)
		return finish(pl.diag, pl.formatter)
	}

	if !dryRun {
		outDir := effectiveOutput()
		if outDir == "" {
			outDir = solutionDir(solutionPath)
		}
		if err := writeLockFiles(pl, outDir, toolchainName); err != nil {
			return err
		}
	}

	return finish(pl.diag, pl.formatter)
}

// writeLockFiles emits cbuild-pack.yml, cbuild-set.yml, and one cbuild.yml
// per selected context.
func writeLockFiles(pl *pipeline, outDir, compiler string) error {
	w := lockwriter.New()
	base := solutionBaseName(pl.solution.Path)

	if frozenPacks {
		if err := checkFrozenPacks(pl, outDir, base); err != nil {
			return err
		}
	}

	var allPacks []entities.ResolvedPack
	seen := make(map[string]bool)
	for _, c := range pl.selected {
		for _, p := range c.Packs {
			if !seen[p.ID.String()] {
				seen[p.ID.String()] = true
				allPacks = append(allPacks, p)
			}
		}
		if err := w.WriteContextBuild(filepath.Join(outDir, c.ID.String()+".cbuild.yml"), c); err != nil {
			return fmt.Errorf("write %s.cbuild.yml: %w", c.ID.String(), err)
		}
	}
	if err := w.WritePackLock(filepath.Join(outDir, base+".cbuild-pack.yml"), allPacks); err != nil {
		return fmt.Errorf("write cbuild-pack.yml: %w", err)
	}
	if err := w.WriteContextSet(filepath.Join(outDir, base+".cbuild-set.yml"), pl.selected, compiler); err != nil {
		return fmt.Errorf("write cbuild-set.yml: %w", err)
	}
	return nil
}

// checkFrozenPacks compares the freshly resolved pack set against a
// previously written cbuild-pack.yml, failing the command on drift
// (--frozen-packs).
func checkFrozenPacks(pl *pipeline, outDir, base string) error {
	lockPath := filepath.Join(outDir, base+".cbuild-pack.yml")
	locked, found, err := lockwriter.NewReader().ReadPackLock(context.Background(), lockPath)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	var fresh []entities.ResolvedPack
	seen := make(map[string]bool)
	for _, c := range pl.selected {
		for _, p := range c.Packs {
			if !seen[p.ID.String()] {
				seen[p.ID.String()] = true
				fresh = append(fresh, p)
			}
		}
	}
	drift := usecases.CheckFrozen(fresh, locked)
	if len(drift) > 0 {
		for _, d := range drift {
			pl.diag.Error("M010", d.Message, map[string]string{"pack": d.Pack.String()}, lockPath, 0, 0)
		}
		return fmt.Errorf("--frozen-packs: %d pack(s) drifted from %s", len(drift), lockPath)
	}
	return nil
}
