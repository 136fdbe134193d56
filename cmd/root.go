// Package cmd implements the cbuild CLI commands using Cobra, wiring the
// adapters in internal/adapters and the resolvers in internal/core/usecases
//.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/embedstack/cbuild/internal/adapters/diagnostics"
	"github.com/embedstack/cbuild/internal/adapters/settings"
)

// Build-time version information, set via SetVersionInfo from main.go.
var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// Persistent flag values shared across subcommands, mirroring 
// CLI surface.
var (
	contextFilters []string // -c/--context (repeatable)
	contextSetFile string   // -S/--context-set
	activeTarget   string   // -a/--active
	toolchainName  string   // -t/--toolchain
	loadPolicyFlag string   // -l/--load
	clayerPaths    []string // -L/--clayer-path
	outputFlag     string   // -o/--output
	outdirFlag     string   // -O/--outdir (alias)
	exportFormat   string   // -e/--export
	filterExpr     string   // -f/--filter
	generatorID    string   // -g/--generator
	noCheckSchema  bool     // -n/--no-check-schema
	noUpdateRte    bool     // -N/--no-update-rte
	relativePaths  bool     // -R/--relative-paths
	frozenPacks    bool     // --frozen-packs
	quiet          bool     // -q/--quiet
	verbose        bool     // -v/--verbose
	debugFlag      bool     // -d/--debug
	dryRun         bool     // -D/--dry-run
	missingOnly    bool     // -m/--missing
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cbuild",
	Short: "Solution and context resolver for CMSIS-Pack based projects",
	Long: `cbuild resolves a *.csolution.yml document tree into build contexts:
it expands projects x build-types x target-types, resolves the pack and
component selections each context requires, solves layer connections, and
checks the referenced device's SVD description.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&contextFilters, "context", "c", nil, "context filter, repeatable (env: none)")
	rootCmd.PersistentFlags().StringVarP(&contextSetFile, "context-set", "S", "", "restrict to the contexts named in a *.cbuild-set.yml")
	rootCmd.PersistentFlags().StringVarP(&activeTarget, "active", "a", "", "active target-type, optionally '@<target-set>'")
	rootCmd.PersistentFlags().StringVarP(&toolchainName, "toolchain", "t", "", "active toolchain name")
	rootCmd.PersistentFlags().StringVarP(&loadPolicyFlag, "load", "l", "", "pack load policy: latest|all|required")
	rootCmd.PersistentFlags().StringArrayVarP(&clayerPaths, "clayer-path", "L", nil, "additional layer search path, repeatable")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "output directory")
	rootCmd.PersistentFlags().StringVarP(&outdirFlag, "outdir", "O", "", "output directory (alias for --output)")
	rootCmd.PersistentFlags().StringVarP(&exportFormat, "export", "e", "", "export format for list output: json")
	rootCmd.PersistentFlags().StringVarP(&filterExpr, "filter", "f", "", "glob filter (*, ?) applied to list output")
	rootCmd.PersistentFlags().StringVarP(&generatorID, "generator", "g", "", "restrict generator handling to one generator id")
	rootCmd.PersistentFlags().BoolVarP(&noCheckSchema, "no-check-schema", "n", false, "skip JSON-Schema structural validation")
	rootCmd.PersistentFlags().BoolVarP(&noUpdateRte, "no-update-rte", "N", false, "skip RTE_Components.h / generator re-invocation")
	rootCmd.PersistentFlags().BoolVarP(&relativePaths, "relative-paths", "R", false, "emit paths relative to the output directory")
	rootCmd.PersistentFlags().BoolVar(&frozenPacks, "frozen-packs", false, "fail if resolution would change a previously locked pack set")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print only errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also print info-level diagnostics")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "prefix diagnostics with their code")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "D", false, "resolve and report without writing output files")
	rootCmd.PersistentFlags().BoolVarP(&missingOnly, "missing", "m", false, "list subjects: show only unresolved/missing entries")
	rootCmd.PersistentFlags().String("pack-root", "", "override CMSIS_PACK_ROOT")
	rootCmd.PersistentFlags().String("compiler-root", "", "override CMSIS_COMPILER_ROOT")

	rootCmd.AddGroup(
		&cobra.Group{ID: "resolve", Title: "Resolving"},
		&cobra.Group{ID: "query", Title: "Querying"},
	)
}

// Execute runs the root command. This is the main entry point called from
// main.go. Its return value is an exit code, derived from the resolver's
// diagnostic counters.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ee, ok := err.(*exitError); ok {
			return ee.code
		}
		return 2
	}
	return exitCodeFromLastRun
}

// SetVersionInfo sets build-time version information from ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("cbuild %s (commit: %s, built: %s)\n", version, commit, date))
}

// exitCodeFromLastRun lets a RunE handler report a non-zero, non-exception
// exit code (e.g. "2 errors found") without returning a Go error: the exit
// code is derived from the diagnostic counters and the command's success
// flag.
var exitCodeFromLastRun int

// exitError wraps an error with an explicit process exit code, used for
// the two reserved codes beyond 0/1/2 ("variable not defined",
// "compiler not defined").
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

const (
	exitOK                 = 0
	exitGenericError       = 1
	exitUnhandledException = 2
	exitVariableNotDefined = 3
	exitCompilerNotDefined = 4
)

// newResolver builds the settings.Resolver for this invocation, binding the
// CLI's pack-root/compiler-root/load-policy flags ahead of the env/file/
// default layers.
func newResolver(cmd *cobra.Command) (*settings.Resolver, error) {
	var opts []settings.Option
	if v, _ := cmd.Flags().GetString("pack-root"); v != "" {
		opts = append(opts, settings.WithFlag("pack_root", v))
	}
	if v, _ := cmd.Flags().GetString("compiler-root"); v != "" {
		opts = append(opts, settings.WithFlag("compiler_root", v))
	}
	if loadPolicyFlag != "" {
		opts = append(opts, settings.WithFlag("load_policy", loadPolicyFlag))
	}
	return settings.New(opts...)
}

// newDiagnostics builds the diagnostic Context and console formatter for
// this invocation, wired to quiet/verbose/debug.
func newDiagnostics() (*diagnostics.Context, *diagnostics.ConsoleFormatter) {
	diag := diagnostics.New()
	formatter := diagnostics.NewConsoleFormatter(os.Stdout, os.Stderr).
		WithQuiet(quiet).WithVerbose(verbose).WithDebug(debugFlag)
	return diag, formatter
}

// finish prints the diagnostic summary and derives the process exit code
// from the counters.
func finish(diag *diagnostics.Context, formatter *diagnostics.ConsoleFormatter) error {
	formatter.Print(diag.SortedByFile())
	counts := diag.Counts()
	formatter.PrintSummary(counts)
	if counts.HasErrors() {
		exitCodeFromLastRun = exitGenericError
		return nil
	}
	exitCodeFromLastRun = exitOK
	return nil
}

// effectiveOutput resolves the -o/--output and -O/--outdir dual flag
// surface into a single directory path, -o taking precedence when both
// are given.
func effectiveOutput() string {
	if outputFlag != "" {
		return outputFlag
	}
	return outdirFlag
}
