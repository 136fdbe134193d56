// Package settings implements the layered configuration collaborator:
// CLI flags override CMSIS_PACK_ROOT/CMSIS_COMPILER_ROOT/CBUILD_* env vars,
// which override the global XDG settings file, which overrides built-in
// defaults. The project-local cdefault.yml is not part of this chain.
package settings

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/embedstack/cbuild/internal/adapters/xdgpaths"
	"github.com/embedstack/cbuild/internal/core/usecases"
)

// Resolver exposes thin read-only accessors over a merged Viper instance.
type Resolver struct {
	v *viper.Viper
}

// Option mutates a Resolver's backing Viper instance before the layers are
// read, used to bind CLI flags ahead of the env/file/default layers.
type Option func(v *viper.Viper)

// WithFlag binds a single CLI flag at the given key, giving it the highest
// precedence (matching build_cobra.go's viper.BindPFlag usage).
func WithFlag(key string, value string) Option {
	return func(v *viper.Viper) {
		if value != "" {
			v.Set(key, value)
		}
	}
}

// New builds a Resolver from the configuration hierarchy this package owns:
//
//  1. built-in defaults
//  2. the global XDG settings file (~/.config/cbuild/settings.toml)
//  3. CMSIS_PACK_ROOT / CMSIS_COMPILER_ROOT / CBUILD_* environment variables
//  4. opts (CLI flags), applied last so they win
//
// The project-local cdefault.yml layer is a YAML compiler-attribute
// document, not a settings.toml-shaped file; it is
// decoded by the yamlloader/usecases.CdefaultLoader path and folded into
// the solution's build-type attributes by usecases.MergeCdefault, not by
// this Resolver.
func New(opts ...Option) (*Resolver, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetDefault("pack_root", "")
	v.SetDefault("compiler_root", "")
	v.SetDefault("load_policy", "default")
	v.SetDefault("diag_suppress", []string{})
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.backoff_ms", 50)

	if err := mergeGlobalSettings(v); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("CBUILD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnvAliases(v)

	for _, opt := range opts {
		opt(v)
	}

	return &Resolver{v: v}, nil
}

// bindLegacyEnvAliases wires CMSIS_PACK_ROOT and CMSIS_COMPILER_ROOT
// alongside the CBUILD_* prefix convention used for everything else.
func bindLegacyEnvAliases(v *viper.Viper) {
	_ = v.BindEnv("pack_root", "CMSIS_PACK_ROOT")
	_ = v.BindEnv("compiler_root", "CMSIS_COMPILER_ROOT")
}

// mergeGlobalSettings reads the XDG-resolved global settings.toml with
// go-toml/v2 and merges it into v, silently skipping a missing file.
func mergeGlobalSettings(v *viper.Viper) error {
	paths := xdgpaths.NewResolver()
	data, err := os.ReadFile(paths.SettingsFile())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return err
	}
	return v.MergeConfigMap(doc)
}

// PackRoot returns the effective CMSIS_PACK_ROOT.
func (r *Resolver) PackRoot() string { return r.v.GetString("pack_root") }

// CompilerRoot returns the effective CMSIS_COMPILER_ROOT.
func (r *Resolver) CompilerRoot() string { return r.v.GetString("compiler_root") }

// LoadPolicy returns the effective pack-load policy.
func (r *Resolver) LoadPolicy() usecases.LoadPolicy {
	return usecases.ParseLoadPolicy(r.v.GetString("load_policy"))
}

// DiagSuppress returns the effective --diag-suppress code list.
func (r *Resolver) DiagSuppress() []string {
	return r.v.GetStringSlice("diag_suppress")
}

// RetryAttempts returns the fsutil retry-on-transient-failure count.
func (r *Resolver) RetryAttempts() int { return r.v.GetInt("retry.attempts") }

// RetryBackoffMillis returns the fsutil retry backoff, in milliseconds.
func (r *Resolver) RetryBackoffMillis() int { return r.v.GetInt("retry.backoff_ms") }
