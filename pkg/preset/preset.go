// Package preset ships named rule sets embedded in the binary.
package preset

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// ErrUnknownPreset is returned when a name does not match an embedded preset
var ErrUnknownPreset = errors.Base("unknown preset")

// Info describes an embedded preset
type Info struct {
	Name        string
	Description string
	Rules       int
	Files       int
}

// Names returns the embedded preset names, sorted
func Names() []string {
	entries, err := fs.ReadDir(presetFS, "presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// List describes every embedded preset, sorted by name
func List(ctx context.Context) []Info {
	var out []Info
	for _, name := range Names() {
		cfg, err := Load(ctx, name)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("preset", name).Msg("skipping broken preset")
			continue
		}
		out = append(out, Info{
			Name:        name,
			Description: cfg.Description,
			Rules:       len(cfg.Rules),
			Files:       len(cfg.Files) + len(cfg.Globs),
		})
	}
	return out
}

// Load parses one embedded preset. Rule names are prefixed with the preset name.
func Load(ctx context.Context, name string) (*config.Config, error) {
	data, err := presetFS.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return nil, errors.Errorf("%w %q (available: %s)", ErrUnknownPreset, name, strings.Join(Names(), ", "))
	}

	cfg, err := config.Parse(ctx, name+".yaml", data)
	if err != nil {
		return nil, errors.Errorf("preset %s: %w", name, err)
	}
	if len(cfg.Presets) > 0 {
		return nil, errors.Errorf("preset %s: presets cannot include other presets", name)
	}

	for i := range cfg.Rules {
		if cfg.Rules[i].Name == "" {
			cfg.Rules[i].Name = fmt.Sprintf("%d", i)
		}
		cfg.Rules[i].Name = name + "/" + cfg.Rules[i].Name
	}

	return cfg, nil
}

// Resolve expands the presets named by cfg and extra into one config.
// Preset rules come first, in the order the presets are listed, followed by
// the config's own rules. A nil cfg means there is no config file.
//
// Targets and base dir fall back to the presets' own when the config has none;
// a preset base_dir is relative to the working directory. Preset targets are
// merged, so each preset's rules are then scoped to that preset's own targets.
func Resolve(ctx context.Context, cfg *config.Config, extra ...string) (*config.Config, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}

	out := *cfg
	out.Presets = nil
	out.Rules = nil
	out.Files = append([]string(nil), cfg.Files...)
	out.Globs = append([]string(nil), cfg.Globs...)

	seen := map[string]bool{}
	names := make([]string, 0, len(cfg.Presets)+len(extra))
	for _, name := range append(append([]string(nil), cfg.Presets...), extra...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	useTargets := len(cfg.Files) == 0 && len(cfg.Globs) == 0
	for _, name := range names {
		p, err := Load(ctx, name)
		if err != nil {
			return nil, err
		}
		zerolog.Ctx(ctx).Debug().Str("preset", name).Int("rules", len(p.Rules)).Msg("expanding preset")

		rules := p.Rules
		if useTargets {
			out.Files = appendMissing(out.Files, p.Files...)
			out.Globs = appendMissing(out.Globs, p.Globs...)
			rules = scopeRules(rules, append(append([]string(nil), p.Files...), p.Globs...))
		}
		out.Rules = append(out.Rules, rules...)
		out.Presets = append(out.Presets, name)
		if out.BaseDir == "" && p.BaseDir != "" {
			abs, err := filepath.Abs(p.BaseDir)
			if err != nil {
				return nil, errors.Errorf("preset %s: resolving base_dir: %w", name, err)
			}
			out.BaseDir = abs
		}
	}
	out.Rules = append(out.Rules, cfg.Rules...)

	if len(out.Rules) == 0 {
		return nil, errors.Errorf("no rules configured")
	}

	return &out, nil
}

// scopeRules restricts rules without a Files filter to targets
func scopeRules(rules []config.Rule, targets []string) []config.Rule {
	if len(targets) == 0 {
		return rules
	}
	out := make([]config.Rule, len(rules))
	for i, r := range rules {
		if len(r.Files) == 0 {
			r.Files = targets
		}
		out[i] = r
	}
	return out
}

func appendMissing(dst []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, d := range dst {
			if d == item {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, item)
		}
	}
	return dst
}
