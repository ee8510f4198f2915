// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(filename)), ".hcl")
}

// 📝 Parse parses the config from HCL. Rules are labelled blocks:
//
//	rule "card-bg" {
//	  pattern = "bg-white"
//	  replace = "bg-white dark:bg-gray-800"
//	}
//
// HCL treats ${ as interpolation, so replacement templates that use
// ${name} must write $${name}.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		Description string   `hcl:"description,optional"`
		BaseDir     string   `hcl:"base_dir,optional"`
		Files       []string `hcl:"files,optional"`
		Globs       []string `hcl:"globs,optional"`
		Presets     []string `hcl:"presets,optional"`
		Rules       []struct {
			Name    string   `hcl:"name,label"`
			Pattern string   `hcl:"pattern"`
			Replace string   `hcl:"replace"`
			Literal bool     `hcl:"literal,optional"`
			Files   []string `hcl:"files,optional"`
		} `hcl:"rule,block"`
		Options *struct {
			MaxPasses    int    `hcl:"max_passes,optional"`
			KeepGoing    bool   `hcl:"keep_going,optional"`
			AtomicWrite  bool   `hcl:"atomic_write,optional"`
			MatchTimeout string `hcl:"match_timeout,optional"`
		} `hcl:"options,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Description: hclCfg.Description,
		BaseDir:     hclCfg.BaseDir,
		Files:       hclCfg.Files,
		Globs:       hclCfg.Globs,
		Presets:     hclCfg.Presets,
	}

	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, Rule{
			Name:    r.Name,
			Pattern: r.Pattern,
			Replace: r.Replace,
			Literal: r.Literal,
			Files:   r.Files,
		})
	}

	if hclCfg.Options != nil {
		cfg.Options = Options{
			MaxPasses:    hclCfg.Options.MaxPasses,
			KeepGoing:    hclCfg.Options.KeepGoing,
			AtomicWrite:  hclCfg.Options.AtomicWrite,
			MatchTimeout: hclCfg.Options.MatchTimeout,
		}
	}

	return cfg, nil
}
