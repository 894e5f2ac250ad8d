// Package config loads wasmcheck settings from a TOML file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-binfmt/render"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// Config is the full wasmcheck configuration.
type Config struct {
	Features FeaturesCfg `toml:"features"`
	Limits   LimitsCfg   `toml:"limits"`
	Check    CheckCfg    `toml:"check"`
	Render   RenderCfg   `toml:"render"`
	Log      LogCfg      `toml:"log"`
}

// FeaturesCfg enables proposals beyond WebAssembly 1.0.
type FeaturesCfg struct {
	MultiValue             bool `toml:"multi_value"`
	MultiMemory            bool `toml:"multi_memory"`
	MultiTable             bool `toml:"multi_table"`
	ReferenceTypes         bool `toml:"reference_types"`
	SIMD                   bool `toml:"simd"`
	RejectDuplicateImports bool `toml:"reject_duplicate_imports"`
	UniqueExportNames      bool `toml:"unique_export_names"`
	RequireSections        bool `toml:"require_sections"`
}

// LimitsCfg caps declared counts. Zero disables a limit.
type LimitsCfg struct {
	Codes       uint64 `toml:"codes"`
	Locals      uint64 `toml:"locals"`
	Data        uint64 `toml:"data"`
	ElemFuncIdx uint64 `toml:"elem_funcidx"`
	Elems       uint64 `toml:"elems"`
	Exports     uint64 `toml:"exports"`
	Funcs       uint64 `toml:"funcs"`
	Globals     uint64 `toml:"globals"`
	Imports     uint64 `toml:"imports"`
	Memories    uint64 `toml:"memories"`
	Tables      uint64 `toml:"tables"`
	Types       uint64 `toml:"types"`
}

// CheckCfg configures the check command.
type CheckCfg struct {
	// MaxSize rejects larger files before decoding. Zero means no limit.
	MaxSize    int64 `toml:"max_size"`
	Jobs       int   `toml:"jobs"`
	Crosscheck bool  `toml:"crosscheck"`
}

// RenderCfg configures diagnostic output.
type RenderCfg struct {
	Color    string `toml:"color"`
	Encoding string `toml:"encoding"`
	Prefix   string `toml:"prefix"`
}

// LogCfg configures the zap logger.
type LogCfg struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	l := wasm.DefaultParserLimits()
	return &Config{
		Limits: LimitsCfg{
			Codes:       l.Codes,
			Locals:      l.Locals,
			Data:        l.Data,
			ElemFuncIdx: l.ElemFuncIdx,
			Elems:       l.Elems,
			Exports:     l.Exports,
			Funcs:       l.Funcs,
			Globals:     l.Globals,
			Imports:     l.Imports,
			Memories:    l.Memories,
			Tables:      l.Tables,
			Types:       l.Types,
		},
		Check: CheckCfg{
			MaxSize: 256 << 20,
			Jobs:    runtime.NumCPU(),
		},
		Render: RenderCfg{
			Color:    render.Auto.String(),
			Encoding: render.UTF8.String(),
			Prefix:   "wasmcheck",
		},
		Log: LogCfg{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads a TOML file on top of Default and validates the result.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.NewDecoder(bytes.NewReader(data)).Strict(true).Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs error
	if _, err := render.ParseColorMode(c.Render.Color); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("render.color: %w", err))
	}
	if _, err := render.ParseEncoding(c.Render.Encoding); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("render.encoding: %w", err))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = multierr.Append(errs, fmt.Errorf("log.format: must be console or json, got %q", c.Log.Format))
	}
	if c.Check.Jobs < 1 {
		errs = multierr.Append(errs, fmt.Errorf("check.jobs: must be at least 1, got %d", c.Check.Jobs))
	}
	if c.Check.MaxSize < 0 {
		errs = multierr.Append(errs, fmt.Errorf("check.max_size: must not be negative, got %d", c.Check.MaxSize))
	}
	return errs
}

// DecodeOptions converts the configuration to decoder options.
func (c *Config) DecodeOptions() wasm.Options {
	opts := wasm.DefaultOptions()
	opts.Features = wasm.Features{
		MultiValue:             c.Features.MultiValue,
		MultiMemory:            c.Features.MultiMemory,
		MultiTable:             c.Features.MultiTable,
		ReferenceTypes:         c.Features.ReferenceTypes,
		SIMD:                   c.Features.SIMD,
		RejectDuplicateImports: c.Features.RejectDuplicateImports,
		UniqueExportNames:      c.Features.UniqueExportNames,
	}
	opts.Limits = wasm.ParserLimits(c.Limits)
	opts.RequireSections = c.Features.RequireSections
	return opts
}

// RenderOptions converts the configuration to renderer options. Call
// Validate first; unparseable values fall back to the defaults.
func (c *Config) RenderOptions() render.Options {
	color, _ := render.ParseColorMode(c.Render.Color)
	enc, _ := render.ParseEncoding(c.Render.Encoding)
	return render.Options{
		Prefix:   c.Render.Prefix,
		Color:    color,
		Encoding: enc,
	}
}
