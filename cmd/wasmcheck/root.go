package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-binfmt/config"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// globalFlags are the persistent flags shared by every subcommand. Set
// flags override the config file.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	color      string
	encoding   string

	multiValue             bool
	multiMemory            bool
	multiTable             bool
	referenceTypes         bool
	simd                   bool
	rejectDuplicateImports bool
	uniqueExportNames      bool
	requireSections        bool
}

func (f *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "TOML configuration file")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", "", "log format (console, json)")
	fs.StringVar(&f.color, "color", "", "diagnostic colour (auto, ansi, legacy, plain)")
	fs.StringVar(&f.encoding, "encoding", "", "diagnostic encoding (utf-8, utf-16le, utf-16be, utf-32le, utf-32be)")

	fs.BoolVar(&f.multiValue, "multi-value", false, "allow multiple function results")
	fs.BoolVar(&f.multiMemory, "multi-memory", false, "allow more than one memory")
	fs.BoolVar(&f.multiTable, "multi-table", false, "allow more than one table")
	fs.BoolVar(&f.referenceTypes, "reference-types", false, "enable reference types")
	fs.BoolVar(&f.simd, "simd", false, "enable the v128 value type")
	fs.BoolVar(&f.rejectDuplicateImports, "reject-duplicate-imports", false, "fail on a repeated import name")
	fs.BoolVar(&f.uniqueExportNames, "unique-export-names", false, "fail on an export name reused by another kind")
	fs.BoolVar(&f.requireSections, "require-sections", false, "fail on a module without sections")
}

// apply copies every flag set on the command line into cfg.
func (f *globalFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	strs := map[string]struct {
		dst *string
		val string
	}{
		"log-level":  {&cfg.Log.Level, f.logLevel},
		"log-format": {&cfg.Log.Format, f.logFormat},
		"color":      {&cfg.Render.Color, f.color},
		"encoding":   {&cfg.Render.Encoding, f.encoding},
	}
	for name, s := range strs {
		if fs.Changed(name) {
			*s.dst = s.val
		}
	}

	bools := map[string]struct {
		dst *bool
		val bool
	}{
		"multi-value":              {&cfg.Features.MultiValue, f.multiValue},
		"multi-memory":             {&cfg.Features.MultiMemory, f.multiMemory},
		"multi-table":              {&cfg.Features.MultiTable, f.multiTable},
		"reference-types":          {&cfg.Features.ReferenceTypes, f.referenceTypes},
		"simd":                     {&cfg.Features.SIMD, f.simd},
		"reject-duplicate-imports": {&cfg.Features.RejectDuplicateImports, f.rejectDuplicateImports},
		"unique-export-names":      {&cfg.Features.UniqueExportNames, f.uniqueExportNames},
		"require-sections":         {&cfg.Features.RequireSections, f.requireSections},
	}
	for name, b := range bools {
		if fs.Changed(name) {
			*b.dst = b.val
		}
	}
}

// app carries the state shared by subcommands once the root has parsed
// flags and loaded configuration.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func newRootCommand() *cobra.Command {
	var flags globalFlags
	a := &app{}

	cmd := &cobra.Command{
		Use:           "wasmcheck",
		Short:         "Decode and validate WebAssembly binary modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, &flags)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	flags.register(cmd.PersistentFlags())

	cmd.AddCommand(
		newCheckCommand(a),
		newInspectCommand(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, flags *globalFlags) error {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	flags.apply(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	a.cfg = cfg
	a.stdout = cmd.OutOrStdout()
	a.stderr = cmd.ErrOrStderr()

	log, err := newLogger(cfg.Log, a.stderr)
	if err != nil {
		return err
	}
	a.log = log
	wasm.SetLogger(log)
	return nil
}

// newLogger builds a zap logger writing to w. The json format uses the
// production encoder, console the development one.
func newLogger(cfg config.LogCfg, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		enc = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return zap.New(core).Named("wasmcheck"), nil
}
