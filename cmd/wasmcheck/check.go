package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/wasm-binfmt/engine"
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/render"
	"github.com/wippyai/wasm-binfmt/wasm"
)

type checkFlags struct {
	jobs       int
	maxSize    int64
	crosscheck bool
}

func newCheckCommand(a *app) *cobra.Command {
	var flags checkFlags

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Decode and validate modules",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if fs.Changed("jobs") {
				a.cfg.Check.Jobs = flags.jobs
			}
			if fs.Changed("max-size") {
				a.cfg.Check.MaxSize = flags.maxSize
			}
			if fs.Changed("crosscheck") {
				a.cfg.Check.Crosscheck = flags.crosscheck
			}
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid settings: %w", err)
			}
			return a.runCheck(cmd.Context(), args)
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&flags.jobs, "jobs", "j", 0, "files decoded in parallel (default: number of CPUs)")
	fs.Int64Var(&flags.maxSize, "max-size", 0, "reject files larger than this many bytes (0: no limit)")
	fs.BoolVar(&flags.crosscheck, "crosscheck", false, "also compile with wazero and report verdict disagreements")
	return cmd
}

// fileResult is the outcome of checking one file.
type fileResult struct {
	err     error
	verdict *engine.Verdict
	module  *wasm.Module
	path    string
}

func (a *app) runCheck(ctx context.Context, paths []string) error {
	var ref *engine.Reference
	if a.cfg.Check.Crosscheck {
		features := a.cfg.DecodeOptions().Features
		ref = engine.NewReference(ctx, engine.Config{Features: features, Logger: a.log.Named("reference")})
		defer ref.Close(ctx)
	}

	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Check.Jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.checkFile(gctx, path, ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var errs error
	for _, r := range results {
		if err := a.report(r); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return &checkFailure{errs: errs, total: len(paths)}
	}
	return nil
}

// checkFailure summarizes the failed files. Each failure has already been
// printed, so Error only counts them.
type checkFailure struct {
	errs  error
	total int
}

func (e *checkFailure) Error() string {
	return fmt.Sprintf("%d of %d files failed", len(multierr.Errors(e.errs)), e.total)
}

func (e *checkFailure) Unwrap() []error {
	return multierr.Errors(e.errs)
}

func (a *app) checkFile(ctx context.Context, path string, ref *engine.Reference) fileResult {
	r := fileResult{path: path}

	info, err := os.Stat(path)
	if err != nil {
		r.err = err
		return r
	}
	if limit := a.cfg.Check.MaxSize; limit > 0 && info.Size() > limit {
		r.err = fmt.Errorf("file size %d exceeds the limit of %d bytes", info.Size(), limit)
		return r
	}
	data, err := os.ReadFile(path)
	if err != nil {
		r.err = err
		return r
	}

	r.module, r.err = wasm.DecodeWithOptions(data, a.decodeOptions(path))
	if ref != nil {
		v := ref.Compare(ctx, data, r.err)
		r.verdict = &v
	}
	return r
}

func (a *app) fileLogger(path string) *zap.Logger {
	return a.log.With(zap.String("file", path))
}

// decodeOptions returns the configured decoder options logging under path.
func (a *app) decodeOptions(path string) wasm.Options {
	opts := a.cfg.DecodeOptions()
	opts.Logger = a.fileLogger(path)
	return opts
}

// report prints one result and returns the error that failed it, if any.
func (a *app) report(r fileResult) error {
	log := a.fileLogger(r.path)

	if r.verdict != nil && !r.verdict.Agree() {
		if r.verdict.BodyOnly() {
			log.Warn("reference engine rejects a function body", zap.Error(r.verdict.Reference))
		} else {
			log.Warn("reference engine accepts a module the decoder rejects", zap.Error(r.verdict.Decoder))
		}
	}

	if r.err == nil {
		if len(r.module.Sections) == 0 {
			log.Warn("module has no sections")
		}
		fmt.Fprintf(a.stdout, "ok %s\n", r.path)
		return nil
	}

	var decodeErr *errors.Error
	if stderrors.As(r.err, &decodeErr) {
		opts := a.cfg.RenderOptions()
		opts.Prefix = filePrefix(opts.Prefix, r.path)
		if err := render.New(opts).Render(a.stderr, decodeErr); err != nil {
			return fmt.Errorf("%s: %w", r.path, err)
		}
	} else {
		fmt.Fprintf(a.stderr, "%s: %v\n", filePrefix(a.cfg.Render.Prefix, r.path), r.err)
	}
	return fmt.Errorf("%s: %w", r.path, r.err)
}

func filePrefix(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return prefix + ": " + path
}
