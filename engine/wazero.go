package engine

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-binfmt/wasm"
)

// Reference compiles modules with a wazero interpreter runtime. It is safe
// for concurrent use.
type Reference struct {
	runtime wazero.Runtime
	log     *zap.Logger
}

// Config holds configuration for the reference runtime.
type Config struct {
	// Logger receives one debug entry per compile. Nil disables logging.
	Logger *zap.Logger

	// Features selects the wazero core features matching the decoder's.
	// MultiMemory, MultiTable and RejectDuplicateImports have no wazero
	// counterpart and are ignored.
	Features wasm.Features
}

// CoreFeatures maps decoder features onto wazero core features.
func CoreFeatures(f wasm.Features) api.CoreFeatures {
	features := api.CoreFeaturesV1
	if f.MultiValue {
		features |= api.CoreFeatureMultiValue
	}
	if f.ReferenceTypes {
		features |= api.CoreFeatureReferenceTypes | api.CoreFeatureBulkMemoryOperations
	}
	if f.SIMD {
		features |= api.CoreFeatureSIMD
	}
	return features
}

// NewReference creates a reference runtime.
func NewReference(ctx context.Context, cfg Config) *Reference {
	runtimeCfg := wazero.NewRuntimeConfigInterpreter().
		WithCoreFeatures(CoreFeatures(cfg.Features))

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Reference{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		log:     log,
	}
}

// Compile validates data by compiling it and releasing the result.
func (r *Reference) Compile(ctx context.Context, data []byte) error {
	compiled, err := r.runtime.CompileModule(ctx, data)
	if err != nil {
		r.log.Debug("reference compile failed", zap.Error(err))
		return fmt.Errorf("compile failed: %w", err)
	}
	r.log.Debug("reference compile succeeded", zap.Int("size", len(data)))
	return compiled.Close(ctx)
}

// Verdict pairs the decoder's result with the reference compile's.
type Verdict struct {
	Decoder   error
	Reference error
}

// Agree reports whether both sides accepted or both rejected.
func (v Verdict) Agree() bool {
	return (v.Decoder == nil) == (v.Reference == nil)
}

// BodyOnly reports a disagreement the decoder cannot detect: the structure
// is valid but a function body is not.
func (v Verdict) BodyOnly() bool {
	return v.Decoder == nil && v.Reference != nil
}

// Compare compiles data and pairs the outcome with decodeErr.
func (r *Reference) Compare(ctx context.Context, data []byte, decodeErr error) Verdict {
	return Verdict{Decoder: decodeErr, Reference: r.Compile(ctx, data)}
}

// Close releases the runtime.
func (r *Reference) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}
