// Package engine compiles modules with wazero as a reference validator.
//
// The decoder in package wasm checks module structure only. A reference
// compile additionally validates function bodies, so the two verdicts can
// legitimately differ in one direction: wasm accepts and wazero rejects.
//
//	ref := engine.NewReference(ctx, engine.Config{Features: opts.Features})
//	defer ref.Close(ctx)
//
//	_, decodeErr := wasm.DecodeWithOptions(data, opts)
//	v := ref.Compare(ctx, data, decodeErr)
//	if !v.Agree() {
//	    // report v.Decoder and v.Reference
//	}
package engine
