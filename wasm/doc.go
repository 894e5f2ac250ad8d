// Package wasm decodes and structurally validates WebAssembly 1.0 binary
// modules.
//
// Decoding is a single forward pass over the input. Every section is
// framed, checked against the canonical section order, and decoded into a
// typed Module. The first failure stops the pass and is returned as an
// *errors.Error carrying the module-relative byte offset, a Code and a
// typed Payload.
//
// # Decoding
//
//	data, _ := os.ReadFile("module.wasm")
//	m, err := wasm.Decode(data)
//	if err != nil {
//	    var e *errors.Error
//	    if stderrors.As(err, &e) {
//	        fmt.Println(e.Code, e.Offset, e.Payload)
//	    }
//	}
//
// Proposals beyond 1.0 and parser limits are selected through Options:
//
//	opts := wasm.DefaultOptions()
//	opts.Features.MultiValue = true
//	opts.Limits.Locals = 1 << 20
//	m, err := wasm.DecodeWithOptions(data, opts)
//
// DecodeRange decodes a module embedded in a larger buffer. Offsets in the
// returned error are relative to the start of the range.
//
// # Module Structure
//
//	module.Types      []FuncType    // Function signatures
//	module.Imports    []Import      // Imported definitions
//	module.Funcs      []uint32      // Type indices for functions
//	module.Tables     []TableType   // Table definitions
//	module.Memories   []MemoryType  // Memory definitions
//	module.Globals    []Global      // Global definitions
//	module.Exports    []Export      // Exported definitions
//	module.Start      *uint32       // Start function index
//	module.Elements   []Element     // Element segments
//	module.Code       []FuncBody    // Function bodies
//	module.Data       []DataSegment // Data segments
//
// Function bodies, data payloads, init expressions and custom section
// payloads alias the input buffer. Instruction sequences inside function
// bodies are kept as opaque bytes.
//
// # Encoding
//
// Encode writes a module back to canonical binary form:
//
//	encoded := module.Encode()
//	again, err := wasm.Decode(encoded)
//
// # Logging
//
// Decode emits zap debug entries for each section and for the failure that
// stopped it. SetLogger installs a package logger; Options.Logger overrides
// it for a single call.
package wasm
