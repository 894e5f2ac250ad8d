package engine

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-binfmt/wasm"
)

func moduleWithBody(code []byte) []byte {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0},
		Code:  []wasm.FuncBody{{Code: code}},
	}
	return m.Encode()
}

func TestCoreFeatures(t *testing.T) {
	tests := []struct {
		name     string
		features wasm.Features
		want     api.CoreFeatures
	}{
		{"1.0", wasm.Features{}, api.CoreFeaturesV1},
		{"multi-value", wasm.Features{MultiValue: true}, api.CoreFeaturesV1 | api.CoreFeatureMultiValue},
		{"simd", wasm.Features{SIMD: true, MultiMemory: true}, api.CoreFeaturesV1 | api.CoreFeatureSIMD},
		{
			"reference types",
			wasm.Features{ReferenceTypes: true},
			api.CoreFeaturesV1 | api.CoreFeatureReferenceTypes | api.CoreFeatureBulkMemoryOperations,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoreFeatures(tc.features); got != tc.want {
				t.Errorf("CoreFeatures = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReferenceCompare(t *testing.T) {
	ctx := context.Background()
	ref := NewReference(ctx, Config{})
	defer ref.Close(ctx)

	tests := []struct {
		name     string
		data     []byte
		agree    bool
		bodyOnly bool
	}{
		{"valid module", moduleWithBody([]byte{wasm.OpEnd}), true, false},
		{"empty module", (&wasm.Module{}).Encode(), true, false},
		{"bad header", []byte{0x00, 0x61, 0x73, 0x6D, 0x02, 0x00, 0x00, 0x00}, true, false},
		// i32.const without immediate or end: structurally fine, invalid body.
		{"invalid body", moduleWithBody([]byte{0x41}), false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, decodeErr := wasm.Decode(tc.data)
			v := ref.Compare(ctx, tc.data, decodeErr)
			if v.Agree() != tc.agree {
				t.Errorf("Agree = %v, want %v (decoder: %v, reference: %v)", v.Agree(), tc.agree, v.Decoder, v.Reference)
			}
			if v.BodyOnly() != tc.bodyOnly {
				t.Errorf("BodyOnly = %v, want %v", v.BodyOnly(), tc.bodyOnly)
			}
		})
	}
}

func TestVerdictDecoderOnlyRejection(t *testing.T) {
	v := Verdict{Decoder: context.Canceled}
	if v.Agree() || v.BodyOnly() {
		t.Errorf("decoder-only rejection: Agree=%v BodyOnly=%v", v.Agree(), v.BodyOnly())
	}
}
