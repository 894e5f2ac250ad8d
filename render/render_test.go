package render

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/wippyai/wasm-binfmt/errors"
)

var typeMismatch = errors.CountMismatch(errors.CodeTypeSectionResolvedNotMatch, 14, 2, 1)

const typeMismatchLine = `wasmcheck: [error] (offset=14) The number of types resolved "1" does not match the actual number "2".` + "\n"

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestEveryCodeHasMessage(t *testing.T) {
	for _, c := range errors.Codes() {
		_, ok := messages[c]
		assert.Check(t, ok, "no message for %s", c)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  *errors.Error
		want string
	}{
		{typeMismatch, `The number of types resolved "1" does not match the actual number "2".`},
		{errors.WithByte(errors.CodeDuplicateSection, 11, 2), `Duplicate or out-of-order section "import".`},
		{errors.WithByte(errors.CodeIllegalValueType, 13, 0xFF), `Illegal value type "0xff".`},
		{errors.At(errors.CodeImportModuleNameLengthCannotBeZero, 11), "Import module name length cannot be zero."},
		{errors.At(errors.CodeGlobalInitTerminatorNotFound, 20), "Global initializer is missing its end opcode."},
		{
			errors.New(errors.CodeForwardDependencyMissing).At(8).Payload(errors.Sections{Missing: 1, Required: 3}).Build(),
			`Section "function" requires section "type" to appear before it.`,
		},
		{
			errors.New(errors.CodeDuplicateImports).At(10).Payload(errors.Duplicate{Module: "env", Name: "f", Kind: 0}).Build(),
			`Duplicate func import "env.f".`,
		},
		{
			errors.New(errors.CodeLimitTypeMaxLtMin).At(12).Payload(errors.MinMax{Min: 4, Max: 2}).Build(),
			`Limits maximum "2" is less than minimum "4".`,
		},
		{
			errors.New(errors.CodeExceedParserLimit).At(9).Payload(errors.Limit{Name: "locals", Value: 70000, Max: 65536}).Build(),
			`The locals count "70000" exceeds the parser limit "65536".`,
		},
		{
			errors.New(errors.CodeIllegalBeginPointer).Payload(errors.Range{Begin: 10, End: 4}).Build(),
			`Begin pointer "10" > end pointer "4".`,
		},
		{&errors.Error{Code: errors.Code(9999), Payload: errors.None{}}, "Unknown error."},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code.String(), func(t *testing.T) {
			assert.Equal(t, Message(tt.err), tt.want)
		})
	}
}

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	r := New(Options{Prefix: "wasmcheck", Color: Plain})
	assert.NilError(t, r.Render(&buf, typeMismatch))
	assert.Equal(t, buf.String(), typeMismatchLine)
}

func TestRenderNoPrefix(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, New(Options{Color: Plain}).Render(&buf, errors.At(errors.CodeIllegalWasmFileFormat, 0)))
	assert.Equal(t, buf.String(), "[error] (offset=0) Illegal WebAssembly file format.\n")
}

func TestRenderAutoOnBufferIsPlain(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, New(DefaultOptions()).Render(&buf, typeMismatch))
	assert.Equal(t, buf.String(), typeMismatchLine)
}

func TestRenderLegacyWithoutConsoleIsPlain(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, New(Options{Prefix: "wasmcheck", Color: LegacyConsole}).Render(&buf, typeMismatch))
	assert.Equal(t, buf.String(), typeMismatchLine)
}

func TestRenderANSI(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, New(Options{Prefix: "wasmcheck", Color: ANSI}).Render(&buf, typeMismatch))

	out := buf.String()
	assert.Check(t, is.Contains(out, "\x1b["))
	assert.Equal(t, ansiEscape.ReplaceAllString(out, ""), typeMismatchLine)
}

func TestRenderEncodings(t *testing.T) {
	widen := func(s string, width int, bigEndian bool) []byte {
		var out []byte
		for i := 0; i < len(s); i++ {
			unit := make([]byte, width)
			if bigEndian {
				unit[width-1] = s[i]
			} else {
				unit[0] = s[i]
			}
			out = append(out, unit...)
		}
		return out
	}

	tests := []struct {
		name string
		enc  Encoding
		want []byte
	}{
		{"utf-8", UTF8, []byte(typeMismatchLine)},
		{"utf-16le", UTF16LE, widen(typeMismatchLine, 2, false)},
		{"utf-16be", UTF16BE, widen(typeMismatchLine, 2, true)},
		{"utf-32le", UTF32LE, widen(typeMismatchLine, 4, false)},
		{"utf-32be", UTF32BE, widen(typeMismatchLine, 4, true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := New(Options{Prefix: "wasmcheck", Color: Plain, Encoding: tt.enc})
			assert.NilError(t, r.Render(&buf, typeMismatch))
			assert.Check(t, is.DeepEqual(buf.Bytes(), tt.want))
		})
	}
}

func TestParseColorMode(t *testing.T) {
	for _, m := range []ColorMode{Auto, ANSI, LegacyConsole, Plain} {
		got, err := ParseColorMode(strings.ToUpper(m.String()))
		assert.NilError(t, err)
		assert.Equal(t, got, m)
	}
	_, err := ParseColorMode("rainbow")
	assert.ErrorContains(t, err, `unknown color mode "rainbow"`)
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in   string
		want Encoding
	}{
		{"utf-8", UTF8},
		{"UTF8", UTF8},
		{"utf16le", UTF16LE},
		{"UTF-16BE", UTF16BE},
		{"utf-32le", UTF32LE},
		{"utf32be", UTF32BE},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		assert.NilError(t, err, tt.in)
		assert.Equal(t, got, tt.want, tt.in)
	}
	_, err := ParseEncoding("latin1")
	assert.ErrorContains(t, err, "unknown encoding")
}
