package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/wasm-binfmt/wasm"
)

var header = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

// typeMismatch declares two types and defines one.
var typeMismatch = append(append([]byte{}, header...), 0x01, 0x04, 0x02, 0x60, 0x00, 0x00)

func sampleModule() *wasm.Module {
	limit := uint32(2)
	return &wasm.Module{
		Types:    []wasm.FuncType{{Params: []wasm.ValType{wasm.ValI32}}},
		Imports:  []wasm.Import{{Module: "env", Name: "log", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 0}}},
		Funcs:    []uint32{0},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1, Max: &limit}}},
		Globals: []wasm.Global{
			{Type: wasm.GlobalType{ValType: wasm.ValI32}, Init: wasm.ConstExpr{Opcode: wasm.OpI32Const, Type: wasm.ValI32, Value: 0xFFFFFFFF}},
		},
		Exports: []wasm.Export{{Name: "run", Kind: wasm.KindFunc, Idx: 1}},
		Code:    []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
		Data: []wasm.DataSegment{
			{Offset: wasm.ConstExpr{Opcode: wasm.OpI32Const, Type: wasm.ValI32, Value: 16}, Init: []byte("hi")},
		},
		CustomSections: []wasm.CustomSection{{Name: "producers"}},
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	t.Cleanup(func() { wasm.SetLogger(nil) })
	return stdout.String(), stderr.String(), err
}

func TestCheckValid(t *testing.T) {
	path := writeFile(t, "ok.wasm", sampleModule().Encode())

	stdout, stderr, err := run(t, "check", path)
	if err != nil {
		t.Fatalf("check: %v\nstderr: %s", err, stderr)
	}
	if want := "ok " + path + "\n"; stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestCheckReportsEveryFailure(t *testing.T) {
	good := writeFile(t, "good.wasm", sampleModule().Encode())
	bad := writeFile(t, "bad.wasm", typeMismatch)
	missing := filepath.Join(t.TempDir(), "missing.wasm")

	stdout, stderr, err := run(t, "check", "-j", "2", good, bad, missing)

	var failure *checkFailure
	if !stderrors.As(err, &failure) {
		t.Fatalf("expected *checkFailure, got %T: %v", err, err)
	}
	if got := err.Error(); got != "2 of 3 files failed" {
		t.Errorf("error = %q", got)
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Error("missing file error is not reachable through the failure")
	}

	if stdout != "ok "+good+"\n" {
		t.Errorf("stdout = %q", stdout)
	}
	wantLine := "wasmcheck: " + bad + `: [error] (offset=14) The number of types resolved "1" does not match the actual number "2".`
	if !strings.Contains(stderr, wantLine) {
		t.Errorf("stderr missing rendered diagnostic:\n%s", stderr)
	}
	if !strings.Contains(stderr, "wasmcheck: "+missing+": ") {
		t.Errorf("stderr missing read failure:\n%s", stderr)
	}
}

func TestCheckMaxSize(t *testing.T) {
	path := writeFile(t, "big.wasm", sampleModule().Encode())

	_, stderr, err := run(t, "check", "--max-size", "8", path)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(stderr, "exceeds the limit of 8 bytes") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCheckEmptyModule(t *testing.T) {
	path := writeFile(t, "empty.wasm", header)

	stdout, stderr, err := run(t, "check", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if stdout != "ok "+path+"\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "module has no sections") {
		t.Errorf("expected warning, stderr = %q", stderr)
	}

	_, stderr, err = run(t, "check", "--require-sections", "--color", "plain", path)
	if err == nil {
		t.Fatal("expected failure with --require-sections")
	}
	if !strings.Contains(stderr, "(offset=8) No WebAssembly section found.") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCheckFeatureFlags(t *testing.T) {
	m := &wasm.Module{Types: []wasm.FuncType{{Results: []wasm.ValType{wasm.ValI32, wasm.ValI64}}}}
	path := writeFile(t, "multi.wasm", m.Encode())

	if _, _, err := run(t, "check", path); err == nil {
		t.Error("multi-value type accepted without --multi-value")
	}
	if _, stderr, err := run(t, "check", "--multi-value", path); err != nil {
		t.Errorf("--multi-value: %v\n%s", err, stderr)
	}
}

func TestCheckUniqueExportNames(t *testing.T) {
	m := &wasm.Module{
		Types:    []wasm.FuncType{{}},
		Funcs:    []uint32{0},
		Memories: []wasm.MemoryType{{}},
		Exports: []wasm.Export{
			{Name: "x", Kind: wasm.KindFunc, Idx: 0},
			{Name: "x", Kind: wasm.KindMemory, Idx: 0},
		},
		Code: []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
	}
	path := writeFile(t, "exports.wasm", m.Encode())

	if _, stderr, err := run(t, "check", path); err != nil {
		t.Errorf("name shared across kinds rejected by default: %v\n%s", err, stderr)
	}
	_, stderr, err := run(t, "check", "--unique-export-names", path)
	if err == nil {
		t.Fatal("--unique-export-names accepted a repeated export name")
	}
	if !strings.Contains(stderr, `Duplicate memory export "x"`) {
		t.Errorf("stderr does not report the duplicate export:\n%s", stderr)
	}
}

func TestCheckCrosscheck(t *testing.T) {
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0},
		Code:  []wasm.FuncBody{{Code: []byte{wasm.OpI32Const}}},
	}
	path := writeFile(t, "body.wasm", m.Encode())

	stdout, stderr, err := run(t, "check", "--crosscheck", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if stdout != "ok "+path+"\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "reference engine rejects a function body") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCheckConfigFile(t *testing.T) {
	bad := writeFile(t, "bad.wasm", typeMismatch)
	cfg := writeFile(t, "wasmcheck.toml", []byte(`
[render]
prefix = ""
color = "plain"

[log]
format = "json"
`))

	_, stderr, err := run(t, "--config", cfg, "check", bad)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(stderr, bad+": [error] (offset=14)") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestInvalidSettings(t *testing.T) {
	path := writeFile(t, "ok.wasm", header)

	_, _, err := run(t, "--color", "rainbow", "check", path)
	if err == nil || !strings.Contains(err.Error(), "render.color") {
		t.Errorf("err = %v", err)
	}

	_, _, err = run(t, "check", "--jobs", "0", path)
	if err == nil || !strings.Contains(err.Error(), "check.jobs") {
		t.Errorf("err = %v", err)
	}
}

func TestInspect(t *testing.T) {
	path := writeFile(t, "sample.wasm", sampleModule().Encode())

	stdout, stderr, err := run(t, "inspect", path)
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, stderr)
	}

	for _, want := range []string{
		path + ": 9 sections",
		"SECTION",
		"producers",
		"[0] (i32) -> ()",
		"[0] env.log func type 0",
		"[0] min=1 max=2",
		"[0] i32 = i32.const -1",
		`"run" func 1`,
		"[1] 0 locals, 1 code bytes",
		"[0] memory 0 offset (i32.const 16) 2 bytes",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("inspect output missing %q:\n%s", want, stdout)
		}
	}
}

func TestInspectDecodeFailure(t *testing.T) {
	path := writeFile(t, "bad.wasm", typeMismatch)

	_, stderr, err := run(t, "inspect", path)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(stderr, "[error] (offset=14)") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestInspectInteractiveNeedsTerminal(t *testing.T) {
	path := writeFile(t, "sample.wasm", sampleModule().Encode())

	_, _, err := run(t, "inspect", "-i", path)
	if err == nil || !strings.Contains(err.Error(), "needs a terminal") {
		t.Errorf("err = %v", err)
	}
}

func TestBrowserModel(t *testing.T) {
	m, err := wasm.Decode(sampleModule().Encode())
	if err != nil {
		t.Fatal(err)
	}
	b := newBrowserModel("sample.wasm", m)

	if got := b.View(); got != "Loading..." {
		t.Errorf("view before size = %q", got)
	}

	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if !strings.Contains(b.View(), "type @8") {
		t.Errorf("view does not list the type section:\n%s", b.View())
	}

	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	if b.selected != 1 {
		t.Errorf("selected = %d after moving down, want 1", b.selected)
	}
	if !strings.Contains(b.detail.View(), "env.log") {
		t.Errorf("detail does not show imports:\n%s", b.detail.View())
	}

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q does not quit")
	}
}
