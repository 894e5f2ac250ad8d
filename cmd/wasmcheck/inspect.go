package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-binfmt/render"
	"github.com/wippyai/wasm-binfmt/wasm"
)

func newInspectCommand(a *app) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Print the sections of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			m, err := a.decodeFile(path)
			if err != nil {
				return err
			}
			if interactive {
				if !render.IsTerminal(a.stdout) {
					return fmt.Errorf("interactive mode needs a terminal")
				}
				return runBrowser(path, m)
			}
			a.printInspect(path, m)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse sections in a terminal UI")
	return cmd
}

// decodeFile decodes path with the configured options. A decode failure
// is rendered before it is returned.
func (a *app) decodeFile(path string) (*wasm.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	m, err := wasm.DecodeWithOptions(data, a.decodeOptions(path))
	if err != nil {
		return nil, &checkFailure{errs: a.report(fileResult{path: path, err: err}), total: 1}
	}
	return m, nil
}

func (a *app) printInspect(path string, m *wasm.Module) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "SECTION", "OFFSET", "SIZE", "CONTENTS")
	for i, s := range m.Sections {
		t.Row(
			strconv.Itoa(i),
			wasm.SectionName(s.ID),
			strconv.Itoa(s.Offset),
			strconv.Itoa(len(s.Body)),
			sectionSummary(m, i),
		)
	}

	fmt.Fprintf(a.stdout, "%s: %d sections\n", path, len(m.Sections))
	if len(m.Sections) == 0 {
		return
	}
	fmt.Fprintln(a.stdout, t.Render())
	for i, s := range m.Sections {
		detail := sectionDetail(m, i)
		if detail == "" {
			continue
		}
		fmt.Fprintf(a.stdout, "\n%s section at offset %d:\n%s", wasm.SectionName(s.ID), s.Offset, detail)
	}
}
