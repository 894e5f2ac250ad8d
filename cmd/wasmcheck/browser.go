package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-binfmt/wasm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// sectionItem is one entry of the section list.
type sectionItem struct {
	title string
	desc  string
	index int
}

func (i sectionItem) Title() string       { return i.title }
func (i sectionItem) Description() string { return i.desc }
func (i sectionItem) FilterValue() string { return i.title }

// browserModel shows the section list on the left and the selected
// section's entries on the right.
type browserModel struct {
	module   *wasm.Module
	filename string
	sections list.Model
	detail   viewport.Model
	selected int
	ready    bool
}

func newBrowserModel(filename string, m *wasm.Module) *browserModel {
	items := make([]list.Item, len(m.Sections))
	for i, s := range m.Sections {
		items[i] = sectionItem{
			title: fmt.Sprintf("%s @%d", wasm.SectionName(s.ID), s.Offset),
			desc:  fmt.Sprintf("%d bytes, %s", len(s.Body), sectionSummary(m, i)),
			index: i,
		}
	}

	sections := list.New(items, list.NewDefaultDelegate(), 0, 0)
	sections.Title = filename
	sections.Styles.Title = titleStyle
	sections.SetShowHelp(false)

	return &browserModel{
		module:   m,
		filename: filename,
		sections: sections,
		detail:   viewport.New(0, 0),
		selected: -1,
	}
}

func (b *browserModel) Init() tea.Cmd {
	return nil
}

func (b *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return b, tea.Quit
		case "pgdown", "pgup":
			var cmd tea.Cmd
			b.detail, cmd = b.detail.Update(msg)
			return b, cmd
		}
	}

	var cmd tea.Cmd
	b.sections, cmd = b.sections.Update(msg)
	b.syncDetail()
	return b, cmd
}

func (b *browserModel) resize(width, height int) {
	frameW, frameH := paneStyle.GetFrameSize()
	listWidth := width / 3
	paneHeight := height - frameH - 1

	b.sections.SetSize(listWidth-frameW, paneHeight)
	b.detail.Width = width - listWidth - 2*frameW
	b.detail.Height = paneHeight
	b.ready = true
}

// syncDetail reloads the viewport when the list selection changes.
func (b *browserModel) syncDetail() {
	item, ok := b.sections.SelectedItem().(sectionItem)
	if !ok || item.index == b.selected {
		return
	}
	b.selected = item.index

	s := b.module.Sections[item.index]
	content := fmt.Sprintf("%s section\noffset %d, %d bytes\n\n%s",
		wasm.SectionName(s.ID), s.Offset, len(s.Body), sectionDetail(b.module, item.index))
	b.detail.SetContent(content)
	b.detail.GotoTop()
}

func (b *browserModel) View() string {
	if !b.ready {
		return "Loading..."
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(b.sections.View()),
		paneStyle.Render(b.detail.View()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panes,
		helpStyle.Render("↑/↓: select section • pgup/pgdown: scroll • /: filter • q: quit"))
}

func runBrowser(filename string, m *wasm.Module) error {
	p := tea.NewProgram(newBrowserModel(filename, m), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
