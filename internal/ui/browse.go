package ui

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/rfenwick/vaultclip/internal/dispatch"
	vcerrors "github.com/rfenwick/vaultclip/internal/errors"
	"github.com/rfenwick/vaultclip/internal/keys"
	"github.com/rfenwick/vaultclip/internal/logger"
	"github.com/rfenwick/vaultclip/internal/resolver"
	"github.com/rfenwick/vaultclip/internal/vault"
)

// imageItem is one vault image in the browser list.
type imageItem struct {
	name string
	path string // vault-relative
}

func (i imageItem) FilterValue() string { return i.name }

// imageDelegate renders list rows: name, then muted directory.
type imageDelegate struct{}

func (d imageDelegate) Height() int                             { return 1 }
func (d imageDelegate) Spacing() int                            { return 0 }
func (d imageDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d imageDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(imageItem)
	if !ok {
		return
	}

	dir := filepath.Dir(i.path)
	if dir == "." {
		dir = ""
	}

	if index == m.Index() {
		name := lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Render(i.name)
		loc := lipgloss.NewStyle().Foreground(ColorTextMuted).Render("  " + dir)
		fmt.Fprint(w, "> "+name+loc)
		return
	}

	name := lipgloss.NewStyle().Foreground(ColorText).Render(i.name)
	loc := lipgloss.NewStyle().Foreground(ColorTextMuted).Render("  " + dir)
	fmt.Fprint(w, "  "+name+loc)
}

// CopyResultMsg reports the outcome of a copy started from the browser.
type CopyResultMsg struct {
	Name string
	Err  error
}

// BrowseModel is the root Bubble Tea model: a filterable list of every
// image in the vault. Selecting an entry runs the copy pipeline.
type BrowseModel struct {
	list       list.Model
	dispatcher *dispatch.Dispatcher
	vault      *vault.Vault
	version    string

	width  int
	height int

	status    string
	statusErr bool
}

// Vertical space taken by header, status, and help lines around the list.
const browseChromeHeight = 4

// NewBrowse builds the browser over every image the vault indexed.
func NewBrowse(v *vault.Vault, d *dispatch.Dispatcher, version string) *BrowseModel {
	var items []list.Item
	for _, name := range v.ImageNames() {
		if path, ok := v.FindFileByName(name); ok {
			items = append(items, imageItem{name: name, path: path})
		}
	}

	l := list.New(items, imageDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.SetFilteringEnabled(true)

	return &BrowseModel{
		list:       l,
		dispatcher: d,
		vault:      v,
		version:    version,
	}
}

func (m *BrowseModel) Init() tea.Cmd {
	return nil
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := m.height - browseChromeHeight
		if listHeight < 1 {
			listHeight = 1
		}
		m.list.SetSize(m.width, listHeight)
		return m, nil

	case tea.KeyPressMsg:
		// While the filter input is active every key belongs to the list.
		if m.list.SettingFilter() {
			break
		}
		switch msg.String() {
		case "q", keys.CtrlC, keys.Escape:
			return m, tea.Quit
		case keys.Enter:
			return m, m.copySelected()
		}

	case CopyResultMsg:
		if msg.Err != nil {
			m.status = vcerrors.Notice(msg.Err)
			m.statusErr = true
		} else {
			m.status = fmt.Sprintf("Copied %s to clipboard", msg.Name)
			m.statusErr = false
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// copySelected routes the selection through the context-menu path: the
// selected row is the target element, the menu entry runs the pipeline.
func (m *BrowseModel) copySelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(imageItem)
	if !ok {
		return nil
	}

	el := &resolver.Element{
		SourceURL: m.vault.ResolveFetchURL(item.path),
		MediaType: mime.TypeByExtension(filepath.Ext(item.path)),
	}
	m.dispatcher.HandleContextMenu(dispatch.ContextMenuEvent{Target: el})
	items := m.dispatcher.MenuItems()
	if len(items) == 0 {
		return nil
	}

	run := items[0].Run
	logger.Log("Browse: Copy requested for %s", item.path)
	return func() tea.Msg {
		return CopyResultMsg{Name: item.name, Err: run(context.Background())}
	}
}

func (m *BrowseModel) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current view as a string. Useful for tests.
func (m *BrowseModel) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		HeaderStyle.Render("VaultClip "+m.version),
		HeaderPathStyle.Render(m.vault.Root()),
	)

	status := " "
	if m.status != "" {
		if m.statusErr {
			status = StatusErrStyle.Render(m.status)
		} else {
			status = StatusOKStyle.Render(m.status)
		}
	}

	help := HelpStyle.Render("enter: copy  /: filter  q: quit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		m.list.View(),
		status,
		help,
	)
}

// Status returns the current status line. Used by tests.
func (m *BrowseModel) Status() (string, bool) {
	return m.status, m.statusErr
}
