package ui

import (
	"fmt"
	"strconv"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/rfenwick/vaultclip/internal/config"
	"github.com/rfenwick/vaultclip/internal/keys"
	"github.com/rfenwick/vaultclip/internal/logger"
)

const settingsFormWidth = 44

// SettingsModel edits the persisted settings: the SVG rasterization
// scale. Enter saves, Escape discards.
type SettingsModel struct {
	form   *huh.Form
	cfg    *config.Config
	scale  string
	errMsg string
	saved  bool
	width  int
}

// NewSettings builds the form pre-filled with the current config values.
func NewSettings(cfg *config.Config) *SettingsModel {
	m := &SettingsModel{
		cfg:   cfg,
		scale: strconv.Itoa(cfg.Scale()),
	}

	m.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("SVG to PNG scale").
			Description(fmt.Sprintf("Rasterization multiplier for SVG images (%d-%d)", config.MinScale, config.MaxScale)).
			CharLimit(2).
			Validate(validateScale).
			Value(&m.scale),
	)).
		WithTheme(FormTheme()).
		WithShowHelp(false).
		WithWidth(settingsFormWidth).
		WithLayout(huh.LayoutStack)
	m.form.Init()

	return m
}

func validateScale(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if n < config.MinScale || n > config.MaxScale {
		return fmt.Errorf("must be %d-%d", config.MinScale, config.MaxScale)
	}
	return nil
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case keys.Escape, keys.CtrlC:
			return m, tea.Quit
		case keys.Enter:
			if err := m.save(); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.saved = true
			return m, tea.Quit
		}
	}

	f, cmd := m.form.Update(msg)
	m.form = f.(*huh.Form)
	return m, cmd
}

// save validates and persists the entered scale.
func (m *SettingsModel) save() error {
	if err := validateScale(m.scale); err != nil {
		return err
	}
	n, _ := strconv.Atoi(m.scale)
	m.cfg.SetScale(n)
	if err := m.cfg.Save(); err != nil {
		logger.Error("Settings: Save failed: %v", err)
		return err
	}
	logger.Log("Settings: Saved scale=%d", n)
	return nil
}

func (m *SettingsModel) View() tea.View {
	var v tea.View

	title := HeaderStyle.Render("VaultClip settings")
	body := m.form.View()
	footer := HelpStyle.Render("enter: save  esc: cancel")
	if m.errMsg != "" {
		footer = StatusErrStyle.Render(m.errMsg)
	}

	v.SetContent(lipgloss.JoinVertical(lipgloss.Left, title, body, footer))
	return v
}

// Saved reports whether the form committed its values.
func (m *SettingsModel) Saved() bool {
	return m.saved
}

// FormTheme returns a huh theme matching the browser palette.
func FormTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		t.Focused.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		t.Focused.Card = t.Focused.Base
		t.Focused.Title = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
		t.Focused.Description = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
		t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(ColorWarning).SetString(" *")
		t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorWarning)

		t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(ColorPrimary)
		t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(ColorTextMuted)
		t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(ColorPrimary)
		t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(ColorText)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base

		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		t.Help = help.New().Styles

		return t
	})
}
