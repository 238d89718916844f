package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	styles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fsnotify/fsnotify"

	"github.com/peoxin/math-typst2latex/internal/pipeline"
)

const (
	title         = "Typst to LaTeX Math Converter"
	defaultWidth  = 80
	defaultHeight = 24
	boxRows       = 4
	minBoxWidth   = 20
	// title, two labels, two bordered boxes, buttons and the status line
	chromeHeight = 1 + 2 + 2*(boxRows+2) + 1 + 1
)

type focusArea int

const (
	focusInput focusArea = iota
	focusOutput
)

var (
	blurBorderColor  = lipgloss.Color("#3b4261")
	focusBorderColor = lipgloss.Color("#7aa2f7")
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
	buttonStyle      = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color("#1a1b26")).
				Background(lipgloss.Color("#7aa2f7"))
	buttonDisabledStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color("#565f89")).
				Background(lipgloss.Color("#292e42"))
	helpBoxStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7"))
)

// Model implements the Bubble Tea program for the converter window.
type Model struct {
	ctrl  *pipeline.Controller
	state pipeline.State
	keys  keyMap

	input  textarea.Model
	output textarea.Model
	focus  focusArea

	dark        bool
	showHelp    bool
	helpView    string
	preview     string
	previewRows int
	status      string
	width       int
	height      int
	err         error

	watcher          *fsnotify.Watcher
	watchedFile      string
	watchChan        chan tea.Msg
	initialWatchPath string
}

// NewModel constructs the model. It binds ctrl.Dark to the model's theme so
// rendering follows the ctrl+t toggle.
func NewModel(state State, ctrl *pipeline.Controller) *Model {
	m := &Model{
		ctrl:             ctrl,
		keys:             defaultKeyMap(),
		input:            newTextArea("Typst math, e.g. sum_(i=1)^n i = (n(n+1))/2"),
		output:           newTextArea("LaTeX"),
		dark:             state.Dark,
		initialWatchPath: state.InputPath,
	}
	ctrl.Dark = m.Dark

	m.input.Focus()
	m.resize(defaultWidth, defaultHeight)
	if state.Input != "" {
		m.input.SetValue(state.Input)
		m.dispatch(pipeline.InputEdited{Text: state.Input})
	}
	return m
}

func newTextArea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetHeight(boxRows)
	ta.Blur()
	return ta
}

// Dark reports whether the preview is drawn for a dark background.
func (m *Model) Dark() bool {
	return m.dark
}

// State returns the current converter state.
func (m *Model) State() pipeline.State {
	return m.state
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.initialWatchPath != "" {
		path := m.initialWatchPath
		m.initialWatchPath = ""
		cmds = append(cmds, m.startWatching(path))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileChangedMsg:
		m.reloadInputFile()
		return m, m.waitForFileEvent()
	case fileWatchErrMsg:
		m.err = msg.err
		return m, m.waitForFileEvent()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if key.Matches(msg, m.keys.Help, m.keys.Quit) {
				m.showHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.closeWatcher()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.SwitchFocus):
			return m, m.toggleFocus()
		case key.Matches(msg, m.keys.Copy):
			m.copyOutput()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.dispatch(pipeline.Clear{})
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keys.ToggleTheme):
			m.toggleTheme()
			return m, nil
		}
		return m, m.updateFocused(msg)
	}

	return m, m.updateFocused(msg)
}

// updateFocused forwards msg to the focused text area and turns a changed
// value into the matching edit event.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusOutput:
		before := m.output.Value()
		m.output, cmd = m.output.Update(msg)
		if after := m.output.Value(); after != before {
			m.status = ""
			m.dispatch(pipeline.OutputEdited{Text: after})
		}
	default:
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.status = ""
			m.dispatch(pipeline.InputEdited{Text: after})
		}
	}
	return cmd
}

// dispatch applies ev and brings the widgets in line with the new state.
func (m *Model) dispatch(ev pipeline.Event) {
	m.state = m.ctrl.Apply(m.state, ev)
	if m.input.Value() != m.state.Input {
		m.input.SetValue(m.state.Input)
	}
	if m.output.Value() != m.state.Output {
		m.output.SetValue(m.state.Output)
	}
	m.refreshPreview()
}

func (m *Model) copyOutput() {
	if !m.state.CopyEnabled {
		return
	}
	if err := m.ctrl.CopyOutput(m.state); err != nil {
		m.status = ""
		return
	}
	m.status = "Copied LaTeX to clipboard"
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusInput {
		m.focus = focusOutput
		m.input.Blur()
		return m.output.Focus()
	}
	m.focus = focusInput
	m.output.Blur()
	return m.input.Focus()
}

func (m *Model) toggleTheme() {
	m.dark = !m.dark
	m.state = m.ctrl.Rerender(m.state)
	m.refreshPreview()
	m.renderHelp()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.showHelp {
		overlay := helpBoxStyle.Render(m.helpView)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}

	sections := []string{
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, titleStyle.Render(title)),
		labelStyle.Render("Typst"),
		boxStyle(m.focus == focusInput).Render(m.input.View()),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.buttonsView()),
		labelStyle.Render("LaTeX"),
		boxStyle(m.focus == focusOutput).Render(m.output.View()),
	}
	if m.preview != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.preview))
	}
	sections = append(sections, m.statusLine())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) buttonsView() string {
	copyButton := buttonDisabledStyle.Render("Copy LaTeX")
	if m.state.CopyEnabled {
		copyButton = buttonStyle.Render("Copy LaTeX")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, copyButton, "  ", buttonStyle.Render("Clear"))
}

func (m *Model) statusLine() string {
	var line string
	switch {
	case m.err != nil:
		line = errorStyle.Render(m.err.Error())
	case m.status != "":
		line = statusStyle.Render(m.status)
	default:
		line = statusStyle.Render(m.keys.shortHelp())
	}
	return ansi.Truncate(line, m.width, "…")
}

func boxStyle(focused bool) lipgloss.Style {
	color := blurBorderColor
	if focused {
		color = focusBorderColor
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color)
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width = width
	m.height = height

	boxWidth := max(width-boxStyle(false).GetHorizontalFrameSize(), minBoxWidth)
	m.input.SetWidth(boxWidth)
	m.output.SetWidth(boxWidth)
	m.previewRows = max(height-chromeHeight, 2)

	m.refreshPreview()
	m.renderHelp()
}

func (m *Model) refreshPreview() {
	if m.state.Bitmap == nil {
		m.preview = ""
		return
	}
	m.preview = renderPreview(m.state.Bitmap, m.width, m.previewRows, previewBackground(m.dark))
}

func (m *Model) renderHelp() {
	width := max(min(m.width-helpBoxStyle.GetHorizontalFrameSize(), 72), minBoxWidth)
	renderer, err := newRenderer(width, m.dark)
	if err != nil {
		m.helpView = m.keys.helpMarkdown()
		return
	}
	rendered, err := renderer.Render(m.keys.helpMarkdown())
	if err != nil {
		m.helpView = m.keys.helpMarkdown()
		return
	}
	m.helpView = rendered
}

func newRenderer(width int, dark bool) (*glamour.TermRenderer, error) {
	style := styles.LightStyle
	if dark {
		style = styles.TokyoNightStyle
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
}
