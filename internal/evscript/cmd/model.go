package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/log"

	"evscript/internal/evscript/styles"
	"evscript/internal/render"
	"evscript/internal/ui/colorize"
)

type viewMode int

const (
	viewListing viewMode = iota
	viewLabels
	viewSummary
)

type labelItem struct {
	addr int
	name string
	refs int
}

func (i labelItem) Title() string       { return fmt.Sprintf("%06x  %s", i.addr, i.name) }
func (i labelItem) Description() string { return "" }
func (i labelItem) FilterValue() string { return fmt.Sprintf("%x %s", i.addr, i.name) }

// Custom item delegate for the labels list
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(labelItem)
	if !ok {
		return
	}

	var addrStyle lipgloss.Style
	indicator := " "
	if index == m.Index() {
		indicator = ">"
		addrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
	} else {
		addrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	}

	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	str := fmt.Sprintf(" %s  %s  %s",
		indicator,
		addrStyle.Render(fmt.Sprintf("%06x", i.addr)),
		nameStyle.Render(i.name))
	if i.refs > 1 {
		str += lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render(fmt.Sprintf("  (%d refs)", i.refs))
	}

	fmt.Fprint(w, str)
}

type model struct {
	listing    viewport.Model
	labelsList list.Model
	summary    viewport.Model
	spinner    spinner.Model
	mode       viewMode
	filepath   string
	cfg        runConfig
	logger     *log.Logger

	result  *result
	lines   []render.Line
	err     error
	loading bool
	width   int
	height  int
}

type disassembledMsg struct {
	result *result
	err    error
}

func disassembleCmd(path string, cfg runConfig, lg *log.Logger) tea.Cmd {
	return func() tea.Msg {
		res, err := disassembleFile(path, cfg, lg)
		return disassembledMsg{result: res, err: err}
	}
}

func NewModel(filepath string, cfg runConfig, lg *log.Logger) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	labelsList := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	labelsList.SetShowStatusBar(false)
	labelsList.SetFilteringEnabled(true)
	labelsList.Title = "Labels"
	labelsList.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
	labelsList.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	svp := viewport.New()
	svp.SetWidth(80)
	svp.SetHeight(24)

	m := model{
		listing:    vp,
		labelsList: labelsList,
		summary:    svp,
		spinner:    s,
		mode:       viewListing,
		filepath:   filepath,
		cfg:        cfg,
		logger:     lg,
		loading:    true,
		width:      80,
		height:     24,
	}
	m.updateContent()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		disassembleCmd(m.filepath, m.cfg, m.logger),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case disassembledMsg:
		m.loading = false
		m.result, m.err = msg.result, msg.err
		if m.err == nil {
			m.lines = render.Listing(m.result.Script, m.result.Meta)
			m.updateLabelsList()
		}
		m.updateContent()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateContent()
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.listing.SetWidth(msg.Width)
			m.listing.SetHeight(msg.Height - 2)
			m.labelsList.SetWidth(msg.Width)
			m.labelsList.SetHeight(msg.Height - 2)
			m.summary.SetWidth(msg.Width)
			m.summary.SetHeight(msg.Height - 2)

			m.updateContent()
		}

	case tea.KeyMsg:
		// While filtering the list owns every key but quit
		if m.mode == viewLabels && m.labelsList.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			m.mode = viewListing
			return m, nil
		case "b":
			if m.result != nil {
				m.mode = viewLabels
			}
			return m, nil
		case "s":
			m.mode = viewSummary
			return m, nil
		case "enter":
			if m.mode == viewLabels {
				if item, ok := m.labelsList.SelectedItem().(labelItem); ok {
					m.gotoLabel(item.name)
					m.mode = viewListing
				}
				return m, nil
			}
		case "tab":
			m.mode = m.cycle(1)
			return m, nil
		case "shift+tab":
			m.mode = m.cycle(-1)
			return m, nil
		}
	}

	switch m.mode {
	case viewLabels:
		m.labelsList, cmd = m.labelsList.Update(msg)
	case viewSummary:
		m.summary, cmd = m.summary.Update(msg)
	default:
		m.listing, cmd = m.listing.Update(msg)
	}
	return m, cmd
}

// cycle steps through the views, skipping labels until there are some.
func (m model) cycle(step int) viewMode {
	const views = 3
	next := m.mode
	for range views {
		next = (next + viewMode(step) + views) % views
		if next != viewLabels || m.result != nil {
			return next
		}
	}
	return m.mode
}

func (m model) View() string {
	var content string
	switch m.mode {
	case viewLabels:
		content = m.labelsList.View()
	case viewSummary:
		content = m.summary.View()
	default:
		content = m.listing.View()
	}

	var menu string
	switch m.mode {
	case viewLabels:
		menu = " Enter: go to label • L: listing • S: summary • Tab: cycle • Q: quit "
	case viewSummary:
		menu = " L: listing • B: labels • Tab: cycle • Q: quit "
	default:
		if m.result != nil {
			menu = " B: labels • S: summary • Tab: cycle • Q: quit "
		} else {
			menu = " S: summary • Q: quit "
		}
	}

	menuStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1).
		Width(m.width)

	return content + "\n" + menuStyle.Render(menu)
}

// gotoLabel scrolls the listing to the line declaring name.
func (m *model) gotoLabel(name string) {
	for i, l := range m.lines {
		if l.Kind == render.LineLabel && l.Mnemonic == name {
			m.listing.SetYOffset(i)
			return
		}
	}
}

func (m *model) updateContent() {
	var markdown string
	switch {
	case m.loading:
		markdown = fmt.Sprintf("# evscript\n\n%s Disassembling %s...", m.spinner.View(), m.filepath)
	case m.err != nil:
		markdown = fmt.Sprintf("# evscript\n\n```\n; %s\n; %s\n```", m.filepath, m.err)
	default:
		markdown = summaryMarkdown(m.result)
	}

	width := m.width
	if width == 0 {
		width = 80
	}
	if renderer, err := styles.MarkdownRenderer(width - 2); err == nil {
		if rendered, err := renderer.Render(markdown); err == nil {
			markdown = rendered
		}
	}
	summary := strings.TrimSuffix(markdown, "\n")
	m.summary.SetContent(summary)

	if m.result == nil {
		m.listing.SetContent(summary)
		return
	}
	text := render.Text(m.lines)
	if colored, err := colorize.Listing(text); err == nil {
		text = colored
	}
	m.listing.SetContent(strings.TrimSuffix(text, "\n"))
}

func (m *model) updateLabelsList() {
	s := m.result.Script
	var items []list.Item
	for _, l := range render.Labels(s) {
		items = append(items, labelItem{addr: l.Addr, name: l.Mnemonic, refs: s.LabelUsage[l.Mnemonic]})
	}
	m.labelsList.SetItems(items)
	m.labelsList.Title = fmt.Sprintf("Labels (%d total)", len(items))
}
