package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yldfi/quotemux/business/aggregator/domain"
)

// FetchFunc runs one fan-out and returns its results.
type FetchFunc func(ctx context.Context) (*domain.QuoteResults, error)

// GasFunc returns the current chain gas price in gwei.
type GasFunc func(ctx context.Context) (float64, error)

// Options configures the watch model.
type Options struct {
	// PairLabel describes what is being quoted, e.g.
	// "1 WETH -> USDC on ethereum".
	PairLabel string
	// Interval between refreshes.
	Interval time.Duration
	Fetch    FetchFunc
	// Gas is optional; when set the summary line shows the current
	// gas price alongside each refresh.
	Gas GasFunc
}

// Model is the Bubble Tea model for watch mode.
type Model struct {
	opts    Options
	keys    KeyMap
	spinner spinner.Model

	results    *domain.QuoteResults
	gasGwei    float64
	hasGas     bool
	lastUpdate time.Time
	refreshing bool
	paused     bool
	quitting   bool
	errMsg     string
	width      int
}

// New creates a watch model.
func New(opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		opts:    opts,
		keys:    DefaultKeyMap(),
		spinner: sp,
	}
}

// Run starts the program and blocks until it exits.
func Run(opts Options) error {
	_, err := tea.NewProgram(New(opts), tea.WithAltScreen()).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd(), m.gasCmd())
}

func (m Model) fetchCmd() tea.Cmd {
	fetch := m.opts.Fetch
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := fetch(ctx)
		if err != nil {
			return ErrorMsg{Error: err}
		}
		return QuotesMsg{Results: res, At: time.Now()}
	}
}

func (m Model) gasCmd() tea.Cmd {
	gas := m.opts.Gas
	if gas == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		gwei, err := gas(ctx)
		if err != nil {
			// Stale gas display is fine, quotes are the point here.
			return nil
		}
		return GasPriceMsg{Gwei: gwei}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if !m.paused {
				return m, m.tickCmd()
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if !m.refreshing {
				m.refreshing = true
				return m, m.fetchCmd()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case TickMsg:
		if m.paused || m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, tea.Batch(m.fetchCmd(), m.gasCmd())

	case QuotesMsg:
		m.results = msg.Results
		m.lastUpdate = msg.At
		m.refreshing = false
		m.errMsg = ""
		if m.paused {
			return m, nil
		}
		return m, m.tickCmd()

	case GasPriceMsg:
		m.gasGwei = msg.Gwei
		m.hasGas = true
		return m, nil

	case ErrorMsg:
		m.refreshing = false
		m.errMsg = msg.Error.Error()
		if m.paused {
			return m, nil
		}
		return m, m.tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render("quotemux"))
	b.WriteString("  ")
	b.WriteString(HeaderStyle.Render(m.opts.PairLabel))
	if m.refreshing {
		b.WriteString(" " + m.spinner.View())
	}
	if m.paused {
		b.WriteString(" " + WarnStyle.Render("[paused]"))
	}
	b.WriteString("\n\n")

	if m.errMsg != "" {
		b.WriteString(FailedRowStyle.Render("refresh failed: "+m.errMsg) + "\n\n")
	}

	if m.results == nil {
		b.WriteString(MutedStyle.Render("waiting for first quote round..."))
	} else {
		b.WriteString(BoxStyle.Render(m.renderTable()))
		b.WriteString("\n")
		b.WriteString(m.renderSummary())
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("q quit | p pause | r refresh"))

	return b.String()
}

func (m Model) renderTable() string {
	var rows []string
	rows = append(rows, fmt.Sprintf("%-12s %-28s %-10s %-10s %s",
		"SOURCE", "AMOUNT OUT", "GAS", "LATENCY", "STATUS"))

	best := m.results.Aggregation.BestSource
	for _, r := range m.results.Results {
		var line string
		if r.OK() {
			gas := "-"
			if r.Value.EstimatedGas != nil {
				gas = fmt.Sprintf("%d", *r.Value.EstimatedGas)
			}
			status := "ok"
			if best != nil && r.Source == *best {
				status = "best"
			}
			line = fmt.Sprintf("%-12s %-28s %-10s %-10s %s",
				r.Source.DisplayName(), r.Value.AmountOut.String(), gas,
				fmt.Sprintf("%dms", r.LatencyMS), status)
			if status == "best" {
				line = BestRowStyle.Render(line)
			}
		} else {
			reason := ""
			if r.Failure != nil {
				reason = string(r.Failure.Kind)
			}
			line = FailedRowStyle.Render(fmt.Sprintf("%-12s %-28s %-10s %-10s %s",
				r.Source.DisplayName(), "-", "-",
				fmt.Sprintf("%dms", r.LatencyMS), reason))
		}
		rows = append(rows, line)
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderSummary() string {
	ok := m.results.SucceededCount()
	total := len(m.results.Results)
	summary := fmt.Sprintf("%d/%d sources | round %dms | updated %s",
		ok, total, m.results.ElapsedMS, m.lastUpdate.Format("15:04:05"))
	if m.hasGas {
		summary += fmt.Sprintf(" | gas %.1f gwei", m.gasGwei)
	}
	if ok == 0 {
		return FailedRowStyle.Render("no source returned a quote") + "  " + MutedStyle.Render(summary)
	}
	return MutedStyle.Render(summary)
}
