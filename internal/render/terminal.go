package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/jwulff/campuscast/internal/domain"
	"github.com/jwulff/campuscast/internal/metrics"
)

const (
	colorSlate  = "#0f172a"
	colorBlue   = "#3b82f6"
	colorSky    = "#bfdbfe"
	colorRed    = "#dc2626"
	colorPink   = "#e11d48"
	colorIndigo = "#3730a3"
	colorGray   = "#6b7280"
	colorWhite  = "#ffffff"
)

// DefaultTerminalWidth is the frame width of terminal output.
const DefaultTerminalWidth = 60

type terminalStyles struct {
	frame, title, body, idle, location, urgent, ticker, tickerLabel, dim, warn lipgloss.Style
}

func newTerminalStyles(r *lipgloss.Renderer, width int) terminalStyles {
	inner := width - 4
	return terminalStyles{
		frame: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBlue)).
			Padding(0, 1).
			Width(width - 2),
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorSky)).
			Width(inner).
			Align(lipgloss.Center),
		body: r.NewStyle().
			Foreground(lipgloss.Color(colorWhite)).
			Width(inner).
			Align(lipgloss.Center),
		idle: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorWhite)).
			Width(inner).
			Align(lipgloss.Center),
		location: r.NewStyle().
			Foreground(lipgloss.Color(colorSky)).
			Width(inner).
			Align(lipgloss.Center),
		urgent: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorWhite)).
			Background(lipgloss.Color(colorRed)).
			Width(inner),
		ticker: r.NewStyle().
			Foreground(lipgloss.Color(colorWhite)).
			Background(lipgloss.Color(colorSlate)),
		tickerLabel: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorWhite)).
			Background(lipgloss.Color(colorBlue)),
		dim: r.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Width(inner).
			Align(lipgloss.Center),
		warn: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorRed)).
			Width(inner).
			Align(lipgloss.Center),
	}
}

// Terminal prints screens as styled text.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	styles terminalStyles
}

// NewTerminal creates a terminal sink writing to out.
func NewTerminal(out io.Writer, width int) *Terminal {
	if width <= 10 {
		width = DefaultTerminalWidth
	}
	return &Terminal{
		out:    out,
		styles: newTerminalStyles(lipgloss.NewRenderer(out), width),
	}
}

// Show writes one screen.
func (t *Terminal) Show(_ context.Context, screen domain.Screen) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := fmt.Fprintln(t.out, t.Render(screen)); err != nil {
		metrics.IncRender("terminal", metrics.ResultError)
		return fmt.Errorf("failed to write screen: %w", err)
	}
	metrics.IncRender("terminal", metrics.ResultSuccess)
	return nil
}

// Render returns the styled text of screen without writing it.
func (t *Terminal) Render(screen domain.Screen) string {
	s := t.styles
	var rows []string

	switch {
	case !screen.Configured():
		rows = append(rows,
			s.warn.Render("Device Not Configured"),
			s.dim.Render("ID: "+screen.DeviceID),
		)
	case screen.Current == nil:
		rows = append(rows,
			s.dim.Render(fmt.Sprintf("%s  %s", FormatClock(screen.At), FormatDate(screen.At))),
			s.idle.Render(CampusName),
			s.location.Render(strings.ToUpper(screen.Device.Location)),
		)
	default:
		rows = append(rows, t.renderContent(*screen.Current)...)
	}

	if screen.Configured() {
		switch {
		case len(screen.Urgent) > 0:
			texts := make([]string, 0, len(screen.Urgent))
			for _, n := range screen.Urgent {
				texts = append(texts, n.Text)
			}
			rows = append(rows, "", s.urgent.Render("! URGENT  "+strings.Join(texts, noticeSeparator)))
		case screen.ShowTicker():
			texts := make([]string, 0, len(screen.Normal))
			for _, n := range screen.Normal {
				texts = append(texts, n.Text)
			}
			rows = append(rows, "", lipgloss.JoinHorizontal(lipgloss.Top,
				s.tickerLabel.Render(" LATEST NOTICES "),
				s.ticker.Render(" "+strings.Join(texts, noticeSeparator)+" "),
			))
		}
	}

	header := screen.DeviceID
	if screen.Device != nil {
		header = fmt.Sprintf("%s (%s, %s)", screen.Device.Name, screen.DeviceID, screen.Device.Group)
	}
	return header + "\n" + s.frame.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (t *Terminal) renderContent(item domain.ContentItem) []string {
	s := t.styles
	title := s.title.Foreground(lipgloss.Color(terminalKindColor(item.Kind)))

	switch item.Kind {
	case domain.KindText:
		return []string{title.Render(strings.ToUpper(item.Title)), "", s.body.Render(item.Payload)}
	case domain.KindBirthday:
		return []string{title.Render("Happy Birthday!"), "", s.body.Italic(true).Render(item.Payload)}
	default:
		return []string{
			title.Render(item.Title),
			s.dim.Render(fmt.Sprintf("[%s] %s", item.Kind, item.Payload)),
		}
	}
}

func terminalKindColor(kind domain.ContentKind) string {
	switch kind {
	case domain.KindText:
		return colorSky
	case domain.KindBirthday:
		return colorPink
	default:
		return colorIndigo
	}
}
