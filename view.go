package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"taskman/internal/export"
	"taskman/internal/process"
)

// Column widths in terminal cells. Each fits its export.Columns label plus
// the sort marker.
const (
	pidWidth    = 20
	nameWidth   = 24
	statusWidth = 9
	cpuWidth    = 9
	memWidth    = 13

	// DefaultDescWidth is used when terminal width is unknown
	DefaultDescWidth = 40

	// MinDescWidth is the narrowest description column shown
	MinDescWidth = 10

	// descOffset accounts for the checkbox, icon, and columns left of the
	// description, each followed by a space
	descOffset = 7 + pidWidth + nameWidth + statusWidth + cpuWidth + memWidth + 5
)

// View renders the UI
func (m Model) View() string {
	var sb strings.Builder

	// Title with selection count
	title := "Task Manager"
	if m.hostname != "" {
		title += " - " + m.hostname
	}
	if count := m.selectedCount(); count > 0 {
		title += " " + selectedCountStyle.Render(fmt.Sprintf("[%d selected]", count))
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteByte('\n')

	// Search bar
	switch {
	case m.mode == modeSearch || (m.mode == modeNotice && m.notice.returnTo == modeSearch):
		sb.WriteString(searchStyle.Render(m.search.View()))
	case !m.query.IsEmpty():
		sb.WriteString(searchFilterStyle.Render(fmt.Sprintf("filter: %s", m.query)))
	default:
		sb.WriteString(searchStyle.Render("/ to search"))
	}
	sb.WriteByte('\n')

	sb.WriteString(headerStyle.Render(m.headerLine()))
	sb.WriteByte('\n')

	m.writeRows(&sb)

	// Footer counts and countdown
	footer := fmt.Sprintf("Active Total: %d   Showing: %d   Selected: %d",
		m.cache.Len(), len(m.view), m.selectedCount())
	sb.WriteByte('\n')
	if taken := m.cache.Taken(); !taken.IsZero() {
		footer += "   Updated: " + taken.Format("15:04:05")
	}
	sb.WriteString(footerStyle.Render(footer))
	sb.WriteString("   ")
	sb.WriteString(countdownStyle.Render(m.countdown.Label()))
	if r, ok := m.current(); ok && r.Icon != nil {
		sb.WriteString("   ")
		sb.WriteString(descStyle.Render(r.Icon.Glyph + " " + r.Icon.Summary()))
	}
	if m.fetching > 0 {
		sb.WriteString(countdownStyle.Render("   loading..."))
	}

	if m.showEvents {
		m.writeEventLog(&sb)
	}

	switch m.mode {
	case modeConfirm:
		if m.pending != nil {
			sb.WriteByte('\n')
			sb.WriteString(confirmStyle.Render(m.pending.prompt() + " (y/n)"))
		}
	case modeNotice:
		sb.WriteByte('\n')
		body := noticeTitleStyle.Render(m.notice.title) + "\n" + m.notice.body + "\n\n" + helpStyle.UnsetMarginTop().Render("enter ok")
		sb.WriteString(noticeStyle.Render(body))
	case modeExport:
		sb.WriteByte('\n')
		sb.WriteString(searchStyle.Render(m.exportInput.View()))
	}

	// Status message (show for configured duration)
	if m.statusMessage != "" && time.Since(m.statusTime) < StatusDisplayDuration {
		sb.WriteByte('\n')
		sb.WriteString(statusLineStyle(m.statusLevel).Render(m.statusMessage))
	}

	sb.WriteByte('\n')
	sb.WriteString(helpStyle.Render(m.helpLine()))

	return sb.String()
}

// headerLine renders the column labels with the sort marker. The labels are
// the ones exported files use as their header row.
func (m Model) headerLine() string {
	active, asc := m.cache.Order()
	titles := make([]string, len(export.Columns))
	for i, t := range export.Columns {
		if process.SortKeys[i] == active {
			if asc {
				t += " ▲"
			} else {
				t += " ▼"
			}
		}
		titles[i] = t
	}
	return fmt.Sprintf("       %s %s %s %s %s %s",
		truncate(titles[0], pidWidth),
		truncate(titles[1], nameWidth),
		truncate(titles[2], statusWidth),
		truncate(titles[3], cpuWidth),
		truncate(titles[4], memWidth),
		titles[5],
	)
}

func (m Model) descWidth() int {
	if m.width == 0 {
		return DefaultDescWidth
	}
	return max(MinDescWidth, m.width-descOffset)
}

func (m Model) writeRows(sb *strings.Builder) {
	if len(m.view) == 0 {
		switch {
		case !m.loaded && m.lastError == nil:
			sb.WriteString(emptyStyle.Render("Loading..."))
		case !m.query.IsEmpty():
			sb.WriteString(emptyStyle.Render(fmt.Sprintf("No processes match '%s'", m.query)))
		default:
			sb.WriteString(emptyStyle.Render("No processes found"))
		}
		sb.WriteByte('\n')
		return
	}

	end := min(len(m.view), m.offset+m.visibleRows())
	for i := m.offset; i < end; i++ {
		p := m.view[i]
		_, isSelected := m.selected[p.PID]

		checkbox := checkboxUnchecked
		if isSelected {
			checkbox = checkboxChecked
		}
		glyph := " "
		if p.Icon != nil {
			glyph = p.Icon.Glyph
		}

		line := fmt.Sprintf("%s %s %s %s %s %s %s %s",
			checkbox,
			iconStyle.Render(glyph),
			pidStyle.Render(fmt.Sprintf("%-*d", pidWidth, p.PID)),
			nameStyle.Render(truncate(p.Name, nameWidth)),
			statusColStyle.Render(truncate(string(p.Status), statusWidth)),
			numberStyle.Render(fmt.Sprintf("%*.1f", cpuWidth, p.CPU)),
			numberStyle.Render(fmt.Sprintf("%*.2f MB", memWidth-3, p.MemoryMB)),
			descStyle.Render(clip(p.Description(), m.descWidth())),
		)

		switch {
		case i == m.cursor:
			sb.WriteString(selectedStyle.Render(line))
		case isSelected:
			sb.WriteString(checkedStyle.Render(line))
		case p.Status == process.StatusStopped:
			sb.WriteString(stoppedStyle.Render(line))
		default:
			sb.WriteString(normalStyle.Render(line))
		}
		sb.WriteByte('\n')
	}
}

func (m Model) writeEventLog(sb *strings.Builder) {
	start := max(0, len(m.eventLog)-EventLogLines)
	lines := make([]string, 0, EventLogLines)
	for _, e := range m.eventLog[start:] {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s", e.Level, e.Op, e))
	}
	if len(lines) == 0 {
		lines = append(lines, "no events yet")
	}
	sb.WriteByte('\n')
	sb.WriteString(eventLogStyle.Render(strings.Join(lines, "\n")))
}

func statusLineStyle(level process.Level) lipgloss.Style {
	switch level {
	case process.LevelError:
		return errorStatusStyle
	case process.LevelWarn:
		return warnStatusStyle
	}
	return statusStyle
}

func (m Model) helpLine() string {
	switch m.mode {
	case modeSearch:
		return "type to filter • enter keep filter • esc clear"
	case modeExport:
		return "enter save • esc cancel"
	case modeConfirm:
		return "y confirm • n/esc cancel"
	case modeNotice:
		return "enter ok"
	}
	if !m.query.IsEmpty() {
		return "↑/k ↓/j move • space select • d kill • e end task • / search • esc clear filter • q quit"
	}
	return "↑/k ↓/j move • space select • ctrl+a/ctrl+d all/none • d kill • K kill selected • e end task • c copy • x export • 1-6 sort • / search • r refresh • a auto-refresh • l events • q quit"
}
