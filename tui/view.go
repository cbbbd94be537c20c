package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"techno-machine/sequencer"
)

const energyCells = 10

func (m Model) View() string {
	if m.exiting {
		return ""
	}
	s := m.engine.Snapshot()

	status := lipgloss.JoinVertical(lipgloss.Left, "", m.transportLine(s), m.energyLine(s), "")
	body := m.engine.View()
	pads := m.padHelp.View()

	*m.helpTop = lipgloss.Height(status) + lipgloss.Height(body) + 1

	sections := []string{status, body, "", pads, "", m.footer()}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) transportLine(s sequencer.State) string {
	accent := lipgloss.NewStyle().Foreground(m.theme.Accent())

	state := lipgloss.NewStyle().Foreground(m.theme.Muted()).Render("STOP")
	if s.Playing {
		state = lipgloss.NewStyle().Foreground(m.theme.Success()).Render("PLAY")
	}

	line := accent.Render("techno-machine  ") + state +
		accent.Render(fmt.Sprintf("  %5.1fbpm  swing %.2f  bar %3d  step %02d ", s.Tempo, s.Swing, s.Bar+1, s.Step+1))

	var attached []string
	if m.grid != nil {
		attached = append(attached, "LP:X")
	}
	if m.keys != nil {
		attached = append(attached, "KEYS")
	}
	return line + lipgloss.NewStyle().Foreground(m.theme.Active()).Render(strings.Join(attached, " "))
}

func (m Model) energyLine(s sequencer.State) string {
	filled := min(max(int(s.Energy*energyCells+0.5), 0), energyCells)
	bar := strings.Repeat("▮", filled) + strings.Repeat("▯", energyCells-filled)
	line := lipgloss.NewStyle().Foreground(m.theme.Meter(s.Energy)).Render("energy " + bar)
	if s.Building {
		line += lipgloss.NewStyle().Foreground(m.theme.Warning()).Render("  BUILD")
	}
	return line
}

func (m Model) footer() string {
	keys := lipgloss.NewStyle().Foreground(m.theme.Muted()).Render("tab:view  p:play  +/-:tempo  q:quit")
	if m.hover == "" {
		return keys
	}
	tip := lipgloss.NewStyle().
		Foreground(m.theme.FG()).
		Background(m.theme.Muted()).
		Padding(0, 1).
		Render(m.hover)
	return lipgloss.JoinVertical(lipgloss.Left, keys, tip)
}
