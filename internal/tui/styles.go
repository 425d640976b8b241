package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Norgate-AV/akcfg/internal/apps"
)

var (
	// Colors
	Cyan    = lipgloss.Color("86")
	Green   = lipgloss.Color("82")
	Yellow  = lipgloss.Color("226")
	Red     = lipgloss.Color("196")
	Magenta = lipgloss.Color("213")
	Blue    = lipgloss.Color("75")
	Gray    = lipgloss.Color("245")
	DimGray = lipgloss.Color("239")
	White   = lipgloss.Color("255")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Gray)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan)

	NormalStyle = lipgloss.NewStyle().
			Foreground(White)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	PendingStyle = lipgloss.NewStyle().
			Foreground(DimGray).
			Strikethrough(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Gray).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Gray).
			MarginTop(1)

	ModeStyle = lipgloss.NewStyle().
			Width(15)
)

var modeColors = map[apps.Mode]lipgloss.Color{
	apps.ModeFunction:      Yellow,
	apps.ModeHome:          Green,
	apps.ModeWebBrowser:    Blue,
	apps.ModeWebConference: Magenta,
}

// RenderMode renders a fixed-width, colour-coded mode label
func RenderMode(m apps.Mode) string {
	c, ok := modeColors[m]
	if !ok {
		c = Gray
	}

	return ModeStyle.Foreground(c).Render(m.String())
}
