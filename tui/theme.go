package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

var (
	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Background(colorBlue).
		Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorWhite).
		Background(colorSubtle).
		Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder)

	itemStyle = lipgloss.NewStyle().
		PaddingLeft(2)

	cursorStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Foreground(colorBlue).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorBlue)

	unreadStyle  = lipgloss.NewStyle().Bold(true)
	previewStyle = lipgloss.NewStyle().Foreground(colorGray)
	starStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	labelStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).MarginBottom(1)

	noticeStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
)
