package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iterlife/expdash/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  rune
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: '1'},
	{Name: "Categories", Key: '2'},
	{Name: "Recent", Key: '3'},
	{Name: "Trend", Key: '4'},
}

// tabLabel is the text of a tab: inactive tabs show their shortcut.
func tabLabel(tab Tab, active bool) (name, hint string) {
	if active {
		return tab.Name, ""
	}
	return tab.Name, "[" + string(tab.Key) + "]"
}

// TabVisualWidth returns the rendered width of a tab, padding included.
func TabVisualWidth(tab Tab, active bool) int {
	name, hint := tabLabel(tab, active)
	return lipgloss.Width(name) + lipgloss.Width(hint) + 2
}

// RenderTabBar renders a one-line tab bar with the given active index.
// Tabs are separated by a single column.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	padStyle := lipgloss.NewStyle().Background(t.Surface)
	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tab.Name)
			continue
		}
		name, hint := tabLabel(tab, false)
		parts[i] = padStyle.Render(" ") + inactiveStyle.Render(name) + keyStyle.Render(hint) + padStyle.Render(" ")
	}

	bar := strings.Join(parts, sepStyle.Render("│"))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(bar)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
