package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Terminal palette (ANSI 256).
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorOK)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	styleKey         = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
)

// classColors colors self-citation classes in summaries.
var classColors = map[string]lipgloss.Color{
	"A":  colorLink,
	"B":  colorWarn,
	"AB": colorOK,
	"S":  colorFail,
}

// marker is a one-glyph status prefix.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markOK   = marker{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markWarn = marker{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo = marker{"›", lipgloss.NewStyle().Foreground(colorLabel)}
)

const iconArrow = "→"

func (m marker) line(body string) string {
	return m.style.Render(m.glyph) + " " + body
}

func printSuccess(format string, args ...any) {
	fmt.Println(markOK.line(fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Println(markWarn.line(StyleWarning.Render(fmt.Sprintf(format, args...))))
}

func printInfo(format string, args ...any) {
	fmt.Println(markInfo.line(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written file.
func printFile(path string) {
	fmt.Printf("  %s %s\n", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the graph size summary.
func printStats(vertices, edges int, density float64) {
	fmt.Println("  " + StyleDim.Render(statsLine(vertices, edges, density)))
}

func statsLine(vertices, edges int, density float64) string {
	return strings.Join([]string{
		plural(vertices, "vertex", "vertices"),
		plural(edges, "edge", "edges"),
		fmt.Sprintf("density %.4f", density),
	}, " · ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Printf("%s %s\n", StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

// renderTable draws rows under headers with a rounded border. The first
// column is rendered as a label.
func renderTable(headers []string, rows [][]string) string {
	label := lipgloss.NewStyle().Foreground(colorLabel)
	plain := lipgloss.NewStyle()
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader
			case col == 0:
				return label
			}
			return plain
		}).
		Render()
}

// truncate shortens s to n runes, ending in an ellipsis when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
