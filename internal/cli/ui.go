package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pkgsmith/pkg/artifacts"
	"github.com/matzehuels/pkgsmith/pkg/registry/resolve"
)

// Color palette.
var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// Shared styles.
var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleOfficial = lipgloss.NewStyle().Foreground(colorGreen)
	styleAUR      = lipgloss.NewStyle().Foreground(colorCyan)
	styleUnknown  = lipgloss.NewStyle().Foreground(colorYellow)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// Icons.
const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints an indented detail line.
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// printSummary prints an artifact collection summary with per-kind counts.
func printSummary(s artifacts.Summary) {
	printSuccess("Collected %s", s.String())
	printDetail("%d moved, %d copied", s.Moved, s.Copied)
}

// printResolution prints one dependency classification line.
func printResolution(r resolve.Resolution) {
	var marker string
	switch r.Source {
	case resolve.SourceOfficial:
		marker = styleOfficial.Render(iconSuccess)
	case resolve.SourceAUR:
		marker = styleAUR.Render(iconInfo)
	default:
		marker = styleUnknown.Render(iconWarning)
	}

	line := fmt.Sprintf("%s %-28s", marker, r.Spec)
	switch r.Source {
	case resolve.SourceUnknown:
		line += " " + StyleDim.Render("not in any registry")
	default:
		where := r.Repo
		if r.Version != "" {
			where += " " + r.Version
		}
		line += " " + StyleDim.Render(where)
		if r.Flagged {
			line += " " + StyleWarning.Render("(out of date)")
		}
	}
	fmt.Println("  " + line)
}

// printResolutions prints classification lines plus a totals row, and
// returns the number of unknown dependencies.
func printResolutions(resolutions []resolve.Resolution) int {
	counts := map[resolve.Source]int{}
	for _, r := range resolutions {
		printResolution(r)
		counts[r.Source]++
	}

	printNewline()
	printDetail("%d official, %d AUR, %d unknown",
		counts[resolve.SourceOfficial], counts[resolve.SourceAUR], counts[resolve.SourceUnknown])
	return counts[resolve.SourceUnknown]
}
