// Package output provides terminal output utilities for pamuk.
//
// This package includes:
//   - Table rendering for the paginated app list
//   - Progress bars for long-running operations
//   - Spinners for indeterminate operations
//   - Human-readable formatting for dates and other data
//
// All table rendering functions use ASCII characters and ANSI color codes for terminal output.
// Progress indicators are thread-safe and can be used from multiple goroutines.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/gAtrium/pamuk/internal/inspect"
)

// ANSI color codes for table display
const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderAppPage renders one page of the installation-date-sorted app list.
// startIndex is the zero-based offset of the first row within the full list;
// the index column shows global 1-based positions so a number typed at the
// uninstall prompt means the same app on every page.
func RenderAppPage(apps []*inspect.Details, startIndex int) string {
	if len(apps) == 0 {
		return "No user-installed apps found.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("%-5s %-22s %-34s %-12s %-17s %s\n",
		"#", "Label", "Package", "Version", "Installed", "Updated"))
	sb.WriteString(strings.Repeat("─", 104))
	sb.WriteString("\n")

	// Rows
	for n, app := range apps {
		pkg := fmt.Sprintf("%-34s", truncate(app.Package, 34))
		if IsColorEnabled() {
			pkg = colorGray + pkg + colorReset
		}

		sb.WriteString(fmt.Sprintf("%-5d %-22s %s %-12s %-17s %s\n",
			startIndex+n+1,
			truncate(app.Label, 22),
			pkg,
			truncate(app.Version, 12),
			formatInstallTime(app.InstalledAt),
			formatRelativeTime(app.UpdatedAt)))
	}

	return sb.String()
}

// RenderPageFooter renders the pagination line shown under the app table.
func RenderPageFooter(page, totalPages, totalApps int) string {
	pages := fmt.Sprintf("Page %d of %d", page, totalPages)
	return fmt.Sprintf("%s (%d apps)\n", colorize(colorCyan, pages), totalApps)
}

// formatInstallTime renders the absolute install timestamp. Apps whose
// dumpsys block carried no parseable firstInstallTime show "unknown".
func formatInstallTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("2006-01-02 15:04")
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case diff < 30*24*time.Hour:
		weeks := int(diff.Hours() / 24 / 7)
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	case diff < 365*24*time.Hour:
		months := int(diff.Hours() / 24 / 30)
		if months == 1 {
			return "1 month ago"
		}
		return fmt.Sprintf("%d months ago", months)
	default:
		years := int(diff.Hours() / 24 / 365)
		if years == 1 {
			return "1 year ago"
		}
		return fmt.Sprintf("%d years ago", years)
	}
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
