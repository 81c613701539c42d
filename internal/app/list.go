package app

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gAtrium/pamuk/internal/inspect"
	"github.com/gAtrium/pamuk/internal/output"
)

// pageSize is the fixed number of apps shown per page.
const pageSize = 10

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Browse user-installed apps sorted by install date",
	Long: `Scans every user-installed package on the device (one adb round-trip
per package) and lists them newest-install-first, ten per page.

Apps are uninstalled by their list number, optionally after pulling the
APK into the backup directory so the app can be restored later.

Commands at the prompt:
  n, next    next page
  p, prev    previous page
  u          uninstall an app by number
  b          back up the APK, then uninstall
  q, quit    leave list mode

Examples:
  # Browse and prune recently installed apps
  pamuk list

  # Keep APK backups somewhere else
  pamuk list --backup-dir /tmp/apks`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		return s.runList()
	},
}

func init() {
	RootCmd.AddCommand(listCmd)
}

// runList scans user apps and drives the paginated browse/uninstall loop.
func (s *session) runList() error {
	insp := inspect.New(s.dev, s.serial)

	var bar *output.ProgressBar
	apps, err := insp.UserApps(func(done, total int) {
		if bar == nil {
			bar = output.NewProgress(total, "Inspecting packages")
			bar.SetWriter(s.out)
		}
		bar.SetCurrent(done)
	})
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("scanning installed apps: %w", err)
	}

	page := 1
	s.renderPage(apps, page)
	s.printListMenu()

	for {
		fmt.Fprint(s.out, "Enter command (n/p/u/b/q): ")
		cmd, ok := s.readCommand()
		if !ok {
			return nil
		}
		switch cmd {
		case "n", "next":
			page = clampPage(page+1, totalPages(len(apps)))
			s.renderPage(apps, page)
		case "p", "prev":
			page = clampPage(page-1, totalPages(len(apps)))
			s.renderPage(apps, page)
		case "u", "uninstall":
			apps, page = s.uninstallByIndex(apps, page, false)
		case "b", "backup":
			apps, page = s.uninstallByIndex(apps, page, true)
		case "q", "quit":
			return nil
		default:
			s.printListMenu()
		}
	}
}

// uninstallByIndex prompts for a 1-based app number, confirms, and removes
// the app, optionally pulling its APK first. Invalid numbers and failed
// pulls leave the list untouched. Returns the updated list and page.
func (s *session) uninstallByIndex(apps []*inspect.Details, page int, backup bool) ([]*inspect.Details, int) {
	fmt.Fprint(s.out, "Enter app number: ")
	raw := s.readLine()
	index, err := strconv.Atoi(raw)
	if err != nil || index < 1 || index > len(apps) {
		fmt.Fprintf(s.out, "Invalid app number: %s\n", raw)
		s.printListMenu()
		return apps, page
	}

	app := apps[index-1]
	action := "Uninstall"
	if backup {
		action = "Backup and uninstall"
	}
	if !s.confirm(fmt.Sprintf("%s %s (%s)? (y/N): ", action, app.Label, app.Package)) {
		fmt.Fprintln(s.out, "Operation cancelled.")
		return apps, page
	}

	if backup {
		path, err := s.dev.PullAPK(s.serial, app.Package, s.backupDir)
		if err != nil {
			fmt.Fprintf(s.out, "Error backing up APK: %v\n", err)
			return apps, page
		}
		fmt.Fprintf(s.out, "APK saved to %s\n", path)
	}

	if !s.dev.Uninstall(s.serial, app.Package) {
		fmt.Fprintln(s.out, "Failed to uninstall.")
		return apps, page
	}
	fmt.Fprintln(s.out, "Successfully uninstalled.")
	s.recordUninstall(app.Package)

	apps = append(apps[:index-1], apps[index:]...)
	page = clampPage(page, totalPages(len(apps)))
	s.renderPage(apps, page)
	return apps, page
}

// renderPage prints the current page of the app table with its footer.
func (s *session) renderPage(apps []*inspect.Details, page int) {
	start, end := pageBounds(page, len(apps))
	fmt.Fprint(s.out, output.RenderAppPage(apps[start:end], start))
	fmt.Fprint(s.out, output.RenderPageFooter(page, totalPages(len(apps)), len(apps)))
}

func (s *session) printListMenu() {
	fmt.Fprintln(s.out, "Commands: [n]ext page, [p]rev page, [u]ninstall, [b]ackup and uninstall, [q]uit")
}

// totalPages returns the page count for n apps; an empty list still has one
// (empty) page.
func totalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// clampPage bounds a requested page to [1, total], making out-of-range
// next/prev requests no-ops.
func clampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// pageBounds returns the half-open slice bounds of a page over n apps.
func pageBounds(page, n int) (int, int) {
	start := (page - 1) * pageSize
	if start > n {
		start = n
	}
	end := start + pageSize
	if end > n {
		end = n
	}
	return start, end
}
