package app

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gAtrium/pamuk/internal/catalogue"
)

var hunterCmd = &cobra.Command{
	Use:   "hunter",
	Short: "Watch the foreground app and uninstall on demand",
	Long: `Polls the device once per second for the app holding window focus.
Each newly observed app triggers an uninstall prompt; confirmed kills are
appended to the catalogue under the 'hunter' category and saved, so the
next catalogue run removes them automatically.

Press Ctrl+C to leave the watch.

Examples:
  # Hunt down bloatware by opening it on the device
  pamuk hunter`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		return s.runHunter()
	},
}

func init() {
	RootCmd.AddCommand(hunterCmd)
}

// notifyInterrupt installs the hunter-mode interrupt handler and returns the
// signal channel plus its teardown. Swapped out in tests.
var notifyInterrupt = func() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return ch, func() { signal.Stop(ch) }
}

// runHunter polls the foreground package once per poll interval and prompts
// for uninstall whenever it changes. The loop owns the interrupt handler for
// its lifetime; Ctrl+C exits cleanly whether the loop is idling or waiting
// at a prompt.
func (s *session) runHunter() error {
	sig, stop := notifyInterrupt()
	defer stop()

	fmt.Fprintln(s.out, "Entering hunter mode (Press Ctrl+C to exit)...")
	fmt.Fprintln(s.out, "Monitoring current app...")

	// Reload the catalogue on external edits so the next append does not
	// clobber them. A nil channel never fires, so a failed watcher just
	// disables reloads.
	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	watcher, err := catalogue.NewWatcher(s.catPath)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.catPath).Msg("catalogue watch unavailable")
	} else {
		defer watcher.Close()
		events = watcher.Events()
		watchErrs = watcher.Errors()
	}

	lines := s.readLines()

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	lastPackage := ""
	for {
		select {
		case <-sig:
			fmt.Fprintln(s.out, "\nExiting hunter mode...")
			return nil

		case ev := <-events:
			if watcher.Relevant(ev) {
				s.reloadCatalogue()
			}

		case err := <-watchErrs:
			s.log.Warn().Err(err).Msg("catalogue watch error")

		case <-ticker.C:
			current := s.dev.ForegroundPackage(s.serial)
			if current == "" || current == lastPackage {
				continue
			}
			lastPackage = current

			fmt.Fprintf(s.out, "\nCurrent app: %s\n", current)
			fmt.Fprint(s.out, "Uninstall this app? (y/N): ")

			select {
			case <-sig:
				fmt.Fprintln(s.out, "\nExiting hunter mode...")
				return nil

			case line, ok := <-lines:
				if !ok {
					// Input is gone; treat as decline and stop prompting.
					lines = nil
					line = ""
				}
				if strings.EqualFold(line, "y") {
					if s.dev.Uninstall(s.serial, current) {
						fmt.Fprintln(s.out, "Successfully uninstalled.")
						s.recordUninstall(current)
					} else {
						fmt.Fprintln(s.out, "Failed to uninstall.")
					}
				} else {
					fmt.Fprintln(s.out, "Continuing the watch...")
				}
			}
		}
	}
}
