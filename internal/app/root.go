package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cataloguePath string
	backupDir     string

	// RootCmd is the root command for pamuk
	RootCmd = &cobra.Command{
		Use:   "pamuk",
		Short: "Interactive Android debloater driven by adb",
		Long: `pamuk removes unwanted packages from a connected Android device
over adb. It waits for a device, then offers three interactive modes:

  1. Catalogue mode — cross-reference installed packages against a
     catalogue of known bloatware and batch-uninstall the matches.
  2. Hunter mode — watch the foreground app and offer to uninstall each
     newly opened one. Confirmed kills are added to the catalogue.
  3. List mode — browse user-installed apps sorted by install date, with
     per-app uninstall and APK backup.

The catalogue is a plain YAML file (catalogue.yaml by default) that you
can edit by hand; category order and package order are preserved.

Examples:
  # Fully interactive: pick a mode at the prompt
  pamuk

  # Jump straight into one mode
  pamuk catalogue
  pamuk hunter
  pamuk list

  # Use a different catalogue file
  pamuk --catalogue my-catalogue.yaml

  # Check that adb and the device are ready
  pamuk doctor`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInteractive,
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&cataloguePath, "catalogue", "catalogue.yaml", "catalogue file path")
	RootCmd.PersistentFlags().StringVar(&backupDir, "backup-dir", "apk_backups", "directory for APK backups")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// runInteractive is the bare invocation: connect, then ask for a mode.
func runInteractive(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	return s.runMenu()
}

// runMenu asks for a mode and dispatches. Hunter and list mode need an
// explicit choice; everything else falls through to catalogue mode.
func (s *session) runMenu() error {
	fmt.Fprintln(s.out, "\nSelect mode:")
	fmt.Fprintln(s.out, "1. Catalogue mode (check against known packages)")
	fmt.Fprintln(s.out, "2. Hunter mode (monitor current app)")
	fmt.Fprintln(s.out, "3. List mode (browse apps by install date)")
	fmt.Fprint(s.out, "Enter mode (1/2/3): ")

	switch s.readLine() {
	case "2":
		return s.runHunter()
	case "3":
		return s.runList()
	default:
		return s.runCatalogue()
	}
}
