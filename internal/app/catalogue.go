package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "Uninstall installed packages that match the catalogue",
	Long: `Cross-references the packages installed on the device against the
catalogue and batch-uninstalls the matches after one confirmation.

Matches are reported as [category] package.id in catalogue order. If
nothing matches, pamuk offers to switch into hunter mode instead.

Examples:
  # Check the device against catalogue.yaml
  pamuk catalogue

  # Check against a custom catalogue
  pamuk catalogue --catalogue work-profile.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		return s.runCatalogue()
	},
}

func init() {
	RootCmd.AddCommand(catalogueCmd)
}

// runCatalogue is the catalogue-match flow: report every installed package
// the catalogue knows about, then batch-uninstall on a single confirmation.
// Individual uninstall failures are reported and never stop the batch.
func (s *session) runCatalogue() error {
	installed, err := s.dev.ListPackages(s.serial)
	if err != nil {
		return fmt.Errorf("listing installed packages: %w", err)
	}

	matches := s.cat.Matches(installed)
	for _, m := range matches {
		fmt.Fprintf(s.out, "[%s] %s\n", m.Category, m.Package)
	}

	if len(matches) == 0 {
		fmt.Fprintln(s.out, "No matching packages found.")
		if s.confirm("Would you like to switch to hunter mode to detect running apps? (y/N): ") {
			return s.runHunter()
		}
		return nil
	}

	if !s.confirm("\nDo you want to uninstall these packages? (y/N): ") {
		fmt.Fprintln(s.out, "Operation cancelled.")
		return nil
	}

	fmt.Fprintln(s.out, "\nUninstalling packages...")
	for _, m := range matches {
		fmt.Fprintf(s.out, "Uninstalling [%s] %s... ", m.Category, m.Package)
		if s.dev.Uninstall(s.serial, m.Package) {
			fmt.Fprintln(s.out, "Success")
		} else {
			fmt.Fprintln(s.out, "Failed")
		}
	}

	return nil
}
