package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gAtrium/pamuk/internal/adb"
	"github.com/gAtrium/pamuk/internal/catalogue"
	"github.com/gAtrium/pamuk/internal/logx"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common issues and check the environment",
	Long: `Runs diagnostic checks on the pamuk environment.

Checks:
  • adb is on PATH and reports a version
  • A device is connected
  • aapt is available on the device (app labels in list mode)
  • The catalogue file loads`,
	RunE: runDoctor,
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("Running pamuk diagnostics...")
	fmt.Println()

	// Critical and warning issues are tracked separately: criticals fail the
	// command, warnings alone exit with code 2.
	criticalIssues := 0
	warningIssues := 0

	// Check 1: adb on PATH
	client, err := adb.New(logx.New())
	if err != nil {
		fmt.Println("✗ adb not found in PATH")
		fmt.Println("  Action: Install Android platform-tools and add adb to PATH")
		criticalIssues++
	} else {
		fmt.Println("✓ adb found:", client.Path())

		// Check 2: adb version
		version, err := client.Version()
		if err != nil {
			fmt.Println("⚠ Cannot read adb version:", err)
			warningIssues++
		} else {
			fmt.Println("✓", version)
		}

		// Check 3: device connected. Warning only, the interactive modes
		// block until one appears anyway.
		devices, err := client.Devices()
		if err != nil {
			fmt.Println("✗ Cannot list devices:", err)
			criticalIssues++
		} else if len(devices) == 0 {
			fmt.Println("⚠ No device connected")
			fmt.Println("  Action: Connect a device with USB debugging enabled")
			warningIssues++
		} else {
			serial := devices[0]
			if major := client.AndroidMajorVersion(serial); major > 0 {
				fmt.Printf("✓ Device connected: %s (Android %d)\n", serial, major)
			} else {
				fmt.Printf("✓ Device connected: %s\n", serial)
			}

			// Check 4: on-device aapt, warning only
			if aapt := client.CommandPath(serial, "aapt"); aapt == "" {
				fmt.Println("⚠ aapt not available on device")
				fmt.Println("  App labels in list mode will fall back to package ids")
				warningIssues++
			} else {
				fmt.Println("✓ aapt available on device:", aapt)
			}
		}
	}

	// Check 5: catalogue file loads
	cat, err := catalogue.Load(cataloguePath)
	if err != nil {
		fmt.Println("✗ Cannot load catalogue:", err)
		fmt.Printf("  Action: Create %s or point --catalogue at an existing file\n", cataloguePath)
		criticalIssues++
	} else {
		categories, packages := cat.Counts()
		fmt.Printf("✓ Catalogue loaded: %d categories, %d packages\n", categories, packages)
	}

	fmt.Println()
	if criticalIssues == 0 && warningIssues == 0 {
		fmt.Println("✓ All checks passed!")
		return nil
	}

	if criticalIssues > 0 {
		fmt.Printf("Found %d critical issue(s) and %d warning(s).\n", criticalIssues, warningIssues)
		return fmt.Errorf("diagnostics failed")
	}

	// Warning-only path: exit 2 directly so main's error handler is never
	// reached and the message is not printed twice.
	fmt.Printf("Found %d warning(s). pamuk will run, but some features may be degraded.\n", warningIssues)
	os.Exit(2)
	return nil // unreachable; satisfies compiler
}
