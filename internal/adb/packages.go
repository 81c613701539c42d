package adb

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// backupTimestampLayout names APK backup files down to the second, matching
// <id>_YYYYMMDD_HHMMSS.apk.
const backupTimestampLayout = "20060102_150405"

// ListPackages returns the installed package ids in the order the device
// reports them. Lines that do not carry the package:<id> shape are dropped
// individually and traced in the debug log.
func (c *Client) ListPackages(serial string) ([]string, error) {
	out, err := c.shell(serial, "pm", "list", "packages")
	if err != nil {
		return nil, err
	}

	ids, bad := parsePackageList(out)
	for _, line := range bad {
		c.log.Warn().Str("line", line).Msg("skipping unparseable package line")
	}

	return ids, nil
}

// Uninstall removes a package from the device. The outcome collapses to a
// boolean: any non-zero exit is a failure, and no error crosses this
// boundary.
func (c *Client) Uninstall(serial, id string) bool {
	_, err := c.shell(serial, "pm", "uninstall", id)
	return err == nil
}

// PackagePath resolves the on-device APK path for a package via `pm path`.
func (c *Client) PackagePath(serial, id string) (string, error) {
	out, err := c.shell(serial, "pm", "path", id)
	if err != nil {
		return "", fmt.Errorf("resolving path for %s: %w", id, err)
	}

	path := parsePackagePath(out)
	if path == "" {
		return "", fmt.Errorf("no path reported for %s", id)
	}

	return path, nil
}

// ListedPath resolves the APK path via the `pm list packages -f` listing.
// Used by the label lookup, which tolerates an empty result.
func (c *Client) ListedPath(serial, id string) string {
	out, err := c.shell(serial, "pm", "list", "packages", "-f", id)
	if err != nil {
		return ""
	}
	return parseListedPath(out)
}

// BadgingLabel reads the application label from aapt badging output on the
// device shell. Many devices ship without aapt; every failure collapses to
// "" so the caller can fall back to the package id.
func (c *Client) BadgingLabel(serial, apkPath string) string {
	out, err := c.shell(serial, "aapt", "dump", "badging", apkPath)
	if err != nil {
		return ""
	}
	return parseBadgingLabel(out)
}

// PackageDump returns raw `dumpsys package` output for one package.
func (c *Client) PackageDump(serial, id string) (string, error) {
	out, err := c.shell(serial, "dumpsys", "package", id)
	if err != nil {
		return "", fmt.Errorf("dumping package %s: %w", id, err)
	}
	return out, nil
}

// PullAPK copies a package's APK into outputDir, creating the directory if
// needed, and returns the local path. The output file is stat-verified
// before the pull is reported as successful.
func (c *Client) PullAPK(serial, id, outputDir string) (string, error) {
	remote, err := c.PackagePath(serial, id)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	timestamp := time.Now().Format(backupTimestampLayout)
	local := filepath.Join(outputDir, fmt.Sprintf("%s_%s.apk", id, timestamp))

	if _, err := c.run("-s", serial, "pull", remote, local); err != nil {
		return "", fmt.Errorf("pulling %s: %w", id, err)
	}

	if _, err := os.Stat(local); err != nil {
		return "", fmt.Errorf("pull reported success but %s is missing", local)
	}

	return local, nil
}
