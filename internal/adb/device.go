package adb

import (
	"errors"
	"strings"
)

// errNoDevices matches the case where the wait call succeeds but the device
// list is empty when read back.
var errNoDevices = errors.New("no devices found after connection")

// Version returns the first line of `adb version`, e.g.
// "Android Debug Bridge version 1.0.41".
func (c *Client) Version() (string, error) {
	out, err := c.run("version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(line), nil
}

// CommandPath resolves a command on the device shell via `which`, returning
// "" when the command is absent or the query fails.
func (c *Client) CommandPath(serial, name string) string {
	out, err := c.shell(serial, "which", name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// WaitForDevice blocks until adb reports a connected device, then enumerates
// devices and returns the first serial. Zero devices after a successful wait
// is an error; callers treat any error here as fatal to startup.
func (c *Client) WaitForDevice() (string, error) {
	if _, err := c.run("wait-for-device"); err != nil {
		return "", err
	}

	serials, err := c.Devices()
	if err != nil {
		return "", err
	}
	if len(serials) == 0 {
		return "", errNoDevices
	}

	return serials[0], nil
}

// Devices returns the serials reported by `adb devices`, in listing order.
func (c *Client) Devices() ([]string, error) {
	out, err := c.run("devices")
	if err != nil {
		return nil, err
	}
	return parseDeviceList(out), nil
}

// AndroidMajorVersion returns the leading integer of the device's release
// version property, or 0 when the property is missing or unparseable. It is
// only used to pick the focus-query variant, so 0 safely selects the legacy
// query.
func (c *Client) AndroidMajorVersion(serial string) int {
	out, err := c.shell(serial, "getprop", "ro.build.version.release")
	if err != nil {
		return 0
	}
	return parseMajorVersion(out)
}

// ForegroundPackage returns the package id owning window focus, or "" when
// no focused window is reported or the query fails. Android 10 moved the
// focus line under `dumpsys window displays`.
func (c *Client) ForegroundPackage(serial string) string {
	args := []string{"dumpsys", "window"}
	if c.AndroidMajorVersion(serial) >= 10 {
		args = []string{"dumpsys", "window", "displays"}
	}

	out, err := c.shell(serial, args...)
	if err != nil {
		return ""
	}
	return parseFocusPackage(out)
}
