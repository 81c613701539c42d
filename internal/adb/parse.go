package adb

import (
	"strconv"
	"strings"
)

// parseDeviceList extracts serials from `adb devices` output. The first line
// is the "List of devices attached" header; each following non-blank line
// starts with a serial.
func parseDeviceList(out string) []string {
	lines := strings.Split(out, "\n")
	if len(lines) <= 1 {
		return nil
	}

	var serials []string
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		serials = append(serials, fields[0])
	}

	return serials
}

// parsePackageList splits `pm list packages` output into ids. Each line must
// be of the form package:<id>; lines missing the colon (or the id) are
// returned separately so the caller can trace them.
func parsePackageList(out string) (ids, bad []string) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			bad = append(bad, line)
			continue
		}

		id := strings.TrimSpace(line[idx+1:])
		if id == "" {
			bad = append(bad, line)
			continue
		}

		ids = append(ids, id)
	}

	return ids, bad
}

// parseMajorVersion returns the leading integer of a dotted version string,
// or 0 when it cannot be parsed.
func parseMajorVersion(s string) int {
	head := strings.TrimSpace(s)
	if idx := strings.IndexByte(head, '.'); idx >= 0 {
		head = head[:idx]
	}

	n, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return n
}

// parseFocusPackage extracts the foreground package id from dumpsys window
// output. Only lines carrying the mCurrentFocus marker are considered; the
// id is the text before '/' in the first token containing one.
// Example line: mCurrentFocus=Window{a1b2 u0 com.example.app/com.example.MainActivity}
func parseFocusPackage(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "mCurrentFocus=") {
			continue
		}

		for _, token := range strings.Fields(line) {
			if idx := strings.IndexByte(token, '/'); idx >= 0 {
				return token[:idx]
			}
		}
	}

	return ""
}

// parsePackagePath extracts the first APK path from `pm path` output,
// stripping the literal package: prefix when present.
func parsePackagePath(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.TrimPrefix(line, "package:")
	}

	return ""
}

// parseListedPath extracts the APK path from `pm list packages -f` output.
// Line shape: package:<path>=<id>. The final '=' separates path from id;
// earlier '=' characters can occur inside base64-style install directories.
func parseListedPath(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "package:") {
			continue
		}

		rest := strings.TrimPrefix(line, "package:")
		idx := strings.LastIndexByte(rest, '=')
		if idx <= 0 {
			continue
		}
		return rest[:idx]
	}

	return ""
}

// parseBadgingLabel extracts the quoted value of the first application-label
// line in aapt badging output. Locale-specific variants
// (application-label-en: etc.) are intentionally not matched.
func parseBadgingLabel(out string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "application-label:") {
			continue
		}

		label := strings.TrimPrefix(line, "application-label:")
		return strings.Trim(label, "'\"")
	}

	return ""
}
