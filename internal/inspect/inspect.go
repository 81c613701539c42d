// Package inspect turns raw package-dump text into structured details and
// builds the date-sorted view of user-installed apps.
package inspect

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// dumpTimeLayout is the formatted timestamp dumpsys emits. Devices may
// instead report milliseconds since the epoch; both forms are accepted.
const dumpTimeLayout = "2006-01-02 15:04:05"

// systemPrefixes are reserved namespaces excluded from the user-app view.
var systemPrefixes = []string{"com.android.", "com.google.android.", "android."}

// Details holds the parsed metadata for one installed package. A zero
// InstalledAt/UpdatedAt means the device reported no parseable value.
type Details struct {
	Package     string
	Label       string
	Version     string
	InstalledAt time.Time
	UpdatedAt   time.Time
}

// bridge is the slice of the adb client the inspector consumes.
type bridge interface {
	ListPackages(serial string) ([]string, error)
	PackageDump(serial, id string) (string, error)
	ListedPath(serial, id string) string
	BadgingLabel(serial, apkPath string) string
}

// Inspector fetches and parses package metadata for one device.
type Inspector struct {
	adb    bridge
	serial string
}

// New returns an inspector bound to a device serial.
func New(adb bridge, serial string) *Inspector {
	return &Inspector{adb: adb, serial: serial}
}

// Details inspects a single package. The label lookup is best-effort: any
// failure in the path or badging steps silently leaves the label equal to
// the package id. An error is returned only when the dump call itself fails.
func (i *Inspector) Details(id string) (*Details, error) {
	dump, err := i.adb.PackageDump(i.serial, id)
	if err != nil {
		return nil, err
	}

	d := parseDump(dump)
	d.Package = id
	d.Label = id

	if path := i.adb.ListedPath(i.serial, id); path != "" {
		if label := i.adb.BadgingLabel(i.serial, path); label != "" {
			d.Label = label
		}
	}

	return d, nil
}

// UserApps returns details for every user-installed app, sorted by install
// time descending (stable on ties). Packages in reserved system namespaces,
// packages whose details cannot be fetched, and packages without a parseable
// install timestamp are all excluded. onProgress, when non-nil, is invoked
// after each package is inspected; a detail fetch is one adb round-trip, so
// callers use it to drive a progress bar.
func (i *Inspector) UserApps(onProgress func(done, total int)) ([]*Details, error) {
	ids, err := i.adb.ListPackages(i.serial)
	if err != nil {
		return nil, err
	}

	var candidates []string
	for _, id := range ids {
		if !IsSystemPackage(id) {
			candidates = append(candidates, id)
		}
	}

	var apps []*Details
	for n, id := range candidates {
		d, err := i.Details(id)
		if onProgress != nil {
			onProgress(n+1, len(candidates))
		}
		if err != nil {
			// Recoverable: this package is omitted, the scan continues.
			continue
		}
		if d.InstalledAt.IsZero() {
			continue
		}
		apps = append(apps, d)
	}

	sortByInstallDesc(apps)
	return apps, nil
}

// IsSystemPackage reports whether the id sits in a reserved namespace.
func IsSystemPackage(id string) bool {
	for _, prefix := range systemPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// parseDump scans dumpsys package output for the versionName,
// firstInstallTime and lastUpdateTime markers. The dump repeats sections per
// user, so the first occurrence of each marker wins.
func parseDump(text string) *Details {
	d := &Details{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "versionName="):
			if d.Version == "" {
				d.Version = strings.TrimPrefix(line, "versionName=")
			}
		case strings.HasPrefix(line, "firstInstallTime="):
			if d.InstalledAt.IsZero() {
				d.InstalledAt = parseDumpTime(strings.TrimPrefix(line, "firstInstallTime="))
			}
		case strings.HasPrefix(line, "lastUpdateTime="):
			if d.UpdatedAt.IsZero() {
				d.UpdatedAt = parseDumpTime(strings.TrimPrefix(line, "lastUpdateTime="))
			}
		}
	}

	return d
}

// parseDumpTime parses a dump timestamp value, trying the formatted layout
// first and epoch milliseconds second. Unparseable values yield the zero
// time, never an error.
func parseDumpTime(value string) time.Time {
	value = strings.TrimSpace(value)

	if t, err := time.Parse(dumpTimeLayout, value); err == nil {
		return t
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms)
	}

	return time.Time{}
}

// sortByInstallDesc orders newest install first, keeping input order on ties.
func sortByInstallDesc(apps []*Details) {
	sort.SliceStable(apps, func(a, b int) bool {
		return apps[a].InstalledAt.After(apps[b].InstalledAt)
	})
}
