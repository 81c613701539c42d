// Package app wires the pamuk command surface: the interactive mode menu,
// the catalogue/hunter/list flows, and environment diagnostics.
package app

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gAtrium/pamuk/internal/adb"
	"github.com/gAtrium/pamuk/internal/catalogue"
	"github.com/gAtrium/pamuk/internal/logx"
	"github.com/gAtrium/pamuk/internal/output"
)

// device is the slice of the adb client the interactive flows use.
// *adb.Client satisfies it; tests substitute a scripted fake.
type device interface {
	ListPackages(serial string) ([]string, error)
	Uninstall(serial, id string) bool
	ForegroundPackage(serial string) string
	PullAPK(serial, id, outputDir string) (string, error)
	PackageDump(serial, id string) (string, error)
	ListedPath(serial, id string) string
	BadgingLabel(serial, apkPath string) string
}

// session holds everything an interactive flow needs: the connected device,
// the loaded catalogue, and the terminal streams. Flows are methods on it so
// tests can drive them with scripted input and a buffer for output.
type session struct {
	dev       device
	serial    string
	cat       *catalogue.Catalogue
	catPath   string
	backupDir string
	poll      time.Duration
	in        *bufio.Reader
	out       io.Writer
	log       zerolog.Logger
}

// newSession performs the startup sequence shared by every mode: locate adb,
// load the catalogue, block until a device is connected. Each step is fatal
// on failure.
func newSession() (*session, error) {
	log := logx.New()

	client, err := adb.New(log)
	if err != nil {
		return nil, err
	}

	cat, err := catalogue.Load(cataloguePath)
	if err != nil {
		return nil, fmt.Errorf("loading catalogue: %w", err)
	}

	spinner := output.NewSpinner("Waiting for Android device")
	spinner.Start()
	serial, err := client.WaitForDevice()
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("connecting to device: %w", err)
	}

	fmt.Printf("Connected to device: %s\n", serial)
	log.Info().Str("serial", serial).Msg("device connected")

	return &session{
		dev:       client,
		serial:    serial,
		cat:       cat,
		catPath:   cataloguePath,
		backupDir: backupDir,
		poll:      time.Second,
		in:        bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		log:       log,
	}, nil
}

// readLine reads one line of input with the line ending trimmed. EOF yields
// an empty string.
func (s *session) readLine() string {
	line, _ := s.readCommand()
	return line
}

// readCommand reads one line and reports whether input is still live. ok is
// false once input is exhausted, so prompt loops can terminate instead of
// spinning on EOF. A final unterminated line is still delivered.
func (s *session) readCommand() (line string, ok bool) {
	raw, err := s.in.ReadString('\n')
	line = strings.TrimSpace(raw)
	if err != nil && line == "" {
		return "", false
	}
	return line, true
}

// confirm prints a prompt and reads the answer. Only "y" (case-insensitive)
// counts as assent; anything else, including an empty line, declines.
func (s *session) confirm(prompt string) bool {
	fmt.Fprint(s.out, prompt)
	return strings.EqualFold(s.readLine(), "y")
}

// readLines pumps input lines into a channel so the hunter loop can wait on
// an answer and the interrupt signal at the same time. The channel closes
// once input reaches EOF.
func (s *session) readLines() chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := s.in.ReadString('\n')
			if err != nil {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					lines <- trimmed
				}
				return
			}
			lines <- strings.TrimSpace(line)
		}
	}()
	return lines
}

// recordUninstall appends a successfully removed package to the catalogue
// under the default category and persists the file. First-time additions
// print the contribution notice; a package already in the catalogue is left
// alone. Persistence failures are reported but never fatal.
func (s *session) recordUninstall(id string) {
	if !s.cat.Add(catalogue.DefaultCategory, id) {
		return
	}

	if err := s.cat.Save(s.catPath); err != nil {
		fmt.Fprintf(s.out, "Error updating catalogue: %v\n", err)
		s.log.Warn().Err(err).Str("package", id).Msg("catalogue save failed")
		return
	}

	fmt.Fprintf(s.out, "\nPackage %s has been added to the catalogue under '%s'\n", id, catalogue.DefaultCategory)
	fmt.Fprintln(s.out, "Please consider opening an issue at github.com/gAtrium/pamuk")
	fmt.Fprintln(s.out, "to help include this package in the official repository.")
}

// reloadCatalogue re-reads the catalogue file after an external edit so a
// later append does not clobber it. A fresh load that fails keeps the
// in-memory state.
func (s *session) reloadCatalogue() {
	fresh, err := catalogue.Load(s.catPath)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.catPath).Msg("catalogue reload failed")
		return
	}
	s.cat = fresh
	s.log.Debug().Str("path", s.catPath).Msg("catalogue reloaded")
}
