// Package adb wraps every invocation of the Android Debug Bridge CLI and
// owns the parsing of its text output. Nothing outside this package sees a
// raw adb line except the package dump text consumed by internal/inspect.
package adb

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client invokes the adb binary found on PATH. The zero value is not usable;
// construct with New.
type Client struct {
	path string
	log  zerolog.Logger
}

// New resolves the adb binary and returns a client. A missing binary is a
// startup-fatal condition for every mode.
func New(log zerolog.Logger) (*Client, error) {
	path, err := exec.LookPath("adb")
	if err != nil {
		return nil, fmt.Errorf("adb not found in PATH")
	}

	return &Client{path: path, log: log}, nil
}

// Path returns the resolved location of the adb binary.
func (c *Client) Path() string {
	return c.path
}

// run executes adb with the given arguments and returns raw stdout. Child
// stderr is surfaced in the wrapped error. Calls block until the child
// exits; no timeout is imposed beyond adb's own.
func (c *Client) run(args ...string) (string, error) {
	start := time.Now()
	cmd := exec.Command(c.path, args...)
	output, err := cmd.Output()

	c.log.Debug().
		Strs("args", args).
		Dur("elapsed", time.Since(start)).
		Err(err).
		Msg("adb")

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("adb %s failed: %w (stderr: %s)",
				strings.Join(args, " "), err, string(exitErr.Stderr))
		}
		return "", fmt.Errorf("adb %s failed: %w", strings.Join(args, " "), err)
	}

	return string(output), nil
}

// shell runs a command through the device shell of the given serial.
func (c *Client) shell(serial string, args ...string) (string, error) {
	full := append([]string{"-s", serial, "shell"}, args...)
	return c.run(full...)
}
