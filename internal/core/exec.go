package core

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// fallbackTimeout bounds every fallback command invocation.
const fallbackTimeout = 30 * time.Second

// CommandRunner executes a package-manager command line and returns its
// captured standard output.
type CommandRunner interface {
	Run(ctx context.Context, command string, timeout time.Duration) (string, error)
}

// LookPathFunc reports the resolved path of an executable, mirroring
// exec.LookPath.
type LookPathFunc func(name string) (string, error)

// shellRunner runs commands through the shell. Fallback commands are compound
// lines ("git clone ... && git checkout ..."), so a plain argv exec is not
// enough.
type shellRunner struct{}

func (shellRunner) Run(ctx context.Context, command string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", &CommandError{
			Command: command,
			Err:     fmt.Errorf("command timed out after %s", timeout),
		}
	}
	if err != nil {
		return "", &CommandError{
			Command: command,
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}

	return stdout.String(), nil
}
