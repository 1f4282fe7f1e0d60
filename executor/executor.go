// Package executor runs the external programs that mutate host network state.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/igor04091968/tunswitch/logger"
)

// Runner runs one external program to completion and returns its stdout.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) ([]byte, error)
}

// CommandFailedError reports a program that could not be spawned or exited non-zero.
// Diagnostic holds stderr, or stdout when stderr was empty.
type CommandFailedError struct {
	Program    string
	Args       []string
	Diagnostic string
	Err        error
}

func (e *CommandFailedError) Error() string {
	cmdline := e.Program
	if len(e.Args) > 0 {
		cmdline += " " + strings.Join(e.Args, " ")
	}
	if e.Diagnostic == "" && e.Err != nil {
		return fmt.Sprintf("%s failed with: %v", cmdline, e.Err)
	}
	return fmt.Sprintf("%s failed with: \"%s\"", cmdline, e.Diagnostic)
}

func (e *CommandFailedError) Unwrap() error {
	return e.Err
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, program string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug(program, " ", args)
	if err := cmd.Run(); err != nil {
		diagnostic := stderr.Bytes()
		if len(diagnostic) == 0 {
			diagnostic = stdout.Bytes()
		}
		return nil, &CommandFailedError{
			Program:    program,
			Args:       append([]string(nil), args...),
			Diagnostic: strings.TrimSpace(string(diagnostic)),
			Err:        err,
		}
	}
	return stdout.Bytes(), nil
}
