package execshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

const environmentAssignmentSeparatorConstant = "="

// OSCommandRunner runs shell commands through os/exec.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by the operating system.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the command and waits for it to finish. A nonzero exit is not an
// error at this layer; the exit code travels back inside the ExecutionResult
// and only spawn failures surface as errors.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	processHandle := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	processHandle.Dir = command.Details.WorkingDirectory
	processHandle.Env = mergedEnvironment(command.Details.EnvironmentVariables)

	var capturedStdout bytes.Buffer
	var capturedStderr bytes.Buffer
	processHandle.Stdout = &capturedStdout
	processHandle.Stderr = &capturedStderr
	if len(command.Details.StandardInput) > 0 {
		processHandle.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := processHandle.Run()

	capturedResult := ExecutionResult{
		StandardOutput: capturedStdout.String(),
		StandardError:  capturedStderr.String(),
	}

	if runError != nil {
		exitFailure := &exec.ExitError{}
		if !errors.As(runError, &exitFailure) {
			return ExecutionResult{}, runError
		}
		capturedResult.ExitCode = exitFailure.ExitCode()
	}

	return capturedResult, nil
}

// mergedEnvironment layers the per-command variables over the inherited
// process environment. A nil map keeps exec's default inheritance.
func mergedEnvironment(environmentVariables map[string]string) []string {
	if len(environmentVariables) == 0 {
		return nil
	}

	merged := append([]string{}, os.Environ()...)
	for variableName, variableValue := range environmentVariables {
		merged = append(merged, variableName+environmentAssignmentSeparatorConstant+variableValue)
	}
	return merged
}
