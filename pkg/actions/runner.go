package actions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/nuget/login/pkg/api"
	"github.com/nuget/login/pkg/ci"
	"github.com/nuget/login/pkg/debuglog"
	"github.com/nuget/login/pkg/helpers"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const OutputFileEnv = "GITHUB_OUTPUT"

// Runner is the boundary to the Actions runner: it owns the secret masker,
// the console logger, and step outputs.
type Runner struct {
	out        io.Writer
	outputPath string
	workflow   bool

	masker *Masker
	logger *logrus.Logger
}

type RunnerOptions struct {
	// OutputPath is the file step outputs are appended to. When empty, outputs
	// are written to Out as set-output commands, in workflow mode only.
	OutputPath string
	// Workflow enables workflow commands (add-mask, debug, warning, error).
	Workflow bool
	// LogOutput receives log lines outside workflow mode. Defaults to Out.
	LogOutput io.Writer
	Color     bool
	Debug     bool
}

func NewRunner(out io.Writer, opts RunnerOptions) *Runner {
	masker := NewMasker()

	var formatter logrus.Formatter = &ConsoleFormatter{Color: opts.Color}
	logOutput := opts.LogOutput
	if opts.Workflow || logOutput == nil {
		logOutput = out
	}
	if opts.Workflow {
		formatter = &CommandFormatter{}
	}

	logger := logrus.New()
	logger.SetOutput(logOutput)
	logger.SetFormatter(&MaskingFormatter{Formatter: formatter, Masker: masker})
	logger.SetLevel(logrus.InfoLevel)
	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	return &Runner{
		out:        out,
		outputPath: opts.OutputPath,
		workflow:   opts.Workflow,
		masker:     masker,
		logger:     logger,
	}
}

// NewRunnerFromEnv selects workflow mode inside GitHub Actions. Elsewhere log
// lines go to stderr.
func NewRunnerFromEnv(stdout, stderr io.Writer) *Runner {
	name, _ := ci.Provider()
	workflow := name == ci.GitHubActions
	return NewRunner(stdout, RunnerOptions{
		OutputPath: os.Getenv(OutputFileEnv),
		Workflow:   workflow,
		LogOutput:  stderr,
		Color:      !workflow && helpers.IsTerminal(),
		Debug:      debuglog.Enabled(),
	})
}

func (r *Runner) Logger() *logrus.Logger {
	return r.logger
}

func (r *Runner) Masker() *Masker {
	return r.masker
}

// SetSecret masks value in this process's log output and, inside Actions,
// asks the runner to mask it in the job log.
func (r *Runner) SetSecret(value string) {
	if !r.masker.Track(value) {
		return
	}
	if r.workflow {
		fmt.Fprintln(r.out, Command{Name: "add-mask", Message: value}.String())
	}
}

// SetOutput publishes a step output.
func (r *Runner) SetOutput(name, value string) error {
	if r.outputPath == "" {
		if !r.workflow {
			return api.NewConfigurationError("no step output available: %s is not set", OutputFileEnv)
		}
		fmt.Fprintln(r.out, Command{Name: "set-output", Properties: map[string]string{"name": name}, Message: value}.String())
		return nil
	}

	message, err := keyValueMessage(name, value, "ghadelimiter_"+uuid.NewString())
	if err != nil {
		return err
	}

	if _, err := os.Stat(r.outputPath); err != nil {
		return errors.Wrapf(err, "missing file at path %s", r.outputPath)
	}

	f, err := os.OpenFile(r.outputPath, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return errors.Wrap(err, "opening output file")
	}
	defer f.Close()

	if _, err := io.WriteString(f, message); err != nil {
		return errors.Wrap(err, "writing output file")
	}
	return nil
}

// SetFailed reports the terminal error of the step.
func (r *Runner) SetFailed(err error) {
	if err == nil {
		return
	}
	r.logger.Error(err.Error())
}

func keyValueMessage(key, value, delimiter string) (string, error) {
	if strings.Contains(key, delimiter) {
		return "", fmt.Errorf("unexpected input: name should not contain the delimiter %q", delimiter)
	}
	if strings.Contains(value, delimiter) {
		return "", fmt.Errorf("unexpected input: value should not contain the delimiter %q", delimiter)
	}
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", key, delimiter, value, delimiter), nil
}
