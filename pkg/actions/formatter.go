package actions

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

var (
	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// CommandFormatter renders log entries as workflow commands so the runner
// annotates warnings and errors and hides debug lines unless step debugging is on.
type CommandFormatter struct{}

func (f *CommandFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	message := entry.Message + formatFields(entry.Data)

	var line string
	switch entry.Level {
	case logrus.TraceLevel, logrus.DebugLevel:
		line = Command{Name: "debug", Message: message}.String()
	case logrus.WarnLevel:
		line = Command{Name: "warning", Message: message}.String()
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		line = Command{Name: "error", Message: message}.String()
	default:
		line = message
	}

	return []byte(line + "\n"), nil
}

// ConsoleFormatter is used outside of Actions, on terminals and plain pipes alike.
type ConsoleFormatter struct {
	Color bool
}

func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	message := entry.Message + formatFields(entry.Data)

	var prefix string
	var style lipgloss.Style
	switch entry.Level {
	case logrus.TraceLevel, logrus.DebugLevel:
		prefix, style = "debug: ", debugStyle
	case logrus.WarnLevel:
		prefix, style = "warning: ", warnStyle
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		prefix, style = "error: ", errorStyle
	default:
		style = infoStyle
	}

	line := prefix + message
	if f.Color {
		line = style.Render(line)
	}
	return []byte(line + "\n"), nil
}

// MaskingFormatter redacts tracked secrets from everything the wrapped formatter emits.
type MaskingFormatter struct {
	Formatter logrus.Formatter
	Masker    *Masker
}

func (f *MaskingFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	out, err := f.Formatter.Format(entry)
	if err != nil {
		return nil, err
	}
	if f.Masker == nil || f.Masker.Len() == 0 {
		return out, nil
	}
	return []byte(f.Masker.Redact(string(out))), nil
}

func formatFields(data logrus.Fields) string {
	if len(data) == 0 {
		return ""
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, data[k])
	}
	return b.String()
}
