package actions

import (
	"fmt"
	"sort"
	"strings"
)

// Command is a GitHub Actions workflow command, written to stdout as
// ::name key=value,...::message
type Command struct {
	Name       string
	Properties map[string]string
	Message    string
}

func (c Command) String() string {
	var b strings.Builder
	b.WriteString("::")
	b.WriteString(c.Name)

	if len(c.Properties) > 0 {
		keys := make([]string, 0, len(c.Properties))
		for k := range c.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString(" ")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "%s=%s", k, escapeProperty(c.Properties[k]))
		}
	}

	b.WriteString("::")
	b.WriteString(escapeData(c.Message))
	return b.String()
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

func escapeProperty(s string) string {
	s = escapeData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}
