package actions

import (
	"sort"
	"strings"
	"sync"
)

const redacted = "***"

// Masker tracks secret values and redacts them from text.
type Masker struct {
	mu      sync.RWMutex
	secrets []string
}

func NewMasker() *Masker {
	return &Masker{}
}

// Track registers value for redaction. It reports whether value was newly added.
func (m *Masker) Track(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.secrets {
		if s == value {
			return false
		}
	}

	m.secrets = append(m.secrets, value)
	// Longest first so a secret containing another is replaced whole.
	sort.SliceStable(m.secrets, func(i, j int) bool { return len(m.secrets[i]) > len(m.secrets[j]) })
	return true
}

// Redact replaces every tracked secret in s.
func (m *Masker) Redact(s string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, secret := range m.secrets {
		s = strings.ReplaceAll(s, secret, redacted)
	}
	return s
}

func (m *Masker) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.secrets)
}
