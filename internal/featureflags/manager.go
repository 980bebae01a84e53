// Package featureflags evaluates runtime switches configured through FEATURE_FLAGS.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// LegacySilentNoop restores the original behaviour where an unknown actor or
// target turns a request into a successful no-op instead of a NotFound error.
const LegacySilentNoop = "legacy_silent_noop"

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "legacy_silent_noop=on,new_feed=25%"
type Manager struct {
	flags map[string]string
}

// NewManager creates a feature-flag manager from a comma-separated config string.
func NewManager(raw string) *Manager {
	out := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out}
}

// Enabled returns whether a flag is on for the given subject id.
// Values: on/true/1, off/false/0, or N% for a deterministic rollout by id.
func (m *Manager) Enabled(name string, subjectID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	switch {
	case err != nil || pct <= 0:
		return false
	case pct >= 100:
		return true
	case subjectID == 0:
		return false
	}
	return rolloutBucket(name, subjectID) < pct
}

// Snapshot returns evaluated flag status for one subject.
func (m *Manager) Snapshot(subjectID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name, subjectID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, subjectID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), subjectID)))
	return int(h.Sum32() % 100)
}
