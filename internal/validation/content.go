package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxUserNameLength matches the users.name column width.
const MaxUserNameLength = 64

// NormalizeUserName trims name and checks it fits the users.name column.
func NormalizeUserName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required")
	}
	if utf8.RuneCountInString(name) > MaxUserNameLength {
		return "", fmt.Errorf("name must be at most %d characters", MaxUserNameLength)
	}
	if strings.ContainsFunc(name, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return "", fmt.Errorf("name cannot contain control characters")
	}
	return name, nil
}

// ValidateTweetData rejects empty or whitespace-only tweet bodies.
func ValidateTweetData(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("tweet_data is required")
	}
	return nil
}
