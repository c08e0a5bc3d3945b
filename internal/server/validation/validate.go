// Package validation checks and sanitizes user-supplied input before it
// reaches the credential or data stores.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/avetrov/securenote/internal/common"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
	PasswordMinLen = 8
	PasswordMaxLen = 128
)

var (
	usernameRe  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	lowerRe     = regexp.MustCompile(`[a-z]`)
	upperRe     = regexp.MustCompile(`[A-Z]`)
	digitRe     = regexp.MustCompile(`[0-9]`)
	controlRe   = regexp.MustCompile("[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]")
	dangerousRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script[^>]*>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`),
		regexp.MustCompile(`(?i)<iframe[^>]*>`),
		regexp.MustCompile(`(?i)<object[^>]*>`),
		regexp.MustCompile(`(?i)<embed[^>]*>`),
	}
)

// Username validates format and length: 3-50 characters, letters,
// digits, and underscores only, not starting with an underscore.
func Username(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("%w: username is required", common.ErrValidation)
	}
	if len(username) < UsernameMinLen {
		return fmt.Errorf("%w: username must be at least %d characters", common.ErrValidation, UsernameMinLen)
	}
	if len(username) > UsernameMaxLen {
		return fmt.Errorf("%w: username must be at most %d characters", common.ErrValidation, UsernameMaxLen)
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username may only contain letters, digits and underscores", common.ErrValidation)
	}
	if strings.HasPrefix(username, "_") {
		return fmt.Errorf("%w: username must start with a letter or digit", common.ErrValidation)
	}
	return nil
}

// Password validates length and strength: 8-128 characters with at
// least one lowercase letter, one uppercase letter, and one digit.
func Password(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	if len(password) < PasswordMinLen {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, PasswordMinLen)
	}
	if len(password) > PasswordMaxLen {
		return fmt.Errorf("%w: password must be at most %d characters", common.ErrValidation, PasswordMaxLen)
	}

	var missing []string
	if !lowerRe.MatchString(password) {
		missing = append(missing, "a lowercase letter")
	}
	if !upperRe.MatchString(password) {
		missing = append(missing, "an uppercase letter")
	}
	if !digitRe.MatchString(password) {
		missing = append(missing, "a digit")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: password must contain at least %s", common.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Data rejects empty payloads and payloads carrying markup that could be
// replayed into a browser context.
func Data(data string) error {
	if strings.TrimSpace(data) == "" {
		return fmt.Errorf("%w: data is required", common.ErrValidation)
	}
	for _, re := range dangerousRe {
		if re.MatchString(data) {
			return fmt.Errorf("%w: data contains disallowed content", common.ErrValidation)
		}
	}
	return nil
}

// Sanitize strips control characters (keeping tab/newline/CR) and trims
// surrounding whitespace.
func Sanitize(input string) string {
	return strings.TrimSpace(controlRe.ReplaceAllString(input, ""))
}
