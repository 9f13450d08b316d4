package wifi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dserrors "github.com/systmms/wifikeys/internal/errors"
	pkgexec "github.com/systmms/wifikeys/pkg/exec"
)

// Error kinds, matched with errors.Is
var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrCommandUnavailable  = errors.New("command unavailable")
	ErrAccessDenied        = errors.New("access denied")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrCommandFailed       = errors.New("command failed")
	ErrParseMiss           = errors.New("expected field not found")
)

// commandFailure turns a failed enumeration command into a reportable diagnostic.
// kind classifies non-zero exits; a missing binary is always ErrCommandUnavailable.
func commandFailure(inv pkgexec.Invocation, message, suggestion string, kind error) error {
	line := strings.TrimSpace(inv.Command + " " + strings.Join(inv.Args, " "))

	if pkgexec.IsNotFound(inv.Err) {
		notFound := dserrors.WrapCommandNotFound(inv.Command, inv.Err)
		return dserrors.UserError{
			Message:    message,
			Suggestion: notFound.(dserrors.CommandError).Suggestion,
			Err:        fmt.Errorf("%w: %w", ErrCommandUnavailable, notFound),
		}
	}

	details := strings.TrimSpace(string(inv.Stderr))
	if details == "" {
		details = strings.TrimSpace(string(inv.Stdout))
	}
	if errors.Is(inv.Err, context.DeadlineExceeded) {
		details = inv.Err.Error()
	}

	return dserrors.UserError{
		Message:    message,
		Details:    details,
		Suggestion: suggestion,
		Err: fmt.Errorf("%w: %w", kind, dserrors.CommandError{
			Command:  line,
			ExitCode: inv.ExitCode,
			Err:      inv.Err,
		}),
	}
}
