package logging

import (
	"fmt"
	"io"
	"os"
)

// Operator-facing reconciliation output. Progress and outcome lines go
// through these helpers; structured records go through the slog handlers
// configured by Setup.

const (
	glyphInfo    = "ℹ"
	glyphSuccess = "✓"
	glyphWarning = "⚠"
	glyphError   = "✗"
)

// UserOut and UserErr are the operator streams. Informational and success
// lines go to UserOut, warnings and errors to UserErr. Tests swap in
// buffers.
var (
	UserOut io.Writer = os.Stdout
	UserErr io.Writer = os.Stderr
)

func userf(w io.Writer, glyph, format string, args ...any) {
	fmt.Fprintf(w, glyph+" "+format+"\n", args...)
}

// UserInfo reports neutral progress, such as a domain starting.
func UserInfo(format string, args ...any) {
	userf(UserOut, glyphInfo, format, args...)
}

// UserSuccess reports an applied change or a completed domain.
func UserSuccess(format string, args ...any) {
	userf(UserOut, glyphSuccess, format, args...)
}

// UserWarning reports a recoverable problem the operator should see.
func UserWarning(format string, args ...any) {
	userf(UserErr, glyphWarning, format, args...)
}

// UserError reports a failed change or a fatal condition.
func UserError(format string, args ...any) {
	userf(UserErr, glyphError, format, args...)
}
