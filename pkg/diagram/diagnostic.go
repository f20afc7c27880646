package diagram

import (
	"fmt"

	"github.com/matzehuels/archdeck/pkg/errors"
)

// Diagnostic reports a non-fatal condition found while processing a diagram.
// Diagnostics never stop rendering; hosts log them at warning level.
type Diagnostic struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// String formats the diagnostic as "CODE: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Diagnosef builds a Diagnostic with a formatted message.
func Diagnosef(code errors.Code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)}
}

// UnknownEndpoint reports an edge citing a node that does not exist.
func UnknownEndpoint(e Edge) Diagnostic {
	return Diagnosef(errors.ErrCodeUnknownNode, "edge references unknown node: %s -> %s", e.Source, e.Target)
}

// HasCode reports whether any diagnostic in ds carries code.
func HasCode(ds []Diagnostic, code errors.Code) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}
