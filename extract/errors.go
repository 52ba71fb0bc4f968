package extract

import (
	"fmt"
	"strings"

	"github.com/broady/apischema/source"
)

// Reason classifies a SchemaError.
type Reason int

const (
	ReasonInvalid   Reason = iota // A declaration breaks a rule
	ReasonAmbiguous               // A type cannot be represented unambiguously
	ReasonRecursion               // JSON value types form a cycle
	ReasonConflict                // Mutually exclusive markers
)

func (r Reason) String() string {
	switch r {
	case ReasonInvalid:
		return "invalid"
	case ReasonAmbiguous:
		return "ambiguous"
	case ReasonRecursion:
		return "recursion"
	case ReasonConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// SchemaError is a located validation failure. It aborts the run.
type SchemaError struct {
	// Primary is the most specific location where the problem was detected.
	Primary source.Location

	// Secondary is an enclosing declaration, or zero.
	Secondary source.Location

	Message string
	Reason  Reason

	// definitions counts the type definitions open when the error was raised.
	definitions int
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	if !e.Primary.IsZero() {
		sb.WriteString(e.Primary.String())
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if !e.Secondary.IsZero() {
		fmt.Fprintf(&sb, " (in %s)", e.Secondary)
	}
	return sb.String()
}
