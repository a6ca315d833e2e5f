package dungeon

import "fmt"

// Code is a stable identifier from the closed error taxonomy a caller
// can switch on, independent of the wrapped message text.
type Code string

// The closed set of error codes a generation call can return.
const (
	ErrConfigInvalid          Code = "ConfigInvalid"
	ErrConfigDimensionTooLarge Code = "ConfigDimensionTooLarge"
	ErrGenerationFailed        Code = "GenerationFailed"
	ErrGenerationTimeout       Code = "GenerationTimeout"
	ErrCancelled               Code = "Cancelled"
	ErrSeedDecode              Code = "SeedDecodeError"
)

// Error is the error type every public entry point returns. It carries
// a stable Code plus optional contextual payload (never raw internal
// state): a validation error list, a violation list, or a reason
// string, depending on Code.
type Error struct {
	Code        Code
	Message     string
	Violations  []string
	ConfigIssues []string
}

func (e *Error) Error() string {
	if len(e.Violations) > 0 {
		return fmt.Sprintf("%s: %s (%d violations)", e.Code, e.Message, len(e.Violations))
	}
	if len(e.ConfigIssues) > 0 {
		return fmt.Sprintf("%s: %s (%d issues)", e.Code, e.Message, len(e.ConfigIssues))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is supports errors.Is comparisons against another *Error: two *Error
// values match when their Codes are equal, whatever their payloads.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeError constructs a bare *Error for use as an errors.Is comparison
// target, e.g. errors.Is(err, CodeError(ErrConfigInvalid)).
func CodeError(code Code) *Error { return &Error{Code: code} }
