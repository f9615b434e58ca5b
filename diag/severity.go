package diag

// Severity represents the severity level of a diagnostic issue.
//
// Severity is an ordered enumeration where lower numeric values are more
// severe. Use the comparison methods rather than raw numeric comparisons.
type Severity uint8

const (
	// Fatal indicates an unrecoverable condition. All core errors (§7 of
	// the design) are Fatal: the core does not retry and does not produce
	// partial results.
	Fatal Severity = iota

	// Error indicates a failure that, in principle, a richer diagnostic
	// collector could continue past. The core itself always aborts on the
	// first Error; the severity stays distinct from Fatal so a
	// caller-side collector can make that call.
	Error

	// Warning, Info, and Hint are not produced by the core today; they
	// exist so a future caller-side collector can classify non-fatal
	// annotations without this package needing a breaking change.
	Warning
	Info
	Hint
)

// String returns the canonical lowercase label for the severity.
func (s Severity) String() string {
	switch s {
	case Fatal:
		return "fatal"
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// IsFailure reports whether the severity indicates a failure.
func (s Severity) IsFailure() bool {
	return s <= Error
}
