package trace

// TraceLevel controls the verbosity of path tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelShocks captures every random shock applied to the fundamental path.
	TraceLevelShocks TraceLevel = "shocks"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelShocks: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// PathTrace collects shock records while a fundamental path is generated.
type PathTrace struct {
	Level  TraceLevel
	Shocks []ShockRecord
}

// NewPathTrace creates a PathTrace ready for recording.
func NewPathTrace(level TraceLevel) *PathTrace {
	return &PathTrace{
		Level:  level,
		Shocks: make([]ShockRecord, 0),
	}
}

// Enabled reports whether records should be captured.
func (pt *PathTrace) Enabled() bool {
	return pt != nil && pt.Level == TraceLevelShocks
}

// RecordShock appends a shock record. No-op when tracing is disabled.
func (pt *PathTrace) RecordShock(record ShockRecord) {
	if !pt.Enabled() {
		return
	}
	pt.Shocks = append(pt.Shocks, record)
}
