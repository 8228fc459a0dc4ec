package logging

// DefaultVerbosity selects Info on the console.
const DefaultVerbosity = 1

// ConsoleThresholds lists the console thresholds in order of increasing verbosity.
func ConsoleThresholds() []Severity {
	return []Severity{Warning, Info, Debug}
}

// ThresholdFor maps a verbosity to a console threshold. Values outside the
// table saturate at its ends.
func ThresholdFor(verbosity int) Severity {
	thresholds := ConsoleThresholds()

	return thresholds[clampVerbosity(verbosity, len(thresholds))]
}

// SetVerbosity applies the threshold for verbosity to the console sink and
// returns the effective verbosity.
func (l *Logger) SetVerbosity(verbosity int) int {
	effective := clampVerbosity(verbosity, len(ConsoleThresholds()))

	l.console.SetLevel(ThresholdFor(effective).Level())
	l.Debugf("Logging verbosity set to %d", effective)

	return effective
}

func clampVerbosity(verbosity, size int) int {
	return max(0, min(verbosity, size-1))
}
