package engine

// ViolationKind identifies the anti-cheat signal reported by the client.
// Document-level suppression (context menu, clipboard, selection) happens
// client-side unconditionally and is not reported here.
type ViolationKind string

const (
	ViolationTabHidden     ViolationKind = "TAB_HIDDEN"
	ViolationWindowBlur    ViolationKind = "WINDOW_BLUR"
	ViolationScreenCapture ViolationKind = "SCREEN_CAPTURE"
)

// ParseViolationKind validates a client-reported violation kind.
func ParseViolationKind(s string) (ViolationKind, bool) {
	switch ViolationKind(s) {
	case ViolationTabHidden, ViolationWindowBlur, ViolationScreenCapture:
		return ViolationKind(s), true
	}
	return "", false
}

// Verdict is the escalation decision for a recorded violation.
type Verdict string

const (
	// VerdictWarn shows a non-blocking warning; the attempt continues.
	VerdictWarn Verdict = "WARN"
	// VerdictExpel terminates the attempt, discarding all progress.
	VerdictExpel Verdict = "EXPEL"
)

// violationMonitor escalates a violation counter: first strike warns, the
// second and any later strike expels.
type violationMonitor struct {
	count int
}

func (m *violationMonitor) record() Verdict {
	m.count++
	if m.count >= 2 {
		return VerdictExpel
	}
	return VerdictWarn
}

func (m *violationMonitor) violations() int {
	return m.count
}
