package pipeline

import "fmt"

// Reason classifies why a run aborted or degraded.
type Reason string

const (
	// DependencyMissing: a required tool is not installed. Fatal, reported
	// before any side effect.
	DependencyMissing Reason = "DEPENDENCY_MISSING"

	// SelectionAborted: the user made no usable selection. Expected; the run
	// ends quietly.
	SelectionAborted Reason = "SELECTION_ABORTED"

	// ArtifactBusy: another run in this process holds the capture file.
	ArtifactBusy Reason = "ARTIFACT_BUSY"

	// CaptureFailed: the region could not be rendered to the artifact.
	CaptureFailed Reason = "CAPTURE_FAILED"

	// OcrDegraded: recognition failed; the run still delivers a placeholder.
	OcrDegraded Reason = "OCR_DEGRADED"
)

// Failure is the error carried by a Result that aborted or degraded.
type Failure struct {
	Reason Reason
	Err    error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v", f.Reason, f.Err)
	}
	return string(f.Reason)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Fatal reports whether the reason is a failure the process exits non-zero
// for. An aborted selection ends the run but is not a failure.
func (r Reason) Fatal() bool {
	switch r {
	case DependencyMissing, ArtifactBusy, CaptureFailed:
		return true
	default:
		return false
	}
}
