package sync

// PushState names a stage of the push pipeline. States are emitted in
// strict order: zero or more UploadingImage events (only when a local
// image is pending), then exactly one of CreatingContent or
// UpdatingContent.
type PushState int

const (
	// StateUploadingImage reports image upload progress.
	StateUploadingImage PushState = iota

	// StateCreatingContent reports that a draft is being created remotely.
	StateCreatingContent

	// StateUpdatingContent reports that an existing record is being patched.
	StateUpdatingContent
)

func (s PushState) String() string {
	switch s {
	case StateUploadingImage:
		return "uploading image"
	case StateCreatingContent:
		return "creating content"
	case StateUpdatingContent:
		return "updating content"
	}

	return "unknown"
}

// PushEvent is one entry on a push progress stream. The stream is
// single-shot: it closes after the final event. A terminal failure is
// delivered as a final event with Err set; no further stages run.
type PushEvent struct {
	State    PushState
	Progress float64 // meaningful for StateUploadingImage, in [0.0, 1.0]
	Err      error
}

// PullPhase names the observable state of a pull operation.
type PullPhase int

const (
	// PullIdle means no pull is running and the last one succeeded.
	PullIdle PullPhase = iota

	// Pulling means a pull is in flight.
	Pulling

	// PullFailed means the last pull surfaced an error.
	PullFailed
)

// PullState is what a UI renders for the pull flow: the phase plus the
// cause when the phase is PullFailed.
type PullState struct {
	Phase PullPhase
	Err   error
}
