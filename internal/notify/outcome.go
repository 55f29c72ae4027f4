package notify

// OutcomeStatus classifies how a handler invocation ended.
type OutcomeStatus string

const (
	StatusSent    OutcomeStatus = "sent"
	StatusSkipped OutcomeStatus = "skipped"
	StatusFailed  OutcomeStatus = "failed"
)

// Outcome is the explicit result of one handler invocation. It replaces a
// catch-all error boundary: the pipeline logs it and always acks, so a
// failed outcome never triggers redelivery.
type Outcome struct {
	Status OutcomeStatus
	// Reason explains a skip (missing profile, missing token, unchanged status).
	Reason string
	// Receipt is the platform message ID once delivery succeeded. A failed
	// outcome with a non-empty receipt means the push went out but the
	// archive write did not.
	Receipt string
	Err     error
}

func Sent(receipt string) Outcome {
	return Outcome{Status: StatusSent, Receipt: receipt}
}

func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, Reason: reason}
}

func Failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}
