package types

// CallStatus is the disposition of a completed call as reported by the
// call-handling layer.
type CallStatus string

const (
	CallStatusAnswered CallStatus = "answered"
	CallStatusBusy     CallStatus = "busy"
	CallStatusNoAnswer CallStatus = "no_answer"
	CallStatusFailed   CallStatus = "failed"
)
