package response

// Stable machine-readable reason codes, one per error class.
const (
	ReasonNotFound     = "not_found"
	ReasonUnauthorized = "unauthorized"
	ReasonBadState     = "bad_state"
	ReasonValidation   = "validation"
	ReasonInternal     = "internal"
)

// Response is the envelope for every API reply. Ok is always present so
// callers can branch without inspecting HTTP status codes.
type Response struct {
	Ok     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

func OK() Response {
	return Response{Ok: true}
}

func Error(reason, message string) Response {
	return Response{Ok: false, Reason: reason, Error: message}
}
