package domain

import "time"

// Document is a JSON-compatible structured document: nested maps, arrays and scalars.
type Document map[string]any

type HealthKind string

const (
	HealthReachable   HealthKind = "reachable"
	HealthServerError HealthKind = "server_error"
	HealthUnreachable HealthKind = "unreachable"
)

// HealthResult is the outcome of a GET {base}/health.
//
// Only the fields of the active Kind are set:
//   - reachable: BodyKnown, and Payload when BodyKnown is true
//   - server_error: StatusCode
//   - unreachable: Error
type HealthResult struct {
	Kind       HealthKind `json:"kind"`
	BodyKnown  bool       `json:"body_known"`
	Payload    Document   `json:"payload,omitempty"`
	StatusCode int        `json:"status_code,omitempty"`
	Error      string     `json:"error,omitempty"`
	LatencyMS  float64    `json:"latency_ms"`
	CheckedAt  time.Time  `json:"checked_at"`
}

func Reachable(payload Document) HealthResult {
	return HealthResult{Kind: HealthReachable, BodyKnown: true, Payload: payload}
}

// ReachableUnknown means the backend answered 200 but the body could not be interpreted.
func ReachableUnknown() HealthResult {
	return HealthResult{Kind: HealthReachable}
}

func ServerError(code int) HealthResult {
	return HealthResult{Kind: HealthServerError, StatusCode: code}
}

func Unreachable(msg string) HealthResult {
	return HealthResult{Kind: HealthUnreachable, Error: msg}
}

func (r HealthResult) OK() bool { return r.Kind == HealthReachable }

// Timed returns a copy stamped with the call latency measured from start.
func (r HealthResult) Timed(start time.Time) HealthResult {
	r.LatencyMS = time.Since(start).Seconds() * 1000
	r.CheckedAt = start.UTC()
	return r
}

type SubmissionKind string

const (
	SubmissionAccepted SubmissionKind = "accepted"
	SubmissionRejected SubmissionKind = "rejected"
	SubmissionFailed   SubmissionKind = "failed"
	SubmissionInvalid  SubmissionKind = "invalid"
)

// SubmissionResult is the outcome of a POST {base}/api/data.
// Invalid results never reached the network.
type SubmissionResult struct {
	Kind       SubmissionKind `json:"kind"`
	Body       any            `json:"body,omitempty"`
	StatusCode int            `json:"status_code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	LatencyMS  float64        `json:"latency_ms"`
	CheckedAt  time.Time      `json:"checked_at"`
}

func Accepted(body any) SubmissionResult {
	return SubmissionResult{Kind: SubmissionAccepted, Body: body}
}

func Rejected(code int) SubmissionResult {
	return SubmissionResult{Kind: SubmissionRejected, StatusCode: code}
}

func Failed(msg string) SubmissionResult {
	return SubmissionResult{Kind: SubmissionFailed, Error: msg}
}

func Invalid(reason string) SubmissionResult {
	return SubmissionResult{Kind: SubmissionInvalid, Reason: reason, CheckedAt: time.Now().UTC()}
}

func (r SubmissionResult) OK() bool { return r.Kind == SubmissionAccepted }

func (r SubmissionResult) Timed(start time.Time) SubmissionResult {
	r.LatencyMS = time.Since(start).Seconds() * 1000
	r.CheckedAt = start.UTC()
	return r
}
