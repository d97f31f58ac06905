package summarize

import "fmt"

// FailureKind classifies why a summarization produced no usable slides.
type FailureKind string

const (
	KindUnavailable       FailureKind = "unavailable"
	KindTimeout           FailureKind = "timeout"
	KindCanceled          FailureKind = "canceled"
	KindTransport         FailureKind = "transport"
	KindEmptyResponse     FailureKind = "empty_response"
	KindMalformedResponse FailureKind = "malformed_response"
)

// SummarizationError is returned for every failed summarization. Callers
// recover from it by falling back to the local aggregator.
type SummarizationError struct {
	Kind FailureKind
	Err  error
}

func (e *SummarizationError) Error() string {
	if e.Err == nil {
		return "summarize: " + string(e.Kind)
	}
	return fmt.Sprintf("summarize: %s: %v", e.Kind, e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }
