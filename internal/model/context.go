package model

// ExceptionContext is handed to error handlers. A handler that consumes the
// error leaves Rethrow false; setting it to true propagates the original
// error to the caller of the run.
type ExceptionContext struct {
	Err       error
	Component *Component
	Verb      *Verb
	Rethrow   bool
}

// VerbContext is passed to pre- and post-verb interceptors.
type VerbContext struct {
	Component *Component
	Verb      *Verb
	Call      *Call
	Target    any

	// Cancel, when set by a pre-verb interceptor, skips the invocation.
	Cancel bool

	// Failed and Err are populated for post-verb interceptors.
	Failed bool
	Err    error
}
