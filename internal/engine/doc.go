// Package engine is the parser: it owns the validated component model and,
// for every run, drives the argument vector through routing, binding and
// invocation, handing any failure to the error chain.
//
// A run looks like this:
//
//	args -> help / parameter handlers -> router.Resolve -> binder.SelectVerb
//	     -> binder.Bind -> pre-verb hooks -> invoker.Invoke -> post-verb hooks
//
// Every failure after construction goes through the error chain: the
// parser-level error handler if one is registered, otherwise the first
// component (in registration order) that declared one, otherwise the error
// is returned to the caller. Construction failures are returned from New as
// clierr.Configuration errors and never reach the chain.
package engine
