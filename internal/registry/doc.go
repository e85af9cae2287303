// Package registry builds the descriptor model from component declarations.
//
// Components are declared with small fluent builders (Component, Verb,
// Param) and added to a Registry, usually through a Module. Validate then
// turns every declaration into an immutable model.Component and checks the
// whole set for internal consistency: duplicate names or aliases, parameters
// that are both required and defaulted, validators that cannot apply to a
// parameter's type, and so on.
//
// Every problem found is reported at once as a single clierr.Configuration
// error. Such errors are programmer errors and must abort construction of a
// parser; they never reach the runtime error chain.
package registry
