// Package app contains the host application. It builds the parser from the
// compiled-in modules, attaches console behaviour, loads the defaults store
// and runs one argument vector, decoupled from any specific entrypoint.
package app
