// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the immutable, in-memory description of everything a
// parser can dispatch to: components, their verbs, and each verb's
// parameters.
//
// # Core Concepts
//
//   - Component: a registered unit bundling one or more verbs, optionally with
//     a component-level error handler and empty-arguments handler.
//
//   - Verb: a single invokable operation. A verb carries its callable (either
//     synchronous or asynchronous) together with an ordered list of
//     parameters; the binder produces arguments in exactly that order.
//
//   - Parameter: one handler input. It declares its names, value type,
//     requiredness and every source a value may come from (argument tokens,
//     an environment variable, a default provider, a static default, or an
//     external service for injected parameters).
//
//   - Call: the bound argument list handed to a verb's callable.
//
// Why a separate model package?
//
// Descriptors are built once by the registry and then only read. Keeping them
// free of parsing and binding logic lets the router, binder and invoker share
// one vocabulary without depending on each other.
package model
