// SPDX-License-Identifier: MPL-2.0

// Package issue provides the typed error values used across pf
// (SyntaxError, ExecutionError, EnvironmentError) and a registry of
// rendered markdown issues for the fatal-path user display.
package issue
