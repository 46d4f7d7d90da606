// SPDX-License-Identifier: MPL-2.0

// Package shellcmd turns raw Pfyfile command lines into safely executed
// processes. It splits leading KEY=VALUE environment assignments from the
// command proper, decides whether the command needs shell features, builds
// either a direct argument vector or a single-argument `bash -c` invocation,
// applies sudo wrapping, and dispatches locally or to a remote connection.
//
// Untrusted content is never fed through shell interpolation: shell parsing
// is confined to one explicit `-c` argument, and only when the command
// actually uses shell operators.
package shellcmd
