// Package mcp implements a Model Context Protocol server over stdio.
//
// The host process (an assistant runtime) spawns the binary and exchanges
// newline-delimited JSON-RPC 2.0 messages on stdin/stdout. Supported methods
// are initialize, ping, tools/list, and tools/call; notifications are
// accepted and dropped. Logs go to a file logger so stdout stays clean for
// protocol traffic.
package mcp
