// # internal/parser/specifier.go
package parser

import (
	"strings"

	"codescope/internal/summary"
)

// nodeBuiltins covers the module names shipped with the Node runtime.
// Anything imported via the "node:" scheme is builtin regardless.
var nodeBuiltins = map[string]struct{}{
	"assert": {}, "async_hooks": {}, "buffer": {}, "child_process": {},
	"cluster": {}, "console": {}, "constants": {}, "crypto": {},
	"dgram": {}, "dns": {}, "domain": {}, "events": {}, "fs": {},
	"http": {}, "http2": {}, "https": {}, "inspector": {}, "module": {},
	"net": {}, "os": {}, "path": {}, "perf_hooks": {}, "process": {},
	"punycode": {}, "querystring": {}, "readline": {}, "repl": {},
	"stream": {}, "string_decoder": {}, "timers": {}, "tls": {},
	"trace_events": {}, "tty": {}, "url": {}, "util": {}, "v8": {},
	"vm": {}, "worker_threads": {}, "zlib": {},
}

func classifySpecifier(from string) summary.ImportKind {
	if strings.HasPrefix(from, "./") || strings.HasPrefix(from, "../") || from == "." || from == ".." {
		return summary.ImportInternal
	}
	if strings.HasPrefix(from, "node:") {
		return summary.ImportBuiltin
	}
	root := from
	if idx := strings.Index(root, "/"); idx >= 0 {
		root = root[:idx]
	}
	if _, ok := nodeBuiltins[root]; ok {
		return summary.ImportBuiltin
	}
	return summary.ImportExternal
}
