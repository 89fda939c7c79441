package dapmsg

import "strings"

// ScanInspectorURL scans adapter stdout for the literal prefix "ws://" and
// extracts the run to the next whitespace/LF/CR Returns
// ok=false with the literal string "no URL" when the prefix is absent.
func ScanInspectorURL(output string) (url string, ok bool) {
	idx := strings.Index(output, "ws://")
	if idx < 0 {
		return "no URL", false
	}
	rest := output[idx:]
	end := strings.IndexAny(rest, " \t\n\r")
	if end < 0 {
		return rest, true
	}
	return rest[:end], true
}

// ScanAdapterPort locates the literal "Debug server listening at ", then the
// final colon on that line, then parses a decimal port up to the next
// whitespace/LF/CR
func ScanAdapterPort(output string) (port string, ok bool) {
	const marker = "Debug server listening at "
	idx := strings.Index(output, marker)
	if idx < 0 {
		return "", false
	}
	rest := output[idx+len(marker):]
	if end := strings.IndexAny(rest, "\n\r"); end >= 0 {
		rest = rest[:end]
	}
	colonIdx := strings.LastIndex(rest, ":")
	if colonIdx < 0 {
		return "", false
	}
	candidate := rest[colonIdx+1:]
	end := strings.IndexAny(candidate, " \t\n\r")
	if end >= 0 {
		candidate = candidate[:end]
	}
	if candidate == "" {
		return "", false
	}
	for _, r := range candidate {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return candidate, true
}
