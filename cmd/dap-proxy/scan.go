package main

import (
	"fmt"
	"strings"

	"github.com/kestrelproxy/dapbridge/internal/dapmsg"
)

// scanReport runs both adapter-output scanners over text and formats what
// they found, one line each.
func scanReport(text string) string {
	var b strings.Builder

	url, ok := dapmsg.ScanInspectorURL(text)
	if ok {
		fmt.Fprintf(&b, "inspector: %s\n", url)
	} else {
		b.WriteString("inspector: no URL\n")
	}

	if port, ok := dapmsg.ScanAdapterPort(text); ok {
		fmt.Fprintf(&b, "port: %s\n", port)
	} else {
		b.WriteString("port: none\n")
	}
	return b.String()
}
