// main.go — Entry point for the dap-proxy CLI binary.
// Drives a DAP adapter described by a launch profile: spawn, handshake,
// arm breakpoints, then run the debuggee to completion, printing each stop
// and the drained notification stream.
//
// Usage: dap-proxy run --profile <file> [--flags]
//
// Exit codes:
//   0 = debuggee ran to completion
//   1 = error (spawn, handshake, or protocol failure)
//   2 = usage error (missing args, invalid flags)
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/kestrelproxy/dapbridge/cmd/dap-proxy/internal/profile"
	"github.com/kestrelproxy/dapbridge/internal/proxy"
)

// version is set at build time via -ldflags.
var version = "1.0.0"

const usageText = `dap-proxy — drive a Debug Adapter Protocol adapter from a launch profile

Usage:
  dap-proxy run --profile <file> [--flags]
  dap-proxy scan [--flags] < adapter-output

Commands:
  run          Spawn the adapter, arm breakpoints, run the debuggee to completion
  scan         Scan stdin for an inspector ws:// URL and a debug-server port

Flags:
  --profile <path>        Launch profile (YAML); required for run
  --format <human|json>   Output format (default: human)
  --stream                Emit each stop and notification as newline-delimited JSON
  --timeout <duration>    Adapter read-poll timeout (default: 30s)
  --max-stops <n>         Stop after n stopped events (default: 64)
  --verbose               Log session lifecycle to stderr
  --version               Show version
  --help                  Show this help
`

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the entry point, separated from main for testability. Returns
// the exit code.
func run(args []string) int {
	flags := pflag.NewFlagSet("dap-proxy", pflag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	profilePath := flags.String("profile", "", "launch profile path")
	format := flags.String("format", "human", "output format: human or json")
	stream := flags.Bool("stream", false, "newline-delimited JSON output")
	timeout := flags.Duration("timeout", 30*time.Second, "read-poll timeout")
	maxStops := flags.Int("max-stops", 64, "maximum stopped events before giving up")
	verbose := flags.Bool("verbose", false, "log session lifecycle to stderr")
	showVersion := flags.Bool("version", false, "show version")
	help := flags.Bool("help", false, "show help")

	if err := flags.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, usageText)
		return 2
	}
	if *help {
		fmt.Print(usageText)
		return 0
	}
	if *showVersion {
		fmt.Printf("dap-proxy %s\n", version)
		return 0
	}

	rest := flags.Args()
	if len(rest) == 0 {
		fmt.Fprint(os.Stderr, usageText)
		return 2
	}

	switch rest[0] {
	case "run":
		return runDebug(*profilePath, *format, *stream, *timeout, *maxStops, *verbose)
	case "scan":
		return runScan()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", rest[0])
		fmt.Fprint(os.Stderr, usageText)
		return 2
	}
}

func runDebug(profilePath, format string, stream bool, timeout time.Duration, maxStops int, verbose bool) int {
	if profilePath == "" {
		fmt.Fprintln(os.Stderr, "Error: --profile is required for run")
		return 2
	}
	if format != "human" && format != "json" {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", format)
		return 2
	}

	prof, err := profile.Load(profilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	opts := []proxy.Option{proxy.WithPollTimeout(timeout)}
	if len(prof.Env) > 0 {
		opts = append(opts, proxy.WithEnv(prof.Env))
	}
	if verbose {
		logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel, ReportTimestamp: true})
		opts = append(opts, proxy.WithLogger(logger))
	}

	p, err := proxy.New(prof.Adapter, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = p.Stop() }()

	for _, bp := range prof.Breakpoints {
		if _, err := p.SetBreakpoint(proxy.FileBreakpointRequest{
			File:         bp.File,
			Line:         bp.Line,
			Condition:    bp.Condition,
			HitCondition: bp.HitCondition,
			LogMessage:   bp.LogMessage,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: set breakpoint %s:%d: %v\n", bp.File, bp.Line, err)
			return 1
		}
	}
	for _, bp := range prof.FunctionBreakpoints {
		if _, err := p.SetFunctionBreakpoint(bp.Name, bp.Condition, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: set function breakpoint %s: %v\n", bp.Name, err)
			return 1
		}
	}
	if len(prof.ExceptionFilters) > 0 {
		if err := p.SetExceptionBreakpoints(prof.ExceptionFilters, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Error: set exception filters: %v\n", err)
			return 1
		}
	}

	handshake := p.Launch
	if prof.Attach {
		handshake = p.Attach
	}
	if err := handshake(prof.Launch); err != nil {
		fmt.Fprintf(os.Stderr, "Error: handshake: %v\n", err)
		return 1
	}

	out := &printer{format: format, stream: stream}
	for i := 0; i < maxStops; i++ {
		stop, err := p.Run(proxy.ActionContinue, proxy.RunOptions{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: run: %v\n", err)
			return 1
		}
		out.printStop(stop)
		out.printNotifications(p.DrainNotifications())
		if stop.Exited {
			return 0
		}
	}
	fmt.Fprintf(os.Stderr, "Error: debuggee still stopping after %d resumes\n", maxStops)
	return 1
}

// runScan reads adapter output from stdin and reports the inspector URL
// and debug-server port it finds, if any.
func runScan() int {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: read stdin: %v\n", err)
		return 1
	}
	fmt.Print(scanReport(string(raw)))
	return 0
}

// printer writes stops and notifications in the selected format.
type printer struct {
	format string
	stream bool
}

func (pr *printer) printStop(stop any) {
	if pr.stream || pr.format == "json" {
		raw, _ := json.Marshal(map[string]any{"type": "stop", "stop": stop})
		fmt.Println(string(raw))
		return
	}
	raw, _ := json.MarshalIndent(stop, "", "  ")
	fmt.Printf("--- stopped ---\n%s\n", raw)
}

func (pr *printer) printNotifications(notifs []proxy.NotificationItem) {
	for _, n := range notifs {
		if pr.stream || pr.format == "json" {
			raw, _ := json.Marshal(map[string]any{"type": "notification", "method": n.Method, "params": n.Params})
			fmt.Println(string(raw))
			continue
		}
		fmt.Printf("notification %s: %s\n", n.Method, string(n.Params))
	}
}
