package proxy

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelproxy/dapbridge/internal/breakpoints"
	"github.com/kestrelproxy/dapbridge/internal/framing"
	"github.com/kestrelproxy/dapbridge/internal/notify"
	"github.com/kestrelproxy/dapbridge/internal/transport"
)

// canned is a scripted adapter: every message it will ever send is seeded
// into in before the operation under test runs, and everything the proxy
// writes lands in out for inspection afterward. No goroutines — the
// dispatcher is single-threaded, so a fully pre-seeded stream exercises
// the same read path a live adapter would.
type canned struct {
	in  bytes.Buffer
	out bytes.Buffer
}

func (c *canned) seed(t *testing.T, v any) {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	c.in.Write(framing.EncodeContentLength(body))
}

func (c *canned) respond(t *testing.T, requestSeq int, command string, body any) {
	c.seed(t, map[string]any{
		"seq": 1000 + requestSeq, "type": "response",
		"request_seq": requestSeq, "success": true,
		"command": command, "body": body,
	})
}

func (c *canned) fail(t *testing.T, requestSeq int, command, message string) {
	c.seed(t, map[string]any{
		"seq": 1000 + requestSeq, "type": "response",
		"request_seq": requestSeq, "success": false,
		"command": command, "message": message,
	})
}

func (c *canned) event(t *testing.T, name string, body any) {
	c.seed(t, map[string]any{"seq": 0, "type": "event", "event": name, "body": body})
}

func (c *canned) reverseRequest(t *testing.T, seq int, command string, args any) {
	c.seed(t, map[string]any{"seq": seq, "type": "request", "command": command, "arguments": args})
}

// sent decodes every message the proxy wrote, in order.
func (c *canned) sent(t *testing.T) []inMessage {
	t.Helper()
	var out []inMessage
	buf := c.out.Bytes()
	for len(buf) > 0 {
		body, consumed, err := framing.DecodeContentLength(buf)
		require.NoError(t, err)
		var msg inMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		out = append(out, msg)
		buf = buf[consumed:]
	}
	return out
}

// sentArguments re-decodes the nth sent message keeping its arguments.
func (c *canned) sentArguments(t *testing.T, n int) map[string]any {
	t.Helper()
	buf := c.out.Bytes()
	for i := 0; ; i++ {
		body, consumed, err := framing.DecodeContentLength(buf)
		require.NoError(t, err)
		if i == n {
			var msg struct {
				Arguments map[string]any `json:"arguments"`
			}
			require.NoError(t, json.Unmarshal(body, &msg))
			return msg.Arguments
		}
		buf = buf[consumed:]
	}
}

func newTestProxy(c *canned) *Proxy {
	cfg := defaultConfig()
	p := &Proxy{
		cfg:           cfg,
		log:           cfg.Logger,
		argv:          []string{"fake-adapter"},
		registry:      breakpoints.New(),
		notifications: notify.New(),
		parked:        make(map[string][]rawEventBody),
		progress:      make(map[string]rawEventBody),
	}
	p.tr = transport.NewContentLength(&c.in, &c.out, time.Second)
	p.respawn = func() error { return nil }
	return p
}

func TestLaunchHandshake(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)

	// The adapter answers initialize, swallows launch, emits initialized,
	// then answers launch only after configurationDone arrives (S4). A
	// pre-seeded stream models that as: the message after the initialized
	// event is the delayed launch response.
	c.respond(t, 1, "initialize", map[string]any{"supportsRestartRequest": true, "supportsSetVariable": true})
	c.event(t, "initialized", map[string]any{})
	c.respond(t, 2, "launch", nil)

	err := p.Launch(map[string]any{"program": "/bin/app"})
	require.NoError(t, err)
	assert.True(t, p.Initialized())
	assert.True(t, p.Capabilities().SupportsRestartRequest)
	assert.True(t, p.Capabilities().SupportsSetVariable)

	sent := c.sent(t)
	require.Len(t, sent, 3)
	assert.Equal(t, "initialize", sent[0].Command)
	assert.Equal(t, "launch", sent[1].Command)
	assert.Equal(t, "configurationDone", sent[2].Command)
}

func TestSequenceMonotonicity(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true

	c.respond(t, 1, "threads", map[string]any{"threads": []any{}})
	c.respond(t, 2, "threads", map[string]any{"threads": []any{}})
	c.respond(t, 3, "threads", map[string]any{"threads": []any{}})

	for i := 0; i < 3; i++ {
		_, err := p.Threads()
		require.NoError(t, err)
	}

	sent := c.sent(t)
	require.Len(t, sent, 3)
	for i, msg := range sent {
		assert.Equal(t, i+1, msg.Seq, "seq starts at 1 and increments by one")
	}
}

func TestRequestCorrelationDiscardsStale(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)

	// A response left over from an earlier timeout arrives first; the
	// dispatcher must discard it and return the one matching the awaited
	// seq (property 7).
	c.respond(t, 99, "threads", map[string]any{"stale": true})
	c.respond(t, 1, "myCommand", map[string]any{"fresh": true})

	body, err := p.RawRequest("myCommand", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fresh": true}`, string(body))
}

func TestEventParkedDuringResponseWait(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)

	c.event(t, "stopped", map[string]any{"reason": "breakpoint", "threadId": 7})
	c.respond(t, 1, "myCommand", nil)

	_, err := p.RawRequest("myCommand", nil)
	require.NoError(t, err)

	// Delivered to the notification queue exactly once (property 8).
	notifs := p.DrainNotifications()
	require.Len(t, notifs, 1)
	assert.Equal(t, "debug/stopped", notifs[0].Method)
	assert.Equal(t, 7, p.threadID)

	// And the park satisfies the next wait without touching the wire —
	// the canned stream is exhausted, so a wire read would fail.
	body, err := p.WaitForEvent("stopped")
	require.NoError(t, err)
	assert.Contains(t, string(body), "breakpoint")
	assert.Empty(t, p.DrainNotifications(), "a parked delivery does not re-enqueue")
}

func TestUnknownEventParksWithoutNotification(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)

	c.event(t, "customExtension", map[string]any{"x": 1})
	c.respond(t, 1, "myCommand", nil)

	_, err := p.RawRequest("myCommand", nil)
	require.NoError(t, err)
	assert.Empty(t, p.DrainNotifications())

	body, err := p.WaitForEvent("customExtension")
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 1}`, string(body))
}

func TestReverseRequestAnsweredInline(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)

	c.reverseRequest(t, 50, "runInTerminal", map[string]any{"kind": "integrated"})
	c.respond(t, 1, "myCommand", nil)

	_, err := p.RawRequest("myCommand", nil)
	require.NoError(t, err)

	sent := c.sent(t)
	require.Len(t, sent, 2)
	assert.Equal(t, "myCommand", sent[0].Command)
	assert.Equal(t, "response", sent[1].Type)
	assert.Equal(t, 50, sent[1].RequestSeq)
	assert.True(t, sent[1].Success)
	assert.Equal(t, 2, sent[1].Seq, "reverse response carries its own fresh seq")

	notifs := p.DrainNotifications()
	require.Len(t, notifs, 1)
	assert.Equal(t, "debug/run_in_terminal", notifs[0].Method)
}

func TestBreakpointReplaceAll(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true

	c.respond(t, 1, "setBreakpoints", nil)
	c.respond(t, 2, "setBreakpoints", nil)
	c.respond(t, 3, "setBreakpoints", nil)

	id10, err := p.SetBreakpoint(FileBreakpointRequest{File: "/src/main.go", Line: 10})
	require.NoError(t, err)
	_, err = p.SetBreakpoint(FileBreakpointRequest{File: "/src/main.go", Line: 20})
	require.NoError(t, err)
	require.NoError(t, p.RemoveBreakpoint(id10))

	// The most recent setBreakpoints for the file lists exactly [20]
	// (property 9).
	args := c.sentArguments(t, 2)
	bps, ok := args["breakpoints"].([]any)
	require.True(t, ok)
	require.Len(t, bps, 1)
	assert.Equal(t, float64(20), bps[0].(map[string]any)["line"])
}

func TestEmulatedRestartRearmsBeforeConfigurationDone(t *testing.T) {
	first := &canned{}
	p := newTestProxy(first)
	p.initialized = true
	p.seq = 41
	p.savedLaunch = launchState{rawConfig: map[string]any{"program": "/bin/app"}}

	// Pre-restart state the fresh adapter must be re-armed with.
	p.registry.AddFile("/src/main.go", 10, "", "", "")
	p.registry.AddFunction("main.handle", "", "")
	p.registry.SetExceptionFilters([]string{"uncaught"}, nil)

	first.respond(t, 42, "disconnect", nil)

	second := &canned{}
	second.respond(t, 1, "initialize", map[string]any{})
	second.event(t, "initialized", map[string]any{})
	second.respond(t, 3, "setBreakpoints", nil)
	second.respond(t, 4, "setFunctionBreakpoints", nil)
	second.respond(t, 5, "setExceptionBreakpoints", nil)
	second.respond(t, 6, "configurationDone", nil)

	p.respawn = func() error {
		p.tr = transport.NewContentLength(&second.in, &second.out, time.Second)
		return nil
	}

	require.NoError(t, p.Restart())
	assert.True(t, p.Initialized())

	// The old stream saw exactly one disconnect with restart=true,
	// terminateDebuggee=false.
	firstSent := first.sent(t)
	require.Len(t, firstSent, 1)
	assert.Equal(t, "disconnect", firstSent[0].Command)
	args := first.sentArguments(t, 0)
	assert.Equal(t, true, args["restart"])
	assert.Equal(t, false, args["terminateDebuggee"])

	// The fresh stream sees the S5 sequence: initialize at seq 1, launch,
	// every breakpoint collection, then configurationDone — re-arming
	// strictly before configurationDone (property 10).
	sent := second.sent(t)
	require.Len(t, sent, 6)
	commands := make([]string, len(sent))
	for i, m := range sent {
		commands[i] = m.Command
	}
	assert.Equal(t, []string{
		"initialize", "launch", "setBreakpoints",
		"setFunctionBreakpoints", "setExceptionBreakpoints", "configurationDone",
	}, commands)
	assert.Equal(t, 1, sent[0].Seq, "seq resets to 1 on the fresh stream")
}

func TestNativeRestartCountersTerminatedRace(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true
	p.caps.SupportsRestartRequest = true
	p.savedLaunch = launchState{rawConfig: map[string]any{"program": "/bin/app"}}

	// terminated arrives mid-restart; its handler flips initialized off,
	// and the restart path must still end initialized.
	c.event(t, "terminated", map[string]any{})
	c.event(t, "initialized", map[string]any{})

	require.NoError(t, p.Restart())
	assert.True(t, p.Initialized())

	sent := c.sent(t)
	require.Len(t, sent, 2)
	assert.Equal(t, "restart", sent[0].Command)
	assert.Equal(t, "configurationDone", sent[1].Command)
}

func TestRunStoppedCachesFrameIDs(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true
	p.threadID = 7

	c.respond(t, 1, "continue", map[string]any{"allThreadsContinued": true})
	c.event(t, "stopped", map[string]any{
		"reason": "breakpoint", "threadId": 7, "hitBreakpointIds": []int{3},
	})
	c.respond(t, 2, "stackTrace", map[string]any{
		"stackFrames": []map[string]any{
			{"id": 100, "name": "main.work", "line": 12, "source": map[string]any{"path": "/src/main.go"}},
			{"id": 101, "name": "main.run", "line": 30, "source": map[string]any{"path": "/src/main.go"}},
			{"id": 102, "name": "main.main", "line": 44, "source": map[string]any{"path": "/src/main.go"}},
		},
	})

	stop, err := p.Run(ActionContinue, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, "breakpoint", stop.Reason)
	assert.Equal(t, []uint32{3}, stop.HitBreakpointIDs)
	require.Len(t, stop.StackFrames, 3)
	assert.Equal(t, 100, stop.StackFrames[0].FrameID)

	// Property 12: indices 0 and 2 resolve to their cached ids; an
	// out-of-range index falls back to the topmost frame.
	id, err := p.resolveFrame(0)
	require.NoError(t, err)
	assert.Equal(t, 100, id)
	id, err = p.resolveFrame(2)
	require.NoError(t, err)
	assert.Equal(t, 102, id)
	id, err = p.resolveFrame(5)
	require.NoError(t, err)
	assert.Equal(t, 100, id)
}

func TestRunExited(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true
	p.threadID = 7

	c.respond(t, 1, "continue", nil)
	c.event(t, "output", map[string]any{"category": "stdout", "output": "done\n"})
	c.event(t, "exited", map[string]any{"exitCode": 3})

	stop, err := p.Run(ActionContinue, RunOptions{})
	require.NoError(t, err)
	assert.True(t, stop.Exited)
	assert.Equal(t, 3, stop.ExitCode)
	require.Len(t, stop.Output, 1)
	assert.Equal(t, "done\n", stop.Output[0].Text)

	// Ownership of the output buffer transferred to the caller.
	assert.Empty(t, p.takeOutput())
}

func TestEvaluateAdapterFailureBecomesResultText(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true
	p.currentFrameID = 100
	p.haveCurrentFrame = true

	c.fail(t, 1, "evaluate", `name "bogus" not found`)

	res, err := p.Evaluate("bogus", 0, "repl")
	require.NoError(t, err)
	assert.Equal(t, `name "bogus" not found`, res.Result)
}

func TestInspectScopeMatchesArgSynonym(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true
	p.cacheFrames([]int{100})

	c.respond(t, 1, "scopes", map[string]any{
		"scopes": []map[string]any{
			{"name": "Locals", "variablesReference": 11},
			{"name": "Args", "variablesReference": 12},
		},
	})
	c.respond(t, 2, "variables", map[string]any{
		"variables": []map[string]any{
			{"name": "argc", "value": "2", "type": "int"},
		},
	})

	res, err := p.Inspect(InspectRequest{Scope: "arguments"})
	require.NoError(t, err)
	require.Len(t, res.Variables, 1)
	assert.Equal(t, "argc", res.Variables[0].Name)
}

func TestInspectExpressionFetchesChildren(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true
	p.cacheFrames([]int{100})

	c.respond(t, 1, "evaluate", map[string]any{
		"result": "main.point{...}", "type": "main.point", "variablesReference": 21,
	})
	c.respond(t, 2, "variables", map[string]any{
		"variables": []map[string]any{
			{"name": "x", "value": "1"},
			{"name": "y", "value": "2"},
		},
	})

	res, err := p.Inspect(InspectRequest{Expression: "p"})
	require.NoError(t, err)
	require.NotNil(t, res.Evaluate)
	assert.Equal(t, 21, res.Evaluate.VariablesReference)
	require.Len(t, res.Evaluate.Children, 2)
	assert.Equal(t, "y", res.Evaluate.Children[1].Name)
}

func TestSetVariableUsesFirstScope(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true
	p.caps.SupportsSetVariable = true
	p.cacheFrames([]int{100})

	c.respond(t, 1, "scopes", map[string]any{
		"scopes": []map[string]any{{"name": "Locals", "variablesReference": 11}},
	})
	c.respond(t, 2, "setVariable", map[string]any{"value": "42"})

	require.NoError(t, p.SetVariable(0, "n", "42"))

	args := c.sentArguments(t, 1)
	assert.Equal(t, float64(11), args["variablesReference"])
	assert.Equal(t, "n", args["name"])
}

func TestOperationsRequireInitialized(t *testing.T) {
	p := newTestProxy(&canned{})

	_, err := p.Threads()
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = p.Run(ActionContinue, RunOptions{})
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = p.Inspect(InspectRequest{Expression: "x"})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestCapabilityGatedOperations(t *testing.T) {
	p := newTestProxy(&canned{})
	p.initialized = true

	_, err := p.Modules(0, 0)
	assert.ErrorIs(t, err, ErrNotSupported)
	_, err = p.ReadMemory("0x1000", 0, 16)
	assert.ErrorIs(t, err, ErrNotSupported)
	err = p.TerminateThreads([]int{1})
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestReadMemoryRejectsEmptyReference(t *testing.T) {
	p := newTestProxy(&canned{})
	p.initialized = true
	p.caps.SupportsReadMemoryRequest = true

	_, err := p.ReadMemory("  ", 0, 16)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestTerminatedEventMarksUninitialized(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true

	c.event(t, "terminated", map[string]any{})
	c.respond(t, 1, "myCommand", nil)

	_, err := p.RawRequest("myCommand", nil)
	require.NoError(t, err)
	assert.False(t, p.Initialized())
}

func TestCapabilitiesEventMergesIntoCache(t *testing.T) {
	c := &canned{}
	p := newTestProxy(c)
	p.initialized = true
	p.caps.SupportsRestartRequest = true

	c.event(t, "capabilities", map[string]any{
		"capabilities": map[string]any{"supportsCompletionsRequest": true},
	})
	c.respond(t, 1, "myCommand", nil)

	_, err := p.RawRequest("myCommand", nil)
	require.NoError(t, err)
	assert.True(t, p.Capabilities().SupportsCompletionsRequest)
	assert.True(t, p.Capabilities().SupportsRestartRequest, "keys absent from the event keep their prior value")
}
