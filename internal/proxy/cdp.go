package proxy

import (
	"encoding/json"
	"io"
	"time"

	"github.com/kestrelproxy/dapbridge/internal/framing"
	"github.com/kestrelproxy/dapbridge/internal/notify"
	"github.com/kestrelproxy/dapbridge/internal/transport"
	"github.com/kestrelproxy/dapbridge/internal/types"
)

// CDPDriver is the WebSocket/CDP variant of the driver table.
// CDP has no DAP-shaped breakpoint or stepping surface this module
// models, so the structured operations fail with NotSupported; what it
// does serve is the raw request/response channel (id-correlated JSON over
// masked text frames) and the notification stream (CDP events are
// messages carrying "method" and no "id").
type CDPDriver struct {
	tr            *transport.Transport
	closer        io.Closer
	id            int
	notifications *notify.Queue
}

// NewCDP wraps an already-established connection in the CDP driver,
// performing the WebSocket upgrade first. key is the Sec-WebSocket-Key to
// offer; host/path address the inspector endpoint (typically scanned from
// adapter stdout with dapmsg.ScanInspectorURL).
func NewCDP(conn io.ReadWriteCloser, host, path, key string, timeout time.Duration) (*CDPDriver, error) {
	if err := transport.Handshake(conn, host, path, key); err != nil {
		return nil, err
	}
	return &CDPDriver{
		tr:            transport.NewWebSocket(conn, conn, timeout),
		closer:        conn,
		notifications: notify.New(),
	}, nil
}

// RawRequest sends a CDP command and blocks until its id-matched response
// arrives, enqueueing any events that interleave.
func (d *CDPDriver) RawRequest(command string, argumentsJSON json.RawMessage) (json.RawMessage, error) {
	d.id++
	id := d.id
	msg, err := json.Marshal(struct {
		ID     int             `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params,omitempty"`
	}{ID: id, Method: command, Params: argumentsJSON})
	if err != nil {
		return nil, newStateError(CodeInvalidResponse, "cdp: "+err.Error())
	}
	if err := d.tr.WriteMessage(framing.EncodeWebSocketFrame(framing.OpcodeText, msg, true)); err != nil {
		return nil, err
	}

	for {
		payload, err := d.tr.ReadMessage()
		if err != nil {
			return nil, err
		}
		var in struct {
			ID     int             `json:"id"`
			Method string          `json:"method"`
			Result json.RawMessage `json:"result"`
			Params json.RawMessage `json:"params"`
			Error  *struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(payload, &in); err != nil {
			continue
		}
		if in.Method != "" && in.ID == 0 {
			d.notifications.Enqueue("debug/"+in.Method, in.Params)
			continue
		}
		if in.ID != id {
			continue
		}
		if in.Error != nil {
			return nil, &ProtocolError{Command: command, Message: in.Error.Message}
		}
		return in.Result, nil
	}
}

// DrainNotifications returns buffered CDP events and clears the queue.
func (d *CDPDriver) DrainNotifications() []NotificationItem {
	items := d.notifications.Drain()
	out := make([]NotificationItem, len(items))
	for i, n := range items {
		out[i] = NotificationItem{Method: n.Method, Params: n.Params}
	}
	return out
}

// Stop sends a close frame and closes the connection.
func (d *CDPDriver) Stop() error {
	payload := []byte{0x03, 0xE8} // status 1000, normal closure
	_ = d.tr.WriteMessage(framing.EncodeWebSocketFrame(framing.OpcodeClose, payload, true))
	return d.closer.Close()
}

// Detach closes the connection without touching the debuggee.
func (d *CDPDriver) Detach() error { return d.closer.Close() }

// Capabilities reports the empty capability set; CDP has no DAP-style
// capability advertisement.
func (d *CDPDriver) Capabilities() types.Capabilities { return types.Capabilities{} }

// GetPID is unknowable over a bare socket.
func (d *CDPDriver) GetPID() int { return -1 }

func (d *CDPDriver) notSupported(op string) error {
	return newStateError(CodeNotSupported, "cdp driver: "+op)
}

func (d *CDPDriver) Launch(map[string]any) error { return d.notSupported("launch") }
func (d *CDPDriver) Attach(map[string]any) error { return d.notSupported("attach") }
func (d *CDPDriver) Run(Action, RunOptions) (*types.StopState, error) {
	return nil, d.notSupported("run")
}
func (d *CDPDriver) Terminate() error { return d.notSupported("terminate") }
func (d *CDPDriver) Restart() error   { return d.notSupported("restart") }

func (d *CDPDriver) SetBreakpoint(FileBreakpointRequest) (uint32, error) {
	return 0, d.notSupported("set_breakpoint")
}
func (d *CDPDriver) RemoveBreakpoint(uint32) error { return d.notSupported("remove_breakpoint") }
func (d *CDPDriver) ListBreakpoints() []types.BreakpointInfo {
	return nil
}
func (d *CDPDriver) SetFunctionBreakpoint(string, string, string) (uint32, error) {
	return 0, d.notSupported("set_function_breakpoint")
}
func (d *CDPDriver) SetExceptionBreakpoints([]string, map[string]string) error {
	return d.notSupported("set_exception_breakpoints")
}
func (d *CDPDriver) SetInstructionBreakpoint(string, int, string, string) (uint32, error) {
	return 0, d.notSupported("set_instruction_breakpoints")
}
func (d *CDPDriver) SetDataBreakpoint(string, string, string, string) (uint32, error) {
	return 0, d.notSupported("set_data_breakpoint")
}
func (d *CDPDriver) DataBreakpointInfo(int, string) (json.RawMessage, error) {
	return nil, d.notSupported("data_breakpoint_info")
}
func (d *CDPDriver) BreakpointLocations(string, int, *int) (json.RawMessage, error) {
	return nil, d.notSupported("breakpoint_locations")
}

func (d *CDPDriver) Threads() ([]types.Thread, error) { return nil, d.notSupported("threads") }
func (d *CDPDriver) StackTrace(int, int) ([]types.StackFrame, error) {
	return nil, d.notSupported("stack_trace")
}
func (d *CDPDriver) Scopes(int) (json.RawMessage, error) { return nil, d.notSupported("scopes") }
func (d *CDPDriver) Inspect(InspectRequest) (*InspectResult, error) {
	return nil, d.notSupported("inspect")
}
func (d *CDPDriver) SetVariable(int, string, string) error { return d.notSupported("set_variable") }
func (d *CDPDriver) SetExpression(string, string, int) error {
	return d.notSupported("set_expression")
}
func (d *CDPDriver) Completions(string, int, int) (json.RawMessage, error) {
	return nil, d.notSupported("completions")
}

func (d *CDPDriver) Modules(int, int) (json.RawMessage, error) { return nil, d.notSupported("modules") }
func (d *CDPDriver) LoadedSources() (json.RawMessage, error) {
	return nil, d.notSupported("loaded_sources")
}
func (d *CDPDriver) Source(string, int) (json.RawMessage, error) {
	return nil, d.notSupported("source")
}
func (d *CDPDriver) StepInTargets(int) (json.RawMessage, error) {
	return nil, d.notSupported("step_in_targets")
}
func (d *CDPDriver) GotoTargets(string, int) (json.RawMessage, error) {
	return nil, d.notSupported("goto_targets")
}
func (d *CDPDriver) Goto(int) error         { return d.notSupported("goto") }
func (d *CDPDriver) RestartFrame(int) error { return d.notSupported("restart_frame") }
func (d *CDPDriver) ExceptionInfo() (json.RawMessage, error) {
	return nil, d.notSupported("exception_info")
}
func (d *CDPDriver) ReadMemory(string, int, int) (json.RawMessage, error) {
	return nil, d.notSupported("read_memory")
}
func (d *CDPDriver) WriteMemory(string, int, string, bool) (json.RawMessage, error) {
	return nil, d.notSupported("write_memory")
}
func (d *CDPDriver) Disassemble(string, int, int) (json.RawMessage, error) {
	return nil, d.notSupported("disassemble")
}
func (d *CDPDriver) Cancel(*int, *string) error     { return d.notSupported("cancel") }
func (d *CDPDriver) TerminateThreads([]int) error   { return d.notSupported("terminate_threads") }
