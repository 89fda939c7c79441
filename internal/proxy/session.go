package proxy

import (
	"encoding/json"

	"github.com/kestrelproxy/dapbridge/internal/dapmsg"
	"github.com/kestrelproxy/dapbridge/internal/types"
)

// Launch drives the strict launch handshake: initialize,
// launch-without-waiting, initialized event, configurationDone. rawConfig
// is the adapter-specific launch configuration (program, args, stopOnEntry,
// ...) passed through verbatim. The configuration is saved so an emulated
// restart can replay it against a fresh adapter.
func (p *Proxy) Launch(rawConfig map[string]any) error {
	p.savedLaunch = launchState{isAttach: false, rawConfig: rawConfig}
	return p.handshake()
}

// Attach mirrors Launch with an attach request in place of launch.
func (p *Proxy) Attach(rawConfig map[string]any) error {
	p.savedLaunch = launchState{isAttach: true, rawConfig: rawConfig}
	return p.handshake()
}

// handshake runs steps 1–5 of the launch/attach sequence. The ordering is
// load-bearing: the adapter answers launch only after configurationDone,
// so waiting on the launch response before sending configurationDone
// deadlocks.
func (p *Proxy) handshake() error {
	capsBody, err := p.request(func(seq int) []byte {
		return dapmsg.Initialize(seq, p.initializeArgs())
	})
	if err != nil {
		return err
	}
	caps, _ := types.ParseCapabilities(capsBody)
	p.caps = caps
	p.log.Debug("adapter initialized", "supportsRestartRequest", caps.SupportsRestartRequest)

	launchSeq := p.nextSeq()
	var launchMsg []byte
	if p.savedLaunch.isAttach {
		launchMsg = dapmsg.Attach(launchSeq, p.savedLaunch.rawConfig)
	} else {
		launchMsg = dapmsg.Launch(launchSeq, p.savedLaunch.rawConfig)
	}
	if err := p.write(launchMsg); err != nil {
		return err
	}

	if _, err := p.wait(pending{events: map[string]bool{"initialized": true}}); err != nil {
		return err
	}

	if err := p.rearm(); err != nil {
		return err
	}

	cfgSeq := p.nextSeq()
	if err := p.write(dapmsg.ConfigurationDone(cfgSeq)); err != nil {
		return err
	}
	// The next response may be configurationDone's or the delayed
	// launch/attach response; either satisfies step 4.
	msg, err := p.wait(pending{seqs: map[int]bool{cfgSeq: true, launchSeq: true}})
	if err != nil {
		return err
	}
	if !msg.Success {
		return &ProtocolError{Command: msg.Command, Message: msg.Message}
	}

	p.initialized = true
	p.log.Debug("handshake complete")
	return nil
}

// WaitForEvent blocks until an event named name arrives, returning its raw
// body. Parked events of that name are returned first, in arrival order.
func (p *Proxy) WaitForEvent(name string) (json.RawMessage, error) {
	msg, err := p.wait(pending{events: map[string]bool{name: true}})
	if err != nil {
		return nil, err
	}
	return msg.Body, nil
}

// Stop disconnects from the adapter (terminating the debuggee) and tears
// the session down unconditionally.
func (p *Proxy) Stop() error {
	return p.shutdown(true)
}

// Detach disconnects without killing the debuggee.
func (p *Proxy) Detach() error {
	return p.shutdown(false)
}

func (p *Proxy) shutdown(terminateDebuggee bool) error {
	var firstErr error
	if p.child != nil {
		args := &dapmsg.DisconnectArgs{TerminateDebuggee: &terminateDebuggee}
		if _, err := p.request(func(seq int) []byte {
			return dapmsg.Disconnect(seq, args)
		}); err != nil {
			firstErr = err
		}
		p.child.Kill()
		p.child = nil
	}
	p.initialized = false
	p.resetFrames()
	p.log.Debug("session torn down", "terminateDebuggee", terminateDebuggee)
	return firstErr
}

// Terminate asks the adapter to gracefully terminate the debuggee. The
// session stays up; a terminated event will mark it uninitialized.
func (p *Proxy) Terminate() error {
	if !p.caps.SupportsTerminateRequest {
		return newStateError(CodeNotSupported, "adapter does not support terminate")
	}
	_, err := p.request(func(seq int) []byte {
		return dapmsg.Terminate(seq, nil)
	})
	return err
}

// Threads returns the debuggee's current thread list.
func (p *Proxy) Threads() ([]types.Thread, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	body, err := p.request(dapmsg.Threads)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Threads []types.Thread `json:"threads"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newStateError(CodeInvalidResponse, "threads: "+err.Error())
	}
	return resp.Threads, nil
}

// RawRequest sends an arbitrary DAP command with caller-supplied arguments
// JSON and returns the raw response body — the escape hatch for adapter
// extensions this module doesn't model.
func (p *Proxy) RawRequest(command string, argumentsJSON json.RawMessage) (json.RawMessage, error) {
	return p.request(func(seq int) []byte {
		type envelope struct {
			Seq       int             `json:"seq"`
			Type      string          `json:"type"`
			Command   string          `json:"command"`
			Arguments json.RawMessage `json:"arguments,omitempty"`
		}
		out, err := json.Marshal(envelope{Seq: seq, Type: "request", Command: command, Arguments: argumentsJSON})
		if err != nil {
			// Only reachable if argumentsJSON is invalid JSON.
			out, _ = json.Marshal(envelope{Seq: seq, Type: "request", Command: command})
		}
		return out
	})
}

// DrainNotifications returns every buffered notification and clears the
// queue.
func (p *Proxy) DrainNotifications() []NotificationItem {
	items := p.notifications.Drain()
	out := make([]NotificationItem, len(items))
	for i, n := range items {
		out[i] = NotificationItem{Method: n.Method, Params: n.Params}
	}
	return out
}

// NotificationItem is the caller-facing (method, params) pair drained from
// the notification queue.
type NotificationItem struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

func (p *Proxy) requireInitialized() error {
	if !p.initialized {
		return newStateError(CodeNotInitialized, "")
	}
	return nil
}
