package proxy

import (
	"encoding/json"

	"github.com/kestrelproxy/dapbridge/internal/dapmsg"
	"github.com/kestrelproxy/dapbridge/internal/framing"
	"github.com/kestrelproxy/dapbridge/internal/types"
)

// rawEventBody is a raw JSON event/arguments body kept around as auxiliary
// session state (memory events, progress records, invalidated areas,
// loaded modules).
type rawEventBody = json.RawMessage

// inMessage is the superset shape of every message the adapter can send:
// a response, an event, or a reverse request.
type inMessage struct {
	Seq        int             `json:"seq"`
	Type       string          `json:"type"`
	Event      string          `json:"event,omitempty"`
	Command    string          `json:"command,omitempty"`
	RequestSeq int             `json:"request_seq,omitempty"`
	Success    bool            `json:"success,omitempty"`
	Message    string          `json:"message,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
	Arguments  json.RawMessage `json:"arguments,omitempty"`
}

// knownEvents is the set of event names with an inline handler; these are
// also the only names enqueued as notifications with a debug/ method.
var knownEvents = map[string]bool{
	"stopped": true, "output": true, "breakpoint": true, "module": true,
	"continued": true, "thread": true, "loadedSource": true, "process": true,
	"capabilities": true, "memory": true, "progressStart": true,
	"progressUpdate": true, "progressEnd": true, "exited": true,
	"terminated": true, "invalidated": true,
}

// eventNotifyMethod maps a DAP event name to its notification method.
var eventNotifyMethod = map[string]string{
	"stopped":        "debug/stopped",
	"output":         "debug/output",
	"breakpoint":     "debug/breakpoint_verified",
	"module":         "debug/module",
	"continued":      "debug/continued",
	"thread":         "debug/thread",
	"loadedSource":   "debug/loaded_source",
	"process":        "debug/process",
	"capabilities":   "debug/capabilities_changed",
	"memory":         "debug/memory_changed",
	"progressStart":  "debug/progress",
	"progressUpdate": "debug/progress",
	"progressEnd":    "debug/progress",
	"exited":         "debug/exited",
	"terminated":     "debug/terminated",
	"invalidated":    "debug/invalidated",
}

var reverseNotifyMethod = map[string]string{
	"startDebugging": "debug/start_debugging",
	"runInTerminal":  "debug/run_in_terminal",
}

// handleEvent runs the inline handler for a known event name, then
// enqueues it as a notification. A parse failure inside a handler is
// swallowed — handlers never abort the dispatcher, and the notification
// still carries the raw body.
func (p *Proxy) handleEvent(msg inMessage) {
	switch msg.Event {
	case "stopped":
		var body struct {
			ThreadID int `json:"threadId"`
		}
		if json.Unmarshal(msg.Body, &body) == nil {
			p.threadID = body.ThreadID
		}
	case "output":
		var body struct {
			Category string `json:"category"`
			Output   string `json:"output"`
		}
		if json.Unmarshal(msg.Body, &body) == nil && body.Output != "" {
			p.output = append(p.output, types.OutputLine{Category: body.Category, Text: body.Output})
		}
	case "terminated":
		p.initialized = false
	case "capabilities":
		var body struct {
			Capabilities json.RawMessage `json:"capabilities"`
		}
		if json.Unmarshal(msg.Body, &body) == nil {
			p.caps.UpdateFromJSON(body.Capabilities)
		}
	case "module":
		var body struct {
			Reason string `json:"reason"`
		}
		if json.Unmarshal(msg.Body, &body) == nil && (body.Reason == "new" || body.Reason == "changed") {
			p.loadedModules = append(p.loadedModules, msg.Body)
		}
	case "memory":
		p.memoryEvents = append(p.memoryEvents, msg.Body)
	case "invalidated":
		p.invalidated = append(p.invalidated, msg.Body)
	case "progressStart", "progressUpdate", "progressEnd":
		var body struct {
			ProgressID string `json:"progressId"`
		}
		if json.Unmarshal(msg.Body, &body) == nil && body.ProgressID != "" {
			p.progress[body.ProgressID] = msg.Body
		}
	}

	method, ok := eventNotifyMethod[msg.Event]
	if !ok {
		method = "debug/" + msg.Event
	}
	p.notifications.Enqueue(method, msg.Body)
}

// handleReverseRequest answers an adapter-initiated request inline: a
// synchronous success response carrying a fresh seq, sent from inside the
// read loop.
func (p *Proxy) handleReverseRequest(msg inMessage) error {
	method, recognized := reverseNotifyMethod[msg.Command]
	if recognized {
		p.notifications.Enqueue(method, msg.Arguments)
	} else {
		p.log.Warn("unrecognized reverse request", "command", msg.Command)
	}
	seq := p.nextSeq()
	resp := dapmsg.SuccessResponse(seq, msg.Seq, msg.Command, nil)
	return p.write(resp)
}

// pending describes what a call to wait is looking for: a response whose
// request_seq is in seqs, or an event whose name is in events. Either set
// may be nil.
type pending struct {
	seqs   map[int]bool
	events map[string]bool
}

// parkEvent buffers an event that the current wait is not looking for,
// known or not, for a later wait_for_event, preserving arrival order
// within that event name.
func (p *Proxy) parkEvent(name string, body json.RawMessage) {
	p.parked[name] = append(p.parked[name], body)
}

func (p *Proxy) popParked(name string) (json.RawMessage, bool) {
	queue := p.parked[name]
	if len(queue) == 0 {
		return nil, false
	}
	body := queue[0]
	p.parked[name] = queue[1:]
	return body, true
}

// wait is the dispatch read loop: it first checks the
// parked buffer for any event pend is waiting on, then reads messages off
// the wire, discarding stale responses, running inline handlers for known
// events, parking every event pend is not waiting on (known ones after
// their handler has run), and answering reverse requests — until a
// message matching pend arrives.
func (p *Proxy) wait(pend pending) (inMessage, error) {
	for name := range pend.events {
		if body, ok := p.popParked(name); ok {
			return inMessage{Type: "event", Event: name, Body: body}, nil
		}
	}

	for {
		raw, err := p.tr.ReadMessage()
		if err != nil {
			return inMessage{}, err
		}
		var msg inMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			p.log.Warn("malformed message from adapter", "err", err)
			continue
		}

		switch msg.Type {
		case "response":
			if pend.seqs[msg.RequestSeq] {
				return msg, nil
			}
			p.log.Warn("discarding stale response", "request_seq", msg.RequestSeq, "command", msg.Command)
		case "event":
			if knownEvents[msg.Event] {
				p.handleEvent(msg)
			}
			if pend.events[msg.Event] {
				return msg, nil
			}
			// Not what this wait is for: park it, keyed by name, so a
			// later wait of that name finds it before touching the wire.
			// A stopped event arriving ahead of the resume response
			// reaches the following awaitStop this way.
			p.parkEvent(msg.Event, msg.Body)
		case "request":
			if err := p.handleReverseRequest(msg); err != nil {
				return inMessage{}, err
			}
		default:
			p.log.Warn("unrecognized message type from adapter", "type", msg.Type)
		}
	}
}

// write frames and writes a single outbound message.
func (p *Proxy) write(body []byte) error {
	return p.tr.WriteMessage(framing.EncodeContentLength(body))
}

// request sends a request built by build (passed the fresh seq to embed),
// then waits specifically for its matching response, surfacing an
// adapter-side failure as *ProtocolError without tearing down the session.
func (p *Proxy) request(build func(seq int) []byte) (json.RawMessage, error) {
	seq := p.nextSeq()
	if err := p.write(build(seq)); err != nil {
		return nil, err
	}
	msg, err := p.wait(pending{seqs: map[int]bool{seq: true}})
	if err != nil {
		return nil, err
	}
	if !msg.Success {
		return nil, &ProtocolError{Command: msg.Command, Message: msg.Message}
	}
	return msg.Body, nil
}
