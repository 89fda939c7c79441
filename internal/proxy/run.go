package proxy

import (
	"encoding/json"
	"fmt"

	"github.com/kestrelproxy/dapbridge/internal/dapmsg"
	"github.com/kestrelproxy/dapbridge/internal/types"
)

// Action is the caller's execution-control verb, mapped by Run onto the
// corresponding DAP request.
type Action string

const (
	ActionContinue        Action = "continue"
	ActionStepInto        Action = "step_into"
	ActionStepOver        Action = "step_over"
	ActionStepOut         Action = "step_out"
	ActionStepBack        Action = "step_back"
	ActionReverseContinue Action = "reverse_continue"
	ActionPause           Action = "pause"
	ActionRestart         Action = "restart"
)

// RunOptions carries the optional knobs a Run call accepts. A zero
// ThreadID means "the thread of the last stopped event"; Granularity is
// one of statement/line/instruction (empty lets the adapter default);
// TargetID selects a stepIn target from a prior StepInTargets call.
type RunOptions struct {
	ThreadID    int
	Granularity string
	TargetID    *int
}

// Run resumes or steps the debuggee, then blocks until it stops again (or
// exits). On stop it refreshes the frame-id cache with a 20-deep stack
// trace and hands the caller everything buffered since the last Run:
// reason, hit breakpoint ids, frames, output.
func (p *Proxy) Run(action Action, opts RunOptions) (*types.StopState, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}

	threadID := opts.ThreadID
	if threadID == 0 {
		threadID = p.threadID
	}

	// Handles minted before this resume are dead the moment it is sent.
	p.resetFrames()

	if action == ActionRestart {
		if err := p.Restart(); err != nil {
			return nil, err
		}
		return p.awaitStop()
	}

	var build func(seq int) []byte
	switch action {
	case ActionContinue:
		build = func(seq int) []byte { return dapmsg.Continue(seq, threadID, false) }
	case ActionStepInto:
		build = func(seq int) []byte { return dapmsg.StepIn(seq, threadID, opts.Granularity, opts.TargetID) }
	case ActionStepOver:
		build = func(seq int) []byte { return dapmsg.Next(seq, threadID, opts.Granularity) }
	case ActionStepOut:
		build = func(seq int) []byte { return dapmsg.StepOut(seq, threadID, opts.Granularity) }
	case ActionStepBack:
		if !p.caps.SupportsStepBack {
			return nil, newStateError(CodeNotSupported, "adapter does not support stepBack")
		}
		build = func(seq int) []byte { return dapmsg.StepBack(seq, threadID, opts.Granularity) }
	case ActionReverseContinue:
		if !p.caps.SupportsStepBack {
			return nil, newStateError(CodeNotSupported, "adapter does not support reverseContinue")
		}
		build = func(seq int) []byte { return dapmsg.ReverseContinue(seq, threadID) }
	case ActionPause:
		build = func(seq int) []byte { return dapmsg.Pause(seq, threadID) }
	default:
		return nil, newStateError(CodeNotSupported, fmt.Sprintf("unknown action %q", action))
	}

	if _, err := p.request(build); err != nil {
		return nil, err
	}
	return p.awaitStop()
}

// awaitStop waits for a stopped event (falling back to exited if the
// debuggee terminates), refreshes the frame cache, and assembles the
// StopState. Output ownership transfers to the caller.
func (p *Proxy) awaitStop() (*types.StopState, error) {
	msg, err := p.wait(pending{events: map[string]bool{"stopped": true, "exited": true}})
	if err != nil {
		return nil, err
	}

	if msg.Event == "exited" {
		var body struct {
			ExitCode int `json:"exitCode"`
		}
		_ = json.Unmarshal(msg.Body, &body)
		return &types.StopState{
			Reason:   "exited",
			Exited:   true,
			ExitCode: body.ExitCode,
			Output:   p.takeOutput(),
		}, nil
	}

	var body struct {
		Reason           string   `json:"reason"`
		ThreadID         int      `json:"threadId"`
		HitBreakpointIDs []uint32 `json:"hitBreakpointIds"`
	}
	_ = json.Unmarshal(msg.Body, &body)

	frames, err := p.StackTrace(0, 20)
	if err != nil {
		return nil, err
	}

	return &types.StopState{
		Reason:           body.Reason,
		ThreadID:         p.threadID,
		HitBreakpointIDs: body.HitBreakpointIDs,
		StackFrames:      frames,
		Output:           p.takeOutput(),
	}, nil
}

// StackTrace fetches frames for the current thread and refreshes the
// positional frame-id cache from them.
func (p *Proxy) StackTrace(startFrame, levels int) ([]types.StackFrame, error) {
	body, err := p.request(func(seq int) []byte {
		return dapmsg.StackTrace(seq, p.threadID, startFrame, levels)
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		StackFrames []struct {
			ID     int    `json:"id"`
			Name   string `json:"name"`
			Line   int    `json:"line"`
			Column int    `json:"column"`
			Source struct {
				Path string `json:"path"`
			} `json:"source"`
		} `json:"stackFrames"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newStateError(CodeInvalidResponse, "stackTrace: "+err.Error())
	}

	frames := make([]types.StackFrame, len(resp.StackFrames))
	ids := make([]int, len(resp.StackFrames))
	for i, f := range resp.StackFrames {
		ids[i] = f.ID
		frames[i] = types.StackFrame{
			Index:   i,
			FrameID: f.ID,
			Name:    f.Name,
			File:    f.Source.Path,
			Line:    f.Line,
			Column:  f.Column,
		}
	}
	if startFrame == 0 {
		p.cacheFrames(ids)
	}
	return frames, nil
}
