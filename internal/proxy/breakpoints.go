package proxy

import (
	"encoding/json"

	"github.com/kestrelproxy/dapbridge/internal/breakpoints"
	"github.com/kestrelproxy/dapbridge/internal/dapmsg"
	"github.com/kestrelproxy/dapbridge/internal/types"
)

// FileBreakpointRequest is the caller's input to SetBreakpoint. Strings
// are copied into the registry before return; the caller's backing storage
// may be reused immediately.
type FileBreakpointRequest struct {
	File         string
	Line         int
	Condition    string
	HitCondition string
	LogMessage   string
}

// SetBreakpoint registers a file breakpoint, assigns its local id before
// any network I/O, and (when a session is up) re-sends the full breakpoint
// list for that file — DAP's replace-all model.
func (p *Proxy) SetBreakpoint(req FileBreakpointRequest) (uint32, error) {
	id, snapshot := p.registry.AddFile(req.File, req.Line, req.Condition, req.HitCondition, req.LogMessage)
	if p.initialized {
		if err := p.sendFileBreakpoints(req.File, snapshot); err != nil {
			return id, err
		}
	}
	return id, nil
}

// RemoveBreakpoint removes a breakpoint by local id, whatever its kind,
// and re-sends the affected collection.
func (p *Proxy) RemoveBreakpoint(id uint32) error {
	if file, snapshot, ok := p.registry.RemoveFile(id); ok {
		if p.initialized {
			return p.sendFileBreakpoints(file, snapshot)
		}
		return nil
	}
	if snapshot, ok := p.registry.RemoveFunction(id); ok {
		if p.initialized {
			return p.sendFunctionBreakpoints(snapshot)
		}
		return nil
	}
	if snapshot, ok := p.registry.RemoveInstruction(id); ok {
		if p.initialized {
			return p.sendInstructionBreakpoints(snapshot)
		}
		return nil
	}
	if snapshot, ok := p.registry.RemoveData(id); ok {
		if p.initialized {
			return p.sendDataBreakpoints(snapshot)
		}
		return nil
	}
	return newStateError(CodeInvalidResponse, "unknown breakpoint id")
}

// ListBreakpoints returns the flattened view of every tracked breakpoint.
func (p *Proxy) ListBreakpoints() []types.BreakpointInfo {
	return p.registry.List()
}

// SetFunctionBreakpoint registers a function-name breakpoint and re-sends
// the whole function set.
func (p *Proxy) SetFunctionBreakpoint(name, condition, hitCondition string) (uint32, error) {
	if !p.caps.SupportsFunctionBreakpoints && p.initialized {
		return 0, newStateError(CodeNotSupported, "adapter does not support function breakpoints")
	}
	id, snapshot := p.registry.AddFunction(name, condition, hitCondition)
	if p.initialized {
		if err := p.sendFunctionBreakpoints(snapshot); err != nil {
			return id, err
		}
	}
	return id, nil
}

// SetExceptionBreakpoints replaces the exception filter set; the set is
// persisted for re-arming on restart.
func (p *Proxy) SetExceptionBreakpoints(filters []string, conditions map[string]string) error {
	p.registry.SetExceptionFilters(filters, conditions)
	if p.initialized {
		return p.sendExceptionFilters(filters, conditions)
	}
	return nil
}

// SetInstructionBreakpoint registers an instruction (address) breakpoint.
func (p *Proxy) SetInstructionBreakpoint(ref string, offset int, condition, hitCondition string) (uint32, error) {
	if !p.caps.SupportsInstructionBreakpoints && p.initialized {
		return 0, newStateError(CodeNotSupported, "adapter does not support instruction breakpoints")
	}
	id, snapshot := p.registry.AddInstruction(ref, offset, condition, hitCondition)
	if p.initialized {
		if err := p.sendInstructionBreakpoints(snapshot); err != nil {
			return id, err
		}
	}
	return id, nil
}

// SetDataBreakpoint registers a data watchpoint against a dataId resolved
// by an earlier DataBreakpointInfo call.
func (p *Proxy) SetDataBreakpoint(dataID, accessType, condition, hitCondition string) (uint32, error) {
	if !p.caps.SupportsDataBreakpoints && p.initialized {
		return 0, newStateError(CodeNotSupported, "adapter does not support data breakpoints")
	}
	id, snapshot := p.registry.AddData(dataID, accessType, condition, hitCondition)
	if p.initialized {
		if err := p.sendDataBreakpoints(snapshot); err != nil {
			return id, err
		}
	}
	return id, nil
}

// DataBreakpointInfo resolves a variable into the dataId (and access
// types) a SetDataBreakpoint call needs.
func (p *Proxy) DataBreakpointInfo(variablesReference int, name string) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	return p.request(func(seq int) []byte {
		return dapmsg.DataBreakpointInfo(seq, variablesReference, name)
	})
}

// BreakpointLocations asks the adapter which positions within a line range
// can actually hold a breakpoint.
func (p *Proxy) BreakpointLocations(path string, line int, endLine *int) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	if !p.caps.SupportsBreakpointLocationsRequest {
		return nil, newStateError(CodeNotSupported, "adapter does not support breakpointLocations")
	}
	return p.request(func(seq int) []byte {
		return dapmsg.BreakpointLocations(seq, path, line, endLine)
	})
}

func (p *Proxy) sendFileBreakpoints(file string, snapshot []breakpoints.FileBreakpoint) error {
	bps := make([]dapmsg.SourceBreakpoint, len(snapshot))
	for i, bp := range snapshot {
		bps[i] = dapmsg.SourceBreakpoint{
			Line:         bp.Line,
			Condition:    bp.Condition,
			HitCondition: bp.HitCondition,
			LogMessage:   bp.LogMessage,
		}
	}
	_, err := p.request(func(seq int) []byte {
		return dapmsg.SetBreakpointsFull(seq, file, bps)
	})
	return err
}

func (p *Proxy) sendFunctionBreakpoints(snapshot []breakpoints.FunctionBreakpoint) error {
	bps := make([]dapmsg.FunctionBreakpoint, len(snapshot))
	for i, bp := range snapshot {
		bps[i] = dapmsg.FunctionBreakpoint{
			Name:         bp.Name,
			Condition:    bp.Condition,
			HitCondition: bp.HitCondition,
		}
	}
	_, err := p.request(func(seq int) []byte {
		return dapmsg.SetFunctionBreakpoints(seq, bps)
	})
	return err
}

func (p *Proxy) sendExceptionFilters(filters []string, conditions map[string]string) error {
	_, err := p.request(func(seq int) []byte {
		return dapmsg.SetExceptionBreakpoints(seq, filters, conditions)
	})
	return err
}

func (p *Proxy) sendInstructionBreakpoints(snapshot []breakpoints.InstructionBreakpoint) error {
	bps := make([]dapmsg.InstructionBreakpoint, len(snapshot))
	for i, bp := range snapshot {
		bps[i] = dapmsg.InstructionBreakpoint{
			InstructionReference: bp.InstructionReference,
			Offset:               bp.Offset,
			Condition:            bp.Condition,
			HitCondition:         bp.HitCondition,
		}
	}
	_, err := p.request(func(seq int) []byte {
		return dapmsg.SetInstructionBreakpoints(seq, bps)
	})
	return err
}

func (p *Proxy) sendDataBreakpoints(snapshot []breakpoints.DataBreakpoint) error {
	bps := make([]dapmsg.DataBreakpoint, len(snapshot))
	for i, bp := range snapshot {
		bps[i] = dapmsg.DataBreakpoint{
			DataID:       bp.DataID,
			AccessType:   bp.AccessType,
			Condition:    bp.Condition,
			HitCondition: bp.HitCondition,
		}
	}
	_, err := p.request(func(seq int) []byte {
		return dapmsg.SetDataBreakpoints(seq, bps)
	})
	return err
}
