package breakpoints

import "github.com/kestrelproxy/dapbridge/internal/types"

// List concatenates every tracked breakpoint, across the four id-bearing
// collections, into the flattened caller-facing view. Exception filters
// carry no id and are not listed.
// File breakpoints are emitted in file-insertion order, then by line
// order within a file; functions, instructions, and data breakpoints
// follow in their own insertion order.
func (r *Registry) List() []types.BreakpointInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.BreakpointInfo, 0, len(r.locations))
	for _, file := range r.fileOrder {
		for _, bp := range r.files[file] {
			out = append(out, types.BreakpointInfo{
				ID: bp.ID, Kind: types.BreakpointFile, File: file, Line: bp.Line,
				Condition: bp.Condition, HitCondition: bp.HitCondition,
				LogMessage: bp.LogMessage, Verified: bp.Verified,
			})
		}
	}
	for _, bp := range r.functions {
		out = append(out, types.BreakpointInfo{
			ID: bp.ID, Kind: types.BreakpointFunction, Name: bp.Name,
			Condition: bp.Condition, HitCondition: bp.HitCondition, Verified: bp.Verified,
		})
	}
	for _, bp := range r.instructions {
		out = append(out, types.BreakpointInfo{
			ID: bp.ID, Kind: types.BreakpointInstruction, InstructionReference: bp.InstructionReference,
			Condition: bp.Condition, HitCondition: bp.HitCondition, Verified: bp.Verified,
		})
	}
	for _, bp := range r.data {
		out = append(out, types.BreakpointInfo{
			ID: bp.ID, Kind: types.BreakpointData, Name: bp.DataID,
			Condition: bp.Condition, HitCondition: bp.HitCondition, Verified: bp.Verified,
		})
	}
	return out
}
