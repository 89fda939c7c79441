package dapmsg

// SourceBreakpoint is one line-anchored breakpoint within a setBreakpoints
// request (DAP's SourceBreakpoint).
type SourceBreakpoint struct {
	Line         int    `json:"line"`
	Column       int    `json:"column,omitempty"`
	Condition    string `json:"condition,omitempty"`
	HitCondition string `json:"hitCondition,omitempty"`
	LogMessage   string `json:"logMessage,omitempty"`
}

// SetBreakpointsLines builds the lines-only form of setBreakpoints: every
// breakpoint carries just a line number, no condition or log message.
func SetBreakpointsLines(seq int, path string, lines []int) []byte {
	bps := make([]SourceBreakpoint, len(lines))
	for i, l := range lines {
		bps[i] = SourceBreakpoint{Line: l}
	}
	return setBreakpoints(seq, path, bps)
}

// SetBreakpointsFull builds the full-option form of setBreakpoints, one
// entry per breakpoint with its condition/hit-condition/log-message set.
func SetBreakpointsFull(seq int, path string, bps []SourceBreakpoint) []byte {
	return setBreakpoints(seq, path, bps)
}

func setBreakpoints(seq int, path string, bps []SourceBreakpoint) []byte {
	type source struct {
		Path string `json:"path"`
	}
	type args struct {
		Source      source             `json:"source"`
		Breakpoints []SourceBreakpoint `json:"breakpoints"`
	}
	if bps == nil {
		bps = []SourceBreakpoint{}
	}
	return build(seq, "setBreakpoints", args{Source: source{Path: path}, Breakpoints: bps})
}

// FunctionBreakpoint is one entry in setFunctionBreakpoints.
type FunctionBreakpoint struct {
	Name         string `json:"name"`
	Condition    string `json:"condition,omitempty"`
	HitCondition string `json:"hitCondition,omitempty"`
}

// SetFunctionBreakpoints builds the setFunctionBreakpoints request. The
// full breakpoint list is sent every time, per DAP's replace-all
// semantics — the breakpoint registry, not this builder,
// is responsible for assembling that full list.
func SetFunctionBreakpoints(seq int, bps []FunctionBreakpoint) []byte {
	type args struct {
		Breakpoints []FunctionBreakpoint `json:"breakpoints"`
	}
	if bps == nil {
		bps = []FunctionBreakpoint{}
	}
	return build(seq, "setFunctionBreakpoints", args{Breakpoints: bps})
}

// SetExceptionBreakpoints builds the setExceptionBreakpoints request. An
// adapter that doesn't understand conditional exception filters still
// accepts the simple filters list; filterOptions is sent as an empty slice
// rather than omitted, as some adapters key off its presence.
func SetExceptionBreakpoints(seq int, filters []string, filterConditions map[string]string) []byte {
	type filterOption struct {
		FilterID  string `json:"filterId"`
		Condition string `json:"condition,omitempty"`
	}
	type args struct {
		Filters       []string       `json:"filters"`
		FilterOptions []filterOption `json:"filterOptions"`
	}
	opts := make([]filterOption, 0, len(filterConditions))
	for id, cond := range filterConditions {
		opts = append(opts, filterOption{FilterID: id, Condition: cond})
	}
	if filters == nil {
		filters = []string{}
	}
	return build(seq, "setExceptionBreakpoints", args{Filters: filters, FilterOptions: opts})
}

// InstructionBreakpoint is one entry in setInstructionBreakpoints.
type InstructionBreakpoint struct {
	InstructionReference string `json:"instructionReference"`
	Offset               int    `json:"offset,omitempty"`
	Condition            string `json:"condition,omitempty"`
	HitCondition         string `json:"hitCondition,omitempty"`
}

// SetInstructionBreakpoints builds the setInstructionBreakpoints request.
func SetInstructionBreakpoints(seq int, bps []InstructionBreakpoint) []byte {
	type args struct {
		Breakpoints []InstructionBreakpoint `json:"breakpoints"`
	}
	if bps == nil {
		bps = []InstructionBreakpoint{}
	}
	return build(seq, "setInstructionBreakpoints", args{Breakpoints: bps})
}

// DataBreakpoint is one entry in setDataBreakpoints.
type DataBreakpoint struct {
	DataID       string `json:"dataId"`
	AccessType   string `json:"accessType,omitempty"`
	Condition    string `json:"condition,omitempty"`
	HitCondition string `json:"hitCondition,omitempty"`
}

// SetDataBreakpoints builds the setDataBreakpoints request.
func SetDataBreakpoints(seq int, bps []DataBreakpoint) []byte {
	type args struct {
		Breakpoints []DataBreakpoint `json:"breakpoints"`
	}
	if bps == nil {
		bps = []DataBreakpoint{}
	}
	return build(seq, "setDataBreakpoints", args{Breakpoints: bps})
}

// DataBreakpointInfo builds the dataBreakpointInfo request, used to
// resolve a variable or expression into the dataId a later
// SetDataBreakpoints call references.
func DataBreakpointInfo(seq int, variablesReference int, name string) []byte {
	type args struct {
		VariablesReference int    `json:"variablesReference,omitempty"`
		Name                string `json:"name"`
	}
	return build(seq, "dataBreakpointInfo", args{VariablesReference: variablesReference, Name: name})
}

// BreakpointLocations builds the breakpointLocations request, which asks
// the adapter for the valid breakpoint positions within a line range.
func BreakpointLocations(seq int, path string, line int, endLine *int) []byte {
	type source struct {
		Path string `json:"path"`
	}
	type args struct {
		Source  source `json:"source"`
		Line    int    `json:"line"`
		EndLine *int   `json:"endLine,omitempty"`
	}
	return build(seq, "breakpointLocations", args{Source: source{Path: path}, Line: line, EndLine: endLine})
}
