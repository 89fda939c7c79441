package types

import "encoding/json"

// Capabilities mirrors the adapter capability flags enumerated in a DAP
// InitializeResponse body (and later refreshed by "capabilities" events).
// Missing booleans in a parsed document are treated as false; a later
// partial update only overwrites the keys present in it
type Capabilities struct {
	SupportsConfigurationDoneRequest      bool
	SupportsFunctionBreakpoints           bool
	SupportsConditionalBreakpoints        bool
	SupportsHitConditionalBreakpoints     bool
	SupportsEvaluateForHovers             bool
	SupportsStepBack                      bool
	SupportsSetVariable                   bool
	SupportsRestartFrame                  bool
	SupportsGotoTargetsRequest             bool
	SupportsStepInTargetsRequest           bool
	SupportsCompletionsRequest             bool
	SupportsModulesRequest                 bool
	SupportsRestartRequest                 bool
	SupportsExceptionOptions               bool
	SupportsValueFormattingOptions         bool
	SupportsExceptionInfoRequest           bool
	SupportTerminateDebuggee               bool
	SupportSuspendDebuggee                 bool
	SupportsDelayedStackTraceLoading       bool
	SupportsLoadedSourcesRequest           bool
	SupportsLogPoints                      bool
	SupportsTerminateThreadsRequest        bool
	SupportsSetExpression                  bool
	SupportsTerminateRequest               bool
	SupportsDataBreakpoints                 bool
	SupportsReadMemoryRequest               bool
	SupportsWriteMemoryRequest              bool
	SupportsDisassembleRequest               bool
	SupportsCancelRequest                    bool
	SupportsBreakpointLocationsRequest        bool
	SupportsClipboardContext                  bool
	SupportsSteppingGranularity                bool
	SupportsInstructionBreakpoints             bool
	SupportsExceptionFilterOptions              bool
	SupportsSingleThreadExecutionRequests        bool
	SupportsANSIStyling                          bool
	SupportsBreakpointModes                       bool
}

// capabilityFields maps DAP's JSON capability key names to a setter on
// Capabilities, so UpdateFromJSON can overwrite only the keys present in a
// given document without reflection.
var capabilityFields = map[string]func(*Capabilities, bool){
	"supportsConfigurationDoneRequest":      func(c *Capabilities, v bool) { c.SupportsConfigurationDoneRequest = v },
	"supportsFunctionBreakpoints":           func(c *Capabilities, v bool) { c.SupportsFunctionBreakpoints = v },
	"supportsConditionalBreakpoints":        func(c *Capabilities, v bool) { c.SupportsConditionalBreakpoints = v },
	"supportsHitConditionalBreakpoints":     func(c *Capabilities, v bool) { c.SupportsHitConditionalBreakpoints = v },
	"supportsEvaluateForHovers":             func(c *Capabilities, v bool) { c.SupportsEvaluateForHovers = v },
	"supportsStepBack":                      func(c *Capabilities, v bool) { c.SupportsStepBack = v },
	"supportsSetVariable":                   func(c *Capabilities, v bool) { c.SupportsSetVariable = v },
	"supportsRestartFrame":                  func(c *Capabilities, v bool) { c.SupportsRestartFrame = v },
	"supportsGotoTargetsRequest":            func(c *Capabilities, v bool) { c.SupportsGotoTargetsRequest = v },
	"supportsStepInTargetsRequest":          func(c *Capabilities, v bool) { c.SupportsStepInTargetsRequest = v },
	"supportsCompletionsRequest":            func(c *Capabilities, v bool) { c.SupportsCompletionsRequest = v },
	"supportsModulesRequest":                func(c *Capabilities, v bool) { c.SupportsModulesRequest = v },
	"supportsRestartRequest":                func(c *Capabilities, v bool) { c.SupportsRestartRequest = v },
	"supportsExceptionOptions":              func(c *Capabilities, v bool) { c.SupportsExceptionOptions = v },
	"supportsValueFormattingOptions":        func(c *Capabilities, v bool) { c.SupportsValueFormattingOptions = v },
	"supportsExceptionInfoRequest":          func(c *Capabilities, v bool) { c.SupportsExceptionInfoRequest = v },
	"supportTerminateDebuggee":              func(c *Capabilities, v bool) { c.SupportTerminateDebuggee = v },
	"supportSuspendDebuggee":                func(c *Capabilities, v bool) { c.SupportSuspendDebuggee = v },
	"supportsDelayedStackTraceLoading":      func(c *Capabilities, v bool) { c.SupportsDelayedStackTraceLoading = v },
	"supportsLoadedSourcesRequest":          func(c *Capabilities, v bool) { c.SupportsLoadedSourcesRequest = v },
	"supportsLogPoints":                     func(c *Capabilities, v bool) { c.SupportsLogPoints = v },
	"supportsTerminateThreadsRequest":       func(c *Capabilities, v bool) { c.SupportsTerminateThreadsRequest = v },
	"supportsSetExpression":                 func(c *Capabilities, v bool) { c.SupportsSetExpression = v },
	"supportsTerminateRequest":              func(c *Capabilities, v bool) { c.SupportsTerminateRequest = v },
	"supportsDataBreakpoints":               func(c *Capabilities, v bool) { c.SupportsDataBreakpoints = v },
	"supportsReadMemoryRequest":             func(c *Capabilities, v bool) { c.SupportsReadMemoryRequest = v },
	"supportsWriteMemoryRequest":            func(c *Capabilities, v bool) { c.SupportsWriteMemoryRequest = v },
	"supportsDisassembleRequest":            func(c *Capabilities, v bool) { c.SupportsDisassembleRequest = v },
	"supportsCancelRequest":                 func(c *Capabilities, v bool) { c.SupportsCancelRequest = v },
	"supportsBreakpointLocationsRequest":    func(c *Capabilities, v bool) { c.SupportsBreakpointLocationsRequest = v },
	"supportsClipboardContext":              func(c *Capabilities, v bool) { c.SupportsClipboardContext = v },
	"supportsSteppingGranularity":           func(c *Capabilities, v bool) { c.SupportsSteppingGranularity = v },
	"supportsInstructionBreakpoints":        func(c *Capabilities, v bool) { c.SupportsInstructionBreakpoints = v },
	"supportsExceptionFilterOptions":        func(c *Capabilities, v bool) { c.SupportsExceptionFilterOptions = v },
	"supportsSingleThreadExecutionRequests": func(c *Capabilities, v bool) { c.SupportsSingleThreadExecutionRequests = v },
	"supportsANSIStyling":                   func(c *Capabilities, v bool) { c.SupportsANSIStyling = v },
	"supportsBreakpointModes":               func(c *Capabilities, v bool) { c.SupportsBreakpointModes = v },
}

// ParseCapabilities decodes a full DAP "capabilities" body (as found in an
// InitializeResponse) into a fresh Capabilities value. Missing keys default
// to false.
func ParseCapabilities(body json.RawMessage) (Capabilities, error) {
	var c Capabilities
	c.UpdateFromJSON(body)
	return c, nil
}

// UpdateFromJSON merges a partial or full capabilities document into c.
// Only keys present in body are overwritten; absent keys retain their prior
// value. Malformed bodies are ignored rather than surfaced — event
// handlers never abort the dispatcher.
func (c *Capabilities) UpdateFromJSON(body json.RawMessage) {
	if len(body) == 0 {
		return
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return
	}
	for key, setter := range capabilityFields {
		val, ok := raw[key]
		if !ok {
			continue
		}
		var b bool
		if err := json.Unmarshal(val, &b); err != nil {
			continue
		}
		setter(c, b)
	}
}
