package dapmsg

import "encoding/json"

// InitializeArgs mirrors DAP's InitializeRequestArguments.
type InitializeArgs struct {
	ClientID                     string `json:"clientID,omitempty"`
	ClientName                   string `json:"clientName,omitempty"`
	AdapterID                    string `json:"adapterID"`
	Locale                       string `json:"locale,omitempty"`
	LinesStartAt1                bool   `json:"linesStartAt1"`
	ColumnsStartAt1              bool   `json:"columnsStartAt1"`
	PathFormat                   string `json:"pathFormat,omitempty"`
	SupportsVariableType         bool   `json:"supportsVariableType,omitempty"`
	SupportsVariablePaging       bool   `json:"supportsVariablePaging,omitempty"`
	SupportsRunInTerminalRequest bool   `json:"supportsRunInTerminalRequest,omitempty"`
	SupportsMemoryReferences     bool   `json:"supportsMemoryReferences,omitempty"`
	SupportsProgressReporting    bool   `json:"supportsProgressReporting,omitempty"`
	SupportsInvalidatedEvent     bool   `json:"supportsInvalidatedEvent,omitempty"`
	SupportsMemoryEvent          bool   `json:"supportsMemoryEvent,omitempty"`
	SupportsStartDebuggingRequest bool  `json:"supportsStartDebuggingRequest,omitempty"`
}

// Initialize builds the initialize request.
func Initialize(seq int, args InitializeArgs) []byte {
	return build(seq, "initialize", args)
}

// Launch builds the launch request. rawConfig is a caller-assembled map of
// adapter-specific launch configuration keys (program, args, env, cwd,
// stopOnEntry, mode, etc.) merged verbatim into "arguments" — the set of
// valid keys is adapter-defined, not something this module can enumerate.
func Launch(seq int, rawConfig map[string]any) []byte {
	return build(seq, "launch", rawConfig)
}

// Attach builds the attach request, mirroring Launch's shape.
func Attach(seq int, rawConfig map[string]any) []byte {
	return build(seq, "attach", rawConfig)
}

// ConfigurationDone builds the configurationDone request.
func ConfigurationDone(seq int) []byte {
	return buildNoArgs(seq, "configurationDone")
}

// DisconnectArgs mirrors DAP's DisconnectArguments, all optional.
type DisconnectArgs struct {
	Restart          *bool `json:"restart,omitempty"`
	TerminateDebuggee *bool `json:"terminateDebuggee,omitempty"`
	SuspendDebuggee   *bool `json:"suspendDebuggee,omitempty"`
}

// Disconnect builds the disconnect request. A nil DisconnectArgs omits
// "arguments" entirely, matching adapters that reject an empty object.
func Disconnect(seq int, args *DisconnectArgs) []byte {
	if args == nil {
		return buildNoArgs(seq, "disconnect")
	}
	return build(seq, "disconnect", args)
}

// Terminate builds the terminate request. restart indicates the optional
// "restart" hint some adapters honor when terminate precedes a relaunch.
func Terminate(seq int, restart *bool) []byte {
	if restart == nil {
		return buildNoArgs(seq, "terminate")
	}
	type args struct {
		Restart *bool `json:"restart,omitempty"`
	}
	return build(seq, "terminate", args{Restart: restart})
}

// Restart builds the restart request for adapters whose capabilities
// report supportsRestartRequest — the native restart path.
// rawConfig carries the same launch/attach configuration keys as Launch.
func Restart(seq int, rawConfig map[string]any) []byte {
	if rawConfig == nil {
		return buildNoArgs(seq, "restart")
	}
	type args struct {
		Arguments map[string]any `json:"arguments"`
	}
	return build(seq, "restart", args{Arguments: rawConfig})
}

// MarshalArguments is a helper for callers that build rawConfig maps from a
// typed struct: it round-trips through JSON to get a plain map[string]any
// with the struct's own field tags honored.
func MarshalArguments(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
