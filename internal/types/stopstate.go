package types

// StackFrame is the caller-facing projection of one DAP stackTrace entry.
// FrameID is the opaque adapter-assigned id; Index is the 0-based depth
// used by the public resolve-frame API.
type StackFrame struct {
	Index  int    `json:"index"`
	FrameID int   `json:"frame_id"`
	Name   string `json:"name"`
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// OutputLine is one buffered "output" event body. Output accumulates
// between resumes and is handed to the caller when Run returns, clearing
// the buffer.
type OutputLine struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// Thread is one entry of a DAP threads response.
type Thread struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// StopState is returned by the Run operation once the debuggee stops (or
// exits). Ownership of StackFrames and Output transfers to the caller.
type StopState struct {
	Reason            string       `json:"reason"`
	ThreadID          int          `json:"thread_id"`
	HitBreakpointIDs  []uint32     `json:"hit_breakpoint_ids,omitempty"`
	StackFrames       []StackFrame `json:"stack_frames"`
	Output            []OutputLine `json:"output,omitempty"`
	Exited            bool         `json:"exited"`
	ExitCode          int          `json:"exit_code,omitempty"`
}
