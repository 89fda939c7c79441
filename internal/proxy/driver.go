package proxy

import (
	"encoding/json"

	"github.com/kestrelproxy/dapbridge/internal/types"
)

// Driver is the stable operation table the rest of the system calls,
// polymorphic over the DAP and CDP variants. Operations a
// variant cannot serve fail with a NotSupported StateError.
type Driver interface {
	Launch(rawConfig map[string]any) error
	Attach(rawConfig map[string]any) error
	Run(action Action, opts RunOptions) (*types.StopState, error)
	Stop() error
	Detach() error
	Terminate() error
	Restart() error

	SetBreakpoint(req FileBreakpointRequest) (uint32, error)
	RemoveBreakpoint(id uint32) error
	ListBreakpoints() []types.BreakpointInfo
	SetFunctionBreakpoint(name, condition, hitCondition string) (uint32, error)
	SetExceptionBreakpoints(filters []string, conditions map[string]string) error
	SetInstructionBreakpoint(ref string, offset int, condition, hitCondition string) (uint32, error)
	SetDataBreakpoint(dataID, accessType, condition, hitCondition string) (uint32, error)
	DataBreakpointInfo(variablesReference int, name string) (json.RawMessage, error)
	BreakpointLocations(path string, line int, endLine *int) (json.RawMessage, error)

	Threads() ([]types.Thread, error)
	StackTrace(startFrame, levels int) ([]types.StackFrame, error)
	Scopes(frameIndex int) (json.RawMessage, error)
	Inspect(req InspectRequest) (*InspectResult, error)
	SetVariable(frameIndex int, name, value string) error
	SetExpression(expression, value string, frameIndex int) error
	Completions(text string, column int, frameIndex int) (json.RawMessage, error)

	Modules(startModule, moduleCount int) (json.RawMessage, error)
	LoadedSources() (json.RawMessage, error)
	Source(path string, sourceReference int) (json.RawMessage, error)
	StepInTargets(frameIndex int) (json.RawMessage, error)
	GotoTargets(path string, line int) (json.RawMessage, error)
	Goto(targetID int) error
	RestartFrame(frameIndex int) error
	ExceptionInfo() (json.RawMessage, error)
	ReadMemory(memoryReference string, offset, count int) (json.RawMessage, error)
	WriteMemory(memoryReference string, offset int, data string, allowPartial bool) (json.RawMessage, error)
	Disassemble(memoryReference string, instructionOffset, instructionCount int) (json.RawMessage, error)
	Cancel(requestID *int, progressID *string) error
	TerminateThreads(threadIDs []int) error

	Capabilities() types.Capabilities
	DrainNotifications() []NotificationItem
	RawRequest(command string, argumentsJSON json.RawMessage) (json.RawMessage, error)
	GetPID() int
}

var _ Driver = (*Proxy)(nil)
var _ Driver = (*CDPDriver)(nil)
