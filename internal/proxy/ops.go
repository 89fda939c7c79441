package proxy

import (
	"encoding/json"
	"strings"

	"github.com/kestrelproxy/dapbridge/internal/dapmsg"
)

// Modules pages through the adapter's loaded-module list.
func (p *Proxy) Modules(startModule, moduleCount int) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	if !p.caps.SupportsModulesRequest {
		return nil, newStateError(CodeNotSupported, "adapter does not support modules")
	}
	return p.request(func(seq int) []byte {
		return dapmsg.Modules(seq, startModule, moduleCount)
	})
}

// LoadedSources returns the adapter's full loaded-source list.
func (p *Proxy) LoadedSources() (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	if !p.caps.SupportsLoadedSourcesRequest {
		return nil, newStateError(CodeNotSupported, "adapter does not support loadedSources")
	}
	return p.request(dapmsg.LoadedSources)
}

// Source retrieves source content by path or by the adapter-minted
// sourceReference for content with no backing file.
func (p *Proxy) Source(path string, sourceReference int) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	return p.request(func(seq int) []byte {
		return dapmsg.Source(seq, path, sourceReference)
	})
}

// ReadMemory reads count bytes at memoryReference+offset. The reference is
// an adapter-minted address string; an empty one cannot be formatted into
// a request.
func (p *Proxy) ReadMemory(memoryReference string, offset, count int) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	if !p.caps.SupportsReadMemoryRequest {
		return nil, newStateError(CodeNotSupported, "adapter does not support readMemory")
	}
	if strings.TrimSpace(memoryReference) == "" {
		return nil, newStateError(CodeInvalidAddress, "empty memory reference")
	}
	return p.request(func(seq int) []byte {
		return dapmsg.ReadMemory(seq, memoryReference, offset, count)
	})
}

// WriteMemory writes base64-encoded data at memoryReference+offset.
func (p *Proxy) WriteMemory(memoryReference string, offset int, data string, allowPartial bool) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	if !p.caps.SupportsWriteMemoryRequest {
		return nil, newStateError(CodeNotSupported, "adapter does not support writeMemory")
	}
	if strings.TrimSpace(memoryReference) == "" {
		return nil, newStateError(CodeInvalidAddress, "empty memory reference")
	}
	return p.request(func(seq int) []byte {
		return dapmsg.WriteMemory(seq, memoryReference, offset, data, allowPartial)
	})
}

// Disassemble returns instructionCount instructions around memoryReference.
func (p *Proxy) Disassemble(memoryReference string, instructionOffset, instructionCount int) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	if !p.caps.SupportsDisassembleRequest {
		return nil, newStateError(CodeNotSupported, "adapter does not support disassemble")
	}
	if strings.TrimSpace(memoryReference) == "" {
		return nil, newStateError(CodeInvalidAddress, "empty memory reference")
	}
	return p.request(func(seq int) []byte {
		return dapmsg.Disassemble(seq, memoryReference, instructionOffset, instructionCount)
	})
}

// ExceptionInfo describes the exception the current thread stopped on.
func (p *Proxy) ExceptionInfo() (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	if !p.caps.SupportsExceptionInfoRequest {
		return nil, newStateError(CodeNotSupported, "adapter does not support exceptionInfo")
	}
	body, err := p.request(func(seq int) []byte {
		return dapmsg.ExceptionInfo(seq, p.threadID)
	})
	if err != nil {
		return nil, err
	}
	p.lastException = body
	return body, nil
}

// GotoTargets lists the positions execution could jump to at a source line.
func (p *Proxy) GotoTargets(path string, line int) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	if !p.caps.SupportsGotoTargetsRequest {
		return nil, newStateError(CodeNotSupported, "adapter does not support gotoTargets")
	}
	return p.request(func(seq int) []byte {
		return dapmsg.GotoTargets(seq, path, line)
	})
}

// Goto jumps execution to a target from a prior GotoTargets call, then
// waits for the resulting stopped event like a step would.
func (p *Proxy) Goto(targetID int) error {
	if err := p.requireInitialized(); err != nil {
		return err
	}
	if !p.caps.SupportsGotoTargetsRequest {
		return newStateError(CodeNotSupported, "adapter does not support goto")
	}
	p.resetFrames()
	if _, err := p.request(func(seq int) []byte {
		return dapmsg.Goto(seq, p.threadID, targetID)
	}); err != nil {
		return err
	}
	_, err := p.awaitStop()
	return err
}

// RestartFrame re-enters a frame from its start.
func (p *Proxy) RestartFrame(frameIndex int) error {
	if err := p.requireInitialized(); err != nil {
		return err
	}
	if !p.caps.SupportsRestartFrame {
		return newStateError(CodeNotSupported, "adapter does not support restartFrame")
	}
	frameID, err := p.resolveFrame(frameIndex)
	if err != nil {
		return err
	}
	p.resetFrames()
	if _, err := p.request(func(seq int) []byte {
		return dapmsg.RestartFrame(seq, frameID)
	}); err != nil {
		return err
	}
	_, err = p.awaitStop()
	return err
}

// StepInTargets lists the callees a stepIn at the given frame could land in.
func (p *Proxy) StepInTargets(frameIndex int) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	if !p.caps.SupportsStepInTargetsRequest {
		return nil, newStateError(CodeNotSupported, "adapter does not support stepInTargets")
	}
	frameID, err := p.resolveFrame(frameIndex)
	if err != nil {
		return nil, err
	}
	return p.request(func(seq int) []byte {
		return dapmsg.StepInTargets(seq, frameID)
	})
}

// Cancel asks the adapter to abort a pending request or progress sequence.
// The cancelled request's own read loop still completes with whatever the
// adapter produces.
func (p *Proxy) Cancel(requestID *int, progressID *string) error {
	if !p.caps.SupportsCancelRequest {
		return newStateError(CodeNotSupported, "adapter does not support cancel")
	}
	_, err := p.request(func(seq int) []byte {
		return dapmsg.Cancel(seq, requestID, progressID)
	})
	return err
}

// TerminateThreads terminates the given debuggee threads.
func (p *Proxy) TerminateThreads(threadIDs []int) error {
	if err := p.requireInitialized(); err != nil {
		return err
	}
	if !p.caps.SupportsTerminateThreadsRequest {
		return newStateError(CodeNotSupported, "adapter does not support terminateThreads")
	}
	_, err := p.request(func(seq int) []byte {
		return dapmsg.TerminateThreads(seq, threadIDs)
	})
	return err
}
