package proxy

// resolveFrame translates a caller's 0-based frame index into the
// adapter-assigned DAP frame id: the cached id at that
// depth if in range, else the topmost frame's id, else an error — there
// is nothing to resolve against before the first stopped event.
func (p *Proxy) resolveFrame(index int) (int, error) {
	if index >= 0 && index < len(p.frameIDs) {
		return p.frameIDs[index], nil
	}
	if p.haveCurrentFrame {
		return p.currentFrameID, nil
	}
	return 0, newStateError(CodeInvalidResponse, "no stack frames cached; debuggee not stopped")
}

// resetFrames drops every cached frame id and variables-reference-derived
// position. Called on every resume and every restart — DAP invalidates
// these handles at each of those transitions.
func (p *Proxy) resetFrames() {
	p.frameIDs = nil
	p.currentFrameID = 0
	p.haveCurrentFrame = false
}

// cacheFrames records the DAP frame ids from a fresh stackTrace response,
// positionally indexed by depth, and marks the topmost as current.
func (p *Proxy) cacheFrames(ids []int) {
	p.frameIDs = ids
	if len(ids) > 0 {
		p.currentFrameID = ids[0]
		p.haveCurrentFrame = true
	} else {
		p.haveCurrentFrame = false
	}
}
