// Package breakpoints holds the five breakpoint collections a session
// tracks across restarts — file, function, exception-filter, instruction,
// and data breakpoints — and assigns the proxy-local ids callers see.
// It owns no network I/O: internal/proxy calls Add/
// Remove/Set, reads back the resulting snapshot, and is responsible for
// actually sending the replace-all request that snapshot implies.
package breakpoints

import "sync"

// FileBreakpoint is one line-anchored breakpoint tracked for a source path.
type FileBreakpoint struct {
	ID           uint32
	Line         int
	Condition    string
	HitCondition string
	LogMessage   string
	Verified     bool
}

// FunctionBreakpoint is one breakpoint anchored to a function name.
type FunctionBreakpoint struct {
	ID           uint32
	Name         string
	Condition    string
	HitCondition string
	Verified     bool
}

// InstructionBreakpoint is one breakpoint anchored to a disassembly address.
type InstructionBreakpoint struct {
	ID                   uint32
	InstructionReference string
	Offset               int
	Condition            string
	HitCondition         string
	Verified             bool
}

// DataBreakpoint is one breakpoint anchored to a data-watchpoint id
// (resolved beforehand via a dataBreakpointInfo request).
type DataBreakpoint struct {
	ID           uint32
	DataID       string
	AccessType   string
	Condition    string
	HitCondition string
	Verified     bool
}

// location records where a local id lives, so Remove is O(1) regardless
// of kind.
type location struct {
	kind byte // 'f' file, 'n' function, 'i' instruction, 'd' data
	file string
}

// Registry is the session's breakpoint state. All collections are ordered
// slices (insertion order is preserved, matching what callers expect when
// they re-list); a single mutex protects everything since the dispatcher
// is the sole caller anyway — the lock exists only to make that
// assumption safe to violate by accident.
type Registry struct {
	mu sync.Mutex

	nextID uint32

	fileOrder []string
	files     map[string][]FileBreakpoint

	functions []FunctionBreakpoint

	exceptionFilters    []string
	exceptionConditions map[string]string

	instructions []InstructionBreakpoint
	data         []DataBreakpoint

	locations map[uint32]location
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		files:               make(map[string][]FileBreakpoint),
		exceptionConditions: make(map[string]string),
		locations:           make(map[uint32]location),
	}
}

func (r *Registry) allocID() uint32 {
	r.nextID++
	return r.nextID
}

// AddFile registers a new file breakpoint and returns its id plus the
// current full snapshot of breakpoints for that file — the list the
// caller must re-send via setBreakpoints. Verified is set true eagerly:
// the registry never waits on an adapter acknowledgment to consider a
// breakpoint "real".
func (r *Registry) AddFile(file string, line int, condition, hitCondition, logMessage string) (uint32, []FileBreakpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.allocID()
	bp := FileBreakpoint{
		ID: id, Line: line, Condition: condition,
		HitCondition: hitCondition, LogMessage: logMessage, Verified: true,
	}
	if _, ok := r.files[file]; !ok {
		r.fileOrder = append(r.fileOrder, file)
	}
	r.files[file] = append(r.files[file], bp)
	r.locations[id] = location{kind: 'f', file: file}
	return id, r.snapshotFileLocked(file)
}

// RemoveFile removes a file breakpoint by local id and returns the file it
// belonged to plus the resulting snapshot for that file. ok is false if id
// does not name a currently-registered file breakpoint.
func (r *Registry) RemoveFile(id uint32) (file string, snapshot []FileBreakpoint, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, exists := r.locations[id]
	if !exists || loc.kind != 'f' {
		return "", nil, false
	}
	list := r.files[loc.file]
	for i, bp := range list {
		if bp.ID == id {
			r.files[loc.file] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	delete(r.locations, id)
	return loc.file, r.snapshotFileLocked(loc.file), true
}

func (r *Registry) snapshotFileLocked(file string) []FileBreakpoint {
	list := r.files[file]
	out := make([]FileBreakpoint, len(list))
	copy(out, list)
	return out
}

// FileSnapshot returns the current full breakpoint list for file, e.g. for
// a re-arm pass.
func (r *Registry) FileSnapshot(file string) []FileBreakpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotFileLocked(file)
}

// Files returns every tracked file path, in the order it was first added.
func (r *Registry) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.fileOrder))
	copy(out, r.fileOrder)
	return out
}

// AddFunction registers a function breakpoint and returns its id plus the
// full function breakpoint snapshot.
func (r *Registry) AddFunction(name, condition, hitCondition string) (uint32, []FunctionBreakpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.allocID()
	r.functions = append(r.functions, FunctionBreakpoint{
		ID: id, Name: name, Condition: condition, HitCondition: hitCondition, Verified: true,
	})
	r.locations[id] = location{kind: 'n'}
	return id, r.snapshotFunctionsLocked()
}

// RemoveFunction removes a function breakpoint by id.
func (r *Registry) RemoveFunction(id uint32) ([]FunctionBreakpoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, exists := r.locations[id]
	if !exists || loc.kind != 'n' {
		return nil, false
	}
	for i, bp := range r.functions {
		if bp.ID == id {
			r.functions = append(r.functions[:i:i], r.functions[i+1:]...)
			break
		}
	}
	delete(r.locations, id)
	return r.snapshotFunctionsLocked(), true
}

func (r *Registry) snapshotFunctionsLocked() []FunctionBreakpoint {
	out := make([]FunctionBreakpoint, len(r.functions))
	copy(out, r.functions)
	return out
}

// Functions returns the current function breakpoint snapshot.
func (r *Registry) Functions() []FunctionBreakpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotFunctionsLocked()
}

// SetExceptionFilters replaces the whole exception-filter set, persisted
// across restarts for re-arming.
func (r *Registry) SetExceptionFilters(filters []string, conditions map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exceptionFilters = append([]string(nil), filters...)
	r.exceptionConditions = make(map[string]string, len(conditions))
	for k, v := range conditions {
		r.exceptionConditions[k] = v
	}
}

// ExceptionFilters returns the most recently applied filter set.
func (r *Registry) ExceptionFilters() ([]string, map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	filters := append([]string(nil), r.exceptionFilters...)
	conditions := make(map[string]string, len(r.exceptionConditions))
	for k, v := range r.exceptionConditions {
		conditions[k] = v
	}
	return filters, conditions
}

// AddInstruction registers an instruction breakpoint.
func (r *Registry) AddInstruction(ref string, offset int, condition, hitCondition string) (uint32, []InstructionBreakpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.allocID()
	r.instructions = append(r.instructions, InstructionBreakpoint{
		ID: id, InstructionReference: ref, Offset: offset,
		Condition: condition, HitCondition: hitCondition, Verified: true,
	})
	r.locations[id] = location{kind: 'i'}
	return id, r.snapshotInstructionsLocked()
}

// RemoveInstruction removes an instruction breakpoint by id.
func (r *Registry) RemoveInstruction(id uint32) ([]InstructionBreakpoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, exists := r.locations[id]
	if !exists || loc.kind != 'i' {
		return nil, false
	}
	for i, bp := range r.instructions {
		if bp.ID == id {
			r.instructions = append(r.instructions[:i:i], r.instructions[i+1:]...)
			break
		}
	}
	delete(r.locations, id)
	return r.snapshotInstructionsLocked(), true
}

func (r *Registry) snapshotInstructionsLocked() []InstructionBreakpoint {
	out := make([]InstructionBreakpoint, len(r.instructions))
	copy(out, r.instructions)
	return out
}

// Instructions returns the current instruction breakpoint snapshot.
func (r *Registry) Instructions() []InstructionBreakpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotInstructionsLocked()
}

// AddData registers a data (watchpoint) breakpoint.
func (r *Registry) AddData(dataID, accessType, condition, hitCondition string) (uint32, []DataBreakpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.allocID()
	r.data = append(r.data, DataBreakpoint{
		ID: id, DataID: dataID, AccessType: accessType,
		Condition: condition, HitCondition: hitCondition, Verified: true,
	})
	r.locations[id] = location{kind: 'd'}
	return id, r.snapshotDataLocked()
}

// RemoveData removes a data breakpoint by id.
func (r *Registry) RemoveData(id uint32) ([]DataBreakpoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loc, exists := r.locations[id]
	if !exists || loc.kind != 'd' {
		return nil, false
	}
	for i, bp := range r.data {
		if bp.ID == id {
			r.data = append(r.data[:i:i], r.data[i+1:]...)
			break
		}
	}
	delete(r.locations, id)
	return r.snapshotDataLocked(), true
}

func (r *Registry) snapshotDataLocked() []DataBreakpoint {
	out := make([]DataBreakpoint, len(r.data))
	copy(out, r.data)
	return out
}

// DataBreakpoints returns the current data breakpoint snapshot.
func (r *Registry) DataBreakpoints() []DataBreakpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotDataLocked()
}

// Remove removes a breakpoint by local id regardless of kind — the generic
// form of the public remove-breakpoint operation. ok is false if id is
// unknown.
func (r *Registry) Remove(id uint32) (ok bool) {
	r.mu.Lock()
	loc, exists := r.locations[id]
	r.mu.Unlock()
	if !exists {
		return false
	}
	switch loc.kind {
	case 'f':
		_, _, ok = r.RemoveFile(id)
	case 'n':
		_, ok = r.RemoveFunction(id)
	case 'i':
		_, ok = r.RemoveInstruction(id)
	case 'd':
		_, ok = r.RemoveData(id)
	}
	return ok
}
