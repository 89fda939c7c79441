package dapmsg

// Scopes builds the scopes request for a given DAP frame id.
func Scopes(seq int, frameID int) []byte {
	type args struct {
		FrameID int `json:"frameId"`
	}
	return build(seq, "scopes", args{FrameID: frameID})
}

// Variables builds the variables request against a variables reference
// minted by a prior scopes/variables/evaluate response.
func Variables(seq int, variablesReference int) []byte {
	type args struct {
		VariablesReference int `json:"variablesReference"`
	}
	return build(seq, "variables", args{VariablesReference: variablesReference})
}

// Evaluate builds the evaluate request. context is one of DAP's
// "watch"/"repl"/"hover"/"clipboard" (or adapter-defined) hints.
func Evaluate(seq int, expression string, frameID int, context string) []byte {
	type args struct {
		Expression string `json:"expression"`
		FrameID    int    `json:"frameId,omitempty"`
		Context    string `json:"context,omitempty"`
	}
	return build(seq, "evaluate", args{Expression: expression, FrameID: frameID, Context: context})
}

// SetVariable builds the setVariable request against a scope's variables
// reference.
func SetVariable(seq int, variablesReference int, name, value string) []byte {
	type args struct {
		VariablesReference int    `json:"variablesReference"`
		Name               string `json:"name"`
		Value              string `json:"value"`
	}
	return build(seq, "setVariable", args{VariablesReference: variablesReference, Name: name, Value: value})
}

// SetExpression builds the setExpression request.
func SetExpression(seq int, expression, value string, frameID int) []byte {
	type args struct {
		Expression string `json:"expression"`
		Value      string `json:"value"`
		FrameID    int    `json:"frameId,omitempty"`
	}
	return build(seq, "setExpression", args{Expression: expression, Value: value, FrameID: frameID})
}

// Completions builds the completions request.
func Completions(seq int, text string, column int, frameID int) []byte {
	type args struct {
		FrameID int    `json:"frameId,omitempty"`
		Text    string `json:"text"`
		Column  int    `json:"column"`
	}
	return build(seq, "completions", args{FrameID: frameID, Text: text, Column: column})
}

// Modules builds the modules request.
func Modules(seq int, startModule, moduleCount int) []byte {
	type args struct {
		StartModule int `json:"startModule,omitempty"`
		ModuleCount int `json:"moduleCount,omitempty"`
	}
	return build(seq, "modules", args{StartModule: startModule, ModuleCount: moduleCount})
}

// LoadedSources builds the loadedSources request, which takes no arguments.
func LoadedSources(seq int) []byte {
	return buildNoArgs(seq, "loadedSources")
}

// Source builds the source request. sourceReference identifies content the
// adapter holds only in memory (no path); path is the alternative when the
// source has one.
func Source(seq int, path string, sourceReference int) []byte {
	type source struct {
		Path            string `json:"path,omitempty"`
		SourceReference int    `json:"sourceReference,omitempty"`
	}
	type args struct {
		Source          source `json:"source,omitempty"`
		SourceReference int    `json:"sourceReference"`
	}
	return build(seq, "source", args{
		Source:          source{Path: path, SourceReference: sourceReference},
		SourceReference: sourceReference,
	})
}

// ReadMemory builds the readMemory request. memoryReference is the
// adapter-minted address string from a variable/evaluate result.
func ReadMemory(seq int, memoryReference string, offset, count int) []byte {
	type args struct {
		MemoryReference string `json:"memoryReference"`
		Offset          int    `json:"offset,omitempty"`
		Count           int    `json:"count"`
	}
	return build(seq, "readMemory", args{MemoryReference: memoryReference, Offset: offset, Count: count})
}

// WriteMemory builds the writeMemory request. data is base64-encoded bytes,
// per DAP's WriteMemoryArguments.
func WriteMemory(seq int, memoryReference string, offset int, data string, allowPartial bool) []byte {
	type args struct {
		MemoryReference string `json:"memoryReference"`
		Offset          int    `json:"offset,omitempty"`
		AllowPartial    bool   `json:"allowPartial,omitempty"`
		Data            string `json:"data"`
	}
	return build(seq, "writeMemory", args{MemoryReference: memoryReference, Offset: offset, AllowPartial: allowPartial, Data: data})
}

// Disassemble builds the disassemble request.
func Disassemble(seq int, memoryReference string, instructionOffset, instructionCount int) []byte {
	type args struct {
		MemoryReference   string `json:"memoryReference"`
		InstructionOffset int    `json:"instructionOffset,omitempty"`
		InstructionCount  int    `json:"instructionCount"`
	}
	return build(seq, "disassemble", args{
		MemoryReference:   memoryReference,
		InstructionOffset: instructionOffset,
		InstructionCount:  instructionCount,
	})
}

// ExceptionInfo builds the exceptionInfo request.
func ExceptionInfo(seq int, threadID int) []byte {
	type args struct {
		ThreadID int `json:"threadId"`
	}
	return build(seq, "exceptionInfo", args{ThreadID: threadID})
}
