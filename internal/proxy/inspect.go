package proxy

import (
	"encoding/json"
	"strings"

	"github.com/kestrelproxy/dapbridge/internal/dapmsg"
	"github.com/kestrelproxy/dapbridge/internal/types"
)

// InspectRequest selects one of the three inspect shapes:
// a non-zero VariablesReference wins, then a Scope name, then an
// Expression. FrameID is the caller's 0-based frame index; zero means
// "current frame".
type InspectRequest struct {
	VariablesReference int
	Scope              string
	Expression         string
	FrameID            int
	Context            string
}

// InspectResult carries whichever shape the request produced: Variables
// for the reference/scope forms, Evaluate for the expression form.
type InspectResult struct {
	Variables []types.Variable      `json:"variables,omitempty"`
	Evaluate  *types.EvaluateResult `json:"evaluate,omitempty"`
}

// Inspect reads debuggee state through whichever of the three shapes the
// request selects. An adapter-side evaluate failure is surfaced as the
// result text rather than an error.
func (p *Proxy) Inspect(req InspectRequest) (*InspectResult, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}

	switch {
	case req.VariablesReference > 0:
		vars, err := p.fetchVariables(req.VariablesReference)
		if err != nil {
			return nil, err
		}
		return &InspectResult{Variables: vars}, nil

	case req.Scope != "":
		ref, err := p.scopeReference(req.FrameID, req.Scope)
		if err != nil {
			return nil, err
		}
		vars, err := p.fetchVariables(ref)
		if err != nil {
			return nil, err
		}
		return &InspectResult{Variables: vars}, nil

	case req.Expression != "":
		res, err := p.evaluate(req.Expression, req.FrameID, req.Context)
		if err != nil {
			return nil, err
		}
		return &InspectResult{Evaluate: res}, nil

	default:
		return nil, newStateError(CodeInvalidResponse, "inspect: no variables reference, scope, or expression given")
	}
}

// Evaluate is the expression form of Inspect, exposed directly for
// callers that only ever evaluate.
func (p *Proxy) Evaluate(expression string, frameIndex int, context string) (*types.EvaluateResult, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	return p.evaluate(expression, frameIndex, context)
}

func (p *Proxy) evaluate(expression string, frameIndex int, context string) (*types.EvaluateResult, error) {
	frameID, err := p.resolveFrame(frameIndex)
	if err != nil {
		frameID = p.currentFrameID
	}

	body, reqErr := p.request(func(seq int) []byte {
		return dapmsg.Evaluate(seq, expression, frameID, context)
	})
	if reqErr != nil {
		// The adapter's rejection message becomes the result text; the
		// session keeps going.
		if perr, ok := reqErr.(*ProtocolError); ok {
			return &types.EvaluateResult{Result: perr.Message}, nil
		}
		return nil, reqErr
	}

	var resp struct {
		Result             string `json:"result"`
		Type               string `json:"type"`
		VariablesReference int    `json:"variablesReference"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newStateError(CodeInvalidResponse, "evaluate: "+err.Error())
	}

	out := &types.EvaluateResult{
		Result:             resp.Result,
		Type:               resp.Type,
		VariablesReference: resp.VariablesReference,
	}
	if resp.VariablesReference > 0 {
		children, err := p.fetchVariables(resp.VariablesReference)
		if err == nil {
			out.Children = children
		}
	}
	return out, nil
}

// scopeReference resolves a scope name (case-insensitive, with a request
// for "arguments" also matching any scope whose name contains "arg" —
// adapters disagree on "Arguments" vs "args") to its variables reference
// within a frame.
func (p *Proxy) scopeReference(frameIndex int, scope string) (int, error) {
	frameID, err := p.resolveFrame(frameIndex)
	if err != nil {
		return 0, err
	}
	scopes, err := p.fetchScopes(frameID)
	if err != nil {
		return 0, err
	}

	want := strings.ToLower(scope)
	for _, s := range scopes {
		name := strings.ToLower(s.Name)
		if name == want {
			return s.VariablesReference, nil
		}
		if want == "arguments" && strings.Contains(name, "arg") {
			return s.VariablesReference, nil
		}
	}
	return 0, newStateError(CodeInvalidResponse, "no scope named "+scope)
}

type scopeEntry struct {
	Name               string `json:"name"`
	VariablesReference int    `json:"variablesReference"`
	Expensive          bool   `json:"expensive"`
}

func (p *Proxy) fetchScopes(frameID int) ([]scopeEntry, error) {
	body, err := p.request(func(seq int) []byte {
		return dapmsg.Scopes(seq, frameID)
	})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Scopes []scopeEntry `json:"scopes"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newStateError(CodeInvalidResponse, "scopes: "+err.Error())
	}
	return resp.Scopes, nil
}

// Scopes returns the raw scope list for a caller-facing frame index.
func (p *Proxy) Scopes(frameIndex int) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	frameID, err := p.resolveFrame(frameIndex)
	if err != nil {
		return nil, err
	}
	return p.request(func(seq int) []byte {
		return dapmsg.Scopes(seq, frameID)
	})
}

func (p *Proxy) fetchVariables(ref int) ([]types.Variable, error) {
	body, err := p.request(func(seq int) []byte {
		return dapmsg.Variables(seq, ref)
	})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Variables []struct {
			Name               string `json:"name"`
			Value              string `json:"value"`
			Type               string `json:"type"`
			VariablesReference int    `json:"variablesReference"`
		} `json:"variables"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, newStateError(CodeInvalidResponse, "variables: "+err.Error())
	}
	out := make([]types.Variable, len(resp.Variables))
	for i, v := range resp.Variables {
		out[i] = types.Variable{
			Name:               v.Name,
			Value:              v.Value,
			Type:               v.Type,
			VariablesReference: v.VariablesReference,
		}
	}
	return out, nil
}

// SetVariable assigns a value to a named variable in a frame's first
// scope. A zero frameIndex means "current frame".
func (p *Proxy) SetVariable(frameIndex int, name, value string) error {
	if err := p.requireInitialized(); err != nil {
		return err
	}
	if !p.caps.SupportsSetVariable {
		return newStateError(CodeNotSupported, "adapter does not support setVariable")
	}

	frameID, err := p.resolveFrame(frameIndex)
	if err != nil {
		return err
	}
	scopes, err := p.fetchScopes(frameID)
	if err != nil {
		return err
	}
	if len(scopes) == 0 {
		return newStateError(CodeInvalidResponse, "frame has no scopes")
	}

	_, err = p.request(func(seq int) []byte {
		return dapmsg.SetVariable(seq, scopes[0].VariablesReference, name, value)
	})
	return err
}

// SetExpression assigns a value to an assignable expression.
func (p *Proxy) SetExpression(expression, value string, frameIndex int) error {
	if err := p.requireInitialized(); err != nil {
		return err
	}
	if !p.caps.SupportsSetExpression {
		return newStateError(CodeNotSupported, "adapter does not support setExpression")
	}
	frameID, err := p.resolveFrame(frameIndex)
	if err != nil {
		return err
	}
	_, err = p.request(func(seq int) []byte {
		return dapmsg.SetExpression(seq, expression, value, frameID)
	})
	return err
}

// Completions asks the adapter for completion candidates within an
// evaluate/REPL text at a cursor column.
func (p *Proxy) Completions(text string, column int, frameIndex int) (json.RawMessage, error) {
	if err := p.requireInitialized(); err != nil {
		return nil, err
	}
	if !p.caps.SupportsCompletionsRequest {
		return nil, newStateError(CodeNotSupported, "adapter does not support completions")
	}
	frameID, err := p.resolveFrame(frameIndex)
	if err != nil {
		frameID = 0
	}
	return p.request(func(seq int) []byte {
		return dapmsg.Completions(seq, text, column, frameID)
	})
}
