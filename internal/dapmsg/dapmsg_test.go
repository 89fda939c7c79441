package dapmsg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestBuildersEmitRequestEnvelope(t *testing.T) {
	cases := map[string][]byte{
		"initialize":        Initialize(1, InitializeArgs{AdapterID: "dlv"}),
		"launch":            Launch(2, map[string]any{"program": "./app"}),
		"attach":            Attach(3, map[string]any{"processId": 42}),
		"configurationDone": ConfigurationDone(4),
		"continue":          Continue(5, 1, false),
		"threads":           Threads(6),
		"stackTrace":        StackTrace(7, 1, 0, 20),
		"evaluate":          Evaluate(8, "x+1", 100, "repl"),
		"cancel":            Cancel(9, nil, nil),
		"disconnect":        Disconnect(10, nil),
	}
	seq := map[string]float64{
		"initialize": 1, "launch": 2, "attach": 3, "configurationDone": 4,
		"continue": 5, "threads": 6, "stackTrace": 7, "evaluate": 8,
		"cancel": 9, "disconnect": 10,
	}
	for command, raw := range cases {
		m := decode(t, raw)
		require.Equal(t, "request", m["type"], command)
		require.Equal(t, command, m["command"])
		require.Equal(t, seq[command], m["seq"], command)
	}
}

func TestNoArgCommandsOmitArguments(t *testing.T) {
	for _, raw := range [][]byte{ConfigurationDone(1), Threads(2), LoadedSources(3), Disconnect(4, nil)} {
		m := decode(t, raw)
		_, present := m["arguments"]
		require.False(t, present, string(raw))
	}
}

func TestSetBreakpointsCarriesFullOptions(t *testing.T) {
	raw := SetBreakpointsFull(3, "/src/main.go", []SourceBreakpoint{
		{Line: 10, Condition: "n > 3", HitCondition: "5", LogMessage: "hit {n}"},
		{Line: 20},
	})
	m := decode(t, raw)
	args := m["arguments"].(map[string]any)
	require.Equal(t, "/src/main.go", args["source"].(map[string]any)["path"])

	bps := args["breakpoints"].([]any)
	require.Len(t, bps, 2)
	first := bps[0].(map[string]any)
	require.Equal(t, "n > 3", first["condition"])
	require.Equal(t, "5", first["hitCondition"])
	require.Equal(t, "hit {n}", first["logMessage"])

	second := bps[1].(map[string]any)
	require.Equal(t, float64(20), second["line"])
	_, hasCondition := second["condition"]
	require.False(t, hasCondition, "empty options are omitted")
}

func TestSetExceptionBreakpointsAlwaysSendsFilterOptions(t *testing.T) {
	m := decode(t, SetExceptionBreakpoints(1, nil, nil))
	args := m["arguments"].(map[string]any)
	require.Equal(t, []any{}, args["filters"])
	require.Equal(t, []any{}, args["filterOptions"])
}

func TestDisconnectRestartHints(t *testing.T) {
	restart := true
	terminate := false
	m := decode(t, Disconnect(1, &DisconnectArgs{Restart: &restart, TerminateDebuggee: &terminate}))
	args := m["arguments"].(map[string]any)
	require.Equal(t, true, args["restart"])
	require.Equal(t, false, args["terminateDebuggee"])
	_, present := args["suspendDebuggee"]
	require.False(t, present)
}

func TestSuccessResponseShape(t *testing.T) {
	m := decode(t, SuccessResponse(7, 50, "runInTerminal", map[string]any{"processId": 99}))
	require.Equal(t, "response", m["type"])
	require.Equal(t, float64(7), m["seq"])
	require.Equal(t, float64(50), m["request_seq"])
	require.Equal(t, true, m["success"])
	require.Equal(t, "runInTerminal", m["command"])
}

func TestMarshalArgumentsHonorsTags(t *testing.T) {
	type launchConfig struct {
		Program     string `json:"program"`
		StopOnEntry bool   `json:"stopOnEntry,omitempty"`
	}
	m, err := MarshalArguments(launchConfig{Program: "./app"})
	require.NoError(t, err)
	require.Equal(t, "./app", m["program"])
	_, present := m["stopOnEntry"]
	require.False(t, present)
}
