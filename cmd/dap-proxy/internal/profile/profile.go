// Package profile loads launch profiles for dap-proxy: one YAML document
// describing how to start an adapter, what to launch, and which
// breakpoints to arm before the debuggee runs. A profile is the CLI's
// stand-in for the host's adapter-argv provider — it deserializes a
// caller-authored file, it does not discover or install adapters.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Breakpoint is one file breakpoint entry in a profile.
type Breakpoint struct {
	File         string `yaml:"file"`
	Line         int    `yaml:"line"`
	Condition    string `yaml:"condition,omitempty"`
	HitCondition string `yaml:"hit_condition,omitempty"`
	LogMessage   string `yaml:"log_message,omitempty"`
}

// FunctionBreakpoint is one function breakpoint entry in a profile.
type FunctionBreakpoint struct {
	Name      string `yaml:"name"`
	Condition string `yaml:"condition,omitempty"`
}

// Profile is one adapter launch description.
type Profile struct {
	// Adapter is the argv used to spawn the debug adapter.
	Adapter []string `yaml:"adapter"`
	// Env is the adapter's environment; empty means inherit.
	Env []string `yaml:"env,omitempty"`
	// Attach selects the attach handshake instead of launch.
	Attach bool `yaml:"attach,omitempty"`
	// Launch is the adapter-specific launch (or attach) configuration,
	// passed through verbatim.
	Launch map[string]any `yaml:"launch"`

	Breakpoints         []Breakpoint         `yaml:"breakpoints,omitempty"`
	FunctionBreakpoints []FunctionBreakpoint `yaml:"function_breakpoints,omitempty"`
	ExceptionFilters    []string             `yaml:"exception_filters,omitempty"`
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("profile: parse %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("profile: %s: %w", path, err)
	}
	return &p, nil
}

func (p *Profile) validate() error {
	if len(p.Adapter) == 0 {
		return fmt.Errorf("adapter argv is required")
	}
	if p.Launch == nil {
		return fmt.Errorf("launch configuration is required")
	}
	for i, bp := range p.Breakpoints {
		if bp.File == "" || bp.Line <= 0 {
			return fmt.Errorf("breakpoint %d: file and a positive line are required", i)
		}
	}
	for i, bp := range p.FunctionBreakpoints {
		if bp.Name == "" {
			return fmt.Errorf("function breakpoint %d: name is required", i)
		}
	}
	return nil
}
