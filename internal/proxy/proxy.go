// Package proxy implements the DAP proxy session core: the handshake and
// request/response dispatcher, the capability cache and frame-id map, and
// the public driver interface other packages call through. It is the sole
// owner of a session's I/O — single-threaded and cooperative, one DAP
// request/response round trip at a time; hosts wanting concurrency must
// serialize around it.
package proxy

import (
	"bufio"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kestrelproxy/dapbridge/internal/breakpoints"
	"github.com/kestrelproxy/dapbridge/internal/child"
	"github.com/kestrelproxy/dapbridge/internal/dapmsg"
	"github.com/kestrelproxy/dapbridge/internal/notify"
	"github.com/kestrelproxy/dapbridge/internal/transport"
	"github.com/kestrelproxy/dapbridge/internal/types"
)

// Config holds the tunables a caller sets once, at construction time, in
// place of package-level globals.
type Config struct {
	PollTimeout time.Duration
	Logger      *log.Logger
	Env         []string
	AdapterID   string
	ClientID    string
	ClientName  string
}

// Option mutates a Config.
type Option func(*Config)

// WithPollTimeout overrides the transport's read-poll window (default 30s).
func WithPollTimeout(d time.Duration) Option {
	return func(c *Config) { c.PollTimeout = d }
}

// WithLogger injects a structured logger. The default is a logger with
// output discarded, so using this package as a library never requires a
// caller to silence it first.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithEnv sets the environment passed to the spawned adapter process (and
// to its respawned replacement on an emulated restart). Nil means inherit
// the parent's environment.
func WithEnv(env []string) Option {
	return func(c *Config) { c.Env = env }
}

// WithAdapterID sets the "adapterID" field sent in the initialize request.
func WithAdapterID(id string) Option {
	return func(c *Config) { c.AdapterID = id }
}

// WithClientID sets the "clientID"/"clientName" fields sent in the
// initialize request.
func WithClientID(id, name string) Option {
	return func(c *Config) { c.ClientID = id; c.ClientName = name }
}

func defaultConfig() Config {
	return Config{
		PollTimeout: transport.DefaultTimeout,
		Logger:      log.NewWithOptions(discardWriter{}, log.Options{}),
		AdapterID:   "dapbridge",
		ClientID:    "dapbridge",
		ClientName:  "DAP Bridge",
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// launchState is the saved launch/attach configuration needed to emulate a
// restart: a fresh adapter process re-runs the handshake from scratch
// using exactly this.
type launchState struct {
	isAttach  bool
	rawConfig map[string]any
}

// Proxy is one debug session: the child adapter, its transport, the
// dispatch state machine, and all state that must survive a restart. It
// implements Driver. Nothing outside this package's methods may mutate a
// Proxy's fields — the single-owner contract the dispatch model depends
// on.
type Proxy struct {
	cfg Config
	log *log.Logger

	argv  []string
	child *child.Child
	tr    *transport.Transport

	seq int

	threadID         int
	frameIDs         []int
	currentFrameID   int
	haveCurrentFrame bool

	initialized bool
	savedLaunch launchState

	registry *breakpoints.Registry
	caps     types.Capabilities

	notifications *notify.Queue
	parked        map[string][]rawEventBody

	// respawn replaces the dead adapter during an emulated restart. Set to
	// respawnChild by New; a seam for tests that have no real process.
	respawn func() error

	output          []types.OutputLine
	loadedModules   []rawEventBody
	memoryEvents    []rawEventBody
	invalidated     []rawEventBody
	progress        map[string]rawEventBody
	lastException   rawEventBody
}

// New spawns the adapter named by argv[0] (with argv[1:] as arguments) and
// returns a Proxy ready for Launch or Attach. It does not perform any part
// of the DAP handshake itself.
func New(argv []string, opts ...Option) (*Proxy, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	c, err := child.Spawn(argv, cfg.Env)
	if err != nil {
		return nil, err
	}

	p := &Proxy{
		cfg:           cfg,
		log:           cfg.Logger,
		argv:          argv,
		child:         c,
		registry:      breakpoints.New(),
		notifications: notify.New(),
		parked:        make(map[string][]rawEventBody),
		progress:      make(map[string]rawEventBody),
	}
	p.tr = newTransportFor(c, cfg.PollTimeout)
	p.respawn = p.respawnChild
	p.log.Debug("adapter spawned", "argv", argv, "pid", c.PID())
	return p, nil
}

// respawnChild starts a fresh adapter process from the saved argv and
// points the transport at it — the emulated-restart replacement step.
func (p *Proxy) respawnChild() error {
	c, err := child.Spawn(p.argv, p.cfg.Env)
	if err != nil {
		return err
	}
	p.child = c
	p.tr = newTransportFor(c, p.cfg.PollTimeout)
	p.log.Debug("adapter respawned", "pid", c.PID())
	return nil
}

func newTransportFor(c *child.Child, timeout time.Duration) *transport.Transport {
	return transport.NewContentLength(c.Stdout, bufio.NewWriter(c.Stdin), timeout)
}

func (p *Proxy) nextSeq() int {
	p.seq++
	return p.seq
}

func (p *Proxy) initializeArgs() dapmsg.InitializeArgs {
	return dapmsg.InitializeArgs{
		ClientID:                     p.cfg.ClientID,
		ClientName:                   p.cfg.ClientName,
		AdapterID:                    p.cfg.AdapterID,
		LinesStartAt1:                true,
		ColumnsStartAt1:              true,
		PathFormat:                   "path",
		SupportsRunInTerminalRequest: true,
		SupportsProgressReporting:    true,
		SupportsInvalidatedEvent:     true,
		SupportsMemoryEvent:          true,
		SupportsStartDebuggingRequest: true,
	}
}

// Initialized reports whether the session has completed the
// initialize/launch/configurationDone handshake and has not since seen a
// terminated event.
func (p *Proxy) Initialized() bool { return p.initialized }

// GetPID returns the current adapter process id.
func (p *Proxy) GetPID() int {
	if p.child == nil {
		return -1
	}
	return p.child.PID()
}

// Capabilities returns a snapshot of the current capability cache.
func (p *Proxy) Capabilities() types.Capabilities { return p.caps }

func (p *Proxy) takeOutput() []types.OutputLine {
	out := p.output
	p.output = nil
	return out
}

// LoadedModules returns the raw bodies of every module event seen with
// reason new/changed.
func (p *Proxy) LoadedModules() []rawEventBody { return p.loadedModules }

// MemoryEvents returns the raw bodies of every memory event seen.
func (p *Proxy) MemoryEvents() []rawEventBody { return p.memoryEvents }

// InvalidatedAreas returns the raw bodies of every invalidated event seen.
func (p *Proxy) InvalidatedAreas() []rawEventBody { return p.invalidated }

// Progress returns the latest progress event body recorded for id.
func (p *Proxy) Progress(id string) (rawEventBody, bool) {
	body, ok := p.progress[id]
	return body, ok
}

// LastException returns the body of the most recent exceptionInfo
// response, if any.
func (p *Proxy) LastException() rawEventBody { return p.lastException }
