package proxy

import (
	"github.com/kestrelproxy/dapbridge/internal/dapmsg"
)

// Restart restarts the debuggee: natively when the adapter advertises
// supportsRestartRequest, otherwise by tearing the adapter down and
// replaying the whole launch handshake against a fresh one.
func (p *Proxy) Restart() error {
	if p.caps.SupportsRestartRequest {
		return p.nativeRestart()
	}
	return p.emulatedRestart()
}

func (p *Proxy) nativeRestart() error {
	seq := p.nextSeq()
	if err := p.write(dapmsg.Restart(seq, p.savedLaunch.rawConfig)); err != nil {
		return err
	}
	// initialized is set straight after the restart request is written. A
	// terminated event read during the wait below still flips it off
	// through its handler; the assignment after configurationDone restores
	// it.
	p.initialized = true

	if _, err := p.wait(pending{events: map[string]bool{"initialized": true}}); err != nil {
		return err
	}
	if err := p.rearm(); err != nil {
		return err
	}
	if err := p.write(dapmsg.ConfigurationDone(p.nextSeq())); err != nil {
		return err
	}
	p.initialized = true
	p.log.Debug("native restart complete")
	return nil
}

// emulatedRestart disposes of the current adapter entirely and spawns a
// replacement: disconnect with restart=true, kill the process group, reset
// every piece of per-adapter state (seq restarts at 1 — a new adapter is a
// fresh stream), then re-run the launch handshake, which re-arms
// breakpoints between the initialized event and configurationDone.
func (p *Proxy) emulatedRestart() error {
	restart := true
	terminate := false
	_, _ = p.request(func(seq int) []byte {
		return dapmsg.Disconnect(seq, &dapmsg.DisconnectArgs{
			Restart:           &restart,
			TerminateDebuggee: &terminate,
		})
	})

	if p.child != nil {
		p.child.Kill()
		p.child = nil
	}

	p.initialized = false
	p.seq = 0
	p.resetFrames()
	p.parked = make(map[string][]rawEventBody)

	if err := p.respawn(); err != nil {
		return err
	}
	return p.handshake()
}

// rearm re-sends every breakpoint collection to the adapter: the full
// per-file list for each known file, then the function set, then the
// exception filter set, then instruction and data sets when present.
// Called between the initialized event and
// configurationDone so the debuggee never runs without its breakpoints.
func (p *Proxy) rearm() error {
	for _, file := range p.registry.Files() {
		if err := p.sendFileBreakpoints(file, p.registry.FileSnapshot(file)); err != nil {
			return err
		}
	}
	if fns := p.registry.Functions(); len(fns) > 0 {
		if err := p.sendFunctionBreakpoints(fns); err != nil {
			return err
		}
	}
	if filters, conditions := p.registry.ExceptionFilters(); len(filters) > 0 {
		if err := p.sendExceptionFilters(filters, conditions); err != nil {
			return err
		}
	}
	if ins := p.registry.Instructions(); len(ins) > 0 {
		if err := p.sendInstructionBreakpoints(ins); err != nil {
			return err
		}
	}
	if data := p.registry.DataBreakpoints(); len(data) > 0 {
		if err := p.sendDataBreakpoints(data); err != nil {
			return err
		}
	}
	return nil
}
