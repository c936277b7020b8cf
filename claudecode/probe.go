package claudecode

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// probeTimeout bounds the one-time version check. The CLI answers --version
// in well under a second when installed; anything longer means trouble worth
// reporting as unavailable.
const probeTimeout = 10 * time.Second

// probe is the lazy, cached CLI availability check. The first request that
// needs the CLI pays for one `claude --version` spawn; every later request on
// the same adapter reads the cached verdict, whichever way it went.
type probe struct {
	once sync.Once
	ok   bool
	run  func(ctx context.Context) error
	log  zerolog.Logger
}

func newProbe(cliPath string, log zerolog.Logger) *probe {
	return &probe{
		run: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()
			return exec.CommandContext(ctx, cliPath, "--version").Run()
		},
		log: log,
	}
}

// available reports whether the CLI answered the version check. Never
// returns an error: a failed spawn is simply an unavailable CLI.
//
// The verdict is cached for the adapter's lifetime, so the check runs
// detached from the triggering request: a caller's cancelled or
// nearly-expired context must not decide whether the CLI exists.
func (p *probe) available(ctx context.Context) bool {
	p.once.Do(func() {
		err := p.run(context.WithoutCancel(ctx))
		p.ok = err == nil
		if err != nil {
			p.log.Debug().Err(err).Msg("claude cli probe failed")
		} else {
			p.log.Debug().Msg("claude cli probe succeeded")
		}
	})
	return p.ok
}
