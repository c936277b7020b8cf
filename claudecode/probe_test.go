package claudecode

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestProbeCachesSuccess(t *testing.T) {
	runs := 0
	p := &probe{
		run: func(context.Context) error {
			runs++
			return nil
		},
		log: zerolog.Nop(),
	}

	ctx := context.Background()
	assert.True(t, p.available(ctx))
	assert.True(t, p.available(ctx))
	assert.True(t, p.available(ctx))
	assert.Equal(t, 1, runs, "the version check runs once per adapter lifetime")
}

func TestProbeCachesFailure(t *testing.T) {
	runs := 0
	p := &probe{
		run: func(context.Context) error {
			runs++
			return errors.New("exec: \"claude\": executable file not found in $PATH")
		},
		log: zerolog.Nop(),
	}

	ctx := context.Background()
	assert.False(t, p.available(ctx))
	assert.False(t, p.available(ctx))
	assert.Equal(t, 1, runs, "an unavailable verdict is cached too, not re-probed")
}

func TestProbeDetachesFromCallerContext(t *testing.T) {
	runs := 0
	p := &probe{
		run: func(ctx context.Context) error {
			runs++
			return ctx.Err()
		},
		log: zerolog.Nop(),
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.True(t, p.available(cancelled),
		"a cancelled request must not poison the lifetime verdict")
	assert.True(t, p.available(context.Background()))
	assert.Equal(t, 1, runs)
}

func TestNewProbeDefaults(t *testing.T) {
	p := newProbe("claude", zerolog.Nop())
	assert.NotNil(t, p.run)
}
