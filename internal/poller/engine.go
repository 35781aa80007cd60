package poller

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Config carries everything the engine needs from the startup layer.
type Config struct {
	// Transport is the already-bound shared socket.
	Transport Transport

	// Sink receives the observations; wrap several with MultiSink.
	Sink Sink

	// Limiter optionally caps aggregate outbound queries per second across
	// all sessions. Nil disables the limit.
	Limiter *rate.Limiter

	// Targets lists the game server addresses to poll.
	Targets []*net.UDPAddr

	// Interval is the per-session poll period and the liveness window.
	Interval time.Duration
}

// Engine owns one session per unique target plus the dispatcher feeding them
// from the shared socket. Sessions live for the process lifetime.
type Engine struct {
	dispatcher *Dispatcher
	sessions   []*Session
}

// New validates the configuration, collapses duplicate targets, and wires
// every session to the dispatcher. A duplicate address is skipped with a
// warning and still ends up with exactly one session.
func New(cfg Config) (*Engine, error) {
	if cfg.Transport == nil {
		return nil, errors.New("poller: transport required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("poller: sink required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Targets) == 0 {
		return nil, errors.New("poller: at least one target required")
	}

	inbound := make(map[string]chan<- []byte, len(cfg.Targets))
	sessions := make([]*Session, 0, len(cfg.Targets))

	for _, addr := range cfg.Targets {
		key := addr.String()
		if _, dup := inbound[key]; dup {
			log.Warn().Str("server", key).Msg("Duplicate server address, skipping")
			continue
		}

		sess := newSession(addr, cfg.Interval, cfg.Transport, cfg.Sink, cfg.Limiter)
		inbound[key] = sess.packets
		sessions = append(sessions, sess)
	}

	return &Engine{
		dispatcher: newDispatcher(cfg.Transport, inbound),
		sessions:   sessions,
	}, nil
}

// Targets returns the deduplicated list of polled addresses.
func (e *Engine) Targets() []string {
	targets := make([]string, 0, len(e.sessions))
	for _, sess := range e.sessions {
		targets = append(targets, sess.addr.String())
	}

	return targets
}

// Run starts the session and dispatcher goroutines and blocks until the
// context is cancelled and all of them returned. Close the underlying socket
// after cancelling to unblock the dispatcher's pending read.
func (e *Engine) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for _, sess := range e.sessions {
		sess := sess
		wg.Add(1)
		go func() {
			defer wg.Done()
			sess.run(ctx)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		e.dispatcher.run(ctx)
	}()

	wg.Wait()
}
