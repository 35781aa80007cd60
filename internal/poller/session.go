package poller

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/woozymasta/hlds-exporter/internal/protocol"
)

// Session drives the query loop for exactly one game server address. It owns
// its challenge token and freshness timestamp; nothing outside the session
// goroutine touches them.
type Session struct {
	addr      *net.UDPAddr
	transport Transport
	sink      Sink
	limiter   *rate.Limiter // nil when the outbound limit is disabled

	interval time.Duration

	// packets is the capacity-one inbound queue fed by the dispatcher.
	packets chan []byte

	// challenges loops a freshly decoded token back into the select loop so
	// the re-query runs as its own event.
	challenges chan protocol.Challenge

	challenge []byte
	lastInfo  time.Time

	now func() time.Time
}

func newSession(addr *net.UDPAddr, interval time.Duration, transport Transport, sink Sink, limiter *rate.Limiter) *Session {
	return &Session{
		addr:       addr,
		transport:  transport,
		sink:       sink,
		limiter:    limiter,
		interval:   interval,
		packets:    make(chan []byte, 1),
		challenges: make(chan protocol.Challenge, 1),
		now:        time.Now,
	}
}

// run handles whichever event source is ready next until the context is
// cancelled. Simultaneous readiness of the ticker, a pending challenge, and
// a pending packet is resolved by select in unspecified order. The ticker's
// capacity-one channel coalesces missed ticks instead of queueing them.
func (s *Session) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.handleTick(ctx)
		case token := <-s.challenges:
			s.handleChallenge(ctx, token)
		case pkt := <-s.packets:
			s.handlePacket(pkt)
		}
	}
}

// handleTick issues a fresh query and reports liveness before any reply can
// arrive. A server is up only when an Info reply decoded successfully less
// than one interval ago; elapsed time exactly equal to the interval counts
// as stale.
func (s *Session) handleTick(ctx context.Context) {
	if err := s.query(ctx); err != nil {
		log.Debug().Err(err).Str("server", s.addr.String()).Msg("Error requesting info")
	}

	up := !s.lastInfo.IsZero() && s.now().Sub(s.lastInfo) < s.interval
	s.sink.ObserveUp(s.addr.String(), up)
}

// handleChallenge stores the fresh token and re-queries immediately instead
// of waiting for the next tick.
func (s *Session) handleChallenge(ctx context.Context, token protocol.Challenge) {
	s.challenge = token

	if err := s.query(ctx); err != nil {
		log.Debug().Err(err).Str("server", s.addr.String()).Msg("Error requesting info")
	}
}

// handlePacket decodes one routed datagram and reacts to the reply variant.
// Decode failures degrade this round to "no usable information", never more.
func (s *Session) handlePacket(pkt []byte) {
	reply, err := protocol.DecodeReply(pkt)
	if err != nil {
		if errors.Is(err, protocol.ErrSplitPacket) {
			log.Warn().Str("server", s.addr.String()).Msg("Split packet is not supported")
		} else {
			log.Trace().Err(err).Str("server", s.addr.String()).Msg("Dropped undecodable datagram")
		}
		return
	}

	switch r := reply.(type) {
	case *protocol.Info:
		s.lastInfo = s.now()

		addr := s.addr.String()
		s.sink.ObservePlayers(addr, int(r.Players), int(r.Bots))
		s.sink.ObserveInfo(addr, r.Name, r.Game, r.Version)

	case protocol.Challenge:
		// Drain a still-pending older token first; it is superseded anyway.
		// This loop is the only sender, so after the drain the capacity-one
		// send cannot block.
		select {
		case <-s.challenges:
		default:
		}
		s.challenges <- r

	case nil:
		// recognized header with an unknown tag, ignored
	}
}

// query sends an A2S_INFO request, echoing the stored challenge token when
// one is known. Transport failures leave the session state untouched; the
// next tick retries unconditionally.
func (s *Session) query(ctx context.Context) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	_, err := s.transport.WriteTo(protocol.EncodeQuery(s.challenge), s.addr)
	return err
}
