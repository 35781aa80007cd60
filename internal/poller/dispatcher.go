package poller

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/hlds-exporter/internal/protocol"
)

// Dispatcher is the single reader of the shared socket. It routes each
// inbound datagram by source address to the owning session's inbound queue;
// datagrams from unknown sources are dropped.
//
// The hand-off to a session's capacity-one channel blocks until the session
// drains its previous datagram, so one stuck session stalls delivery for
// everyone behind it. That head-of-line blocking is intentional: it bounds
// buffered inbound data at one datagram per session.
type Dispatcher struct {
	transport Transport
	sessions  map[string]chan<- []byte
}

func newDispatcher(transport Transport, sessions map[string]chan<- []byte) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		sessions:  sessions,
	}
}

// run receives until the context is cancelled. Receive errors never
// terminate the loop; closing the socket after cancellation is what finally
// unblocks a pending read.
func (d *Dispatcher) run(ctx context.Context) {
	buf := make([]byte, protocol.MaxReplySize)

	for {
		n, src, err := d.transport.ReadFrom(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}

			log.Warn().Err(err).Msg("Error reading from socket")
			continue
		}

		ch, ok := d.sessions[src.String()]
		if !ok {
			log.Trace().Str("source", src.String()).Msg("Dropped datagram from unknown source")
			continue
		}

		pkt := make([]byte, n)
		copy(pkt, buf[:n])

		select {
		case ch <- pkt:
		case <-ctx.Done():
			return
		}
	}
}
