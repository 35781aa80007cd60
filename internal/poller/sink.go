// Package poller implements the A2S polling engine: one session per game
// server driving the query/challenge handshake, and a dispatcher fanning the
// shared socket out to the sessions.
package poller

import "net"

// Sink receives the observations the engine extracts from replies. Every
// implementation must be safe for concurrent use by many sessions.
type Sink interface {
	// ObserveUp reports whether the server answered within the last poll
	// interval.
	ObserveUp(addr string, up bool)

	// ObservePlayers reports the current player and bot counts.
	ObservePlayers(addr string, players, bots int)

	// ObserveInfo reports the server identity fields.
	ObserveInfo(addr, name, game, version string)
}

// Transport is the shared send/receive half of an already-bound UDP socket.
// *net.UDPConn satisfies it. Sends are addressed per call, so any number of
// sessions may write concurrently.
type Transport interface {
	WriteTo(p []byte, addr net.Addr) (int, error)
	ReadFrom(p []byte) (int, net.Addr, error)
}

type multiSink []Sink

// MultiSink fans every observation out to all wrapped sinks in order.
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) ObserveUp(addr string, up bool) {
	for _, s := range m {
		s.ObserveUp(addr, up)
	}
}

func (m multiSink) ObservePlayers(addr string, players, bots int) {
	for _, s := range m {
		s.ObservePlayers(addr, players, bots)
	}
}

func (m multiSink) ObserveInfo(addr, name, game, version string) {
	for _, s := range m {
		s.ObserveInfo(addr, name, game, version)
	}
}
