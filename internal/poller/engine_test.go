package poller

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestNewCollapsesDuplicateTargets(t *testing.T) {
	transport := newFakeTransport()
	engine, err := New(Config{
		Transport: transport,
		Sink:      &recordSink{},
		Interval:  5 * time.Second,
		Targets: []*net.UDPAddr{
			udpAddr(t, "10.0.0.1:27015"),
			udpAddr(t, "10.0.0.2:27015"),
			udpAddr(t, "10.0.0.1:27015"),
		},
	})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	if len(engine.sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(engine.sessions))
	}

	targets := engine.Targets()
	if len(targets) != 2 || targets[0] != "10.0.0.1:27015" || targets[1] != "10.0.0.2:27015" {
		t.Fatalf("Targets() = %v", targets)
	}
}

func TestDuplicateTargetQueriesOncePerTick(t *testing.T) {
	transport := newFakeTransport()
	engine, err := New(Config{
		Transport: transport,
		Sink:      &recordSink{},
		Interval:  5 * time.Second,
		Targets: []*net.UDPAddr{
			udpAddr(t, "10.0.0.1:27015"),
			udpAddr(t, "10.0.0.1:27015"),
		},
	})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	for _, sess := range engine.sessions {
		sess.handleTick(context.Background())
	}

	if sent := transport.sentPackets(); len(sent) != 1 {
		t.Fatalf("one tick across all sessions sent %d queries, want 1", len(sent))
	}
}

func TestNewValidatesConfig(t *testing.T) {
	transport := newFakeTransport()
	sink := &recordSink{}
	target := udpAddr(t, "10.0.0.1:27015")

	cases := map[string]Config{
		"missing transport": {Sink: sink, Interval: time.Second, Targets: []*net.UDPAddr{target}},
		"missing sink":      {Transport: transport, Interval: time.Second, Targets: []*net.UDPAddr{target}},
		"zero interval":     {Transport: transport, Sink: sink, Targets: []*net.UDPAddr{target}},
		"no targets":        {Transport: transport, Sink: sink, Interval: time.Second},
	}

	for name, cfg := range cases {
		if _, err := New(cfg); err == nil {
			t.Errorf("%s: New() accepted an invalid config", name)
		}
	}
}

func TestEngineRunStopsOnCancel(t *testing.T) {
	transport := newFakeTransport()
	engine, err := New(Config{
		Transport: transport,
		Sink:      &recordSink{},
		Interval:  time.Hour,
		Targets:   []*net.UDPAddr{udpAddr(t, "10.0.0.1:27015")},
	})
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		engine.Run(ctx)
		close(done)
	}()

	cancel()
	close(transport.inbound) // unblocks the dispatcher read

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
}
