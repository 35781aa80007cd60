package config

import "testing"

func TestResolveTargets(t *testing.T) {
	cfg := &Config{}
	cfg.Query.Servers = []string{"127.0.0.1:27015", "127.0.0.1:27016"}

	targets, err := cfg.ResolveTargets()
	if err != nil {
		t.Fatalf("ResolveTargets() err = %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("got %d targets, want 2", len(targets))
	}
	if targets[0].String() != "127.0.0.1:27015" {
		t.Fatalf("first target = %q", targets[0].String())
	}
}

func TestResolveTargetsInvalidAddress(t *testing.T) {
	cfg := &Config{}
	cfg.Query.Servers = []string{"127.0.0.1:27015", "no-port-here"}

	if _, err := cfg.ResolveTargets(); err == nil {
		t.Fatal("ResolveTargets() accepted an address without a port")
	}
}

func TestResolveBind(t *testing.T) {
	cfg := &Config{}
	cfg.Query.Bind = "0.0.0.0:0"

	addr, err := cfg.ResolveBind()
	if err != nil {
		t.Fatalf("ResolveBind() err = %v", err)
	}
	if addr.Port != 0 {
		t.Fatalf("bind port = %d, want ephemeral 0", addr.Port)
	}
}
