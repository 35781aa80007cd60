// Package config handles the parsing and validation of application
// configuration from command-line arguments and environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/hlds-exporter/internal/logger"
	"github.com/woozymasta/hlds-exporter/internal/vars"
)

// Config represents the complete application flags configuration.
type Config struct {
	Server  Server        `group:"Server Options" env-namespace:"HLDS"`
	Query   Query         `group:"Query Options" namespace:"query" env-namespace:"HLDS_QUERY"`
	Storage Storage       `group:"Storage Options" namespace:"db" env-namespace:"HLDS_DB"`
	GeoIP   GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"HLDS_GEOIP"`
	Logger  logger.Config `group:"Logger Options" namespace:"log" env-namespace:"HLDS_LOG"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Server holds web server configuration.
type Server struct {
	Address string `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Metrics server listen address" default:":9137"`
}

// Query holds A2S polling configuration.
type Query struct {
	Servers  []string      `short:"s" long:"server" env:"SERVERS" env-delim:"," description:"Game server addresses to poll" default:"127.0.0.1:27015"`
	Bind     string        `long:"bind" env:"BIND" description:"Local UDP bind address" default:"0.0.0.0:0"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Poll interval, also the liveness window" default:"5s"`
	Rate     float64       `long:"rate" env:"RATE" description:"Aggregate outbound queries per second, 0 disables the limit" default:"128"`
}

// Storage holds snapshot database configuration.
type Storage struct {
	Path string `short:"d" long:"path" env:"PATH" description:"Path to SQLite snapshot database, empty disables persistence"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	Path string `short:"g" long:"path" env:"PATH" description:"Path to MMDB file, empty disables country lookup"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the
// help flag is invoked.
func Parse() *Config {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print()
		os.Exit(0)
	}

	if cfg.Query.Interval <= 0 {
		fmt.Fprintln(os.Stderr, "Poll interval must be greater than zero!")
		os.Exit(1)
	}

	return &cfg
}

// ResolveTargets resolves the configured server addresses. Duplicates are
// left in place; the polling engine collapses them with a warning.
func (c *Config) ResolveTargets() ([]*net.UDPAddr, error) {
	targets := make([]*net.UDPAddr, 0, len(c.Query.Servers))
	for _, s := range c.Query.Servers {
		addr, err := net.ResolveUDPAddr("udp", s)
		if err != nil {
			return nil, fmt.Errorf("resolve server address %q: %w", s, err)
		}
		targets = append(targets, addr)
	}

	return targets, nil
}

// ResolveBind resolves the local address the shared UDP socket binds to.
func (c *Config) ResolveBind() (*net.UDPAddr, error) {
	addr, err := net.ResolveUDPAddr("udp", c.Query.Bind)
	if err != nil {
		return nil, fmt.Errorf("resolve bind address %q: %w", c.Query.Bind, err)
	}

	return addr, nil
}
