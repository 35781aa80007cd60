// Package metrics exposes the polling observations as Prometheus gauges on a
// dedicated registry.
package metrics

import (
	"net/http"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements the poller sink on top of a Prometheus registry. All
// methods are safe for concurrent use by many sessions.
type Metrics struct {
	registry *prometheus.Registry

	up      *prometheus.GaugeVec
	players *prometheus.GaugeVec
	bots    *prometheus.GaugeVec
	info    *prometheus.GaugeVec

	// lastInfo remembers the identity labels last written per address so the
	// stale series can be deleted when a server renames or updates.
	mu       sync.Mutex
	lastInfo map[string]infoSeries
}

type infoSeries struct {
	name    string
	game    string
	version string
	hash    uint64
}

// New creates the registry and registers the gauge families.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hlds_up",
			Help: "Server answered A2S_INFO within the last poll interval.",
		}, []string{"addr"}),
		players: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hlds_players",
			Help: "Current number of players.",
		}, []string{"addr"}),
		bots: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hlds_bots",
			Help: "Current number of bots.",
		}, []string{"addr"}),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hlds_info",
			Help: "Server identity reported by A2S_INFO.",
		}, []string{"addr", "name", "game", "version"}),
		lastInfo: make(map[string]infoSeries),
	}

	m.registry.MustRegister(m.up, m.players, m.bots, m.info)

	return m
}

// Handler returns the HTTP handler serving the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUp sets the liveness gauge for addr.
func (m *Metrics) ObserveUp(addr string, up bool) {
	v := 0.0
	if up {
		v = 1
	}

	m.up.WithLabelValues(addr).Set(v)
}

// ObservePlayers sets the player and bot gauges for addr.
func (m *Metrics) ObservePlayers(addr string, players, bots int) {
	m.players.WithLabelValues(addr).Set(float64(players))
	m.bots.WithLabelValues(addr).Set(float64(bots))
}

// ObserveInfo sets hlds_info to 1 for the current identity labels. When a
// server changes name, game, or version the previous series is deleted so a
// rename does not leave a stale label set behind.
func (m *Metrics) ObserveInfo(addr, name, game, version string) {
	d := xxhash.New()
	_, _ = d.WriteString(name)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(game)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(version)
	hash := d.Sum64()

	m.mu.Lock()
	if prev, ok := m.lastInfo[addr]; ok && prev.hash != hash {
		m.info.DeleteLabelValues(addr, prev.name, prev.game, prev.version)
	}
	m.lastInfo[addr] = infoSeries{name: name, game: game, version: version, hash: hash}
	m.mu.Unlock()

	m.info.WithLabelValues(addr, name, game, version).Set(1)
}
