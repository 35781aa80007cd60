// Package models defines the data structures shared by the storage layer and
// the HTTP API.
package models

import "time"

// ServerStatus is the latest observed state of one polled game server.
// Exactly one row exists per address; no history is kept.
type ServerStatus struct {
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	Address     string    `json:"address"`
	ServerName  string    `json:"server_name"`
	GameName    string    `json:"game_name"`
	GameVersion string    `json:"game_version"`
	CountryCode string    `json:"country_code"`
	Players     int       `json:"players"`
	Bots        int       `json:"bots"`
	Up          bool      `json:"up"`
}
