package model

import "time"

// Tournament represents a tournament owned by a club. Access is derived
// from the owning club's relations, never stored on the tournament itself.
type Tournament struct {
	ID           string    `json:"id"`
	ClubID       string    `json:"club_id"`
	Name         string    `json:"name"`
	EndpointSlug string    `json:"endpoint_name"`
	PlayersOnly  bool      `json:"players_only"`
	CreatedOn    time.Time `json:"created"`
}
