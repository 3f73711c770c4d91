package model

import "time"

// Club represents a tenant owning tournaments. A club is created
// transactionally together with its first OWNER relation.
type Club struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedOn time.Time `json:"created"`
}

// ClubRelation is the kind of access a user holds on a club.
type ClubRelation string

const (
	// ClubRelationOwner is held by the club's creator.
	ClubRelationOwner ClubRelation = "OWNER"
	// ClubRelationCollaborator grants the same operational rights as OWNER
	// but is added after club creation.
	ClubRelationCollaborator ClubRelation = "COLLABORATOR"
)

// IsValid returns true if the relation is a known kind.
func (r ClubRelation) IsValid() bool {
	switch r {
	case ClubRelationOwner, ClubRelationCollaborator:
		return true
	default:
		return false
	}
}
