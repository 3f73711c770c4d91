// Package model defines the domain types and API error shapes for Tourney.
//
// The core entities are User, Club, and Tournament. Access to a club is a
// many-to-many relation (ClubRelation) between users and clubs;
// access to a tournament is always derived from the relation on its owning
// club and never stored directly.
//
// Errors returned to API clients use RFC 9457 Problem Details.
package model
