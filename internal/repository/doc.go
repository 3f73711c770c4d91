// Package repository implements data access for Tourney over the
// database.Database interface.
//
// Each repository owns one table: users, clubs, tournaments, and the
// club_access relation table that links users to clubs. Repositories return
// (nil, nil) for lookups that find nothing; sentinel errors from the
// database package (ErrDuplicate, ErrConflict) signal constraint
// violations.
//
// Tournament access is never stored: HasTournamentAccess resolves the
// tournament's owning club and checks the club_access relation.
package repository
