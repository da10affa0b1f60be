// Package database provides PostgreSQL connectivity and repositories.
//
// Uses pgx for connection pooling and tern for embedded migrations.
// Repositories implement the domain interfaces: UserRepository and
// PreferenceRepository.
package database
