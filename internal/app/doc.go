// Package app provides the application service layer.
//
// Orchestrates use cases: user registration, preference reads and writes,
// text analysis, decision publishing. Sits between HTTP handlers and domain
// repositories. Depends on domain interfaces, not concrete implementations.
package app
