// Package redis implements the Redis-backed preference cache.
//
// Provides PreferenceCache (read-through wrapper over the database
// repository) plus client hooks for metrics and circuit breaking.
package redis
