// Package broadcast implements the live decision feed using the actor pattern.
//
// A single Hub goroutine owns all connection state (no mutexes); analysis
// decisions are fanned out per user through buffered per-connection writers,
// and clients that stop draining their buffer are dropped rather than allowed
// to slow the feed down.
package broadcast
