// Package server provides the HTTP and WebSocket surface via Echo.
//
// Handlers are split by concern (users, analysis, health, feed) and stay
// thin: they parse and validate the request, call the application service,
// and shape the response. Error mapping, request logging, metrics, and rate
// limiting live in middleware.
package server
