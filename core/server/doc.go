// Package server holds the HTTP server configuration.
//
// The cmd start command builds the Fiber app from this Config: the listen
// address, the API key checked by the auth middleware and the body limit
// that bounds uploads sent through the API.
package server
