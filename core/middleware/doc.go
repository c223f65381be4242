// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header.
//   - rayid: assigns every request a RayID, stored in Locals("ray_id") and
//     echoed in the X-Ray-ID response header for tracing.
//
// Both are registered globally in the start command; rayid first so that
// every later log line can carry the id.
package middleware
