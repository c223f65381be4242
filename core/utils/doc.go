// Package utils provides object key helpers for the r2-explorer application.
// Buckets are flat; these helpers implement the "/"-delimited folder
// convention on top of plain keys.
package utils
