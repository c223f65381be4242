// Package explorer exposes accounts, buckets and objects to callers.
//
// The Service resolves a local account id through the credential store,
// builds a storage client for that account and runs the requested
// operation. Nothing is shared between calls unless client caching is
// enabled, in which case one client per account is kept until the account
// is saved again or deleted.
//
// # HTTP Endpoints
//
//   - GET    /accounts : List accounts (no secrets).
//   - POST   /accounts : Create an account; id is generated when omitted.
//   - POST   /accounts/validate : Probe credentials with a bucket listing.
//   - PUT    /accounts/{id} : Create or replace an account.
//   - DELETE /accounts/{id} : Delete an account and its secret.
//   - GET    /accounts/{id}/buckets : List buckets.
//   - POST   /accounts/{id}/buckets : Create a bucket.
//   - GET    /accounts/{id}/buckets/{bucket} : Check a bucket exists.
//   - DELETE /accounts/{id}/buckets/{bucket} : Delete an empty bucket.
//   - GET    /accounts/{id}/buckets/{bucket}/objects?prefix= : Folder listing.
//   - DELETE /accounts/{id}/buckets/{bucket}/objects : Batch delete.
//   - POST   /accounts/{id}/buckets/{bucket}/folders : Create a folder marker.
//   - GET    /accounts/{id}/buckets/{bucket}/presign?key=&expires_in= : Presigned URL.
//   - GET|PUT|DELETE /accounts/{id}/buckets/{bucket}/object?key= : Single object.
//
// Unknown accounts and missing buckets or keys answer 404, rejected
// credentials 401 and unreachable endpoints 502.
package explorer
