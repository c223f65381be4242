// Package storage is the object storage client of r2-explorer.
//
// It wraps the MinIO Go client to talk to one S3-compatible endpoint per
// account (Cloudflare R2 by default) and presents the flat key space as a
// navigable folder hierarchy.
//
// # Client Interface
//
// The low-level Client interface mirrors the handful of minio calls the
// package needs, which keeps ObjectClient testable with the testify mock in
// core/storage/mocks.
//
// # Construction
//
// New derives the endpoint from Config.EndpointTemplate by substituting the
// account id, binds static credentials, forces path-style addressing and uses
// the synthetic region "auto". Construction never contacts the endpoint.
//
// # Folder Emulation
//
// ListObjects sends a "/"-delimited ListObjectsV2 request. Common prefixes
// become folder entries; contents whose key ends with "/" are folder markers
// and are skipped. ListObjectPages exposes the same listing as a lazy
// sequence of pages.
//
// # Errors
//
// Every operation returns *Error with one of the ErrKind values. Nothing is
// retried.
//
// # Usage
//
//	client, err := storage.New(cfg.Storage, storage.Credentials{
//	    AccountID:       "abc123",
//	    AccessKeyID:     "key",
//	    SecretAccessKey: "secret",
//	})
//	entries, err := client.ListObjects(ctx, "photos", "2024")
package storage
