package storage

import (
	"context"
	"iter"
	"time"

	"r2-explorer/core/utils"

	"github.com/minio/minio-go/v7"
)

// PageSize is the number of keys requested per listing page.
const PageSize = 1000

// ListObjectPages returns the emulated folder listing of bucket under prefix
// as a lazy sequence of pages. Pages are fetched on demand by following
// continuation tokens; the sequence is finite and every range over it starts
// again from the first page. Iteration stops after the first error.
func (c *ObjectClient) ListObjectPages(ctx context.Context, bucket, prefix string) iter.Seq2[[]ObjectInfo, error] {
	normalized := utils.NormalizePrefix(prefix)

	return func(yield func([]ObjectInfo, error) bool) {
		token := ""
		for {
			res, err := c.client.ListObjectsPage(ctx, bucket, normalized, token, utils.Delimiter, PageSize)
			if err != nil {
				yield(nil, mapError(err, "failed to list objects in "+bucket))
				return
			}

			if !yield(pageEntries(res), nil) {
				return
			}

			if !res.IsTruncated || res.NextContinuationToken == "" {
				return
			}
			token = res.NextContinuationToken
		}
	}
}

// ListObjects returns every entry of the emulated folder at prefix.
// A non-empty prefix is aligned to a folder boundary, so "photos" and
// "photos/" list the same folder.
func (c *ObjectClient) ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	objects := []ObjectInfo{}
	for page, err := range c.ListObjectPages(ctx, bucket, prefix) {
		if err != nil {
			return nil, err
		}
		objects = append(objects, page...)
	}
	return objects, nil
}

// pageEntries turns one listing page into folder entries (from common
// prefixes) followed by file entries. Folder markers in the contents are
// dropped; the common prefix already represents them.
func pageEntries(res minio.ListBucketV2Result) []ObjectInfo {
	entries := make([]ObjectInfo, 0, len(res.CommonPrefixes)+len(res.Contents))

	for _, p := range res.CommonPrefixes {
		if p.Prefix == "" {
			continue
		}
		entries = append(entries, ObjectInfo{
			Key:      p.Prefix,
			Name:     utils.BaseName(p.Prefix),
			IsFolder: true,
		})
	}

	for _, obj := range res.Contents {
		if utils.IsFolderMarker(obj.Key) {
			continue
		}
		entry := ObjectInfo{
			Key:          obj.Key,
			Name:         utils.BaseName(obj.Key),
			Size:         obj.Size,
			LastModified: formatTime(obj.LastModified),
		}
		if obj.ETag != "" {
			etag := obj.ETag
			entry.ETag = &etag
		}
		entries = append(entries, entry)
	}

	return entries
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
