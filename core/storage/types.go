package storage

// BucketInfo describes a bucket of the account.
type BucketInfo struct {
	// Name is unique within the remote account.
	Name string `json:"name" yaml:"name"`
	// CreationDate is the remote-supplied creation timestamp, when known.
	CreationDate *string `json:"creation_date" yaml:"creation_date"`
}

// ObjectInfo is one entry of an emulated folder listing.
type ObjectInfo struct {
	// Key is the full path within the bucket.
	Key string `json:"key" yaml:"key"`
	// Name is the last path segment of Key.
	Name string `json:"name" yaml:"name"`
	// Size is the byte count, zero for folders.
	Size int64 `json:"size" yaml:"size"`
	// LastModified is empty for synthesized folder entries.
	LastModified string `json:"last_modified" yaml:"last_modified"`
	// IsFolder is true for entries synthesized from common prefixes.
	IsFolder bool `json:"is_folder" yaml:"is_folder"`
	// ETag is only present for real objects.
	ETag *string `json:"etag" yaml:"etag"`
}
