// Package storage moves video blobs between the service and its backing
// stores. A Locator names a blob either in an S3 bucket or on the local
// filesystem; stores transfer whole files by locator.
package storage

import (
	"fmt"
	"path"
	"strings"
)

const s3Prefix = "s3://"

// Locator names a blob. An empty Bucket means a local filesystem path in
// Key; otherwise Key is an object key inside Bucket.
type Locator struct {
	Bucket string
	Key    string
}

// ParseLocator parses "s3://bucket/key" into a bucket locator and anything
// else into a local path locator.
func ParseLocator(raw string) (Locator, error) {
	if raw == "" {
		return Locator{}, fmt.Errorf("empty locator")
	}

	if !strings.HasPrefix(raw, s3Prefix) {
		return Locator{Key: raw}, nil
	}

	rest := strings.TrimPrefix(raw, s3Prefix)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return Locator{}, fmt.Errorf("malformed s3 locator %q: want s3://bucket/key", raw)
	}
	return Locator{Bucket: bucket, Key: key}, nil
}

// IsS3 reports whether the locator names an S3 object.
func (l Locator) IsS3() bool {
	return l.Bucket != ""
}

// String renders the locator back into its parseable form.
func (l Locator) String() string {
	if l.IsS3() {
		return s3Prefix + l.Bucket + "/" + l.Key
	}
	return l.Key
}

// Stem returns the key's base name without its extension, used to derive
// output keys from input keys.
func (l Locator) Stem() string {
	base := path.Base(l.Key)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Sibling returns a locator for another key in the same place: the same
// bucket for S3 locators, the same directory for local ones.
func (l Locator) Sibling(key string) Locator {
	if l.IsS3() {
		dir := path.Dir(l.Key)
		if dir == "." {
			return Locator{Bucket: l.Bucket, Key: key}
		}
		return Locator{Bucket: l.Bucket, Key: path.Join(dir, key)}
	}
	return Locator{Key: path.Join(path.Dir(l.Key), key)}
}
