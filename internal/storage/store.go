package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store transfers whole blobs between locators and local scratch files.
type Store interface {
	// Download fetches the blob at src into the local file destPath.
	Download(ctx context.Context, src Locator, destPath string) error
	// Upload stores the local file srcPath at dst.
	Upload(ctx context.Context, srcPath string, dst Locator) error
}

// LocalStore serves locators that are plain filesystem paths. It exists so
// the CLI and tests work without any bucket configured.
type LocalStore struct{}

// Download copies the file named by src.Key to destPath.
func (LocalStore) Download(ctx context.Context, src Locator, destPath string) error {
	if src.IsS3() {
		return fmt.Errorf("local store cannot serve %s", src)
	}
	return copyFile(src.Key, destPath)
}

// Upload copies srcPath to the path named by dst.Key, creating parent
// directories as needed.
func (LocalStore) Upload(ctx context.Context, srcPath string, dst Locator) error {
	if dst.IsS3() {
		return fmt.Errorf("local store cannot serve %s", dst)
	}
	if dir := filepath.Dir(dst.Key); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	return copyFile(srcPath, dst.Key)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %q: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %q to %q: %w", src, dest, err)
	}
	return out.Close()
}

// Router dispatches by locator: S3 locators go to the S3 store, plain path
// locators to the local store.
type Router struct {
	s3    Store
	local Store
}

// NewRouter builds a router over an S3 store for the given region and
// optional custom endpoint, plus a local store.
func NewRouter(region, endpoint string) *Router {
	return &Router{
		s3:    NewS3Store(region, endpoint),
		local: LocalStore{},
	}
}

// NewRouterWith builds a router over explicit stores.
func NewRouterWith(s3, local Store) *Router {
	return &Router{s3: s3, local: local}
}

// Download routes to the store matching src.
func (r *Router) Download(ctx context.Context, src Locator, destPath string) error {
	return r.pick(src).Download(ctx, src, destPath)
}

// Upload routes to the store matching dst.
func (r *Router) Upload(ctx context.Context, srcPath string, dst Locator) error {
	return r.pick(dst).Upload(ctx, srcPath, dst)
}

func (r *Router) pick(l Locator) Store {
	if l.IsS3() {
		return r.s3
	}
	return r.local
}
