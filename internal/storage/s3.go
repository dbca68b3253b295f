package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Store transfers blobs to and from S3 buckets. Credentials come from the
// default chain (env, shared config, instance role).
type S3Store struct {
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
}

// NewS3Store builds an S3 store for the given region. A non-empty endpoint
// switches to path-style addressing for S3-compatible servers like MinIO.
func NewS3Store(region, endpoint string) *S3Store {
	cfg := &aws.Config{
		Region: aws.String(region),
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess := session.Must(session.NewSession(cfg))
	return &S3Store{
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
	}
}

// Download fetches the object at src into the local file destPath.
func (s *S3Store) Download(ctx context.Context, src Locator, destPath string) error {
	if !src.IsS3() {
		return fmt.Errorf("s3 store cannot serve %s", src)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %q: %w", destPath, err)
	}

	_, err = s.downloader.DownloadWithContext(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(src.Bucket),
		Key:    aws.String(src.Key),
	})
	if err != nil {
		f.Close()
		os.Remove(destPath)
		return fmt.Errorf("downloading %s: %w", src, err)
	}
	return f.Close()
}

// Upload stores the local file srcPath at dst.
func (s *S3Store) Upload(ctx context.Context, srcPath string, dst Locator) error {
	if !dst.IsS3() {
		return fmt.Errorf("s3 store cannot serve %s", dst)
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening %q: %w", srcPath, err)
	}
	defer f.Close()

	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(dst.Bucket),
		Key:    aws.String(dst.Key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("uploading to %s: %w", dst, err)
	}
	return nil
}
