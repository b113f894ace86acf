package firebase

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

const objectPrefix = "transactions/"

// Storage stores receipt images in a Firebase Storage bucket.
type Storage struct {
	bucketName string
	bucket     *gcs.BucketHandle
}

// NewStorage initializes a Firebase app and returns a handle on its default
// storage bucket.
func NewStorage(ctx context.Context, credentialsFile, bucketName string) (*Storage, error) {
	app, err := firebase.NewApp(ctx,
		&firebase.Config{StorageBucket: bucketName},
		option.WithCredentialsFile(credentialsFile),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase storage client: %w", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("failed to get storage bucket: %w", err)
	}

	return &Storage{bucketName: bucketName, bucket: bucket}, nil
}

// Upload writes the image under transactions/<name> and returns its public
// download URL.
func (s *Storage) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	object := objectPrefix + name

	w := s.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload attachment: %w", err)
	}

	return downloadURL(s.bucketName, object), nil
}

// Delete removes the object referenced by a download URL previously returned
// from Upload.
func (s *Storage) Delete(ctx context.Context, rawURL string) error {
	object, err := objectFromURL(rawURL)
	if err != nil {
		return err
	}

	if err := s.bucket.Object(object).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}

func downloadURL(bucket, object string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		bucket, url.PathEscape(object),
	)
}

// objectFromURL extracts the object path from a Firebase Storage download URL.
func objectFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid attachment URL: %w", err)
	}

	// url.Parse unescapes %2F, so the object path reads naturally here.
	const marker = "/o/"
	idx := strings.Index(u.Path, marker)
	if idx == -1 {
		return "", fmt.Errorf("invalid attachment URL: %q", rawURL)
	}

	return u.Path[idx+len(marker):], nil
}
