package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const publicHost = "https://storage.googleapis.com/"

// ImageMirror copies remote product images into a bucket.
type ImageMirror struct {
	client     *storage.Client
	httpClient *http.Client
	bucketName string
	folder     string
}

func NewImageMirror(ctx context.Context, bucketName string, opts ...option.ClientOption) (*ImageMirror, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &ImageMirror{
		client:     client,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		bucketName: bucketName,
		folder:     "public/products",
	}, nil
}

// IsMirrored reports whether url already points into the bucket.
func (m *ImageMirror) IsMirrored(url string) bool {
	return strings.HasPrefix(url, publicHost+m.bucketName+"/")
}

// Mirror downloads url and stores it under productID, returning the
// public bucket URL. Already-mirrored URLs are returned unchanged.
func (m *ImageMirror) Mirror(ctx context.Context, productID, url string) (string, error) {
	if m.IsMirrored(url) {
		return url, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build image request: %w", err)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	objectName := m.objectName(productID, contentType, url)
	return m.upload(ctx, objectName, contentType, resp.Body)
}

func (m *ImageMirror) upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error) {
	obj := m.client.Bucket(m.bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to copy file to GCS: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("failed to set ACL: %v", err)
	}

	return m.PublicURL(objectName), nil
}

func (m *ImageMirror) PublicURL(objectName string) string {
	return publicHost + m.bucketName + "/" + objectName
}

func (m *ImageMirror) objectName(productID, contentType, sourceURL string) string {
	return fmt.Sprintf("%s/%s/%s%s", m.folder, productID, uuid.New().String(), extension(contentType, sourceURL))
}

func extension(contentType, sourceURL string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	if ext := path.Ext(strings.SplitN(sourceURL, "?", 2)[0]); ext != "" && len(ext) <= 5 {
		return ext
	}
	return ".bin"
}

func (m *ImageMirror) Close() error {
	return m.client.Close()
}
