package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ObjectStorage is the binary object store for uploaded images.
type ObjectStorage interface {
	// Upload stores the reader under path. Existing objects are never overwritten.
	Upload(ctx context.Context, objectPath string, r io.Reader) error
	// PublicURL returns the public https URL of the object stored under path.
	PublicURL(objectPath string) (string, error)
	// Delete removes an object using its public URL.
	Delete(ctx context.Context, fileURL string) error
}

type cloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage creates Cloudinary-backed implementation of ObjectStorage.
// It expects CLOUDINARY_URL to be configured in the environment (see Cloudinary Go SDK docs).
// Every object path is placed under folder.
func NewCloudinaryStorage(folder string) (ObjectStorage, error) {
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	cld.Config.URL.Secure = true

	if cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME"); cloudName != "" {
		cld.Config.Cloud.CloudName = cloudName
	}

	return &cloudinaryStorage{cld: cld, folder: strings.Trim(folder, "/")}, nil
}

func (s *cloudinaryStorage) Upload(ctx context.Context, objectPath string, r io.Reader) error {
	if s == nil || s.cld == nil {
		return fmt.Errorf("cloudinary storage is not initialized")
	}

	params := uploader.UploadParams{
		PublicID:       s.publicID(objectPath),
		UniqueFilename: api.Bool(false),
		Overwrite:      api.Bool(false),
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return fmt.Errorf("failed to upload %s to cloudinary: %w", objectPath, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary rejected %s: %s", objectPath, resp.Error.Message)
	}

	return nil
}

func (s *cloudinaryStorage) PublicURL(objectPath string) (string, error) {
	img, err := s.cld.Image(s.publicID(objectPath))
	if err != nil {
		return "", fmt.Errorf("failed to build asset for %s: %w", objectPath, err)
	}

	return img.String()
}

func (s *cloudinaryStorage) Delete(ctx context.Context, fileURL string) error {
	if s == nil || s.cld == nil {
		return fmt.Errorf("cloudinary storage is not initialized")
	}

	publicID := extractPublicID(fileURL)
	if publicID == "" {
		return fmt.Errorf("could not extract public ID from URL: %s", fileURL)
	}

	// Invalidate: true helps to clear CDN cache
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from cloudinary: %w", err)
	}

	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}

	return nil
}

// publicID maps an object path to a Cloudinary public id: folder-prefixed, extension stripped.
func (s *cloudinaryStorage) publicID(objectPath string) string {
	clean := strings.TrimPrefix(path.Clean("/"+objectPath), "/")
	clean = strings.TrimSuffix(clean, filepath.Ext(clean))
	if s.folder == "" {
		return clean
	}
	return s.folder + "/" + clean
}

// extractPublicID attempts to extract the public ID from a Cloudinary URL.
// Example: https://res.cloudinary.com/demo/image/upload/v123456789/folder/sample.jpg -> folder/sample
func extractPublicID(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(u.Path, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}

	if uploadIndex == -1 || uploadIndex+1 >= len(parts) {
		return ""
	}

	relevantParts := parts[uploadIndex+1:]

	// Cloudinary versions start with 'v' followed by digits.
	if len(relevantParts) > 1 && isVersionSegment(relevantParts[0]) {
		relevantParts = relevantParts[1:]
	}

	if len(relevantParts) == 0 {
		return ""
	}

	publicIDWithExt := strings.Join(relevantParts, "/")
	return strings.TrimSuffix(publicIDWithExt, filepath.Ext(publicIDWithExt))
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
