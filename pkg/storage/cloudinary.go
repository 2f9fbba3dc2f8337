package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStorage is the contract for avatar image hosting.
type ImageStorage interface {
	// UploadImage uploads an image from r and returns the secure URL.
	// folder is a logical folder in storage (e.g. "avatars").
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// DeleteImage removes a previously uploaded image by its URL.
	DeleteImage(ctx context.Context, fileURL string) error
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage builds the Cloudinary-backed ImageStorage. It reads
// CLOUDINARY_URL (or the individual CLOUDINARY_* variables) from the
// environment.
func NewCloudinaryStorage() (ImageStorage, error) {
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	cld.Config.URL.Secure = true

	if cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME"); cloudName != "" {
		cld.Config.Cloud.CloudName = cloudName
	}

	return &cloudinaryStorage{cld: cld}, nil
}

func (s *cloudinaryStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if s == nil || s.cld == nil {
		return "", fmt.Errorf("cloudinary storage is not initialized")
	}

	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileName),
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
		Format:         "webp",
		Transformation: "q_auto",
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image to cloudinary: %w", err)
	}

	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return resp.SecureURL, nil
}

func (s *cloudinaryStorage) DeleteImage(ctx context.Context, fileURL string) error {
	if s == nil || s.cld == nil {
		return fmt.Errorf("cloudinary storage is not initialized")
	}

	publicID := extractPublicID(fileURL)
	if publicID == "" {
		return fmt.Errorf("could not extract public ID from URL: %s", fileURL)
	}

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

// extractPublicID recovers the public ID from a delivery URL.
// Example: .../image/upload/v123/avatars/pic.webp -> avatars/pic
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

	rest := parts[uploadIndex+1:]
	// Skip the version segment when present.
	if len(rest) > 0 && strings.HasPrefix(rest[0], "v") && len(rest[0]) > 1 {
		allDigits := true
		for _, r := range rest[0][1:] {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			rest = rest[1:]
		}
	}
	if len(rest) == 0 {
		return ""
	}

	publicID := strings.Join(rest, "/")
	if dot := strings.LastIndex(publicID, "."); dot > 0 {
		publicID = publicID[:dot]
	}
	return publicID
}
