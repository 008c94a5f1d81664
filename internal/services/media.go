package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Uploader is the media collaborator: it takes a base64 data URI and returns
// a URL to embed in a message or profile. Invoked before persistence; an
// upload failure aborts the operation that needed it.
type Uploader interface {
	UploadImage(ctx context.Context, dataURI string) (string, error)
}

type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cloudinaryURL string) (Uploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &cloudinaryUploader{cld: cld, folder: "lynkup"}, nil
}

func (u *cloudinaryUploader) UploadImage(ctx context.Context, dataURI string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, dataURI, uploader.UploadParams{
		Folder:   u.folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}

type localUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader stores images on disk under dir and serves them from
// baseURL. Development stand-in for Cloudinary.
func NewLocalUploader(dir, baseURL string) (Uploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (u *localUploader) UploadImage(_ context.Context, dataURI string) (string, error) {
	ext, payload, err := splitDataURI(dataURI)
	if err != nil {
		return "", err
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(u.dir, name), raw, 0o644); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return u.baseURL + "/" + name, nil
}

// splitDataURI parses "data:image/png;base64,<payload>" into an extension
// and the base64 payload. Bare base64 is accepted and treated as png.
func splitDataURI(dataURI string) (ext, payload string, err error) {
	if !strings.HasPrefix(dataURI, "data:") {
		return ".png", dataURI, nil
	}
	rest := strings.TrimPrefix(dataURI, "data:")
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("malformed data URI")
	}
	mediaType, _, _ := strings.Cut(meta, ";")
	switch mediaType {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	default:
		ext = ".png"
	}
	return ext, payload, nil
}
