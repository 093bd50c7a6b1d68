package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hsh-clinic/clinic-backend/internal/config"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// UploadKind selects which content types an upload may have.
type UploadKind int

const (
	// UploadImage accepts photos only.
	UploadImage UploadKind = iota
	// UploadDocument accepts photos and PDF scans.
	UploadDocument
)

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var documentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

const uploadURLPrefix = "/uploads/"

// MediaService stores uploaded files on local disk under UUID names.
type MediaService struct {
	cfg *config.Config
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{cfg: cfg}
}

// Save validates an upload by its sniffed content and writes it to the
// upload directory. Returns the public URL path of the stored file.
func (s *MediaService) Save(file multipart.File, header *multipart.FileHeader, kind UploadKind) (string, error) {
	if header.Size > s.cfg.MaxUploadBytes {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	allowed := imageTypes
	if kind == UploadDocument {
		allowed = documentTypes
	}
	contentType := http.DetectContentType(head)
	ext, ok := allowed[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.cfg.UploadDir, filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(io.MultiReader(bytes.NewReader(head), file), s.cfg.MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	if written > s.cfg.MaxUploadBytes {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}

	return uploadURLPrefix + filename, nil
}

// Remove deletes a previously stored file. Unknown references are ignored.
func (s *MediaService) Remove(ref string) {
	name := strings.TrimPrefix(ref, uploadURLPrefix)
	if name == "" || name == ref || strings.ContainsAny(name, `/\`) {
		return
	}
	_ = os.Remove(filepath.Join(s.cfg.UploadDir, name))
}
