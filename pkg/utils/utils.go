package utils

import (
	"ProjectKYC/internal/api/verification"
	"ProjectKYC/internal/entity"
	"crypto/rand"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ReadDocumentUpload(file *multipart.FileHeader, maxBytes int64) (entity.DocumentImage, error)
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// ReadDocumentUpload reads an uploaded document into memory. The declared
// size is checked before reading and the read itself is capped, so a lying
// client cannot push more than maxBytes+1 bytes into memory.
func (u *utils) ReadDocumentUpload(file *multipart.FileHeader, maxBytes int64) (entity.DocumentImage, error) {
	if file == nil {
		return entity.DocumentImage{}, verification.ErrInvalidFormat
	}
	if maxBytes > 0 && file.Size > maxBytes {
		return entity.DocumentImage{}, verification.ErrTooLarge
	}

	f, err := file.Open()
	if err != nil {
		return entity.DocumentImage{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		r = io.LimitReader(f, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return entity.DocumentImage{}, fmt.Errorf("read upload: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return entity.DocumentImage{}, verification.ErrTooLarge
	}

	return entity.DocumentImage{
		Filename:    sanitizeFilename(file.Filename),
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return "document"
	}
	return name
}
