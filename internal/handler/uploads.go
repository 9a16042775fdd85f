package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// maxUploadSize bounds the parsed multipart form, image field included.
const maxUploadSize = 5 << 20 // 5 MiB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var errBadImageType = errors.New("image must be jpg, jpeg, png, gif, or webp")

// saveUpload stores the named multipart file field under uploadDir and
// returns the relative path for the database record. A missing field is not
// an error; the returned pgtype.Text is simply invalid (NULL).
func saveUpload(r *http.Request, field, uploadDir string) (pgtype.Text, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return pgtype.Text{}, nil
	}
	if err != nil {
		return pgtype.Text{}, fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if !allowedImageExts[ext] {
		return pgtype.Text{}, errBadImageType
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return pgtype.Text{}, fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(uploadDir, name))
	if err != nil {
		return pgtype.Text{}, fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return pgtype.Text{}, fmt.Errorf("write upload file: %w", err)
	}

	return pgtype.Text{String: filepath.Join(filepath.Base(uploadDir), name), Valid: true}, nil
}
