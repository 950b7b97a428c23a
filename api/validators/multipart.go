package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	pkgerrors "github.com/arduinodayph/adph-merch/pkg/errors"
)

const multipartMemory = 1 << 20

// FormFile is an uploaded file with its content-sniffed MIME type.
type FormFile struct {
	Filename    string
	ContentType string
	Size        int64
	File        multipart.File
}

// ParseMultipart parses a multipart body, mapping an oversized body to a validation error.
func ParseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form data")
	}
	return nil
}

// FormValue returns the trimmed multipart value for key.
func FormValue(r *http.Request, key string) string {
	if r.MultipartForm == nil {
		return strings.TrimSpace(r.FormValue(key))
	}
	if values := r.MultipartForm.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// OpenFormFile opens the named upload. A missing field returns nil without error.
// The content type is detected from the file bytes; the client-declared type is ignored.
func OpenFormFile(r *http.Request, field string) (*FormFile, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid form data")
	}

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		_ = file.Close()
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable upload")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		_ = file.Close()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewind upload")
	}

	return &FormFile{
		Filename:    header.Filename,
		ContentType: detected.String(),
		Size:        header.Size,
		File:        file,
	}, nil
}
