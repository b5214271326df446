package validators

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/openreel/openreel-backend/pkg/errors"
)

const multipartMemoryLimit = 32 << 20

// UploadFile is a multipart file part plus the metadata the pipeline needs.
type UploadFile struct {
	File        multipart.File
	FileName    string
	ContentType string
	SizeBytes   int64
}

// ParseUploadForm extracts the named file part from a multipart request and
// enforces the size cap before any bytes are read downstream.
func ParseUploadForm(r *http.Request, field string, maxBytes int64) (*UploadFile, error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file part is required").
			WithDetails(map[string]any{"field": field})
	}

	if header.Size <= 0 {
		file.Close()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if maxBytes > 0 && header.Size > maxBytes {
		file.Close()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file exceeds the size limit").
			WithDetails(map[string]any{
				"size_bytes": strconv.FormatInt(header.Size, 10),
				"max_bytes":  strconv.FormatInt(maxBytes, 10),
			})
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &UploadFile{
		File:        file,
		FileName:    header.Filename,
		ContentType: contentType,
		SizeBytes:   header.Size,
	}, nil
}

// FormValue trims the named form field; ok reports whether it is non-empty.
func FormValue(r *http.Request, field string) (string, bool) {
	v := strings.TrimSpace(r.FormValue(field))
	return v, v != ""
}

// FormInt parses the named form field as a positive integer.
func FormInt(r *http.Request, field string) (int, error) {
	raw, ok := FormValue(r, field)
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a positive integer")
	}
	return n, nil
}
