package handler

import (
	"mime/multipart"
	"net/http"
	"strings"
)

// formOverhead is headroom on top of the upload cap for the text fields
// of a multipart post.
const formOverhead = 1 << 20

// parseForm accepts either multipart (file uploads) or urlencoded posts,
// capping the body at the upload limit plus field overhead.
func parseForm(w http.ResponseWriter, r *http.Request, maxUpload int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+formOverhead)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxUpload + formOverhead)
	}
	return r.ParseForm()
}

// fileFromForm returns the first uploaded file under the field name, or
// nil when the field is absent.
func fileFromForm(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil
	}
	return headers[0]
}

// formBool reports whether a checkbox-style form value is set.
func formBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "on", "1", "y", "yes":
		return true
	}
	return false
}
