package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/docoutline/internal/parser"
)

// handleOutline extracts an outline synchronously and returns it in the
// response body.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename, data, status, err := s.readUpload(file, header)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	ex, err := s.orchestrator.Extractor().Extract(r.Context(), filename, data)
	if err != nil {
		switch {
		case errors.Is(err, parser.ErrUnsupportedFormat):
			jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, parser.ErrUnreadableDocument):
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			s.log.Error("outline extraction failed", "file", filename, "error", err)
			jsonError(w, "extraction failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("X-Outline-Source", string(ex.Source))
	w.Header().Set("X-Outline-Cached", strconv.FormatBool(ex.Cached))
	writeJSON(w, http.StatusOK, ex.Outline)
}
