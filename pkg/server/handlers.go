package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/opheus2/form-schema-validator/pkg/audit"
	"github.com/opheus2/form-schema-validator/pkg/registry"
	"github.com/opheus2/form-schema-validator/pkg/schema"
	"github.com/opheus2/form-schema-validator/pkg/telemetry/logging"
)

// handleValidateSchema validates the schema document in the body. The
// format follows Content-Type and falls back to sniffing the body.
func (s *Server) handleValidateSchema(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	ctx := logging.WithSource(r.Context(), "request")
	res, err := s.engine.ValidateSchemaBytes(ctx, body, schema.FormatFromContentType(r.Header.Get("Content-Type")))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ValidationResponse{Valid: res.IsValid(), Errors: res})
}

// handleValidateSubmission validates a submission against a named schema.
// Valid submissions answer 200, invalid ones 422.
func (s *Server) handleValidateSubmission(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.schemas == nil {
		writeError(w, http.StatusNotFound, ErrTypeNotFound, fmt.Sprintf("form %q not found", name))
		return
	}
	entry, err := s.schemas.Get(name)
	if err != nil {
		if errors.Is(err, registry.ErrSchemaNotFound) {
			writeError(w, http.StatusNotFound, ErrTypeNotFound, fmt.Sprintf("form %q not found", name))
			return
		}
		writeError(w, http.StatusInternalServerError, ErrTypeInternal, err.Error())
		return
	}

	var sub *submissionRequest
	if isMultipart(r) {
		sub, err = s.decodeMultipart(w, r)
	} else {
		var body []byte
		var ok bool
		if body, ok = s.readBody(w, r); !ok {
			return
		}
		sub, err = decodeJSONSubmission(body)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrTypeTooLarge, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, err.Error())
		return
	}

	ctx := audit.WithSchemaVersion(logging.WithForm(r.Context(), name), entry.Checksum)
	res := s.engine.ValidateSubmission(ctx, entry.Schema, sub.Payload, sub.Replacements)

	status := http.StatusOK
	if !res.IsValid() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, ValidationResponse{Valid: res.IsValid(), Form: name, Errors: res})
}

func (s *Server) handleListForms(w http.ResponseWriter, r *http.Request) {
	forms := []string{}
	if s.schemas != nil {
		forms = append(forms, s.schemas.Names()...)
	}
	writeJSON(w, http.StatusOK, FormsResponse{Forms: forms})
}

// readBody reads the request body within the configured limit and writes
// the error response itself when it fails.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	reader := io.Reader(r.Body)
	if s.config.MaxBodyBytes > 0 {
		reader = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrTypeTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, ErrTypeInvalidRequest, "failed to read request body")
		return nil, false
	}
	return body, true
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
