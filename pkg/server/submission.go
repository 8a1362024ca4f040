package server

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/opheus2/form-schema-validator/pkg/schema"
)

// ReplacementsField is the multipart field holding a JSON object of
// replacements.
const ReplacementsField = "_replacements"

// submissionRequest is the decoded body of a submission validation request.
type submissionRequest struct {
	Payload      map[string]any
	Replacements map[string]any
}

// decodeJSONSubmission decodes {"payload": {...}, "replacements": {...}}.
// Both members are optional.
func decodeJSONSubmission(body []byte) (*submissionRequest, error) {
	doc, err := schema.ParseDocument(body, schema.FormatJSON, "request")
	if err != nil {
		return nil, err
	}

	payload, err := objectMember(doc, "payload")
	if err != nil {
		return nil, err
	}
	replacements, err := objectMember(doc, "replacements")
	if err != nil {
		return nil, err
	}
	return &submissionRequest{Payload: payload, Replacements: replacements}, nil
}

func objectMember(doc map[string]any, name string) (map[string]any, error) {
	v, ok := doc[name]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", name)
	}
	return obj, nil
}

// decodeMultipart maps a multipart form onto a payload. Values and files
// posted once become scalars; repeated names or names ending in "[]" become
// lists. Files are kept as *multipart.FileHeader, which the file rules read
// for size and content type.
func (s *Server) decodeMultipart(w http.ResponseWriter, r *http.Request) (*submissionRequest, error) {
	if s.config.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}
	if err := r.ParseMultipartForm(s.config.MaxMultipartMemory); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}
	form := r.MultipartForm
	defer func() { _ = form.RemoveAll() }()

	sub := &submissionRequest{
		Payload:      make(map[string]any, len(form.Value)+len(form.File)),
		Replacements: map[string]any{},
	}

	// Sorted so "x" lands before "x[]" when a form sends both.
	for _, name := range slices.Sorted(maps.Keys(form.Value)) {
		values := form.Value[name]
		if name == ReplacementsField {
			if len(values) == 0 {
				continue
			}
			doc, err := schema.ParseDocument([]byte(values[0]), schema.FormatJSON, ReplacementsField)
			if err != nil {
				return nil, err
			}
			sub.Replacements = doc
			continue
		}
		key, list := fieldName(name)
		items := make([]any, len(values))
		for i, v := range values {
			items[i] = v
		}
		setValue(sub.Payload, key, items, list)
	}

	for _, name := range slices.Sorted(maps.Keys(form.File)) {
		headers := form.File[name]
		key, list := fieldName(name)
		items := make([]any, len(headers))
		for i, fh := range headers {
			items[i] = fh
		}
		setValue(sub.Payload, key, items, list)
	}
	return sub, nil
}

func fieldName(name string) (string, bool) {
	if key, ok := strings.CutSuffix(name, "[]"); ok {
		return key, true
	}
	return name, false
}

// setValue stores items under key, merging with a value already stored
// for the same key so that "x" and "x[]" combine into one list.
func setValue(payload map[string]any, key string, items []any, list bool) {
	if existing, ok := payload[key]; ok {
		if prior, isList := existing.([]any); isList {
			payload[key] = append(prior, items...)
		} else {
			payload[key] = append([]any{existing}, items...)
		}
		return
	}
	if !list && len(items) == 1 {
		payload[key] = items[0]
		return
	}
	payload[key] = items
}
