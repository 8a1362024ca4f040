package submission

import (
	"mime/multipart"
	"slices"
	"strings"

	"github.com/opheus2/form-schema-validator/pkg/schema"
)

// Upload error codes carried by file descriptors.
const (
	UploadOK     = 0
	UploadNoFile = 4
)

// File is an uploaded file seen through accessors.
type File interface {
	Size() int64
	ContentType() string
}

// UploadErrorer is implemented by files that carry an upload error code.
type UploadErrorer interface {
	UploadError() int
}

// fileInfo is the metadata the file rule inspects.
type fileInfo struct {
	size    int64
	hasSize bool
	mime    string
	errCode int
}

// describeFile reads the metadata of a file-like value: a File, a
// *multipart.FileHeader, or a descriptor map with at least size and type.
func describeFile(v any) (fileInfo, bool) {
	switch f := v.(type) {
	case *multipart.FileHeader:
		if f == nil {
			return fileInfo{}, false
		}
		return fileInfo{
			size:    f.Size,
			hasSize: true,
			mime:    strings.TrimSpace(f.Header.Get("Content-Type")),
		}, true
	case File:
		info := fileInfo{size: f.Size(), hasSize: true, mime: strings.TrimSpace(f.ContentType())}
		if e, ok := f.(UploadErrorer); ok {
			info.errCode = e.UploadError()
		}
		return info, true
	case map[string]any:
		_, hasSize := f["size"]
		_, hasType := f["type"]
		if !hasSize || !hasType {
			return fileInfo{}, false
		}
		var info fileInfo
		info.size, info.hasSize = toInt64(f["size"])
		if s, ok := f["type"].(string); ok {
			info.mime = strings.TrimSpace(s)
		}
		if code, ok := toInt64(f["error"]); ok {
			info.errCode = int(code)
		}
		return info, true
	}
	return fileInfo{}, false
}

// isNoFile reports whether v is a placeholder for a field left without upload.
func isNoFile(v any) bool {
	info, ok := describeFile(v)
	return ok && info.errCode == UploadNoFile
}

// DropMissingFiles removes "no file" placeholders and empty entries from an
// upload value. A value left with no files becomes an empty list.
func DropMissingFiles(value any) any {
	value = schema.NormalizeValue(value)
	if isNoFile(value) {
		return nil
	}
	list, ok := asList(value)
	if !ok {
		return value
	}
	out := make([]any, 0, len(list))
	for _, item := range list {
		if IsEmpty(item) || isNoFile(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// FileConstraints are the limits of an upload field.
type FileConstraints struct {
	Accept        []string
	AllowMultiple bool
	MinFiles      *int64
	MaxFiles      *int64
	MaxFileSize   *int64
	MaxTotalSize  *int64
}

// ParseFileConstraints reads upload limits from a constraint map.
func ParseFileConstraints(m map[string]any) FileConstraints {
	c := FileConstraints{AllowMultiple: schema.Truthy(m["allow_multiple"])}

	seen := map[string]bool{}
	for _, mime := range stringList(m["accept"]) {
		mime = strings.ToLower(strings.TrimSpace(mime))
		if mime == "" || seen[mime] {
			continue
		}
		seen[mime] = true
		c.Accept = append(c.Accept, mime)
	}

	c.MinFiles = optionalInt(m["min"])
	c.MaxFiles = optionalInt(m["max"])
	c.MaxFileSize = optionalInt(m["max_file_size"])
	c.MaxTotalSize = optionalInt(m["max_total_size"])
	return c
}

func optionalInt(v any) *int64 {
	n, ok := toInt64(v)
	if !ok {
		return nil
	}
	return &n
}

// checkFiles validates upload values. The single parameter is the
// constraint map of the field.
func checkFiles(value any, args Args) error {
	raw, _ := args.Value(0)
	constraints, _ := raw.(map[string]any)
	return ParseFileConstraints(constraints).Check(value)
}

// Check validates an upload value against the constraints: multiplicity,
// count bounds, then per file error code, size and type, then total size.
func (c FileConstraints) Check(value any) error {
	value = DropMissingFiles(value)
	if IsEmpty(value) {
		return nil
	}

	var entries []any
	if list, ok := asList(value); ok {
		if !c.AllowMultiple && len(list) > 1 {
			return Failf("The :attribute does not allow multiple files.")
		}
		entries = list
	} else {
		entries = []any{value}
	}

	files := make([]fileInfo, 0, len(entries))
	for _, entry := range entries {
		info, ok := describeFile(entry)
		if !ok {
			return ErrFailed
		}
		files = append(files, info)
	}

	count := int64(len(files))
	if c.MinFiles != nil && count < *c.MinFiles {
		return Failf("The :attribute must include at least %d file(s).", *c.MinFiles)
	}
	if c.MaxFiles != nil && count > *c.MaxFiles {
		return Failf("The :attribute must include at most %d file(s).", *c.MaxFiles)
	}

	var total int64
	for _, f := range files {
		if f.errCode != UploadOK {
			return Failf("The :attribute contains a failed upload.")
		}
		if !f.hasSize {
			return Failf("The :attribute contains a file with unknown size.")
		}
		if c.MaxFileSize != nil && f.size > *c.MaxFileSize {
			return Failf("The :attribute contains a file that exceeds %d bytes.", *c.MaxFileSize)
		}
		total += f.size

		if len(c.Accept) > 0 {
			if f.mime == "" {
				return Failf("The :attribute contains a file with unknown type.")
			}
			if !slices.Contains(c.Accept, strings.ToLower(f.mime)) {
				return Failf("The :attribute contains a file with an invalid type.")
			}
		}
	}

	if c.MaxTotalSize != nil && total > *c.MaxTotalSize {
		return Failf("The :attribute total size must not exceed %d bytes.", *c.MaxTotalSize)
	}
	return nil
}
