package media

import (
	"path"
	"strings"
)

// probeExtensions is the fixed order in which two-part fetches try known
// extensions against the store. First hit wins; callers depend on this order.
var probeExtensions = []string{
	"jpg", "jpeg", "png", "gif", "webp",
	"mp4", "webm",
	"pdf", "doc", "docx", "txt", "csv", "xls", "xlsx",
}

var imageMimeTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

var videoMimeTypes = map[string]string{
	"video/mp4":  "mp4",
	"video/webm": "webm",
}

var documentMimeTypes = map[string]string{
	"application/pdf":    "pdf",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"text/plain":               "txt",
	"text/csv":                 "csv",
	"application/vnd.ms-excel": "xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "xlsx",
}

var extensionContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"txt":  "text/plain",
	"csv":  "text/csv",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// allowedMimeType reports whether the declared type is on the upload
// allow-list and returns its canonical extension.
func allowedMimeType(mimeType string) (string, bool) {
	mt := normalizeMime(mimeType)
	if ext, ok := imageMimeTypes[mt]; ok {
		return ext, true
	}
	if ext, ok := videoMimeTypes[mt]; ok {
		return ext, true
	}
	if ext, ok := documentMimeTypes[mt]; ok {
		return ext, true
	}
	return "", false
}

// AllowedImageType reports whether the declared type is an accepted avatar
// source format.
func AllowedImageType(mimeType string) bool {
	_, ok := imageMimeTypes[normalizeMime(mimeType)]
	return ok
}

// classifyMime maps a content type to the coarse kind used by folder listings.
func classifyMime(mimeType string) Kind {
	mt := normalizeMime(mimeType)
	switch {
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case strings.HasPrefix(mt, "video/"):
		return KindVideo
	case mt == "application/pdf",
		strings.Contains(mt, "word"),
		strings.Contains(mt, "excel"),
		strings.Contains(mt, "spreadsheet"),
		strings.HasPrefix(mt, "text/"):
		return KindDocument
	default:
		return KindOther
	}
}

// contentTypeForKey derives a content type from an object key's extension,
// falling back to octet-stream for unknown extensions.
func contentTypeForKey(objectKey string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(objectKey)), ".")
	if ct, ok := extensionContentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// extensionFromName extracts a lowered extension from a file name, without
// the leading dot. Empty when the name has none.
func extensionFromName(fileName string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(fileName)), ".")
}

func normalizeMime(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	// strip parameters such as "; charset=utf-8"
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
