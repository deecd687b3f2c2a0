package shopdal

import "fmt"

// mimeExtensions is the fixed MIME-type-to-extension table for ingested
// media. Static data rather than control flow so new types are a one-line
// addition.
var mimeExtensions = map[string]string{
	"image/jpeg":             "jpg",
	"image/png":              "png",
	"image/webp":             "webp",
	"image/gif":              "gif",
	"image/svg+xml":          "svg",
	"image/bmp":              "bmp",
	"image/tiff":             "tif",
	"application/postscript": "eps",
	"image/x-eps":            "eps",
	"video/webm":             "webm",
	"video/x-matroska":       "mkv",
	"video/x-flv":            "flv",
	"video/ogg":              "ogv",
	"audio/ogg":              "oga",
	"video/quicktime":        "mov",
	"video/mp4":              "mp4",
	"video/x-msvideo":        "avi",
	"video/x-ms-wmv":         "wmv",
	"application/pdf":        "pdf",
	"audio/aac":              "aac",
	"audio/mpeg":             "mp3",
	"audio/wav":              "wav",
	"audio/x-wav":            "wav",
	"audio/flac":             "flac",
	"audio/x-flac":           "flac",
	"audio/x-ms-wma":         "wma",
	"text/plain":             "txt",
	"application/msword":     "doc",
	"model/gltf-binary":      "glb",
}

// extensionForMimeType maps a sniffed MIME type to its file extension.
// Unrecognized types are a content-save failure naming the offending type.
func extensionForMimeType(mimeType string) (string, error) {
	extension, ok := mimeExtensions[mimeType]
	if !ok {
		return "", &ContentSaveError{Err: fmt.Errorf("unsupported file type: %s", mimeType)}
	}
	return extension, nil
}
