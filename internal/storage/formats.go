package storage

import (
	"path/filepath"
	"strings"
)

// imageFormats lists every extension treated as an image. The value marks
// formats the thumbnail decoder understands.
var imageFormats = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
	"tif":  true,
	"tiff": true,
	"heic": false,
	"heif": false,
	"avif": false,
	"dng":  false,
	"cr2":  false,
	"cr3":  false,
	"nef":  false,
	"arw":  false,
	"orf":  false,
	"rw2":  false,
	"raf":  false,
}

// Format returns the lowercased extension of filename without the dot.
func Format(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// IsImageFile reports whether the file name carries a known image extension.
func IsImageFile(filename string) bool {
	_, ok := imageFormats[Format(filename)]
	return ok
}

// IsSupportedFormat reports whether thumbnails can be produced for the file.
func IsSupportedFormat(filename string) bool {
	return imageFormats[Format(filename)]
}
