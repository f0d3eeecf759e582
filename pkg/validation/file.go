package validation

import (
	"github.com/menta2k/image-slicer/internal/utils"
	"github.com/menta2k/image-slicer/pkg/types"
)

// ValidateLocalFile checks that path names an existing regular file with a
// .jpg, .jpeg or .png extension. Existence is checked first.
func ValidateLocalFile(path string) error {
	if path == "" || !utils.FileExists(path) {
		return types.NotFound("File not found", nil)
	}
	if !utils.IsImageFile(path) {
		return types.UnsupportedType("Invalid file type")
	}
	return nil
}
