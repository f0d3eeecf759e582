// Package pathgen derives deterministic, filesystem-safe identifiers from
// image URLs, e.g. for naming a directory that holds one image's segments.
package pathgen

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/menta2k/image-slicer/internal/utils"
	"github.com/menta2k/image-slicer/pkg/types"
)

const (
	// MaxLength is the longest identifier GenerateStrict will return
	MaxLength = 255
	// Delimiter joins the hostname and the path segments
	Delimiter = "-"
)

// AllowedExtensions are the path extensions accepted by GenerateStrict
var AllowedExtensions = []string{".jpg", ".jpeg", ".png"}

// Generate builds "<hostname>-<seg1>-<seg2>..." from rawURL with the
// extension of the last segment dropped. Query and fragment are ignored.
// Any scheme and any (or no) extension is accepted.
func Generate(rawURL string) (string, error) {
	u, err := parse(rawURL)
	if err != nil {
		return "", err
	}
	return build(u), nil
}

// GenerateStrict is Generate restricted to https URLs whose path ends in
// .jpg, .jpeg or .png (case-insensitive). The result must not exceed MaxLength.
func GenerateStrict(rawURL string) (string, error) {
	u, err := parse(rawURL)
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(u.Scheme, "https") {
		return "", types.InvalidArgument("Invalid URL scheme")
	}

	if !hasAllowedExtension(u.Path) {
		return "", types.UnsupportedType("Invalid file type")
	}

	id := build(u)
	if len(id) > MaxLength {
		return "", types.InvalidArgument(fmt.Sprintf("Generated path exceeds %d characters", MaxLength))
	}
	return id, nil
}

func parse(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, types.InvalidArgument("Image URL is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, types.InvalidArgument("Invalid URL format")
	}
	return u, nil
}

// build assumes u.Path is already percent-decoded, which url.Parse guarantees.
func build(u *url.URL) string {
	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	last := len(segments) - 1
	segments[last] = strings.TrimSuffix(segments[last], path.Ext(segments[last]))
	for i, seg := range segments {
		segments[i] = utils.ReplaceInvalidChars(seg)
	}

	return u.Hostname() + Delimiter + strings.Join(segments, Delimiter)
}

func hasAllowedExtension(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
