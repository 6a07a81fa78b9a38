// Package resolver turns a user gesture or an editor line into a concrete
// image reference. It performs no I/O: vault lookups go through a FileIndex
// and fetching the referenced bytes is the caller's responsibility.
package resolver

import (
	"fmt"
	"strings"

	"github.com/rfenwick/vaultclip/internal/errors"
)

// SourceKind identifies where an image reference points.
type SourceKind int

const (
	// SourceElement is a rendered image element on the editing surface.
	SourceElement SourceKind = iota
	// SourceVaultFile is a file resolved out of embed syntax in note text.
	SourceVaultFile
)

func (k SourceKind) String() string {
	switch k {
	case SourceElement:
		return "element"
	case SourceVaultFile:
		return "vault file"
	default:
		return "unknown"
	}
}

// Element is a rendered image on the editing surface. Its source URL is
// authoritative; no extension check applies on this path, so SVG elements
// are copyable even though the embed path rejects .svg.
type Element struct {
	SourceURL string
	MediaType string // declared blob type; empty means sniff later
}

// ImageRef identifies an image to act on. Created per gesture and
// discarded after the pipeline completes or fails.
type ImageRef struct {
	Kind      SourceKind
	Path      string // vault-relative path (SourceVaultFile)
	URL       string // rendered source URL (SourceElement)
	MediaType string // declared content type, may be empty
}

// Source returns the fetchable location of the reference.
func (r *ImageRef) Source() string {
	if r.Kind == SourceElement {
		return r.URL
	}
	return r.Path
}

// commandExtensions is the allowlist for the embed-syntax path. It is
// deliberately narrower than what the element path accepts: svg is
// excluded here, matching observed behavior. Case-sensitive.
var commandExtensions = map[string]string{
	"bmp":  "image/bmp",
	"gif":  "image/gif",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"tiff": "image/tiff",
}

// FileIndex is the vault lookup surface the resolver needs.
type FileIndex interface {
	// FindFileByName returns the vault-relative path of the file whose
	// base name equals name exactly (case-sensitive).
	FindFileByName(name string) (string, bool)
}

// ParseEmbed extracts the target name from the first ![[...]] embed on the
// line. A |alias suffix (display width or caption) is stripped.
func ParseEmbed(line string) (string, bool) {
	start := strings.Index(line, "![[")
	if start < 0 {
		return "", false
	}
	rest := line[start+len("![["):]
	end := strings.Index(rest, "]]")
	if end < 0 {
		return "", false
	}
	name := rest[:end]
	if pipe := strings.Index(name, "|"); pipe >= 0 {
		name = name[:pipe]
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// FromElement produces a reference for a rendered image element.
func FromElement(el Element) *ImageRef {
	return &ImageRef{
		Kind:      SourceElement,
		URL:       el.SourceURL,
		MediaType: el.MediaType,
	}
}

// ResolveLine parses the line for an embed pattern and resolves it against
// the file index. Every failure mode maps to a not-an-image error: missing
// embed syntax, missing or unsupported extension, and unknown file name.
func ResolveLine(line string, idx FileIndex) (*ImageRef, error) {
	name, ok := ParseEmbed(line)
	if !ok {
		return nil, errors.NotAnImage("no image embed on this line")
	}

	dot := strings.LastIndex(name, ".")
	if dot < 0 || dot == len(name)-1 {
		return nil, errors.NotAnImage(fmt.Sprintf("%s has no file extension", name))
	}
	ext := name[dot+1:]

	mediaType, ok := commandExtensions[ext]
	if !ok {
		return nil, errors.NotAnImage(fmt.Sprintf("unsupported extension .%s", ext))
	}

	path, ok := idx.FindFileByName(name)
	if !ok {
		return nil, errors.FileNotFound(name)
	}

	return &ImageRef{
		Kind:      SourceVaultFile,
		Path:      path,
		MediaType: mediaType,
	}, nil
}
