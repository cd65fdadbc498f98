package mirror

import (
	"path"
	"strings"
)

// Fidelity modifiers for the archive's replay layer. The identity modifier
// serves bytes exactly as archived with no link rewriting; the type-specific
// modifiers keep CSS/JS/images byte-faithful for static mirroring. HTML
// deliberately stays on the identity modifier so its embedded links survive
// for asset discovery.
const (
	ModifierIdentity   = "id_"
	ModifierImage      = "im_"
	ModifierStylesheet = "cs_"
	ModifierScript     = "js_"
)

const replayBase = "https://web.archive.org/web/"

var imageExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {},
	".svg": {}, ".ico": {}, ".bmp": {}, ".tif": {}, ".tiff": {},
}

// WaybackURL builds the archive's replay URL for one capture of original,
// picking the fidelity modifier from the URL's file extension.
func WaybackURL(original, timestamp string) string {
	return replayBase + timestamp + modifierFor(original) + "/" + original
}

// modifierFor inspects the extension of the URL with query string and
// fragment stripped first.
func modifierFor(original string) string {
	trimmed := original
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}

	ext := strings.ToLower(path.Ext(trimmed))
	switch {
	case ext == ".css":
		return ModifierStylesheet
	case ext == ".js":
		return ModifierScript
	default:
		if _, ok := imageExtensions[ext]; ok {
			return ModifierImage
		}
		return ModifierIdentity
	}
}
