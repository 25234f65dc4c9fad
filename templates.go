package formkit

import (
	"io/fs"

	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the default stylesheet bundle, suitable for
// http.FileServer(http.FS(...)).
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
