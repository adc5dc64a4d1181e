package locales

import (
	"embed"
	"io/fs"

	"github.com/gobuffalo/buffalo"
)

//go:embed *.yaml
var files embed.FS

// FS returns the translation files as a buffalo FS
func FS() fs.FS {
	return buffalo.NewFS(files, "locales")
}
