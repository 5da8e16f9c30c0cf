package savegame

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/gobwas/glob"
)

// Catalog enumerates the save identifiers present in a directory.
type Catalog struct {
	fsys    fs.FS
	ext     string
	pattern glob.Glob
}

// NewCatalog creates a catalog over fsys for files named <id><ext>.
func NewCatalog(fsys fs.FS, ext string) (*Catalog, error) {
	pattern, err := glob.Compile("*" + glob.QuoteMeta(ext))
	if err != nil {
		return nil, fmt.Errorf("save pattern for %q: %w", ext, err)
	}
	return &Catalog{fsys: fsys, ext: ext, pattern: pattern}, nil
}

// List returns save identifiers in the order the directory yields them. The
// menu numbers saves by this position, so the order is never re-sorted. A
// missing or unreadable directory yields an empty list.
func (c *Catalog) List() []string {
	ids := []string{}

	f, err := c.fsys.Open(".")
	if err != nil {
		return ids
	}
	defer f.Close()

	dir, ok := f.(fs.ReadDirFile)
	if !ok {
		return ids
	}
	entries, _ := dir.ReadDir(-1)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !c.pattern.Match(name) {
			continue
		}
		if id := strings.TrimSuffix(name, c.ext); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
