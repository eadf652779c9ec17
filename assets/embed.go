// assets/embed.go
//
// Files compiled into the binary:
//   - catalog.txt: default equipment/item names (see internal/catalog)
//   - sql/*.sql:   schema migrations, applied in lexical order (see internal/sqlite)

package assets

import (
	"bufio"
	"embed"
	"io"
	"io/fs"
	"strings"
)

//go:embed catalog.txt sql/*.sql
var FS embed.FS

// ReadLines returns the trimmed lines of r, skipping blanks and '#' comments.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// CatalogLines returns the non-comment lines of the embedded catalog.
func CatalogLines() ([]string, error) {
	return readLines("catalog.txt")
}

// Migrations returns the embedded migration directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}
