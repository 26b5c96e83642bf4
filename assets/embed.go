// apps/go-server/assets/embed.go
//
// Embedded defaults shipped with the binary:
//   - stages.yaml: the built-in stage catalogue (used when STAGES_FILE is unset).
//   - sql/*.sql:   SQLite migrations for rankings and best times, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed stages.yaml sql/*.sql
var FS embed.FS

// Stages returns the raw built-in stage catalogue.
func Stages() ([]byte, error) {
	return FS.ReadFile("stages.yaml")
}

// Migration is one embedded SQL script.
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the embedded SQL scripts sorted by file name.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(FS, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, n := range names {
		b, err := FS.ReadFile(n)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: n, SQL: string(b)})
	}
	return out, nil
}
