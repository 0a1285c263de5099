package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
)

//go:embed hints.yaml sql/*.sql
var FS embed.FS

// Hints returns the default hint catalogue (YAML).
func Hints() ([]byte, error) {
	return FS.ReadFile("hints.yaml")
}

// Migration is one embedded schema script.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded sql/*.sql scripts in lexical order.
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
		out = append(out, Migration{Name: path.Base(n), SQL: string(b)})
	}
	return out, nil
}
