package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed rules.txt migrations/*.sql
var FS embed.FS

// RulesText returns the rules template. It takes, in order, the number of
// positions, the number of colors and the word placed between "may" and
// "repeat".
func RulesText() string {
	b, err := FS.ReadFile("rules.txt")
	if err != nil {
		return ""
	}
	return string(b)
}

// Migration is one embedded SQL script.
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists migrations/*.sql in lexical order.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(FS, "migrations")
	if err != nil {
		return nil, err
	}
	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			continue
		}
		b, err := FS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: e.Name(), SQL: string(b)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
