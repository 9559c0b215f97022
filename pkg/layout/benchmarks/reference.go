package benchmarks

import (
	"fmt"

	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
)

// Reference is a well known arrangement used as a baseline for optimized layouts.
type Reference struct {
	Name string
	// Rows lists the letters of each row, top row first, left to right.
	Rows []string
}

var (
	// QWERTY is the standard typewriter arrangement.
	QWERTY = Reference{
		Name: "QWERTY",
		Rows: []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"},
	}
	// Alphabetical fills the rows in alphabetical order.
	Alphabetical = Reference{
		Name: "Alphabetical",
		Rows: []string{"abcdefghij", "klmnopqrs", "tuvwxyz"},
	}
)

// References returns the built-in baselines.
func References() []Reference {
	return []Reference{QWERTY, Alphabetical}
}

// Layout places the reference letters on catalog, row by row, left to right.
// The row shape of the reference must match the catalog's.
func (r Reference) Layout(catalog *framework.Catalog) (framework.Layout, error) {
	var l framework.Layout
	rows := catalog.Rows()
	if len(rows) != len(r.Rows) {
		return l, fmt.Errorf("%s has %d rows, catalog has %d", r.Name, len(r.Rows), len(rows))
	}

	var placed [framework.NumLetters]bool
	for i, letters := range r.Rows {
		if len(letters) != len(rows[i]) {
			return l, fmt.Errorf("%s row %d has %d keys, catalog row has %d", r.Name, i, len(letters), len(rows[i]))
		}
		for j, c := range letters {
			idx, ok := framework.LetterIndex(c)
			if !ok || placed[idx] {
				return l, fmt.Errorf("%s row %d: invalid or repeated letter %q", r.Name, i, c)
			}
			placed[idx] = true
			l[idx] = rows[i][j]
		}
	}

	return l, l.Validate()
}

// Cost evaluates every reference that fits the catalog of p.
// References whose shape does not match the catalog are skipped.
func Cost(p framework.Problem, refs ...Reference) map[string]float64 {
	out := make(map[string]float64, len(refs))
	for _, r := range refs {
		l, err := r.Layout(p.Catalog())
		if err != nil {
			continue
		}
		out[r.Name] = p.Cost(l)
	}
	return out
}
