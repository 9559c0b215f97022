package util

import (
	"fmt"
	"io"
	"strings"

	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
)

// Rows returns the upper-case letters of l per catalog row, top row first,
// each row ordered by key x coordinate.
func Rows(catalog *framework.Catalog, l framework.Layout) []string {
	bySlot := l.BySlot()

	rows := catalog.Rows()
	out := make([]string, len(rows))
	for r, slots := range rows {
		keys := make([]string, len(slots))
		for i, slot := range slots {
			keys[i] = strings.ToUpper(string(bySlot[slot]))
		}
		out[r] = strings.Join(keys, " ")
	}
	return out
}

// FormatRows writes Rows one per line.
func FormatRows(w io.Writer, catalog *framework.Catalog, l framework.Layout) error {
	for _, row := range Rows(catalog, l) {
		if _, err := fmt.Fprintln(w, row); err != nil {
			return err
		}
	}
	return nil
}
