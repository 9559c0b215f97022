package framework

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// NumLetters is the number of letters placed by a layout and the number of
// slots in every catalog.
const NumLetters = 26

// Letters is the fixed letter order. Index i of a Layout always refers to Letters[i].
const Letters = "abcdefghijklmnopqrstuvwxyz"

// Problem describes the contract a layout optimization problem needs to implement.
type Problem interface {
	Name() string

	// Catalog returns the fixed key positions every layout is a permutation of.
	Catalog() *Catalog

	// Cost returns the mean travel distance of the layout, always >= 0.
	Cost(Layout) float64
}

// Fitness returns the negated cost of l under p. Higher is better.
func Fitness(p Problem, l Layout) float64 {
	return -p.Cost(l)
}

// GenerationCache is implemented by problems that memoize costs. Retain is
// called after each generation has been replaced with the individuals carried
// unchanged into the next one; every other memoized cost may be dropped.
type GenerationCache interface {
	Retain(kept []Individual)
}

// Position is the coordinate of a key slot.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Catalog is an immutable set of key slots. Slots are addressed by their index,
// which is the stable identity used by all operators.
type Catalog struct {
	positions []Position
	// rows holds slot indices grouped by row, top row (largest y) first,
	// each row ordered by ascending x.
	rows [][]int
	dist *mat.SymDense
}

// DefaultPositions are the staggered three row slots of a QWERTY-like keyboard:
// ten keys on the top row, nine on the middle row and seven on the bottom row.
var DefaultPositions = []Position{
	{0, 2}, {1, 2}, {2, 2}, {3, 2}, {4, 2}, {5, 2}, {6, 2}, {7, 2}, {8, 2}, {9, 2},
	{0.5, 1}, {1.5, 1}, {2.5, 1}, {3.5, 1}, {4.5, 1}, {5.5, 1}, {6.5, 1}, {7.5, 1}, {8.5, 1},
	{1.5, 0}, {2.5, 0}, {3.5, 0}, {4.5, 0}, {5.5, 0}, {6.5, 0}, {7.5, 0},
}

var defaultCatalog = MustNewCatalog(DefaultPositions)

// DefaultCatalog returns the shared catalog built from DefaultPositions.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// NewCatalog validates positions and precomputes the pairwise slot distances.
func NewCatalog(positions []Position) (*Catalog, error) {
	if err := ValidatePositions(positions); err != nil {
		return nil, err
	}

	c := &Catalog{
		positions: make([]Position, len(positions)),
		dist:      mat.NewSymDense(len(positions), nil),
	}
	copy(c.positions, positions)

	for i := range c.positions {
		a := []float64{c.positions[i].X, c.positions[i].Y}
		for j := i + 1; j < len(c.positions); j++ {
			b := []float64{c.positions[j].X, c.positions[j].Y}
			c.dist.SetSym(i, j, floats.Distance(a, b, 2))
		}
	}

	byY := make(map[float64][]int)
	for i, p := range c.positions {
		byY[p.Y] = append(byY[p.Y], i)
	}
	ys := make([]float64, 0, len(byY))
	for y := range byY {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ys)))
	for _, y := range ys {
		row := byY[y]
		sort.Slice(row, func(i, j int) bool {
			return c.positions[row[i]].X < c.positions[row[j]].X
		})
		c.rows = append(c.rows, row)
	}

	return c, nil
}

// MustNewCatalog is like NewCatalog but panics on invalid positions.
func MustNewCatalog(positions []Position) *Catalog {
	c, err := NewCatalog(positions)
	if err != nil {
		panic(err)
	}
	return c
}

// ValidatePositions checks that positions can back a catalog: exactly NumLetters
// finite, pairwise distinct coordinates.
func ValidatePositions(positions []Position) error {
	if len(positions) != NumLetters {
		return fmt.Errorf("%w: catalog needs %d positions, got %d", ErrConfig, NumLetters, len(positions))
	}
	seen := make(map[Position]int, len(positions))
	for i, p := range positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: position %d %v is not finite", ErrConfig, i, p)
		}
		if j, ok := seen[p]; ok {
			return fmt.Errorf("%w: positions %d and %d share coordinate %v", ErrConfig, j, i, p)
		}
		seen[p] = i
	}
	return nil
}

// Len returns the number of slots.
func (c *Catalog) Len() int {
	return len(c.positions)
}

// Position returns the coordinate of slot.
func (c *Catalog) Position(slot int) Position {
	return c.positions[slot]
}

// Distance returns the Euclidean distance between two slots.
func (c *Catalog) Distance(a, b int) float64 {
	return c.dist.At(a, b)
}

// Rows returns the slot indices per row, top row first, left to right.
func (c *Catalog) Rows() [][]int {
	out := make([][]int, len(c.rows))
	for i, r := range c.rows {
		out[i] = append([]int(nil), r...)
	}
	return out
}

// Layout assigns every letter a catalog slot: Layout[i] is the slot of Letters[i].
// A valid layout is a permutation of 0..NumLetters-1. Layouts are values, so
// operators always produce a new one instead of editing their input.
type Layout [NumLetters]int

// IdentityLayout places Letters[i] on slot i.
func IdentityLayout() Layout {
	var l Layout
	for i := range l {
		l[i] = i
	}
	return l
}

// LetterIndex maps a lower-case ASCII letter to its index in Letters.
func LetterIndex(r rune) (int, bool) {
	if r < 'a' || r > 'z' {
		return 0, false
	}
	return int(r - 'a'), true
}

// Validate reports whether l uses every slot exactly once.
func (l Layout) Validate() error {
	var used [NumLetters]bool
	for i, s := range l {
		if s < 0 || s >= NumLetters {
			return fmt.Errorf("letter %q assigned to slot %d out of range", Letters[i], s)
		}
		if used[s] {
			return fmt.Errorf("slot %d assigned twice (second time to letter %q)", s, Letters[i])
		}
		used[s] = true
	}
	return nil
}

// Key returns a compact string identifying l, suitable as a map or cache key.
func (l Layout) Key() string {
	var b strings.Builder
	b.Grow(NumLetters)
	for _, s := range l {
		b.WriteByte(byte('A' + s))
	}
	return b.String()
}

// BySlot returns the letter placed on every slot. Slots no letter uses hold 0.
func (l Layout) BySlot() [NumLetters]byte {
	var out [NumLetters]byte
	for i, s := range l {
		if s >= 0 && s < NumLetters {
			out[s] = Letters[i]
		}
	}
	return out
}
