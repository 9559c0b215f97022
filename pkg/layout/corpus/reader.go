package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/keyboard-ga/layout-optimizer/pkg/layout/framework"
)

const (
	// DefaultMaxWords bounds the number of words read from a corpus file.
	DefaultMaxWords = 1000
	// DefaultMaxWordLength is the longest line kept; longer lines are truncated.
	DefaultMaxWordLength = 63
)

// ReadOptions bounds what Read keeps from its input.
type ReadOptions struct {
	MaxWords      int
	MaxWordLength int
}

// DefaultReadOptions returns the limits used when none are configured.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		MaxWords:      DefaultMaxWords,
		MaxWordLength: DefaultMaxWordLength,
	}
}

// ReadFile reads one word per line from path. See Read.
func ReadFile(path string, opts ReadOptions) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", framework.ErrIO, err)
	}
	defer f.Close()

	return Read(f, opts)
}

// Read returns the non-blank lines of r with surrounding whitespace removed.
// Lines longer than MaxWordLength bytes are cut at the last rune boundary that
// fits, and reading stops once MaxWords words have been collected.
// It returns ErrEmptyCorpus when nothing usable was read.
func Read(r io.Reader, opts ReadOptions) ([]string, error) {
	if opts.MaxWords <= 0 {
		opts.MaxWords = DefaultMaxWords
	}
	if opts.MaxWordLength <= 0 {
		opts.MaxWordLength = DefaultMaxWordLength
	}

	var words []string
	br := bufio.NewReader(r)
	for len(words) < opts.MaxWords {
		line, err := br.ReadString('\n')
		if word := strings.TrimSpace(line); word != "" {
			words = append(words, truncate(word, opts.MaxWordLength))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", framework.ErrIO, err)
		}
	}

	if len(words) == 0 {
		return nil, framework.ErrEmptyCorpus
	}
	return words, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
