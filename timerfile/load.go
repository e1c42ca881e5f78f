package timerfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"timervid/types"
)

var (
	// ErrInputNotFound is returned when the timer file does not exist
	ErrInputNotFound = errors.New("input file not found")

	// ErrUnknownFormat is returned for extensions Load cannot dispatch
	ErrUnknownFormat = errors.New("unknown timer file format")
)

// Warning describes a skipped line or row
type Warning struct {
	Line   int
	Text   string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s (%q)", w.Line, w.Reason, w.Text)
}

// Parser reads one configuration format
type Parser func(r io.Reader) ([]types.Category, []Warning, error)

var parsers = map[string]Parser{
	".txt":  ParseText,
	".ini":  ParseText,
	".csv":  ParseCSV,
	".yaml": ParseYAML,
	".yml":  ParseYAML,
}

// Load opens path and parses it according to its extension
func Load(path string) ([]types.Category, []Warning, error) {
	parse, ok := parsers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	cats, warnings, err := parse(f)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cats, warnings, nil
}

// Count returns the number of timers across categories
func Count(cats []types.Category) int {
	n := 0
	for _, c := range cats {
		n += c.Len()
	}
	return n
}

// categorySet keeps categories in first-seen order
type categorySet struct {
	order []types.Category
	index map[string]int
}

func newCategorySet() *categorySet {
	return &categorySet{index: make(map[string]int)}
}

func (s *categorySet) get(name string) *types.Category {
	i, ok := s.index[name]
	if !ok {
		i = len(s.order)
		s.index[name] = i
		s.order = append(s.order, types.Category{Name: name})
	}
	return &s.order[i]
}

func (s *categorySet) list() []types.Category {
	if s.order == nil {
		return []types.Category{}
	}
	return s.order
}
