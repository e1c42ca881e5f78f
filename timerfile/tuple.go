package timerfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"timervid/types"
)

// ParseIntervalList reads a tuple-list literal such as
//
//	[('WORK', 'green', 60), ("REST", 30, "red")]
//
// Each tuple holds a name, a color and a duration. The duration is the
// numeric element, so the color may come before or after it.
func ParseIntervalList(raw string) ([]types.Interval, error) {
	p := &tupleParser{src: []rune(strings.TrimSpace(raw))}
	tuples, err := p.list()
	if err != nil {
		return nil, err
	}

	intervals := make([]types.Interval, 0, len(tuples))
	for i, tuple := range tuples {
		iv, err := tupleToInterval(tuple)
		if err != nil {
			return nil, fmt.Errorf("tuple %d: %w", i+1, err)
		}
		intervals = append(intervals, iv)
	}
	return intervals, nil
}

type atom struct {
	text    string
	number  float64
	numeric bool
}

func tupleToInterval(tuple []atom) (types.Interval, error) {
	if len(tuple) != 3 {
		return types.Interval{}, fmt.Errorf("expected 3 elements, got %d", len(tuple))
	}

	durIdx := -1
	for i, a := range tuple {
		if a.numeric {
			if durIdx >= 0 {
				return types.Interval{}, errors.New("more than one numeric element")
			}
			durIdx = i
		}
	}
	if durIdx < 0 {
		// ('WORK', 'green', '60')
		if v, err := strconv.ParseFloat(strings.TrimSpace(tuple[2].text), 64); err == nil {
			tuple[2] = atom{number: v, numeric: true}
			durIdx = 2
		} else {
			return types.Interval{}, errors.New("missing duration")
		}
	}

	var texts []string
	for i, a := range tuple {
		if i != durIdx {
			texts = append(texts, a.text)
		}
	}
	if tuple[durIdx].number < 0 {
		return types.Interval{}, errors.New("negative duration")
	}
	return types.Interval{
		Name:    strings.TrimSpace(texts[0]),
		Color:   strings.ToLower(strings.TrimSpace(texts[1])),
		Seconds: tuple[durIdx].number,
	}, nil
}

type tupleParser struct {
	src []rune
	pos int
}

func (p *tupleParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *tupleParser) peek() rune {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *tupleParser) expect(r rune) error {
	if got := p.peek(); got != r {
		if got == 0 {
			return fmt.Errorf("expected %q at end of input", r)
		}
		return fmt.Errorf("expected %q at offset %d, got %q", r, p.pos, got)
	}
	p.pos++
	return nil
}

func (p *tupleParser) list() ([][]atom, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	var tuples [][]atom
	for {
		if p.peek() == ']' {
			p.pos++
			break
		}
		tuple, err := p.tuple()
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, tuple)

		switch p.peek() {
		case ',':
			p.pos++
		case ']':
		default:
			return nil, fmt.Errorf("expected ',' or ']' at offset %d", p.pos)
		}
	}
	if p.peek() != 0 {
		return nil, fmt.Errorf("trailing input at offset %d", p.pos)
	}
	return tuples, nil
}

func (p *tupleParser) tuple() ([]atom, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var atoms []atom
	for {
		if p.peek() == ')' {
			p.pos++
			return atoms, nil
		}
		a, err := p.atom()
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, a)

		switch p.peek() {
		case ',':
			p.pos++
		case ')':
		default:
			return nil, fmt.Errorf("expected ',' or ')' at offset %d", p.pos)
		}
	}
}

func (p *tupleParser) atom() (atom, error) {
	switch r := p.peek(); {
	case r == '\'' || r == '"':
		s, err := p.quoted(r)
		return atom{text: s}, err
	case r == '-' || r == '+' || r == '.' || unicode.IsDigit(r):
		start := p.pos
		for p.pos < len(p.src) && strings.ContainsRune("+-.eE0123456789", p.src[p.pos]) {
			p.pos++
		}
		v, err := strconv.ParseFloat(string(p.src[start:p.pos]), 64)
		if err != nil {
			return atom{}, fmt.Errorf("invalid number %q", string(p.src[start:p.pos]))
		}
		return atom{number: v, numeric: true}, nil
	case r == 0:
		return atom{}, errors.New("unexpected end of input")
	default:
		return atom{}, fmt.Errorf("unexpected %q at offset %d", r, p.pos)
	}
}

func (p *tupleParser) quoted(quote rune) (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		p.pos++
		switch {
		case r == '\\' && p.pos < len(p.src):
			b.WriteRune(p.src[p.pos])
			p.pos++
		case r == quote:
			return b.String(), nil
		default:
			b.WriteRune(r)
		}
	}
	return "", errors.New("unterminated string")
}
