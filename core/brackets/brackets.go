// Package brackets provides bracket matching over plain strings.
//
// Parentheses, square brackets and braces are tracked independently: a
// bracket of one type never matches a bracket of another type. Indices are
// byte offsets, which is safe because every bracket character is ASCII.
package brackets

import (
	"strings"

	uerrors "github.com/FocuswithJustin/unitconv/core/errors"
)

// Direction selects the scan direction of FindMatching.
type Direction int

const (
	// Forward scans left to right from an opening bracket.
	Forward Direction = iota
	// Backward scans right to left from a closing bracket.
	Backward
)

// Pair is an opening/closing bracket pair.
type Pair struct {
	Open  byte
	Close byte
}

// Pairs are the bracket types recognised in unit expressions.
var Pairs = []Pair{
	{Open: '(', Close: ')'},
	{Open: '[', Close: ']'},
	{Open: '{', Close: '}'},
}

// PairOf returns the bracket pair containing c.
func PairOf(c byte) (Pair, bool) {
	for _, p := range Pairs {
		if c == p.Open || c == p.Close {
			return p, true
		}
	}
	return Pair{}, false
}

// IsOpening reports whether c is an opening bracket.
func IsOpening(c byte) bool {
	p, ok := PairOf(c)
	return ok && c == p.Open
}

// IsClosing reports whether c is a closing bracket.
func IsClosing(c byte) bool {
	p, ok := PairOf(c)
	return ok && c == p.Close
}

// FindMatching returns the index of the bracket matching the one at index.
//
// With Forward the character at index must be an opening bracket, with
// Backward a closing bracket. A negative index counts from the end of text.
// The scan keeps a depth counter over brackets of the same type only; the
// match is where the counter first returns to zero.
func FindMatching(text string, index int, dir Direction) (int, error) {
	if index < 0 {
		index += len(text)
	}
	if index < 0 || index >= len(text) {
		return -1, uerrors.NewBracket(text, index, "index out of range")
	}

	c := text[index]
	pair, ok := PairOf(c)
	if !ok {
		return -1, uerrors.NewBracket(text, index, "not a bracket")
	}

	step, up, down := 1, pair.Open, pair.Close
	switch dir {
	case Forward:
		if c != pair.Open {
			return -1, uerrors.NewBracket(text, index, "forward scan must start at an opening bracket")
		}
	case Backward:
		if c != pair.Close {
			return -1, uerrors.NewBracket(text, index, "backward scan must start at a closing bracket")
		}
		step, up, down = -1, pair.Close, pair.Open
	}

	depth := 0
	for i := index; i >= 0 && i < len(text); i += step {
		switch text[i] {
		case up:
			depth++
		case down:
			depth--
		}
		if depth == 0 {
			return i, nil
		}
	}
	return -1, uerrors.NewBracket(text, index, "no matching bracket")
}

// AllMatched reports whether every bracket in text is matched.
//
// Each bracket type is counted independently; the result is false if any
// counter goes negative or finishes non-zero.
func AllMatched(text string) bool {
	depth := make([]int, len(Pairs))
	for i := 0; i < len(text); i++ {
		for k, p := range Pairs {
			switch text[i] {
			case p.Open:
				depth[k]++
			case p.Close:
				depth[k]--
				if depth[k] < 0 {
					return false
				}
			}
		}
	}
	for _, d := range depth {
		if d != 0 {
			return false
		}
	}
	return true
}

// Validate returns a malformed-input error unless brackets in text are properly
// nested. Unlike AllMatched it also rejects interleaved types such as "([)]".
func Validate(text string) error {
	if !AllMatched(text) {
		return uerrors.NewBracket(text, -1, "brackets are not all matched")
	}
	var stack []byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case IsOpening(c):
			stack = append(stack, c)
		case IsClosing(c):
			p, _ := PairOf(c)
			if len(stack) == 0 || stack[len(stack)-1] != p.Open {
				return uerrors.NewBracket(text, i, "bracket closes a different bracket type")
			}
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// StripOuter removes matched brackets enclosing the whole of text, repeatedly,
// along with surrounding whitespace.
func StripOuter(text string) string {
	text = strings.TrimSpace(text)
	for len(text) >= 2 && IsOpening(text[0]) {
		end, err := FindMatching(text, 0, Forward)
		if err != nil || end != len(text)-1 {
			break
		}
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}

// FindTopLevel returns the index of the first byte of text in targets that is
// outside every bracket pair, scanning in dir. It returns -1 if none exists.
func FindTopLevel(text string, targets string, dir Direction) (int, error) {
	if !AllMatched(text) {
		return -1, uerrors.NewBracket(text, -1, "brackets are not all matched")
	}

	i, step := 0, 1
	if dir == Backward {
		i, step = len(text)-1, -1
	}
	for i >= 0 && i < len(text) {
		c := text[i]
		if strings.IndexByte(targets, c) >= 0 {
			return i, nil
		}
		if (dir == Forward && IsOpening(c)) || (dir == Backward && IsClosing(c)) {
			j, err := FindMatching(text, i, dir)
			if err != nil {
				return -1, err
			}
			i = j
		}
		i += step
	}
	return -1, nil
}
