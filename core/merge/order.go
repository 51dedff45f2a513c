package merge

import (
	"strings"
	"unicode"
)

// ConfirmToken keeps the natural candidate order. An empty line means the same.
const ConfirmToken = "/"

// valueCap bounds accumulated token values so that long digit runs cannot overflow.
const valueCap = 1_000_000_000

// ParseOrder parses an order specification for n candidates.
//
// The input is either empty or ConfirmToken, which selects every candidate in enumeration
// order, or a whitespace-separated list of distinct indices in [0, n-1]. The returned indices
// keep the order in which they were written. The first violation found while scanning is
// returned as a *FormatError; the input is never repaired.
func ParseOrder(raw string, n int) ([]int, error) {
	text := strings.TrimSpace(raw)
	if text == "" || text == ConfirmToken {
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order, nil
	}

	maxIndex := n - 1
	order := make([]int, 0, n)
	seen := make(map[int]struct{}, n)

	value := 0
	inToken := false

	finish := func() error {
		inToken = false
		if len(order) >= n {
			return &FormatError{Kind: TooManyNumbers, Max: maxIndex}
		}
		if value > maxIndex {
			return &FormatError{Kind: OutOfRange, Value: value, Max: maxIndex}
		}
		if _, dup := seen[value]; dup {
			return &FormatError{Kind: Duplicate, Value: value, Max: maxIndex}
		}
		seen[value] = struct{}{}
		order = append(order, value)
		value = 0
		return nil
	}

	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			inToken = true
			if value < valueCap {
				value = value*10 + int(r-'0')
			}
		case unicode.IsSpace(r):
			if inToken {
				if err := finish(); err != nil {
					return nil, err
				}
			}
		default:
			return nil, &FormatError{Kind: ImproperFormat, Char: r, Max: maxIndex}
		}
	}
	if inToken {
		if err := finish(); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// Select returns the candidates referenced by order, in order.
func Select(candidates []SourceEntry, order []int) []SourceEntry {
	selected := make([]SourceEntry, 0, len(order))
	for _, idx := range order {
		selected = append(selected, candidates[idx])
	}
	return selected
}
