// Package dice models the six polyhedral die kinds and rolls their faces.
package dice

import (
	"errors"
	"strings"
)

// ErrUnknownKind is returned when a die name is not one of the supported kinds.
var ErrUnknownKind = errors.New("unknown die kind")

// Kind is a polyhedral die type identified by its face count.
type Kind int

const (
	D4  Kind = 4
	D6  Kind = 6
	D8  Kind = 8
	D10 Kind = 10
	D12 Kind = 12
	D20 Kind = 20
)

// Kinds lists every supported kind in ascending face order. Notation and
// roll expansion iterate in this order.
var Kinds = []Kind{D4, D6, D8, D10, D12, D20}

// Faces returns the number of faces on the die.
func (k Kind) Faces() int { return int(k) }

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if v == k {
			return true
		}
	}
	return false
}

func (k Kind) String() string {
	switch k {
	case D4:
		return "d4"
	case D6:
		return "d6"
	case D8:
		return "d8"
	case D10:
		return "d10"
	case D12:
		return "d12"
	case D20:
		return "d20"
	default:
		return "d?"
	}
}

// MarshalText encodes the kind as its "dN" name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, ErrUnknownKind
	}
	return []byte(k.String()), nil
}

// UnmarshalText accepts the same names as ParseKind.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind parses "d6", "D6" and similar names.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, ErrUnknownKind
}
