// Package rowcodec encodes typed field values into the flat text cells the
// store adapters persist, and back.
package rowcodec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Separator joins element identifiers inside a list cell. Rows carry no
// escaping, so an identifier containing the separator would silently split
// into phantom references on load; ValidateID rejects such identifiers at
// persist time instead.
const Separator = ","

// ErrSeparatorInID reports an identifier that cannot be stored inside a
// list cell.
var ErrSeparatorInID = errors.New("identifier contains the list separator")

// ValidateID rejects identifiers that would corrupt a list cell.
func ValidateID(id string) error {
	if strings.Contains(id, Separator) {
		return fmt.Errorf("%w: %q", ErrSeparatorInID, id)
	}
	return nil
}

// EncodeInt renders an integer cell.
func EncodeInt(value int64) string {
	return strconv.FormatInt(value, 10)
}

// DecodeInt parses an integer cell.
func DecodeInt(cell string) (int64, error) {
	value, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("rowcodec: %q is not an integer cell", cell)
	}
	return value, nil
}

// JoinIDs flattens identifiers into one list cell; an empty sequence
// becomes the empty string.
func JoinIDs(ids []string) string {
	return strings.Join(ids, Separator)
}

// SplitIDs expands a list cell back into identifier tokens; the empty
// string yields no tokens.
func SplitIDs(cell string) []string {
	if cell == "" {
		return nil
	}
	return strings.Split(cell, Separator)
}
