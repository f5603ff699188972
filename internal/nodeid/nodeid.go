// Package nodeid implements the node-id resolution grammar spec.md §6
// defines, used by configuration (config.Config.ResolveNodeID):
// "@prefix" unique-prefix match, "$alias" exact lookup, or a bare
// valid node-type id. The settlement source-account check compares
// decoded ids directly and does not go through this package.
package nodeid

import (
	"errors"
	"strings"

	"github.com/quantadex/stellar-core/internal/asset"
)

// ErrAmbiguous is returned when an "@prefix" matches more than one
// known id.
var ErrAmbiguous = errors.New("nodeid: ambiguous prefix")

// ErrNotFound is returned when an "@prefix" matches no known id, or a
// "$alias" has no mapping.
var ErrNotFound = errors.New("nodeid: not found")

// ErrInvalid is returned for empty input, a lower-case "@" prefix, or
// any string that matches none of the grammar's forms.
var ErrInvalid = errors.New("nodeid: invalid input")

// ResolveNodeID implements spec.md §6's grammar against known, a map from
// AccountID to its configured alias (VALIDATOR_NAMES).
//
//   - ""           -> ErrInvalid
//   - "@XYZ..."    -> unique prefix match against the upper-case
//     string form of every key in known; ErrInvalid if XYZ contains
//     lower-case, ErrAmbiguous if more than one id matches, ErrNotFound
//     if none do.
//   - "$name"      -> exact, case-sensitive lookup of name against
//     known's values; ErrNotFound on no match.
//   - bare 56-char upper-case string -> accepted iff it decodes as a
//     syntactically valid node public key; the id need not appear in
//     known.
//   - anything else -> ErrInvalid.
func ResolveNodeID(input string, known map[asset.AccountID]string) (asset.AccountID, error) {
	var zero asset.AccountID

	if input == "" {
		return zero, ErrInvalid
	}

	switch input[0] {
	case '@':
		prefix := input[1:]
		if strings.ToUpper(prefix) != prefix {
			return zero, ErrInvalid
		}
		var match asset.AccountID
		count := 0
		for id := range known {
			if strings.HasPrefix(asset.EncodeNodePublicKey(id), prefix) {
				match = id
				count++
			}
		}
		switch count {
		case 0:
			return zero, ErrNotFound
		case 1:
			return match, nil
		default:
			return zero, ErrAmbiguous
		}

	case '$':
		name := input[1:]
		for id, alias := range known {
			if alias == name {
				return id, nil
			}
		}
		return zero, ErrNotFound

	default:
		if !asset.IsValidNodePublicKey(input) {
			return zero, ErrInvalid
		}
		id, err := asset.DecodeAccountID(input)
		if err != nil {
			return zero, ErrInvalid
		}
		return id, nil
	}
}
