package asset

// Type discriminates the two Asset variants.
type Type int

const (
	// TypeNative is the ledger's native currency; it has no issuer.
	TypeNative Type = iota
	// TypeIssued is an asset issued by an account, identified by a
	// 4- or 12-character alphanumeric code.
	TypeIssued
)

// Asset is a tagged value: either native, or issued by an account under
// a short alphanumeric code.
type Asset struct {
	Type   Type
	Issuer AccountID
	Code   string
}

// Native constructs the native asset.
func Native() Asset {
	return Asset{Type: TypeNative}
}

// Issued constructs an issued asset.
func Issued(issuer AccountID, code string) Asset {
	return Asset{Type: TypeIssued, Issuer: issuer, Code: code}
}

// Equals reports whether two assets have the same variant and payload.
func (a Asset) Equals(other Asset) bool {
	if a.Type != other.Type {
		return false
	}
	if a.Type == TypeNative {
		return true
	}
	return a.Issuer == other.Issuer && a.Code == other.Code
}

// IsNative reports whether a is the native asset.
func (a Asset) IsNative() bool {
	return a.Type == TypeNative
}

// WellFormed reports whether a is a syntactically valid asset: native,
// or issued with a 4- or 12-character alphanumeric code and a non-zero
// issuer.
func (a Asset) WellFormed() bool {
	if a.Type == TypeNative {
		return true
	}
	if a.Type != TypeIssued {
		return false
	}
	if len(a.Code) != 4 && len(a.Code) != 12 {
		return false
	}
	for _, r := range a.Code {
		if !isAlphanumeric(r) {
			return false
		}
	}
	return a.Issuer != (AccountID{})
}

func isAlphanumeric(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 'a' && r <= 'z':
		return true
	default:
		return false
	}
}
