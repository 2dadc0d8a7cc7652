package zonewire

import "fmt"

// ErrorKind is the closed enumeration of validation error codes from
// spec.md section 4.2. Validators never short-circuit sibling checks; a
// rejected command carries every ErrorCode its independent checks produced.
type ErrorKind uint8

const (
	ErrTagLengthExceeded ErrorKind = iota + 1
	ErrMetadataLengthExceeded
	ErrNoPublicKeys
	ErrInvalidPublicKey
	ErrInvalidPublicKeyType
	ErrInvalidPublicKeyLength
	ErrNoMemberIds
	ErrMemberDoesNotExist
	ErrAccountDoesNotExist
	ErrMemberKeyMismatch
	ErrAccountOwnerMismatch
	ErrSourceAccountDoesNotExist
	ErrDestinationAccountDoesNotExist
	ErrReflexiveTransaction
	ErrNegativeTransactionValue
	ErrInsufficientBalance
	ErrZoneDoesNotExist
)

var errorKindNames = map[ErrorKind]string{
	ErrTagLengthExceeded:              "TagLengthExceeded",
	ErrMetadataLengthExceeded:         "MetadataLengthExceeded",
	ErrNoPublicKeys:                   "NoPublicKeys",
	ErrInvalidPublicKey:               "InvalidPublicKey",
	ErrInvalidPublicKeyType:           "InvalidPublicKeyType",
	ErrInvalidPublicKeyLength:         "InvalidPublicKeyLength",
	ErrNoMemberIds:                    "NoMemberIds",
	ErrMemberDoesNotExist:             "MemberDoesNotExist",
	ErrAccountDoesNotExist:            "AccountDoesNotExist",
	ErrMemberKeyMismatch:              "MemberKeyMismatch",
	ErrAccountOwnerMismatch:           "AccountOwnerMismatch",
	ErrSourceAccountDoesNotExist:      "SourceAccountDoesNotExist",
	ErrDestinationAccountDoesNotExist: "DestinationAccountDoesNotExist",
	ErrReflexiveTransaction:           "ReflexiveTransaction",
	ErrNegativeTransactionValue:       "NegativeTransactionValue",
	ErrInsufficientBalance:            "InsufficientBalance",
	ErrZoneDoesNotExist:               "ZoneDoesNotExist",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("UnknownErrorKind(%d)", uint8(k))
}

// ErrorCode is a single validation failure. RefID carries the
// MemberDoesNotExist/AccountDoesNotExist subject id where applicable; it is
// empty for error kinds that don't reference a specific id.
type ErrorCode struct {
	Kind  ErrorKind
	RefID string
}

func (e ErrorCode) String() string {
	if e.RefID == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s[%s]", e.Kind, e.RefID)
}

// Err builds a plain ErrorCode with no reference id.
func Err(kind ErrorKind) ErrorCode { return ErrorCode{Kind: kind} }

// ErrRef builds an ErrorCode referencing a specific member/account id.
func ErrRef(kind ErrorKind, id string) ErrorCode {
	return ErrorCode{Kind: kind, RefID: id}
}

// ErrorList is an accumulated, non-empty-when-failing list of ErrorCodes.
// Combine concatenates two lists — the applicative-validation "both sides
// accumulate" rule from spec.md section 9.
type ErrorList []ErrorCode

func (l ErrorList) Combine(other ErrorList) ErrorList {
	if len(other) == 0 {
		return l
	}
	return append(l, other...)
}

// Ok reports whether the list is empty (no validation failures).
func (l ErrorList) Ok() bool { return len(l) == 0 }
