package txpool

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrorKind enumerates the taxonomy of admission failures (spec §7).
type ErrorKind uint8

const (
	// AlreadyImported: a transaction with this hash is already known.
	AlreadyImported ErrorKind = iota
	// InvalidTransaction: the validator rejected it, or AllTransactions
	// detected a structural violation.
	InvalidTransaction
	// ReplacementUnderpriced: a same-slot replacement did not strictly
	// exceed the incumbent's cost.
	ReplacementUnderpriced
	// ImportError: the validator reported a transient failure.
	ImportError
)

func (k ErrorKind) String() string {
	switch k {
	case AlreadyImported:
		return "already imported"
	case InvalidTransaction:
		return "invalid transaction"
	case ReplacementUnderpriced:
		return "replacement underpriced"
	case ImportError:
		return "import error"
	default:
		return "unknown"
	}
}

// sentinel errors so callers can errors.Is against a kind without reaching
// into Error's fields, the idiom the pack's other txpool implementations
// use (e.g. core.ErrTxTypeNotSupported in luxfi/evm) instead of a bare enum.
var (
	ErrAlreadyImported        = errors.New("already imported")
	ErrInvalidTransaction     = errors.New("invalid transaction")
	ErrReplacementUnderpriced = errors.New("replacement transaction underpriced")
	ErrImportError            = errors.New("transaction import error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case AlreadyImported:
		return ErrAlreadyImported
	case ReplacementUnderpriced:
		return ErrReplacementUnderpriced
	case ImportError:
		return ErrImportError
	default:
		return ErrInvalidTransaction
	}
}

// Error correlates an admission failure with the submission that caused it.
// Cause holds the underlying validator error for a Kind == ImportError
// instance; it is nil for every other kind.
type Error struct {
	Hash  common.Hash
	Kind  ErrorKind
	Cause error
}

// NewError constructs a PoolError for hash/kind.
func NewError(hash common.Hash, kind ErrorKind) *Error {
	return &Error{Hash: hash, Kind: kind}
}

// NewImportError constructs an ImportError PoolError wrapping the
// validator's transient failure (spec §4.7/§7).
func NewImportError(hash common.Hash, cause error) *Error {
	return &Error{Hash: hash, Kind: ImportError, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pool: %s: %s: %v", e.Kind, e.Hash, e.Cause)
	}
	return fmt.Sprintf("pool: %s: %s", e.Kind, e.Hash)
}

// Unwrap lets callers use errors.Is(err, txpool.ErrReplacementUnderpriced) or
// errors.Is(err, txpool.ErrImportError), and — for ImportError — reach the
// original validator error via errors.Is/errors.As against Cause as well.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind.sentinel(), e.Cause}
	}
	return []error{e.Kind.sentinel()}
}
