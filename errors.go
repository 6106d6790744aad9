package payments

import "fmt"

// ErrorKind enumerates every way a ledger operation can be rejected.
//
// An ErrorKind is itself an error so callers can test a returned error with
// errors.Is(err, payments.AccountFrozen) regardless of its payload.
type ErrorKind int

const (
	// UnknownTransaction: a dispute, resolve or chargeback names a transaction
	// the account does not own.
	UnknownTransaction ErrorKind = iota + 1
	// InvalidTransactionState: the transaction is not in the state required
	// by the operation.
	InvalidTransactionState
	// UnknownClient: a dispute-family operation names a client that never
	// deposited nor withdrew.
	UnknownClient
	// InvalidAmount: the amount is negative, missing or malformed.
	InvalidAmount
	// Overflow: an arithmetic step exceeds the Money range.
	Overflow
	// AccountFrozen: the account was charged back and accepts nothing else.
	AccountFrozen
	// DuplicateTransaction: the transaction id is already used by this account.
	DuplicateTransaction
	// InsufficientFunds: a withdrawal would make available funds negative.
	InsufficientFunds
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownTransaction:
		return "unknown transaction"
	case InvalidTransactionState:
		return "invalid transaction state"
	case UnknownClient:
		return "unknown client"
	case InvalidAmount:
		return "invalid amount"
	case Overflow:
		return "amount overflow"
	case AccountFrozen:
		return "account is frozen"
	case DuplicateTransaction:
		return "duplicate transaction"
	case InsufficientFunds:
		return "insufficient funds"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

func (k ErrorKind) Error() string { return k.String() }

// Error is the typed failure returned by the Processor. Only the fields
// relevant to Kind are set.
type Error struct {
	Kind   ErrorKind
	Client ClientID
	Tx     TransactionID

	// InvalidTransactionState
	Actual, Expected TransactionState

	// Overflow operands, or for InsufficientFunds the available balance and
	// the requested amount.
	Left, Right Money
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownTransaction:
		return fmt.Sprintf("client %d: unknown transaction %d", e.Client, e.Tx)
	case InvalidTransactionState:
		return fmt.Sprintf("client %d: transaction %d: invalid transaction state (expected %s, found %s)", e.Client, e.Tx, e.Expected, e.Actual)
	case UnknownClient:
		return fmt.Sprintf("unknown client %d", e.Client)
	case InvalidAmount:
		return fmt.Sprintf("client %d: transaction %d: invalid amount %s", e.Client, e.Tx, e.Right)
	case Overflow:
		return fmt.Sprintf("client %d: transaction %d: amount overflow with %s and %s", e.Client, e.Tx, e.Left, e.Right)
	case AccountFrozen:
		return fmt.Sprintf("client %d: account is frozen", e.Client)
	case DuplicateTransaction:
		return fmt.Sprintf("client %d: transaction %d already exists", e.Client, e.Tx)
	case InsufficientFunds:
		return fmt.Sprintf("client %d: transaction %d: insufficient funds (available %s, requested %s)", e.Client, e.Tx, e.Left, e.Right)
	default:
		return e.Kind.String()
	}
}

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error { return e.Kind }

func overflow(left, right Money) *Error {
	return &Error{Kind: Overflow, Left: left, Right: right}
}
