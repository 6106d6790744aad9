package payments

import (
	"fmt"
	"iter"
)

// ClientID identifies a client account.
type ClientID uint16

// TransactionID identifies a deposit or withdrawal within one account.
type TransactionID uint32

// Side tells whether a transaction moved money into or out of the account.
type Side int

const (
	SideDeposit Side = iota
	SideWithdrawal
)

// Opposite returns the side that undoes s.
func (s Side) Opposite() Side {
	if s == SideDeposit {
		return SideWithdrawal
	}
	return SideDeposit
}

func (s Side) String() string {
	switch s {
	case SideDeposit:
		return "deposit"
	case SideWithdrawal:
		return "withdrawal"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// apply moves y into x according to side: x+y for a deposit, x-y for a
// withdrawal. Every balance change of the ledger, original or dispute
// related, is expressed through it.
func apply(x Money, side Side, y Money) (Money, error) {
	if side == SideDeposit {
		return x.Add(y)
	}
	return x.Sub(y)
}

// TransactionState is the dispute state of a transaction.
//
//	Processed --dispute--> InDispute --resolve|chargeback--> DisputeHandled
type TransactionState int

const (
	// Processed: the transaction was applied and never disputed.
	Processed TransactionState = iota
	// InDispute: the client contests the transaction, its amount is held.
	InDispute
	// DisputeHandled: the dispute was resolved or charged back. Terminal.
	DisputeHandled
)

func (s TransactionState) String() string {
	switch s {
	case Processed:
		return "processed"
	case InDispute:
		return "in dispute"
	case DisputeHandled:
		return "dispute handled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Resolution records how a handled dispute ended.
type Resolution int

const (
	Unresolved Resolution = iota
	Resolved
	ChargedBack
)

func (r Resolution) String() string {
	switch r {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case ChargedBack:
		return "charged back"
	default:
		return fmt.Sprintf("resolution(%d)", int(r))
	}
}

// Transaction is a deposit or withdrawal recorded by an account.
// Its amount and side never change, only its dispute state moves forward.
type Transaction struct {
	id         TransactionID
	amount     Money
	side       Side
	state      TransactionState
	resolution Resolution
}

func (t Transaction) ID() TransactionID       { return t.id }
func (t Transaction) Amount() Money           { return t.amount }
func (t Transaction) Side() Side              { return t.side }
func (t Transaction) State() TransactionState { return t.state }
func (t Transaction) Resolution() Resolution  { return t.resolution }

// Account is the latest state of one client: its funds, its frozen flag and
// the transactions it owns.
type Account struct {
	funds  Funds
	frozen bool
	txs    map[TransactionID]Transaction
	order  []TransactionID // ids in the order they were applied
}

func newAccount() *Account {
	return &Account{txs: make(map[TransactionID]Transaction)}
}

func (a *Account) Funds() Funds     { return a.funds }
func (a *Account) Available() Money { return a.funds.available }
func (a *Account) Held() Money      { return a.funds.held }
func (a *Account) IsFrozen() bool   { return a.frozen }

// Total returns available+held.
func (a *Account) Total() (Money, error) { return a.funds.Total() }

// Transaction returns the transaction id owned by this account.
func (a *Account) Transaction(id TransactionID) (Transaction, bool) {
	tx, ok := a.txs[id]
	return tx, ok
}

// Transactions yields the account transactions in the order they were
// applied.
func (a *Account) Transactions() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, id := range a.order {
			if !yield(a.txs[id]) {
				return
			}
		}
	}
}
