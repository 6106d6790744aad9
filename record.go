package payments

import (
	"fmt"
	"strings"
)

// Kind is a typed string identifying a transaction record.
type Kind string

// Record kinds, as they appear in the type column of an input file.
const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindDispute    Kind = "dispute"
	KindResolve    Kind = "resolve"
	KindChargeback Kind = "chargeback"
)

// ParseKind parses a record type, ignoring case and surrounding blanks.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// HasAmount reports whether records of this kind carry an amount.
func (k Kind) HasAmount() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// Record is one decoded input line: the request handed to the Processor.
type Record struct {
	Kind   Kind
	Client ClientID
	Tx     TransactionID
	// Amount is only meaningful when Kind.HasAmount.
	Amount Money
	// HasAmount is false when the amount column was empty.
	HasAmount bool
}

// NewDeposit creates a deposit record.
func NewDeposit(client ClientID, tx TransactionID, amount Money) Record {
	return Record{Kind: KindDeposit, Client: client, Tx: tx, Amount: amount, HasAmount: true}
}

// NewWithdrawal creates a withdrawal record.
func NewWithdrawal(client ClientID, tx TransactionID, amount Money) Record {
	return Record{Kind: KindWithdrawal, Client: client, Tx: tx, Amount: amount, HasAmount: true}
}

// NewDispute creates a dispute record.
func NewDispute(client ClientID, tx TransactionID) Record {
	return Record{Kind: KindDispute, Client: client, Tx: tx}
}

// NewResolve creates a resolve record.
func NewResolve(client ClientID, tx TransactionID) Record {
	return Record{Kind: KindResolve, Client: client, Tx: tx}
}

// NewChargeback creates a chargeback record.
func NewChargeback(client ClientID, tx TransactionID) Record {
	return Record{Kind: KindChargeback, Client: client, Tx: tx}
}

func (r Record) String() string {
	if r.HasAmount {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", r.Kind, r.Client, r.Tx, r.Amount)
	}
	return fmt.Sprintf("%s client=%d tx=%d", r.Kind, r.Client, r.Tx)
}

// Apply hands r to the matching Processor operation.
func (p *Processor) Apply(r Record) error {
	switch r.Kind {
	case KindDeposit, KindWithdrawal:
		if !r.HasAmount {
			return &Error{Kind: InvalidAmount, Client: r.Client, Tx: r.Tx}
		}
		if r.Kind == KindDeposit {
			return p.ProcessDeposit(r.Client, r.Tx, r.Amount)
		}
		return p.ProcessWithdrawal(r.Client, r.Tx, r.Amount)
	case KindDispute:
		return p.ProcessDispute(r.Client, r.Tx)
	case KindResolve:
		return p.ProcessResolve(r.Client, r.Tx)
	case KindChargeback:
		return p.ProcessChargeback(r.Client, r.Tx)
	default:
		return fmt.Errorf("unsupported transaction type %q", r.Kind)
	}
}
