package payments

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrDrift is wrapped by audit failures: live funds differ from the funds
// recomputed from the transaction history.
var ErrDrift = errors.New("funds drift from transaction history")

// Replay recomputes the account funds from its transaction history alone.
//
// Each transaction contributes its original movement, plus the effect of its
// dispute: an open dispute holds the amount, a resolved one nets to zero and
// a charged back one removes the amount from available for good.
//
// The sums are exact, so the order of the history cannot make an
// intermediate balance overflow. Only a final balance out of range fails.
func (a *Account) Replay() (Funds, error) {
	var available, held decimal.Decimal
	for t := range a.Transactions() {
		available = move(available, t.side, t.amount)
		switch {
		case t.state == InDispute:
			held = move(held, t.side, t.amount)
			available = move(available, t.side.Opposite(), t.amount)
		case t.state == DisputeHandled && t.resolution == ChargedBack:
			available = move(available, t.side.Opposite(), t.amount)
		}
	}

	av, err := fromDecimal(available)
	if err != nil {
		return Funds{}, fmt.Errorf("%w: replayed available %s %v", Overflow, available, err)
	}
	hd, err := fromDecimal(held)
	if err != nil {
		return Funds{}, fmt.Errorf("%w: replayed held %s %v", Overflow, held, err)
	}
	var f Funds
	if err := f.set(av, hd); err != nil {
		return Funds{}, fmt.Errorf("%w: replayed total of %s and %s", Overflow, av, hd)
	}
	return f, nil
}

// move is apply on exact decimals.
func move(x decimal.Decimal, side Side, y Money) decimal.Decimal {
	if side == SideDeposit {
		return x.Add(y.Decimal())
	}
	return x.Sub(y.Decimal())
}

// Audit replays every account and reports each one whose live funds differ
// from its history. It returns nil when the ledger is consistent.
func (p *Processor) Audit() error {
	var errs error
	for client, account := range p.Accounts() {
		replayed, err := account.Replay()
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("client %d: cannot replay history: %w", client, err))
			continue
		}
		if replayed != account.funds {
			errs = errors.Join(errs, fmt.Errorf("client %d: %w: live available=%s held=%s, replayed available=%s held=%s",
				client, ErrDrift,
				account.funds.available, account.funds.held,
				replayed.available, replayed.held))
		}
	}
	return errs
}
