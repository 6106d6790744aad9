package payments

import (
	"iter"
	"maps"
	"slices"
)

// Processor processes transactions and owns every client account.
//
// It is the only mutator of accounts and transactions. It is meant for a
// single caller applying records in input order: it does no locking.
//
// Every operation either applies completely or returns an *Error and leaves
// the ledger exactly as it was. The Processor never logs nor panics.
type Processor struct {
	accounts map[ClientID]*Account
}

// NewProcessor creates an empty ledger.
func NewProcessor() *Processor {
	return &Processor{accounts: make(map[ClientID]*Account)}
}

// ProcessDeposit credits amount to the client available funds as
// transaction tx.
//
// It fails if amount is negative, if the account is frozen or if tx is
// already used by this account. A deposit is accepted even when available
// funds are negative, it is how an account recovers.
func (p *Processor) ProcessDeposit(client ClientID, tx TransactionID, amount Money) error {
	return p.processTx(client, Transaction{id: tx, amount: amount, side: SideDeposit})
}

// ProcessWithdrawal debits amount from the client available funds as
// transaction tx.
//
// It fails if amount is negative, if the account is frozen, if tx is already
// used by this account, or if available funds would become negative.
func (p *Processor) ProcessWithdrawal(client ClientID, tx TransactionID, amount Money) error {
	return p.processTx(client, Transaction{id: tx, amount: amount, side: SideWithdrawal})
}

// ProcessDispute puts transaction tx of client in dispute: its amount moves
// from available to held.
//
// For a disputed withdrawal the movement is reversed (available is credited,
// held debited). Either balance may go negative.
func (p *Processor) ProcessDispute(client ClientID, tx TransactionID) error {
	account, t, err := p.disputable(client, tx, Processed)
	if err != nil {
		return err
	}

	held, err := apply(account.funds.held, t.side, t.amount)
	if err != nil {
		return ref(err, client, tx)
	}
	available, err := apply(account.funds.available, t.side.Opposite(), t.amount)
	if err != nil {
		return ref(err, client, tx)
	}
	if err := account.funds.set(available, held); err != nil {
		return ref(err, client, tx)
	}
	t.state = InDispute
	account.txs[tx] = t
	return nil
}

// ProcessResolve closes the dispute on transaction tx in favor of the
// original transaction: the held amount goes back to available.
func (p *Processor) ProcessResolve(client ClientID, tx TransactionID) error {
	account, t, err := p.disputable(client, tx, InDispute)
	if err != nil {
		return err
	}

	held, err := apply(account.funds.held, t.side.Opposite(), t.amount)
	if err != nil {
		return ref(err, client, tx)
	}
	available, err := apply(account.funds.available, t.side, t.amount)
	if err != nil {
		return ref(err, client, tx)
	}
	if err := account.funds.set(available, held); err != nil {
		return ref(err, client, tx)
	}
	t.state = DisputeHandled
	t.resolution = Resolved
	account.txs[tx] = t
	return nil
}

// ProcessChargeback closes the dispute on transaction tx by reversing it: the
// held amount is removed and the account is frozen for good.
func (p *Processor) ProcessChargeback(client ClientID, tx TransactionID) error {
	account, t, err := p.disputable(client, tx, InDispute)
	if err != nil {
		return err
	}

	held, err := apply(account.funds.held, t.side.Opposite(), t.amount)
	if err != nil {
		return ref(err, client, tx)
	}
	if err := account.funds.set(account.funds.available, held); err != nil {
		return ref(err, client, tx)
	}
	account.frozen = true
	t.state = DisputeHandled
	t.resolution = ChargedBack
	account.txs[tx] = t
	return nil
}

// Account returns the account of client, if it was ever created.
//
// The returned account must be treated as read-only.
func (p *Processor) Account(client ClientID) (*Account, bool) {
	a, ok := p.accounts[client]
	return a, ok
}

// Accounts yields every account by ascending client id.
// The yielded accounts must be treated as read-only.
func (p *Processor) Accounts() iter.Seq2[ClientID, *Account] {
	return func(yield func(ClientID, *Account) bool) {
		for _, id := range slices.Sorted(maps.Keys(p.accounts)) {
			if !yield(id, p.accounts[id]) {
				return
			}
		}
	}
}

// Len returns the number of accounts.
func (p *Processor) Len() int { return len(p.accounts) }

// processTx applies a deposit or a withdrawal.
func (p *Processor) processTx(client ClientID, t Transaction) error {
	if t.amount.IsNegative() {
		return &Error{Kind: InvalidAmount, Client: client, Tx: t.id, Right: t.amount}
	}

	account, err := p.getOrCreateAccount(client)
	if err != nil {
		return err
	}
	if _, exists := account.txs[t.id]; exists {
		return &Error{Kind: DuplicateTransaction, Client: client, Tx: t.id}
	}

	available, err := apply(account.funds.available, t.side, t.amount)
	if err != nil {
		return ref(err, client, t.id)
	}
	// Only withdrawals are bounded, a deposit may leave the balance negative.
	if t.side == SideWithdrawal && available.IsNegative() {
		return &Error{Kind: InsufficientFunds, Client: client, Tx: t.id, Left: account.funds.available, Right: t.amount}
	}
	if err := account.funds.set(available, account.funds.held); err != nil {
		return ref(err, client, t.id)
	}

	t.state = Processed
	account.txs[t.id] = t
	account.order = append(account.order, t.id)
	return nil
}

// disputable returns the account and transaction targeted by a dispute,
// resolve or chargeback, checked to be in the expected state.
func (p *Processor) disputable(client ClientID, tx TransactionID, expected TransactionState) (*Account, Transaction, error) {
	account, err := p.getAccount(client)
	if err != nil {
		return nil, Transaction{}, err
	}
	t, ok := account.txs[tx]
	if !ok {
		return nil, Transaction{}, &Error{Kind: UnknownTransaction, Client: client, Tx: tx}
	}
	if t.state != expected {
		return nil, Transaction{}, &Error{Kind: InvalidTransactionState, Client: client, Tx: tx, Actual: t.state, Expected: expected}
	}
	return account, t, nil
}

// getOrCreateAccount returns the client account, creating it on first
// reference. A frozen account is an error.
func (p *Processor) getOrCreateAccount(client ClientID) (*Account, error) {
	account, ok := p.accounts[client]
	if !ok {
		account = newAccount()
		p.accounts[client] = account
	}
	if account.frozen {
		return nil, &Error{Kind: AccountFrozen, Client: client}
	}
	return account, nil
}

// getAccount returns an existing, non frozen client account.
func (p *Processor) getAccount(client ClientID) (*Account, error) {
	account, ok := p.accounts[client]
	if !ok {
		return nil, &Error{Kind: UnknownClient, Client: client}
	}
	if account.frozen {
		return nil, &Error{Kind: AccountFrozen, Client: client}
	}
	return account, nil
}

// ref attaches the client and transaction to an arithmetic error.
func ref(err error, client ClientID, tx TransactionID) error {
	if e, ok := err.(*Error); ok {
		e.Client, e.Tx = client, tx
	}
	return err
}
