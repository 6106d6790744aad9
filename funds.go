package payments

// Funds holds the two balances of one account.
//
// Either balance may be negative: disputes are never blocked for balance
// reasons. What Funds guarantees is that available+held always fits in Money.
type Funds struct {
	available Money // funds the client may withdraw
	held      Money // funds put on hold by open disputes
}

func (f Funds) Available() Money { return f.available }
func (f Funds) Held() Money      { return f.held }

// Total returns available+held.
//
// It cannot fail for Funds built through set, the error is only there so
// the sum is never computed unchecked.
func (f Funds) Total() (Money, error) {
	return f.available.Add(f.held)
}

// set commits both balances at once. Every balance mutation goes through it:
// the new pair is rejected whole when its total would overflow.
func (f *Funds) set(available, held Money) error {
	if _, err := available.Add(held); err != nil {
		return err
	}
	f.available = available
	f.held = held
	return nil
}
