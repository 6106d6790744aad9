package payments

import "fmt"

// AccountSummary is the reported state of one client account.
type AccountSummary struct {
	Client    ClientID
	Available Money
	Held      Money
	Total     Money
	Locked    bool
}

// Summarize projects an account into its summary row.
func Summarize(client ClientID, a *Account) (AccountSummary, error) {
	total, err := a.Total()
	if err != nil {
		return AccountSummary{}, fmt.Errorf("client %d: %w", client, err)
	}
	return AccountSummary{
		Client:    client,
		Available: a.Available(),
		Held:      a.Held(),
		Total:     total,
		Locked:    a.IsFrozen(),
	}, nil
}

// Summaries returns one row per account, by ascending client id.
func (p *Processor) Summaries() ([]AccountSummary, error) {
	rows := make([]AccountSummary, 0, p.Len())
	for client, account := range p.Accounts() {
		row, err := Summarize(client, account)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarshalJSON implements the json.Marshaler interface with a fixed key order.
func (s AccountSummary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("client", s.Client)
	w.Append("available", s.Available)
	w.Append("held", s.Held)
	w.Append("total", s.Total)
	w.Append("locked", s.Locked)
	return w.MarshalJSON()
}
