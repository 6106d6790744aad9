package renderer

import (
	"errors"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/etnz/payments"
)

// ledgerCurrency formats ledger amounts: no symbol, four fractional digits
// and a thousands separator.
var ledgerCurrency = money.AddCurrency("TXP", "", "1", ".", ",", 4)

// Report is the view model of the account report.
type Report struct {
	Stats      Stats
	Accounts   []Account
	Rejections []Rejection
}

// Stats counts the records of the processed stream.
type Stats struct {
	Records   int
	Applied   int
	Rejected  int
	Malformed int
}

// Account is one row of the accounts table, amounts already formatted.
type Account struct {
	Client    string
	Available string
	Held      string
	Total     string
	Locked    bool
}

// Rejection is a record refused by the ledger and the reason why.
type Rejection struct {
	Record string
	Reason string
}

// NewReport builds the report of a processed stream.
func NewReport(rows []payments.AccountSummary, stats payments.IngestStats) *Report {
	r := &Report{
		Stats: Stats{
			Records:   stats.Records(),
			Applied:   stats.Applied,
			Rejected:  stats.Rejected,
			Malformed: stats.Malformed,
		},
	}
	for _, row := range rows {
		r.Accounts = append(r.Accounts, Account{
			Client:    strconv.FormatUint(uint64(row.Client), 10),
			Available: FormatAmount(row.Available),
			Held:      FormatAmount(row.Held),
			Total:     FormatAmount(row.Total),
			Locked:    row.Locked,
		})
	}
	return r
}

// AddRejection appends a refused record to the report.
func (r *Report) AddRejection(rec payments.Record, err error) {
	reason := err.Error()
	var lerr *payments.Error
	if errors.As(err, &lerr) {
		reason = lerr.Kind.String()
	}
	r.Rejections = append(r.Rejections, Rejection{Record: rec.String(), Reason: reason})
}

// FormatAmount formats m for display, e.g. "-1,234.5000".
func FormatAmount(m payments.Money) string {
	return money.New(m.Units(), ledgerCurrency.Code).Display()
}
