// Package payments implements a ledger of client accounts driven by a stream
// of transaction records: deposits, withdrawals, and the disputes raised
// against them.
//
// The core is the Processor. It keeps, for each client, the funds available
// for withdrawal, the funds held by open disputes and a frozen flag, and it
// runs the dispute state machine of every transaction:
//
//	Processed --dispute--> InDispute --resolve-->    DisputeHandled
//	                                 --chargeback--> DisputeHandled (account frozen)
//
// Amounts are Money values with exactly four fractional digits and checked
// arithmetic. Every rejected operation returns an *Error whose Kind can be
// tested with errors.Is, and leaves the ledger untouched.
//
// Around the core, the package provides the boundary codecs (CSV and JSONL
// records in, CSV or JSON account summaries out), an Ingester that applies a
// record stream while logging bad records, and an audit that recomputes
// every account from its transaction history.
//
// This package is the foundation of the `txp` command line tool.
package payments
