package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/payments"
)

// writeQuery writes the result of the JSONPath query path evaluated on the
// JSON form of rows.
func writeQuery(w io.Writer, rows []payments.AccountSummary, path string) error {
	if rows == nil {
		rows = []payments.AccountSummary{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	result, err := jsonpath.Get(path, doc)
	if err != nil {
		return fmt.Errorf("invalid query %q: %w", path, err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
