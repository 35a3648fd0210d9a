package tidy

import (
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteCSV writes the table in long format.
// Columns: Run, Table, Row, Col, Value
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)

	header := []string{"Run", "Table", "Row", "Col", "Value"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, e := range t.Entries {
		record := []string{
			t.RunID,
			t.Name,
			e.Row,
			e.Col,
			fmt.Sprintf("%f", e.Value),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteText writes the table as aligned columns.
func WriteText(w io.Writer, t *Table) error {
	fmt.Fprintf(w, "=== %s (run %s) ===\n", t.Name, t.RunID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Row\tCol\tValue\t")
	for _, e := range t.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%.6f\t\n", e.Row, e.Col, e.Value)
	}
	return tw.Flush()
}
