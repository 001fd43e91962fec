// Package dataprocessing ingests raw sales exports and normalizes them into
// the canonical sales table consumed by the metrics, report and dashboard
// packages.
//
// # Ingestion
//
// A source is tried against an ordered list of format profiles. Each profile
// fixes a field delimiter, a decimal separator and a text encoding:
//
//	comma-utf8        ,  .  UTF-8 (BOM tolerated)
//	semicolon-latin1  ;  ,  ISO-8859-1
//
// The first profile that decodes and parses the source wins. When every
// profile fails, Load returns an error of type SOURCE_UNREADABLE wrapping the
// last failure.
//
// Headers are reconciled through ordered rename rules (for example the
// historical "Costumer type" spelling) and anonymous index columns such as
// "Unnamed: 0" are dropped.
//
// # Trimming
//
// Rows with an unparsable date, or with a missing or non-numeric Total,
// Gross income, Quantity or Rating, are dropped and counted in LoadStats.
// Missing dimensions (city, product line, payment) never drop a row.
//
// # Usage
//
//	table, err := dataprocessing.LoadFile(ctx, "relatorio_vendas.csv",
//	    dataprocessing.WithLogger(logger),
//	    dataprocessing.WithRecorder(metrics))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(table.Len(), table.Months())
//
// The returned Table is ordered by date and never mutated; Where and Clone
// return independent tables.
package dataprocessing
