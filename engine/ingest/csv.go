package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AutoScopePT/autoscope-mvp/engine/domain"
)

// notAvailable is the dataset's sentinel for an unknown numeric value.
const notAvailable = "N/A"

// RawRow is one CSV row keyed by header name.
type RawRow map[string]string

// ParseCSV decodes a header-led CSV into raw rows. Short records are
// dropped; a missing header is a hard parse error since nothing downstream
// could be joined.
func ParseCSV(r io.Reader) ([]RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrParse, err)
	}

	var rows []RawRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if len(rec) < len(header) {
			continue
		}
		row := make(RawRow, len(header))
		for i, name := range header {
			row[name] = rec[i]
		}
		rows = append(rows, row)
	}
}

// Report counts what normalization did to the raw rows. Skipped rows are a
// tolerated data-quality issue, not an error: they are surfaced here and in
// the ingest metrics so nobody has to spelunk logs to notice them.
type Report struct {
	Rows            int `json:"rows"`
	Kept            int `json:"kept"`
	Skipped         int `json:"skipped"`
	UnparsedNumbers int `json:"unparsed_numbers"`
}

// Normalize turns raw rows into typed listings. Rows without a title are
// malformed stub rows and are skipped. "N/A" and unparseable numerics
// become the not-available sentinel, never zero.
func Normalize(rows []RawRow) ([]domain.Listing, Report) {
	rep := Report{Rows: len(rows)}
	var listings []domain.Listing
	for _, row := range rows {
		l := domain.Listing{
			Brand:     row["Brand"],
			City:      row["City"],
			Title:     row["Title"],
			GasType:   row["GasType"],
			GearBox:   row["GearBox"],
			Seller:    row["Seller"],
			Location:  row["Location"],
			Published: row["Published"],
		}
		l.Kilometer = parseNum(row["Kilometer"], &rep)
		l.Price = parseNum(row["Price"], &rep)
		l.EngineSize = parseNum(row["EngineSize"], &rep)
		l.Horsepower = parseNum(row["Horsepower"], &rep)
		l.Year = parseNum(row["Year"], &rep)

		if err := domain.ValidateListing(l); err != nil {
			rep.Skipped++
			continue
		}
		listings = append(listings, l)
		rep.Kept++
	}
	return listings, rep
}

func parseNum(s string, rep *Report) domain.Num {
	s = strings.TrimSpace(s)
	if s == "" || s == notAvailable {
		return domain.NA
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		rep.UnparsedNumbers++
		return domain.NA
	}
	return domain.N(v)
}
