// Package importer ingests contact CSVs, mapping loosely-named columns onto
// the contact intake path. Rows whose phone number cannot be normalized are
// counted and skipped, never imported raw.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/maisondor/whatsapp-crm/internal/domain"
	"github.com/maisondor/whatsapp-crm/internal/service/contact"
)

// ContactCreator is the intake side of the contact service.
type ContactCreator interface {
	Create(ctx context.Context, input contact.CreateInput) (*domain.Contact, error)
}

// Summary reports what happened to each row of an import.
type Summary struct {
	Rows     int `json:"rows"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"` // no usable phone
	Failed   int `json:"failed"`  // storage errors
}

// Importer streams CSV files into the contact service.
type Importer struct {
	contacts ContactCreator
}

// New creates an importer writing through the given contact creator.
func New(contacts ContactCreator) *Importer {
	return &Importer{contacts: contacts}
}

// ImportCSV reads one CSV document. The first row must be a header; columns
// are matched by alias and unknown columns are ignored. A missing phone
// column is an error, anything row-level is tallied in the summary instead.
func (imp *Importer) ImportCSV(ctx context.Context, r io.Reader) (Summary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Summary{}, fmt.Errorf("read header: %w", err)
	}
	cols := mapHeader(header)
	if _, ok := cols[FieldPhone]; !ok {
		return Summary{}, fmt.Errorf("no phone column in header %v", header)
	}

	var sum Summary
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("read row %d: %w", sum.Rows+2, err)
		}
		sum.Rows++

		input := rowToInput(record, cols)
		if strings.TrimSpace(input.Phone) == "" {
			sum.Skipped++
			continue
		}

		_, err = imp.contacts.Create(ctx, input)
		switch {
		case err == nil:
			sum.Imported++
		case err == contact.ErrInvalidPhone:
			sum.Skipped++
		default:
			log.Printf("[importer] row %d: %v", sum.Rows+1, err)
			sum.Failed++
		}
	}
	return sum, nil
}

func rowToInput(record []string, cols map[CanonicalField]int) contact.CreateInput {
	cell := func(f CanonicalField) string {
		i, ok := cols[f]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	return contact.CreateInput{
		Phone:          cell(FieldPhone),
		FullName:       cell(FieldFullName),
		Tags:           parseTags(cell(FieldTags)),
		DOB:            cell(FieldDOB),
		TotalSpend:     parseSpend(cell(FieldTotalSpend)),
		LastPurchaseAt: cell(FieldLastPurchase),
		InterestType:   cell(FieldInterest),
		Source:         cell(FieldSource),
		OptedIn:        parseBool(cell(FieldOptedIn)),
	}
}

// parseTags splits a tag cell on the separators seen in exports: pipes,
// semicolons, or commas inside a quoted cell.
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == ';' || r == ','
	})
	var out []string
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// parseSpend strips currency symbols and thousands separators. Unparseable
// values become 0.
func parseSpend(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}
