package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"upscout/pkg/models"
)

// Columns is the fixed export column order. It matches the JSON field
// names of models.Listing so exported files and stored documents stay
// interchangeable.
var Columns = []string{
	"title",
	"clientSpent",
	"estimatedBudget",
	"paymentVerified",
	"techStack",
	"link",
	"jobDescription",
	"keyword",
	"matchesInDescription",
	"date",
	"proposal",
}

// Write emits the listings as CSV. The header row is written only when
// withHeader is set, so callers can append to an existing file.
func Write(w io.Writer, listings []models.Listing, withHeader bool) error {
	cw := csv.NewWriter(w)

	if withHeader {
		if err := cw.Write(Columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i := range listings {
		if err := cw.Write(row(&listings[i])); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// AppendFile appends the listings to the file at path, creating parent
// directories as needed. The header row is written only when the file
// is new or empty.
func AppendFile(path string, listings []models.Listing) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat export file: %w", err)
	}

	return Write(f, listings, info.Size() == 0)
}

// Read parses a previously exported CSV back into listings. A UTF-8
// BOM on the first header cell is stripped; files written by
// spreadsheet tools often carry one.
func Read(r io.Reader) ([]models.Listing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse export file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	listings := make([]models.Listing, 0, len(records)-1)
	for _, record := range records[1:] {
		listings = append(listings, fromRecord(index, record))
	}

	return listings, nil
}

func row(l *models.Listing) []string {
	return []string{
		l.Title,
		l.ClientSpent,
		l.EstimatedBudget,
		l.PaymentVerified,
		l.TechStack,
		l.Link,
		l.Description,
		l.Keyword,
		l.MatchesInDescription,
		l.CaptureDate,
		l.Proposal,
	}
}

func fromRecord(index map[string]int, record []string) models.Listing {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	return models.Listing{
		Title:                field("title"),
		ClientSpent:          field("clientSpent"),
		EstimatedBudget:      field("estimatedBudget"),
		PaymentVerified:      field("paymentVerified"),
		TechStack:            field("techStack"),
		Link:                 field("link"),
		Description:          field("jobDescription"),
		Keyword:              field("keyword"),
		MatchesInDescription: field("matchesInDescription"),
		CaptureDate:          field("date"),
		Proposal:             field("proposal"),
	}
}
