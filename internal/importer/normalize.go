package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/partsbridge/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// Recognized column names. Matching is exact and case-sensitive after the
// header row has been trimmed; every other column feeds the specifications
// bag.
const (
	colSource        = "Source"
	colMainCategory  = "Main Category"
	colCategory      = "Category"
	colSubCategory   = "Sub-category"
	colName          = "Product Name/Part No."
	colDatasheetLink = "Datasheet Link (PDF)"
	colDescription   = "Description"
	colCPN           = "CPN"
	colManufacturer  = "Manufacturer"
	colMfrPartNumber = "Mfr Part #"
	colStockQty      = "Stock Qty"
	colSPQ           = "SPQ"
	colMOQ           = "MOQ"
	colLTWks         = "LTWKS"
	colRemarks       = "Remarks"
)

var standardColumns = map[string]struct{}{
	colSource:        {},
	colMainCategory:  {},
	colCategory:      {},
	colSubCategory:   {},
	colName:          {},
	colDatasheetLink: {},
	colDescription:   {},
	colCPN:           {},
	colManufacturer:  {},
	colMfrPartNumber: {},
	colStockQty:      {},
	colSPQ:           {},
	colMOQ:           {},
	colLTWks:         {},
	colRemarks:       {},
}

// parseResult carries everything one pass over the file produces: the
// normalized drafts plus the category-triple and name sets that drive the
// resolution and index phases.
type parseResult struct {
	Drafts       []domain.ProductDraft
	CategoryKeys map[domain.CategoryKey]struct{}
	Names        map[string]struct{}
	ParsedRows   int
	DroppedRows  int
}

// parseFile streams the CSV, normalizing each record into a draft.
// Malformed rows are logged and skipped; rows without a main category or
// category are rejected. Only stream-level failures are returned.
func parseFile(r io.Reader) (*parseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	res := &parseResult{
		CategoryKeys: make(map[domain.CategoryKey]struct{}),
		Names:        make(map[string]struct{}),
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warn().Err(err).Int("line", parseErr.Line).Msg("skipping malformed row")
				continue
			}
			return nil, err
		}

		res.ParsedRows++

		draft := normalizeRow(header, record)
		if draft.CategoryKey.MainCategory == domain.Placeholder ||
			draft.CategoryKey.Category == domain.Placeholder {
			res.DroppedRows++
			continue
		}

		res.CategoryKeys[draft.CategoryKey] = struct{}{}
		res.Drafts = append(res.Drafts, draft)
		if draft.Name != "" && draft.Name != domain.Placeholder {
			res.Names[draft.Name] = struct{}{}
		}
	}

	return res, nil
}

// normalizeRow turns one raw record into a canonical product draft: standard
// columns map onto fixed fields with their field-specific defaults, every
// other non-empty column lands in the specifications bag.
func normalizeRow(header, record []string) domain.ProductDraft {
	value := func(i int) string {
		if i < len(record) {
			return record[i]
		}
		return ""
	}

	byName := make(map[string]string, len(header))
	var specs domain.SpecMap
	for i, col := range header {
		if _, ok := standardColumns[col]; ok {
			byName[col] = value(i)
			continue
		}
		if trimmed := strings.TrimSpace(value(i)); trimmed != "" {
			if specs == nil {
				specs = make(domain.SpecMap)
			}
			specs[col] = trimmed
		}
	}

	sub := ""
	if s := domain.TrimOrNil(byName[colSubCategory]); s != nil {
		sub = *s
	}

	return domain.ProductDraft{
		Source:         domain.TrimOrNil(byName[colSource]),
		Name:           domain.TrimOrPlaceholder(byName[colName]),
		CPN:            domain.TrimOrPlaceholder(byName[colCPN]),
		Manufacturer:   domain.TrimOrPlaceholder(byName[colManufacturer]),
		MfrPartNumber:  domain.TrimOrPlaceholder(byName[colMfrPartNumber]),
		StockQty:       domain.ParseIntOrNil(byName[colStockQty]),
		SPQ:            domain.ParseIntOrNil(byName[colSPQ]),
		MOQ:            domain.ParseIntOrNil(byName[colMOQ]),
		LTWks:          domain.TrimOrPlaceholder(byName[colLTWks]),
		Remarks:        domain.TrimOrPlaceholder(byName[colRemarks]),
		DatasheetLink:  domain.TrimOrNil(byName[colDatasheetLink]),
		Description:    domain.TrimOrNil(byName[colDescription]),
		Specifications: specs,
		CategoryKey: domain.CategoryKey{
			MainCategory: domain.TrimOrPlaceholder(byName[colMainCategory]),
			Category:     domain.TrimOrPlaceholder(byName[colCategory]),
			SubCategory:  sub,
		},
	}
}
