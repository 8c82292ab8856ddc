// backend-go/internal/domain/models.go
package domain

import "time"

// Placeholder is the literal stored for absent textual identifier fields.
const Placeholder = "-"

// Category represents one (mainCategory, category, subCategory) triple.
// The triple is unique in storage; subCategory may be null.
type Category struct {
	ID           int64     `json:"id" db:"id"`
	MainCategory string    `json:"mainCategory" db:"main_category"`
	Category     string    `json:"category" db:"category"`
	SubCategory  *string   `json:"subCategory" db:"sub_category"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryKey is the lookup identity for a Category. An empty SubCategory
// means null; the normalizer never emits a non-null empty sub-category.
type CategoryKey struct {
	MainCategory string
	Category     string
	SubCategory  string
}

// Product is a persisted catalog product.
type Product struct {
	ID             string    `json:"id" db:"id"`
	CPN            string    `json:"cpn" db:"cpn"`
	Source         *string   `json:"source" db:"source"`
	Name           string    `json:"name" db:"name"`
	DatasheetLink  *string   `json:"datasheetLink" db:"datasheet_link"`
	Description    *string   `json:"description" db:"description"`
	Manufacturer   string    `json:"manufacturer" db:"manufacturer"`
	MfrPartNumber  string    `json:"mfrPartNumber" db:"mfr_part_number"`
	StockQty       *int      `json:"stockQty" db:"stock_qty"`
	SPQ            *int      `json:"spq" db:"spq"`
	MOQ            *int      `json:"moq" db:"moq"`
	LTWks          string    `json:"ltwks" db:"ltwks"`
	Remarks        string    `json:"remarks" db:"remarks"`
	Specifications SpecMap   `json:"specifications" db:"specifications"`
	CategoryID     int64     `json:"categoryId" db:"category_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ExistingProduct is the projection of a persisted product fetched for
// reconciliation. Read-only; updates go through the batch writer by id.
type ExistingProduct struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	Specifications SpecMap `db:"specifications"`
}

// ProductDraft is a normalized, not-yet-persisted candidate product built
// from one input row. CategoryKey drives resolution and is discarded before
// the draft is written; CategoryID is filled in once the key resolves.
type ProductDraft struct {
	Source         *string
	Name           string
	CPN            string
	Manufacturer   string
	MfrPartNumber  string
	StockQty       *int
	SPQ            *int
	MOQ            *int
	LTWks          string
	Remarks        string
	DatasheetLink  *string
	Description    *string
	Specifications SpecMap
	CategoryKey    CategoryKey
	CategoryID     int64
}

// BatchError identifies one failed write batch by operation and the
// half-open range of records it covered.
type BatchError struct {
	Op    string `json:"op"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Err   string `json:"error"`
}

// ImportSummary is the outcome of one import run. Created/Updated are the
// storage-confirmed counts; a mismatch against ParsedRows-DroppedRows plus
// BatchErrors is the only trace a partial failure leaves.
type ImportSummary struct {
	ParsedRows   int          `json:"parsedRows"`
	DroppedRows  int          `json:"droppedRows"`
	CreatedCount int          `json:"createdCount"`
	UpdatedCount int          `json:"updatedCount"`
	Degraded     bool         `json:"degraded,omitempty"`
	BatchErrors  []BatchError `json:"batchErrors,omitempty"`
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}
