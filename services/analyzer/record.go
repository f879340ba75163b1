package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"asnatlas/lib/scrapers/bgphe"
	"asnatlas/lib/scrapers/website"
)

// Record is one batch entry: either a scraped result (BGPInfo set, Error
// empty) or an error record (Error set). Records are immutable once
// assembled and never updated in place.
type Record struct {
	ASN         string               `json:"asn"`
	BGPInfo     *bgphe.RoutingInfo   `json:"bgp_info,omitempty"`
	CompanyInfo *website.CompanyInfo `json:"company_info,omitempty"`
	Error       string               `json:"error,omitempty"`
	ScrapedAt   time.Time            `json:"scraped_at"`
}

func errorRecord(asn string, err error) Record {
	return Record{
		ASN:       asn,
		Error:     err.Error(),
		ScrapedAt: time.Now(),
	}
}

// WriteReport serializes the batch to path as an indented JSON array,
// UTF-8 with non-ASCII left unescaped. The report is the batch's primary
// deliverable, so a write failure here is the caller's fatal error.
func WriteReport(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
