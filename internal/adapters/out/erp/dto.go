package erp

import (
	"strings"
	"time"

	"ordertracking/internal/core/domain/model/sales"
)

var settlementDateLayouts = []string{time.DateOnly, time.RFC3339, "2006-01-02T15:04:05"}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type lotResponse struct {
	// Lot is the progress descriptor, e.g. "lot obtained: 3/21. total comprobantes: 20989".
	Lot   string    `json:"lot"`
	Sales []saleDTO `json:"sales"`
}

type saleDTO struct {
	CompanyID      int    `json:"companyId"`
	CompanyName    string `json:"companyName"`
	Voided         bool   `json:"voided"`
	WarehouseID    int    `json:"warehouseId"`
	BranchID       int    `json:"branchId"`
	Manifest       string `json:"manifest"`
	CarrierID      int64  `json:"carrierId"`
	CarrierName    string `json:"carrierName"`
	SettlementID   int64  `json:"settlementId"`
	SettlementDate string `json:"settlementDate"`
}

// toDomain returns the lot and the number of settlement dates that could not
// be parsed. Such records are kept without settlement data.
func (r lotResponse) toDomain() (sales.Lot, int) {
	records := make([]sales.Record, 0, len(r.Sales))
	unparsed := 0
	for _, s := range r.Sales {
		record := sales.Record{
			CompanyID:    s.CompanyID,
			CompanyName:  s.CompanyName,
			Voided:       s.Voided,
			WarehouseID:  s.WarehouseID,
			BranchID:     s.BranchID,
			Manifest:     s.Manifest,
			CarrierID:    s.CarrierID,
			CarrierName:  strings.TrimSpace(s.CarrierName),
			SettlementID: s.SettlementID,
		}
		if raw := strings.TrimSpace(s.SettlementDate); raw != "" {
			if at, ok := parseSettlementDate(raw); ok {
				record.SettlementDate = &at
			} else {
				unparsed++
			}
		}
		records = append(records, record)
	}
	return sales.Lot{Records: records, Descriptor: r.Lot}, unparsed
}

func parseSettlementDate(raw string) (time.Time, bool) {
	for _, layout := range settlementDateLayouts {
		if at, err := time.Parse(layout, raw); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}
