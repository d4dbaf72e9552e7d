package sales

import (
	"strings"
	"time"
)

// Record is one raw sale line returned by the ERP. Only the fields the
// reconciliation depends on are kept.
type Record struct {
	CompanyID      int
	CompanyName    string
	Voided         bool
	WarehouseID    int
	BranchID       int
	Manifest       string
	CarrierID      int64
	CarrierName    string
	SettlementID   int64
	SettlementDate *time.Time
}

// HasSettlement reports whether the ERP already closed the sale financially.
// Both a settlement id and a settlement date are required.
func (r Record) HasSettlement() bool {
	return r.SettlementID != 0 && r.SettlementDate != nil && !r.SettlementDate.IsZero()
}

// Filter holds the expected company, warehouse and branch of trackable sales.
type Filter struct {
	CompanyID   int
	CompanyName string
	WarehouseID int
	BranchID    int
}

// Accepts reports whether a record represents a real, trackable delivery.
// Company names are compared case-insensitively after trimming.
func (f Filter) Accepts(r Record) bool {
	return r.CompanyID == f.CompanyID &&
		strings.EqualFold(strings.TrimSpace(r.CompanyName), strings.TrimSpace(f.CompanyName)) &&
		!r.Voided &&
		r.WarehouseID == f.WarehouseID &&
		strings.TrimSpace(r.Manifest) != "" &&
		r.CarrierID != 0 &&
		r.BranchID == f.BranchID
}
