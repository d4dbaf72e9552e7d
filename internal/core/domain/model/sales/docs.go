// Package sales models the ERP sales feed consumed by reconciliation: raw
// records, the relevance filter and the paging descriptor.
package sales
