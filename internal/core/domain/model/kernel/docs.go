// Package kernel holds the primitives shared by the lifecycle aggregates.
//
// UUID is the identifier for append-only records such as movements. Aggregates
// keyed by the ERP (orders, carriers) use the ERP's own identifiers instead.
package kernel
