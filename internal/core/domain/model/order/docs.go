// Package order implements the Order aggregate and its Movement history.
//
// An order is created once per canonical identifier extracted from the ERP
// manifest field and owns an append-only list of movements. Two views are
// derived from that history:
//   - LastState: the target of the latest movement
//   - LastOperationalState: the target of the latest non-SETTLEMENT movement
//
// Movements carry a per-order sequence so that two movements written in the
// same transaction are always ordered, regardless of timestamp resolution.
package order
