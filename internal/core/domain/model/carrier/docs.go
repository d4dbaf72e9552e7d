// Package carrier provides the Carrier aggregate.
//
// Carriers are keyed by their ERP identifier. Switching tracking off removes all
// of the carrier's orders; switching manual settlement off settles the carrier's
// pending orders automatically. Both side effects are carried out by the command
// handler that changes the flag, using the transition flags returned here.
package carrier
