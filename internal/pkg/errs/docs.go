// Package errs provides the typed errors shared by the order tracking service.
//
// Validation errors:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value failed a format or business check
//   - ValueIsOutOfRangeError: a value lies outside an allowed range
//   - ObjectNotFoundError: an order, state, rule, carrier or operator does not exist
//
// Lifecycle errors:
//   - InvalidCredentialError: no active operator matches the credential code
//   - PermissionDeniedError: the operator's role may not perform the transition
//   - RuleViolationError: prerequisite states have not been visited
//   - ConflictError: the write clashes with the stored state
//   - ExternalServiceError: the ERP or an alert endpoint failed
//   - StorageError: the persistence layer failed
//
// Each type has a sentinel (ErrValueIsRequired, ErrRuleViolation, ...), constructors
// with and without cause, and an Unwrap method returning the sentinel, so callers
// classify with errors.Is and read details with errors.As.
package errs
