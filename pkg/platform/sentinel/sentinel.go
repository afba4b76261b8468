package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Document store backends return
// these (optionally wrapped) so the directory service can translate them into
// domain errors without caring which backend produced them.
//
// For validation errors (bad input, malformed documents), use pkg/errors
// directly.
var ErrNotFound = errors.New("not found")
