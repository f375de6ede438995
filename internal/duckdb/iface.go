package duckdb

import "github.com/tinytelemetry/swipedeck/internal/model"

// Compile-time check that Store satisfies the decision store contract.
var _ model.DecisionStore = (*Store)(nil)
