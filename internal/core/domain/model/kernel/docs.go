// Package kernel contains shared value objects used across domain aggregates.
// These are small immutable types with validation that form the building blocks
// of the dispatch domain model: unique identifiers and region codes.
package kernel
