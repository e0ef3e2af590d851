// Package services contains stateless domain services that implement business
// logic spanning multiple aggregates. The CandidateSelector decides which
// workers receive offers for an order; it holds no state of its own and never
// mutates the worker directory.
package services
