package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// AssignmentStatus represents the position of an order in the assignment pipeline.
// Transitions are forward-only: every edge in the graph below moves processing
// ahead, terminal states have no outgoing edges, and Pending is never re-entered.
//
// State transitions:
//
//	Pending ──> Assigned ──┬──> Accepted ──> Completed
//	   │            │      │
//	   │            │      └──> ExpiredAll ──> Assigned (next round)
//	   │            │
//	   │            └─────────────> Cancelled
//	   │
//	   └──> NoWorkersAvailable | WorkersOverbooked | ManualReview | Cancelled
//
// ExpiredAll may also end in NoWorkersAvailable, WorkersOverbooked or ManualReview
// when a reassignment attempt finds no further candidates or exceeds the round bound.
type AssignmentStatus int

const (
	// AssignmentUnknown represents an invalid or undefined assignment status.
	AssignmentUnknown AssignmentStatus = iota

	// AssignmentPending is the initial state: the order awaits its first round of offers.
	AssignmentPending

	// AssignmentAssigned means a round of offers is outstanding.
	AssignmentAssigned

	// AssignmentAccepted means one worker accepted an offer; the job is theirs.
	AssignmentAccepted

	// AssignmentExpiredAll means every offer in the current round was declined or
	// expired; the order is eligible for reassignment.
	AssignmentExpiredAll

	// AssignmentCompleted means the accepted job finished. Terminal.
	AssignmentCompleted

	// AssignmentCancelled means the order left the pipeline via cancellation. Terminal.
	AssignmentCancelled

	// AssignmentNoWorkersAvailable means no eligible worker exists in the order's
	// region at all. Terminal business outcome, not an error.
	AssignmentNoWorkersAvailable

	// AssignmentWorkersOverbooked means eligible workers exist but all are at
	// capacity. Terminal business outcome, not an error.
	AssignmentWorkersOverbooked

	// AssignmentManualReview means the reassignment round bound was exhausted.
	// Terminal; requires human intervention and is never auto-resolved.
	AssignmentManualReview
)

func getAssignmentStatusStrings() map[AssignmentStatus]string {
	return map[AssignmentStatus]string{
		AssignmentUnknown:            "Unknown",
		AssignmentPending:            "Pending",
		AssignmentAssigned:           "Assigned",
		AssignmentAccepted:           "Accepted",
		AssignmentExpiredAll:         "ExpiredAll",
		AssignmentCompleted:          "Completed",
		AssignmentCancelled:          "Cancelled",
		AssignmentNoWorkersAvailable: "NoWorkersAvailable",
		AssignmentWorkersOverbooked:  "WorkersOverbooked",
		AssignmentManualReview:       "ManualReview",
	}
}

// assignmentTransitions is the adjacency list of the forward-only state graph.
// Terminal states are present with no outgoing edges.
func assignmentTransitions() map[AssignmentStatus][]AssignmentStatus {
	return map[AssignmentStatus][]AssignmentStatus{
		AssignmentPending: {
			AssignmentAssigned,
			AssignmentNoWorkersAvailable,
			AssignmentWorkersOverbooked,
			AssignmentManualReview,
			AssignmentCancelled,
		},
		AssignmentAssigned: {
			AssignmentAccepted,
			AssignmentExpiredAll,
			AssignmentCancelled,
		},
		AssignmentAccepted: {
			AssignmentCompleted,
			AssignmentCancelled,
		},
		AssignmentExpiredAll: {
			AssignmentAssigned,
			AssignmentNoWorkersAvailable,
			AssignmentWorkersOverbooked,
			AssignmentManualReview,
			AssignmentCancelled,
		},
		AssignmentCompleted:          {},
		AssignmentCancelled:          {},
		AssignmentNoWorkersAvailable: {},
		AssignmentWorkersOverbooked:  {},
		AssignmentManualReview:       {},
	}
}

// Validate checks if the AssignmentStatus value is one of the defined statuses.
func (s AssignmentStatus) Validate() error {
	if s == AssignmentUnknown {
		return errs.NewValueIsInvalidErrorWithCause("assignment status is invalid",
			fmt.Errorf("%d is not a valid assignment status", s))
	}
	if _, ok := getAssignmentStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("assignment status is invalid",
			fmt.Errorf("%d is not a valid assignment status", s))
	}
	return nil
}

// String returns the human-readable name of the assignment status.
func (s AssignmentStatus) String() string {
	if str, ok := getAssignmentStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// AssignmentStatusFromString parses the stored name of an assignment status.
func AssignmentStatusFromString(name string) (AssignmentStatus, error) {
	for status, str := range getAssignmentStatusStrings() {
		if str == name && status != AssignmentUnknown {
			return status, nil
		}
	}
	return AssignmentUnknown, errs.NewValueIsInvalidErrorWithCause("assignment status is invalid",
		fmt.Errorf("%q is not a valid assignment status", name))
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s AssignmentStatus) IsTerminal() bool {
	edges, ok := assignmentTransitions()[s]
	return ok && len(edges) == 0
}

// IsFailure reports whether the status is one of the terminal business
// failure outcomes that callers must be able to distinguish.
func (s AssignmentStatus) IsFailure() bool {
	return s == AssignmentNoWorkersAvailable ||
		s == AssignmentWorkersOverbooked ||
		s == AssignmentManualReview
}

// CanProcess reports whether a dispatch trigger may start a first round.
func (s AssignmentStatus) CanProcess() bool {
	return s == AssignmentPending
}

// CanReassign reports whether a reassignment round may start.
func (s AssignmentStatus) CanReassign() bool {
	return s == AssignmentExpiredAll
}

// CanTransitionTo reports whether the graph defines an edge from s to next.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range assignmentTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo moves the status along a defined edge of the graph.
// Returns an error for any transition the graph does not define, which
// includes every transition out of a terminal state.
func (s AssignmentStatus) TransitionTo(next AssignmentStatus) (AssignmentStatus, error) {
	if err := next.Validate(); err != nil {
		return 0, err
	}
	if !s.CanTransitionTo(next) {
		return 0, errs.NewValueIsInvalidErrorWithCause("assignment status is invalid",
			fmt.Errorf("transition from %s to %s is not allowed", s, next))
	}
	return next, nil
}
