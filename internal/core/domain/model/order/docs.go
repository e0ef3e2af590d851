// Package order contains the Order aggregate and its two lifecycle state machines:
// the payment status (owned by the payment collaborator) and the assignment status
// (owned by the dispatch coordinator). Both are int-backed value objects whose
// transition methods enforce forward-only movement through the state graph.
package order
