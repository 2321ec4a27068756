// Package queue defines message payloads exchanged over the message broker,
// the publisher used by the expense service and the background consumer
// that turns events into an audit log.
package queue

// ExpenseCreatedEvent is published when an expense is successfully
// recorded. It contains enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type ExpenseCreatedEvent struct {
	ExpenseID uint64  `json:"expense_id"`
	UserID    uint64  `json:"user_id"`
	Username  string  `json:"username"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	SpentOn   string  `json:"spent_on"`
	CreatedAt string  `json:"created_at"`
}
