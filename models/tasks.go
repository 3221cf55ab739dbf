package models

// OverdueSweepPayload is the body of a queued overdue-invoice sweep.
type OverdueSweepPayload struct {
	RequestedBy string `json:"requestedBy"`
}
