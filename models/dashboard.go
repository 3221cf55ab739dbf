package models

import "time"

// KpiStrip is the headline row of the dashboard.
type KpiStrip struct {
	ActiveConversations int     `json:"activeConversations"`
	SlaBreached         int     `json:"slaBreached"`
	AccountsReceivable  float64 `json:"accountsReceivable"`
	PendingPayments     float64 `json:"pendingPayments"`
	Upcoming7d          int     `json:"upcoming7d"`
}

type ActionQueueItem struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Priority Priority `json:"priority"`
	Age      string   `json:"age"`
	Link     string   `json:"link"`
}

type ActionQueueFailedPayment struct {
	ID        string        `json:"id"`
	InvoiceID string        `json:"invoiceId"`
	Amount    float64       `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Link      string        `json:"link"`
}

type ActionQueue struct {
	SlaBreached                []ActionQueueItem          `json:"slaBreached"`
	NewUnassignedOver24h       []ActionQueueItem          `json:"newUnassignedOver24h"`
	AwaitingClientStaleOver48h []ActionQueueItem          `json:"awaitingClientStaleOver48h"`
	FailedPayments             []ActionQueueFailedPayment `json:"failedPayments"`
}

type CashRiskInvoice struct {
	ID         string        `json:"id"`
	ClientName string        `json:"clientName"`
	Total      float64       `json:"total"`
	Status     InvoiceStatus `json:"status"`
	DueDate    time.Time     `json:"dueDate"`
}

type CashRisk struct {
	PaidRevenue        float64           `json:"paidRevenue"`
	AccountsReceivable float64           `json:"accountsReceivable"`
	OverdueAmount      float64           `json:"overdueAmount"`
	PendingAmount      float64           `json:"pendingAmount"`
	FailedAmount       float64           `json:"failedAmount"`
	RefundedAmount     float64           `json:"refundedAmount"`
	TopRiskyInvoices   []CashRiskInvoice `json:"topRiskyInvoices"`
}

type ExecutionRadarItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	ExecutionAt    time.Time `json:"executionAt"`
	AssigneeID     *string   `json:"assigneeId"`
	AssigneeName   string    `json:"assigneeName,omitempty"`
	PaymentRisk    bool      `json:"paymentRisk"`
	AssignmentRisk bool      `json:"assignmentRisk"`
	SlaRisk        bool      `json:"slaRisk"`
	Link           string    `json:"link"`
}

// DashboardMetrics is everything the dashboard renders, scoped to one viewer.
type DashboardMetrics struct {
	KpiStrip       KpiStrip             `json:"kpiStrip"`
	ActionQueue    ActionQueue          `json:"actionQueue"`
	CashRisk       CashRisk             `json:"cashRisk"`
	ExecutionRadar []ExecutionRadarItem `json:"executionRadar"`
}
