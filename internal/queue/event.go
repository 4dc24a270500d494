// Package queue carries domain events over RabbitMQ.  Each event type owns a
// durable queue named after it; publishers route through the default
// exchange with the queue name as routing key.
package queue

import "fmt"

const (
	TransferCompletedQueue   = "inventory.transfer.completed"
	TicketStatusChangedQueue = "ticket.status_changed"
)

// Event is a message that knows its queue and how to render itself as one
// activity-log line.
type Event interface {
	Queue() string
	LogLine() string
}

// TransferCompletedEvent is published once a transfer's stock movement has
// been committed.
type TransferCompletedEvent struct {
	TransferID      string `json:"transferId"`
	CompanyID       string `json:"companyId"`
	FromLocationID  string `json:"fromLocationId"`
	ToLocationID    string `json:"toLocationId"`
	InventoryItemID string `json:"inventoryItemId"`
	SKU             string `json:"sku"`
	Quantity        int    `json:"quantity"`
	CompletedAt     string `json:"completedAt"`
}

// Queue names the destination queue.
func (TransferCompletedEvent) Queue() string { return TransferCompletedQueue }

// LogLine is the line the consumer appends to the event log.
func (e TransferCompletedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Transfer completed | transfer_id=%s | company_id=%s | sku=%q | qty=%d | from=%s | to=%s",
		e.CompletedAt, e.TransferID, e.CompanyID, e.SKU, e.Quantity, e.FromLocationID, e.ToLocationID)
}

// TicketStatusChangedEvent is published when an update moves a ticket to a
// different status.
type TicketStatusChangedEvent struct {
	TicketID     string `json:"ticketId"`
	TicketNumber string `json:"ticketNumber"`
	CompanyID    string `json:"companyId"`
	From         string `json:"from"`
	To           string `json:"to"`
	ChangedAt    string `json:"changedAt"`
}

// Queue names the destination queue.
func (TicketStatusChangedEvent) Queue() string { return TicketStatusChangedQueue }

// LogLine is the line the consumer appends to the event log.
func (e TicketStatusChangedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Ticket status changed | ticket=%s | ticket_id=%s | company_id=%s | %s -> %s",
		e.ChangedAt, e.TicketNumber, e.TicketID, e.CompanyID, e.From, e.To)
}
