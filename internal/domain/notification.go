package domain

import "time"

// NotificationKind distinguishes the two notification variants stored in the
// shared collection.
type NotificationKind string

const (
	// NotificationKindActionable requires a recipient decision (accept/reject).
	NotificationKindActionable NotificationKind = "actionable"
	// NotificationKindInformational is read-only (proposal notices, reveals).
	NotificationKindInformational NotificationKind = "informational"
)

// NotificationStatus is the lifecycle state of an actionable notification.
type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "pending"
	NotificationStatusAccepted NotificationStatus = "accepted"
	NotificationStatusRejected NotificationStatus = "rejected"
)

// Notification is a message delivered to a user's inbox.
//
// Actionable notifications carry a Status and originate from likes. They are
// the entry point of the barter workflow: accepting one leads to a barter
// proposal. Informational notifications carry a Read flag and are emitted by
// the negotiation flow (proposal notices and contact reveals).
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	Kind        NotificationKind `json:"kind"`
	Message     string           `json:"message"`

	// Actionable fields.
	Status   NotificationStatus `json:"status,omitempty"`
	SenderID string             `json:"sender_id,omitempty"`
	BookID   string             `json:"book_id,omitempty"`

	// Informational fields.
	Read            bool   `json:"read,omitempty"`
	BarterRequestID string `json:"barter_request_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActionable reports whether the notification expects a recipient decision.
func (n *Notification) IsActionable() bool {
	return n.Kind == NotificationKindActionable
}

// IsTerminal reports whether an actionable notification has already been
// decided. Terminal states never transition again.
func (n *Notification) IsTerminal() bool {
	return n.Status == NotificationStatusAccepted || n.Status == NotificationStatusRejected
}

// Touch updates the UpdatedAt timestamp to the current time.
func (n *Notification) Touch() {
	n.UpdatedAt = time.Now()
}
