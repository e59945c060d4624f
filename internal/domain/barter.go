package domain

import "time"

// BarterStatus is the lifecycle state of a barter request.
type BarterStatus string

const (
	BarterStatusPending  BarterStatus = "pending"
	BarterStatusAccepted BarterStatus = "accepted"
	BarterStatusRejected BarterStatus = "rejected"
)

// BarterRequest is a reciprocal exchange offer: the requester (whose book was
// liked and who accepted that like) offers one of their own books to the
// responder (the original liker).
//
// While a request is pending or accepted it holds the active slot for its
// (requester, responder, offered book) triple; a rejected request frees the
// slot so the same offer can be made again later.
type BarterRequest struct {
	ID            string       `json:"id"`
	RequesterID   string       `json:"requester_id"`
	RequesterName string       `json:"requester_name"`
	ResponderID   string       `json:"responder_id"`
	OfferedBookID string       `json:"offered_book_id"`
	Status        BarterStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsTerminal reports whether the request has reached a final decision.
// Accepted and rejected requests never transition again.
func (b *BarterRequest) IsTerminal() bool {
	return b.Status == BarterStatusAccepted || b.Status == BarterStatusRejected
}

// Touch updates the UpdatedAt timestamp to the current time.
func (b *BarterRequest) Touch() {
	b.UpdatedAt = time.Now()
}
