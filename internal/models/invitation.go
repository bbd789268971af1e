package models

import "time"

// Invitation status values. PENDING is the only non-terminal state.
const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationDeclined = "DECLINED"
)

type GameInvitation struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReceivedInvitation is a pending invitation joined with the sender's
// identity, as shown in the receiver's notification list.
type ReceivedInvitation struct {
	GameInvitation
	Sender User `json:"sender"`
}
