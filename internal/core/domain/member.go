package domain

import "github.com/WooHyucks/nbbang-backend/internal/utils/money"

// Member is one participant of a meeting. Exactly one member per
// meeting carries the Leader flag; for trip meetings the leader is the
// fund holder all settlement transfers flow through.
type Member struct {
	MemberID  int64  `json:"memberID"`
	MeetingID int64  `json:"meetingID"`
	Name      string `json:"name"`
	Leader    bool   `json:"leader"`
	AuditFields
}

// MemberBalance is a member's settled position after a split
// computation: positive means the member still owes money and must
// send it, negative means they fronted more than their share and are
// owed. Balances are produced by a pure fold over the payment list and
// never written back onto Member.
type MemberBalance struct {
	MemberID     int64  `json:"memberID"`
	Name         string `json:"name"`
	Leader       bool   `json:"leader"`
	Amount       int64  `json:"amount"`
	TippedAmount int64  `json:"tippedAmount"`
}

// NewMemberBalance builds a balance row with the tipped transfer
// suggestion derived from the exact amount.
func NewMemberBalance(m Member, amount int64) MemberBalance {
	return MemberBalance{
		MemberID:     m.MemberID,
		Name:         m.Name,
		Leader:       m.Leader,
		Amount:       amount,
		TippedAmount: money.Tip(amount),
	}
}
