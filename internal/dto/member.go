package dto

import (
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
)

// CreateMemberRequest defines the data needed to add a member to a meeting.
type CreateMemberRequest struct {
	Name   string `json:"name" binding:"required"`
	Leader bool   `json:"leader"`
}

// UpdateMemberRequest defines the data allowed for updating a member.
// Setting Leader to true transfers leadership from the current leader.
type UpdateMemberRequest struct {
	Name   *string `json:"name"`
	Leader *bool   `json:"leader"`
}

// MemberResponse defines the data returned for a member.
type MemberResponse struct {
	MemberID int64  `json:"memberID"`
	Name     string `json:"name"`
	Leader   bool   `json:"leader"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID: m.MemberID,
		Name:     m.Name,
		Leader:   m.Leader,
	}
}

// ToListMemberResponse converts a slice of domain.Member to a slice of MemberResponse DTOs
func ToListMemberResponse(members []domain.Member) []MemberResponse {
	res := make([]MemberResponse, len(members))
	for i, m := range members {
		res[i] = ToMemberResponse(&m)
	}
	return res
}
