package services

import (
	"context"

	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	"github.com/WooHyucks/nbbang-backend/internal/dto"
)

// MeetingReaderSvc defines read operations for meeting data
type MeetingReaderSvc interface {
	// GetMeeting retrieves a meeting owned by the requesting user.
	GetMeeting(ctx context.Context, meetingID int64, requesterUserID string) (*domain.Meeting, error)

	// GetMeetingByShareUUID retrieves a meeting by its public share identifier.
	GetMeetingByShareUUID(ctx context.Context, shareUUID string) (*domain.Meeting, error)

	// ListMeetings retrieves all meetings owned by the user, newest first.
	ListMeetings(ctx context.Context, requesterUserID string) ([]domain.Meeting, error)

	// ListCountries retrieves the selectable destination countries.
	ListCountries(ctx context.Context) []dto.CountryResponse
}

// MeetingWriterSvc defines write operations for meeting data
type MeetingWriterSvc interface {
	// CreateMeeting creates a plain N-way meeting.
	CreateMeeting(ctx context.Context, req dto.CreateMeetingRequest, creatorUserID string) (*domain.Meeting, error)

	// CreateSimpleMeeting creates a fixed-price simple meeting.
	CreateSimpleMeeting(ctx context.Context, req dto.CreateSimpleMeetingRequest, creatorUserID string) (*domain.Meeting, error)

	// CreateTripMeeting creates a trip meeting together with its members,
	// their fund contributions and any advance payments, in that order.
	CreateTripMeeting(ctx context.Context, req dto.CreateTripMeetingRequest, creatorUserID string) (*domain.Meeting, error)

	// UpdateMeeting updates a meeting's name and date.
	UpdateMeeting(ctx context.Context, meetingID int64, req dto.UpdateMeetingRequest, requesterUserID string) (*domain.Meeting, error)

	// UpdateSimpleMeeting updates a simple meeting's fixed price and headcount.
	UpdateSimpleMeeting(ctx context.Context, meetingID int64, req dto.UpdateSimpleMeetingRequest, requesterUserID string) (*domain.Meeting, error)

	// UpdateBankAccount sets the transfer destination used in deposit links.
	UpdateBankAccount(ctx context.Context, meetingID int64, req dto.UpdateBankAccountRequest, requesterUserID string) error

	// UpdateKakaoDeposit sets or clears the kakaopay QR identifier.
	UpdateKakaoDeposit(ctx context.Context, meetingID int64, req dto.UpdateKakaoDepositRequest, requesterUserID string) error

	// AddBudget tops up the trip fund in KRW, per member.
	AddBudget(ctx context.Context, meetingID int64, req dto.AddBudgetRequest, requesterUserID string) error

	// AddBudgetForeign tops up the trip fund with a foreign amount split
	// evenly across the given members.
	AddBudgetForeign(ctx context.Context, meetingID int64, req dto.AddBudgetForeignRequest, requesterUserID string) error

	// DeleteMeeting removes a meeting and everything hanging off it.
	DeleteMeeting(ctx context.Context, meetingID int64, requesterUserID string) error
}

// MeetingSvcFacade combines all meeting-related service interfaces
type MeetingSvcFacade interface {
	MeetingReaderSvc
	MeetingWriterSvc
}
