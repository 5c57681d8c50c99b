package repositories

import (
	"context"
	"time"

	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
)

// MeetingReader defines read operations for meeting data
type MeetingReader interface {
	// FindMeetingByID retrieves a specific meeting by its ID.
	FindMeetingByID(ctx context.Context, meetingID int64) (*domain.Meeting, error)

	// FindMeetingByShareUUID retrieves a meeting by its public share identifier.
	FindMeetingByShareUUID(ctx context.Context, shareUUID string) (*domain.Meeting, error)

	// FindMeetingsByUserID retrieves all meetings owned by a user, newest first.
	FindMeetingsByUserID(ctx context.Context, userID string) ([]domain.Meeting, error)
}

// MeetingWriter defines write operations for meeting data
type MeetingWriter interface {
	// SaveMeeting persists a new meeting and returns it with its assigned ID.
	SaveMeeting(ctx context.Context, meeting domain.Meeting) (*domain.Meeting, error)

	// UpdateMeeting updates an existing meeting's details.
	UpdateMeeting(ctx context.Context, meeting domain.Meeting) error

	// DeleteMeeting removes a meeting and everything hanging off it
	// (members, payments, contributions) in one transaction.
	DeleteMeeting(ctx context.Context, meetingID int64, deletedAt time.Time) error
}

// MeetingRepositoryFacade combines all meeting-related repository interfaces
type MeetingRepositoryFacade interface {
	MeetingReader
	MeetingWriter
}
