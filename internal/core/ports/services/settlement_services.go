package services

import (
	"context"

	"github.com/WooHyucks/nbbang-backend/internal/dto"
)

// SettlementReaderSvc assembles settlement reports. All computations
// are read-only folds over the meeting's stored data.
type SettlementReaderSvc interface {
	// GetSplitResult computes the N-way settlement of a meeting.
	GetSplitResult(ctx context.Context, meetingID int64, requesterUserID string) (*dto.SplitResultResponse, error)

	// GetSharePage builds the public settlement page for a share UUID,
	// including per-member transfer links.
	GetSharePage(ctx context.Context, shareUUID string) (*dto.SharePageResponse, error)

	// GetTripDashboard builds the live fund dashboard of a trip meeting.
	GetTripDashboard(ctx context.Context, meetingID int64, requesterUserID string) (*dto.TripDashboardResponse, error)

	// GetTripDashboardByShareUUID builds the dashboard for a share UUID
	// without authentication.
	GetTripDashboardByShareUUID(ctx context.Context, shareUUID string) (*dto.TripDashboardResponse, error)

	// GetTripResult computes the final netted settlement of a trip,
	// revaluing the remaining fund at today's rate when available.
	GetTripResult(ctx context.Context, meetingID int64, requesterUserID string) (*dto.TripResultResponse, error)
}

// SettlementSvcFacade combines all settlement-related service interfaces
type SettlementSvcFacade interface {
	SettlementReaderSvc
}
