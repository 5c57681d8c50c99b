package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	MeetingRepo      MeetingRepositoryFacade
	MemberRepo       MemberRepositoryFacade
	PaymentRepo      PaymentRepositoryFacade
	ContributionRepo ContributionRepositoryFacade
	RateSnapshotRepo RateSnapshotRepositoryFacade
	RateSource       RateSource
}
