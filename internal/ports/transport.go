package ports

import (
	"context"

	"github.com/bnema/vitals-cli/internal/domain"
)

// ProviderTransport speaks one vendor's wire protocol. Implementations are
// stateless and safe to share across concurrent aggregation calls.
//
// Fetch returns the vendor's native record shape verbatim; field mapping is
// strictly the same package's Normalize. Failures are *domain.TransportError
// (unauthorized, rate-limited, upstream) or domain.ErrNoData when the
// resource is legitimately empty for the window.
type ProviderTransport interface {
	ID() domain.ProviderID

	// MetricResources lists the sub-resources this vendor contributes to a
	// snapshot. Profile is excluded: it is fetched only at connect time.
	MetricResources() []domain.Resource

	Fetch(ctx context.Context, accessToken string, resource domain.Resource, window domain.QueryWindow) (domain.Record, error)

	// Normalize folds the winning record per sub-resource into the canonical
	// snapshot. Pure: no network, no clock, records of a foreign vendor type
	// are ignored, absent values stay absent.
	Normalize(records map[domain.Resource]domain.Record) domain.TrackerSnapshot
}
