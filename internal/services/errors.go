package services

import (
	"github.com/Nidish2/Climate-Platform/internal/clients/upstream"
	"github.com/Nidish2/Climate-Platform/internal/platform/apierror"
)

// mapUpstreamError translates adapter failures into the API error taxonomy.
// Everything that is not an upstream error is treated as internal.
func mapUpstreamError(err error) error {
	if err == nil {
		return nil
	}
	kind, ok := upstream.KindOf(err)
	if !ok {
		return apierror.Internal("external data lookup failed", err)
	}
	switch kind {
	case upstream.KindRateLimited:
		return apierror.Wrap(apierror.KindUpstreamRateLimited, "external data source rate limited", err)
	case upstream.KindMalformed:
		return apierror.Wrap(apierror.KindUpstreamUnavailable, "external data source returned an unusable response", err)
	default:
		return apierror.Wrap(apierror.KindUpstreamUnavailable, "external data source unavailable", err)
	}
}
