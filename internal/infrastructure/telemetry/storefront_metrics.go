package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var attrOutcome = attribute.Key("outcome")

// StorefrontMetrics counts shopper-facing events
type StorefrontMetrics struct {
	signIns  *Counter
	signUps  *Counter
	cartAdds *Counter
	searches *Counter
}

// NewStorefrontMetrics registers the storefront counters on meter
func NewStorefrontMetrics(meter metric.Meter) (*StorefrontMetrics, error) {
	m := &StorefrontMetrics{}
	var err error
	if m.signIns, err = NewCounter(meter, "storefront.auth.sign_ins", "Sign-in attempts by outcome"); err != nil {
		return nil, err
	}
	if m.signUps, err = NewCounter(meter, "storefront.auth.sign_ups", "Sign-up attempts by outcome"); err != nil {
		return nil, err
	}
	if m.cartAdds, err = NewCounter(meter, "storefront.cart.adds", "Add-to-cart requests by outcome"); err != nil {
		return nil, err
	}
	if m.searches, err = NewCounter(meter, "storefront.catalog.searches", "Catalog listings filtered by a search term"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordSignIn counts a sign-in attempt
func (m *StorefrontMetrics) RecordSignIn(ctx context.Context, err error) {
	m.signIns.Inc(ctx, attrOutcome.String(outcome(err)))
}

// RecordSignUp counts a sign-up attempt
func (m *StorefrontMetrics) RecordSignUp(ctx context.Context, err error) {
	m.signUps.Inc(ctx, attrOutcome.String(outcome(err)))
}

// RecordCartAdd counts an add-to-cart request
func (m *StorefrontMetrics) RecordCartAdd(ctx context.Context, err error) {
	m.cartAdds.Inc(ctx, attrOutcome.String(outcome(err)))
}

// RecordSearch counts a catalog search
func (m *StorefrontMetrics) RecordSearch(ctx context.Context) {
	m.searches.Inc(ctx)
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
