package llm

import (
	"context"
	"time"
)

// Observer receives one callback per provider call. internal/metrics
// implements it with Prometheus collectors.
type Observer interface {
	ObserveLLMRequest(purpose string, success bool, elapsed time.Duration)
}

type observedProvider struct {
	inner Provider
	obs   Observer
}

// WithObserver reports every Generate call to obs. A nil obs returns p
// unchanged.
func WithObserver(p Provider, obs Observer) Provider {
	if obs == nil {
		return p
	}
	return &observedProvider{inner: p, obs: obs}
}

func (o *observedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := o.inner.Generate(ctx, req)
	o.obs.ObserveLLMRequest(PurposeFrom(ctx), err == nil, time.Since(start))
	return resp, err
}

func (o *observedProvider) ModelID() string {
	return o.inner.ModelID()
}
