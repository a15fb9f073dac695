package suggestions

import (
	"context"
	"time"

	"maintenance-system/pkg/metrics"
)

type instrumentedProvider struct {
	next    Provider
	metrics *metrics.Metrics
}

// WithMetrics оборачивает провайдер счётчиками и гистограммой длительности.
func WithMetrics(next Provider, m *metrics.Metrics) Provider {
	if m == nil {
		return next
	}
	return &instrumentedProvider{next: next, metrics: m}
}

func (p *instrumentedProvider) Name() string {
	return p.next.Name()
}

func (p *instrumentedProvider) FindSimilarEquipment(ctx context.Context, reference EquipmentDescriptor, pool []EquipmentDescriptor) ([]uint64, error) {
	start := time.Now()
	ids, err := p.next.FindSimilarEquipment(ctx, reference, pool)
	p.metrics.ObserveSuggestion(p.next.Name(), OperationFindSimilar, time.Since(start), err)
	return ids, err
}

func (p *instrumentedProvider) GenerateProtocolSteps(ctx context.Context, equipment EquipmentDescriptor) ([]GeneratedStep, error) {
	start := time.Now()
	steps, err := p.next.GenerateProtocolSteps(ctx, equipment)
	p.metrics.ObserveSuggestion(p.next.Name(), OperationGenerateSteps, time.Since(start), err)
	return steps, err
}

func (p *instrumentedProvider) GenerateStepImage(ctx context.Context, equipment EquipmentDescriptor, stepText string) (string, error) {
	start := time.Now()
	url, err := p.next.GenerateStepImage(ctx, equipment, stepText)
	p.metrics.ObserveSuggestion(p.next.Name(), OperationGenerateImage, time.Since(start), err)
	return url, err
}
