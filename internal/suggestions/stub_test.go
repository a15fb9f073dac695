package suggestions

import "context"

type stubProvider struct {
	name string
	err  error
}

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) FindSimilarEquipment(context.Context, EquipmentDescriptor, []EquipmentDescriptor) ([]uint64, error) {
	return []uint64{1}, s.err
}

func (s stubProvider) GenerateProtocolSteps(context.Context, EquipmentDescriptor) ([]GeneratedStep, error) {
	return nil, s.err
}

func (s stubProvider) GenerateStepImage(context.Context, EquipmentDescriptor, string) (string, error) {
	return "", s.err
}
