package services

import (
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

// stepBuffer - редактируемые в памяти шаги вместе со слотом генерации картинки.
// Слот один на буфер: пока он занят, шаги нельзя удалять или заменять целиком.
type stepBuffer struct {
	steps     []entities.ProtocolStep
	busyIndex *int
}

func (b *stepBuffer) reset() {
	b.steps = nil
	b.busyIndex = nil
}

func (b *stepBuffer) checkIndex(index int) error {
	if index < 0 || index >= len(b.steps) {
		return apperrors.NewValidationError("шаг %d не существует", index)
	}
	return nil
}

func (b *stepBuffer) imageBusy() bool {
	return b.busyIndex != nil
}

// replace заменяет все шаги. Запрещено во время генерации картинки.
func (b *stepBuffer) replace(steps []entities.ProtocolStep) error {
	if b.imageBusy() {
		return apperrors.ErrImageGenerationInProgress
	}
	b.steps = entities.CloneSteps(steps)
	return nil
}

func (b *stepBuffer) edit(index int, patch StepPatch) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	updated, err := applyStepPatch(b.steps[index], patch)
	if err != nil {
		return err
	}
	b.steps[index] = updated
	return nil
}

func (b *stepBuffer) add(step entities.ProtocolStep) int {
	b.steps = append(b.steps, SanitizeStep(step))
	return len(b.steps) - 1
}

func (b *stepBuffer) remove(index int) error {
	if b.imageBusy() {
		return apperrors.ErrImageGenerationInProgress
	}
	if err := b.checkIndex(index); err != nil {
		return err
	}
	b.steps = append(b.steps[:index], b.steps[index+1:]...)
	return nil
}

func (b *stepBuffer) setImage(index int, url string) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	b.steps[index].ImageURL = url
	return nil
}

// beginImage занимает слот генерации и возвращает текст шага для подсказки.
func (b *stepBuffer) beginImage(index int) (string, error) {
	if b.imageBusy() {
		return "", apperrors.ErrImageGenerationInProgress
	}
	if err := b.checkIndex(index); err != nil {
		return "", err
	}
	i := index
	b.busyIndex = &i
	return b.steps[index].Step, nil
}

func (b *stepBuffer) endImage() {
	b.busyIndex = nil
}

func (b *stepBuffer) snapshot() []entities.ProtocolStep {
	return entities.CloneSteps(b.steps)
}

func (b *stepBuffer) generatingIndex() *int {
	if b.busyIndex == nil {
		return nil
	}
	i := *b.busyIndex
	return &i
}
