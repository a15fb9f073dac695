package gemini

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"maintenance-system/internal/suggestions"
	"maintenance-system/pkg/filestorage"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const imagePrefix = "protocol-steps/generated"

// modelsAPI - подмножество genai.Models, которое нам нужно. *genai.Models ему удовлетворяет.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Provider - сервис подсказок на моделях Gemini.
// Текстовые ответы запрашиваются в JSON, картинки сохраняются в файловое хранилище.
type Provider struct {
	models     modelsAPI
	textModel  string
	imageModel string
	storage    filestorage.FileStorageInterface
	logger     *zap.Logger
}

func New(ctx context.Context, apiKey, textModel, imageModel string, storage filestorage.FileStorageInterface, logger *zap.Logger) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("не задан ключ GenAI API")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось создать клиент GenAI: %w", err)
	}

	return newWithModels(client.Models, textModel, imageModel, storage, logger), nil
}

func newWithModels(models modelsAPI, textModel, imageModel string, storage filestorage.FileStorageInterface, logger *zap.Logger) *Provider {
	return &Provider{
		models:     models,
		textModel:  textModel,
		imageModel: imageModel,
		storage:    storage,
		logger:     logger.Named("gemini"),
	}
}

func (p *Provider) Name() string {
	return "genai"
}

func (p *Provider) generateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := p.models.GenerateContent(ctx, p.textModel,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0.2),
		},
	)
	if err != nil {
		return "", fmt.Errorf("ошибка запроса к модели %s: %w", p.textModel, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("модель %s вернула пустой ответ", p.textModel)
	}
	return text, nil
}

func (p *Provider) FindSimilarEquipment(ctx context.Context, reference suggestions.EquipmentDescriptor, pool []suggestions.EquipmentDescriptor) ([]uint64, error) {
	text, err := p.generateJSON(ctx, suggestions.SimilarEquipmentPrompt(reference, pool))
	if err != nil {
		return nil, err
	}
	ids, err := suggestions.ParseSimilarIDs(text)
	if err != nil {
		p.logger.Warn("Не удалось разобрать ответ модели", zap.String("operation", suggestions.OperationFindSimilar), zap.String("raw", text))
		return nil, err
	}
	return ids, nil
}

func (p *Provider) GenerateProtocolSteps(ctx context.Context, equipment suggestions.EquipmentDescriptor) ([]suggestions.GeneratedStep, error) {
	text, err := p.generateJSON(ctx, suggestions.ProtocolStepsPrompt(equipment))
	if err != nil {
		return nil, err
	}
	steps, err := suggestions.ParseSteps(text)
	if err != nil {
		p.logger.Warn("Не удалось разобрать ответ модели", zap.String("operation", suggestions.OperationGenerateSteps), zap.String("raw", text))
		return nil, err
	}
	return steps, nil
}

func (p *Provider) GenerateStepImage(ctx context.Context, equipment suggestions.EquipmentDescriptor, stepText string) (string, error) {
	resp, err := p.models.GenerateImages(ctx, p.imageModel, suggestions.StepImagePrompt(equipment, stepText),
		&genai.GenerateImagesConfig{NumberOfImages: 1},
	)
	if err != nil {
		return "", fmt.Errorf("ошибка генерации изображения моделью %s: %w", p.imageModel, err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return "", fmt.Errorf("модель %s не вернула изображение", p.imageModel)
	}

	img := resp.GeneratedImages[0].Image
	url, err := p.storage.Save(bytes.NewReader(img.ImageBytes), "step"+extensionFor(img.MIMEType), imagePrefix)
	if err != nil {
		return "", fmt.Errorf("не удалось сохранить сгенерированное изображение: %w", err)
	}
	return url, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
