package gemini

import (
	"context"
	"errors"
	"io"
	"testing"

	"maintenance-system/internal/suggestions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeModels struct {
	text      string
	images    *genai.GenerateImagesResponse
	err       error
	lastModel string
	lastCfg   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.lastModel = model
	f.lastCfg = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func (f *fakeModels) GenerateImages(_ context.Context, model string, _ string, _ *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	f.lastModel = model
	if f.err != nil {
		return nil, f.err
	}
	return f.images, nil
}

type memoryStorage struct {
	saved map[string][]byte
}

func (s *memoryStorage) Save(file io.Reader, originalFileName string, prefix string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + prefix + "/" + originalFileName
	s.saved[url] = data
	return url, nil
}

func (s *memoryStorage) Delete(string) error { return nil }

func newTestProvider(models *fakeModels) (*Provider, *memoryStorage) {
	storage := &memoryStorage{saved: make(map[string][]byte)}
	return newWithModels(models, "text-model", "image-model", storage, zap.NewNop()), storage
}

func TestFindSimilarEquipment_ParsesJSON(t *testing.T) {
	models := &fakeModels{text: "```json\n{\"similar_ids\": [1, \"2\"]}\n```"}
	p, _ := newTestProvider(models)

	ids, err := p.FindSimilarEquipment(context.Background(), suggestions.EquipmentDescriptor{ID: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, ids)
	assert.Equal(t, "text-model", models.lastModel)
	assert.Equal(t, "application/json", models.lastCfg.ResponseMIMEType)
}

func TestGenerateProtocolSteps_ModelError(t *testing.T) {
	p, _ := newTestProvider(&fakeModels{err: errors.New("quota")})

	_, err := p.GenerateProtocolSteps(context.Background(), suggestions.EquipmentDescriptor{})
	assert.Error(t, err)
}

func TestGenerateProtocolSteps_EmptyAnswer(t *testing.T) {
	p, _ := newTestProvider(&fakeModels{text: "  "})

	_, err := p.GenerateProtocolSteps(context.Background(), suggestions.EquipmentDescriptor{})
	assert.Error(t, err)
}

func TestGenerateStepImage_SavesBytes(t *testing.T) {
	models := &fakeModels{images: &genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{{
			Image: &genai.Image{ImageBytes: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"},
		}},
	}}
	p, storage := newTestProvider(models)

	url, err := p.GenerateStepImage(context.Background(), suggestions.EquipmentDescriptor{Type: "Domo"}, "Limpiar lente")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/"+imagePrefix+"/step.png", url)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, storage.saved[url])
	assert.Equal(t, "image-model", models.lastModel)
}

func TestGenerateStepImage_NoImage(t *testing.T) {
	p, _ := newTestProvider(&fakeModels{images: &genai.GenerateImagesResponse{}})

	_, err := p.GenerateStepImage(context.Background(), suggestions.EquipmentDescriptor{}, "x")
	assert.Error(t, err)
}
