package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimilarIDs(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    []uint64
		wantErr bool
	}{
		{name: "объект", input: `{"similar_ids": [3, 1]}`, want: []uint64{3, 1}},
		{name: "массив", input: `[5]`, want: []uint64{5}},
		{name: "строки", input: `{"similar_ids": ["7", " 8 "]}`, want: []uint64{7, 8}},
		{name: "в code fence", input: "```json\n{\"similar_ids\": [2]}\n```", want: []uint64{2}},
		{name: "мусор", input: `не json`, wantErr: true},
		{name: "неверный id", input: `["abc"]`, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ids, err := ParseSimilarIDs(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestParseSteps(t *testing.T) {
	steps, err := ParseSteps("```\n{\"steps\": [{\"step\": \"Limpiar\", \"priority\": \"alta\", \"percentage\": 60}]}\n```")
	require.NoError(t, err)
	require.Len(t, steps, 1)
	assert.Equal(t, "Limpiar", steps[0].Step)
	assert.Equal(t, "alta", steps[0].Priority)
	assert.Equal(t, 60.0, steps[0].Percentage)

	steps, err = ParseSteps(`[{"step": "a"}, {"step": "b"}]`)
	require.NoError(t, err)
	assert.Len(t, steps, 2)
}

func TestRegistry_Active(t *testing.T) {
	r := NewRegistry()
	_, err := r.GetActive()
	assert.Error(t, err)

	require.NoError(t, r.Register(stubProvider{name: "a"}))
	assert.Error(t, r.Register(stubProvider{name: "a"}), "повторная регистрация запрещена")
	assert.Error(t, r.SetActive("b"))

	require.NoError(t, r.SetActive("a"))
	p, err := r.GetActive()
	require.NoError(t, err)
	assert.Equal(t, "a", p.Name())
}
