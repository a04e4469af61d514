package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"brewboard/internal/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teasJSON = `{
  "teas": [
    {
      "name": "Green",
      "types": {
        "hot": { "grams": 4, "stages": [ { "time": 30, "volume": 100 }, { "time": 45, "volume": 150 } ] },
        "cold": { "grams": 9, "stages": [] }
      }
    },
    { "name": "Sencha", "types": {} }
  ]
}`

func TestParseCatalogAcceptsJSON(t *testing.T) {
	catalog, err := ParseCatalog([]byte(teasJSON))
	require.NoError(t, err)

	require.Len(t, catalog.Ingredients, 2)
	green := catalog.Ingredients[0]
	assert.Equal(t, "Green", green.Name)
	assert.True(t, green.Supports(model.ModeHot))
	assert.False(t, green.Supports(model.ModeIce))
	assert.Len(t, green.Modes, 1, "unknown mode keys are dropped")
	assert.Equal(t, model.ModeConfig{
		Dose: 4,
		Stages: []model.StageSpec{
			{Duration: 30 * time.Second, Volume: 100},
			{Duration: 45 * time.Second, Volume: 150},
		},
	}, green.Modes[model.ModeHot])
	assert.Empty(t, catalog.Ingredients[1].Modes)
}

func TestParseCatalogRejectsGarbage(t *testing.T) {
	_, err := ParseCatalog([]byte("teas: [unterminated"))
	assert.ErrorContains(t, err, "parse catalog yaml")
}

func TestLoadCatalogDefault(t *testing.T) {
	catalog, err := LoadCatalog("")
	require.NoError(t, err)

	require.NotEmpty(t, catalog.Ingredients)
	for _, ingredient := range catalog.Ingredients {
		assert.NotEmpty(t, ingredient.Name)
		for mode, config := range ingredient.Modes {
			assert.NotEmpty(t, config.Stages, "%s %s", ingredient.Name, mode)
			for _, stage := range config.Stages {
				assert.Positive(t, stage.Duration)
			}
		}
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teas.json")
	require.NoError(t, os.WriteFile(path, []byte(teasJSON), 0o644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Green", "Sencha"}, catalog.Names())
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
