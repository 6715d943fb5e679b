package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/chipselect/pkg/loader"
	"github.com/Dicklesworthstone/chipselect/pkg/model"
)

func TestConfigureForm_UnchangedAnswersKeepConfig(t *testing.T) {
	cfg := loader.DefaultFileConfig()
	cfg.Widget.Multiple = true
	cfg.Sources = []string{"opts.jsonl"}

	form, apply := ConfigureForm(cfg)
	require.NotNil(t, form)

	got, err := apply()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigureValues_Apply(t *testing.T) {
	cfg := loader.DefaultFileConfig()
	v := &configureValues{
		multiple:   true,
		searchable: true,
		matcher:    model.MatchFuzzy,
		pageSize:   "25",
		label:      "Countries",
		valueField: "code",
	}

	got, err := v.apply(cfg)
	require.NoError(t, err)
	assert.True(t, got.Widget.Multiple)
	assert.Equal(t, 25, got.Widget.MaxVisibleItems)
	assert.Equal(t, model.MatchFuzzy, got.Widget.Matcher)
	assert.Equal(t, "Countries", got.Label)
	assert.Equal(t, model.Fields{Value: "code", Label: "name", Image: "image"}, got.Fields)

	v.pageSize = "many"
	_, err = v.apply(cfg)
	assert.Error(t, err)
}

func TestValidatePageSize(t *testing.T) {
	assert.NoError(t, validatePageSize("100"))
	assert.Error(t, validatePageSize("0"))
	assert.Error(t, validatePageSize("x"))
}
