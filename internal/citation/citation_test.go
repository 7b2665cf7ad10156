// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroia-lab/Personal-AI-Infrastructure-lleon/pkg/types"
)

func TestNature(t *testing.T) {
	tests := []struct {
		name string
		c    types.Citation
		want string
	}{
		{
			name: "first author",
			c:    types.Citation{Authors: []string{"Smith J", "Lee K"}, Journal: "The Plant cell", Year: "2023"},
			want: "Smith J et al. The Plant cell (2023).",
		},
		{
			name: "comma separated name keeps family only",
			c:    types.Citation{Authors: []string{"Williams, M."}, Journal: "Science", Year: "2020"},
			want: "Williams et al. Science (2020).",
		},
		{
			name: "no authors",
			c:    types.Citation{Journal: "Unknown journal", Year: "Unknown year"},
			want: "Unknown author. Unknown journal (Unknown year).",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nature(tt.c))
		})
	}
}

func TestFormat(t *testing.T) {
	c := types.Citation{PMID: "1", Title: "T", Authors: []string{"Smith J"}, Journal: "J", Year: "2023"}

	t.Run("default is nature", func(t *testing.T) {
		var warn bytes.Buffer
		got, err := Format(c, "", &warn)
		require.NoError(t, err)
		assert.Equal(t, "Smith J et al. J (2023).", got)
		assert.Empty(t, warn.String())
	})

	t.Run("style is case insensitive", func(t *testing.T) {
		got, err := Format(c, "Nature", &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, "Smith J et al. J (2023).", got)
	})

	t.Run("unsupported style warns and falls back", func(t *testing.T) {
		var warn bytes.Buffer
		got, err := Format(c, "apa", &warn)
		require.NoError(t, err)
		assert.Equal(t, "Smith J et al. J (2023).", got)
		assert.Contains(t, warn.String(), "style 'apa' not supported yet, using Nature style")
	})

	t.Run("csl", func(t *testing.T) {
		got, err := Format(c, "csl", &bytes.Buffer{})
		require.NoError(t, err)
		assert.Contains(t, got, "id: pmid:1")
		assert.Contains(t, got, "family: Smith")
		assert.Contains(t, got, "container-title: J")
	})
}
