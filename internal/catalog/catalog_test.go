package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultDefinitionParses(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, c.Version)
	require.Len(t, c.Categories, 9)

	precious := c.Category("Precious Metals")
	require.NotNil(t, precious)
	require.True(t, precious.IsPrecious)
	require.Empty(t, precious.Items)

	cpus := c.Category("E-Waste (Live Yield)")
	require.NotNil(t, cpus)
	require.True(t, cpus.IsYieldBased)
	require.Equal(t, Item{Name: "Ceramic CPUs", GoldYield: 0.6, PdYield: 0.15}, cpus.Items[2])

	copper := c.Category("Copper & Wire")
	require.NotNil(t, copper)
	require.Equal(t, 3.0, copper.Items[0].Price)
}

func TestCloneDoesNotShareItems(t *testing.T) {
	template, err := Default()
	require.NoError(t, err)

	clone := template.Clone()
	clone.Category("Copper & Wire").Items[0].Price = 99
	clone.Category("Precious Metals").Items = append(clone.Category("Precious Metals").Items, Item{Name: "Gold (24K)"})
	clone.Categories[0].Name = "renamed"

	require.Equal(t, 3.0, template.Category("Copper & Wire").Items[0].Price)
	require.Empty(t, template.Category("Precious Metals").Items)
	require.Equal(t, "Precious Metals", template.Categories[0].Name)
}

func TestCategoryLookupIsExact(t *testing.T) {
	c := Catalog{Categories: []Category{{Name: "Aluminum"}}}
	require.NotNil(t, c.Category("Aluminum"))
	require.Nil(t, c.Category("aluminum"))
	require.Nil(t, c.Category(""))
}

func TestByName(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	m := c.ByName()
	require.Len(t, m, len(c.Categories))
	require.Equal(t, "fa-solid fa-faucet", m["Brass & Bronze"].Icon)
}

func TestParseRejectsInvalidDefinitions(t *testing.T) {
	cases := map[string]string{
		"missing version":  "categories: []\n",
		"empty category":   "version: v1\ncategories:\n  - icon: x\n",
		"duplicate item":   "version: v1\ncategories:\n  - name: A\n    items:\n      - {n: X, p: 1}\n      - {n: X, p: 2}\n",
		"negative price":   "version: v1\ncategories:\n  - name: A\n    items:\n      - {n: X, p: -1}\n",
		"negative yield":   "version: v1\ncategories:\n  - name: A\n    items:\n      - {n: X, goldYield: -0.1}\n",
		"not yaml mapping": "- just\n- a list\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := []byte("version: yard-7\ncategories:\n  - name: Steel\n    icon: fa-solid fa-industry\n    items:\n      - {n: HMS, p: 0.08}\n")
	require.NoError(t, os.WriteFile(path, doc, 0o600))

	c, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "yard-7", c.Version)
	require.Equal(t, 0.08, c.Categories[0].Items[0].Price)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
