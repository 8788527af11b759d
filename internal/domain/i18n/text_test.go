package i18n

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		text      Text
		preferred string
		want      string
	}{
		{name: "plain ignores locale", text: Plain("Café Central"), preferred: "en", want: "Café Central"},
		{name: "preferred present", text: Localized(map[string]string{"es": "Hola", "en": "Hello"}), preferred: "en", want: "Hello"},
		{name: "falls back to es", text: Localized(map[string]string{"es": "Hola", "en": "Hello"}), preferred: "fr", want: "Hola"},
		{name: "falls back to en", text: Localized(map[string]string{"en": "Hello"}), preferred: "pt", want: "Hello"},
		{name: "empty preferred value skipped", text: Localized(map[string]string{"en": "", "es": "Hola"}), preferred: "EN", want: "Hola"},
		{name: "nothing usable", text: Localized(map[string]string{"fr": "Bonjour"}), preferred: "de", want: ""},
		{name: "zero value", text: Text{}, preferred: "es", want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.text.Resolve(tc.preferred))
		})
	}
}

func TestUnmarshalBothShapes(t *testing.T) {
	var doc struct {
		Name        Text `json:"name"`
		Description Text `json:"description"`
		Missing     Text `json:"missing"`
	}
	raw := `{"name":"Panadería","description":{"es":"Pan artesanal","EN":"Craft bread"},"missing":null}`
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "Panadería", doc.Name.Resolve("en"))
	plain, err := json.Marshal(doc.Name)
	require.NoError(t, err)
	assert.Equal(t, `"Panadería"`, string(plain))
	assert.Equal(t, "Craft bread", doc.Description.Resolve("en"))
	assert.True(t, doc.Missing.IsZero())

	out, err := json.Marshal(doc.Description)
	require.NoError(t, err)
	assert.JSONEq(t, `{"es":"Pan artesanal","en":"Craft bread"}`, string(out))

	var bad Text
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestLocalizedCopiesInput(t *testing.T) {
	src := map[string]string{"ES": "uno"}
	txt := Localized(src)
	src["ES"] = "dos"
	src["es"] = "tres"
	assert.Equal(t, "uno", txt.Resolve("es"))
}
