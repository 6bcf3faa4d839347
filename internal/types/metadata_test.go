package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMetadataEmpty(t *testing.T) {
	tests := []struct {
		name     string
		metadata Metadata
		expected bool
	}{
		{"nil", nil, true},
		{"zero entries", Metadata{}, true},
		{"one entry", Metadata{"sku": "A1"}, false},
		{"empty value still counts", Metadata{"sku": ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsMetadataEmpty(tt.metadata))
		})
	}
}

func TestNormalizeMetadata(t *testing.T) {
	tests := []struct {
		name     string
		payload  interface{}
		expected Metadata
	}{
		{"nil payload", nil, Metadata{}},
		{"typed metadata", Metadata{"sku": "A1"}, Metadata{"sku": "A1"}},
		{"string map", map[string]string{"tier": "gold"}, Metadata{"tier": "gold"}},
		{
			"mixed value map",
			map[string]interface{}{"seats": 5, "ratio": 1.5, "trial": true, "note": nil},
			Metadata{"seats": "5", "ratio": "1.5", "trial": "true", "note": ""},
		},
		{"raw json object", []byte(`{"sku":"A1","count":3}`), Metadata{"sku": "A1", "count": "3"}},
		{"raw json string", `{"nested":{"a":1}}`, Metadata{"nested": `{"a":1}`}},
		{"invalid json", []byte(`not json`), Metadata{}},
		{"empty raw", []byte{}, Metadata{}},
		{
			"struct payload",
			struct {
				Plan string `json:"plan"`
			}{Plan: "pro"},
			Metadata{"plan": "pro"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeMetadata(tt.payload)
			assert.NotNil(t, result)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormalizeMetadataReturnsCopy(t *testing.T) {
	original := Metadata{"sku": "A1"}
	normalized := NormalizeMetadata(original)
	normalized["sku"] = "changed"
	assert.Equal(t, "A1", original["sku"])
}

func TestMetadataMerge(t *testing.T) {
	base := Metadata{"sku": "A1", MetadataKeyMigratedTo: "old"}
	merged := base.Merge(Metadata{MetadataKeyMigratedTo: "sub_new"})

	assert.Equal(t, Metadata{"sku": "A1", MetadataKeyMigratedTo: "sub_new"}, merged)
	assert.Equal(t, "old", base[MetadataKeyMigratedTo])
	assert.Equal(t, `{"migrated_to":"sub_new","sku":"A1"}`, merged.String())
	assert.Equal(t, []string{"migrated_to", "sku"}, merged.Keys())
}
