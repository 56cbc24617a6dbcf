package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facet/internal/core/domain"
)

func TestParseComponentID(t *testing.T) {
	tests := []struct {
		raw     string
		scope   string
		name    string
		version string
	}{
		{"acme.ui/button@1.0.0", "acme.ui", "button", "1.0.0"},
		{"acme.ui/forms/input@0.0.1", "acme.ui", "forms/input", "0.0.1"},
		{"acme.ui/button", "acme.ui", "button", ""},
		{"button@2.1.0", "", "button", "2.1.0"},
		{"button", "", "button", ""},
		{"  acme/x@0 ", "acme", "x", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			id, err := domain.ParseComponentID(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.scope, id.Scope())
			assert.Equal(t, tt.name, id.Name())
			assert.Equal(t, tt.version, id.Version())
		})
	}
}

func TestParseComponentID_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "acme/", "/button", "acme/button@", "a b"} {
		t.Run(raw, func(t *testing.T) {
			_, err := domain.ParseComponentID(raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidComponentID)
		})
	}
}

func TestComponentID_String(t *testing.T) {
	assert.Equal(t, "acme/button@1.0.0", domain.NewComponentID("acme", "button", "1.0.0").String())
	assert.Equal(t, "acme/button", domain.NewComponentID("acme", "button", "").String())
	assert.Equal(t, "button@1.0.0", domain.NewComponentID("", "button", "1.0.0").String())
	assert.Empty(t, domain.ComponentID{}.String())
}

func TestComponentID_IsEqual(t *testing.T) {
	v1 := domain.MustParseComponentID("acme/a@1.0.0")
	v2 := domain.MustParseComponentID("acme/a@2.0.0")

	assert.False(t, v1.IsEqual(v2, false))
	assert.True(t, v1.IsEqual(v2, true))
	assert.True(t, v1.IsEqual(domain.MustParseComponentID("acme/a@1.0.0"), false))
	assert.False(t, v1.IsEqual(domain.MustParseComponentID("other/a@1.0.0"), true))
	assert.Equal(t, v1, domain.MustParseComponentID("acme/a@1.0.0"))
}

func TestComponentID_Versions(t *testing.T) {
	id := domain.MustParseComponentID("acme/a")

	assert.False(t, id.HasVersion())
	assert.Equal(t, domain.LatestVersion, id.VersionOrLatest())

	versioned := id.WithVersion("3.0.0")
	assert.Equal(t, "3.0.0", versioned.VersionOrLatest())
	assert.False(t, id.HasVersion(), "WithVersion must not mutate the receiver")
	assert.Equal(t, id, versioned.WithoutVersion())
}

func TestComponentID_JSON(t *testing.T) {
	type record struct {
		ID  domain.ComponentID  `json:"id"`
		Opt *domain.ComponentID `json:"opt,omitempty"`
	}

	in := record{ID: domain.MustParseComponentID("acme/a@1.0.0")}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"acme/a@1.0.0"}`, string(data))

	var out record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	require.Error(t, json.Unmarshal([]byte(`{"id":"acme/"}`), &out))
}

func TestSerializedComponentID(t *testing.T) {
	id := domain.MustParseComponentID("acme/a@1.0.0")

	s := id.Serialize()
	assert.Equal(t, domain.SerializedComponentID{Scope: "acme", Name: "a", Version: "1.0.0"}, s)

	back, err := s.ComponentID()
	require.NoError(t, err)
	assert.Equal(t, id, back)

	_, err = domain.SerializedComponentID{}.ComponentID()
	assert.ErrorIs(t, err, domain.ErrInvalidComponentID)
}

func TestComponentIDs(t *testing.T) {
	ids, err := domain.ParseComponentIDs([]string{"acme/a@1.0.0", "acme/b"})
	require.NoError(t, err)

	assert.Equal(t, []string{"acme/a@1.0.0", "acme/b"}, ids.Strings())
	assert.True(t, ids.Has(domain.MustParseComponentID("acme/a@9.9.9"), true))
	assert.False(t, ids.Has(domain.MustParseComponentID("acme/a@9.9.9"), false))

	_, err = domain.ParseComponentIDs([]string{"ok", ""})
	assert.ErrorIs(t, err, domain.ErrInvalidComponentID)
}
