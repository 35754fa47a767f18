package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestLocality_Key(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		locality Locality
		expected string
	}{
		{"uppercase already", Locality{Name: "SYDNEY", Postcode: 2000}, "SYDNEY-2000"},
		{"mixed case", Locality{Name: "Surry Hills", Postcode: 2010}, "SURRY HILLS-2010"},
		{"three digit postcode", Locality{Name: "Australian National University", Postcode: 200}, "AUSTRALIAN NATIONAL UNIVERSITY-200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.locality.Key())
		})
	}
}

func TestLocality_HasCoordinates(t *testing.T) {
	t.Parallel()

	assert.True(t, Locality{Latitude: dec("-33.8697"), Longitude: dec("151.2099")}.HasCoordinates())
	assert.False(t, Locality{}.HasCoordinates())
	assert.False(t, Locality{Latitude: dec("-33.8697")}.HasCoordinates())
}

func TestLocality_Validate(t *testing.T) {
	t.Parallel()

	t.Run("physical", func(t *testing.T) {
		t.Parallel()
		l := Locality{Name: "SYDNEY", Postcode: 2000, Latitude: dec("-33.8697"), Longitude: dec("151.2099")}
		assert.NoError(t, l.Validate())
	})

	t.Run("non-physical", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, Locality{Name: "CHATSWOOD", Postcode: 2057}.Validate())
	})

	t.Run("half coordinates", func(t *testing.T) {
		t.Parallel()
		err := Locality{Name: "CHATSWOOD", Postcode: 2057, Longitude: dec("151.18")}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CHATSWOOD-2057")
	})

	t.Run("blank name", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, Locality{Name: "  ", Postcode: 2000}.Validate())
	})
}

func TestLocality_UnmarshalDatasetEntry(t *testing.T) {
	t.Parallel()

	raw := `[
		{"Pcode":200,"Locality":"AUSTRALIAN NATIONAL UNIVERSITY","State":"ACT","Longitude":null,"Latitude":null},
		{"Pcode":800,"Locality":"DARWIN","State":"NT","Longitude":130.8434,"Latitude":-12.4633}
	]`

	var got []Locality
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	require.Len(t, got, 2)

	assert.Equal(t, 200, got[0].Postcode)
	assert.Equal(t, "ACT", got[0].State)
	assert.Nil(t, got[0].Latitude)
	assert.Nil(t, got[0].Longitude)

	assert.Equal(t, "DARWIN", got[1].Name)
	require.True(t, got[1].HasCoordinates())
	assert.Equal(t, "-12.4633", got[1].Latitude.String())
	assert.Equal(t, "130.8434", got[1].Longitude.String())
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "ATLANTIS", NormalizeName("Atlantis"))
	assert.Equal(t, "", NormalizeName(""))
	assert.Equal(t, "2000", NormalizeName("2000"))
}

func TestResult_String(t *testing.T) {
	t.Parallel()
	r := NewResult(Locality{Name: "Surry Hills", Postcode: 2010}, decimal.RequireFromString("1.69"))
	assert.Equal(t, "SURRY HILLS  2010", r.String())
	assert.Equal(t, "1.69", r.Distance.StringFixed(2))
}
