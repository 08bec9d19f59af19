package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{"ISO", "2017-03-03", NewDate(2017, time.March, 3), false},
		{"Dotted", "03.03.2017", NewDate(2017, time.March, 3), false},
		{"Surrounding spaces", " 24.12.1998 ", NewDate(1998, time.December, 24), false},
		{"Slashes", "03/03/2017", Date{}, true},
		{"Impossible day", "31.02.2017", Date{}, true},
		{"Empty", "", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time))
		})
	}
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		ReleaseDate *Date `json:"release_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"release_date":"15.11.2004"}`), &payload))
	require.NotNil(t, payload.ReleaseDate)
	assert.Equal(t, "2004-11-15", payload.ReleaseDate.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"release_date":"2004-11-15"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"release_date":"yesterday"}`), &payload))
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"time value", time.Date(2004, 11, 15, 0, 0, 0, 0, time.UTC)},
		{"iso string", "2004-11-15"},
		{"sqlite timestamp", "2004-11-15 00:00:00+00:00"},
		{"bytes", []byte("2004-11-15T00:00:00Z")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.value))
			assert.Equal(t, "2004-11-15", d.String())
		})
	}

	var d Date
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}
