package calendar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayKey(t *testing.T) {
	tests := []struct {
		key  string
		kind KeyKind
		date string
	}{
		{"2023-11-14", KeyDate, "2023-11-14"},
		{" 2023-11-14 ", KeyDate, "2023-11-14"},
		{"1700000000", KeyTimestamp, "2023-11-14"},
		{" 1700000000", KeyTimestamp, "2023-11-14"},
		{"0", KeyTimestamp, "1970-01-01"},
		{"86399", KeyTimestamp, "1970-01-01"},
		{"86400", KeyTimestamp, "1970-01-02"},
		{"", KeyUnparseable, ""},
		{"abc", KeyUnparseable, ""},
		{"-1700000000", KeyUnparseable, ""},
		{"2023-13-01", KeyUnparseable, ""},
		{"2023-11-14T10:00:00Z", KeyUnparseable, ""},
		{"1700000000.5", KeyUnparseable, ""},
		{"99999999999999999999", KeyUnparseable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			dk := ParseDayKey(tt.key)
			assert.Equal(t, tt.kind, dk.Kind)
			if tt.kind != KeyUnparseable {
				assert.Equal(t, tt.date, dk.Date.String())
			}
		})
	}
}

func TestParseRaw_Object(t *testing.T) {
	raw, err := ParseRaw([]byte(`{"1700000000": 3, "2023-11-15": 2}`))
	require.NoError(t, err)
	assert.Equal(t, RawCalendar{"1700000000": 3, "2023-11-15": 2}, raw)
}

func TestParseRaw_Records(t *testing.T) {
	raw, err := ParseRaw([]byte(`[
		{"date": "2023-11-14", "count": 3, "level": 2},
		{"date": "2023-11-14", "count": 1, "level": 1},
		{"date": 1700086400, "count": 4}
	]`))
	require.NoError(t, err)
	assert.Equal(t, RawCalendar{"2023-11-14": 4, "1700086400": 4}, raw)
}

func TestParseRaw_StringWrappedObject(t *testing.T) {
	raw, err := ParseRaw([]byte(`"{\"1700000000\": 3}"`))
	require.NoError(t, err)
	assert.Equal(t, RawCalendar{"1700000000": 3}, raw)
}

func TestParseRaw_NumericStringCount(t *testing.T) {
	raw, err := ParseRaw([]byte(`{"2023-11-14": "5"}`))
	require.NoError(t, err)
	assert.Equal(t, 5, raw["2023-11-14"])
}

func TestParseRaw_IntegralFloatCount(t *testing.T) {
	raw, err := ParseRaw([]byte(`{"2023-11-14": 2.0}`))
	require.NoError(t, err)
	assert.Equal(t, 2, raw["2023-11-14"])
}

func TestParseRaw_EmptyAndNull(t *testing.T) {
	for _, in := range []string{"", "  ", "null", "{}", "[]", `""`} {
		raw, err := ParseRaw([]byte(in))
		require.NoError(t, err, in)
		assert.Empty(t, raw, in)
	}
}

func TestParseRaw_ShapeErrors(t *testing.T) {
	inputs := []string{
		`42`,
		`true`,
		`{"2023-11-14": true}`,
		`{"2023-11-14": null}`,
		`{"2023-11-14": {"count": 1}}`,
		`{"2023-11-14": "many"}`,
		`["2023-11-14"]`,
		`[{"count": 1}]`,
		`[{"date": "2023-11-14"}]`,
		`{not json`,
		`"\"{\\\"1\\\": 1}\""`,
	}
	for _, in := range inputs {
		_, err := ParseRaw([]byte(in))
		var shapeErr *InputShapeError
		assert.True(t, errors.As(err, &shapeErr), "input %s: got %v", in, err)
	}
}

func TestParseRaw_IntegrityErrors(t *testing.T) {
	inputs := []string{
		`{"2023-11-14": -1}`,
		`{"2023-11-14": 1.5}`,
		`{"2023-11-14": "2.5"}`,
		`[{"date": "2023-11-14", "count": -3}]`,
	}
	for _, in := range inputs {
		_, err := ParseRaw([]byte(in))
		var integrityErr *DataIntegrityError
		assert.True(t, errors.As(err, &integrityErr), "input %s: got %v", in, err)
	}
}

func TestMerge_SumsSharedKeys(t *testing.T) {
	merged := Merge(
		RawCalendar{"2023-11-14": 1, "1700000000": 2},
		RawCalendar{"2023-11-14": 4},
		nil,
	)
	assert.Equal(t, RawCalendar{"2023-11-14": 5, "1700000000": 2}, merged)
}

func TestToRaw_DropsZeroDays(t *testing.T) {
	days := []CanonicalDay{
		{Date: MustParseDate("2023-11-13"), Count: 0},
		{Date: MustParseDate("2023-11-14"), Count: 3},
	}
	assert.Equal(t, RawCalendar{"2023-11-14": 3}, ToRaw(days))
}
