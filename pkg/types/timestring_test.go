package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "hours and minutes", in: "18:00", want: "18:00"},
		{name: "postgres time with seconds", in: "09:30:00", want: "09:30"},
		{name: "single digit hour", in: "8:00", want: "08:00"},
		{name: "end of day", in: "24:00", want: "24:00"},
		{name: "past end of day", in: "24:30", wantErr: true},
		{name: "bad minutes", in: "10:60", wantErr: true},
		{name: "non zero seconds", in: "10:00:15", wantErr: true},
		{name: "garbage", in: "ten", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTimeString_AddHours(t *testing.T) {
	end, err := MustTimeString("18:00").AddHours(1)
	require.NoError(t, err)
	assert.Equal(t, "19:00", end.String())

	end, err = MustTimeString("21:00").AddHours(3)
	require.NoError(t, err)
	assert.Equal(t, "24:00", end.String())

	_, err = MustTimeString("23:00").AddHours(3)
	assert.ErrorIs(t, err, ErrCrossesMidnight)
}

func TestTimeString_Compare(t *testing.T) {
	ten := MustTimeString("10:00")
	eleven := MustTimeString("11:00")

	assert.True(t, ten.IsBefore(eleven))
	assert.False(t, eleven.IsBefore(ten))
	assert.True(t, eleven.IsAfter(ten))
	assert.False(t, ten.IsAfter(ten))
	assert.True(t, ten.Equal(MustTimeString("10:00:00")))
}

func TestTimeString_ZeroValue(t *testing.T) {
	var ts TimeString
	assert.True(t, ts.IsZero())
	assert.Error(t, ts.Validate())
	assert.Equal(t, "", ts.String())

	v, err := ts.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan("19:30:00"))
	assert.Equal(t, "19:30", ts.String())

	require.NoError(t, ts.Scan([]byte("24:00:00")))
	assert.Equal(t, MinutesPerDay, ts.Minutes())

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, "08:15", ts.String())

	require.NoError(t, ts.Scan(time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, MinutesPerDay, ts.Minutes())
	assert.Equal(t, "24:00", ts.String())

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, ts.Minutes())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_JSON(t *testing.T) {
	type payload struct {
		Start TimeString  `json:"start"`
		End   *TimeString `json:"end"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"18:00","end":null}`), &p))
	assert.Equal(t, "18:00", p.Start.String())
	assert.Nil(t, p.End)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"18:00","end":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"25:00"}`), &p))
}
