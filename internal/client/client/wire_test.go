package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2025-03-10T09:00:00Z"`, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{`"2025-03-10T12:00:00+03:00"`, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
		{`"2025-03-10T09:00:00.5"`, time.Date(2025, 3, 10, 9, 0, 0, 500000000, time.UTC)},
		{`"2025-03-10 09:00:00"`, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		var wt wireTime
		require.NoError(t, json.Unmarshal([]byte(tt.in), &wt), tt.in)
		assert.True(t, tt.want.Equal(wt.Time), "%s parsed as %s", tt.in, wt.Time)
	}

	var wt wireTime
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &wt))
	require.Error(t, json.Unmarshal([]byte(`12`), &wt))
}

func TestWireTime_NullPointer(t *testing.T) {
	var payload struct {
		At *wireTime `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at": null}`), &payload))
	assert.Nil(t, payload.At.ptr())
}

func TestFlexID(t *testing.T) {
	var ids []flexID
	require.NoError(t, json.Unmarshal([]byte(`[1, "b-2", null, 30000000001]`), &ids))
	assert.Equal(t, []flexID{"1", "b-2", "", "30000000001"}, ids)

	var id flexID
	require.Error(t, json.Unmarshal([]byte(`{}`), &id))
}

func TestErrorResponse_Message(t *testing.T) {
	var plain errorResponse
	require.NoError(t, json.Unmarshal([]byte(`{"detail":"nope"}`), &plain))
	assert.Equal(t, "nope", plain.message())

	var list errorResponse
	require.NoError(t, json.Unmarshal([]byte(`{"detail":[{"msg":"a"},{"msg":"b"}]}`), &list))
	assert.Equal(t, "a; b", list.message())
}
