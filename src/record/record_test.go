package record

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
	"testing"
	"time"
)

func TestRecordDerived(t *testing.T) {
	now := time.Now()
	r := Record{ClientAddress: "192.168.10.21", Timestamp: now, Method: MethodGet, Path: "/x", Status: 404, Raw: "log"}
	assert.True(t, r.IsError())
	assert.Equal(t, ClientError, r.StatusClass())
	assert.False(t, r.HasSize)
	assert.Equal(t, int64(0), r.SizeOrZero())

	r.Status = 201
	assert.False(t, r.IsError())
	assert.Equal(t, Success, r.StatusClass())

	r.Status = 399
	assert.False(t, r.IsError())
	r.Status = 400
	assert.True(t, r.IsError())
}

func TestParseMethod(t *testing.T) {
	for _, m := range Methods {
		got, ok := ParseMethod(m.Str())
		require.True(t, ok)
		assert.Equal(t, m, got)
	}
	for _, s := range []string{"get", "Get", "TRACE", "CONNECT", ""} {
		_, ok := ParseMethod(s)
		assert.False(t, ok, s)
	}
}

func TestClassOfTotalAndExclusive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		status := rapid.IntRange(100, 599).Draw(t, "status")
		matched := 0
		for _, c := range StatusClasses {
			if ClassOf(status) == c {
				matched++
			}
		}
		if matched != 1 {
			t.Fatalf("status %d matched %d classes", status, matched)
		}
		if !ClassOf(status).Defined() {
			t.Fatalf("status %d has no class", status)
		}
	})
}

func TestClassOfOutsideRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		status := rapid.OneOf(rapid.IntRange(-1000, 99), rapid.IntRange(600, 100000)).Draw(t, "status")
		if ClassOf(status) != Undefined {
			t.Fatalf("status %d classified as %s", status, ClassOf(status))
		}
	})
}

func TestClassLabels(t *testing.T) {
	assert.Equal(t, "Informational", ClassOf(101).Label())
	assert.Equal(t, "Success", ClassOf(200).Label())
	assert.Equal(t, "Redirect", ClassOf(302).Label())
	assert.Equal(t, "Client Error", ClassOf(404).Label())
	assert.Equal(t, "Server Error", ClassOf(503).Label())
	assert.Equal(t, "Undefined", ClassOf(999).Label())
}

func TestRecordJSONSize(t *testing.T) {
	r := Record{Method: MethodPost, Path: "/a", Status: 200}
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.ToJsonStr()), &out))
	assert.Nil(t, out["size"])

	r.Size, r.HasSize = 0, true
	require.NoError(t, json.Unmarshal([]byte(r.ToJsonStr()), &out))
	assert.Equal(t, float64(0), out["size"])
}
