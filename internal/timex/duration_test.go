package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"30m"`), &d))
	require.Equal(t, 30*time.Minute, d.Duration)
}

func TestDuration_UnmarshalNanoseconds(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`1800000000000`), &d))
	require.Equal(t, 30*time.Minute, d.Duration)
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var d Duration
	require.Error(t, json.Unmarshal([]byte(`"not-a-duration"`), &d))
	require.Error(t, json.Unmarshal([]byte(`true`), &d))
}
