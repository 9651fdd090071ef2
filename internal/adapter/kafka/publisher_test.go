package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-threat-service/internal/aggregator"
	"github.com/couchcryptid/storm-threat-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	fetchedAt := time.Date(2026, 4, 26, 20, 30, 0, 0, time.UTC)
	result := aggregator.Result{
		Location:    aggregator.Coordinates{Latitude: 35.3406, Longitude: -97.4871},
		FetchedAt:   fetchedAt,
		ThreatLevel: domain.ThreatExtreme,
		Reasons:     []string{"Tornado warning in effect"},
	}

	msg, err := serializeToMessage(result)
	require.NoError(t, err)

	assert.Equal(t, "35.34,-97.49", string(msg.Key))

	var decoded struct {
		ThreatLevel string `json:"threat_level"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "EXTREME", decoded.ThreatLevel)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "threat_level", msg.Headers[0].Key)
	assert.Equal(t, "EXTREME", string(msg.Headers[0].Value))
	assert.Equal(t, "produced_at", msg.Headers[1].Key)
	assert.Equal(t, "2026-04-26T20:30:00Z", string(msg.Headers[1].Value))
}
