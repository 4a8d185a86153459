package dataset

import (
	"testing"

	"github.com/conejocapital/cascadeflow/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	raw := "time,coin,adl_notional,side,liquidated_user,user\n" +
		"1760054400000,BTC,100.5,B,0xaaa,0xbbb\n" +
		"1760054401000,ETH,-200,A,0xccc,0xddd\n" +
		"1760054402000,SOL,0,B,0xeee,0xfff\n" +
		"1760054403000,,50,B,0x111,0x222\n"

	log, err := LoadCSV(writeTemp(t, "events.csv", raw))
	require.NoError(t, err)

	// Zero-notional row dropped.
	require.Equal(t, 3, log.Len())
	events := log.Events()
	assert.Equal(t, "BTC", events[0].Asset)
	assert.Equal(t, 100.5, events[0].NotionalUSD)
	assert.Equal(t, flow.Long, events[0].Side)
	assert.Equal(t, "0xaaa", events[0].SourceAccount)
	assert.Equal(t, "0xbbb", events[0].TargetAccount)

	assert.Equal(t, 200.0, events[1].NotionalUSD) // absolute
	assert.Equal(t, flow.Short, events[1].Side)

	assert.Equal(t, "UNKNOWN", events[2].Asset)
}

func TestLoadCSVColumnFallbacks(t *testing.T) {
	raw := "time,ticker,value\n" +
		"1760054400,XRP,42\n" // epoch seconds

	log, err := LoadCSV(writeTemp(t, "events.csv", raw))
	require.NoError(t, err)

	require.Equal(t, 1, log.Len())
	e := log.Events()[0]
	assert.Equal(t, "XRP", e.Asset)
	assert.Equal(t, 42.0, e.NotionalUSD)
	assert.Equal(t, int64(1760054400000), e.Timestamp) // seconds promoted to ms
}

func TestLoadCSVRejectsMissingTimeColumn(t *testing.T) {
	raw := "coin,notional\nBTC,1\n"
	_, err := LoadCSV(writeTemp(t, "events.csv", raw))
	assert.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	ts, ok := parseTimestamp("1760054400000")
	assert.True(t, ok)
	assert.Equal(t, int64(1760054400000), ts)

	ts, ok = parseTimestamp("1760054400")
	assert.True(t, ok)
	assert.Equal(t, int64(1760054400000), ts)

	ts, ok = parseTimestamp("2025-10-10T00:00:00Z")
	assert.True(t, ok)
	assert.Equal(t, int64(1760054400000), ts)

	_, ok = parseTimestamp("")
	assert.False(t, ok)
	_, ok = parseTimestamp("garbage")
	assert.False(t, ok)
	_, ok = parseTimestamp("-5")
	assert.False(t, ok)
}
