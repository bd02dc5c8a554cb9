package logging

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() Event {
	return Event{
		Time:    time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC),
		Level:   LevelInfo,
		Message: "command started",
		Fields: []Field{
			F("command", "disk_space"),
			F("attempt", "1"),
		},
	}
}

func TestTextFormatter(t *testing.T) {
	t.Parallel()

	line := TextFormatter{}.Format(sampleEvent())
	assert.Equal(t, "2025-03-14T09:26:53.589Z [INFO] command started command=disk_space attempt=1", line)
}

func TestTextFormatterQuotesAwkwardValues(t *testing.T) {
	t.Parallel()

	e := sampleEvent()
	e.Fields = []Field{F("error", `exit status 1: "no such file"`)}
	line := TextFormatter{}.Format(e)
	assert.Contains(t, line, `error="exit status 1: \"no such file\""`)
}

func TestJSONFormatter(t *testing.T) {
	t.Parallel()

	line := JSONFormatter{}.Format(sampleEvent())

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(line), &decoded))
	assert.Equal(t, "2025-03-14T09:26:53.589Z", decoded["time"])
	assert.Equal(t, "INFO", decoded["level"])
	assert.Equal(t, "command started", decoded["message"])
	assert.Equal(t, "disk_space", decoded["command"])

	// Field order must survive serialization.
	cmd := strings.Index(line, `"command"`)
	att := strings.Index(line, `"attempt"`)
	require.GreaterOrEqual(t, cmd, 0)
	require.GreaterOrEqual(t, att, 0)
	assert.Less(t, cmd, att)
}
