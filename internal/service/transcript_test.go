package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromJSON(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestNormalizeSpaces(t *testing.T) {
	assert.Equal(t, "Help is on the way.", normalizeSpaces("Help is on the  way ."))
	assert.Equal(t, "Okay, stay calm!", normalizeSpaces("Okay ,  stay calm !"))
	assert.Equal(t, "(inaudible)", normalizeSpaces("(  inaudible  )"))
	assert.Equal(t, "", normalizeSpaces("   "))
}

func TestExtractCleanLinesFromDiarizedParticipants(t *testing.T) {
	doc := docFromJSON(t, `{
		"participantOne": {
			"phrases": ["Dispatcher: 911, what's your emergency?", "Can you tell me", "your exact address?"],
			"phraseSegments": [
				{"phraseIndex": 0, "startTimeOffset": 0},
				{"phraseIndex": 1, "startTimeOffset": 4000},
				{"phraseIndex": 2, "startTimeOffset": 5000}
			]
		},
		"participantTwo": {
			"phrases": ["Caller: I'm having chest pain, it's really bad."],
			"phraseSegments": [{"phraseIndex": 0, "startTimeOffset": 2000}]
		}
	}`)

	lines := ExtractCleanLines(doc)
	require.Len(t, lines, 3)
	// chronological across participants, speaker prefixes stripped
	assert.Equal(t, "911, what's your emergency?", lines[0])
	assert.Equal(t, "I'm having chest pain, it's really bad.", lines[1])
	assert.Equal(t, "Can you tell me your exact address?", lines[2])
}

func TestExtractCleanLinesFromChannels(t *testing.T) {
	doc := docFromJSON(t, `{
		"channels": [
			{"results": [
				{"start": 0, "text": "Operator: Where are you located?"},
				{"start": 3, "text": "456 Oak Avenue."}
			]}
		]
	}`)

	lines := ExtractCleanLines(doc)
	require.Len(t, lines, 2)
	assert.Equal(t, "Where are you located?", lines[0])
	assert.Equal(t, "456 Oak Avenue.", lines[1])
}

func TestExtractCleanLinesPlainTranscriptFallback(t *testing.T) {
	doc := docFromJSON(t, `{"transcript": "Fire department is on the way. Stay clear of the building."}`)

	lines := ExtractCleanLines(doc)
	require.Len(t, lines, 2)
	assert.Equal(t, "Fire department is on the way.", lines[0])
	assert.Equal(t, "Stay clear of the building.", lines[1])
}

func TestExtractCleanLinesNoTerminatorsJoinsOnce(t *testing.T) {
	doc := docFromJSON(t, `{
		"allParticipants": {
			"phrases": ["so the thing is", "we never finished"],
			"phraseSegments": [
				{"phraseIndex": 0, "startTimeOffset": 0},
				{"phraseIndex": 1, "startTimeOffset": 1}
			]
		}
	}`)

	lines := ExtractCleanLines(doc)
	require.Len(t, lines, 1)
	assert.Equal(t, "so the thing is we never finished", lines[0])
}

func TestExtractCleanLinesEmptyAndMalformed(t *testing.T) {
	assert.Nil(t, ExtractCleanLines(nil))
	assert.Nil(t, ExtractCleanLines(map[string]interface{}{}))

	// segment pointing outside the phrase array is skipped, not fatal
	doc := docFromJSON(t, `{
		"participantOne": {
			"phrases": ["Hello."],
			"phraseSegments": [{"phraseIndex": 7, "startTimeOffset": 0}]
		}
	}`)
	assert.Nil(t, ExtractCleanLines(doc))
}
