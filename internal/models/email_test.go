package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipients_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Recipients
	}{
		{"single_string", `"a@example.com"`, Recipients{"a@example.com"}},
		{"array", `["a@example.com","b@example.com"]`, Recipients{"a@example.com", "b@example.com"}},
		{"null", `null`, nil},
		{"empty_string", `""`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Recipients
			require.NoError(t, json.Unmarshal([]byte(tt.input), &r))
			assert.Equal(t, tt.expected, r)
		})
	}
}

func TestRecipients_InvalidShape(t *testing.T) {
	var r Recipients
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &r))
}

func TestRecipients_String(t *testing.T) {
	assert.Equal(t, "a@x, b@x", Recipients{"a@x", "b@x"}.String())
	assert.Equal(t, "", Recipients(nil).String())
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	var rec EmailRecord

	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","date":"1700000000000"}`), &rec))
	assert.Equal(t, Timestamp("1700000000000"), rec.Date)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","date":1700000000001}`), &rec))
	assert.Equal(t, Timestamp("1700000000001"), rec.Date)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","date":null}`), &rec))
	assert.Equal(t, Timestamp(""), rec.Date)
}

func TestTimestamp_Millis(t *testing.T) {
	v, ok := Timestamp("100").Millis()
	assert.True(t, ok)
	assert.Equal(t, float64(100), v)

	_, ok = Timestamp("").Millis()
	assert.False(t, ok)

	_, ok = Timestamp("yesterday").Millis()
	assert.False(t, ok)
}

func TestTimestamp_Time(t *testing.T) {
	ts, ok := Timestamp("1700000000000").Time()
	require.True(t, ok)
	assert.Equal(t, int64(1700000000000), ts.UnixMilli())
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(EmailRecord{ID: "1"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":null`)
	assert.Contains(t, string(data), `"to":[]`)

	data, err = json.Marshal(EmailRecord{ID: "1", Date: "42"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date":"42"`)
}

func TestClassifiedEmailRecord_FlatShape(t *testing.T) {
	input := `{
		"id": "m1",
		"from": "alice@example.com",
		"to": ["me@example.com"],
		"subject": "Invoice",
		"snippet": "Please pay",
		"date": "1700000000000",
		"thread_id": "t1",
		"category": "finance",
		"confidence": 0.92,
		"reasoning": "mentions invoice",
		"summary": null
	}`

	var rec ClassifiedEmailRecord
	require.NoError(t, json.Unmarshal([]byte(input), &rec))

	assert.Equal(t, "m1", rec.ID)
	assert.Equal(t, "m1", rec.Key())
	assert.Equal(t, Recipients{"me@example.com"}, rec.To)
	assert.Equal(t, "finance", rec.Category)
	require.NotNil(t, rec.Confidence)
	assert.InDelta(t, 0.92, *rec.Confidence, 1e-9)
	require.NotNil(t, rec.Reasoning)
	assert.Equal(t, "mentions invoice", *rec.Reasoning)
	assert.Nil(t, rec.Summary)
}

func TestClassifiedEmailRecord_NestedClassification(t *testing.T) {
	input := `{
		"id": "m2",
		"subject": "Standup",
		"classification": {
			"category": "work",
			"confidence": 0.5,
			"reasoning": "meeting",
			"summary": "daily standup moved"
		}
	}`

	var rec ClassifiedEmailRecord
	require.NoError(t, json.Unmarshal([]byte(input), &rec))

	assert.Equal(t, "work", rec.Category)
	require.NotNil(t, rec.Confidence)
	assert.InDelta(t, 0.5, *rec.Confidence, 1e-9)
	require.NotNil(t, rec.Summary)
	assert.Equal(t, "daily standup moved", *rec.Summary)
}

func TestClassifiedEmailRecord_FlatWinsOverNested(t *testing.T) {
	input := `{"id":"m3","category":"personal","classification":{"category":"work"}}`

	var rec ClassifiedEmailRecord
	require.NoError(t, json.Unmarshal([]byte(input), &rec))
	assert.Equal(t, "personal", rec.Category)
}

func TestClassifiedEmailRecord_RoundTripKeepsFlatShape(t *testing.T) {
	conf := 0.75
	rec := ClassifiedEmailRecord{
		EmailRecord: EmailRecord{ID: "m4", Subject: "Hi"},
		Category:    "social",
		Confidence:  &conf,
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category":"social"`)
	assert.NotContains(t, string(data), "classification")

	var back ClassifiedEmailRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestRespondResult_DecodesGmailResponse(t *testing.T) {
	input := `{
		"status": "sent",
		"email_id": "m1",
		"to": "alice@example.com",
		"from": "me@example.com",
		"subject": "Re: Invoice",
		"draft": "Paid, thanks.",
		"gmail_response": {"id": "g-1", "threadId": "t-1", "labelIds": ["SENT"]}
	}`

	var res RespondResult
	require.NoError(t, json.Unmarshal([]byte(input), &res))

	assert.True(t, res.Sent())
	assert.Equal(t, "g-1", res.MessageID())
	require.NotNil(t, res.GmailResponse)
	assert.Equal(t, "t-1", res.GmailResponse.ThreadId)
	assert.Equal(t, []string{"SENT"}, res.GmailResponse.LabelIds)
}

func TestRespondResult_NilSafe(t *testing.T) {
	var res *RespondResult
	assert.False(t, res.Sent())
	assert.Equal(t, "", res.MessageID())
	assert.False(t, (&RespondResult{Status: "queued"}).Sent())
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"rfc3339", "2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), true},
		{"rfc3339_offset", "2024-05-01T12:00:00+02:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), true},
		{"python_isoformat", "2024-05-01T10:00:00.123000", time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC), true},
		{"space_separated", "2024-05-01 10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInstant(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestRespondedEmailRecord_Helpers(t *testing.T) {
	rec := RespondedEmailRecord{SentAt: "2024-05-01T10:00:00Z", GmailResponse: &GmailResponse{Id: "g-9"}}
	ts, ok := rec.SentTime()
	assert.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, "g-9", rec.MessageID())
	assert.Equal(t, "", RespondedEmailRecord{}.MessageID())
}
