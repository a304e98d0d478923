package supply

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizsupply/internal/question"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest(RawRequest{
		Grade:        "Grade 9",
		Subject:      "maths",
		Difficulty:   "HARD",
		DesiredCount: 25,
	})
	require.NoError(t, err)
	assert.Equal(t, question.Grade(9), req.Grade)
	assert.Equal(t, question.SubjectMath, req.Subject)
	assert.Equal(t, question.DifficultyHard, req.Difficulty)
	assert.Equal(t, 25, req.DesiredCount)
}

func TestParseRequest_Errors(t *testing.T) {
	valid := RawRequest{Grade: "5", Subject: "Reading", Difficulty: "easy", DesiredCount: 10}

	tests := []struct {
		name   string
		mutate func(*RawRequest)
		field  string
	}{
		{"grade too high", func(r *RawRequest) { r.Grade = "13" }, "grade"},
		{"grade not a number", func(r *RawRequest) { r.Grade = "ninth" }, "grade"},
		{"unknown subject", func(r *RawRequest) { r.Subject = "Science" }, "subject"},
		{"unknown difficulty", func(r *RawRequest) { r.Difficulty = "extreme" }, "difficulty"},
		{"too few", func(r *RawRequest) { r.DesiredCount = 4 }, "desiredCount"},
		{"too many", func(r *RawRequest) { r.DesiredCount = 51 }, "desiredCount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := valid
			tt.mutate(&raw)
			_, err := ParseRequest(raw)
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.field, reqErr.Field)
		})
	}
}

func TestParseRequest_UnknownSubjectUnwraps(t *testing.T) {
	_, err := ParseRequest(RawRequest{Grade: "5", Subject: "thinking reasoning", Difficulty: "easy", DesiredCount: 10})
	var unknown *question.UnknownSubjectError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "thinking reasoning", unknown.Label)
}

func TestRawRequest_UnmarshalGrade(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"grade": 7, "subject": "Math"}`, "7"},
		{`{"grade": "7", "subject": "Math"}`, "7"},
		{`{"grade": "Year 7"}`, "Year 7"},
		{`{"subject": "Math"}`, ""},
	}
	for _, tt := range tests {
		var raw RawRequest
		require.NoError(t, json.Unmarshal([]byte(tt.in), &raw), tt.in)
		assert.Equal(t, tt.want, raw.Grade, tt.in)
	}

	var raw RawRequest
	require.NoError(t, json.Unmarshal([]byte(`{"grade": 3, "subject": "English", "difficulty": "medium", "desiredCount": 12, "excludedContentSignatures": ["a"], "seed": 9}`), &raw))
	assert.Equal(t, RawRequest{
		Grade: "3", Subject: "English", Difficulty: "medium", DesiredCount: 12,
		ExcludedContentSignatures: []string{"a"}, Seed: 9,
	}, raw)
}
