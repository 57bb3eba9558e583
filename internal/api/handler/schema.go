package handler

import (
	"bytes"
	"encoding/json"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// Bodies arrive either as JSON or as an HTML form post, so every field carries
// both tags.

type createUserRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
}

// addExerciseRequest carries no validate tags: the service resolves the user
// first and only then checks the fields, so an unknown id is always a 404.
type addExerciseRequest struct {
	Description string     `json:"description" form:"description"`
	Duration    numberText `json:"duration"    form:"duration"`
	Date        string     `json:"date"        form:"date"`
}

// numberText keeps a numeric field as text. It accepts a JSON number, a JSON
// string or a form value; any other JSON token is kept verbatim so the service
// reports it as not a number.
type numberText string

func (n *numberText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*n = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = numberText(s)
	default:
		*n = numberText(b)
	}
	return nil
}

// --- Response types ---

type userResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

type exerciseResponse struct {
	ID          string `json:"_id"`
	Username    string `json:"username"`
	Date        string `json:"date"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
}

type logEntryResponse struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

type logResponse struct {
	ID       string             `json:"_id"`
	Username string             `json:"username"`
	From     string             `json:"from,omitempty"`
	To       string             `json:"to,omitempty"`
	Count    int                `json:"count"`
	Log      []logEntryResponse `json:"log"`
}
