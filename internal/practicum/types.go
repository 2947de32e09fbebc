package practicum

import (
	"bytes"
	"encoding/json"
)

// Homework is one submission record from the status endpoint. Fields are
// pointers so ParseStatus can tell "absent" from "empty".
type Homework struct {
	Name   *string `json:"homework_name"`
	Status *string `json:"status"`
}

// StatusResponse is a validated poll response. Homeworks is ordered newest
// first, matching the endpoint; CurrentDate is the server's unix timestamp
// and becomes the next poll cursor.
type StatusResponse struct {
	Homeworks   []Homework
	CurrentDate int64
}

type rawResponse struct {
	Homeworks   json.RawMessage `json:"homeworks"`
	CurrentDate *int64          `json:"current_date"`
}

// DecodeResponse decodes and validates a response body. The homeworks field
// must be present and list-shaped; anything else is a validation failure.
func DecodeResponse(body []byte) (*StatusResponse, error) {
	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, validationErr("response is not valid JSON", err)
	}

	hwRaw := bytes.TrimSpace(raw.Homeworks)
	if len(hwRaw) == 0 || bytes.Equal(hwRaw, []byte("null")) {
		return nil, validationErr("response has no homeworks field", nil)
	}
	if hwRaw[0] != '[' {
		return nil, validationErr("homeworks is not a list", nil)
	}

	var hws []Homework
	if err := json.Unmarshal(hwRaw, &hws); err != nil {
		return nil, validationErr("homeworks is not a list of records", err)
	}

	// current_date becomes the next poll cursor; without it the cursor
	// would silently roll back to zero.
	if raw.CurrentDate == nil {
		return nil, validationErr("response has no current_date field", nil)
	}

	return &StatusResponse{Homeworks: hws, CurrentDate: *raw.CurrentDate}, nil
}
