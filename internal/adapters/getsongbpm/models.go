package getsongbpm

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexFloat decodes a numeric field that the API serves either as a JSON
// number or as a quoted string ("120"). Unparseable values decode to zero
// so a single sloppy field never rejects a whole payload.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*f = 0
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			*f = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat(parsed)
		return nil
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// searchResponse is the /search/ payload. The API returns "search" as an
// array of hits, or as an object describing an error; the raw message is
// inspected at the boundary so downstream code never sees the loose shape.
type searchResponse struct {
	Search json.RawMessage `json:"search"`
}

type searchHit struct {
	ID string `json:"id"`
}

// songResponse is the /song/ payload for one candidate id.
type songResponse struct {
	Song *songDetails `json:"song"`
}

type songDetails struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Tempo        flexFloat `json:"tempo"`
	KeyOf        string    `json:"key_of"`
	Danceability flexFloat `json:"danceability"`
	Energy       flexFloat `json:"energy"`
}
