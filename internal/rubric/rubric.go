package rubric

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Criterion is one scored rubric item. The wire form is either an object
// {"score": 8, "max_score": 10} with max_score defaulting to 10, or a bare
// number graded against an assumed maximum of 10. Malformed wire forms are
// kept, flagged, so validation can report every problem in one pass instead
// of failing the request parse.
type Criterion struct {
	Score    float64
	MaxScore float64
	// Bare marks values that arrived as a plain number instead of an object.
	Bare bool
	// ScoreMissing marks object forms without a score key.
	ScoreMissing bool
	// ScoreInvalid marks object forms whose score is not a number.
	ScoreInvalid bool
	// MaxScoreInvalid marks object forms whose max_score is not a number.
	MaxScoreInvalid bool
	// Malformed marks values that are neither an object nor a number.
	Malformed bool
}

// UnmarshalJSON accepts both wire forms and never rejects a structurally
// valid JSON value; shape problems are recorded on the criterion instead.
func (c *Criterion) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		c.Malformed = true
		return nil
	}

	if trimmed[0] == '{' {
		var fields struct {
			Score    json.RawMessage `json:"score"`
			MaxScore json.RawMessage `json:"max_score"`
		}
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return err
		}

		c.MaxScore = 10
		if fields.MaxScore != nil {
			if v, ok := parseNumber(fields.MaxScore); ok {
				c.MaxScore = v
			} else {
				c.MaxScoreInvalid = true
			}
		}

		if fields.Score == nil {
			c.ScoreMissing = true
			return nil
		}
		if v, ok := parseNumber(fields.Score); ok {
			c.Score = v
		} else {
			c.ScoreInvalid = true
		}
		return nil
	}

	if v, ok := parseNumber(trimmed); ok {
		c.Score = v
		c.Bare = true
		return nil
	}

	c.Malformed = true
	return nil
}

// MarshalJSON writes the criterion back in its original wire form.
func (c Criterion) MarshalJSON() ([]byte, error) {
	if c.Bare {
		return json.Marshal(c.Score)
	}
	return json.Marshal(struct {
		Score    float64 `json:"score"`
		MaxScore float64 `json:"max_score"`
	}{c.Score, c.MaxScore})
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || n == "" {
		return 0, false
	}
	v, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return v, true
}

// Entry pairs a criterion with its name.
type Entry struct {
	Name      string
	Criterion Criterion
}

// Rubric is the ordered set of scored criteria from one evaluation request.
// JSON objects decode into it with key order preserved so prompts list the
// criteria the way the caller wrote them; a Go map would shuffle that order.
type Rubric struct {
	Entries []Entry
	// Malformed marks payloads whose rubric_data was not a JSON object.
	Malformed bool
}

// UnmarshalJSON walks the object tokens in document order.
func (r *Rubric) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		r.Malformed = true
		return nil
	}

	entries := []Entry{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("rubric key is not a string")
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var criterion Criterion
		if err := json.Unmarshal(raw, &criterion); err != nil {
			return err
		}
		entries = append(entries, Entry{Name: key, Criterion: criterion})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	r.Entries = entries
	return nil
}

// MarshalJSON writes the criteria back as an object in entry order.
func (r Rubric) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range r.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(entry.Criterion)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Present reports whether the request carried a rubric at all.
func (r Rubric) Present() bool {
	return r.Malformed || r.Entries != nil
}
