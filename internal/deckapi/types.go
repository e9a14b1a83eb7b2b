// Package deckapi provides models for the remote deck lookup service.
package deckapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Response is a decoded deck lookup response.
type Response struct {
	// Name is the deck title. Required.
	Name string `json:"name"`
	// Cards lists the deck entries in the order the service sent them.
	Cards CardList `json:"cards"`
}

// CardEntry is one value of the response's cards object.
type CardEntry struct {
	// Key is the object key the entry was listed under.
	Key        string      `json:"-"`
	ID         ID          `json:"id"`
	Name       string      `json:"name"`
	Img        string      `json:"img"`
	OracleText string      `json:"oracleText"`
	Quantity   int         `json:"quantity"`
	Zone       string      `json:"zone"`
	OtherFaces []FaceEntry `json:"otherFaces"`
}

// FaceEntry is an alternate face of a card.
type FaceEntry struct {
	Name       string `json:"name"`
	Img        string `json:"img"`
	OracleText string `json:"oracleText"`
}

// CardList is the cards object decoded into a slice so that key order survives.
type CardList []CardEntry

// UnmarshalJSON walks the object token by token to keep the provider's ordering.
func (l *CardList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("cards: expected object, got %v", tok)
	}

	out := CardList{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("cards: expected key, got %v", tok)
		}
		var entry CardEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("card %q: %w", key, err)
		}
		entry.Key = key
		out = append(out, entry)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

// MarshalJSON writes the list back as an object in slice order.
func (l CardList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(entry)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ID is a card identifier. The service sends either a JSON string or a
// number; an ID remembers which and encodes back to the same form.
type ID struct {
	s      string
	number bool
}

// StringID returns an ID that encodes as a JSON string.
func StringID(s string) ID {
	return ID{s: s}
}

// IntID returns an ID that encodes as a JSON number.
func IntID(n int64) ID {
	return ID{s: strconv.FormatInt(n, 10), number: true}
}

// String returns the id text, without quotes for numbers.
func (id ID) String() string {
	return id.s
}

// IsNumber reports whether the id arrived as a JSON number.
func (id ID) IsNumber() bool {
	return id.number
}

// UnmarshalJSON decodes a JSON string or number into an ID. Numbers keep
// their literal text.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID{s: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID{s: n.String(), number: true}
	return nil
}

// MarshalJSON writes the id in the form it was decoded from.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.number {
		return []byte(id.s), nil
	}
	return json.Marshal(id.s)
}
