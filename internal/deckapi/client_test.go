package deckapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(nil, srv.URL, srv.Client())
	require.NoError(t, err)
	return c, &calls
}

func TestFetchDeckSuccess(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/deck/4821/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"name":"Test","cards":{
			"B":{"name":"B","img":"b.png","quantity":1,"zone":"ruler","id":7},
			"A":{"name":"A","img":"a.png","quantity":2,"zone":"main","id":"x1",
			     "otherFaces":[{"name":"A2","img":"a2.png","oracleText":"flip"}]}}}`))
	})

	resp, err := c.FetchDeck(context.Background(), "4821")
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())
	require.Equal(t, "Test", resp.Name)
	require.Len(t, resp.Cards, 2)

	// provider order, not alphabetical
	require.Equal(t, "B", resp.Cards[0].Key)
	require.Equal(t, IntID(7), resp.Cards[0].ID)
	require.Equal(t, "A", resp.Cards[1].Key)
	require.Equal(t, StringID("x1"), resp.Cards[1].ID)
	require.Equal(t, 2, resp.Cards[1].Quantity)
	require.Equal(t, []FaceEntry{{Name: "A2", Img: "a2.png", OracleText: "flip"}}, resp.Cards[1].OtherFaces)
}

func TestFetchDeckErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   Kind
	}{
		{name: "not found", status: http.StatusNotFound, body: "nope", kind: KindNotFound},
		{name: "server error", status: http.StatusBadGateway, body: "", kind: KindTransport},
		{name: "empty body", status: http.StatusOK, body: "  \n", kind: KindEmptyResponse},
		{name: "bad json", status: http.StatusOK, body: "{not json", kind: KindMalformed},
		{name: "missing name", status: http.StatusOK, body: `{"cards":{}}`, kind: KindMalformed},
		{name: "null name", status: http.StatusOK, body: `{"name":null,"cards":{}}`, kind: KindMalformed},
		{name: "cards not object", status: http.StatusOK, body: `{"name":"x","cards":[1]}`, kind: KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.FetchDeck(context.Background(), "1")
			require.Error(t, err)
			require.True(t, IsKind(err, tt.kind), "got %v", err)
			require.Equal(t, int32(1), calls.Load(), "no retries")
		})
	}
}

func TestFetchDeckTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(nil, url, nil)
	require.NoError(t, err)

	_, err = c.FetchDeck(context.Background(), "1")
	require.True(t, IsKind(err, KindTransport))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.NotEmpty(t, apiErr.Msg)
}

func TestFetchDeckBlankNameIsLeftToValidator(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"  ","cards":{}}`))
	})

	resp, err := c.FetchDeck(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "  ", resp.Name)
}

func TestCardListRoundTrip(t *testing.T) {
	in := []byte(`{"name":"Deck","cards":{"z":{"id":3,"name":"z","img":"","oracleText":"","quantity":1,"zone":"main","otherFaces":null},"a":{"id":"a-1","name":"a","img":"i","oracleText":"t","quantity":4,"zone":"stone","otherFaces":[{"name":"b","img":"j","oracleText":""}]}}}`)

	var resp Response
	require.NoError(t, json.Unmarshal(in, &resp))

	out, err := json.Marshal(resp)
	require.NoError(t, err)

	var again Response
	require.NoError(t, json.Unmarshal(out, &again))
	require.Equal(t, resp, again)
	require.Equal(t, "z", again.Cards[0].Key)
}

func TestNullCards(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x","cards":null}`), &resp))
	require.Nil(t, resp.Cards)
}
