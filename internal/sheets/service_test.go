package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "edit url", url: "https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0", want: "1AbC-d_9"},
		{name: "bare id", url: "1AbC-d_9", want: "1AbC-d_9"},
		{name: "other url", url: "https://example.com/sheet", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSpreadsheetID(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChunkDocument(t *testing.T) {
	assert.Equal(t, []string{"abc"}, ChunkDocument("abc", 5))
	assert.Equal(t, []string{"ab", "cd", "e"}, ChunkDocument("abcde", 2))
	assert.Equal(t, []string{"₹₹", "₹"}, ChunkDocument("₹₹₹", 2))
	assert.Equal(t, "abcde", strings.Join(ChunkDocument("abcde", 2), ""))
}

func TestService_ReadDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/values/Bills!A:A") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Bills!A1:A2","majorDimension":"ROWS","values":[["[{\"id\":"],["\"b1\"}]"]]}`))
	}))
	defer srv.Close()

	svc, err := NewSheetsServiceWithOptions(context.Background(),
		"https://docs.google.com/spreadsheets/d/sheet123/edit",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	doc, err := svc.ReadDocument(context.Background(), "Bills")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"b1"}]`, string(doc))
}

func TestService_ReadDocumentEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"Flats!A1","majorDimension":"ROWS"}`))
	}))
	defer srv.Close()

	svc, err := NewSheetsServiceWithOptions(context.Background(), "sheet123",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	doc, err := svc.ReadDocument(context.Background(), "Flats")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDocumentRows(t *testing.T) {
	assert.Equal(t, [][]interface{}{{"ab"}, {"cd"}}, DocumentRows([]string{"ab", "cd"}, 0))
	assert.Equal(t, [][]interface{}{{"ab"}, {""}, {""}}, DocumentRows([]string{"ab"}, 3))
	assert.Equal(t, [][]interface{}{{"ab"}, {"cd"}}, DocumentRows([]string{"ab", "cd"}, 1))
}

func TestService_WriteDocumentBlanksStaleRowsInOneUpdate(t *testing.T) {
	var (
		updatedPath string
		updated     struct {
			Values [][]interface{} `json:"values"`
		}
		otherWrites int
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/values/Bills!A:A"):
			_, _ = w.Write([]byte(`{"range":"Bills!A1:A3","majorDimension":"ROWS","values":[["[{\"id\":"],["\"b1\"},"],["{\"id\":\"b2\"}]"]]}`))
		case r.Method == http.MethodPut:
			updatedPath = r.URL.Path
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
			_, _ = w.Write([]byte(`{}`))
		default:
			otherWrites++
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	svc, err := NewSheetsServiceWithOptions(context.Background(), "sheet123",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	require.NoError(t, svc.WriteDocument(context.Background(), "Bills", []byte(`[]`)))

	assert.True(t, strings.HasSuffix(updatedPath, "/values/Bills!A1:A3"), updatedPath)
	assert.Equal(t, [][]interface{}{{"[]"}, {""}, {""}}, updated.Values)
	assert.Zero(t, otherWrites, "no separate clear request")
}
