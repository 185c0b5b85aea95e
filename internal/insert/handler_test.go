package insert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-sod/kdset/internal/index"
)

func TestHandler_ServeHTTP(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expected       response
	}{
		{
			name:           "positive",
			body:           `{"points": [{"x": 0.7, "y": 0.2}, {"x": 0.5, "y": 0.4}, {"x": 0.7, "y": 0.2}]}`,
			expectedStatus: http.StatusOK,
			expected:       response{Inserted: 2, Size: 2},
		},
		{
			name:           "empty_batch",
			body:           `{"points": []}`,
			expectedStatus: http.StatusOK,
			expected:       response{Inserted: 0, Size: 0},
		},
		{
			name:           "out_of_domain",
			body:           `{"points": [{"x": 1.7, "y": 0.2}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "too_many_items",
			body:           `{"points": [{"x": 0.1, "y": 0.1}, {"x": 0.2, "y": 0.2}, {"x": 0.3, "y": 0.3}, {"x": 0.4, "y": 0.4}]}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed",
			body:           `{"points": [`,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			idx, err := index.New(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			h, err := NewHandler(&Config{RequestTimeout: time.Minute, MaxDataItemsLen: 3}, idx)
			if err != nil {
				t.Fatal(err)
			}

			r := httptest.NewRequest(http.MethodPost, "/insert", strings.NewReader(test.body))
			r.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if w.Code != test.expectedStatus {
				t.Fatalf("status code, got: %d, expected: %d, body: %s", w.Code, test.expectedStatus, w.Body.String())
			}
			if test.expectedStatus != http.StatusOK {
				if idx.Len() != 0 {
					t.Errorf("rejected request changed the index, size: %d", idx.Len())
				}
				return
			}
			var got response
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if got != test.expected {
				t.Errorf("response, got: %+v, expected: %+v", got, test.expected)
			}
		})
	}
}

func TestNewHandler_NilIndex(t *testing.T) {
	t.Parallel()
	if _, err := NewHandler(&Config{}, nil); err == nil {
		t.Errorf("creating a handler without an index must fail")
	}
}
