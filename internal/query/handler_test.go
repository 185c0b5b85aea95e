package query

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-sod/kdset/internal/index"
	"github.com/go-sod/kdset/pkg/geom"
)

var samplePoints = []geom.Point{
	{X: 0.7, Y: 0.2},
	{X: 0.5, Y: 0.4},
	{X: 0.2, Y: 0.3},
	{X: 0.4, Y: 0.7},
	{X: 0.9, Y: 0.6},
}

var testConfig = &Config{RequestTimeout: time.Minute, MaxDataItemsLen: 3, MaxConcurrentLookups: 2}

func newIndex(t *testing.T, points ...geom.Point) index.Manager {
	t.Helper()
	idx, err := index.New(context.Background(), index.WithSeed(points))
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
}

func TestContainsHandler(t *testing.T) {
	t.Parallel()
	h, err := NewContainsHandler(testConfig, newIndex(t, samplePoints...))
	if err != nil {
		t.Fatal(err)
	}

	w := post(t, h, `{"points": [{"x": 0.5, "y": 0.4}, {"x": 0.5, "y": 0.5}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status code, got: %d, expected: %d", w.Code, http.StatusOK)
	}
	var got containsResponse
	decode(t, w, &got)
	expected := []containsItem{
		{Point: geom.Point{X: 0.5, Y: 0.4}, Contains: true},
		{Point: geom.Point{X: 0.5, Y: 0.5}, Contains: false},
	}
	if len(got.Data) != len(expected) {
		t.Fatalf("items, got: %s", spew.Sdump(got))
	}
	for i := range expected {
		if got.Data[i] != expected[i] {
			t.Errorf("item %d, got: %+v, expected: %+v", i, got.Data[i], expected[i])
		}
	}

	if w := post(t, h, `{"points": [{"x": 0.1, "y": 0.1}, {"x": 0.2, "y": 0.2}, {"x": 0.3, "y": 0.3}, {"x": 0.4, "y": 0.4}]}`); w.Code != http.StatusBadRequest {
		t.Errorf("too many items, got: %d, expected: %d", w.Code, http.StatusBadRequest)
	}
}

func TestRangeHandler(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expected       []geom.Point
	}{
		{
			name:           "positive",
			body:           `{"rect": {"xmin": 0, "ymin": 0, "xmax": 0.5, "ymax": 0.5}}`,
			expectedStatus: http.StatusOK,
			expected:       []geom.Point{{X: 0.2, Y: 0.3}, {X: 0.5, Y: 0.4}},
		},
		{
			name:           "no_match",
			body:           `{"rect": {"xmin": 0.95, "ymin": 0.95, "xmax": 1, "ymax": 1}}`,
			expectedStatus: http.StatusOK,
			expected:       []geom.Point{},
		},
		{
			name:           "degenerate",
			body:           `{"rect": {"xmin": 0.7, "ymin": 0.2, "xmax": 0.7, "ymax": 0.2}}`,
			expectedStatus: http.StatusOK,
			expected:       []geom.Point{{X: 0.7, Y: 0.2}},
		},
		{
			name:           "inverted",
			body:           `{"rect": {"xmin": 0.5, "ymin": 0, "xmax": 0.1, "ymax": 0.5}}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing_rect",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
	}
	h, err := NewRangeHandler(testConfig, newIndex(t, samplePoints...))
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			w := post(t, h, test.body)
			if w.Code != test.expectedStatus {
				t.Fatalf("status code, got: %d, expected: %d, body: %s", w.Code, test.expectedStatus, w.Body.String())
			}
			if test.expectedStatus != http.StatusOK {
				var errResp struct {
					Error string `json:"error"`
				}
				decode(t, w, &errResp)
				if errResp.Error == "" {
					t.Errorf("error body must carry a message, got: %s", w.Body.String())
				}
				return
			}
			var got rangeResponse
			decode(t, w, &got)
			if got.Points == nil {
				t.Fatalf("points must be an array, got: %s", w.Body.String())
			}
			sort.Slice(got.Points, func(i, j int) bool { return got.Points[i].Compare(got.Points[j]) < 0 })
			if len(got.Points) != len(test.expected) {
				t.Fatalf("points, got: %v, expected: %v", got.Points, test.expected)
			}
			for i := range test.expected {
				if !got.Points[i].Equal(test.expected[i]) {
					t.Errorf("points, got: %v, expected: %v", got.Points, test.expected)
				}
			}
		})
	}
}

func TestNearestHandler(t *testing.T) {
	t.Parallel()
	h, err := NewNearestHandler(testConfig, newIndex(t, samplePoints...))
	if err != nil {
		t.Fatal(err)
	}
	w := post(t, h, `{"points": [{"x": 0.55, "y": 0.4}, {"x": 0, "y": 0}, {"x": 1, "y": 1}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status code, got: %d, body: %s", w.Code, w.Body.String())
	}
	var got nearestResponse
	decode(t, w, &got)
	expected := []geom.Point{{X: 0.5, Y: 0.4}, {X: 0.2, Y: 0.3}, {X: 0.9, Y: 0.6}}
	if len(got.Data) != len(expected) {
		t.Fatalf("items, got: %s", spew.Sdump(got))
	}
	for i, e := range expected {
		item := got.Data[i]
		if !item.Found || item.Nearest == nil || !item.Nearest.Equal(e) {
			t.Errorf("item %d, got: %s, expected nearest: %v", i, spew.Sdump(item), e)
		}
	}
}

func TestNearestHandler_EmptyIndex(t *testing.T) {
	t.Parallel()
	h, err := NewNearestHandler(testConfig, newIndex(t))
	if err != nil {
		t.Fatal(err)
	}
	w := post(t, h, `{"points": [{"x": 0.5, "y": 0.5}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status code, got: %d, body: %s", w.Code, w.Body.String())
	}
	var got nearestResponse
	decode(t, w, &got)
	if len(got.Data) != 1 || got.Data[0].Found || got.Data[0].Nearest != nil {
		t.Errorf("empty index must report found=false, got: %s", w.Body.String())
	}
}

func TestSizeHandler(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		points   []geom.Point
		expected sizeResponse
	}{
		{name: "empty", expected: sizeResponse{Size: 0, Empty: true}},
		{name: "sample", points: samplePoints, expected: sizeResponse{Size: 5, Empty: false}},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			h, err := NewSizeHandler(newIndex(t, test.points...))
			if err != nil {
				t.Fatal(err)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/size", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("status code, got: %d", w.Code)
			}
			var got sizeResponse
			decode(t, w, &got)
			if got != test.expected {
				t.Errorf("size, got: %+v, expected: %+v", got, test.expected)
			}

			w = httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/size", nil))
			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("status code, got: %d, expected: %d", w.Code, http.StatusMethodNotAllowed)
			}
		})
	}
}

func TestNewHandlers_NilIndex(t *testing.T) {
	t.Parallel()
	if _, err := NewContainsHandler(testConfig, nil); err == nil {
		t.Errorf("contains handler without an index must fail")
	}
	if _, err := NewRangeHandler(testConfig, nil); err == nil {
		t.Errorf("range handler without an index must fail")
	}
	if _, err := NewNearestHandler(testConfig, nil); err == nil {
		t.Errorf("nearest handler without an index must fail")
	}
	if _, err := NewSizeHandler(nil); err == nil {
		t.Errorf("size handler without an index must fail")
	}
}
