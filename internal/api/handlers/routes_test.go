package handlers

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTooManyCells(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{5, 5, false},
		{MaxAdHocCells, 1, false},
		{MaxAdHocCells + 1, 1, true},
		{1000, 1000, true},
		{math.MaxInt, math.MaxInt, true},
		{math.MaxInt / 2, 3, true},
		{0, math.MaxInt, false},
		{-4, 5, false},
	}
	for _, tc := range tests {
		if got := tooManyCells(tc.w, tc.h); got != tc.want {
			t.Fatalf("tooManyCells(%d, %d) = %v, want %v", tc.w, tc.h, got, tc.want)
		}
	}
}

func TestRouteRejectsHugeGridWithoutPanicking(t *testing.T) {
	h := &RouteHandler{}
	for _, body := range []string{
		`{"grid_width": 4294967296, "grid_height": 4294967296, "end_x": 1}`,
		`{"grid_width": 9223372036854775807, "grid_height": 2}`,
		`{"grid_width": -3, "grid_height": -3}`,
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/route", strings.NewReader(body))
		h.Route(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}
