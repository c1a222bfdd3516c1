package newsscrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestParseNewsFile(t *testing.T) {
	in := strings.Join([]string{
		"https://global.toyota/en/newsroom/1 -> earnings",
		"",
		"not a news line",
		"https://example.com/2->recall",
		" -> orphan",
		"https://example.com/3 -> product -> extra",
	}, "\n")

	entries, err := ParseNewsFile(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Line: 1, URL: "https://global.toyota/en/newsroom/1", Type: "earnings"}, entries[0])
	assert.Equal(t, "recall", entries[1].Type)
	assert.Equal(t, 4, entries[1].Line)
	assert.Equal(t, "product -> extra", entries[2].Type)
}

func TestExtractDate(t *testing.T) {
	s := New(nil)
	cases := []struct {
		name string
		html string
		want time.Time
	}{
		{"time datetime attr", `<html><body><time datetime="2024-02-05">Feb 5</time></body></html>`, d(2024, 2, 5)},
		{"p.date long month", `<p class="date">January 9, 2024</p>`, d(2024, 1, 9)},
		{"abbrev month", `<div class="p-news-head__date"> Mar. 4, 2023 </div>`, d(2023, 3, 4)},
		{"first in document order", `<div class="news-detail-date-wrap">2022-05-01</div><time>2021-01-01</time>`, d(2022, 5, 1)},
		{"rfc3339 attr", `<time datetime="2024-06-30T08:00:00Z"></time>`, d(2024, 6, 30)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ExtractDate([]byte(tc.html))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractDateErrors(t *testing.T) {
	s := New(nil)
	_, err := s.ExtractDate([]byte(`<html><body><span>2024-01-01</span></body></html>`))
	require.ErrorIs(t, err, ErrNoDate)

	_, err = s.ExtractDate([]byte(`<p class="date">yesterday</p>`))
	require.ErrorIs(t, err, ErrUnknownDateFormat)
}

func TestPublishedOn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<p class="date">Jan. 15, 2024</p>`))
	}))
	defer srv.Close()

	s := New(nil)
	got, err := s.PublishedOn(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.Equal(t, d(2024, 1, 15), got)

	_, err = s.PublishedOn(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
}
