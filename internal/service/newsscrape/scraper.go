package newsscrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	xhttp "StockPulse/pkg/http"
	"StockPulse/pkg/util"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrNoDate            = errors.New("newsscrape: no date element")
	ErrUnknownDateFormat = errors.New("newsscrape: unrecognized date format")
)

// DateSelector lists the publication-date elements of the curated sources, highest priority first.
const DateSelector = "p.date, time, .p-news-head__date, .news-detail-date-wrap"

// DateLayouts are tried in order on the extracted text.
var DateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan. 2, 2006",
	time.RFC3339,
}

// Scraper resolves an article URL to its publication day.
type Scraper struct {
	http     *xhttp.Client
	selector string
	layouts  []string
}

func New(h *xhttp.Client) *Scraper {
	if h == nil {
		h = xhttp.NewClient(xhttp.WithTimeout(15 * time.Second))
	}
	return &Scraper{http: h, selector: DateSelector, layouts: DateLayouts}
}

// PublishedOn fetches url and extracts its publication day.
func (s *Scraper) PublishedOn(ctx context.Context, url string) (time.Time, error) {
	body, err := s.http.GetBytes(ctx, &xhttp.RequestOptions{URL: url})
	if err != nil {
		return time.Time{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	return s.ExtractDate(body)
}

// ExtractDate finds the first matching element in document order and parses
// its datetime attribute, falling back to its text.
func (s *Scraper) ExtractDate(html []byte) (time.Time, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse html: %w", err)
	}
	sel := doc.Find(s.selector).First()
	if sel.Length() == 0 {
		return time.Time{}, ErrNoDate
	}
	raw, ok := sel.Attr("datetime")
	if !ok {
		raw = sel.Text()
	}
	raw = strings.Join(strings.Fields(raw), " ")
	day, ok := util.ParseDateLayouts(raw, s.layouts...)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownDateFormat, raw)
	}
	return day, nil
}
