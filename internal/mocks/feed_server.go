// internal/mocks/feed_server.go
package mocks

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
)

// RatesByDate returns the rates the fake feed publishes for a day
type RatesByDate func(date time.Time) map[string]float64

// FeedServer is an httptest server speaking the national bank rate feed format
type FeedServer struct {
	*httptest.Server

	delay    atomic.Int64
	status   atomic.Int64
	requests atomic.Int64
}

// NewFeedServer starts a fake feed publishing rates
func NewFeedServer(rates RatesByDate) *FeedServer {
	fs := &FeedServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.requests.Add(1)

		if delay := time.Duration(fs.delay.Load()); delay > 0 {
			time.Sleep(delay)
		}

		if status := int(fs.status.Load()); status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}

		fdate := r.URL.Query().Get("fdate")
		date, err := entity.ParseFeedDate(fdate)
		if err != nil {
			http.Error(w, "bad fdate", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		fmt.Fprint(w, RatesDocument(fdate, rates(date)))
	}))
	return fs
}

// SetDelay delays every following response by d
func (fs *FeedServer) SetDelay(d time.Duration) {
	fs.delay.Store(int64(d))
}

// SetStatus makes every following response fail with status, or succeed again when 0
func (fs *FeedServer) SetStatus(status int) {
	fs.status.Store(int64(status))
}

// FeedURL is the feed endpoint, suitable for NewNBKClient
func (fs *FeedServer) FeedURL() string {
	return fs.Server.URL + "/rss/get_rates.cfm"
}

// Requests reports how many requests the server has handled
func (fs *FeedServer) Requests() int64 {
	return fs.requests.Load()
}

// RatesDocument renders rates as a feed document for fdate
func RatesDocument(fdate string, rates map[string]float64) string {
	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n<rates>\n")
	fmt.Fprintf(&b, "  <date>%s</date>\n", fdate)
	for _, code := range codes {
		fmt.Fprintf(&b, "  <item>\n    <fullname>%s</fullname>\n    <title>%s</title>\n    <description>%.2f</description>\n    <quant>1</quant>\n  </item>\n",
			code, code, rates[code])
	}
	b.WriteString("</rates>\n")
	return b.String()
}
