package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/docseek-io/filing-lookup/adapter/fetcher"
	"github.com/docseek-io/filing-lookup/adapter/logger/console"
	"github.com/docseek-io/filing-lookup/adapter/queue"
	"github.com/docseek-io/filing-lookup/adapter/queue/buffer"
	"github.com/pkg/errors"
)

const manifest = `{
	"filings": {
		"recent": {
			"form": ["10-K", "8-K", "10-K"],
			"accessionNumber": ["0001-23-000111", "0002-23-000222", "0003-23-000333"],
			"filingDate": ["2023-01-01", "2023-02-01", "2023-03-01"]
		}
	}
}`

type stubFetcher struct {
	status int
	body   string
	err    error
	gotURL string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (*fetcher.Response, error) {
	f.gotURL = url
	if f.err != nil {
		return nil, f.err
	}
	return &fetcher.Response{StatusCode: f.status, Body: []byte(f.body)}, nil
}

type stubResolver struct{}

func (r *stubResolver) Resolve(ctx context.Context, cik, accessionStripped string) string {
	return fmt.Sprintf("https://www.sec.gov/Archives/edgar/data/%s/%s/doc.htm", cik, accessionStripped)
}

func TestFilings(t *testing.T) {
	f := &stubFetcher{status: http.StatusOK, body: manifest}
	s := New(f, &stubResolver{}, console.New())

	got := s.Filings(context.Background(), "1415995", "10-K")

	if f.gotURL != "https://data.sec.gov/submissions/CIK0001415995.json" {
		t.Errorf("Fetched '%s', want the padded manifest URL", f.gotURL)
	}
	if len(got) != 2 {
		t.Fatalf("Got %d records, want 2", len(got))
	}

	// manifest order is preserved, no re-sorting
	if got[0].FilingDate != "2023-01-01" || got[1].FilingDate != "2023-03-01" {
		t.Errorf(
			"Got dates '%s' and '%s', want '2023-01-01' and '2023-03-01'",
			got[0].FilingDate,
			got[1].FilingDate,
		)
	}
	for _, rec := range got {
		if len(rec.DocumentURL) < 1 {
			t.Error("Record is missing its document URL")
		}
		if rec.Form != "10-K" {
			t.Errorf("Got form '%s', want '10-K'", rec.Form)
		}
	}
	if got[1].Accession.Stripped != "000323000333" {
		t.Errorf("Got stripped accession '%s', want '000323000333'", got[1].Accession.Stripped)
	}
}

func TestFilingsDegradation(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *stubFetcher
	}{
		{
			"Fetch error",
			&stubFetcher{err: errors.New("no such host")},
		},
		{
			"Non success status",
			&stubFetcher{status: http.StatusNotFound, body: "not found"},
		},
		{
			"Undecodable body",
			&stubFetcher{status: http.StatusOK, body: "<html>definitely not json</html>"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := New(test.fetcher, &stubResolver{}, console.New())
			got := s.Filings(context.Background(), "1415995", "10-K")
			if len(got) != 0 {
				t.Errorf("Got %d records, want empty result", len(got))
			}
		})
	}
}

func TestFilingsRaggedManifest(t *testing.T) {
	// the second 10-K row has no filing date, it must be skipped silently
	ragged := `{
		"filings": {
			"recent": {
				"form": ["10-K", "10-K"],
				"accessionNumber": ["0001-23-000111", "0003-23-000333"],
				"filingDate": ["2023-01-01"]
			}
		}
	}`
	f := &stubFetcher{status: http.StatusOK, body: ragged}
	s := New(f, &stubResolver{}, console.New())

	got := s.Filings(context.Background(), "1415995", "10-K")
	if len(got) != 1 {
		t.Fatalf("Got %d records, want 1", len(got))
	}
	if got[0].FilingDate != "2023-01-01" {
		t.Errorf("Got date '%s', want '2023-01-01'", got[0].FilingDate)
	}
}

func TestFilingsAsync(t *testing.T) {
	f := &stubFetcher{status: http.StatusOK, body: manifest}
	s := New(f, &stubResolver{}, console.New())

	q := buffer.New()
	s.FilingsAsync(context.Background(), "1415995", "10-K", q)

	dates := []string{}
	for {
		data, err := q.RecvMessage()
		if err != nil {
			break
		}
		msg := &queue.RecordMessage{}
		if err := json.Unmarshal(data, msg); err != nil {
			t.Fatal(err.Error())
		}
		dates = append(dates, msg.FilingDate)
	}

	if len(dates) != 2 {
		t.Fatalf("Got %d messages, want 2", len(dates))
	}
	if dates[0] != "2023-01-01" || dates[1] != "2023-03-01" {
		t.Errorf("Got dates %v, want manifest order", dates)
	}
}
