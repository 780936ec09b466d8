package lookup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/docseek-io/filing-lookup/adapter/fetcher"
	"github.com/docseek-io/filing-lookup/adapter/logger"
	"github.com/docseek-io/filing-lookup/adapter/queue"
	"github.com/docseek-io/filing-lookup/domain/filing"
	"github.com/google/uuid"
)

const manifestURL = "https://data.sec.gov/submissions/CIK%s.json"

// Resolver turns a filing's storage folder into the URL of its primary
// document
type Resolver interface {
	Resolve(ctx context.Context, cik, accessionStripped string) string
}

type Service struct {
	fetcher  fetcher.Fetcher
	resolver Resolver
	logger   logger.Logger
}

func New(f fetcher.Fetcher, r Resolver, l logger.Logger) *Service {
	return &Service{fetcher: f, resolver: r, logger: l}
}

// the recent filings manifest lists parallel arrays, position i of each
// array describes the same filing
type manifestResponse struct {
	Filings struct {
		Recent manifestData `json:"recent"`
	} `json:"filings"`
}

type manifestData struct {
	Forms       []string `json:"form"`
	Accessions  []string `json:"accessionNumber"`
	FilingDates []string `json:"filingDate"`
}

// Filings returns the issuer's recent filings of the given form, each with
// its primary document resolved, in manifest order. It never fails: any
// upstream problem is logged and degrades the result to an empty slice.
func (s *Service) Filings(ctx context.Context, cik, form string) []*filing.Record {

	cik = filing.PadCik(cik)
	url := fmt.Sprintf(manifestURL, cik)
	s.logger.Log(fmt.Sprintf("Fetching filings for cik '%s'", cik))

	records := []*filing.Record{}

	res, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Log(fmt.Sprintf(
			"Fetch error for cik '%s' form '%s' at '%s': %s", cik, form, url, err.Error(),
		))
		return records
	}
	if !res.Success() {
		s.logger.Log(fmt.Sprintf(
			"Got status code %d for cik '%s' form '%s' at '%s'", res.StatusCode, cik, form, url,
		))
		return records
	}

	manifest := &manifestResponse{}
	if err := json.Unmarshal(res.Body, manifest); err != nil {
		s.logger.Log(fmt.Sprintf(
			"Decode error for cik '%s' form '%s' at '%s': %s", cik, form, url, err.Error(),
		))
		return records
	}

	recent := manifest.Filings.Recent
	for i, f := range recent.Forms {
		if f != form {
			continue
		}
		// ragged manifests happen, skip rows missing a parallel field
		if i >= len(recent.Accessions) || i >= len(recent.FilingDates) {
			continue
		}
		acc := filing.NewAccession(recent.Accessions[i])
		records = append(records, &filing.Record{
			Id:          uuid.New(),
			IssuerCik:   cik,
			Form:        f,
			Accession:   acc,
			FilingDate:  recent.FilingDates[i],
			DocumentURL: s.resolver.Resolve(ctx, cik, acc.Stripped),
		})
	}

	s.logger.Log(fmt.Sprintf("Found %d '%s' filings for cik '%s'", len(records), form, cik))
	return records
}

// FilingsAsync runs the lookup on its own goroutine and streams each record
// onto the queue, closing it when done. Interactive callers consume the
// queue from their own event loop instead of blocking on the lookup.
func (s *Service) FilingsAsync(ctx context.Context, cik, form string, q queue.Queue) {
	go func() {
		defer q.Close()
		for _, rec := range s.Filings(ctx, cik, form) {
			msg := &queue.RecordMessage{
				Cik:             rec.IssuerCik,
				Form:            rec.Form,
				AccessionNumber: rec.Accession.Original,
				FilingDate:      rec.FilingDate,
				DocumentURL:     rec.DocumentURL,
			}
			b, err := json.Marshal(msg)
			if err != nil {
				s.logger.Log(fmt.Sprintf("Serialization error: %s", err.Error()))
				continue
			}
			if err := q.SendMessage(b); err != nil {
				s.logger.Log(fmt.Sprintf("Queue error: %s", err.Error()))
				return
			}
		}
	}()
}
