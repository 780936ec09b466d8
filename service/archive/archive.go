package archive

import (
	"context"
	"fmt"

	"github.com/docseek-io/filing-lookup/adapter/bucket"
	"github.com/docseek-io/filing-lookup/adapter/database"
	"github.com/docseek-io/filing-lookup/adapter/fetcher"
	"github.com/docseek-io/filing-lookup/adapter/logger"
	"github.com/docseek-io/filing-lookup/domain/filing"
)

type Service struct {
	db      database.Database
	bucket  bucket.Bucket
	fetcher fetcher.Fetcher
	logger  logger.Logger
}

func New(db database.Database, b bucket.Bucket, f fetcher.Fetcher, l logger.Logger) *Service {
	return &Service{db: db, bucket: b, fetcher: f, logger: l}
}

// StoreRecords downloads the primary document of every record, keeps the
// body in the bucket and the record in the database. A failing record is
// logged and skipped, the rest still gets stored.
func (s *Service) StoreRecords(ctx context.Context, records []*filing.Record) {

	stored := 0
	for _, rec := range records {

		res, err := s.fetcher.Fetch(ctx, rec.DocumentURL)
		if err != nil {
			s.logger.Log(fmt.Sprintf("Fetch error for document '%s': %s", rec.DocumentURL, err.Error()))
			continue
		}
		if !res.Success() {
			s.logger.Log(fmt.Sprintf("Got status code %d for document '%s'", res.StatusCode, rec.DocumentURL))
			continue
		}

		key := rec.IssuerCik + "-" + rec.Accession.Stripped + ".htm"
		if err := s.bucket.PutObject(key, res.Body); err != nil {
			s.logger.Log(fmt.Sprintf("Bucket error for document '%s': %s", key, err.Error()))
			continue
		}

		err = s.db.InsertRecord(rec)
		if err == database.DuplicateErr {
			// already archived on an earlier run
			continue
		}
		if err != nil {
			s.logger.Log(fmt.Sprintf("Database error for document '%s': %s", key, err.Error()))
			continue
		}
		stored++
	}

	s.logger.Log(fmt.Sprintf("Stored %d of %d documents", stored, len(records)))
}
