package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/docseek-io/filing-lookup/adapter/bucket"
	"github.com/docseek-io/filing-lookup/adapter/bucket/folder"
	"github.com/docseek-io/filing-lookup/adapter/bucket/vault"
	"github.com/docseek-io/filing-lookup/adapter/database"
	"github.com/docseek-io/filing-lookup/adapter/database/postgres"
	"github.com/docseek-io/filing-lookup/adapter/fetcher"
	"github.com/docseek-io/filing-lookup/adapter/fetcher/secfetch"
	"github.com/docseek-io/filing-lookup/adapter/limiter/interval"
	"github.com/docseek-io/filing-lookup/adapter/logger"
	"github.com/docseek-io/filing-lookup/adapter/logger/console"
	"github.com/docseek-io/filing-lookup/adapter/logger/structured"
	"github.com/docseek-io/filing-lookup/adapter/queue"
	"github.com/docseek-io/filing-lookup/adapter/queue/buffer"
	"github.com/docseek-io/filing-lookup/adapter/server/httpserv"
	"github.com/docseek-io/filing-lookup/domain/filing"
	"github.com/docseek-io/filing-lookup/service/archive"
	"github.com/docseek-io/filing-lookup/service/lookup"
	"github.com/docseek-io/filing-lookup/service/resolve"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// minimum spacing between outbound requests, the upstream allows about
// five requests per second
const requestGap = 200 * time.Millisecond

func main() {
	err := godotenv.Load()
	if err != nil {
		panic(err)
	}

	var l logger.Logger
	if os.Getenv("LOG_DRIVER") == "structured" {
		l = structured.New()
	} else {
		l = console.New()
	}

	// one limiter instance for the whole process, every fetch goes through it
	lim := interval.New(requestGap)

	var f fetcher.Fetcher
	f = secfetch.New(lim, l)

	res := resolve.New(f, l)
	look := lookup.New(f, res, l)

	var db database.Database
	db, err = postgres.New(
		envOrPanic("DB_HOST"),
		envOrPanic("DB_PORT"),
		envOrPanic("DB_NAME"),
		envOrPanic("DB_USER"),
		envOrPanic("DB_PASS"),
	)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	err = db.CreateBaseTables()
	if err != nil {
		panic(err)
	}

	var b bucket.Bucket
	if os.Getenv("B_DRIVER") == "vault" {
		awsSession, err := session.NewSession()
		if err != nil {
			panic(err)
		}
		b = vault.New(awsSession, envOrPanic("B_VAULT"))
	} else {
		b = folder.New(envOrPanic("B_PATH"))
	}

	loadIssuers(db, l)

	// optional one shot archival run before serving
	if cik := os.Getenv("LOOKUP_CIK"); len(cik) > 0 {
		arch := archive.New(db, b, f, l)
		ctx := context.Background()
		for _, form := range strings.Split(envOrPanic("LOOKUP_FORMS"), ",") {
			q := buffer.New()
			look.FilingsAsync(ctx, cik, form, q)
			arch.StoreRecords(ctx, drainRecords(q, l))
		}
	}

	port, err := strconv.Atoi(envOrPanic("HTTP_PORT"))
	if err != nil {
		panic(err)
	}
	s := httpserv.New(port, look, db)
	l.Log(fmt.Sprintf("Listening on port %d", port))
	err = s.Listen()
	if err != nil {
		panic(err)
	}
}

// drainRecords consumes the queue until the worker closes it and rebuilds
// the filing records from the messages
func drainRecords(q queue.Queue, l logger.Logger) []*filing.Record {
	records := []*filing.Record{}
	for {
		data, err := q.RecvMessage()
		if err != nil {
			// queue has been drained, the lookup is done
			return records
		}
		msg := &queue.RecordMessage{}
		err = json.Unmarshal(data, msg)
		if err != nil {
			l.Log(fmt.Sprintf("Deserialization error: %s", err.Error()))
			continue
		}
		records = append(records, &filing.Record{
			Id:          uuid.New(),
			IssuerCik:   msg.Cik,
			Form:        msg.Form,
			Accession:   filing.NewAccession(msg.AccessionNumber),
			FilingDate:  msg.FilingDate,
			DocumentURL: msg.DocumentURL,
		})
	}
}

func loadIssuers(db database.Database, l logger.Logger) {
	for _, iss := range filing.KnownIssuers {
		err := db.InsertIssuer(iss)
		if err != nil && err != database.DuplicateErr {
			l.Log(fmt.Sprintf("Database error while loading issuers: %s", err.Error()))
		}
	}
}

func envOrPanic(key string) string {
	value := os.Getenv(key)
	if len(value) < 1 {
		panic(errors.New(fmt.Sprintf("Environment variable '%s' missing", key)))
	}
	return value
}
