package postgres

import (
	"log"
	"testing"
	"time"

	"github.com/docseek-io/filing-lookup/adapter/database"
	"github.com/docseek-io/filing-lookup/domain/filing"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

var db *postgresDB

func TestMain(m *testing.M) {
	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	// pulls an image, creates a container based on it and runs it
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16.3",
		Env: []string{
			"POSTGRES_PASSWORD=password123",
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=postgres",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start resource: %s", err)
	}

	resource.Expire(120) // Tell docker to hard kill the container in 120 seconds

	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	pool.MaxWait = 120 * time.Second
	if err = pool.Retry(func() error {
		db, err = New("localhost", resource.GetPort("5432/tcp"), "postgres", "postgres", "password123")
		if err != nil {
			return err
		}
		return db.CreateBaseTables()
	}); err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Fatalf("Could not purge resource: %s", err)
		}
	}()

	// run tests
	m.Run()
}

func TestInsertIssuer(t *testing.T) {
	iss := &filing.Issuer{Cik: "0001415995", Name: "New York Life Investments ETF Trust"}
	err := db.InsertIssuer(iss)
	if err != nil {
		t.Fatal(err.Error())
	}

	// insert again to check if the uniqueness violation is mapped
	err = db.InsertIssuer(iss)
	if err != database.DuplicateErr {
		t.Errorf("Got '%v', want duplicate key error", err)
	}
}

func TestInsertAndGetRecords(t *testing.T) {
	iss := &filing.Issuer{Cik: "0001426439", Name: "New York Life Investments Active ETF Trust"}
	if err := db.InsertIssuer(iss); err != nil && err != database.DuplicateErr {
		t.Fatal(err.Error())
	}

	rec := &filing.Record{
		Id:          uuid.New(),
		IssuerCik:   iss.Cik,
		Form:        "485BXT",
		Accession:   filing.NewAccession("0001234567-23-000111"),
		FilingDate:  "2023-01-01",
		DocumentURL: "https://www.sec.gov/Archives/edgar/data/0001426439/000123456723000111/doc.htm",
	}
	if err := db.InsertRecord(rec); err != nil {
		t.Fatal(err.Error())
	}

	// same accession for the same issuer must be rejected
	dup := *rec
	dup.Id = uuid.New()
	if err := db.InsertRecord(&dup); err != database.DuplicateErr {
		t.Errorf("Got '%v', want duplicate key error", err)
	}

	got, err := db.GetRecords(iss.Cik, "485BXT")
	if err != nil {
		t.Fatal(err.Error())
	}
	if len(got) != 1 {
		t.Fatalf("Got %d records, want 1", len(got))
	}
	if got[0].Accession.Stripped != "000123456723000111" {
		t.Errorf("Got stripped accession '%s', want '000123456723000111'", got[0].Accession.Stripped)
	}
	if got[0].DocumentURL != rec.DocumentURL {
		t.Errorf("Got document url '%s', want '%s'", got[0].DocumentURL, rec.DocumentURL)
	}
}
