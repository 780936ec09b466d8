package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/docseek-io/filing-lookup/adapter/database"
	"github.com/docseek-io/filing-lookup/domain/filing"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresDB struct {
	conn *pgxpool.Pool
}

func New(host, port, name, user, pass string) (*postgresDB, error) {

	conn, err := pgxpool.New(
		context.Background(),
		fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name),
	)
	if err != nil {
		return nil, err
	}

	return &postgresDB{conn: conn}, nil
}

func (db *postgresDB) Close() error {
	db.conn.Close()
	return nil
}

func (db *postgresDB) CreateBaseTables() error {

	_, err := db.conn.Exec(context.Background(), `CREATE TABLE IF NOT EXISTS issuer (
		cik VARCHAR(10) PRIMARY KEY,
		name VARCHAR(100) NOT NULL
	);`)
	if err != nil {
		return err
	}

	_, err = db.conn.Exec(context.Background(), `CREATE TABLE IF NOT EXISTS filing_record (
		id UUID PRIMARY KEY,
		issuer_cik VARCHAR(10) REFERENCES issuer(cik) ON DELETE CASCADE,
		form VARCHAR(20) NOT NULL,
		accession_number VARCHAR(25) NOT NULL,
		filing_date VARCHAR(10) NOT NULL,
		document_url VARCHAR(300) NOT NULL,
		CONSTRAINT unique_issuer_accession UNIQUE(issuer_cik, accession_number)
	);`)
	if err != nil {
		return err
	}

	return nil
}

func (db *postgresDB) InsertIssuer(iss *filing.Issuer) error {

	_, err := db.conn.Exec(
		context.Background(),
		`INSERT INTO issuer (cik, name) VALUES ($1, $2);`,
		iss.Cik,
		iss.Name,
	)

	return errorWrapper(err)
}

func (db *postgresDB) InsertRecord(rec *filing.Record) error {

	_, err := db.conn.Exec(
		context.Background(),
		`INSERT INTO filing_record (id, issuer_cik, form, accession_number, filing_date, document_url)
		VALUES ($1, $2, $3, $4, $5, $6);`,
		rec.Id,
		rec.IssuerCik,
		rec.Form,
		rec.Accession.Original,
		rec.FilingDate,
		rec.DocumentURL,
	)

	return errorWrapper(err)
}

func (db *postgresDB) GetRecords(cik, form string) ([]*filing.Record, error) {

	rows, err := db.conn.Query(
		context.Background(),
		`SELECT id, issuer_cik, form, accession_number, filing_date, document_url
		FROM filing_record WHERE issuer_cik = $1 AND form = $2 ORDER BY filing_date DESC;`,
		cik,
		form,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*filing.Record{}
	for rows.Next() {
		rec := &filing.Record{}
		original := ""
		err := rows.Scan(&rec.Id, &rec.IssuerCik, &rec.Form, &original, &rec.FilingDate, &rec.DocumentURL)
		if err != nil {
			return nil, err
		}
		rec.Accession = filing.NewAccession(original)
		records = append(records, rec)
	}

	return records, nil
}

// Helper Functions

// to map driver errors onto the error constants defined in the database package
func errorWrapper(err error) error {

	// check if error is even present
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// SQL Error code for violated unique constraint
		if pgErr.Code == "23505" {
			return database.DuplicateErr
		}
	}

	return err
}
