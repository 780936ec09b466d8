package database

import (
	"errors"

	"github.com/docseek-io/filing-lookup/domain/filing"
)

type Database interface {
	Close() error
	CreateBaseTables() error
	InsertIssuer(iss *filing.Issuer) error
	InsertRecord(rec *filing.Record) error
	GetRecords(cik, form string) ([]*filing.Record, error)
}

var DuplicateErr error = errors.New("Duplicate key error")
var NotFoundErr error = errors.New("Key not found error")
