package queue

import "errors"

type Queue interface {
	SendMessage(msg []byte) error
	RecvMessage() ([]byte, error)
	Close() error
}

var DrainedErr error = errors.New("Queue has been drained")

// RecordMessage carries one resolved filing from the lookup worker to the
// consuming layer. The accession number travels in its original spelling,
// the stripped form can always be derived again.
type RecordMessage struct {
	Cik             string `json:"cik"`
	Form            string `json:"form"`
	AccessionNumber string `json:"accessionNumber"`
	FilingDate      string `json:"filingDate"`
	DocumentURL     string `json:"documentUrl"`
}
