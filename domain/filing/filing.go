package filing

import (
	"strings"

	"github.com/google/uuid"
)

// Cik values must be exactly 10 digits before they are used in any URL.
const CikLength = 10

type Issuer struct {
	Cik  string `json:"cik"`
	Name string `json:"name"`
}

// KnownIssuers are the issuers the tool was originally built for; they are
// offered to callers so a search can run without looking up a CIK first.
var KnownIssuers = []*Issuer{
	{Cik: "0001415995", Name: "New York Life Investments ETF Trust"},
	{Cik: "0001426439", Name: "New York Life Investments Active ETF Trust"},
}

// Accession keeps both spellings of an accession number: the original one
// with separators for display and the stripped one which addresses the
// filing's storage folder on the archive host.
type Accession struct {
	Original string `json:"original"`
	Stripped string `json:"stripped"`
}

func NewAccession(original string) Accession {
	return Accession{
		Original: original,
		Stripped: strings.Replace(original, "-", "", -1),
	}
}

// Record is one resolved filing: the date it was filed and the URL of its
// primary document. DocumentURL is never empty, the resolver falls back to
// the listing page itself when nothing better is found.
type Record struct {
	Id          uuid.UUID `json:"id"`
	IssuerCik   string    `json:"cik"`
	Form        string    `json:"form"`
	Accession   Accession `json:"accession"`
	FilingDate  string    `json:"filingDate"`
	DocumentURL string    `json:"documentUrl"`
}

// PadCik left pads short ciks with zeros to the canonical 10 digit width.
// Longer input is passed through untouched, truncating would address a
// different issuer.
func PadCik(cik string) string {
	if len(cik) >= CikLength {
		return cik
	}
	return strings.Repeat("0", CikLength-len(cik)) + cik
}
