package httpserv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/docseek-io/filing-lookup/domain/filing"
)

// Lookup is the query entry point the server drives; the server never
// touches the pipeline below it.
type Lookup interface {
	Filings(ctx context.Context, cik, form string) []*filing.Record
}

// Store reads back records a previous archival run persisted
type Store interface {
	GetRecords(cik, form string) ([]*filing.Record, error)
}

type httpServer struct {
	router *http.ServeMux
	port   int
	lookup Lookup
	store  Store
}

func New(port int, lookup Lookup, store Store) *httpServer {
	s := &httpServer{port: port, lookup: lookup, store: store}
	router := http.NewServeMux()
	router.HandleFunc("/issuers", s.handleIssuers)
	router.HandleFunc("/filings", s.handleFilings)
	router.HandleFunc("/archive", s.handleArchive)
	s.router = router
	return s
}

func (s *httpServer) Listen() error {
	return http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.router)
}

func (s *httpServer) handleIssuers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != "GET" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	b, err := json.Marshal(filing.KnownIssuers)
	if err != nil {
		http.Error(w, "Internal Server", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, string(b))
}

// handleArchive serves GET /archive?cik=...&form=..., answering with the
// records stored by earlier archival runs instead of querying upstream.
func (s *httpServer) handleArchive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != "GET" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	cik := r.URL.Query().Get("cik")
	if len(cik) < 1 {
		http.Error(w, "Missing cik", http.StatusBadRequest)
		return
	}
	form := r.URL.Query().Get("form")
	if len(form) < 1 {
		http.Error(w, "Missing form", http.StatusBadRequest)
		return
	}

	records, err := s.store.GetRecords(filing.PadCik(cik), form)
	if err != nil {
		http.Error(w, "Internal Server", http.StatusInternalServerError)
		return
	}

	b, err := json.Marshal(records)
	if err != nil {
		http.Error(w, "Internal Server", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, string(b))
}

// handleFilings serves GET /filings?cik=...&form=...[&form=...], answering
// with the resolved records grouped by form. The lookup itself never fails,
// an unknown cik simply yields empty lists.
func (s *httpServer) handleFilings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != "GET" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	cik := r.URL.Query().Get("cik")
	if len(cik) < 1 {
		http.Error(w, "Missing cik", http.StatusBadRequest)
		return
	}
	forms := r.URL.Query()["form"]
	if len(forms) < 1 {
		http.Error(w, "Missing form", http.StatusBadRequest)
		return
	}

	results := make(map[string][]*filing.Record)
	for _, form := range forms {
		results[form] = s.lookup.Filings(r.Context(), cik, form)
	}

	b, err := json.Marshal(results)
	if err != nil {
		http.Error(w, "Internal Server", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, string(b))
}
