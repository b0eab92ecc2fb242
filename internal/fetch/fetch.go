// Package fetch retrieves sequences by accession from a remote sequence
// database that serves FASTA, such as UniProt.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"go.uber.org/zap"

	"github.com/inodb/biopolymer/internal/fasta"
	"github.com/inodb/biopolymer/internal/polymer"
)

// DefaultBaseURL is the UniProtKB REST endpoint. Records are served at
// <base>/<accession>.fasta.
const DefaultBaseURL = "https://rest.uniprot.org/uniprotkb"

// DefaultTimeout bounds a single retrieval.
const DefaultTimeout = 30 * time.Second

// ErrNotFound is wrapped by a FetchError when the database has no record
// for the accession.
var ErrNotFound = errors.New("accession not found")

// FetchError reports a failed retrieval: network failure, a non-200
// response, or a response that is not a well-formed FASTA record.
type FetchError struct {
	Accession  string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.Accession, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Accession, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Cache stores previously fetched records. Lookup returns nil, nil on a miss.
type Cache interface {
	LookupSequence(accession string) (*linear.Seq, error)
	StoreSequence(accession string, s *linear.Seq) error
}

// Fetcher retrieves protein sequences over HTTP. Failed requests are not
// retried.
type Fetcher struct {
	baseURL    string
	httpClient *http.Client
	cache      Cache
	logger     *zap.Logger
}

// NewFetcher creates a fetcher for baseURL. An empty baseURL selects
// DefaultBaseURL and a non-positive timeout selects DefaultTimeout.
func NewFetcher(baseURL string, timeout time.Duration) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used to record each procurement.
func (f *Fetcher) SetLogger(l *zap.Logger) {
	f.logger = l
}

// SetCache sets a local cache consulted before the network.
func (f *Fetcher) SetCache(c Cache) {
	f.cache = c
}

// URL returns the address of the FASTA record for accession.
func (f *Fetcher) URL(accession string) string {
	return fmt.Sprintf("%s/%s.fasta", f.baseURL, url.PathEscape(accession))
}

// Fetch returns the protein record for accession. Every failure is a
// *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, accession string) (*linear.Seq, error) {
	accession = strings.TrimSpace(accession)
	if accession == "" {
		return nil, &FetchError{Err: errors.New("empty accession")}
	}

	if f.cache != nil {
		s, err := f.cache.LookupSequence(accession)
		if err != nil {
			f.logger.Warn("sequence cache lookup failed", zap.String("accession", accession), zap.Error(err))
		} else if s != nil {
			f.logger.Debug("sequence cache hit", zap.String("accession", accession))
			return s, nil
		}
	}

	u := f.URL(accession)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Accession: accession, URL: u, Err: err}
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Accession: accession, URL: u, Err: fmt.Errorf("HTTP request failed: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &FetchError{Accession: accession, URL: u, StatusCode: resp.StatusCode, Err: ErrNotFound}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			Accession:  accession,
			URL:        u,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP error: %s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	s, err := ReadRecord(resp.Body, accession, alphabet.Protein)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			fe.URL = u
		}
		return nil, err
	}

	f.logger.Info("procured sequence",
		zap.String("accession", accession),
		zap.String("header", s.Name()+" "+s.Description()),
		zap.Int("length", s.Len()))

	if f.cache != nil {
		if err := f.cache.StoreSequence(accession, s); err != nil {
			f.logger.Warn("sequence cache store failed", zap.String("accession", accession), zap.Error(err))
		}
	}
	return s, nil
}

// ReadRecord parses FASTA from r and returns the record for accession.
// A stream without that record, or with symbols outside alpha, yields a
// *FetchError.
func ReadRecord(r io.Reader, accession string, alpha alphabet.Alphabet) (*linear.Seq, error) {
	records, err := fasta.Read(r, alpha)
	if err != nil {
		return nil, &FetchError{Accession: accession, Err: err}
	}

	s := fasta.Find(records, accession)
	if s == nil {
		return nil, &FetchError{Accession: accession, Err: ErrNotFound}
	}
	if s.Len() == 0 {
		return nil, &FetchError{Accession: accession, Err: errors.New("record has no sequence")}
	}
	if _, err := polymer.FromLinear(s); err != nil {
		return nil, &FetchError{Accession: accession, Err: fmt.Errorf("malformed record: %w", err)}
	}
	return s, nil
}
