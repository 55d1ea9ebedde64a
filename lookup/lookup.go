package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Status classifies a lookup outcome
type Status int

const (
	StatusNotFound Status = iota // the API has no match; cacheable
	StatusFound
	StatusFailed // transport, HTTP or decode failure; never cached
)

func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return "not_found"
	case StatusFound:
		return "found"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of one lookup. ID is 0 unless Status is StatusFound.
type Result struct {
	ID     int
	Status Status
	Cached bool  // served from cache without a network call
	Err    error // set when Status is StatusFailed
}

func resultFor(id int) Result {
	if id > 0 {
		return Result{ID: id, Status: StatusFound}
	}
	return Result{Status: StatusNotFound}
}

// CacheKey returns the cache key for a raw search term
func (s *Service) CacheKey(term string) string {
	return s.cachePrefix + term
}

// RequestURL builds the lookup URL for term. An empty method means the
// webstore's own ids.
func (s *Service) RequestURL(term, method string) (string, error) {
	method, err := s.resolveMethod(method)
	if err != nil {
		return "", err
	}
	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return scheme + s.URL() + method + "/" + url.QueryEscape(term), nil
}

func (s *Service) header() http.Header {
	h := http.Header{}
	h.Set("User-Agent", s.userAgent)
	if s.ResponseType() == ResponseJSON {
		h.Set("Accept", "application/json")
	}
	return h
}

// Lookup resolves term via method (empty for the webstore's own ids).
//
// The returned error is non-nil only for configuration problems
// (ErrInvalidArgument, ErrPreconditionFailed). Network, HTTP and decode
// failures come back as a StatusFailed Result and are not cached.
func (s *Service) Lookup(ctx context.Context, term, method string) (Result, error) {
	log := s.logger.With().
		Str("lookup_id", uuid.NewString()).
		Str("term", term).
		Str("method", method).
		Logger()

	key := s.CacheKey(term)
	if s.cache != nil {
		if id, ok := s.cache.Get(ctx, key); ok {
			log.Debug().Int("id", id).Msg("cache hit")
			r := resultFor(id)
			r.Cached = true
			return r, nil
		}
	}

	reqURL, err := s.RequestURL(term, method)
	if err != nil {
		return Result{}, err
	}

	id, err := s.fetch(ctx, log, reqURL)
	if err != nil {
		log.Warn().Err(err).Str("url", reqURL).Msg("lookup failed")
		return Result{Status: StatusFailed, Err: err}, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, id, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}

	log.Debug().Int("id", id).Msg("resolved")
	return resultFor(id), nil
}

// Search is Lookup collapsed to a bare id: 0 means not found or failed.
func (s *Service) Search(ctx context.Context, term, method string) (int, error) {
	r, err := s.Lookup(ctx, term, method)
	if err != nil {
		return 0, err
	}
	return r.ID, nil
}

// fetch performs the round trip, records it and decodes the body
func (s *Service) fetch(ctx context.Context, log zerolog.Logger, reqURL string) (int, error) {
	start := time.Now()
	resp, err := s.transport.Get(ctx, reqURL, s.header())
	elapsed := time.Since(start)

	if err == nil && resp == nil {
		err = fmt.Errorf("%w: transport returned no response", ErrTransport)
	}
	if err != nil {
		s.record(log, EventFail, RequestRecord{
			Request: reqURL,
			Info:    &RequestInfo{URL: reqURL, TotalTime: elapsed.Seconds(), Error: err.Error()},
		})
		return 0, err
	}

	if resp.StatusCode != http.StatusOK {
		s.record(log, EventFail, RequestRecord{
			Request:  reqURL,
			Response: string(resp.Body),
			Info: &RequestInfo{
				URL:         reqURL,
				HTTPCode:    resp.StatusCode,
				ContentType: resp.Header.Get("Content-Type"),
				TotalTime:   elapsed.Seconds(),
			},
		})
		return 0, fmt.Errorf("%w: HTTP %d Error URL %s", ErrRequestFailed, resp.StatusCode, reqURL)
	}

	s.record(log, EventSuccess, RequestRecord{
		Request:  reqURL,
		Response: string(resp.Body),
	})

	return Decode(resp.Body, s.ResponseType())
}

// record never fails the lookup
func (s *Service) record(log zerolog.Logger, event string, rec RequestRecord) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(event, rec); err != nil {
		log.Error().Err(err).Str("event", event).Msg("write record log")
	}
}
