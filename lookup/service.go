// Package lookup resolves Review3 product ids from a search term.
//
// A Service holds the client configuration and performs one GET against
// https://api.reviewthree.com/products/ai/{method}/{term} per cache miss.
// Lookup reports the outcome as a Result; Search collapses every failure
// below validation into 0, so a 0 from Search means either "not found" or
// "lookup failed". Callers that need to tell them apart use Lookup.
//
// A Service is meant for single-goroutine use. Mutating its configuration
// while a lookup is running is not supported; concurrency safety of the
// shared cache is the cache implementation's job.
package lookup

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/review3/cache"
)

// ResponseType is the wire encoding requested from the API
type ResponseType string

const (
	ResponseJSON ResponseType = "json"
	ResponseXML  ResponseType = "xml"
)

// Fixed search methods. The webstore name is a fifth, dynamic method that
// matches against the store's own product ids.
const (
	MethodMPN     = "mpn"     // manufacturer part number
	MethodBarcode = "barcode" // EAN/UPC
	MethodYMID    = "ymid"    // Yandex.Market product id
	MethodName    = "name"    // product name
)

const (
	DefaultHost        = "reviewthree.com"
	DefaultUserAgent   = "Review3 Go Client"
	DefaultCachePrefix = "review3."
	DefaultCacheTTL    = time.Hour
)

// Service is the Review3 lookup client
type Service struct {
	webstore     string
	secure       bool
	host         string
	responseType ResponseType
	userAgent    string

	logPath  string
	recorder Recorder // nil means no record log

	cache       cache.Cache // optional; nil means no cache
	cachePrefix string
	cacheTTL    time.Duration

	transport Transport
	logger    zerolog.Logger
}

type Option func(*Service) error

func WithSecure(secure bool) Option {
	return func(s *Service) error { s.SetSecure(secure); return nil }
}
func WithHost(host string) Option {
	return func(s *Service) error { s.host = host; return nil }
}
func WithResponseType(rt string) Option {
	return func(s *Service) error { return s.SetResponseType(rt) }
}
func WithUserAgent(ua string) Option {
	return func(s *Service) error { s.SetUserAgent(ua); return nil }
}
func WithLogPath(dir string) Option {
	return func(s *Service) error { return s.SetLogPath(dir) }
}

// WithRecorder replaces the dated-file record log, e.g. for tests
func WithRecorder(r Recorder) Option {
	return func(s *Service) error { s.recorder = r; return nil }
}
func WithCache(c cache.Cache) Option {
	return func(s *Service) error { return s.SetCache(c) }
}
func WithCachePrefix(prefix string) Option {
	return func(s *Service) error { s.SetCachePrefix(prefix); return nil }
}
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) error { s.SetCacheTTL(ttl); return nil }
}
func WithTransport(t Transport) Option {
	return func(s *Service) error {
		if t == nil {
			return fmt.Errorf("%w: transport is nil", ErrInvalidArgument)
		}
		s.transport = t
		return nil
	}
}
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) error { s.logger = l; return nil }
}

// New creates a Service for webstore. An empty webstore is allowed here but
// every lookup fails with ErrPreconditionFailed until SetWebstore is called.
func New(webstore string, opts ...Option) (*Service, error) {
	s := &Service{
		webstore:    webstore,
		secure:      true,
		host:        DefaultHost,
		userAgent:   DefaultUserAgent,
		cachePrefix: DefaultCachePrefix,
		cacheTTL:    DefaultCacheTTL,
		transport:   NewHTTPTransport(),
		logger:      zerolog.Nop(),
	}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Service) SetWebstore(webstore string) {
	s.webstore = webstore
}

// Webstore returns the configured store name, or ErrPreconditionFailed if unset
func (s *Service) Webstore() (string, error) {
	if s.webstore == "" {
		return "", fmt.Errorf("%w: set webstore name first", ErrPreconditionFailed)
	}
	return s.webstore, nil
}

func (s *Service) SetSecure(secure bool) { s.secure = secure }
func (s *Service) Secure() bool          { return s.secure }

func (s *Service) SetUserAgent(ua string) { s.userAgent = ua }
func (s *Service) UserAgent() string      { return s.userAgent }

// URL returns the endpoint without scheme, e.g. "://api.reviewthree.com/products/ai/"
func (s *Service) URL() string {
	return "://api." + s.host + "/products/ai/"
}

// SetResponseType accepts "json" or "xml". On error the current value is kept.
func (s *Service) SetResponseType(rt string) error {
	for _, known := range ResponseTypes() {
		if ResponseType(rt) == known {
			s.responseType = known
			return nil
		}
	}
	return fmt.Errorf("%w: wrong response type: %q", ErrInvalidArgument, rt)
}

// ResponseType returns the configured encoding, json when unset
func (s *Service) ResponseType() ResponseType {
	if s.responseType == "" {
		return ResponseJSON
	}
	return s.responseType
}

// ResponseTypes lists the supported encodings
func ResponseTypes() []ResponseType {
	return []ResponseType{ResponseJSON, ResponseXML}
}

// SetLogPath enables the record log in dir, which must be an existing directory
func (s *Service) SetLogPath(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: log path not exist: %s", ErrInvalidArgument, dir)
	}
	s.logPath = dir
	s.recorder = NewFileRecorder(dir)
	return nil
}

// LogPath returns the record log directory, "" when logging is disabled
func (s *Service) LogPath() string { return s.logPath }

// SetCache installs c. A nil interface disables caching; a typed nil
// pointer is rejected so it cannot blow up mid-lookup.
func (s *Service) SetCache(c cache.Cache) error {
	if c != nil {
		if v := reflect.ValueOf(c); v.Kind() == reflect.Ptr && v.IsNil() {
			return fmt.Errorf("%w: cache is a nil %T", ErrInvalidArgument, c)
		}
	}
	s.cache = c
	return nil
}

func (s *Service) Cache() cache.Cache { return s.cache }

func (s *Service) SetCachePrefix(prefix string) { s.cachePrefix = prefix }
func (s *Service) CachePrefix() string          { return s.cachePrefix }

func (s *Service) SetCacheTTL(ttl time.Duration) { s.cacheTTL = ttl }
func (s *Service) CacheTTL() time.Duration       { return s.cacheTTL }

// Methods returns the allowed search methods: the four fixed ones plus the
// current webstore name. Computed on every call.
func (s *Service) Methods() ([]string, error) {
	webstore, err := s.Webstore()
	if err != nil {
		return nil, err
	}
	return []string{MethodMPN, MethodBarcode, MethodYMID, MethodName, webstore}, nil
}

// resolveMethod defaults an empty method to the webstore and checks it
// against Methods.
func (s *Service) resolveMethod(method string) (string, error) {
	methods, err := s.Methods()
	if err != nil {
		return "", err
	}
	if method == "" {
		method = methods[len(methods)-1]
	}
	for _, m := range methods {
		if m == method {
			return method, nil
		}
	}
	return "", fmt.Errorf("%w: method not allowed: %s", ErrInvalidArgument, method)
}

// IsConfigError reports whether err is a caller-side configuration problem
// rather than a lookup failure.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrPreconditionFailed)
}
