package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/review3/cache"
	"github.com/briangreenhill/review3/internal/config"
	"github.com/briangreenhill/review3/lookup"
)

const version = "Review3 lookup v0.1.0"

func main() {
	if err := runCLI(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "Usage: review3 <command> [args]")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  search <term> [method]  Resolve a Review3 product id (method defaults to the webstore)")
	fmt.Fprintln(out, "  methods                 List allowed search methods")
	fmt.Fprintln(out, "  help, --help, -h        Show this help message")
	fmt.Fprintln(out, "  version, --version, -v  Show version")
	fmt.Fprintln(out, "Environment:")
	fmt.Fprintln(out, "  REVIEW3_WEBSTORE        Your webstore name (required)")
	fmt.Fprintln(out, "  REVIEW3_RESPONSE_TYPE   json (default) or xml")
	fmt.Fprintln(out, "  REVIEW3_INSECURE        Use http instead of https")
	fmt.Fprintln(out, "  REVIEW3_LOG_PATH        Directory for dated request logs (optional)")
	fmt.Fprintln(out, "  REVIEW3_CACHE           none (default), memory, file or redis")
	fmt.Fprintln(out, "  REVIEW3_CACHE_DIR       Directory for the file cache")
	fmt.Fprintln(out, "  REVIEW3_REDIS_ADDR      Redis address for the redis cache")
}

func runCLI(args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return errors.New("missing command")
	}

	switch args[0] {
	case "help", "--help", "-h":
		usage(out)
		return nil
	case "version", "--version", "-v":
		fmt.Fprintln(out, version)
		return nil
	case "methods":
		svc, closeFn, err := setup()
		if err != nil {
			return err
		}
		defer closeFn()
		methods, err := svc.Methods()
		if err != nil {
			return configHint(err)
		}
		fmt.Fprintln(out, strings.Join(methods, "\n"))
		return nil
	case "search":
		if len(args) < 2 || len(args) > 3 {
			return errors.New("usage: review3 search <term> [method]")
		}
		method := ""
		if len(args) == 3 {
			method = args[2]
		}
		svc, closeFn, err := setup()
		if err != nil {
			return err
		}
		defer closeFn()
		return configHint(runSearch(context.Background(), svc, args[1], method, out))
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// configHint points the user at the environment when the failure is theirs to fix
func configHint(err error) error {
	if lookup.IsConfigError(err) {
		return fmt.Errorf("%w (see 'review3 help' for REVIEW3_* variables)", err)
	}
	return err
}

// runSearch prints the resolved id; failures print 0 and the reason goes
// to the log.
func runSearch(ctx context.Context, svc *lookup.Service, term, method string, out io.Writer) error {
	r, err := svc.Lookup(ctx, term, method)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, r.ID)
	return nil
}

func setup() (*lookup.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return newService(cfg, newLogger(cfg.LogLevel))
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

// newService wires a lookup.Service from configuration. The returned func
// releases the cache backend.
func newService(cfg *config.Config, logger zerolog.Logger) (*lookup.Service, func(), error) {
	closeFn := func() {}

	transport := lookup.NewHTTPTransport(
		lookup.WithHTTPClient(&http.Client{}),
		lookup.WithTimeout(cfg.HTTPTimeout),
		lookup.WithRateLimit(cfg.RateLimit),
	)

	opts := []lookup.Option{
		lookup.WithSecure(!cfg.Insecure),
		lookup.WithResponseType(cfg.ResponseType),
		lookup.WithUserAgent(cfg.UserAgent),
		lookup.WithCachePrefix(cfg.Cache.Prefix),
		lookup.WithCacheTTL(cfg.Cache.TTL),
		lookup.WithTransport(transport),
		lookup.WithLogger(logger),
	}
	if cfg.LogPath != "" {
		opts = append(opts, lookup.WithLogPath(cfg.LogPath))
	}

	if cfg.HasCache() {
		c, closeCache, err := newCache(cfg.Cache, logger)
		if err != nil {
			return nil, nil, err
		}
		closeFn = closeCache
		opts = append(opts, lookup.WithCache(c))
	}

	svc, err := lookup.New(cfg.Webstore, opts...)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}

// newCache opens the configured backend. The returned func releases it.
func newCache(cfg config.CacheConfig, logger zerolog.Logger) (cache.Cache, func(), error) {
	switch cfg.Backend {
	case config.CacheMemory:
		return cache.NewMemory(), func() {}, nil
	case config.CacheFile:
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("file cache: %w", err)
		}
		return fc, func() {}, nil
	case config.CacheRedis:
		rc := cache.NewRedis(cfg.RedisAddr)
		return rc, func() {
			if err := rc.Close(); err != nil {
				logger.Warn().Err(err).Msg("close redis")
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
