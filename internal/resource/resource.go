// Package resource implements the asynchronous network loader backing
// Lingo's preloadNetThing/postNetText/netDone family: one goroutine per
// request bounded by a semaphore (FetchAll uses an errgroup), request
// de-duplication via singleflight, and an
// extension-fallback resolution order for local movie assets.
package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/libreshockwave/shockwave/internal/datum"
	coreerrors "github.com/libreshockwave/shockwave/internal/errors"
	"github.com/libreshockwave/shockwave/internal/logger"
)

// State is a network request's lifecycle stage.
type State int

const (
	StateConnecting State = iota
	StateLoading
	StateComplete
	StateError
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateLoading:
		return "loading"
	case StateComplete:
		return "complete"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// request tracks one in-flight or completed net operation.
type request struct {
	mu         sync.Mutex
	url        string
	state      State
	body       []byte
	bytesTotal int32
	errMsg     string
}

// Loader resolves Lingo net primitives against real HTTP fetches, a worker
// pool bounding concurrency, and a singleflight group collapsing repeated
// fetches of the same URL into one request.
type Loader struct {
	client      *http.Client
	concurrency int

	group    singleflight.Group
	mu       sync.Mutex
	requests map[int32]*request
	nextID   int32
	sem      chan struct{}
}

// AssetKind distinguishes cast files from movie files for extension
// fallback, since Director resolves each against a different, ordered
// extension list.
type AssetKind int

const (
	AssetCast AssetKind = iota
	AssetMovie
)

// Extension fallback lists Director tries when a link has none, one per
// asset kind. Local resolution prefers the plain/uncompressed form first;
// an HTTP base prefers the compressed form first, since that's the one
// worth fetching over the network -- grounded in the observed
// cross-platform cast/media resolution behavior.
var (
	castExtensionsLocal  = []string{".cst", ".cct"}
	castExtensionsHTTP   = []string{".cct", ".cst"}
	movieExtensionsLocal = []string{".dir", ".dcr", ".dxr"}
	movieExtensionsHTTP  = []string{".dcr", ".dxr", ".dir"}
)

// New creates a Loader with the given HTTP client (http.DefaultClient if
// nil) and a worker pool capped at concurrency simultaneous fetches.
func New(client *http.Client, concurrency int) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Loader{
		client:      client,
		concurrency: concurrency,
		requests:    map[int32]*request{},
		sem:         make(chan struct{}, concurrency),
	}
}

// PreloadNetThing starts (or joins, if already in flight) a GET fetch of
// url and returns a net id for polling via NetDone/NetTextResult/NetError.
func (l *Loader) PreloadNetThing(url string) int32 {
	return l.start(context.Background(), http.MethodGet, url, "")
}

// PostNetText starts a POST of body to url.
func (l *Loader) PostNetText(url, body string) int32 {
	return l.start(context.Background(), http.MethodPost, url, body)
}

func (l *Loader) start(ctx context.Context, method, url, body string) int32 {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	req := &request{url: url, state: StateConnecting}
	l.requests[id] = req
	l.mu.Unlock()

	go l.fetch(ctx, id, req, method, url, body)
	return id
}

func (l *Loader) fetch(ctx context.Context, id int32, req *request, method, url, body string) {
	key := method + " " + url
	result, err, _ := l.group.Do(key, func() (any, error) {
		l.sem <- struct{}{}
		defer func() { <-l.sem }()

		req.mu.Lock()
		req.state = StateLoading
		req.mu.Unlock()

		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.ContentLength >= 0 {
			req.mu.Lock()
			req.bytesTotal = int32(resp.ContentLength)
			req.mu.Unlock()
		}
		if resp.StatusCode >= 400 {
			return nil, coreerrors.NewNetError("HttpStatus", "resource.fetch", url, fmt.Errorf("status %d", resp.StatusCode))
		}
		return io.ReadAll(resp.Body)
	})

	req.mu.Lock()
	defer req.mu.Unlock()
	if err != nil {
		req.state = StateError
		req.errMsg = err.Error()
		logger.Logger().Warn("net fetch failed", "url", url, "error", err)
		return
	}
	req.state = StateComplete
	req.body, _ = result.([]byte)
}

// NetDone reports whether netID has finished (successfully or not).
func (l *Loader) NetDone(netID int32) bool {
	req := l.get(netID)
	if req == nil {
		return true
	}
	req.mu.Lock()
	defer req.mu.Unlock()
	return req.state == StateComplete || req.state == StateError
}

// NetTextResult returns the fetched body as a string Datum, or an empty
// string if not yet complete.
func (l *Loader) NetTextResult(netID int32) datum.Datum {
	req := l.get(netID)
	if req == nil {
		return datum.Str("")
	}
	req.mu.Lock()
	defer req.mu.Unlock()
	return datum.Str(string(req.body))
}

// Bytes returns the fetched body's raw bytes, or nil if not yet complete.
func (l *Loader) Bytes(netID int32) []byte {
	req := l.get(netID)
	if req == nil {
		return nil
	}
	req.mu.Lock()
	defer req.mu.Unlock()
	return append([]byte(nil), req.body...)
}

// NetError returns "OK" if netID succeeded, else the error message.
func (l *Loader) NetError(netID int32) string {
	req := l.get(netID)
	if req == nil {
		return "OK"
	}
	req.mu.Lock()
	defer req.mu.Unlock()
	if req.state == StateError {
		return req.errMsg
	}
	return "OK"
}

// GetStreamStatus returns a property list describing netID's progress, in
// the shape Lingo scripts read via #state/#bytesTotal-style lookups.
func (l *Loader) GetStreamStatus(netID int32) datum.Datum {
	req := l.get(netID)
	pl := datum.NewPropList()
	if req == nil {
		return pl
	}
	req.mu.Lock()
	defer req.mu.Unlock()
	errVal := datum.Str("OK")
	if req.state == StateError {
		errVal = datum.Str(req.errMsg)
	}
	pl = datum.SetAProp(pl, datum.Sym("URL"), datum.Str(req.url))
	pl = datum.SetAProp(pl, datum.Sym("state"), datum.Sym(req.state.String()))
	pl = datum.SetAProp(pl, datum.Sym("bytesSoFar"), datum.Int(int32(len(req.body))))
	pl = datum.SetAProp(pl, datum.Sym("bytesTotal"), datum.Int(req.bytesTotal))
	pl = datum.SetAProp(pl, datum.Sym("error"), errVal)
	return pl
}

func (l *Loader) get(netID int32) *request {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requests[netID]
}

// ResolveAsset tries path, then path with each of kind's ordered fallback
// extensions appended, returning the first existing candidate via exists.
// The order depends on both the asset kind (cast vs movie) and whether path
// is an HTTP URL, since a remote base should prefer the compressed
// extension first while a local one prefers the plain form.
func (l *Loader) ResolveAsset(kind AssetKind, path string, exists func(string) bool) (string, bool) {
	if exists(path) {
		return path, true
	}
	for _, ext := range fallbackExtensions(kind, isHTTPBase(path)) {
		candidate := path + ext
		if exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func isHTTPBase(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

func fallbackExtensions(kind AssetKind, isHTTP bool) []string {
	switch kind {
	case AssetCast:
		if isHTTP {
			return castExtensionsHTTP
		}
		return castExtensionsLocal
	default:
		if isHTTP {
			return movieExtensionsHTTP
		}
		return movieExtensionsLocal
	}
}

// FetchAll fetches every url in urls concurrently, bounded by the Loader's
// configured concurrency, returning results in input order. Used for
// bulk-preloading a movie's linked casts before playback starts.
func FetchAll(ctx context.Context, l *Loader, urls []string) ([][]byte, error) {
	results := make([][]byte, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			req, err := http.NewRequestWithContext(gctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := l.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			results[i] = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
