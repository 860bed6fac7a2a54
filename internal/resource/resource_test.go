package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/libreshockwave/shockwave/internal/datum"
)

func waitDone(t *testing.T, l *Loader, id int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !l.NetDone(id) {
		if time.Now().After(deadline) {
			t.Fatalf("net request %d did not complete in time", id)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPreloadNetThingFetchesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello lingo"))
	}))
	defer srv.Close()

	l := New(nil, 2)
	id := l.PreloadNetThing(srv.URL)
	waitDone(t, l, id)

	if got := l.NetTextResult(id).S; got != "hello lingo" {
		t.Fatalf("NetTextResult = %q", got)
	}
	if errMsg := l.NetError(id); errMsg != "OK" {
		t.Fatalf("NetError = %q", errMsg)
	}
}

func TestPostNetTextSendsBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte("ack"))
	}))
	defer srv.Close()

	l := New(nil, 2)
	id := l.PostNetText(srv.URL, "payload")
	waitDone(t, l, id)

	if gotBody != "payload" {
		t.Fatalf("server saw body %q", gotBody)
	}
	if got := l.NetTextResult(id).S; got != "ack" {
		t.Fatalf("NetTextResult = %q", got)
	}
}

func TestNetErrorOnHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	l := New(nil, 2)
	id := l.PreloadNetThing(srv.URL)
	waitDone(t, l, id)

	if l.NetError(id) == "OK" {
		t.Fatalf("expected a non-OK NetError for a 404 response")
	}
	status := l.GetStreamStatus(id)
	if status.PropList == nil || len(status.PropList.Entries) == 0 {
		t.Fatalf("expected a populated status proplist")
	}
}

func TestGetStreamStatusReportsAllFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello lingo"))
	}))
	defer srv.Close()

	l := New(nil, 2)
	id := l.PreloadNetThing(srv.URL)
	waitDone(t, l, id)

	status := l.GetStreamStatus(id)
	if got := datum.GetAProp(status, datum.Sym("URL")).S; got != srv.URL {
		t.Errorf("URL = %q, want %q", got, srv.URL)
	}
	if got := datum.GetAProp(status, datum.Sym("state")).S; got != "complete" {
		t.Errorf("state = %q, want complete", got)
	}
	if got := datum.GetAProp(status, datum.Sym("bytesSoFar")).I; got != int32(len("hello lingo")) {
		t.Errorf("bytesSoFar = %d, want %d", got, len("hello lingo"))
	}
	if got := datum.GetAProp(status, datum.Sym("bytesTotal")).I; got != int32(len("hello lingo")) {
		t.Errorf("bytesTotal = %d, want %d", got, len("hello lingo"))
	}
	if got := datum.GetAProp(status, datum.Sym("error")).S; got != "OK" {
		t.Errorf("error = %q, want OK", got)
	}
}

func TestUnknownNetIDIsDoneWithNoError(t *testing.T) {
	l := New(nil, 1)
	if !l.NetDone(999) {
		t.Fatalf("unknown net id should report done")
	}
	if l.NetError(999) != "OK" {
		t.Fatalf("unknown net id should report OK")
	}
}

func TestResolveAssetTriesFallbackExtensions(t *testing.T) {
	l := New(nil, 1)
	exists := map[string]bool{"movie.cct": true}
	path, ok := l.ResolveAsset(AssetCast, "movie", func(p string) bool { return exists[p] })
	if !ok || path != "movie.cct" {
		t.Fatalf("ResolveAsset = %q, %v", path, ok)
	}

	_, ok = l.ResolveAsset(AssetMovie, "missing", func(p string) bool { return false })
	if ok {
		t.Fatalf("expected ResolveAsset to fail when no candidate exists")
	}
}

func TestResolveAssetOrdersByKindAndBase(t *testing.T) {
	l := New(nil, 1)

	// Local cast base: plain .cst is tried before compressed .cct.
	bothCast := map[string]bool{"thing.cst": true, "thing.cct": true}
	path, ok := l.ResolveAsset(AssetCast, "thing", func(p string) bool { return bothCast[p] })
	if !ok || path != "thing.cst" {
		t.Fatalf("local cast ResolveAsset = %q, %v, want thing.cst", path, ok)
	}

	// HTTP cast base: compressed .cct is preferred first.
	path, ok = l.ResolveAsset(AssetCast, "http://example.com/thing", func(p string) bool { return bothCast["thing"+p[len("http://example.com/thing"):]] })
	if !ok || path != "http://example.com/thing.cct" {
		t.Fatalf("http cast ResolveAsset = %q, %v, want .cct first", path, ok)
	}

	// Local movie base: .dir before .dcr before .dxr.
	bothMovie := map[string]bool{"show.dcr": true, "show.dxr": true}
	path, ok = l.ResolveAsset(AssetMovie, "show", func(p string) bool { return bothMovie[p] })
	if !ok || path != "show.dcr" {
		t.Fatalf("local movie ResolveAsset = %q, %v, want show.dcr", path, ok)
	}

	// HTTP movie base: compressed .dcr preferred first, same result here
	// since .dcr is already first locally; assert .dxr alone still resolves
	// ahead of .dir for an HTTP base.
	dxrOnly := map[string]bool{"show.dxr": true}
	path, ok = l.ResolveAsset(AssetMovie, "http://example.com/show", func(p string) bool { return dxrOnly["show"+p[len("http://example.com/show"):]] })
	if !ok || path != "http://example.com/show.dxr" {
		t.Fatalf("http movie ResolveAsset = %q, %v, want .dxr", path, ok)
	}
}

func TestFetchAllPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Query().Get("v")))
	}))
	defer srv.Close()

	l := New(nil, 4)
	urls := []string{srv.URL + "?v=a", srv.URL + "?v=b", srv.URL + "?v=c"}
	results, err := FetchAll(context.Background(), l, urls)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, w := range want {
		if string(results[i]) != w {
			t.Fatalf("results[%d] = %q, want %q", i, results[i], w)
		}
	}
}
