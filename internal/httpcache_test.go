/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gregjones/httpcache"
)

func TestHttpClient(t *testing.T) {
	var hits atomic.Int32
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		hits.Add(1)
		agent.Store(r.Header.Get("User-Agent"))
		// origin asks not to be cached; the client must override this
		w.Header().Set("Cache-Control", "no-store")
		fmt.Fprint(w, "<table><tr><th>Team</th></tr></table>")
	}))
	defer srv.Close()

	client := newCachedHttpClient(httpcache.NewMemoryCache(),
		http.DefaultTransport, 5*time.Minute)

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Errorf("Failed to read response body")
		}
		if len(data) == 0 {
			t.Errorf("Empty data")
		}
		if i > 0 {
			if resp.Header.Get("X-From-Cache") != "1" {
				t.Errorf("object not cached")
			}
		}
	}

	if hits.Load() != 1 {
		t.Errorf("origin hits = %d; want 1", hits.Load())
	}
	if agent.Load() != UserAgent {
		t.Errorf("User-Agent = %v; want %v", agent.Load(), UserAgent)
	}
}

func TestNewCachedHttpClientFallback(t *testing.T) {
	client := NewCachedHttpClient(context.Background(), "", time.Minute)
	if client == nil || client == http.DefaultClient {
		t.Fatalf("expected a dedicated cached client")
	}
	tr, ok := client.Transport.(*httpcache.Transport)
	if !ok {
		t.Fatalf("Transport = %T; want *httpcache.Transport", client.Transport)
	}
	if _, ok := tr.Cache.(*httpcache.MemoryCache); !ok {
		t.Errorf("Cache = %T; want *httpcache.MemoryCache", tr.Cache)
	}
}
