package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/citadel/internal/filter"
	"github.com/five82/citadel/internal/rickmorty"
)

type fakeLister struct {
	page rickmorty.Page
	err  error
	got  filter.State
}

func (f *fakeLister) Characters(_ context.Context, fs filter.State) (rickmorty.Page, error) {
	f.got = fs
	return f.page, f.err
}

func TestResolveFilter(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	stored := filter.State{Name: "rick", Status: filter.StatusDead, Page: 3}

	if got := resolveFilter(stored, "  ", logger); got != stored {
		t.Fatalf("empty query = %#v, want stored %#v", got, stored)
	}

	got := resolveFilter(stored, "?gender=female&species=human", logger)
	want := filter.State{Gender: filter.GenderFemale, Species: filter.SpeciesHuman, Page: 1}
	if got != want {
		t.Fatalf("query override = %#v, want %#v", got, want)
	}

	got = resolveFilter(stored, "status=sleepy&gender=male", logger)
	if got.Status != filter.StatusAny || got.Gender != filter.GenderMale {
		t.Fatalf("invalid status should be dropped, got %#v", got)
	}
}

type countingSweeper struct {
	calls atomic.Int32
	done  chan struct{}
}

func (s *countingSweeper) Sweep(time.Time) int {
	if s.calls.Add(1) == 2 {
		close(s.done)
	}
	return 1
}

func (s *countingSweeper) Len() int { return 3 }

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStartSweeperRunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &countingSweeper{done: make(chan struct{})}
	var logs lockedBuffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo}))

	StartSweeper(ctx, s, 5*time.Millisecond, logger)

	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not run twice")
	}
	cancel()

	time.Sleep(20 * time.Millisecond)
	after := s.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if s.calls.Load() != after {
		t.Fatal("sweeper kept running after cancel")
	}
	out := logs.String()
	if !strings.Contains(out, `level=INFO msg="cache swept" evicted=1 remaining=3`) {
		t.Fatalf("sweep not logged at info level:\n%s", out)
	}
}

func TestPrintOnce(t *testing.T) {
	lister := &fakeLister{page: rickmorty.Page{
		Info: rickmorty.Info{Count: 21, Pages: 2},
		Results: []rickmorty.Character{
			{ID: 1, Name: "Rick Sanchez", Status: "Alive", Species: "Human", Gender: "Male", Location: rickmorty.Place{Name: "Citadel of Ricks"}},
			{ID: 2, Name: "Morty Smith", Status: "Alive", Species: "Human", Gender: "Male"},
		},
	}}
	var out bytes.Buffer
	f := filter.State{Status: filter.StatusAlive, Page: 1}

	if err := PrintOnce(context.Background(), &out, lister, f); err != nil {
		t.Fatalf("PrintOnce: %v", err)
	}
	if lister.got != f {
		t.Fatalf("fetched %#v, want %#v", lister.got, f)
	}
	text := out.String()
	for _, want := range []string{"Name", "Rick Sanchez", "Citadel of Ricks", "Morty Smith", "Page 1 of 2, 21 characters"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestPrintOnceEmptyAndError(t *testing.T) {
	var out bytes.Buffer
	if err := PrintOnce(context.Background(), &out, &fakeLister{page: rickmorty.EmptyPage()}, filter.New()); err != nil {
		t.Fatalf("PrintOnce empty: %v", err)
	}
	if strings.TrimSpace(out.String()) != "No characters found" {
		t.Fatalf("empty output = %q", out.String())
	}

	boom := errors.New("boom")
	err := PrintOnce(context.Background(), &out, &fakeLister{err: boom}, filter.New())
	if !errors.Is(err, boom) {
		t.Fatalf("PrintOnce error = %v, want wrapped boom", err)
	}
}

func TestRunPrintFetchesQueryPage(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/character" {
			http.NotFound(w, r)
			return
		}
		gotQuery.Store(r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"info":{"count":1,"pages":1},"results":[{"id":1,"name":"Rick Sanchez","status":"Alive","species":"Human","gender":"Male","location":{"name":"Earth"}}]}`)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs", "citadel.log")
	cfgPath := filepath.Join(dir, "config.toml")
	cfg := fmt.Sprintf("api_url = %q\nlog_file = %q\ncache_backend = \"memory\"\n", srv.URL+"/api", logPath)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	for _, key := range []string{"API_URL", "CACHE_BACKEND", "LOG_FILE", "REDIS_URL"} {
		t.Setenv("CITADEL_"+key, "")
		_ = os.Unsetenv("CITADEL_" + key)
	}

	var out bytes.Buffer
	err := Run(context.Background(), Options{
		ConfigPath: cfgPath,
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
		Query:      "status=alive",
		Print:      true,
		Stdout:     &out,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Rick Sanchez") {
		t.Fatalf("output missing character:\n%s", out.String())
	}
	q, _ := gotQuery.Load().(string)
	if q != "page=1&status=alive" {
		t.Fatalf("request query = %q, want page=1&status=alive", q)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("api_url = [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	err := Run(context.Background(), Options{ConfigPath: cfgPath, Print: true, Stdout: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Run error = %v, want load config failure", err)
	}
}
