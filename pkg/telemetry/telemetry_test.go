package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/seanwirkus/Animal-Crossing-CE/pkg/config"
)

func baseConfig() *config.Config {
	return &config.Config{
		ServiceName:    "test-service",
		ServiceVersion: "test",
		Environment:    "testing",
		OtelEndpoint:   "", // disabled
	}
}

func TestSetup_NoOtelEndpoint(t *testing.T) {
	tel, err := Setup(context.Background(), baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tel.Metrics == nil {
		t.Fatal("expected run metrics")
	}
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestRunMetrics_WriteTextfile(t *testing.T) {
	ctx := context.Background()
	tel, err := Setup(ctx, baseConfig())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	defer tel.Shutdown(ctx) //nolint:errcheck

	tel.Metrics.Record(ctx, RunReport{
		Outcome:    OutcomeSuccess,
		Duration:   1500 * time.Millisecond,
		ByCategory: map[string]int{"Fish": 80, "Bug": 80},
		ByWarning:  map[string]int{"duplicate_id": 2},
	})

	path := filepath.Join(t.TempDir(), "catalog.prom")
	if err := tel.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"catalog_import_runs", "catalog_import_records", "catalog_import_warnings", `category="Fish"`, `kind="duplicate_id"`} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q:\n%s", want, text)
		}
	}

	families, err := tel.Gatherer().Gather()
	if err != nil || len(families) == 0 {
		t.Errorf("Gather = %d families, %v", len(families), err)
	}
}

func TestCaptureError_WithoutInit(t *testing.T) {
	// Must not panic when Sentry is disabled.
	CaptureError(errors.New("boom"), map[string]string{"exit_code": "3"})
	SentryFlush()
}

func TestSentryMiddleware_Repanics(t *testing.T) {
	h := SentryMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	defer func() {
		if recover() == nil {
			t.Error("expected the panic to propagate to the outer recovery")
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/catalog/items", http.NoBody))
}
