package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/cat.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(append([]byte{0xFF, 0xD8}, bytes.Repeat([]byte("c"), 3000)...))
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRun_Args(t *testing.T) {
	srv := newServer(t)
	out := filepath.Join(t.TempDir(), "Fetched_Images")

	stdout, err := execute(t, "",
		"--output-dir", out,
		"--timeout", "5s",
		srv.URL+"/cat.jpg,"+srv.URL+"/cat.jpg",
		srv.URL+"/page",
		srv.URL+"/missing.jpg",
		"not-a-url",
	)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	for _, want := range []string{
		"Welcome to the Ubuntu Image Fetcher",
		"✓ Successfully fetched: cat.jpg",
		"✗ Skipped " + srv.URL + "/cat.jpg: duplicate image detected",
		"✗ Skipped " + srv.URL + "/page: unsupported content type: text/html",
		"✗ HTTP error for " + srv.URL + "/missing.jpg: HTTP 404 Not Found",
		"✗ Invalid URL for not-a-url",
		"Saved 1, skipped 2, failed 2 of 5.",
		"Connection strengthened. Community enriched.",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q\n%s", want, stdout)
		}
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "cat.jpg" {
		t.Errorf("output dir = %v, want [cat.jpg]", entries)
	}
}

func TestRun_Prompt(t *testing.T) {
	srv := newServer(t)
	out := filepath.Join(t.TempDir(), "Fetched_Images")

	stdout, err := execute(t, srv.URL+"/cat.jpg\n", "--output-dir", out)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "Please enter image URL(s)") {
		t.Errorf("no prompt shown:\n%s", stdout)
	}
	if !strings.Contains(stdout, "✓ Successfully fetched: cat.jpg") {
		t.Errorf("image not fetched:\n%s", stdout)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "Fetched_Images")

	stdout, err := execute(t, "\n", "--output-dir", out)
	if err != nil {
		t.Fatalf("Execute() error = %v, empty input is not fatal", err)
	}
	if !strings.Contains(stdout, "✗ No valid URLs provided.") {
		t.Errorf("output = %q", stdout)
	}
}

func TestRun_OutputDirNotCreatable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "", "--output-dir", filepath.Join(blocker, "Fetched_Images"), "http://example.com/a.jpg")
	if err == nil {
		t.Fatal("expected setup error when the output dir cannot be created")
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	_, err := execute(t, "", "--log-level", "loud", "http://example.com/a.jpg")
	if err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Errorf("Execute() error = %v, want logging.level validation error", err)
	}
}

func TestVersion(t *testing.T) {
	stdout, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if strings.TrimSpace(stdout) != "image-fetcher "+version {
		t.Errorf("version output = %q", stdout)
	}
}
