// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

type cliTestEnv struct {
	configPath string
	provider   *httptest.Server
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	movies := filepath.Join(base, "movies.json")
	series := filepath.Join(base, "series.json")
	writeFile(t, movies, `{"movies":[
		{"tmdb_id":603,"ott_links":[{"provider_name":"Netflix","provider_id":8,"display_priority":1,"link":"https://www.netflix.com/title/20557937"}]},
		{"tmdb_id":27205,"ott_links":[]}
	]}`)
	writeFile(t, series, `{"tv_series":[{"tmdb_id":1396,"ott_links":["https://www.wavve.com/player/vod?programid=1396"]}]}`)

	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/configuration":
			_, _ = w.Write([]byte(`{"images":{}}`))
		case "/search/movie":
			_, _ = w.Write([]byte(`{"page":1,"total_pages":1,"total_results":1,"results":[
				{"id":670,"title":"올드보이","release_date":"2003-11-21","vote_average":8.3}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(provider.Close)

	configPath := filepath.Join(base, "config.yaml")
	writeFile(t, configPath, fmt.Sprintf(`
catalog:
  movies_path: %q
  series_path: %q
cache:
  backend: memory
tmdb:
  api_key: test-key
  base_url: %q
  retries: 0
llm:
  enabled: false
`, movies, series, provider.URL))

	return &cliTestEnv{configPath: configPath, provider: provider}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestVersionSkipsConfig(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "opuscinectl dev")
}

func TestTranslateRulesOnly(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"translate", "--rules-only", "봉준호", "스릴러"}, env.configPath)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	requireContains(t, out, "with_people")
	requireContains(t, out, "21684")
	requireContains(t, out, "Method:     rule")
	requireContains(t, out, "Confidence: 0.75")
}

func TestTranslateJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "translate", "액션"}, env.configPath)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	var result struct {
		Parameters map[string]any `json:"parameters"`
		Method     string         `json:"method"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	// The model path is disabled in the test config.
	if result.Method != "rule" || result.Parameters["with_genres"] == nil {
		t.Errorf("result = %+v", result)
	}
}

func TestResolve(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"resolve", "movie", "603"}, env.configPath)
	if err != nil {
		t.Fatalf("resolve movie: %v", err)
	}
	requireContains(t, out, "movie 603 answered by catalog")
	requireContains(t, out, "Netflix")

	out, _, err = runCLI(t, []string{"resolve", "tv", "1396"}, env.configPath)
	if err != nil {
		t.Fatalf("resolve tv: %v", err)
	}
	requireContains(t, out, "Unknown")
	requireContains(t, out, "programid=1396")

	out, _, err = runCLI(t, []string{"resolve", "movie", "27205"}, env.configPath)
	if err != nil {
		t.Fatalf("resolve empty: %v", err)
	}
	requireContains(t, out, "No streaming links")

	if _, _, err := runCLI(t, []string{"resolve", "book", "1"}, env.configPath); err == nil {
		t.Error("unknown kind should fail")
	}
	if _, _, err := runCLI(t, []string{"resolve", "movie", "-3"}, env.configPath); err == nil {
		t.Error("non-positive id should fail")
	}
}

func TestCatalogStatsAndWarm(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"catalog", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog stats: %v", err)
	}
	requireContains(t, out, "movies")
	requireContains(t, out, "yes")

	out, _, err = runCLI(t, []string{"--json", "catalog", "warm"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog warm: %v", err)
	}
	var warm struct {
		Movies  int `json:"movies"`
		Series  int `json:"series"`
		Written int `json:"written"`
		Empty   int `json:"empty"`
	}
	if err := json.Unmarshal([]byte(out), &warm); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if warm.Movies != 2 || warm.Series != 1 || warm.Written != 2 || warm.Empty != 1 {
		t.Errorf("warm = %+v", warm)
	}
}

func TestSearch(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"search", "올드보이"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "670")
	requireContains(t, out, "올드보이")
	requireContains(t, out, "Page 1 of 1")
}

func TestCredits(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"credits", "--cast", "1", "496243"}, env.configPath)
	if err != nil {
		t.Fatalf("credits: %v", err)
	}
	requireContains(t, out, "21684")
	requireContains(t, out, "Director")
	requireContains(t, out, "송강호")
	if strings.Contains(out, "이선균") || strings.Contains(out, "홍경표") {
		t.Errorf("cast limit or director filter not applied:\n%s", out)
	}

	if _, _, err := runCLI(t, []string{"credits", "abc"}, env.configPath); err == nil {
		t.Error("non-numeric id should fail")
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, _, err := runCLI(t, []string{"catalog", "stats"}, "/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
