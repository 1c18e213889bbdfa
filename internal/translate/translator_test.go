// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package translate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/opuscine/internal/llm"
	"github.com/tomtom215/opuscine/internal/models"
)

// fakeModel answers every call with content or err.
type fakeModel struct {
	content  string
	err      error
	calls    atomic.Int32
	lastSys  string
	lastUser string

	deadline    time.Time
	hasDeadline bool
}

func (f *fakeModel) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls.Add(1)
	f.lastSys = systemPrompt
	f.lastUser = userPrompt
	f.deadline, f.hasDeadline = ctx.Deadline()
	return f.content, f.err
}

func newTranslator(model Model, memo time.Duration) *Translator {
	return New(Options{
		Model:   model,
		MemoTTL: memo,
		Now:     func() time.Time { return fixedNow },
	})
}

func TestTranslate_ModelSuccess(t *testing.T) {
	t.Parallel()

	model := &fakeModel{content: "```json\n{\"with_genres\": [28, 53], \"vote_average.gte\": 7.5}\n```"}
	tr := newTranslator(model, 0)
	defer tr.Close()

	res := tr.Translate(context.Background(), "액션 스릴러 명작")
	if res.Method != models.MethodModel {
		t.Fatalf("method = %s (reason %q)", res.Method, res.FallbackReason)
	}
	if res.Confidence != ModelConfidence {
		t.Errorf("confidence = %v", res.Confidence)
	}
	want := models.Params{
		models.ParamWithGenres:     []int{28, 53},
		models.ParamVoteAverageGTE: 7.5,
		models.ParamLanguage:       "ko-KR",
		models.ParamSortBy:         models.SortPopularityDesc,
	}
	if !reflect.DeepEqual(res.Parameters, want) {
		t.Errorf("Parameters = %v, want %v", res.Parameters, want)
	}
	if res.OriginalText != "액션 스릴러 명작" || res.FallbackReason != "" {
		t.Errorf("unexpected result %+v", res)
	}
	if !strings.Contains(model.lastSys, "봉준호: 21684") || !strings.Contains(model.lastSys, "2025-01-01") {
		t.Error("system prompt should carry the lexicons and the recency bound")
	}
}

func TestTranslate_ModelReportedConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		content string
		want    float64
	}{
		{`{"sort_by":"vote_average.desc","confidence":0.6}`, 0.6},
		{`{"sort_by":"vote_average.desc","confidence":1.7}`, ModelConfidence},
		{`{"sort_by":"vote_average.desc","confidence":"high"}`, ModelConfidence},
	}
	for _, tt := range tests {
		res := newTranslator(&fakeModel{content: tt.content}, 0).Translate(context.Background(), "x")
		if res.Method != models.MethodModel {
			t.Fatalf("%s: method = %s", tt.content, res.Method)
		}
		if res.Confidence != tt.want {
			t.Errorf("%s: confidence = %v, want %v", tt.content, res.Confidence, tt.want)
		}
		if _, ok := res.Parameters["confidence"]; ok {
			t.Errorf("%s: confidence leaked into parameters", tt.content)
		}
		if res.Parameters[models.ParamSortBy] != models.SortVoteAverageDesc {
			t.Errorf("%s: model sort_by should be kept, got %v", tt.content, res.Parameters[models.ParamSortBy])
		}
	}
}

func TestTranslate_FallbackReasons(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		model Model
		want  Reason
	}{
		{"no model", nil, ReasonDisabled},
		{"disabled", &fakeModel{err: llm.ErrDisabled}, ReasonDisabled},
		{"rate limited", &fakeModel{err: llm.ErrRateLimited}, ReasonRateLimited},
		{"unavailable", &fakeModel{err: fmt.Errorf("%w: connection refused", llm.ErrUnavailable)}, ReasonUnavailable},
		{"deadline", &fakeModel{err: context.DeadlineExceeded}, ReasonUnavailable},
		{"empty response", &fakeModel{err: llm.ErrEmptyResponse}, ReasonEmpty},
		{"prose only", &fakeModel{content: "죄송합니다. 이해하지 못했습니다."}, ReasonMalformed},
		{"broken json", &fakeModel{content: `{"with_genres": [28,`}, ReasonMalformed},
		{"nested object", &fakeModel{content: `{"with_genres": {"id": 28}}`}, ReasonMalformed},
		{"nested list", &fakeModel{content: `{"with_genres": [[28]]}`}, ReasonMalformed},
		{"empty object", &fakeModel{content: `{}`}, ReasonEmpty},
		{"confidence only", &fakeModel{content: `{"confidence": 0.9}`}, ReasonEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr := newTranslator(tt.model, 0)
			res := tr.Translate(context.Background(), "2019년 액션")
			if res.Method != models.MethodRule {
				t.Fatalf("method = %s", res.Method)
			}
			if res.FallbackReason != string(tt.want) {
				t.Errorf("reason = %q, want %q", res.FallbackReason, tt.want)
			}
			if res.Confidence != RuleConfidence {
				t.Errorf("confidence = %v", res.Confidence)
			}
			if res.Parameters[models.ParamReleaseGTE] != "2019-01-01" {
				t.Errorf("rule path parameters missing: %v", res.Parameters)
			}
		})
	}
}

func TestTranslate_AlwaysUsableResult(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", "   ", "😀", "2019", "최신 고전 명작 평점낮은 인기 평점순 개봉순",
		strings.Repeat("액션 ", 200), "SELECT * FROM movies;", "\x00\xff",
	}
	backends := []Model{nil, &fakeModel{err: errors.New("boom")}, &fakeModel{content: "nope"}}

	for _, m := range backends {
		tr := newTranslator(m, 0)
		for _, in := range inputs {
			res := tr.Translate(context.Background(), in)
			if res.Method != models.MethodRule {
				t.Errorf("%q: method = %s", in, res.Method)
			}
			if res.Confidence < 0 || res.Confidence > 1 {
				t.Errorf("%q: confidence %v out of range", in, res.Confidence)
			}
			if _, ok := res.Parameters[models.ParamLanguage]; !ok {
				t.Errorf("%q: language missing", in)
			}
			if _, ok := res.Parameters[models.ParamSortBy]; !ok {
				t.Errorf("%q: sort_by missing", in)
			}
		}
	}
}

func TestTranslate_Memoizes(t *testing.T) {
	t.Parallel()

	model := &fakeModel{content: `{"with_genres":[35]}`}
	tr := newTranslator(model, time.Minute)
	defer tr.Close()

	first := tr.Translate(context.Background(), "코미디 추천")
	second := tr.Translate(context.Background(), "  코미디   추천 ")
	if model.calls.Load() != 1 {
		t.Errorf("expected 1 model call, got %d", model.calls.Load())
	}
	if !reflect.DeepEqual(first.Parameters, second.Parameters) {
		t.Errorf("memoized parameters differ: %v vs %v", first.Parameters, second.Parameters)
	}
	if second.OriginalText != "  코미디   추천 " {
		t.Errorf("OriginalText should be the caller's text, got %q", second.OriginalText)
	}

	// Mutating a returned result must not leak into the memo.
	second.Parameters[models.ParamWithGenres].([]int)[0] = 99
	third := tr.Translate(context.Background(), "코미디 추천")
	if got := third.Parameters[models.ParamWithGenres].([]int)[0]; got != 35 {
		t.Errorf("memo was mutated through a result: %d", got)
	}

	stats := tr.MemoStats()
	if stats == nil || stats.Hits != 2 {
		t.Errorf("memo stats = %+v", stats)
	}
}

func TestTranslate_FailuresAreNotMemoized(t *testing.T) {
	t.Parallel()

	model := &fakeModel{err: llm.ErrUnavailable}
	tr := newTranslator(model, time.Minute)
	defer tr.Close()

	tr.Translate(context.Background(), "액션")
	tr.Translate(context.Background(), "액션")
	if model.calls.Load() != 2 {
		t.Errorf("expected 2 model calls, got %d", model.calls.Load())
	}
}

func TestTranslate_WithLLMClient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{
				"message": map[string]any{"content": "JSON 응답:\n{\"with_people\": [21684], \"language\": \"en-US\"}"},
			}},
		})
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{Enabled: true, BaseURL: server.URL, Model: "test", Timeout: 5 * time.Second})
	res := newTranslator(client, 0).Translate(context.Background(), "봉준호 영화")
	if res.Method != models.MethodModel {
		t.Fatalf("method = %s (reason %q)", res.Method, res.FallbackReason)
	}
	if got := res.Parameters[models.ParamWithPeople]; !reflect.DeepEqual(got, []int{21684}) {
		t.Errorf("with_people = %v", got)
	}
	if res.Parameters[models.ParamLanguage] != "en-US" {
		t.Errorf("model language should be kept, got %v", res.Parameters[models.ParamLanguage])
	}
}

func TestTranslate_LLMServerDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := llm.NewClient(
		llm.Config{Enabled: true, BaseURL: server.URL, Timeout: 5 * time.Second, MaxRetries: 1},
		llm.WithRetryBackoff(time.Millisecond, time.Millisecond),
	)
	res := newTranslator(client, 0).Translate(context.Background(), "고전 영화")
	if res.Method != models.MethodRule || res.FallbackReason != string(ReasonUnavailable) {
		t.Fatalf("method=%s reason=%q", res.Method, res.FallbackReason)
	}
	if res.Parameters[models.ParamReleaseLTE] != ClassicUpperBound {
		t.Errorf("rule path should have run: %v", res.Parameters)
	}
}

func TestTranslate_ModelSeesCallerText(t *testing.T) {
	t.Parallel()

	model := &fakeModel{content: `{"with_genres": [878]}`}
	tr := newTranslator(model, time.Minute)
	defer tr.Close()

	res := tr.Translate(context.Background(), "  최근 SF   영화  ")
	if res.Method != models.MethodModel {
		t.Fatalf("method = %s (reason %q)", res.Method, res.FallbackReason)
	}
	if !strings.Contains(model.lastUser, "최근 SF   영화") {
		t.Errorf("user prompt = %q, want the caller's text", model.lastUser)
	}

	// Spelling variants share one memo entry.
	tr.Translate(context.Background(), "최근 sf 영화")
	if got := model.calls.Load(); got != 1 {
		t.Errorf("model calls = %d, want 1", got)
	}
}

func TestAttemptModel_Budget(t *testing.T) {
	t.Parallel()

	t.Run("reserve is kept for the provider", func(t *testing.T) {
		t.Parallel()
		model := &fakeModel{content: `{"with_genres": [28]}`}
		tr := New(Options{Model: model, ProviderReserve: 1500 * time.Millisecond})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		callerDeadline, _ := ctx.Deadline()

		if attempt := tr.AttemptModel(ctx, "액션"); !attempt.OK() {
			t.Fatalf("attempt failed: %v", attempt.Err)
		}
		if !model.hasDeadline {
			t.Fatal("model call should carry a deadline")
		}
		if slack := callerDeadline.Sub(model.deadline); slack < 1400*time.Millisecond {
			t.Errorf("model deadline leaves %v before the caller's, want at least the reserve", slack)
		}
	})

	t.Run("budget caps a call without caller deadline", func(t *testing.T) {
		t.Parallel()
		model := &fakeModel{content: `{"with_genres": [28]}`}
		tr := New(Options{Model: model, ModelBudget: time.Second})

		tr.AttemptModel(context.Background(), "액션")
		if !model.hasDeadline || time.Until(model.deadline) > time.Second {
			t.Errorf("deadline = %v (set %v), want within 1s", model.deadline, model.hasDeadline)
		}
	})

	t.Run("no time left skips the model", func(t *testing.T) {
		t.Parallel()
		model := &fakeModel{content: `{"with_genres": [28]}`}
		tr := New(Options{Model: model, ProviderReserve: 5 * time.Second})

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		attempt := tr.AttemptModel(ctx, "액션")
		if !errors.Is(attempt.Err, ErrNoModelBudget) || attempt.Reason != ReasonUnavailable {
			t.Errorf("attempt = %+v", attempt)
		}
		if model.calls.Load() != 0 {
			t.Error("model should not be called")
		}
		if res := tr.Translate(ctx, "액션"); res.Method != models.MethodRule {
			t.Errorf("method = %s, want rule", res.Method)
		}
	})
}

func TestCleanParams(t *testing.T) {
	t.Parallel()

	var obj map[string]any
	if err := json.Unmarshal([]byte(`{"with_genres":[28,12],"vote_average.gte":7.5,"language":"ko-KR","page":2,"region":null}`), &obj); err != nil {
		t.Fatal(err)
	}
	params, err := CleanParams(obj)
	if err != nil {
		t.Fatalf("CleanParams() error = %v", err)
	}
	want := models.Params{
		models.ParamWithGenres: []int{28, 12},
		"vote_average.gte":     7.5,
		models.ParamLanguage:   "ko-KR",
		models.ParamPage:       2,
	}
	if !reflect.DeepEqual(params, want) {
		t.Errorf("CleanParams() = %#v, want %#v", params, want)
	}

	for _, bad := range []map[string]any{
		{"with_genres": map[string]any{"id": 28}},
		{"with_genres": []any{[]any{28}}},
		{" ": "x"},
	} {
		if _, err := CleanParams(bad); err == nil {
			t.Errorf("CleanParams(%v) should fail", bad)
		}
	}
}
