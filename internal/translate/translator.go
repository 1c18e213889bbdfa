// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/opuscine/internal/cache"
	"github.com/tomtom215/opuscine/internal/llm"
	"github.com/tomtom215/opuscine/internal/logging"
	"github.com/tomtom215/opuscine/internal/metrics"
	"github.com/tomtom215/opuscine/internal/models"
)

// ErrNoModelBudget means the caller's deadline left no time for the model
// once the provider reserve was set aside.
var ErrNoModelBudget = errors.New("translate: no time left for the model")

// ModelConfidence is reported for model results that carry no confidence
// of their own.
const ModelConfidence = 0.95

// Reason explains why the model path did not answer.
type Reason string

const (
	ReasonDisabled    Reason = "disabled"
	ReasonRateLimited Reason = "rate_limited"
	ReasonUnavailable Reason = "unavailable"
	ReasonMalformed   Reason = "malformed"
	ReasonEmpty       Reason = "empty"
)

// Model is the opaque natural-language model. *llm.Client implements it.
type Model interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ModelAttempt is the outcome of the model path: either Params and
// Confidence, or Err with the Reason it maps to.
type ModelAttempt struct {
	Params     models.Params
	Confidence float64
	Err        error
	Reason     Reason
	Memoized   bool
}

// OK reports whether the attempt produced parameters.
func (a ModelAttempt) OK() bool { return a.Err == nil }

func failedAttempt(reason Reason, err error) ModelAttempt {
	return ModelAttempt{Err: err, Reason: reason}
}

// Options configures a Translator.
type Options struct {
	// Model may be nil, which disables the model path.
	Model Model

	DefaultLanguage string
	DefaultSort     string

	// MemoTTL keeps successful model translations for reuse. Zero disables
	// memoization.
	MemoTTL time.Duration

	// ModelBudget caps one model attempt including retries. Zero leaves
	// only the caller's deadline.
	ModelBudget time.Duration

	// ProviderReserve is kept back from the caller's deadline for the
	// provider call that follows translation.
	ProviderReserve time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Translator turns free text into provider discover parameters.
type Translator struct {
	model    Model
	language string
	sortBy   string
	memo     *cache.Cache
	now      func() time.Time

	modelBudget     time.Duration
	providerReserve time.Duration
}

// New creates a Translator.
func New(opts Options) *Translator {
	t := &Translator{
		model:    opts.Model,
		language: opts.DefaultLanguage,
		sortBy:   opts.DefaultSort,
		now:      opts.Now,

		modelBudget:     opts.ModelBudget,
		providerReserve: opts.ProviderReserve,
	}
	if t.language == "" {
		t.language = "ko-KR"
	}
	if t.sortBy == "" {
		t.sortBy = models.SortPopularityDesc
	}
	if t.now == nil {
		t.now = time.Now
	}
	if opts.MemoTTL > 0 {
		t.memo = cache.New(opts.MemoTTL)
	}
	return t
}

// Close releases the memo cache.
func (t *Translator) Close() {
	if t.memo != nil {
		t.memo.Close()
	}
}

// MemoStats returns memo cache statistics, or nil when memoization is off.
func (t *Translator) MemoStats() *cache.Stats {
	if t.memo == nil {
		return nil
	}
	stats := t.memo.GetStats()
	return &stats
}

// Translate never fails. When the model path does not produce usable
// parameters the rule path answers, and the reason is recorded in
// FallbackReason.
func (t *Translator) Translate(ctx context.Context, text string) models.TranslationResult {
	attempt := t.AttemptModel(ctx, text)
	if attempt.OK() {
		metrics.RecordTranslation(string(models.MethodModel), "")
		return models.TranslationResult{
			Parameters:   attempt.Params,
			Confidence:   attempt.Confidence,
			Method:       models.MethodModel,
			OriginalText: text,
		}
	}

	log := logging.Ctx(ctx)
	if attempt.Reason == ReasonDisabled {
		log.Debug().Msg("Model path disabled, using rules")
	} else {
		log.Warn().Err(attempt.Err).Str("reason", string(attempt.Reason)).Msg("Model translation failed, using rules")
	}

	result := t.TranslateRules(text)
	result.FallbackReason = string(attempt.Reason)
	metrics.RecordTranslation(string(models.MethodRule), result.FallbackReason)
	return result
}

// TranslateRules runs only the rule path.
func (t *Translator) TranslateRules(text string) models.TranslationResult {
	return models.TranslationResult{
		Parameters:   applyRules(Normalize(text), t.now(), t.language, t.sortBy),
		Confidence:   RuleConfidence,
		Method:       models.MethodRule,
		OriginalText: text,
	}
}

// AttemptModel runs the model path. The model sees the caller's text;
// the memo is keyed by its normalized form.
func (t *Translator) AttemptModel(ctx context.Context, text string) ModelAttempt {
	if t.model == nil {
		return failedAttempt(ReasonDisabled, llm.ErrDisabled)
	}

	memoKey := cache.GenerateKey("translate", Normalize(text))
	if t.memo != nil {
		if v, ok := t.memo.Get(memoKey); ok {
			metrics.RecordCacheLookup("translation_memo", true)
			hit := v.(ModelAttempt)
			hit.Params = hit.Params.Clone()
			hit.Memoized = true
			return hit
		}
		metrics.RecordCacheLookup("translation_memo", false)
	}

	modelCtx, cancel, ok := t.modelContext(ctx)
	if !ok {
		return failedAttempt(ReasonUnavailable, ErrNoModelBudget)
	}
	defer cancel()

	content, err := t.model.Complete(modelCtx, systemPrompt(t.now(), t.language, t.sortBy), userPrompt(strings.TrimSpace(text)))
	if err != nil {
		return failedAttempt(classify(err), err)
	}

	attempt := t.parseModelOutput(content)
	if attempt.OK() && t.memo != nil {
		stored := attempt
		stored.Params = attempt.Params.Clone()
		t.memo.Set(memoKey, stored)
	}
	return attempt
}

// modelContext bounds the model call by ModelBudget and by the caller's
// deadline minus ProviderReserve. It reports false when nothing is left.
func (t *Translator) modelContext(ctx context.Context) (context.Context, context.CancelFunc, bool) {
	budget := t.modelBudget
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline) - t.providerReserve
		if remaining <= 0 {
			return ctx, func() {}, false
		}
		if budget <= 0 || remaining < budget {
			budget = remaining
		}
	}
	if budget <= 0 {
		modelCtx, cancel := context.WithCancel(ctx)
		return modelCtx, cancel, true
	}
	modelCtx, cancel := context.WithTimeout(ctx, budget)
	return modelCtx, cancel, true
}

// parseModelOutput validates the model's JSON object and fills defaults.
func (t *Translator) parseModelOutput(content string) ModelAttempt {
	obj, err := llm.ExtractJSONObject(content)
	if err != nil {
		return failedAttempt(classify(err), err)
	}

	confidence := ModelConfidence
	if raw, ok := obj["confidence"]; ok {
		delete(obj, "confidence")
		if c, ok := toFloat(raw); ok && c >= 0 && c <= 1 {
			confidence = c
		}
	}

	params, err := CleanParams(obj)
	if err != nil {
		return failedAttempt(ReasonMalformed, err)
	}
	if len(params) == 0 {
		return failedAttempt(ReasonEmpty, errors.New("model returned no parameters"))
	}

	if s, ok := params[models.ParamLanguage].(string); !ok || s == "" {
		params[models.ParamLanguage] = t.language
	}
	if s, ok := params[models.ParamSortBy].(string); !ok || s == "" {
		params[models.ParamSortBy] = t.sortBy
	}

	return ModelAttempt{Params: params, Confidence: confidence}
}

// CleanParams converts a decoded JSON object into discover parameters.
// Null values are dropped; every other value must be a scalar or a flat list
// of scalars.
func CleanParams(obj map[string]any) (models.Params, error) {
	params := make(models.Params, len(obj)+2)
	for key, raw := range obj {
		if strings.TrimSpace(key) == "" {
			return nil, errors.New("empty parameter name")
		}
		if raw == nil {
			continue
		}
		value, err := paramValue(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", key, err)
		}
		params[key] = value
	}
	return params, nil
}

// classify maps a model-path error to a fallback reason.
func classify(err error) Reason {
	switch {
	case errors.Is(err, llm.ErrDisabled):
		return ReasonDisabled
	case errors.Is(err, llm.ErrRateLimited):
		return ReasonRateLimited
	case errors.Is(err, llm.ErrEmptyResponse):
		return ReasonEmpty
	case errors.Is(err, llm.ErrNoJSONObject):
		return ReasonMalformed
	default:
		return ReasonUnavailable
	}
}

// paramValue accepts scalars and flat lists of scalars. Integral numbers
// become int, other numbers float64. Lists of ints become []int and lists
// of strings []string.
func paramValue(raw any) (any, error) {
	switch v := raw.(type) {
	case string, bool:
		return v, nil
	case json.Number:
		return numberValue(v)
	case float64:
		return numberValue(json.Number(fmt.Sprint(v)))
	case []any:
		return listValue(v)
	default:
		return nil, fmt.Errorf("unsupported value of type %T", raw)
	}
}

func numberValue(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", n)
	}
	return f, nil
}

func listValue(list []any) (any, error) {
	out := make([]any, 0, len(list))
	allInts, allStrings := true, true
	for _, item := range list {
		if _, nested := item.([]any); nested {
			return nil, errors.New("nested list")
		}
		value, err := paramValue(item)
		if err != nil {
			return nil, err
		}
		if _, ok := value.(int); !ok {
			allInts = false
		}
		if _, ok := value.(string); !ok {
			allStrings = false
		}
		out = append(out, value)
	}

	switch {
	case len(out) == 0:
		return []any{}, nil
	case allInts:
		ints := make([]int, len(out))
		for i, v := range out {
			ints[i] = v.(int)
		}
		return ints, nil
	case allStrings:
		strs := make([]string, len(out))
		for i, v := range out {
			strs[i] = v.(string)
		}
		return strs, nil
	default:
		return out, nil
	}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	default:
		return 0, false
	}
}
