// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

/*
Package llm talks to the natural-language model server that turns free-text
recommendation requests into discover parameters.

The server is any OpenAI-compatible chat completion endpoint. The model is
treated as opaque: text goes in, and either a JSON object or an error comes
out. Callers decide what a failure means; the translator demotes every
failure to its rule path.

Client behavior:
  - Requests use temperature 0.1 and at most 512 tokens
  - Invocations are limited locally with a token bucket; when no token is
    available the call fails immediately with ErrRateLimited
  - Transport errors, 408, 429 and 5xx responses are retried with backoff
  - Call latency is exported as model_call_duration_seconds

The Registry stores a runtime-announced server URL in the KV cache under
llm:server_url for 24 hours. Model servers behind ephemeral tunnels register
on startup; the client resolves the URL per call.

Example:

	reg := llm.NewRegistry(store, cfg.LLM.BaseURL, cfg.Cache.OpTimeout)
	client := llm.NewClient(llm.ConfigFrom(cfg.LLM), llm.WithEndpointSource(reg))

	content, err := client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return err
	}
	obj, err := llm.ExtractJSONObject(content)
*/
package llm
