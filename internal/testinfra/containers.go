// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

//go:build integration

package testinfra

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// Only the Redis response cache tier (internal/cache) runs against a real
// container; everything else in OpusCine is tested with httptest servers
// and in-memory stores.

// SkipDockerEnv turns the container tests off on hosts where docker info
// succeeds but pulling redis images is not allowed.
const SkipDockerEnv = "OPUSCINE_SKIP_DOCKER_TESTS"

// SkipIfNoDocker skips the test if Docker is not available or SkipDockerEnv
// is set.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if os.Getenv(SkipDockerEnv) != "" {
		t.Skipf("Skipping test: %s is set", SkipDockerEnv)
	}
	if !IsDockerAvailable() {
		t.Skip("Skipping test: Docker not available")
	}
}

// IsDockerAvailable checks if Docker daemon is running and accessible.
func IsDockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "docker", "info")
	return cmd.Run() == nil
}

// CleanupContainer is a helper for deferred container cleanup that logs errors.
func CleanupContainer(t *testing.T, ctx context.Context, container testcontainers.Container) {
	t.Helper()

	if container != nil {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	}
}
