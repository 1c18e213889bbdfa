// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

//go:build integration

package testinfra

import "testing"

func TestSkipIfNoDocker_EnvOverride(t *testing.T) {
	t.Setenv(SkipDockerEnv, "1")

	reached := false
	t.Run("redis cache", func(t *testing.T) {
		SkipIfNoDocker(t)
		reached = true
	})
	if reached {
		t.Errorf("container test ran with %s set", SkipDockerEnv)
	}
}
