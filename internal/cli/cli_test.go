// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/noldarim/nlctl/internal/examples"
	"github.com/noldarim/nlctl/internal/protocol"
	"github.com/noldarim/nlctl/internal/render"
	"github.com/noldarim/nlctl/test/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig points the client at baseURL and keeps logs inside the test dir.
func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`client:
  base_url: %q
log:
  level: DEBUG
  output:
    - type: file
      enabled: true
      path: %q
`, baseURL, filepath.Join(dir, "nlctl.log"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func fakeService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok","version":"1.2.0"}`))
			return
		}
		var req protocol.ExecuteRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(req.Text, "boom"):
			w.WriteHeader(http.StatusServiceUnavailable)
		case strings.Contains(req.Text, "arm"):
			_ = json.NewEncoder(w).Encode(testutil.ArmResponse())
		default:
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(testutil.NonsenseResponse(req.Text))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, Run([]string{"version"}, &stdout, &stderr))
	assert.Equal(t, "nlctl version "+appVersion+"\n", stdout.String())
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, Run([]string{"help"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "Usage:")
	assert.Contains(t, stdout.String(), "exec <text>")
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run([]string{"frobnicate"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
	assert.Contains(t, stderr.String(), "Unknown command: frobnicate")
}

func TestRun_Examples(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, Run([]string{"examples"}, &stdout, &stderr))
	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	require.Len(t, lines, len(examples.Commands()))
	assert.Contains(t, lines[0], examples.Commands()[0])
}

func TestExec_RequiresCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := Run([]string{"exec"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one command")
}

func TestExec_TextOutput(t *testing.T) {
	srv := fakeService(t)
	cfgPath := writeConfig(t, srv.URL)

	var stdout, stderr bytes.Buffer
	err := Run([]string{"exec", "--config", cfgPath, "--no-color", "arm the system"}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "[ARM SYSTEM] arm the system")
	assert.Contains(t, out, "NLP INTERPRETATION")
	assert.Contains(t, out, "POST /api/arm-system")
	assert.Contains(t, out, `"mode": "away"`)
	assert.NotContains(t, out, "\x1b[")
}

func TestExec_JSONOutputOldestFirst(t *testing.T) {
	srv := fakeService(t)
	cfgPath := writeConfig(t, srv.URL)

	var stdout, stderr bytes.Buffer
	err := Run([]string{"exec", "--config", cfgPath, "--json", "--serial", "arm the system", "   ", "arm again"}, &stdout, &stderr)
	require.NoError(t, err)

	var views []render.View
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &views))
	require.Len(t, views, 2, "blank input is not submitted")
	assert.Equal(t, "arm the system", views[0].Input)
	assert.Equal(t, "arm again", views[1].Input)
	for _, v := range views {
		assert.Equal(t, render.KindInterpretation, v.Kind)
	}
}

func TestExec_FailuresReturnError(t *testing.T) {
	srv := fakeService(t)
	cfgPath := writeConfig(t, srv.URL)

	var stdout, stderr bytes.Buffer
	err := Run([]string{"exec", "--config", cfgPath, "--no-color", "arm the system", "do a barrel roll", "boom"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 commands did not succeed")

	out := stdout.String()
	assert.Contains(t, out, "Could not understand command")
	assert.Contains(t, out, "HTTP 503: Service Unavailable")
}

func TestExec_AllBlank(t *testing.T) {
	srv := fakeService(t)
	cfgPath := writeConfig(t, srv.URL)

	var stdout, stderr bytes.Buffer
	err := Run([]string{"exec", "--config", cfgPath, " ", ""}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blank")
}

func TestHealth(t *testing.T) {
	srv := fakeService(t)
	cfgPath := writeConfig(t, srv.URL)

	var stdout, stderr bytes.Buffer
	require.NoError(t, Run([]string{"health", "--config", cfgPath}, &stdout, &stderr))
	assert.Equal(t, srv.URL+": healthy\n  status: ok\n  version: 1.2.0\n", stdout.String())
}

func TestHealth_Unreachable(t *testing.T) {
	srv := fakeService(t)
	cfgPath := writeConfig(t, srv.URL)
	srv.Close()

	var stdout, stderr bytes.Buffer
	err := Run([]string{"health", "--config", cfgPath}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not healthy")
}

func TestFormatText_Color(t *testing.T) {
	v := render.View{
		Kind:   render.KindTransportError,
		Input:  "arm",
		When:   "just now",
		Header: render.Classification{Label: "UNKNOWN", Color: render.NeutralColor},
		Error:  "boom",
	}
	plain := formatText(v, false)
	assert.True(t, strings.HasPrefix(plain, "[UNKNOWN] arm"))
	assert.Contains(t, plain, "boom")

	colored := formatText(v, true)
	assert.Contains(t, colored, "UNKNOWN")
	assert.Contains(t, colored, "boom")
}
