package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageBody = `{
  "status": "success",
  "data": {
    "query": {"locale": "en_US", "query": "paris", "offset": 0},
    "result": {
      "items": [
        {"title": "<b>Paris</b> guide", "_id": "1", "url": "https://example.com/paris", "desc": "All about <b>Paris</b>", "source": "example"}
      ],
      "filters": {"freshness": {"label": "Date", "name": "freshness", "type": "select", "selected": "all", "values": []}},
      "version": "1.0"
    }
  }
}`

type recorder struct {
	mu      sync.Mutex
	queries []map[string][]string
}

func (r *recorder) server(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.queries = append(r.queries, req.URL.Query())
		r.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	app := newApp()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"qwant-cli"}, args...))
	return out.String(), err
}

func TestSearch_TextOutputAndPaging(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t, pageBody)

	out, err := runApp(t, "search", "--app-id", "cli-test", "--base", srv.URL, "--pages", "2", "--safe", "paris", "guide")
	require.NoError(t, err)

	require.Len(t, rec.queries, 2)
	assert.Equal(t, "paris guide", rec.queries[0]["q"][0])
	assert.Equal(t, "1", rec.queries[0]["safesearch"][0])
	assert.Equal(t, "cli-test", rec.queries[0]["t"][0])
	assert.Empty(t, rec.queries[0]["offset"])
	assert.Equal(t, []string{"10"}, rec.queries[1]["offset"])

	assert.Contains(t, out, "  1. Paris guide")
	assert.Contains(t, out, " 11. Paris guide")
	assert.Contains(t, out, "All about Paris")
	assert.Contains(t, out, "source: example")
}

func TestSearch_JSONOutputRaw(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t, pageBody)

	out, err := runApp(t, "search", "--app-id", "a", "--base", srv.URL, "-o", "json", "--strip", "none", "paris")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, out, `<b>Paris</b> guide`)
}

func TestSearch_JSONOutputStripped(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t, pageBody)

	out, err := runApp(t, "search", "--app-id", "a", "--base", srv.URL, "-o", "json", "--strip", "html", "paris")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Paris guide"`)
}

func TestSearch_ConfigFileAndOverrides(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t, pageBody)

	path := filepath.Join(t.TempDir(), "qwant.yaml")
	cfg := "app_id: from-file\nlocale: fr_FR\nkind: news\nbase_url: " + srv.URL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	_, err := runApp(t, "--config", path, "search", "--locale", "de_DE", "kaffee")
	require.NoError(t, err)

	require.Len(t, rec.queries, 1)
	assert.Equal(t, "from-file", rec.queries[0]["t"][0])
	assert.Equal(t, "de_DE", rec.queries[0]["locale"][0])
}

func TestSearch_EnvironmentOverridesConfigFile(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t, pageBody)

	path := filepath.Join(t.TempDir(), "qwant.yaml")
	cfg := "app_id: from-file\npages: 1\nstrip: none\nbase_url: " + srv.URL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	t.Setenv("QWANT_PAGES", "2")
	t.Setenv("QWANT_STRIP", "regex")
	t.Setenv("QWANT_OUTPUT", "json")
	t.Setenv("QWANT_USER_AGENT", "env-agent/1.0")
	t.Setenv("QWANT_TIMEOUT", "5s")
	t.Setenv("QWANT_RATE_LIMIT", "100")
	t.Setenv("QWANT_RATE_BURST", "2")

	out, err := runApp(t, "--config", path, "search", "paris")
	require.NoError(t, err)
	assert.Len(t, rec.queries, 2)
	assert.Contains(t, out, `"title": "Paris guide"`)

	// a flag still wins over its variable
	rec.queries = nil
	_, err = runApp(t, "--config", path, "search", "--pages", "1", "--rate-burst", "1", "paris")
	require.NoError(t, err)
	assert.Len(t, rec.queries, 1)
}

func TestSearch_APIErrorIsReported(t *testing.T) {
	rec := &recorder{}
	srv := rec.server(t, `{"status":"error","data":{"result":{"items":[],"filters":{"freshness":{}},"version":"1"},"error_code":24}}`)

	_, err := runApp(t, "search", "--app-id", "a", "--base", srv.URL, "paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=24")
}

func TestSearch_RejectsBadInput(t *testing.T) {
	_, err := runApp(t, "search", "--app-id", "a")
	assert.Error(t, err)

	_, err = runApp(t, "search", "--app-id", "a", "--kind", "maps", "x")
	assert.Error(t, err)

	_, err = runApp(t, "search", "--app-id", "a", "--output", "xml", "x")
	assert.Error(t, err)
}

func TestKinds(t *testing.T) {
	out, err := runApp(t, "kinds")
	require.NoError(t, err)
	assert.Equal(t, "web\nnews\nimages\nvideos\nshopping\nmusic\n", out)
}
