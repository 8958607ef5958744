package cdn

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

// writeBundle はテスト用のビルド成果物を作成する
func writeBundle(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		writeFile(t, dir, name, body)
	}
	return dir
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func defaultBundle(t *testing.T) string {
	return writeBundle(t, map[string]string{
		"index.html":         "<html>demo</html>",
		"static/js/main.js":  "console.log('demo')",
		"static/css/app.css": "body{}",
	})
}

func buildPlan(t *testing.T, opts Options) *Plan {
	t.Helper()
	if opts.AssetPath == "" {
		opts.AssetPath = defaultBundle(t)
	}
	if opts.Now == nil {
		opts.Now = fixedNow
	}
	resolver := StaticResolver{DefaultLoadBalancerExport: "demo-alb-123.us-east-1.elb.amazonaws.com"}
	plan, err := Build(t.Context(), resolver, opts)
	require.NoError(t, err)
	return plan
}
