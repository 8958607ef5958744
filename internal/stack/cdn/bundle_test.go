package cdn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetBundleValidate(t *testing.T) {
	require.NoError(t, AssetBundle{Dir: defaultBundle(t)}.Validate())

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	assert.ErrorIs(t, AssetBundle{Dir: file}.Validate(), ErrInvalidBundle)

	dir := writeBundle(t, map[string]string{"index.html/nested": "x"})
	assert.ErrorIs(t, AssetBundle{Dir: dir}.Validate(), ErrInvalidBundle, "index.html must be a file")
}

func TestAssetBundleManifest(t *testing.T) {
	dir := writeBundle(t, map[string]string{
		"index.html":        "hello",
		"static/js/main.js": "",
	})

	m, err := AssetBundle{Dir: dir}.Manifest()
	require.NoError(t, err)
	assert.Equal(t, []string{"index.html", "static/js/main.js"}, m.Keys())
	assert.Equal(t, ObjectDigest{Size: 5, MD5: "5d41402abc4b2a76b9719d911017c592"}, m["index.html"])
	assert.Equal(t, ObjectDigest{Size: 0, MD5: "d41d8cd98f00b204e9800998ecf8427e"}, m["static/js/main.js"])
}

// Re-reading an unchanged bundle yields the same object set; this is what the
// bucket ends up holding after a pruned redeploy.
func TestAssetBundleManifestStable(t *testing.T) {
	dir := defaultBundle(t)
	first, err := AssetBundle{Dir: dir}.Manifest()
	require.NoError(t, err)
	second, err := AssetBundle{Dir: dir}.Manifest()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssetBundleManifestMissingDir(t *testing.T) {
	_, err := AssetBundle{Dir: filepath.Join(t.TempDir(), "missing")}.Manifest()
	assert.ErrorIs(t, err, ErrInvalidBundle)
}
