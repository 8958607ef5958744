package cdn

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// IndexDocument はバンドルに必須のルートドキュメント
const IndexDocument = "index.html"

// PreBuildHook はアセットをアップロードする前に呼び出されるフック
// フロントエンドのビルドをここに差し込めるが、デフォルトでは何もしない
type PreBuildHook func(ctx context.Context, dir string) error

// AssetBundle はローカルのビルド成果物ディレクトリ
type AssetBundle struct {
	Dir string
}

// ObjectDigest はオブジェクト1件分のサイズとMD5
type ObjectDigest struct {
	Size int64
	MD5  string
}

// Manifest はオブジェクトキー -> ダイジェスト の対応
type Manifest map[string]ObjectDigest

// Keys はキーをソートして返す
func (m Manifest) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate はディレクトリが存在し、空でなく、index.html を含むことを確認する
func (b AssetBundle) Validate() error {
	if b.Dir == "" {
		return fmt.Errorf("%w: ディレクトリが指定されていません", ErrInvalidBundle)
	}
	info, err := os.Stat(b.Dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidBundle, b.Dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s はディレクトリではありません", ErrInvalidBundle, b.Dir)
	}

	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidBundle, b.Dir, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s が空です", ErrInvalidBundle, b.Dir)
	}

	index, err := os.Stat(filepath.Join(b.Dir, IndexDocument))
	if err != nil || index.IsDir() {
		return fmt.Errorf("%w: %s に %s がありません", ErrInvalidBundle, b.Dir, IndexDocument)
	}
	return nil
}

// Manifest はバンドル内の全ファイルをS3のキー形式で列挙する
func (b AssetBundle) Manifest() (Manifest, error) {
	manifest := Manifest{}
	err := filepath.WalkDir(b.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(b.Dir, path)
		if err != nil {
			return err
		}
		digest, err := digestFile(path)
		if err != nil {
			return err
		}
		manifest[filepath.ToSlash(rel)] = digest
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}
	return manifest, nil
}

func digestFile(path string) (ObjectDigest, error) {
	f, err := os.Open(path)
	if err != nil {
		return ObjectDigest{}, err
	}
	defer f.Close()

	h := md5.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return ObjectDigest{}, err
	}
	return ObjectDigest{Size: n, MD5: hex.EncodeToString(h.Sum(nil))}, nil
}
