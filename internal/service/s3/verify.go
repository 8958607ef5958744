package s3

import (
	"cdkdemo/internal/stack/cdn"
	"context"
	"sort"
	"strings"
)

// CompareBundle はローカルのマニフェストとバケットのオブジェクト一覧を突き合わせる
// prefix はバケット側のキーから取り除く接頭辞
func CompareBundle(local cdn.Manifest, remote []S3Object, prefix string) BundleDiff {
	var diff BundleDiff

	seen := make(map[string]bool, len(remote))
	for _, obj := range remote {
		key := strings.TrimPrefix(obj.Key, prefix)
		if key == "" || strings.HasSuffix(key, "/") {
			continue
		}
		seen[key] = true
		diff.RemoteBytes += obj.Size

		digest, ok := local[key]
		if !ok {
			diff.Extra = append(diff.Extra, key)
			continue
		}
		if sameContent(digest, obj) {
			diff.Matched++
		} else {
			diff.Changed = append(diff.Changed, key)
		}
	}

	for _, key := range local.Keys() {
		diff.LocalBytes += local[key].Size
		if !seen[key] {
			diff.Missing = append(diff.Missing, key)
		}
	}

	sort.Strings(diff.Extra)
	sort.Strings(diff.Changed)
	return diff
}

// sameContent はサイズとETagで内容の一致を判定する
// マルチパートアップロードのETagはMD5ではないためサイズのみ比較する
func sameContent(local cdn.ObjectDigest, obj S3Object) bool {
	if local.Size != obj.Size {
		return false
	}
	if obj.ETag == "" || strings.Contains(obj.ETag, "-") {
		return true
	}
	return strings.EqualFold(local.MD5, obj.ETag)
}

// VerifyBundle はローカルのバンドルがバケットに過不足なく配置されているかを確認する
func VerifyBundle(ctx context.Context, client Client, bucket, prefix string, bundle cdn.AssetBundle) (BundleDiff, error) {
	if err := bundle.Validate(); err != nil {
		return BundleDiff{}, err
	}
	local, err := bundle.Manifest()
	if err != nil {
		return BundleDiff{}, err
	}
	remote, err := ListObjects(ctx, client, bucket, prefix)
	if err != nil {
		return BundleDiff{}, err
	}
	return CompareBundle(local, remote, prefix), nil
}
