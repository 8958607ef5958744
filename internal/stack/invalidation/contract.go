// Package invalidation はキャッシュ無効化カスタムリソースのスタック側とハンドラー側で共有する取り決め
package invalidation

import "fmt"

// ResourceType はキャッシュ無効化カスタムリソースの型名
const ResourceType = "Custom::CloudFrontInvalidation"

// AllPaths は全パスを対象とする無効化パス
const AllPaths = "/*"

// カスタムリソースのプロパティ名
const (
	PropDistributionID = "DistributionId"
	PropPaths          = "Paths"
	PropNonce          = "Nonce"
	PropPhysicalID     = "PhysicalIdStrategy"
)

// PhysicalIDStrategy はカスタムリソースが返す物理IDの決め方
type PhysicalIDStrategy string

const (
	// PhysicalIDStable はディストリビューションIDから物理IDを導出する
	PhysicalIDStable PhysicalIDStrategy = "stable"
	// PhysicalIDTimestamp は合成毎のタイムスタンプを物理IDにする
	// 毎回リソースの置き換えと見なされ、旧リソースの削除で追加の無効化が走る
	PhysicalIDTimestamp PhysicalIDStrategy = "timestamp"
)

// ParsePhysicalIDStrategy は文字列から戦略を取得する
func ParsePhysicalIDStrategy(s string) (PhysicalIDStrategy, error) {
	switch PhysicalIDStrategy(s) {
	case "", PhysicalIDStable:
		return PhysicalIDStable, nil
	case PhysicalIDTimestamp:
		return PhysicalIDTimestamp, nil
	default:
		return "", fmt.Errorf("不明な物理ID戦略です: %s (stable または timestamp)", s)
	}
}

// PhysicalResourceID は戦略に応じた物理IDを返す
func PhysicalResourceID(strategy PhysicalIDStrategy, distributionID, nonce string) string {
	if strategy == PhysicalIDTimestamp && nonce != "" {
		return "invalidation-" + nonce
	}
	return "invalidation-" + distributionID
}
