package cdn

import (
	"cdkdemo/internal/stack/invalidation"
	"fmt"
	"time"
)

// InvalidationSpec はスタック適用時に発行するキャッシュ無効化の定義
type InvalidationSpec struct {
	Paths      []string
	PhysicalID invalidation.PhysicalIDStrategy
	// Nonce は合成毎に変わる値。プロパティが変わるため適用毎にUpdateイベントが届く
	Nonce string
}

func newInvalidationSpec(strategy invalidation.PhysicalIDStrategy, now time.Time) InvalidationSpec {
	return InvalidationSpec{
		Paths:      []string{invalidation.AllPaths},
		PhysicalID: strategy,
		Nonce:      fmt.Sprintf("%d", now.UnixNano()),
	}
}
