package cdn

import (
	"cdkdemo/internal/service/cfn"
	"errors"
)

var (
	// ErrExportNotFound はクロススタック参照先のエクスポートが存在しない場合のエラー
	ErrExportNotFound = cfn.ErrExportNotFound

	// ErrInvalidBundle は静的アセットのビルド成果物が不正な場合のエラー
	ErrInvalidBundle = errors.New("静的アセットが不正です")

	// ErrInvalidRule はルーティングルールの構成が不正な場合のエラー
	ErrInvalidRule = errors.New("ルーティングルールが不正です")
)
