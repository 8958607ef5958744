package cdn

import (
	"cdkdemo/internal/service/cfn"
	"context"
	"fmt"
)

// CrossStackValue は別スタックがエクスポートした値
type CrossStackValue struct {
	ExportName string
	Value      string // 検証済みの場合のみ設定される
	Verified   bool
}

// Display は表示用の文字列を返す
func (v CrossStackValue) Display() string {
	if v.Verified {
		return v.Value
	}
	return "Fn::ImportValue(" + v.ExportName + ")"
}

// ImportResolver はエクスポート名から値を解決する
type ImportResolver interface {
	Resolve(ctx context.Context, exportName string) (CrossStackValue, error)
}

// DeferredResolver は値を確認せず、解決をCloudFormationのデプロイ時に委ねる
type DeferredResolver struct{}

func (DeferredResolver) Resolve(_ context.Context, exportName string) (CrossStackValue, error) {
	if exportName == "" {
		return CrossStackValue{}, fmt.Errorf("%w: エクスポート名が空です", ErrExportNotFound)
	}
	return CrossStackValue{ExportName: exportName}, nil
}

// StaticResolver は事前に与えられた値だけを解決する
type StaticResolver map[string]string

func (s StaticResolver) Resolve(_ context.Context, exportName string) (CrossStackValue, error) {
	v, ok := s[exportName]
	if !ok {
		return CrossStackValue{}, fmt.Errorf("%w: %s", ErrExportNotFound, exportName)
	}
	return CrossStackValue{ExportName: exportName, Value: v, Verified: true}, nil
}

// ExportResolver はCloudFormationのエクスポートを実際に参照して値を解決する
type ExportResolver struct {
	Client cfn.StackAPI
}

func (r ExportResolver) Resolve(ctx context.Context, exportName string) (CrossStackValue, error) {
	if exportName == "" {
		return CrossStackValue{}, fmt.Errorf("%w: エクスポート名が空です", ErrExportNotFound)
	}

	exports, err := cfn.ListExports(ctx, r.Client)
	if err != nil {
		return CrossStackValue{}, err
	}
	for _, e := range exports {
		if e.Name == exportName {
			return CrossStackValue{ExportName: exportName, Value: e.Value, Verified: true}, nil
		}
	}
	return CrossStackValue{}, fmt.Errorf("%w: %s", ErrExportNotFound, exportName)
}
