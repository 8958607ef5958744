package cfn

import (
	"context"
	"fmt"
	"sort"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

// ListExports は現在のリージョンのエクスポート一覧を名前順に返す
func ListExports(ctx context.Context, cfnClient StackAPI) ([]Export, error) {
	var exports []Export
	var nextToken *string

	for {
		resp, err := cfnClient.ListExports(ctx, &cloudformation.ListExportsInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("エクスポート一覧取得エラー: %w", err)
		}

		for _, e := range resp.Exports {
			exports = append(exports, Export{
				Name:           awssdk.ToString(e.Name),
				Value:          awssdk.ToString(e.Value),
				ExportingStack: stackNameFromId(awssdk.ToString(e.ExportingStackId)),
			})
		}

		nextToken = resp.NextToken
		if nextToken == nil {
			break
		}
	}

	sort.Slice(exports, func(i, j int) bool { return exports[i].Name < exports[j].Name })
	return exports, nil
}

// CheckExports は指定したエクスポートがすべて存在するか確認する
// 見つからないものが一つでもあれば ErrExportNotFound を含むエラーを返す
func CheckExports(ctx context.Context, cfnClient StackAPI, names []string) ([]ExportCheck, error) {
	exports, err := ListExports(ctx, cfnClient)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Export, len(exports))
	for _, e := range exports {
		byName[e.Name] = e
	}

	results := make([]ExportCheck, 0, len(names))
	var missing []string
	for _, name := range names {
		e, ok := byName[name]
		results = append(results, ExportCheck{Name: name, Found: ok, Export: e})
		if !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return results, fmt.Errorf("%w: %v", ErrExportNotFound, missing)
	}
	return results, nil
}

// stackNameFromId はスタックIDのARNからスタック名を取り出す
// arn:aws:cloudformation:REGION:ACCOUNT:stack/NAME/UUID
func stackNameFromId(stackId string) string {
	_, rest, ok := strings.Cut(stackId, ":stack/")
	if !ok {
		return stackId
	}
	name, _, _ := strings.Cut(rest, "/")
	return name
}
