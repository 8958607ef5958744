package cloudfront

import (
	"cdkdemo/internal/service/cfn"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/oklog/ulid/v2"
	"github.com/schollz/progressbar/v3"
)

// InvalidationCompleted は無効化完了時のステータス
const InvalidationCompleted = "Completed"

// NewCallerReference は無効化バッチを区別するための一意な値を生成します
// 呼び出し毎に必ず新しい値を返すため、キャッシュして使い回さないこと
func NewCallerReference() string {
	return "cdkdemo-" + ulid.Make().String()
}

// CreateInvalidation はCloudFrontディストリビューションのキャッシュを無効化します
func CreateInvalidation(ctx context.Context, client InvalidationAPI, distributionId string, paths []string, callerReference string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("無効化するパスが指定されていません")
	}
	items := append([]string(nil), paths...)

	input := &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(distributionId),
		InvalidationBatch: &types.InvalidationBatch{
			CallerReference: aws.String(callerReference),
			Paths: &types.Paths{
				Quantity: aws.Int32(int32(len(items))),
				Items:    items,
			},
		},
	}

	result, err := client.CreateInvalidation(ctx, input)
	if err != nil {
		return "", err
	}

	return aws.ToString(result.Invalidation.Id), nil
}

// WaitOptions は無効化完了待機のオプション
type WaitOptions struct {
	Interval time.Duration // ステータス確認間隔（デフォルト: 10秒）
	Output   io.Writer     // 進捗表示の出力先（デフォルト: 標準エラー）
}

// WaitForInvalidation は無効化が完了するまで待機します
func WaitForInvalidation(ctx context.Context, client InvalidationAPI, distributionId, invalidationId string, opts WaitOptions) error {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(opts.Output),
		progressbar.OptionSetDescription("無効化の完了を待機中..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	for {
		result, err := client.GetInvalidation(ctx, &cloudfront.GetInvalidationInput{
			DistributionId: aws.String(distributionId),
			Id:             aws.String(invalidationId),
		})
		if err != nil {
			return err
		}

		status := aws.ToString(result.Invalidation.Status)
		bar.Describe(fmt.Sprintf("現在のステータス: %s", status))
		if status == InvalidationCompleted {
			return nil
		}
		_ = bar.Add(1)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.Interval):
		}
	}
}

// InvalidateOptions はキャッシュ無効化の共通オプション
type InvalidateOptions struct {
	DistributionId string   // オプション: ディストリビューションID（指定なしの場合はStackNameから解決）
	Paths          []string // 必須: 無効化するパス
	Wait           bool     // オプション: 無効化完了まで待機
	StackName      string   // オプション: CloudFormationスタック名（DistributionId未指定時に使用）
	Input          io.Reader
	WaitOptions    WaitOptions
}

// InvalidateByIdOrStack はディストリビューションIDまたはスタック名を使用してキャッシュを無効化します
func InvalidateByIdOrStack(ctx context.Context, cfClient Client, cfnClient cfn.StackAPI, opts InvalidateOptions) (string, error) {
	// ディストリビューションIDの解決
	resolvedId, err := resolveDistributionId(ctx, cfClient, cfnClient, opts)
	if err != nil {
		return "", err
	}

	fmt.Printf("🚀 CloudFrontディストリビューション (%s) のキャッシュを無効化します...\n", resolvedId)
	fmt.Printf("   対象パス: %v\n", opts.Paths)

	// キャッシュ無効化の実行
	invalidationId, err := CreateInvalidation(ctx, cfClient, resolvedId, opts.Paths, NewCallerReference())
	if err != nil {
		return "", fmt.Errorf("キャッシュ無効化エラー: %w", err)
	}

	fmt.Printf("✅ キャッシュ無効化を開始しました (ID: %s)\n", invalidationId)

	// 待機オプションが有効な場合
	if opts.Wait {
		err = WaitForInvalidation(ctx, cfClient, resolvedId, invalidationId, opts.WaitOptions)
		if err != nil {
			return invalidationId, fmt.Errorf("無効化待機エラー: %w", err)
		}
		fmt.Println("✅ キャッシュ無効化が完了しました")
	}

	return invalidationId, nil
}

// resolveDistributionId はディストリビューションIDを解決します
func resolveDistributionId(ctx context.Context, cfClient DistributionAPI, cfnClient cfn.StackAPI, opts InvalidateOptions) (string, error) {
	// 既にディストリビューションIDが指定されている場合
	if opts.DistributionId != "" {
		return opts.DistributionId, nil
	}

	// スタック名が指定されていない場合
	if opts.StackName == "" {
		return "", fmt.Errorf("ディストリビューションID またはスタック名 (-S) を指定してください")
	}

	// CDNスタックの出力にディストリビューションIDがあればそれを使う
	if outputs, err := cfn.GetStackOutputs(ctx, cfnClient, opts.StackName); err == nil {
		if id := outputs[cfn.OutputKeyDistributionID]; id != "" {
			fmt.Printf("✅ CloudFormationスタック '%s' の出力 %s からディストリビューション '%s' を取得しました\n", opts.StackName, cfn.OutputKeyDistributionID, id)
			return id, nil
		}
	}

	// スタックのリソースからCloudFrontディストリビューションを取得
	distributions, err := cfn.GetAllCloudFrontFromStack(ctx, cfnClient, opts.StackName)
	if err != nil {
		return "", fmt.Errorf("CloudFormationスタックからディストリビューションの取得に失敗: %w", err)
	}

	if len(distributions) == 0 {
		return "", fmt.Errorf("スタック '%s' にCloudFrontディストリビューションが見つかりませんでした", opts.StackName)
	}

	if len(distributions) == 1 {
		fmt.Printf("✅ CloudFormationスタック '%s' からCloudFrontディストリビューション '%s' を検出しました\n", opts.StackName, distributions[0])
		return distributions[0], nil
	}

	// 複数のディストリビューションがある場合は選択
	input := opts.Input
	if input == nil {
		input = os.Stdin
	}
	return SelectDistribution(ctx, cfClient, distributions, input)
}
