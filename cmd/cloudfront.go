package cmd

import (
	cfsvc "cdkdemo/internal/service/cloudfront"
	"cdkdemo/internal/stack/invalidation"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CfCmd represents the cf command
var CfCmd = &cobra.Command{
	Use:               "cf",
	Short:             "CloudFrontリソース操作コマンド",
	SilenceUsage:      true,
	PersistentPreRunE: awsCommandPreRun,
}

// cfInvalidateCmd represents the invalidate command
var cfInvalidateCmd = &cobra.Command{
	Use:   "invalidate [distribution-id]",
	Short: "CloudFrontのキャッシュを無効化するコマンド",
	Long: `CloudFrontディストリビューションのキャッシュを無効化します。
ディストリビューションIDを直接指定するか、CloudFormationスタック名から自動検出できます。
スタックの適用時にも自動で無効化されますが、失敗した場合はこのコマンドで再実行してください。

【使い方】
  ` + AppName + ` cf invalidate ABCD1234EFGH                    # 全体を無効化（/*）
  ` + AppName + ` cf invalidate ABCD1234EFGH -p "/images/*"     # 特定パスを無効化
  ` + AppName + ` cf invalidate -S my-stack                      # スタックから自動検出
  ` + AppName + ` cf invalidate -S my-stack -p "/api/*" -w       # 完了まで待機

【例】
  ` + AppName + ` cf invalidate E2ABC123DEF456 -p "/images/*" -p "/api/*"
  → 複数のパスを同時に無効化します`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmdCobra *cobra.Command, args []string) error {
		paths, _ := cmdCobra.Flags().GetStringSlice("path")
		wait, _ := cmdCobra.Flags().GetBool("wait")

		opts := cfsvc.InvalidateOptions{
			Paths: paths,
			Wait:  wait,
		}
		if len(args) > 0 {
			opts.DistributionId = args[0]
		} else {
			resolveStackName()
			opts.StackName = stackName
		}

		invalidationId, err := cfsvc.InvalidateByIdOrStack(cmdCobra.Context(), awsClients.CloudFront(), awsClients.Cfn(), opts)
		if err != nil {
			return withAwsHint(fmt.Errorf("❌ %w", err))
		}
		logger.Debug("invalidation created", zap.String("invalidation_id", invalidationId))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(CfCmd)
	CfCmd.AddCommand(cfInvalidateCmd)

	cfInvalidateCmd.Flags().StringSliceP("path", "p", []string{invalidation.AllPaths}, "無効化するパス（デフォルト: /*）")
	cfInvalidateCmd.Flags().BoolP("wait", "w", false, "無効化完了まで待機")
}
