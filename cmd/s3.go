package cmd

import (
	"cdkdemo/internal/service/cfn"
	"cdkdemo/internal/service/common"
	s3svc "cdkdemo/internal/service/s3"
	"cdkdemo/internal/stack/cdn"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// S3Cmd represents the s3 command
var S3Cmd = &cobra.Command{
	Use:               "s3",
	Short:             "S3リソース操作コマンド",
	SilenceUsage:      true,
	PersistentPreRunE: awsCommandPreRun,
}

// s3VerifyCmd represents the s3 verify command
var s3VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "ローカルのビルド成果物とバケットの内容を突き合わせるコマンド",
	Long: `ローカルのビルド成果物とS3バケットのオブジェクトを比較し、不足・余分・内容違いを表示します。
あわせてバケットが匿名で読めない状態になっているかを監査します。

【使い方】
  ` + AppName + ` s3 verify                                  # ステージのスタックから検出
  ` + AppName + ` s3 verify -S my-stack --dir ./frontend/build
  ` + AppName + ` s3 verify --bucket s3://my-bucket/prefix/`,
	RunE: func(cmdCobra *cobra.Command, args []string) error {
		ctx := cmdCobra.Context()
		bucketUrl, _ := cmdCobra.Flags().GetString("bucket")
		dir, _ := cmdCobra.Flags().GetString("dir")

		if dir == "" {
			opts, err := appConfig.Options(stages, appDir)
			if err != nil {
				return fmt.Errorf("%s %w", common.ErrorIcon, err)
			}
			dir = opts.AssetPath
		}

		var bucket, prefix string
		if bucketUrl != "" {
			var err error
			if bucket, prefix, err = s3svc.ParseS3Url(bucketUrl); err != nil {
				return err
			}
		} else {
			resolveStackName()
			buckets, err := cfn.GetBucketsFromStack(ctx, awsClients.Cfn(), stackName)
			if err != nil {
				return withAwsHint(fmt.Errorf(common.GetErrorFormat, common.ErrorIcon, "S3バケット", err))
			}
			if len(buckets) != 1 {
				return fmt.Errorf("%s スタック '%s' のS3バケットを特定できません (%d件)。--bucket で指定してください", common.ErrorIcon, stackName, len(buckets))
			}
			bucket = buckets[0]
		}

		fmt.Printf("🔍 %s と s3://%s/%s を比較中...\n", dir, bucket, prefix)
		diff, err := s3svc.VerifyBundle(ctx, awsClients.S3(), bucket, prefix, cdn.AssetBundle{Dir: dir})
		if err != nil {
			return withAwsHint(fmt.Errorf("%s %w", common.ErrorIcon, err))
		}
		printBundleDiff(diff)

		report, err := s3svc.AuditPublicAccess(ctx, awsClients.S3(), bucket)
		if err != nil {
			return withAwsHint(fmt.Errorf("%s %w", common.ErrorIcon, err))
		}
		printAccessReport(report)

		if !diff.InSync() || report.Public() {
			return fmt.Errorf("%s バケット '%s' は期待した状態ではありません", common.ErrorIcon, bucket)
		}
		fmt.Printf("%s バケット '%s' はビルド成果物と一致し、非公開です\n", common.PartyIcon, bucket)
		return nil
	},
}

func printBundleDiff(diff s3svc.BundleDiff) {
	fmt.Printf("%s 一致: %d件 (ローカル %s / バケット %s)\n", common.SuccessIcon, diff.Matched,
		common.FormatBytes(diff.LocalBytes), common.FormatBytes(diff.RemoteBytes))
	for _, group := range []struct {
		label string
		keys  []string
	}{
		{"バケットに不足", diff.Missing},
		{"バケットにのみ存在", diff.Extra},
		{"内容が異なる", diff.Changed},
	} {
		if len(group.keys) == 0 {
			continue
		}
		common.PrintSimpleList(os.Stdout, common.ListOutput{
			Title:        fmt.Sprintf("%s %s", common.WarningIcon, group.label),
			Items:        group.keys,
			ResourceName: "オブジェクト",
			ShowCount:    true,
		})
	}
}

func printAccessReport(r s3svc.PublicAccessReport) {
	if r.BlockAll {
		fmt.Printf("%s パブリックアクセスブロック: すべて有効\n", common.SuccessIcon)
	} else if r.BlockConfigMissed {
		fmt.Printf("%s パブリックアクセスブロックが設定されていません\n", common.WarningIcon)
	} else {
		fmt.Printf("%s パブリックアクセスブロックが一部無効です\n", common.WarningIcon)
	}
	if r.PolicyIsPublic {
		fmt.Printf("%s バケットポリシーが公開と判定されています\n", common.ErrorIcon)
	}
	for _, g := range r.PublicGrants {
		fmt.Printf("%s 公開ACL: %s\n", common.ErrorIcon, g)
	}
}

func init() {
	RootCmd.AddCommand(S3Cmd)
	S3Cmd.AddCommand(s3VerifyCmd)

	s3VerifyCmd.Flags().String("bucket", "", "比較するバケット (s3://bucket/prefix/ 形式)")
	s3VerifyCmd.Flags().String("dir", "", "ローカルのビルド成果物（デフォルト: ステージ設定）")
}
