package cmd

import (
	"cdkdemo/internal/cli"
	"cdkdemo/internal/service/common"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy [-- cdk-args...]",
	Short: "事前確認のうえCDNスタックをデプロイするコマンド",
	Long: `参照先エクスポートの存在とビルド成果物を確認してから cdk deploy を実行します。
確認に失敗した場合は何もデプロイしません。

【使い方】
  ` + AppName + ` deploy --stage prod
  ` + AppName + ` deploy -- --require-approval never`,
	PersistentPreRunE: awsCommandPreRun,
	RunE: func(cmdCobra *cobra.Command, args []string) error {
		fmt.Printf("%s デプロイ前の確認を行います...\n", common.SearchIcon)
		plan, err := buildPlan(cmdCobra, true)
		if err != nil {
			return err
		}
		fmt.Printf("%s エクスポート %s = %s\n", common.SuccessIcon, plan.LoadBalancer.ExportName, plan.LoadBalancer.Display())
		fmt.Printf("%s ビルド成果物 %s\n", common.SuccessIcon, plan.Store.Bundle.Dir)

		resolveStackName()
		return runCdk(cmdCobra, append([]string{"deploy", stackName}, args...))
	},
}

// destroyCmd represents the destroy command
var destroyCmd = &cobra.Command{
	Use:               "destroy [-- cdk-args...]",
	Short:             "CDNスタックを削除するコマンド",
	Long:              `cdk destroy を実行します。バケットとその中身も削除されます。`,
	PersistentPreRunE: awsCommandPreRun,
	RunE: func(cmdCobra *cobra.Command, args []string) error {
		force, _ := cmdCobra.Flags().GetBool("force")

		resolveStackName()
		cdkArgs := []string{"destroy", stackName}
		if force {
			cdkArgs = append(cdkArgs, "--force")
		}
		return runCdk(cmdCobra, append(cdkArgs, args...))
	},
}

// cdkEnv はCDKアプリに引き継ぐ環境変数を返す
// 事前確認と同じリージョン・スタック名で合成させるため、cdk CLI 自身のリージョン解決も AWS_REGION で固定する
func cdkEnv(region, stack string) []string {
	env := []string{
		"CDKDEMO_STAGE=" + appConfig.Stage,
		"CDKDEMO_STACK_NAME=" + stack,
		"AWS_REGION=" + region,
		"AWS_DEFAULT_REGION=" + region,
		"CDK_DEFAULT_REGION=" + region,
		"CDKDEMO_VERIFY_IMPORTS=" + strconv.FormatBool(appConfig.VerifyImports),
	}
	if appConfig.AssetPath != "" {
		env = append(env, "CDKDEMO_ASSET_PATH="+appConfig.AssetPath)
	}
	return env
}

// runCdk はステージ設定を環境変数で引き継いでCDK CLIを実行する
func runCdk(cmd *cobra.Command, args []string) error {
	region := appConfig.Region
	if awsClients != nil {
		region = awsClients.Region()
	}
	env := cdkEnv(region, stackName)
	if profile != "" {
		args = append(args, "--profile", profile)
	}

	logger.Debug("running cdk", zap.Strings("args", args), zap.String("dir", appDir), zap.String("region", region))
	fmt.Printf("🚀 cdk %v\n", args)
	if err := cli.ExecuteCdkCommand(cmd.Context(), cli.CdkCommand{Dir: appDir, Args: args, Env: env}, nil); err != nil {
		return fmt.Errorf("%s cdk の実行に失敗: %w", common.ErrorIcon, err)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(deployCmd)
	RootCmd.AddCommand(destroyCmd)

	destroyCmd.Flags().BoolP("force", "f", false, "確認なしで削除する")
}
