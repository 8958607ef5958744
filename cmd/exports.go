package cmd

import (
	"cdkdemo/internal/service/cfn"
	"cdkdemo/internal/service/common"
	"cdkdemo/internal/stack/cdn"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportsCmd represents the exports command
var ExportsCmd = &cobra.Command{
	Use:               "exports",
	Short:             "CloudFormationエクスポート操作コマンド",
	SilenceUsage:      true,
	PersistentPreRunE: awsCommandPreRun,
}

// exportsLsCmd represents the exports ls command
var exportsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "CloudFormationエクスポート一覧を表示するコマンド",
	RunE: func(cmdCobra *cobra.Command, args []string) error {
		filter, _ := cmdCobra.Flags().GetString("filter")

		exports, err := cfn.ListExports(cmdCobra.Context(), awsClients.Cfn())
		if err != nil {
			return withAwsHint(fmt.Errorf(common.ListErrorFormat, common.ErrorIcon, "エクスポート", err))
		}

		tbl := &common.Table{Headers: []string{"名前", "値", "エクスポート元"}}
		for _, e := range exports {
			if filter != "" && !common.MatchPattern(e.Name, filter) {
				continue
			}
			tbl.AddRow(e.Name, e.Value, e.ExportingStack)
		}
		if len(tbl.Rows) == 0 {
			fmt.Println("エクスポートが見つかりませんでした")
			return nil
		}
		tbl.Print(os.Stdout)
		return nil
	},
}

// exportsCheckCmd represents the exports check command
var exportsCheckCmd = &cobra.Command{
	Use:   "check [export-name...]",
	Short: "スタックが参照するエクスポートの存在を確認するコマンド",
	Long: `CDNスタックがクロススタック参照するエクスポートが存在するかを確認します。
名前を省略した場合はステージ設定のロードバランサーのエクスポート（デフォルト: ` + cdn.DefaultLoadBalancerExport + `）を確認します。

【使い方】
  ` + AppName + ` exports check
  ` + AppName + ` exports check loadBalancerUrl apiKey`,
	RunE: func(cmdCobra *cobra.Command, args []string) error {
		names := args
		if len(names) == 0 {
			name := stages[appConfig.Stage].LoadBalancerExport
			if name == "" {
				name = cdn.DefaultLoadBalancerExport
			}
			names = []string{name}
		}

		fmt.Printf(common.SearchingFormat+"\n", common.SearchIcon, "エクスポート")
		results, err := cfn.CheckExports(cmdCobra.Context(), awsClients.Cfn(), names)
		for _, r := range results {
			if r.Found {
				fmt.Printf("%s %s = %s (%s)\n", common.SuccessIcon, r.Name, r.Export.Value, r.Export.ExportingStack)
			} else {
				fmt.Printf("%s %s が見つかりません\n", common.ErrorIcon, r.Name)
			}
		}
		if errors.Is(err, cfn.ErrExportNotFound) {
			return fmt.Errorf("%s 参照先のスタックを先にデプロイしてください: %w", common.ErrorIcon, err)
		}
		if err != nil {
			return withAwsHint(fmt.Errorf("%s %w", common.ErrorIcon, err))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(ExportsCmd)
	ExportsCmd.AddCommand(exportsLsCmd)
	ExportsCmd.AddCommand(exportsCheckCmd)

	exportsLsCmd.Flags().StringP("filter", "f", "", "名前で絞り込み（* でワイルドカード）")
}
