package cmd

import (
	"cdkdemo/internal/service/common"
	"cdkdemo/internal/stack/cdn"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var verifyImports bool

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "CDNスタックの構成を表示するコマンド",
	Long: `ステージ設定からCDNスタックの構成（オリジン、ルーティング、無効化）を組み立てて表示します。
AWSにはアクセスしません。--verify-imports を指定するとエクスポートの実在も確認します。`,
	RunE: func(cmdCobra *cobra.Command, args []string) error {
		plan, err := buildPlan(cmdCobra, verifyImports)
		if err != nil {
			return err
		}
		printPlan(os.Stdout, plan)
		return nil
	},
}

// routeCmd represents the route command
var routeCmd = &cobra.Command{
	Use:   "route <path>...",
	Short: "リクエストパスがどのオリジンに振り分けられるかを表示するコマンド",
	Long: `CloudFrontと同じ評価順（具体的なパターンが先、デフォルトが最後）でパスを振り分けます。

【例】
  ` + AppName + ` route /generate/image /index.html
  → /generate/image はロードバランサー、/index.html はS3バケットへ`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmdCobra *cobra.Command, args []string) error {
		plan, err := buildPlan(cmdCobra, false)
		if err != nil {
			return err
		}

		tbl := &common.Table{Headers: []string{"パス", "ルール", "オリジン"}}
		for _, p := range args {
			rule := plan.Route(p)
			tbl.AddRow(p, rule.Pattern(), rule.Origin.Describe())
		}
		tbl.Print(os.Stdout)
		return nil
	},
}

// buildPlan は設定からプランを組み立てる
func buildPlan(cmd *cobra.Command, verify bool) (*cdn.Plan, error) {
	opts, err := appConfig.Options(stages, appDir)
	if err != nil {
		return nil, fmt.Errorf("❌ %w", err)
	}

	var resolver cdn.ImportResolver = cdn.DeferredResolver{}
	if verify {
		if err := ensureAwsClients(cmd); err != nil {
			return nil, err
		}
		resolver = cdn.ExportResolver{Client: awsClients.Cfn()}
	}

	plan, err := cdn.Build(contextOf(cmd), resolver, opts)
	if err != nil {
		return nil, fmt.Errorf("❌ %w", err)
	}
	return plan, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printPlan はプランの内容を表示する
func printPlan(w io.Writer, plan *cdn.Plan) {
	fmt.Fprintf(w, "%s ステージ: %s\n", common.InfoIcon, plan.Stage)
	fmt.Fprintf(w, "  静的アセット: %s\n", plan.Store.Bundle.Dir)
	fmt.Fprintf(w, "  APIオリジン: %s\n", plan.API.Describe())
	if d := plan.Distribution.Domain; d != nil {
		fmt.Fprintf(w, "  独自ドメイン: %v\n", d.Names)
	}
	fmt.Fprintf(w, "  出力: %s (エクスポート)\n\n", plan.Outputs.DomainExport)

	tbl := &common.Table{Headers: []string{"順序", "パス", "オリジン", "メソッド", "ビューワー", "圧縮"}}
	for i, r := range plan.Rules() {
		tbl.AddRow(strconv.Itoa(i+1), r.Pattern(), r.Origin.Describe(), string(r.AllowedMethods), string(r.ViewerProtocol), strconv.FormatBool(r.Compress))
	}
	tbl.Print(w)

	fmt.Fprintf(w, "\n%s 適用毎にキャッシュを無効化: %v (物理ID: %s)\n", common.ProcessIcon, plan.Invalidation.Paths, plan.Invalidation.PhysicalID)
}

func init() {
	RootCmd.AddCommand(planCmd)
	RootCmd.AddCommand(routeCmd)

	planCmd.Flags().BoolVar(&verifyImports, "verify-imports", false, "エクスポートの実在をAWSで確認する")
}
