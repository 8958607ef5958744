package cmd

import (
	awsinternal "cdkdemo/internal/aws"
	"cdkdemo/internal/config"
	"cdkdemo/internal/logging"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// AppName はCLIの名前
const AppName = "cdkdemo"

var (
	region    string
	profile   string
	stackName string
	stage     string
	appDir    string
	logLevel  string

	appConfig  config.Config
	stages     config.Stages
	logger     = zap.NewNop()
	awsCtx     awsinternal.Context
	awsClients *awsinternal.Clients
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   AppName,
	Short: "CloudFront + S3 フロントエンド配信スタックの運用ツール",
	Long: `S3に置いた静的アセットとロードバランサー上のAPIを1つのCloudFrontディストリビューションで配信する
CDKスタックを、計画の確認・デプロイ・キャッシュ無効化・配置の検証まで一通り扱うCLIです。`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&region, "region", "R", "", "AWSリージョン（デフォルト: CDK_DEFAULT_REGION または ap-northeast-1）")
	RootCmd.PersistentFlags().StringVarP(&profile, "profile", "P", "", "AWSプロファイル")
	RootCmd.PersistentFlags().StringVarP(&stackName, "stack", "S", "", "CloudFormationスタック名")
	RootCmd.PersistentFlags().StringVar(&stage, "stage", "", "ステージ名（デフォルト: CDKDEMO_STAGE または dev）")
	RootCmd.PersistentFlags().StringVar(&appDir, "app-dir", filepath.Join("demo-infra", "cdk-demo"), "CDKアプリのディレクトリ")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "ログレベル (debug/info/warn/error)")

	// 設定の読み込みは全コマンド共通で行う
	RootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// ヘルプコマンドの場合はスキップ
		if cmd.Name() == "help" {
			return nil
		}
		return loadAppConfig(cmd.Context())
	}
}

// loadAppConfig は環境変数とステージ定義ファイルを読み込み、フラグで上書きする
func loadAppConfig(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("❌ 設定の読み込みに失敗: %w", err)
	}
	if stage != "" {
		cfg.Stage = stage
	}
	if region != "" {
		cfg.Region = region
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	stagesPath := cfg.StagesFile
	if !filepath.IsAbs(stagesPath) {
		stagesPath = filepath.Join(appDir, stagesPath)
	}
	st, err := config.LoadStages(stagesPath)
	if err != nil {
		return fmt.Errorf("❌ ステージ定義の読み込みに失敗: %w", err)
	}

	l, err := logging.New(cfg.LogLevel, logging.FormatConsole)
	if err != nil {
		return fmt.Errorf("❌ ロガーの初期化に失敗: %w", err)
	}

	appConfig, stages, logger = cfg, st, l
	return nil
}

// setupAwsClients はプロファイルを確認してAWSクライアントを準備する
// AWSにアクセスするコマンドの PersistentPreRunE から呼び出す
func setupAwsClients(cmd *cobra.Command) error {
	if err := checkAndSetProfile(cmd); err != nil {
		return err
	}

	awsCtx = awsinternal.Context{Profile: profile, Region: appConfig.Region}
	clients, err := awsinternal.NewAwsClients(cmd.Context(), awsCtx)
	if err != nil {
		return fmt.Errorf("❌ AWS設定の読み込みに失敗: %w", err)
	}
	awsClients = clients
	logger.Debug("aws clients ready", zap.String("profile", profile), zap.String("region", clients.Region()))
	return nil
}

// ensureAwsClients はクライアントが未準備の場合だけ setupAwsClients を呼び出す
func ensureAwsClients(cmd *cobra.Command) error {
	if awsClients != nil {
		return nil
	}
	return setupAwsClients(cmd)
}

// awsCommandPreRun はAWSにアクセスするサブコマンド群の PersistentPreRunE
func awsCommandPreRun(cmd *cobra.Command, args []string) error {
	if err := RootCmd.PersistentPreRunE(cmd, args); err != nil {
		return err
	}
	return setupAwsClients(cmd)
}

// checkAndSetProfile はプロファイルの確認と設定を行うプライベート関数
func checkAndSetProfile(cmd *cobra.Command) error {
	// プロファイルがすでに指定されている場合は何もしない
	if profile != "" {
		return nil
	}
	// 環境変数からプロファイル取得を試みる
	envProfile := os.Getenv("AWS_PROFILE")
	if envProfile == "" {
		// アクセスキーが環境変数にある場合はデフォルトの認証チェーンに任せる
		if os.Getenv("AWS_ACCESS_KEY_ID") != "" {
			return nil
		}
		return errors.New("❌ エラー: プロファイルが指定されていません。-Pオプションまたは AWS_PROFILE 環境変数を指定してください")
	}
	profile = envProfile
	cmd.Println("🔍 環境変数 AWS_PROFILE の値 '" + profile + "' を使用します")
	return nil
}
