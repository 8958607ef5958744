package main

import (
	awsinternal "cdkdemo/internal/aws"
	"cdkdemo/internal/config"
	"cdkdemo/internal/logging"
	"cdkdemo/internal/stack/cdn"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"go.uber.org/zap"
)

// moduleRoot はこのCDKアプリから見たGoモジュールのルート
const moduleRoot = "../.."

func main() {
	defer jsii.Close()

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		jsii.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, logging.FormatConsole)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	stages, err := config.LoadStages(cfg.StagesFile)
	if err != nil {
		return err
	}
	opts, err := cfg.Options(stages, ".")
	if err != nil {
		return err
	}

	resolver, err := importResolver(ctx, cfg)
	if err != nil {
		return err
	}

	// インポートの解決に失敗した場合はスタックを一切合成しない
	plan, err := cdn.Build(ctx, resolver, opts)
	if err != nil {
		return err
	}
	logger.Info("plan built",
		zap.String("stage", plan.Stage),
		zap.String("load_balancer", plan.LoadBalancer.Display()),
		zap.String("assets", plan.Store.Bundle.Dir),
		zap.Int("rules", len(plan.Rules())),
	)

	app := awscdk.NewApp(nil)
	cdn.NewCloudfrontDemoStack(app, cfg.StackName(stages), &cdn.CloudfrontDemoStackProps{
		StackProps: awscdk.StackProps{
			Env: env(cfg),
		},
		Plan:       plan,
		ModuleRoot: moduleRoot,
	})

	app.Synth(nil)
	return nil
}

// importResolver はエクスポートを合成時に検証するかどうかで解決方法を切り替える
func importResolver(ctx context.Context, cfg config.Config) (cdn.ImportResolver, error) {
	if !cfg.VerifyImports {
		return cdn.DeferredResolver{}, nil
	}
	clients, err := awsinternal.NewAwsClients(ctx, awsinternal.Context{
		Profile: os.Getenv("AWS_PROFILE"),
		Region:  cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗: %w", err)
	}
	return cdn.ExportResolver{Client: clients.Cfn()}, nil
}

// env determines the AWS environment (account+region) in which our stack is to
// be deployed. For more information see: https://docs.aws.amazon.com/cdk/latest/guide/environments.html
func env(cfg config.Config) *awscdk.Environment {
	if cfg.Account == "" {
		return nil
	}
	return &awscdk.Environment{
		Account: jsii.String(cfg.Account),
		Region:  jsii.String(cfg.Region),
	}
}
