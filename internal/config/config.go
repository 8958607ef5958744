// Package config はCDKアプリとCLIの設定を環境変数とステージ定義ファイルから読み込む
package config

import (
	"cdkdemo/internal/stack/cdn"
	"cdkdemo/internal/stack/invalidation"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultStackName はCDNスタックのデフォルト名
	DefaultStackName = "CloudfrontDemoStack"
	// DefaultAssetPath はCDKアプリのディレクトリから見たフロントエンドのビルド成果物
	DefaultAssetPath = "../../frontend/build"
)

// Config は環境変数から読み込む設定
type Config struct {
	Account       string `env:"CDK_DEFAULT_ACCOUNT"`
	Region        string `env:"CDK_DEFAULT_REGION,default=ap-northeast-1"`
	Stage         string `env:"CDKDEMO_STAGE,default=dev"`
	StackNameEnv  string `env:"CDKDEMO_STACK_NAME"`
	AssetPath     string `env:"CDKDEMO_ASSET_PATH"`
	VerifyImports bool   `env:"CDKDEMO_VERIFY_IMPORTS,default=false"`
	PhysicalID    string `env:"CDKDEMO_PHYSICAL_ID"`
	StagesFile    string `env:"CDKDEMO_STAGES_FILE,default=stages.yaml"`
	LogLevel      string `env:"CDKDEMO_LOG_LEVEL,default=info"`
}

// DomainConfig は独自ドメインの設定
type DomainConfig struct {
	Names          []string `yaml:"names"`
	CertificateArn string   `yaml:"certificateArn"`
}

// StageConfig はステージ毎の上書き設定
type StageConfig struct {
	StackName          string        `yaml:"stackName,omitempty"`
	AssetPath          string        `yaml:"assetPath,omitempty"`
	LoadBalancerExport string        `yaml:"loadBalancerExport,omitempty"`
	DomainExport       string        `yaml:"domainExport,omitempty"`
	APIPaths           []string      `yaml:"apiPaths,omitempty"`
	PhysicalID         string        `yaml:"physicalId,omitempty"`
	Domain             *DomainConfig `yaml:"domain,omitempty"`
}

// Stages はステージ名 -> 設定
type Stages map[string]StageConfig

// Load は環境変数から設定を読み込む
func Load(ctx context.Context) (Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith は指定したLookuperから設定を読み込む
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, fmt.Errorf("環境変数の読み込みに失敗: %w", err)
	}
	return cfg, nil
}

// LoadStages はステージ定義ファイルを読み込む。ファイルがなければ空を返す
func LoadStages(path string) (Stages, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Stages{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Stages{}, nil
		}
		return nil, err
	}

	stages := Stages{}
	if err := yaml.Unmarshal(raw, &stages); err != nil {
		return nil, fmt.Errorf("%s の解析に失敗: %w", path, err)
	}
	return stages, nil
}

// StackName はステージに対応するスタック名を返す
// CDKDEMO_STACK_NAME が設定されていればステージ定義より優先する
func (c Config) StackName(stages Stages) string {
	if c.StackNameEnv != "" {
		return c.StackNameEnv
	}
	if s, ok := stages[c.Stage]; ok && s.StackName != "" {
		return s.StackName
	}
	if c.Stage == "" || c.Stage == "dev" {
		return DefaultStackName
	}
	return DefaultStackName + "-" + c.Stage
}

// Options はプラン作成の入力を組み立てる
// 相対パスのアセットは baseDir (CDKアプリのディレクトリ) から解決する
func (c Config) Options(stages Stages, baseDir string) (cdn.Options, error) {
	stage := stages[c.Stage]

	assetPath := firstNonEmpty(c.AssetPath, stage.AssetPath, DefaultAssetPath)
	if !filepath.IsAbs(assetPath) {
		assetPath = filepath.Join(baseDir, assetPath)
	}

	strategy, err := invalidation.ParsePhysicalIDStrategy(firstNonEmpty(c.PhysicalID, stage.PhysicalID))
	if err != nil {
		return cdn.Options{}, err
	}

	opts := cdn.Options{
		Stage:              c.Stage,
		AssetPath:          assetPath,
		LoadBalancerExport: stage.LoadBalancerExport,
		DomainExport:       stage.DomainExport,
		APIPaths:           stage.APIPaths,
		PhysicalID:         strategy,
	}
	if stage.Domain != nil {
		if stage.Domain.CertificateArn == "" || len(stage.Domain.Names) == 0 {
			return cdn.Options{}, fmt.Errorf("ステージ %s の domain には names と certificateArn の両方が必要です", c.Stage)
		}
		opts.Domain = &cdn.CustomDomain{
			Names:          stage.Domain.Names,
			CertificateArn: stage.Domain.CertificateArn,
		}
	}
	return opts, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
