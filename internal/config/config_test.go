package config

import (
	"cdkdemo/internal/stack/cdn"
	"cdkdemo/internal/stack/invalidation"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWith(t.Context(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Stage)
	assert.Equal(t, "ap-northeast-1", cfg.Region)
	assert.Equal(t, "stages.yaml", cfg.StagesFile)
	assert.False(t, cfg.VerifyImports)
}

func TestLoadWithEnvironment(t *testing.T) {
	cfg, err := LoadWith(t.Context(), envconfig.MapLookuper(map[string]string{
		"CDK_DEFAULT_ACCOUNT":    "111111111111",
		"CDK_DEFAULT_REGION":     "us-east-1",
		"CDKDEMO_STAGE":          "prod",
		"CDKDEMO_VERIFY_IMPORTS": "true",
		"CDKDEMO_PHYSICAL_ID":    "timestamp",
	}))
	require.NoError(t, err)

	assert.Equal(t, "111111111111", cfg.Account)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "prod", cfg.Stage)
	assert.True(t, cfg.VerifyImports)
	assert.Equal(t, "timestamp", cfg.PhysicalID)
}

func TestLoadStages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stages.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prod:
  stackName: CloudfrontDemoProd
  assetPath: /srv/build
  apiPaths: ["/generate/*", "/api/*"]
  physicalId: timestamp
  domain:
    names: [demo.example.com]
    certificateArn: arn:aws:acm:us-east-1:111111111111:certificate/abc
`), 0o644))

	stages, err := LoadStages(path)
	require.NoError(t, err)
	require.Contains(t, stages, "prod")
	assert.Equal(t, []string{"/generate/*", "/api/*"}, stages["prod"].APIPaths)

	missing, err := LoadStages(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, missing)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("prod: [unclosed"), 0o644))
	_, err = LoadStages(bad)
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	stages := Stages{
		"prod": {
			StackName:  "CloudfrontDemoProd",
			AssetPath:  "/srv/build",
			APIPaths:   []string{"/api/*"},
			PhysicalID: "timestamp",
			Domain:     &DomainConfig{Names: []string{"demo.example.com"}, CertificateArn: "arn:cert"},
		},
	}

	t.Run("defaults for dev", func(t *testing.T) {
		cfg := Config{Stage: "dev"}
		opts, err := cfg.Options(stages, "/repo/demo-infra/cdk-demo")
		require.NoError(t, err)
		assert.Equal(t, "/repo/frontend/build", opts.AssetPath)
		assert.Equal(t, invalidation.PhysicalIDStable, opts.PhysicalID)
		assert.Nil(t, opts.Domain)
		assert.Equal(t, DefaultStackName, cfg.StackName(stages))
	})

	t.Run("stage overrides", func(t *testing.T) {
		cfg := Config{Stage: "prod"}
		opts, err := cfg.Options(stages, "/repo/demo-infra/cdk-demo")
		require.NoError(t, err)
		assert.Equal(t, "/srv/build", opts.AssetPath)
		assert.Equal(t, []string{"/api/*"}, opts.APIPaths)
		assert.Equal(t, invalidation.PhysicalIDTimestamp, opts.PhysicalID)
		assert.Equal(t, &cdn.CustomDomain{Names: []string{"demo.example.com"}, CertificateArn: "arn:cert"}, opts.Domain)
		assert.Equal(t, "CloudfrontDemoProd", cfg.StackName(stages))
	})

	t.Run("environment wins", func(t *testing.T) {
		cfg := Config{Stage: "prod", AssetPath: "dist", PhysicalID: "stable"}
		opts, err := cfg.Options(stages, "/work")
		require.NoError(t, err)
		assert.Equal(t, "/work/dist", opts.AssetPath)
		assert.Equal(t, invalidation.PhysicalIDStable, opts.PhysicalID)
	})

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := Config{Stage: "dev", PhysicalID: "random"}.Options(stages, "/work")
		assert.Error(t, err)
	})

	t.Run("incomplete domain", func(t *testing.T) {
		_, err := Config{Stage: "x"}.Options(Stages{"x": {Domain: &DomainConfig{Names: []string{"a"}}}}, "/work")
		assert.Error(t, err)
	})

	t.Run("unnamed stage stack", func(t *testing.T) {
		assert.Equal(t, DefaultStackName+"-qa", Config{Stage: "qa"}.StackName(stages))
	})

	t.Run("stack name from environment", func(t *testing.T) {
		cfg := Config{Stage: "prod", StackNameEnv: "MyFrontend"}
		assert.Equal(t, "MyFrontend", cfg.StackName(stages))
	})
}
