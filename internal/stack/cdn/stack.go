package cdn

import (
	"cdkdemo/internal/service/cfn"
	"cdkdemo/internal/stack/invalidation"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslogs"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3assets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3deployment"
	"github.com/aws/aws-cdk-go/awscdk/v2/customresources"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// CloudfrontDemoStackProps はスタック生成のプロパティ
type CloudfrontDemoStackProps struct {
	awscdk.StackProps
	Plan *Plan
	// InvalidatorCode は無効化Lambdaのコード。nil の場合は ModuleRoot からDockerでビルドする
	InvalidatorCode awslambda.Code
	// ModuleRoot はGoモジュールのルートディレクトリ
	ModuleRoot string
}

// resources はオリジンの bind に渡す生成済みコンストラクト
type resources struct {
	bucket   awss3.Bucket
	identity awscloudfront.OriginAccessIdentity
}

// NewCloudfrontDemoStack はプランをCDKのコンストラクトとして具体化する
func NewCloudfrontDemoStack(scope constructs.Construct, id string, props *CloudfrontDemoStackProps) awscdk.Stack {
	if props == nil || props.Plan == nil {
		panic("CloudfrontDemoStack にはプランが必要です")
	}
	plan := props.Plan

	sprops := props.StackProps
	if sprops.Description == nil {
		sprops.Description = jsii.String("Static frontend on S3 behind CloudFront with API paths routed to the load balancer")
	}
	stack := awscdk.NewStack(scope, &id, &sprops)
	if plan.Stage != "" {
		awscdk.Tags_Of(stack).Add(jsii.String("Stage"), jsii.String(plan.Stage), nil)
	}
	awscdk.Tags_Of(stack).Add(jsii.String("App"), jsii.String("cdk-demo"), nil)

	res := createOriginResources(stack, plan)
	distribution := createDistribution(stack, plan, res)
	createInvalidation(stack, plan, distribution, props)

	awscdk.NewCfnOutput(stack, jsii.String(cfn.OutputKeyDomainUrl), &awscdk.CfnOutputProps{
		Value:      distribution.DistributionDomainName(),
		ExportName: jsii.String(plan.Outputs.DomainExport),
	})
	awscdk.NewCfnOutput(stack, jsii.String(cfn.OutputKeyDistributionID), &awscdk.CfnOutputProps{
		Value: distribution.DistributionId(),
	})
	awscdk.NewCfnOutput(stack, jsii.String(cfn.OutputKeyBucketName), &awscdk.CfnOutputProps{
		Value: res.bucket.BucketName(),
	})

	return stack
}

// createOriginResources はバケット、アセットのデプロイ、OAIを作成する
func createOriginResources(stack awscdk.Stack, plan *Plan) *resources {
	store := plan.Store

	bucketProps := &awss3.BucketProps{
		Versioned:         jsii.Bool(store.Versioned),
		AutoDeleteObjects: jsii.Bool(store.AutoDeleteObjects),
		EnforceSSL:        jsii.Bool(store.EnforceSSL),
		Encryption:        awss3.BucketEncryption_S3_MANAGED,
	}
	// 削除時はバケットごと破棄する (デモ用、保持の仕組みはない)
	if store.Destroy {
		bucketProps.RemovalPolicy = awscdk.RemovalPolicy_DESTROY
	} else {
		bucketProps.RemovalPolicy = awscdk.RemovalPolicy_RETAIN
	}
	if store.BlockPublicAccess {
		bucketProps.BlockPublicAccess = awss3.BlockPublicAccess_BLOCK_ALL()
	}
	bucket := awss3.NewBucket(stack, jsii.String("websiteBucket"), bucketProps)

	// Prune=true でデプロイ毎にバケットの中身を置き換える
	awss3deployment.NewBucketDeployment(stack, jsii.String("websiteDeployment"), &awss3deployment.BucketDeploymentProps{
		Sources: &[]awss3deployment.ISource{
			awss3deployment.Source_Asset(jsii.String(store.Bundle.Dir), nil),
		},
		DestinationBucket: bucket,
		Prune:             jsii.Bool(store.Prune),
		RetainOnDelete:    jsii.Bool(false),
	})

	identity := awscloudfront.NewOriginAccessIdentity(stack, jsii.String("cloudfrontOAI"), &awscloudfront.OriginAccessIdentityProps{
		Comment: jsii.String(plan.Identity.Comment),
	})

	return &resources{bucket: bucket, identity: identity}
}

// createDistribution はデフォルトビヘイビアと追加ビヘイビアを持つディストリビューションを作成する
func createDistribution(stack awscdk.Stack, plan *Plan, res *resources) awscloudfront.Distribution {
	dist := plan.Distribution
	def := dist.Default

	defaultOrigin := def.Origin.bind(res)
	props := &awscloudfront.DistributionProps{
		DefaultRootObject: jsii.String(dist.DefaultRootObject),
		Comment:           jsii.String(dist.Comment),
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin:               defaultOrigin,
			Compress:             jsii.Bool(def.Compress),
			AllowedMethods:       def.AllowedMethods.cdk(),
			ViewerProtocolPolicy: def.ViewerProtocol.cdk(),
		},
	}
	if d := dist.Domain; d != nil && d.CertificateArn != "" {
		props.Certificate = awscertificatemanager.Certificate_FromCertificateArn(stack, jsii.String("tlsCertificate"), jsii.String(d.CertificateArn))
		props.DomainNames = jsii.Strings(d.Names...)
	}
	distribution := awscloudfront.NewDistribution(stack, jsii.String("cloudfrontDist"), props)

	// Additional は具体的なパターン順に並んでいる
	origins := map[Origin]awscloudfront.IOrigin{def.Origin: defaultOrigin}
	for _, rule := range dist.Additional {
		origin, ok := origins[rule.Origin]
		if !ok {
			origin = rule.Origin.bind(res)
			origins[rule.Origin] = origin
		}
		distribution.AddBehavior(jsii.String(rule.PathPattern), origin, &awscloudfront.AddBehaviorOptions{
			Compress:             jsii.Bool(rule.Compress),
			AllowedMethods:       rule.AllowedMethods.cdk(),
			ViewerProtocolPolicy: rule.ViewerProtocol.cdk(),
		})
	}
	return distribution
}

// createInvalidation は適用毎・削除時にキャッシュを無効化するカスタムリソースを作成する
func createInvalidation(stack awscdk.Stack, plan *Plan, distribution awscloudfront.Distribution, props *CloudfrontDemoStackProps) {
	code := props.InvalidatorCode
	if code == nil {
		code = invalidatorCode(props.ModuleRoot)
	}

	handler := awslambda.NewFunction(stack, jsii.String("InvalidatorFunction"), &awslambda.FunctionProps{
		Runtime:      awslambda.Runtime_PROVIDED_AL2023(),
		Handler:      jsii.String("bootstrap"),
		Architecture: awslambda.Architecture_ARM_64(),
		Code:         code,
		Timeout:      awscdk.Duration_Minutes(jsii.Number(5)),
		MemorySize:   jsii.Number(128),
		Environment: &map[string]*string{
			"LOG_LEVEL": jsii.String("info"),
		},
		LogGroup: awslogs.NewLogGroup(stack, jsii.String("InvalidatorLogGroup"), &awslogs.LogGroupProps{
			Retention:     awslogs.RetentionDays_ONE_WEEK,
			RemovalPolicy: awscdk.RemovalPolicy_DESTROY,
		}),
	})
	distribution.GrantCreateInvalidation(handler)

	provider := customresources.NewProvider(stack, jsii.String("InvalidatorProvider"), &customresources.ProviderProps{
		OnEventHandler: handler,
	})

	paths := make([]interface{}, 0, len(plan.Invalidation.Paths))
	for _, p := range plan.Invalidation.Paths {
		paths = append(paths, p)
	}
	resource := awscdk.NewCustomResource(stack, jsii.String("CloudFrontInvalidation"), &awscdk.CustomResourceProps{
		ServiceToken: provider.ServiceToken(),
		ResourceType: jsii.String(invalidation.ResourceType),
		Properties: &map[string]interface{}{
			invalidation.PropDistributionID: distribution.DistributionId(),
			invalidation.PropPaths:          paths,
			invalidation.PropNonce:          plan.Invalidation.Nonce,
			invalidation.PropPhysicalID:     string(plan.Invalidation.PhysicalID),
		},
	})
	resource.Node().AddDependency(distribution)
}

// invalidatorCode は無効化LambdaをDockerコンテナ内でビルドする
func invalidatorCode(moduleRoot string) awslambda.Code {
	if moduleRoot == "" {
		moduleRoot = "."
	}
	abs, err := filepath.Abs(moduleRoot)
	if err != nil {
		panic(fmt.Sprintf("モジュールルートの解決に失敗: %v", err))
	}

	buildCommands := []string{
		"export GOCACHE=/tmp/go-cache",
		"export GOPATH=/tmp/go-path",
		"CGO_ENABLED=0 GOOS=linux GOARCH=arm64 go build -tags lambda.norpc -o /asset-output/bootstrap ./demo-infra/cdk-demo/lambda/invalidator",
	}
	return awslambda.Code_FromAsset(jsii.String(abs), &awss3assets.AssetOptions{
		Exclude: jsii.Strings("cdk.out", "**/cdk.out", "frontend", ".git"),
		Bundling: &awscdk.BundlingOptions{
			Image: awscdk.DockerImage_FromRegistry(jsii.String("golang:1.24")),
			Command: &[]*string{
				jsii.String("bash"),
				jsii.String("-c"),
				jsii.String(strings.Join(buildCommands, " && ")),
			},
		},
	})
}
