package cfn

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

// ErrExportNotFound はクロススタック参照先のエクスポートが存在しない場合のエラー
var ErrExportNotFound = errors.New("エクスポートが見つかりません")

// リソースタイプ
const (
	ResourceTypeDistribution = "AWS::CloudFront::Distribution"
	ResourceTypeBucket       = "AWS::S3::Bucket"
)

// CDNスタックの出力キー
const (
	OutputKeyDomainUrl      = "cloudfrontDomainUrl"
	OutputKeyDistributionID = "cloudfrontDistributionId"
	OutputKeyBucketName     = "websiteBucketName"
)

// StackAPI はこのパッケージが使うCloudFormation APIのサブセット
type StackAPI interface {
	DescribeStackResources(ctx context.Context, params *cloudformation.DescribeStackResourcesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackResourcesOutput, error)
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	ListExports(ctx context.Context, params *cloudformation.ListExportsInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListExportsOutput, error)
}

// Export はCloudFormationのエクスポート
type Export struct {
	Name           string
	Value          string
	ExportingStack string
}

// ExportCheck はエクスポート存在確認の結果
type ExportCheck struct {
	Name   string
	Found  bool
	Export Export
}
