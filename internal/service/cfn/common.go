package cfn

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// GetStackResources はスタックからリソース一覧を取得する関数
func GetStackResources(ctx context.Context, cfnClient StackAPI, stackName string) ([]types.StackResource, error) {
	// スタックからリソースを取得
	fmt.Printf("🔍 スタック '%s' からリソースを検索中...\n", stackName)
	resp, err := cfnClient.DescribeStackResources(ctx, &cloudformation.DescribeStackResourcesInput{
		StackName: awssdk.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("CloudFormationスタックのリソース取得に失敗: %w", err)
	}

	// スタック存在確認
	if len(resp.StackResources) == 0 {
		return nil, fmt.Errorf("スタック '%s' にリソースが見つかりませんでした", stackName)
	}

	return resp.StackResources, nil
}

// physicalIdsOfType はスタックから指定タイプのリソースの物理IDを抽出する
func physicalIdsOfType(ctx context.Context, cfnClient StackAPI, stackName, resourceType, label string) ([]string, error) {
	stackResources, err := GetStackResources(ctx, cfnClient, stackName)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, resource := range stackResources {
		if awssdk.ToString(resource.ResourceType) != resourceType {
			continue
		}
		id := awssdk.ToString(resource.PhysicalResourceId)
		if id == "" {
			continue
		}
		ids = append(ids, id)
		fmt.Printf("🔍 検出された%s: %s\n", label, id)
	}

	return ids, nil
}

// GetAllCloudFrontFromStack はCloudFormationスタックからすべてのCloudFrontディストリビューションIDを取得します
func GetAllCloudFrontFromStack(ctx context.Context, cfnClient StackAPI, stackName string) ([]string, error) {
	return physicalIdsOfType(ctx, cfnClient, stackName, ResourceTypeDistribution, "CloudFrontディストリビューション")
}

// GetBucketsFromStack はCloudFormationスタックからすべてのS3バケット名を取得します
func GetBucketsFromStack(ctx context.Context, cfnClient StackAPI, stackName string) ([]string, error) {
	return physicalIdsOfType(ctx, cfnClient, stackName, ResourceTypeBucket, "S3バケット")
}

// GetStackOutputs はスタックの出力をキーと値のマップで返します
func GetStackOutputs(ctx context.Context, cfnClient StackAPI, stackName string) (map[string]string, error) {
	resp, err := cfnClient.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: awssdk.String(stackName),
	})
	if err != nil {
		return nil, fmt.Errorf("スタック '%s' の取得に失敗: %w", stackName, err)
	}
	if len(resp.Stacks) == 0 {
		return nil, fmt.Errorf("スタック '%s' が見つかりませんでした", stackName)
	}

	outputs := make(map[string]string, len(resp.Stacks[0].Outputs))
	for _, o := range resp.Stacks[0].Outputs {
		outputs[awssdk.ToString(o.OutputKey)] = awssdk.ToString(o.OutputValue)
	}
	return outputs, nil
}
