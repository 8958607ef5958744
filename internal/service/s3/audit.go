package s3

import (
	awsinternal "cdkdemo/internal/aws"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// 全ユーザーを表すACLのグループURI
const (
	allUsersGroup           = "http://acs.amazonaws.com/groups/global/AllUsers"
	authenticatedUsersGroup = "http://acs.amazonaws.com/groups/global/AuthenticatedUsers"
)

// AuditPublicAccess はバケットが匿名アクセス可能になっていないかを確認します
func AuditPublicAccess(ctx context.Context, client AuditAPI, bucket string) (PublicAccessReport, error) {
	report := PublicAccessReport{Bucket: bucket}

	pab, err := client.GetPublicAccessBlock(ctx, &s3.GetPublicAccessBlockInput{Bucket: aws.String(bucket)})
	switch {
	case err == nil:
		cfg := pab.PublicAccessBlockConfiguration
		report.BlockAll = cfg != nil &&
			aws.ToBool(cfg.BlockPublicAcls) &&
			aws.ToBool(cfg.IgnorePublicAcls) &&
			aws.ToBool(cfg.BlockPublicPolicy) &&
			aws.ToBool(cfg.RestrictPublicBuckets)
	case awsinternal.IsNotFound(err):
		report.BlockConfigMissed = true
	default:
		return report, fmt.Errorf("パブリックアクセスブロックの取得に失敗: %w", err)
	}

	status, err := client.GetBucketPolicyStatus(ctx, &s3.GetBucketPolicyStatusInput{Bucket: aws.String(bucket)})
	switch {
	case err == nil:
		report.PolicyIsPublic = status.PolicyStatus != nil && aws.ToBool(status.PolicyStatus.IsPublic)
	case awsinternal.IsNotFound(err):
	default:
		return report, fmt.Errorf("バケットポリシーの状態取得に失敗: %w", err)
	}

	acl, err := client.GetBucketAcl(ctx, &s3.GetBucketAclInput{Bucket: aws.String(bucket)})
	if err != nil {
		return report, fmt.Errorf("バケットACLの取得に失敗: %w", err)
	}
	for _, g := range acl.Grants {
		if g.Grantee == nil || g.Grantee.Type != types.TypeGroup {
			continue
		}
		switch aws.ToString(g.Grantee.URI) {
		case allUsersGroup, authenticatedUsersGroup:
			report.PublicGrants = append(report.PublicGrants, fmt.Sprintf("%s:%s", aws.ToString(g.Grantee.URI), g.Permission))
		}
	}

	return report, nil
}
