package s3

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Object はS3オブジェクトの情報を格納する構造体
type S3Object struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// AuditAPI はパブリックアクセス監査に必要なS3 APIのサブセット
type AuditAPI interface {
	GetPublicAccessBlock(ctx context.Context, params *s3.GetPublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.GetPublicAccessBlockOutput, error)
	GetBucketPolicyStatus(ctx context.Context, params *s3.GetBucketPolicyStatusInput, optFns ...func(*s3.Options)) (*s3.GetBucketPolicyStatusOutput, error)
	GetBucketAcl(ctx context.Context, params *s3.GetBucketAclInput, optFns ...func(*s3.Options)) (*s3.GetBucketAclOutput, error)
}

// Client はこのパッケージが使うS3 APIをまとめたもの
type Client interface {
	s3.ListObjectsV2APIClient
	AuditAPI
}

// BundleDiff はローカルのバンドルとバケットの差分
type BundleDiff struct {
	Missing []string // ローカルにあってバケットにない
	Extra   []string // バケットにあってローカルにない
	Changed []string // 内容が異なる
	Matched int

	LocalBytes  int64 // ローカルのバンドルの合計サイズ
	RemoteBytes int64 // 比較対象となったバケット側オブジェクトの合計サイズ
}

// InSync は差分がないかを返す
func (d BundleDiff) InSync() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0 && len(d.Changed) == 0
}

// PublicAccessReport はバケットの公開状態の監査結果
type PublicAccessReport struct {
	Bucket            string
	BlockAll          bool     // パブリックアクセスブロックの4項目がすべて有効
	PolicyIsPublic    bool     // バケットポリシーが公開と判定されている
	PublicGrants      []string // 全ユーザー向けのACL許可
	BlockConfigMissed bool     // パブリックアクセスブロックが未設定
}

// Public はバケットの内容が匿名で読める可能性があるかを返す
func (r PublicAccessReport) Public() bool {
	if r.BlockAll {
		return false
	}
	return r.PolicyIsPublic || len(r.PublicGrants) > 0
}
