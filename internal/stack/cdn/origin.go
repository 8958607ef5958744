package cdn

import (
	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/jsii-runtime-go"
)

// OriginKind はオリジンの種別
type OriginKind string

const (
	OriginKindStorage OriginKind = "storage"
	OriginKindHTTP    OriginKind = "http"
)

// OriginProtocol はCloudFrontからオリジンへ接続する際のプロトコル
type OriginProtocol string

const (
	OriginHTTPOnly    OriginProtocol = "http-only"
	OriginHTTPSOnly   OriginProtocol = "https-only"
	OriginMatchViewer OriginProtocol = "match-viewer"
)

// Origin はCloudFrontがリクエストを転送できるバックエンド
//
// 実装は StorageOrigin と HTTPOrigin の2種類のみ。ディストリビューションの
// 組み立て側はどちらの種別かを意識せず bind でオリジン参照を得る。
type Origin interface {
	Kind() OriginKind
	// Describe は表示用の短い説明を返す
	Describe() string
	bind(res *resources) awscloudfront.IOrigin
}

// AssetStore は静的アセットを配置するS3バケットの定義
type AssetStore struct {
	Versioned         bool
	AutoDeleteObjects bool
	Destroy           bool // スタック削除時にバケットを削除する
	BlockPublicAccess bool
	EnforceSSL        bool
	Bundle            AssetBundle
	Prune             bool // デプロイ毎にバケットの中身を丸ごと置き換える
}

// AccessIdentity はバケットを読み取れる唯一のプリンシパル (OAI)
type AccessIdentity struct {
	Comment string
}

// StorageOrigin はS3バケット + OAI で構成されるオリジン
type StorageOrigin struct {
	Store    *AssetStore
	Identity *AccessIdentity
}

func (o *StorageOrigin) Kind() OriginKind { return OriginKindStorage }

func (o *StorageOrigin) Describe() string {
	return "S3バケット (OAI) <- " + o.Store.Bundle.Dir
}

func (o *StorageOrigin) bind(res *resources) awscloudfront.IOrigin {
	return awscloudfrontorigins.S3BucketOrigin_WithOriginAccessIdentity(res.bucket, &awscloudfrontorigins.S3BucketOriginWithOAIProps{
		OriginAccessIdentity: res.identity,
	})
}

// HTTPOrigin は外部から渡されたドメイン名 (ロードバランサー) を指すオリジン
type HTTPOrigin struct {
	Domain         CrossStackValue
	ProtocolPolicy OriginProtocol
}

func (o *HTTPOrigin) Kind() OriginKind { return OriginKindHTTP }

func (o *HTTPOrigin) Describe() string {
	return o.Domain.Display() + " (" + string(o.ProtocolPolicy) + ")"
}

func (o *HTTPOrigin) bind(_ *resources) awscloudfront.IOrigin {
	// 解決済みの値があってもテンプレート上は Fn::ImportValue を使い、
	// エクスポート側スタックとの依存関係をCloudFormationに認識させる
	domain := awscdk.Fn_ImportValue(jsii.String(o.Domain.ExportName))
	return awscloudfrontorigins.NewHttpOrigin(domain, &awscloudfrontorigins.HttpOriginProps{
		ProtocolPolicy: o.ProtocolPolicy.cdk(),
	})
}

func (p OriginProtocol) cdk() awscloudfront.OriginProtocolPolicy {
	switch p {
	case OriginHTTPSOnly:
		return awscloudfront.OriginProtocolPolicy_HTTPS_ONLY
	case OriginMatchViewer:
		return awscloudfront.OriginProtocolPolicy_MATCH_VIEWER
	default:
		return awscloudfront.OriginProtocolPolicy_HTTP_ONLY
	}
}
