package cdn

import (
	"cdkdemo/internal/stack/invalidation"
	"context"
	"fmt"
	"time"
)

const (
	DefaultLoadBalancerExport = "loadBalancerUrl"
	DefaultDomainExport       = "cloudfrontDomainUrl"
	DefaultRootObject         = IndexDocument
	DefaultAPIPath            = "/generate/*"
)

// CustomDomain は独自ドメインの拡張ポイント
// 既存のACM証明書 (us-east-1) を参照するだけで、証明書の発行は行わない
type CustomDomain struct {
	Names          []string
	CertificateArn string
}

// Options はプラン作成の入力
type Options struct {
	Stage              string
	AssetPath          string
	LoadBalancerExport string
	DomainExport       string
	APIPaths           []string
	Domain             *CustomDomain
	PhysicalID         invalidation.PhysicalIDStrategy
	PreBuild           PreBuildHook
	Now                func() time.Time
}

func (o Options) withDefaults() Options {
	if o.LoadBalancerExport == "" {
		o.LoadBalancerExport = DefaultLoadBalancerExport
	}
	if o.DomainExport == "" {
		o.DomainExport = DefaultDomainExport
	}
	if len(o.APIPaths) == 0 {
		o.APIPaths = []string{DefaultAPIPath}
	}
	if o.PhysicalID == "" {
		o.PhysicalID = invalidation.PhysicalIDStable
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// DistributionSpec はCloudFrontディストリビューションの定義
type DistributionSpec struct {
	DefaultRootObject string
	Default           RoutingRule
	Additional        []RoutingRule // 具体的なパターン順
	Domain            *CustomDomain
	Comment           string
}

// Outputs はスタック出力の定義
type Outputs struct {
	DomainExport string
}

// Plan はプロバイダーAPIに触れずに組み立てた CDN スタックの完全な定義
type Plan struct {
	Stage        string
	LoadBalancer CrossStackValue
	Store        *AssetStore
	Identity     *AccessIdentity
	Storage      *StorageOrigin
	API          *HTTPOrigin
	Distribution DistributionSpec
	Invalidation InvalidationSpec
	Outputs      Outputs
}

// Build は依存順 (インポート → オリジン → ディストリビューション → 無効化) にプランを組み立てる
// インポートが解決できない場合は他の何も作らずにエラーを返す
func Build(ctx context.Context, resolver ImportResolver, opts Options) (*Plan, error) {
	opts = opts.withDefaults()

	lb, err := resolver.Resolve(ctx, opts.LoadBalancerExport)
	if err != nil {
		return nil, fmt.Errorf("クロススタック参照 %s の解決に失敗: %w", opts.LoadBalancerExport, err)
	}

	if opts.PreBuild != nil {
		if err := opts.PreBuild(ctx, opts.AssetPath); err != nil {
			return nil, fmt.Errorf("%w: プレビルドに失敗: %w", ErrInvalidBundle, err)
		}
	}

	bundle := AssetBundle{Dir: opts.AssetPath}
	if err := bundle.Validate(); err != nil {
		return nil, err
	}

	store := &AssetStore{
		Versioned:         false,
		AutoDeleteObjects: true,
		Destroy:           true,
		BlockPublicAccess: true,
		EnforceSSL:        true,
		Bundle:            bundle,
		Prune:             true,
	}
	identity := &AccessIdentity{Comment: "OAI for web application cloudfront distribution"}
	storage := &StorageOrigin{Store: store, Identity: identity}
	api := &HTTPOrigin{Domain: lb, ProtocolPolicy: OriginHTTPOnly}

	// デモ用にHTTP/HTTPSの両方を受け付ける。本番ではHTTPSへリダイレクトすること
	def := RoutingRule{
		Origin:         storage,
		Compress:       true,
		AllowedMethods: MethodsGetHeadOptions,
		ViewerProtocol: ViewerAllowAll,
	}

	additional := make([]RoutingRule, 0, len(opts.APIPaths))
	for _, p := range opts.APIPaths {
		additional = append(additional, RoutingRule{
			PathPattern:    p,
			Origin:         api,
			Compress:       true,
			AllowedMethods: MethodsAll,
			ViewerProtocol: ViewerAllowAll,
		})
	}
	if err := validateRules(def, additional); err != nil {
		return nil, err
	}
	for i := range additional {
		if additional[i].matcher, err = compilePattern(additional[i].PathPattern); err != nil {
			return nil, err
		}
	}
	orderRules(additional)

	return &Plan{
		Stage:        opts.Stage,
		LoadBalancer: lb,
		Store:        store,
		Identity:     identity,
		Storage:      storage,
		API:          api,
		Distribution: DistributionSpec{
			DefaultRootObject: DefaultRootObject,
			Default:           def,
			Additional:        additional,
			Domain:            opts.Domain,
			Comment:           fmt.Sprintf("cdk-demo frontend (%s)", opts.Stage),
		},
		Invalidation: newInvalidationSpec(opts.PhysicalID, opts.Now()),
		Outputs:      Outputs{DomainExport: opts.DomainExport},
	}, nil
}

// Rules はCloudFrontが評価する順にルールを返す (デフォルトは最後)
func (p *Plan) Rules() []RoutingRule {
	rules := make([]RoutingRule, 0, len(p.Distribution.Additional)+1)
	rules = append(rules, p.Distribution.Additional...)
	return append(rules, p.Distribution.Default)
}

// Route はリクエストパスを処理するルールを返す
func (p *Plan) Route(path string) RoutingRule {
	for _, r := range p.Distribution.Additional {
		if r.Matches(path) {
			return r
		}
	}
	return p.Distribution.Default
}
