package cdn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/gobwas/glob"
)

// AllowedMethods はビヘイビアが受け付けるHTTPメソッドの組
type AllowedMethods string

const (
	MethodsGetHead        AllowedMethods = "GET,HEAD"
	MethodsGetHeadOptions AllowedMethods = "GET,HEAD,OPTIONS"
	MethodsAll            AllowedMethods = "ALL"
)

// ViewerProtocol はビューワー側のプロトコルポリシー
type ViewerProtocol string

const (
	ViewerAllowAll        ViewerProtocol = "allow-all"
	ViewerRedirectToHTTPS ViewerProtocol = "redirect-to-https"
	ViewerHTTPSOnly       ViewerProtocol = "https-only"
)

const (
	// maxAdditionalRules はCloudFrontのキャッシュビヘイビア数のデフォルト上限
	maxAdditionalRules = 25
	maxPatternLength   = 255
	patternChars       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-.*$/~\"'@:+?&"
)

// RoutingRule はパスパターンとオリジンの対応 (CloudFrontのビヘイビア)
//
// PathPattern が空のルールはデフォルトビヘイビア (catch-all) を表す。
type RoutingRule struct {
	PathPattern    string
	Origin         Origin
	Compress       bool
	AllowedMethods AllowedMethods
	ViewerProtocol ViewerProtocol

	matcher glob.Glob
}

// IsDefault はデフォルトビヘイビアかどうかを返す
func (r RoutingRule) IsDefault() bool {
	return r.PathPattern == ""
}

// Pattern は表示用のパスパターンを返す
func (r RoutingRule) Pattern() string {
	if r.IsDefault() {
		return "*"
	}
	return r.PathPattern
}

// Matches はリクエストパスがこのルールにマッチするかを返す
func (r RoutingRule) Matches(path string) bool {
	if r.IsDefault() {
		return true
	}
	m := r.matcher
	if m == nil {
		var err error
		if m, err = compilePattern(r.PathPattern); err != nil {
			return false
		}
	}
	return m.Match(normalizePath(path))
}

// validatePattern はCloudFrontが受け付けるパスパターンかを検証する
func validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("%w: パスパターンが空です", ErrInvalidRule)
	}
	if len(pattern) > maxPatternLength {
		return fmt.Errorf("%w: パスパターンが長すぎます (%d文字)", ErrInvalidRule, len(pattern))
	}
	for _, c := range pattern {
		if !strings.ContainsRune(patternChars, c) {
			return fmt.Errorf("%w: パスパターン %q に使用できない文字 %q が含まれています", ErrInvalidRule, pattern, c)
		}
	}
	return nil
}

// compilePattern はCloudFrontのパスパターンをglobに変換する
// CloudFrontの * は "/" を含む任意の文字列にマッチするため区切り文字は指定しない
func compilePattern(pattern string) (glob.Glob, error) {
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}
	return glob.Compile(normalizePath(pattern))
}

func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		return "/" + path
	}
	return path
}

// literalPrefix はパターン中の最初のワイルドカードより前の部分を返す
func literalPrefix(pattern string) string {
	if i := strings.IndexAny(pattern, "*?"); i >= 0 {
		return pattern[:i]
	}
	return pattern
}

// orderRules は追加ルールを具体的なものから順に並べ替える
// CloudFrontは登録順に評価し最初にマッチしたビヘイビアを使うため、
// 宣言順に依存しないよう「より具体的なパターンが先」を保証する
func orderRules(rules []RoutingRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		pi, pj := normalizePath(rules[i].PathPattern), normalizePath(rules[j].PathPattern)
		li, lj := len(literalPrefix(pi)), len(literalPrefix(pj))
		if li != lj {
			return li > lj
		}
		wi, wj := strings.Count(pi, "*")+strings.Count(pi, "?"), strings.Count(pj, "*")+strings.Count(pj, "?")
		if wi != wj {
			return wi < wj
		}
		return pi < pj
	})
}

// validateRules はデフォルトルールと追加ルールの組を検証する
func validateRules(def RoutingRule, additional []RoutingRule) error {
	if !def.IsDefault() {
		return fmt.Errorf("%w: デフォルトルールにパスパターン %q が設定されています", ErrInvalidRule, def.PathPattern)
	}
	if def.Origin == nil {
		return fmt.Errorf("%w: デフォルトルールのオリジンが未設定です", ErrInvalidRule)
	}
	if len(additional) > maxAdditionalRules {
		return fmt.Errorf("%w: 追加ルールは最大%d件です (%d件)", ErrInvalidRule, maxAdditionalRules, len(additional))
	}

	seen := make(map[string]bool, len(additional))
	for _, r := range additional {
		if r.IsDefault() {
			return fmt.Errorf("%w: デフォルトルールは1つだけ指定できます", ErrInvalidRule)
		}
		if err := validatePattern(r.PathPattern); err != nil {
			return err
		}
		if r.Origin == nil {
			return fmt.Errorf("%w: %s のオリジンが未設定です", ErrInvalidRule, r.PathPattern)
		}
		key := normalizePath(r.PathPattern)
		if seen[key] {
			return fmt.Errorf("%w: パスパターン %s が重複しています", ErrInvalidRule, r.PathPattern)
		}
		seen[key] = true
	}
	return nil
}

func (m AllowedMethods) cdk() awscloudfront.AllowedMethods {
	switch m {
	case MethodsAll:
		return awscloudfront.AllowedMethods_ALLOW_ALL()
	case MethodsGetHead:
		return awscloudfront.AllowedMethods_ALLOW_GET_HEAD()
	default:
		return awscloudfront.AllowedMethods_ALLOW_GET_HEAD_OPTIONS()
	}
}

func (v ViewerProtocol) cdk() awscloudfront.ViewerProtocolPolicy {
	switch v {
	case ViewerRedirectToHTTPS:
		return awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS
	case ViewerHTTPSOnly:
		return awscloudfront.ViewerProtocolPolicy_HTTPS_ONLY
	default:
		return awscloudfront.ViewerProtocolPolicy_ALLOW_ALL
	}
}
