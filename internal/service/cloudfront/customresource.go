package cloudfront

import (
	awsinternal "cdkdemo/internal/aws"
	"cdkdemo/internal/stack/invalidation"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// CloudFormationカスタムリソースのリクエスト種別
const (
	RequestCreate = "Create"
	RequestUpdate = "Update"
	RequestDelete = "Delete"
)

// 結果として Data に格納するステータス
const (
	StatusSubmitted = "SUBMITTED"
	StatusFailed    = "FAILED"
)

// responseMargin はProvider frameworkへ応答するために残しておく時間
const responseMargin = 5 * time.Second

// Event はCloudFormationカスタムリソースのイベント構造体
// CDK Provider frameworkから呼び出される際のリクエスト情報を含む
type Event struct {
	RequestType           string                 `json:"RequestType"`
	RequestId             string                 `json:"RequestId"`
	StackId               string                 `json:"StackId"`
	LogicalResourceId     string                 `json:"LogicalResourceId"`
	PhysicalResourceId    string                 `json:"PhysicalResourceId,omitempty"`
	ResourceType          string                 `json:"ResourceType"`
	ResourceProperties    map[string]interface{} `json:"ResourceProperties"`
	OldResourceProperties map[string]interface{} `json:"OldResourceProperties,omitempty"`
}

// Response はCloudFormationカスタムリソースのレスポンス構造体
type Response struct {
	PhysicalResourceId string                 `json:"PhysicalResourceId"`
	Data               map[string]interface{} `json:"Data,omitempty"`
}

// InvalidationHandler はスタックの作成・更新・削除のたびにキャッシュを無効化する
//
// 無効化の失敗はスタックのリソース状態には影響させない。失敗した場合は古い
// キャッシュが次の無効化成功まで配信され続ける。
type InvalidationHandler struct {
	Client    InvalidationAPI
	Logger    *zap.Logger
	Reference func() string // CallerReference生成（デフォルト: NewCallerReference）
}

// invalidationProps はカスタムリソースのプロパティ
type invalidationProps struct {
	DistributionId string
	Paths          []string
	Nonce          string
	Strategy       invalidation.PhysicalIDStrategy
}

func parseInvalidationProps(raw map[string]interface{}) (invalidationProps, error) {
	var p invalidationProps

	id, _ := raw[invalidation.PropDistributionID].(string)
	if id == "" {
		return p, fmt.Errorf("%s が指定されていません", invalidation.PropDistributionID)
	}
	p.DistributionId = id

	switch v := raw[invalidation.PropPaths].(type) {
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				p.Paths = append(p.Paths, s)
			}
		}
	case []string:
		p.Paths = append(p.Paths, v...)
	case string:
		if v != "" {
			p.Paths = []string{v}
		}
	}
	if len(p.Paths) == 0 {
		p.Paths = []string{invalidation.AllPaths}
	}

	p.Nonce, _ = raw[invalidation.PropNonce].(string)

	strategy, _ := raw[invalidation.PropPhysicalID].(string)
	s, err := invalidation.ParsePhysicalIDStrategy(strategy)
	if err != nil {
		return p, err
	}
	p.Strategy = s
	return p, nil
}

// physicalResourceId は戦略に応じた物理IDを返す
// 削除時は受け取った物理IDをそのまま返す必要がある
func physicalResourceId(event Event, p invalidationProps) string {
	if event.RequestType == RequestDelete && event.PhysicalResourceId != "" {
		return event.PhysicalResourceId
	}
	return invalidation.PhysicalResourceID(p.Strategy, p.DistributionId, p.Nonce)
}

// Handle はカスタムリソースのライフサイクルイベント（Create/Update/Delete）を処理する
func (h *InvalidationHandler) Handle(ctx context.Context, event Event) (Response, error) {
	log := h.logger().With(
		zap.String("request_type", event.RequestType),
		zap.String("request_id", event.RequestId),
		zap.String("logical_resource_id", event.LogicalResourceId),
	)
	log.Info("received custom resource event", zap.String("physical_resource_id", event.PhysicalResourceId))

	switch event.RequestType {
	case RequestCreate, RequestUpdate, RequestDelete:
	default:
		return Response{}, fmt.Errorf("不明なリクエスト種別です: %s", event.RequestType)
	}

	props, err := parseInvalidationProps(event.ResourceProperties)
	if err != nil {
		if event.RequestType == RequestDelete {
			// 削除を止めないよう、設定不備でも成功として扱う
			log.Warn("skipping invalidation on delete", zap.Error(err))
			return Response{
				PhysicalResourceId: event.PhysicalResourceId,
				Data:               map[string]interface{}{"Status": StatusFailed, "Error": err.Error()},
			}, nil
		}
		return Response{}, fmt.Errorf("カスタムリソースのプロパティが不正です: %w", err)
	}

	physicalId := physicalResourceId(event, props)
	reference := h.reference()
	log = log.With(
		zap.String("distribution_id", props.DistributionId),
		zap.Strings("paths", props.Paths),
		zap.String("caller_reference", reference),
	)

	callCtx := ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithDeadline(ctx, deadline.Add(-responseMargin))
		defer cancel()
	}

	invalidationId, err := CreateInvalidation(callCtx, h.Client, props.DistributionId, props.Paths, reference)
	if err != nil {
		log.Error("cache invalidation failed; cached content stays stale until the next successful invalidation",
			zap.Error(err),
			zap.String("error_code", awsinternal.ErrorCode(err)),
		)
		return Response{
			PhysicalResourceId: physicalId,
			Data: map[string]interface{}{
				"Status":          StatusFailed,
				"Error":           err.Error(),
				"CallerReference": reference,
			},
		}, nil
	}

	log.Info("cache invalidation submitted", zap.String("invalidation_id", invalidationId))
	return Response{
		PhysicalResourceId: physicalId,
		Data: map[string]interface{}{
			"Status":          StatusSubmitted,
			"InvalidationId":  invalidationId,
			"CallerReference": reference,
		},
	}, nil
}

func (h *InvalidationHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *InvalidationHandler) reference() string {
	if h.Reference == nil {
		return NewCallerReference()
	}
	return h.Reference()
}
