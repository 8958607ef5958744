package cloudfront

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
)

// fakeCloudFront はCloudFront APIのインメモリ実装
type fakeCloudFront struct {
	mu sync.Mutex

	created  []*cloudfront.CreateInvalidationInput
	statuses []string // GetInvalidation が順に返すステータス
	polls    int

	createErr error
	hang      bool // true の場合はコンテキストが終わるまで応答しない
	dists     map[string]types.Distribution
}

func (f *fakeCloudFront) CreateInvalidation(ctx context.Context, params *cloudfront.CreateInvalidationInput, _ ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error) {
	f.mu.Lock()
	f.created = append(f.created, params)
	n := len(f.created)
	f.mu.Unlock()

	if f.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &cloudfront.CreateInvalidationOutput{
		Invalidation: &types.Invalidation{
			Id:     aws.String(fmt.Sprintf("I%d", n)),
			Status: aws.String("InProgress"),
		},
	}, nil
}

func (f *fakeCloudFront) GetInvalidation(_ context.Context, params *cloudfront.GetInvalidationInput, _ ...func(*cloudfront.Options)) (*cloudfront.GetInvalidationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	status := InvalidationCompleted
	if f.polls < len(f.statuses) {
		status = f.statuses[f.polls]
	}
	f.polls++
	return &cloudfront.GetInvalidationOutput{
		Invalidation: &types.Invalidation{Id: params.Id, Status: aws.String(status)},
	}, nil
}

func (f *fakeCloudFront) GetDistribution(_ context.Context, params *cloudfront.GetDistributionInput, _ ...func(*cloudfront.Options)) (*cloudfront.GetDistributionOutput, error) {
	d, ok := f.dists[aws.ToString(params.Id)]
	if !ok {
		return nil, fmt.Errorf("NoSuchDistribution: %s", aws.ToString(params.Id))
	}
	return &cloudfront.GetDistributionOutput{Distribution: &d}, nil
}
