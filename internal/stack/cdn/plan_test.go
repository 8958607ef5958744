package cdn

import (
	"cdkdemo/internal/stack/invalidation"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	calls int
	err   error
}

func (r *countingResolver) Resolve(_ context.Context, name string) (CrossStackValue, error) {
	r.calls++
	if r.err != nil {
		return CrossStackValue{}, r.err
	}
	return CrossStackValue{ExportName: name, Value: "lb.example.com", Verified: true}, nil
}

func TestBuildDefaults(t *testing.T) {
	plan := buildPlan(t, Options{Stage: "prod"})

	assert.Equal(t, "prod", plan.Stage)
	assert.Equal(t, DefaultRootObject, plan.Distribution.DefaultRootObject)
	assert.Equal(t, DefaultDomainExport, plan.Outputs.DomainExport)
	assert.Equal(t, DefaultLoadBalancerExport, plan.LoadBalancer.ExportName)

	store := plan.Store
	assert.False(t, store.Versioned)
	assert.True(t, store.AutoDeleteObjects)
	assert.True(t, store.Destroy)
	assert.True(t, store.Prune)

	def := plan.Distribution.Default
	assert.True(t, def.IsDefault())
	assert.Same(t, plan.Storage, def.Origin)
	assert.True(t, def.Compress)
	assert.Equal(t, MethodsGetHeadOptions, def.AllowedMethods)
	assert.Equal(t, ViewerAllowAll, def.ViewerProtocol)

	require.Len(t, plan.Distribution.Additional, 1)
	api := plan.Distribution.Additional[0]
	assert.Equal(t, "/generate/*", api.PathPattern)
	assert.Same(t, plan.API, api.Origin)
	assert.True(t, api.Compress)
	assert.Equal(t, MethodsAll, api.AllowedMethods)
	assert.Equal(t, ViewerAllowAll, api.ViewerProtocol)
	assert.Equal(t, OriginHTTPOnly, plan.API.ProtocolPolicy)
}

func TestBuildFailsBeforeAnythingWhenExportMissing(t *testing.T) {
	hookCalled := false
	opts := Options{
		AssetPath: defaultBundle(t),
		PreBuild: func(context.Context, string) error {
			hookCalled = true
			return nil
		},
	}

	plan, err := Build(t.Context(), StaticResolver{}, opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExportNotFound)
	assert.Nil(t, plan)
	assert.False(t, hookCalled, "import failure must abort before the asset step")
}

func TestBuildResolvesImportOnce(t *testing.T) {
	r := &countingResolver{}
	_, err := Build(t.Context(), r, Options{AssetPath: defaultBundle(t), Now: fixedNow})
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)

	r = &countingResolver{err: errors.New("throttled")}
	_, err = Build(t.Context(), r, Options{AssetPath: defaultBundle(t)})
	require.Error(t, err)
	assert.Equal(t, 1, r.calls, "no retry on import failure")
}

func TestBuildRejectsInvalidBundle(t *testing.T) {
	tests := []struct {
		name string
		dir  func(t *testing.T) string
	}{
		{"missing", func(t *testing.T) string { return t.TempDir() + "/nope" }},
		{"empty", func(t *testing.T) string { return t.TempDir() }},
		{"no index", func(t *testing.T) string { return writeBundle(t, map[string]string{"app.js": "x"}) }},
		{"unset", func(*testing.T) string { return "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(t.Context(), StaticResolver{DefaultLoadBalancerExport: "lb"}, Options{AssetPath: tt.dir(t)})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidBundle)
		})
	}
}

func TestBuildPreBuildHook(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		AssetPath: dir,
		Now:       fixedNow,
		PreBuild: func(_ context.Context, d string) error {
			writeFile(t, d, "index.html", "<html/>")
			return nil
		},
	}
	plan, err := Build(t.Context(), StaticResolver{DefaultLoadBalancerExport: "lb"}, opts)
	require.NoError(t, err)
	assert.Equal(t, dir, plan.Store.Bundle.Dir)

	opts.PreBuild = func(context.Context, string) error { return errors.New("npm failed") }
	_, err = Build(t.Context(), StaticResolver{DefaultLoadBalancerExport: "lb"}, opts)
	assert.ErrorIs(t, err, ErrInvalidBundle)
}

func TestBuildRejectsDuplicateAPIPaths(t *testing.T) {
	_, err := Build(t.Context(), StaticResolver{DefaultLoadBalancerExport: "lb"}, Options{
		AssetPath: defaultBundle(t),
		APIPaths:  []string{"/generate/*", "generate/*"},
	})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestBuildInvalidationSpec(t *testing.T) {
	plan := buildPlan(t, Options{})
	want := InvalidationSpec{
		Paths:      []string{"/*"},
		PhysicalID: invalidation.PhysicalIDStable,
		Nonce:      "1714564800000000000",
	}
	if diff := cmp.Diff(want, plan.Invalidation); diff != "" {
		t.Fatalf("invalidation spec mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildNoncePerSynthesis(t *testing.T) {
	dir := defaultBundle(t)
	a := buildPlan(t, Options{AssetPath: dir, Now: fixedNow})
	b := buildPlan(t, Options{AssetPath: dir, Now: func() time.Time { return fixedNow().Add(time.Second) }})
	assert.NotEqual(t, a.Invalidation.Nonce, b.Invalidation.Nonce)
}

func TestBuildCustomDomainSeam(t *testing.T) {
	plan := buildPlan(t, Options{})
	assert.Nil(t, plan.Distribution.Domain)

	domain := &CustomDomain{Names: []string{"demo.example.com"}, CertificateArn: "arn:aws:acm:us-east-1:111111111111:certificate/abc"}
	plan = buildPlan(t, Options{Domain: domain})
	assert.Equal(t, domain, plan.Distribution.Domain)
}

func TestDeferredResolver(t *testing.T) {
	v, err := DeferredResolver{}.Resolve(t.Context(), "loadBalancerUrl")
	require.NoError(t, err)
	assert.False(t, v.Verified)
	assert.Equal(t, "Fn::ImportValue(loadBalancerUrl)", v.Display())

	_, err = DeferredResolver{}.Resolve(t.Context(), "")
	assert.ErrorIs(t, err, ErrExportNotFound)
}
