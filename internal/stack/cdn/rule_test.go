package cdn

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRoute(t *testing.T) {
	plan := buildPlan(t, Options{})

	tests := []struct {
		path string
		want OriginKind
	}{
		{"/", OriginKindStorage},
		{"/index.html", OriginKindStorage},
		{"/static/js/main.js", OriginKindStorage},
		{"/generate", OriginKindStorage},
		{"/generated/x", OriginKindStorage},
		{"/Generate/x", OriginKindStorage},
		{"/generate/", OriginKindHTTP},
		{"/generate/image", OriginKindHTTP},
		{"/generate/a/b/c?q=1", OriginKindHTTP},
		{"generate/image", OriginKindHTTP},
	}
	for _, tt := range tests {
		got := plan.Route(tt.path)
		assert.Equal(t, tt.want, got.Origin.Kind(), "path %s", tt.path)
	}
}

func TestRulesOrder(t *testing.T) {
	plan := buildPlan(t, Options{APIPaths: []string{"/api/*", "/api/v2/*", "/a*", "/api/v2/health"}})

	var got []string
	for _, r := range plan.Rules() {
		got = append(got, r.Pattern())
	}
	assert.Equal(t, []string{"/api/v2/health", "/api/v2/*", "/api/*", "/a*", "*"}, got)

	assert.Equal(t, "/api/v2/health", plan.Route("/api/v2/health").PathPattern)
	assert.Equal(t, "/api/v2/*", plan.Route("/api/v2/users").PathPattern)
	assert.Equal(t, "/api/*", plan.Route("/api/v1/users").PathPattern)
	assert.Equal(t, "/a*", plan.Route("/about").PathPattern)
	assert.True(t, plan.Route("/b").IsDefault())
}

func TestValidatePattern(t *testing.T) {
	for _, ok := range []string{"/generate/*", "*.jpg", "/images/?.png", "/a-b_c.d/~x$y@z:+&'\""} {
		assert.NoError(t, validatePattern(ok), ok)
	}
	for _, bad := range []string{"", "/a b", "/[ab]", "/{a,b}", "/a\\b", "/" + strings.Repeat("a", 255)} {
		assert.ErrorIs(t, validatePattern(bad), ErrInvalidRule, bad)
	}
}

func TestValidateRules(t *testing.T) {
	origin := &HTTPOrigin{}
	def := RoutingRule{Origin: &StorageOrigin{}}

	require.NoError(t, validateRules(def, nil))
	assert.ErrorIs(t, validateRules(RoutingRule{}, nil), ErrInvalidRule)
	assert.ErrorIs(t, validateRules(RoutingRule{PathPattern: "/x", Origin: origin}, nil), ErrInvalidRule)
	assert.ErrorIs(t, validateRules(def, []RoutingRule{{Origin: origin}}), ErrInvalidRule)
	assert.ErrorIs(t, validateRules(def, []RoutingRule{{PathPattern: "/x"}}), ErrInvalidRule)

	many := make([]RoutingRule, maxAdditionalRules+1)
	for i := range many {
		many[i] = RoutingRule{PathPattern: "/p" + strings.Repeat("x", i) + "/*", Origin: origin}
	}
	assert.ErrorIs(t, validateRules(def, many), ErrInvalidRule)
}

// For any request path under /generate/, the HTTP origin rule wins over the
// catch-all default rule.
func TestPropertyGeneratePathsRouteToHTTPOrigin(t *testing.T) {
	plan := buildPlan(t, Options{})

	rapid.Check(t, func(t *rapid.T) {
		suffix := rapid.StringMatching(`[a-zA-Z0-9_./-]{0,40}`).Draw(t, "suffix")
		rule := plan.Route("/generate/" + suffix)
		if rule.Origin.Kind() != OriginKindHTTP {
			t.Fatalf("/generate/%s routed to %s", suffix, rule.Origin.Kind())
		}
	})
}

// For any path outside /generate/, the default rule serves the storage origin.
func TestPropertyOtherPathsRouteToStorage(t *testing.T) {
	plan := buildPlan(t, Options{})

	rapid.Check(t, func(t *rapid.T) {
		path := "/" + rapid.StringMatching(`[a-zA-Z0-9_./-]{0,40}`).Draw(t, "path")
		if strings.HasPrefix(path, "/generate/") {
			t.Skip("covered by the /generate/ property")
		}
		rule := plan.Route(path)
		if !rule.IsDefault() || rule.Origin.Kind() != OriginKindStorage {
			t.Fatalf("%s routed to %s (%s)", path, rule.Origin.Kind(), rule.Pattern())
		}
	})
}

// For any declaration order of API paths, the default rule always targets the
// storage origin, every API rule targets the HTTP origin, and the evaluation
// order is identical.
func TestPropertyRuleTargetsIndependentOfDeclarationOrder(t *testing.T) {
	dir := defaultBundle(t)
	paths := []string{"/generate/*", "/api/*", "/api/v2/*", "*.json", "/health"}
	reference := buildPlan(t, Options{AssetPath: dir, APIPaths: paths})

	rapid.Check(t, func(t *rapid.T) {
		perm := rapid.Permutation(paths).Draw(t, "order")
		plan, err := Build(context.Background(), StaticResolver{DefaultLoadBalancerExport: "lb"}, Options{AssetPath: dir, APIPaths: perm, Now: fixedNow})
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if plan.Distribution.Default.Origin.Kind() != OriginKindStorage {
			t.Fatalf("default rule targets %s", plan.Distribution.Default.Origin.Kind())
		}
		for i, r := range plan.Distribution.Additional {
			if r.Origin.Kind() != OriginKindHTTP {
				t.Fatalf("rule %s targets %s", r.PathPattern, r.Origin.Kind())
			}
			if want := reference.Distribution.Additional[i].PathPattern; r.PathPattern != want {
				t.Fatalf("order %v: position %d is %s, want %s", perm, i, r.PathPattern, want)
			}
		}
	})
}
