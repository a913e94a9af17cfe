package shadowprobe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probeResponder scripts a full healthy probe flow; individual tests
// override routes by wrapping it.
func probeResponder(profile string) func(method, url string) fakeResponse {
	return func(method, url string) fakeResponse {
		switch {
		case strings.Contains(url, "guest/activate"):
			return activateOK("tok")
		case strings.Contains(url, "users/show"):
			return okJSON(profile)
		case strings.Contains(url, "search/adaptive"):
			return okJSON(`{"globalObjects":{"tweets":{"111":{},"222":{}}}}`)
		case strings.Contains(url, "search/typeahead"):
			return okJSON(`{"users":[{"screen_name":"Target"}]}`)
		case strings.Contains(url, "UserTweets"):
			return okJSON(timelineBody("tid1"))
		case strings.Contains(url, "TweetDetail"):
			return okJSON(detailBody("replier", 12))
		}
		return okJSON(`{}`)
	}
}

const healthyProfile = `{"id_str":"999","screen_name":"Target","protected":false,"statuses_count":5}`

func newProbeSession(t *testing.T, fu *fakeUpstream) *Session {
	t.Helper()
	s, err := NewSession(fu.config())
	require.NoError(t, err)
	return s
}

func TestProbeFullFlow(t *testing.T) {
	fu := newFakeUpstream(probeResponder(healthyProfile))
	s := newProbeSession(t, fu)

	res, err := s.Probe(context.Background(), "target")
	require.NoError(t, err)

	assert.Equal(t, "Target", res.Profile.ScreenName)
	assert.True(t, res.Profile.Exists)
	assert.True(t, res.Profile.HasTweets)
	require.NotNil(t, res.Profile.Protected)
	assert.False(t, *res.Profile.Protected)

	require.NotNil(t, res.Tests)
	assert.Equal(t, "222", res.Tests.Search.TweetID)
	assert.True(t, res.Tests.Typeahead)
	assert.False(t, res.Tests.Ghost.Ban)
	assert.Equal(t, "EISGHOSTED", res.Tests.MoreReplies.Error)

	require.NotNil(t, res.Graph)
	assert.Equal(t, []string{"replier"}, res.Graph.Labels)
	assert.Equal(t, []int{12}, res.Graph.Datasets[0].Data)
	assert.Greater(t, res.Timestamp, 0.0)
}

func TestProbeGates(t *testing.T) {
	tests := []struct {
		name    string
		profile string
	}{
		{"not found", `{"errors":[{"code":50,"message":"User not found."}]}`},
		{"suspended", `{"errors":[{"code":63,"message":"User has been suspended."}]}`},
		{"protected", `{"id_str":"999","screen_name":"Target","protected":true,"statuses_count":5}`},
		{"no tweets", `{"id_str":"999","screen_name":"Target","protected":false,"statuses_count":0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fu := newFakeUpstream(probeResponder(tt.profile))
			s := newProbeSession(t, fu)

			res, err := s.Probe(context.Background(), "target")
			require.NoError(t, err)

			assert.Nil(t, res.Tests, "gated probes carry no test results")
			assert.Nil(t, res.Graph)
			assert.Equal(t, 0, fu.count("search/adaptive"), "gated probes issue no further calls")
			assert.Equal(t, 0, fu.count("UserTweets"))
		})
	}
}

func TestProbeUnexpectedAPIError(t *testing.T) {
	fu := newFakeUpstream(probeResponder(`{"errors":[{"code":99,"message":"something new"}]}`))
	s := newProbeSession(t, fu)

	_, err := s.Probe(context.Background(), "target")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedAPI))
}

func TestProbeSearchMiss(t *testing.T) {
	base := probeResponder(healthyProfile)
	fu := newFakeUpstream(func(method, url string) fakeResponse {
		if strings.Contains(url, "search/adaptive") {
			return okJSON(`{"globalObjects":{"tweets":{}}}`)
		}
		return base(method, url)
	})
	s := newProbeSession(t, fu)

	res, err := s.Probe(context.Background(), "target")
	require.NoError(t, err)
	require.NotNil(t, res.Tests)
	assert.Equal(t, "", res.Tests.Search.TweetID)
}

func TestProbeResultJSONShape(t *testing.T) {
	fu := newFakeUpstream(probeResponder(healthyProfile))
	s := newProbeSession(t, fu)

	res, err := s.Probe(context.Background(), "target")
	require.NoError(t, err)

	out, err := sonic.Marshal(res)
	require.NoError(t, err)
	js := string(out)

	assert.Contains(t, js, `"search":"222"`)
	assert.Contains(t, js, `"typeahead":true`)
	assert.Contains(t, js, `"ghost":{"ban":false}`)
	assert.Contains(t, js, `"more_replies":{"error":"EISGHOSTED"}`)
	assert.Contains(t, js, `"label":"interactions follower data"`)
}

func TestProbeResultJSONSearchFalse(t *testing.T) {
	res := &ProbeResult{
		Profile: Profile{ScreenName: "x", Exists: true, HasTweets: true},
		Tests:   &Tests{MoreReplies: MoreRepliesTest{Error: "EISGHOSTED"}},
	}
	out, err := sonic.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"search":false`)
}

func TestProbeGatedResultJSONOmitsTests(t *testing.T) {
	fu := newFakeUpstream(probeResponder(`{"errors":[{"code":50,"message":"User not found."}]}`))
	s := newProbeSession(t, fu)

	res, err := s.Probe(context.Background(), "target")
	require.NoError(t, err)

	out, err := sonic.Marshal(res)
	require.NoError(t, err)
	js := string(out)
	assert.NotContains(t, js, `"tests"`)
	assert.NotContains(t, js, `"graph"`)
	assert.Contains(t, js, `"exists":false`)
}
