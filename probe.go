package shadowprobe

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Probe runs the account assessment protocol over this session: profile
// fetch, gate, then the independent visibility checks. Terminal at any
// return. A profile lookup failing with an error code outside {50, 63}
// aborts with ErrUnexpectedAPI.
func (s *Session) Probe(ctx context.Context, handle string) (*ProbeResult, error) {
	result := &ProbeResult{Timestamp: float64(time.Now().UnixMilli()) / 1000}

	slog.Debug("probing account", slog.String("handle", handle))
	profileBody, err := s.Get(ctx, profileURL(handle), 0)
	if err != nil {
		return nil, err
	}
	if hasErrorOutside(profileBody, codeNotFound, codeSuspended) {
		return nil, fmt.Errorf("%w: profile lookup for %s: %s",
			ErrUnexpectedAPI, handle, truncateBytes(profileBody, 200))
	}

	profile, userID := parseProfile(profileBody, handle)
	result.Profile = profile

	// None of the downstream checks mean anything for an account without
	// public content.
	if !profile.Exists || profile.Suspended || (profile.Protected != nil && *profile.Protected) || !profile.HasTweets {
		return result, nil
	}

	tests := &Tests{
		Ghost:       GhostTest{Ban: false},
		MoreReplies: MoreRepliesTest{Error: "EISGHOSTED"},
	}

	searchBody, err := s.Get(ctx, searchURL("from:@"+handle), 0)
	if err != nil {
		return nil, err
	}
	if id, ok := searchTopTweetID(searchBody); ok {
		tests.Search = SearchOutcome{TweetID: id}
	}

	typeaheadBody, err := s.Get(ctx, typeaheadURL("@"+handle), 0)
	if err != nil {
		return nil, err
	}
	tests.Typeahead = typeaheadMatches(typeaheadBody, handle)

	result.Tests = tests
	result.Graph = s.InteractionGraph(ctx, userID)
	return result, nil
}
