package shadowprobe

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// graphWindow bounds the concurrent detail-fetch fan-out. The first
// timeline entry is skipped as a non-post artifact.
const graphWindow = 29

// InteractionGraph samples the subject's recent posts and aggregates
// the follower counts of accounts replying to them. Best-effort
// throughout: any failure, from the timeline fetch down to a single
// malformed thread item, degrades to partial or empty data rather than
// failing the probe.
func (s *Session) InteractionGraph(ctx context.Context, userID string) *Graph {
	g := emptyGraph()

	timelineBody, err := s.Post(ctx, userTweetsURL(), userTweetsParams(userID))
	if err != nil {
		slog.Warn("interaction graph: timeline fetch failed", slog.String("user_id", userID), slog.Any("error", err))
		return g
	}
	entries := timelineEntries(timelineBody)
	if len(entries) < 2 {
		return g
	}
	window := entries[1:min(len(entries), 1+graphWindow)]

	// Launch one detail fetch per entry, await the whole batch, and zip
	// results back with their entries. A failed fetch leaves a nil slot
	// and contributes nothing.
	details := make([][]byte, len(window))
	var eg errgroup.Group
	for i, entry := range window {
		tweetID := entryTweetID(entry)
		if tweetID == "" {
			continue
		}
		eg.Go(func() error {
			body, err := s.Post(ctx, tweetDetailURL(), tweetDetailParams(tweetID))
			if err != nil {
				slog.Debug("interaction graph: detail fetch failed", slog.String("tweet_id", tweetID), slog.Any("error", err))
				return nil
			}
			details[i] = body
			return nil
		})
	}
	_ = eg.Wait()

	for _, body := range details {
		if body == nil || hasAnyError(body) {
			continue
		}
		for _, in := range conversationInteractors(body, userID) {
			g.Datasets[0].Data = append(g.Datasets[0].Data, in.followers)
			g.Labels = append(g.Labels, in.screenName)
		}
	}
	return g
}
