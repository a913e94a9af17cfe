package shadowprobe

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// decodeJSON decodes a response body into a generic tree, nil on failure.
func decodeJSON(body []byte) map[string]any {
	var doc map[string]any
	if sonic.Unmarshal(body, &doc) != nil {
		return nil
	}
	return doc
}

// pathGet walks a decoded JSON tree by key path. The second return is
// false as soon as any step is missing or not an object.
func pathGet(v any, path ...string) (any, bool) {
	for _, p := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		if v, ok = m[p]; !ok {
			return nil, false
		}
	}
	return v, true
}

func pathString(v any, path ...string) (string, bool) {
	got, ok := pathGet(v, path...)
	if !ok {
		return "", false
	}
	s, ok := got.(string)
	return s, ok
}

func pathNumber(v any, path ...string) (float64, bool) {
	got, ok := pathGet(v, path...)
	if !ok {
		return 0, false
	}
	n, ok := got.(float64)
	return n, ok
}

func pathBool(v any, path ...string) (bool, bool) {
	got, ok := pathGet(v, path...)
	if !ok {
		return false, false
	}
	b, ok := got.(bool)
	return b, ok
}

func pathSlice(v any, path ...string) ([]any, bool) {
	got, ok := pathGet(v, path...)
	if !ok {
		return nil, false
	}
	s, ok := got.([]any)
	return s, ok
}

// parseProfile derives the profile fields and the account's numeric id
// from a legacy profile-lookup body.
func parseProfile(body []byte, handle string) (Profile, string) {
	doc := decodeJSON(body)

	p := Profile{ScreenName: handle}
	if s, ok := pathString(doc, "screen_name"); ok {
		p.ScreenName = s
	}
	if s, ok := pathString(doc, "profile_interstitial_type"); ok && s != "" {
		p.Restriction = s
	}
	if b, ok := pathBool(doc, "protected"); ok {
		p.Protected = &b
	}
	p.Exists = !hasErrorCode(body, codeNotFound)
	p.Suspended = hasErrorCode(body, codeSuspended)
	if n, ok := pathNumber(doc, "statuses_count"); ok {
		p.HasTweets = n > 0
	}

	// id_str preserves ids beyond float64 precision; fall back to the
	// numeric field for older payloads.
	userID, ok := pathString(doc, "id_str")
	if !ok {
		if n, idOK := pathNumber(doc, "id"); idOK {
			userID = strconv.FormatInt(int64(n), 10)
		}
	}
	return p, userID
}

// searchTopTweetID returns the highest tweet id in the adaptive search
// result's globalObjects map, scanning ids numerically descending.
func searchTopTweetID(body []byte) (string, bool) {
	doc := decodeJSON(body)
	got, ok := pathGet(doc, "globalObjects", "tweets")
	if !ok {
		return "", false
	}
	tweets, ok := got.(map[string]any)
	if !ok {
		return "", false
	}

	var bestKey string
	var bestID uint64
	for key := range tweets {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		if bestKey == "" || id > bestID {
			bestKey, bestID = key, id
		}
	}
	return bestKey, bestKey != ""
}

// typeaheadMatches reports whether any autocomplete user equals the
// handle, case-insensitively.
func typeaheadMatches(body []byte, handle string) bool {
	doc := decodeJSON(body)
	users, ok := pathSlice(doc, "users")
	if !ok {
		return false
	}
	for _, u := range users {
		if s, ok := pathString(u, "screen_name"); ok && strings.EqualFold(s, handle) {
			return true
		}
	}
	return false
}

// timelineEntries returns the entry list of a UserTweets response: the
// first instruction carrying a non-empty "entries" array.
func timelineEntries(body []byte) []any {
	doc := decodeJSON(body)
	instrs, ok := pathSlice(doc, "data", "user", "result", "timeline", "timeline", "instructions")
	if !ok {
		return nil
	}
	for _, in := range instrs {
		if entries, ok := pathSlice(in, "entries"); ok && len(entries) > 0 {
			return entries
		}
	}
	return nil
}

// entryTweetID extracts a tweet id from a timeline entry, handling both
// the direct-tweet and module-of-items shapes. Falls back to the entry's
// sortIndex when no id is present.
func entryTweetID(entry any) string {
	if s, ok := pathString(entry, "content", "item", "content", "tweet", "id"); ok {
		return s
	}
	if items, ok := pathSlice(entry, "content", "timelineModule", "items"); ok {
		for _, it := range items {
			if s, ok := pathString(it, "item", "content", "tweet", "id"); ok {
				return s
			}
		}
	}
	if s, ok := pathString(entry, "content", "itemContent", "tweet_results", "result", "rest_id"); ok {
		return s
	}
	if eid, ok := pathString(entry, "entryId"); ok {
		if id, found := strings.CutPrefix(eid, "tweet-"); found {
			return id
		}
	}
	if s, ok := pathString(entry, "sortIndex"); ok {
		return s
	}
	return ""
}

// interactor is one account that replied within a sampled thread.
type interactor struct {
	screenName string
	followers  int
}

// conversationInteractors walks a tweet-detail body's reply threads and
// collects every interacting account other than the subject. Items that
// fail to parse are skipped; a bad item never aborts the batch.
func conversationInteractors(body []byte, subjectID string) []interactor {
	doc := decodeJSON(body)
	instrs, ok := pathSlice(doc, "data", "threaded_conversation_with_injections", "instructions")
	if !ok {
		return nil
	}

	var out []interactor
	for _, in := range instrs {
		entries, ok := pathSlice(in, "entries")
		if !ok {
			continue
		}
		for _, entry := range entries {
			eid, _ := pathString(entry, "entryId")
			if !strings.Contains(eid, "conversationthread") {
				continue
			}
			items, ok := pathSlice(entry, "content", "items")
			if !ok {
				continue
			}
			for _, item := range items {
				user, ok := pathGet(item, "item", "itemContent", "tweet_results", "result", "core", "user_results", "result")
				if !ok {
					continue
				}
				restID, ok := pathString(user, "rest_id")
				if !ok || restID == subjectID {
					continue
				}
				followers, ok := pathNumber(user, "legacy", "followers_count")
				if !ok {
					continue
				}
				name, ok := pathString(user, "legacy", "screen_name")
				if !ok {
					continue
				}
				out = append(out, interactor{screenName: name, followers: int(followers)})
			}
		}
	}
	return out
}
