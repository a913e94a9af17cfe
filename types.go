package shadowprobe

import "github.com/bytedance/sonic"

// ProbeResult is the JSON document assembled for one inbound request.
// Tests and Graph are present only when the profile passed the
// existence/suspension/protection/content gate.
type ProbeResult struct {
	Timestamp float64 `json:"timestamp"`
	Profile   Profile `json:"profile"`
	Tests     *Tests  `json:"tests,omitempty"`
	Graph     *Graph  `json:"graph,omitempty"`
}

// Profile carries the subject account's gate-relevant fields.
type Profile struct {
	ScreenName  string `json:"screen_name"`
	Restriction string `json:"restriction,omitempty"`
	Protected   *bool  `json:"protected,omitempty"`
	Exists      bool   `json:"exists"`
	Suspended   bool   `json:"suspended,omitempty"`
	HasTweets   bool   `json:"has_tweets"`
}

// Tests holds the per-category visibility checks. Ghost and MoreReplies
// are fixed stub signals until their detections are reimplemented; they
// are emitted deliberately, not leftovers.
type Tests struct {
	Search      SearchOutcome   `json:"search"`
	Typeahead   bool            `json:"typeahead"`
	Ghost       GhostTest       `json:"ghost"`
	MoreReplies MoreRepliesTest `json:"more_replies"`
}

// SearchOutcome marshals as the discovered tweet id, or false when the
// account's posts are absent from search.
type SearchOutcome struct {
	TweetID string
}

func (o SearchOutcome) MarshalJSON() ([]byte, error) {
	if o.TweetID == "" {
		return []byte("false"), nil
	}
	return sonic.Marshal(o.TweetID)
}

type GhostTest struct {
	Ban bool `json:"ban"`
}

type MoreRepliesTest struct {
	Error string `json:"error"`
}

// Graph aggregates follower counts of accounts interacting with the
// subject's recent posts, as parallel label/data arrays.
type Graph struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

// interactionsLabel names the single dataset the graph builder emits.
const interactionsLabel = "interactions follower data"

// emptyGraph returns the well-formed zero graph used whenever building
// the real one fails.
func emptyGraph() *Graph {
	return &Graph{
		Labels:   []string{},
		Datasets: []Dataset{{Label: interactionsLabel, Data: []int{}}},
	}
}
