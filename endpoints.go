package shadowprobe

import (
	"net/url"

	"github.com/bytedance/sonic"
)

const (
	twitterBase   = "https://twitter.com"
	twitterAPIURL = "https://api.twitter.com"
)

// DefaultAuthKey is the public application auth key baked into the
// platform's web client. Overridable via configuration.
const DefaultAuthKey = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

const guestActivateURL = twitterAPIURL + "/1.1/guest/activate.json"

// searchFeatureFlags is the fixed feature-flag tail the web client sends
// with every adaptive search request.
const searchFeatureFlags = "include_profile_interstitial_type=1&include_blocking=1&include_blocked_by=1&include_followed_by=1&include_want_retweets=1&include_mute_edge=1&include_can_dm=1&include_can_media_tag=1&include_ext_has_nft_avatar=1&skip_status=1&cards_platform=Web-12&include_cards=1&include_ext_alt_text=true&include_quote_count=true&include_reply_count=1&tweet_mode=extended&include_entities=true&include_user_entities=true&include_ext_media_color=true&include_ext_media_availability=true&include_ext_sensitive_media_warning=true&include_ext_trusted_friends_metadata=true&send_error_codes=true&simple_quoted_tweet=true&vertical=default&count=20&query_source=typd&pc=1&spelling_corrections=1&ext=mediaStats%2ChighlightedLabel%2ChasNftAvatar%2CvoiceInfo%2Cenrichments%2CsuperFollowMetadata"

func profileURL(handle string) string {
	return twitterAPIURL + "/1.1/users/show.json?screen_name=" + url.QueryEscape(handle)
}

func searchURL(query string) string {
	return twitterBase + "/i/api/2/search/adaptive.json?" + searchFeatureFlags + "&q=" + url.QueryEscape(query)
}

func typeaheadURL(query string) string {
	return twitterBase + "/i/api/1.1/search/typeahead.json?q=" + url.QueryEscape(query) + "&src=search_box&result_type=events%2Cusers%2Ctopics"
}

func userTweetsURL() string {
	return twitterBase + "/i/api/graphql/9R7ABsb6gQzKjl5lctcnxA/UserTweets"
}

func tweetDetailURL() string {
	return twitterBase + "/i/api/graphql/LJ_TjoWGgNTXCl7gfx4Njw/TweetDetail"
}

// userTweetsParams builds the variables parameter for a UserTweets fetch.
func userTweetsParams(userID string) url.Values {
	return graphQLParams(map[string]any{
		"userId":                                 userID,
		"count":                                  40,
		"withTweetQuoteCount":                    true,
		"includePromotedContent":                 true,
		"withQuickPromoteEligibilityTweetFields": false,
		"withSuperFollowsUserFields":             false,
		"withUserResults":                        true,
		"withBirdwatchPivots":                    false,
		"withReactionsMetadata":                  false,
		"withReactionsPerspective":               false,
		"withSuperFollowsTweetFields":            false,
		"withVoice":                              true,
	})
}

// tweetDetailParams builds the variables parameter for a TweetDetail fetch.
func tweetDetailParams(tweetID string) url.Values {
	return graphQLParams(map[string]any{
		"focalTweetId":                           tweetID,
		"referrer":                               "profile",
		"with_rux_injections":                    true,
		"includePromotedContent":                 true,
		"withCommunity":                          true,
		"withQuickPromoteEligibilityTweetFields": true,
		"withBirdwatchNotes":                     false,
		"withSuperFollowsUserFields":             true,
		"withDownvotePerspective":                false,
		"withReactionsMetadata":                  false,
		"withReactionsPerspective":               false,
		"withSuperFollowsTweetFields":            true,
		"withVoice":                              true,
		"withV2Timeline":                         false,
		"__fs_dont_mention_me_view_api_enabled":  true,
		"__fs_interactive_text_enabled":          true,
		"__fs_responsive_web_uc_gql_enabled":     false,
	})
}

func graphQLParams(variables map[string]any) url.Values {
	v, _ := sonic.Marshal(variables)
	return url.Values{"variables": []string{string(v)}}
}
