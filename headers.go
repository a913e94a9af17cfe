package shadowprobe

// defaultUserAgent matches the web client the guest sessions imitate.
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/75.0.3770.100 Safari/537.36"

// guestHeaders returns the base headers for guest-token requests.
// csrf is attached only when the cookie jar has yielded one.
func guestHeaders(authKey, guestToken, csrf string) map[string]string {
	h := map[string]string{
		"authorization":             "Bearer " + authKey,
		"x-twitter-active-user":     "yes",
		"x-twitter-client-language": "en",
		"content-type":              "application/json",
		"user-agent":                defaultUserAgent,
		"accept":                    "*/*",
		"accept-language":           "en-US,en;q=0.9",
		"accept-encoding":           "gzip, deflate, br",
		"referer":                   "https://twitter.com/",
		"origin":                    "https://twitter.com",
	}
	if guestToken != "" {
		h["x-guest-token"] = guestToken
	}
	if csrf != "" {
		h["x-csrf-token"] = csrf
	}
	return h
}

// activateHeaders returns the headers for the guest-activation endpoint.
func activateHeaders(authKey string) map[string]string {
	return map[string]string{
		"authorization": "Bearer " + authKey,
		"content-type":  "application/json",
		"user-agent":    defaultUserAgent,
	}
}

// probeHeaderOrder keeps header ordering consistent with the browser
// fingerprint the transport presents.
var probeHeaderOrder = []string{
	"authorization",
	"content-type",
	"x-csrf-token",
	"x-guest-token",
	"x-twitter-active-user",
	"x-twitter-client-language",
	"sec-fetch-dest",
	"sec-fetch-mode",
	"sec-fetch-site",
	"cookie",
	"user-agent",
	"accept",
	"accept-language",
	"accept-encoding",
}
