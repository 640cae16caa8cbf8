package captcha

import "strings"

// ChallengeSelector is the DOM element polled while waiting for a human
// to resolve a challenge.
const ChallengeSelector = ".g-recaptcha"

// Challenge page indicators. Substring checks against the rendered HTML
// are deliberately loose; a false positive only costs one poll cycle.
var indicators = []string{
	"g-recaptcha",
	"recaptcha",
	"hcaptcha",
	"please verify you are a human",
	"checking your browser",
}

// Detected reports whether the rendered page content contains a
// CAPTCHA challenge. Automated solving is out of scope by design; the
// caller waits for manual resolution instead.
func Detected(pageContent string) bool {
	lower := strings.ToLower(pageContent)
	for _, indicator := range indicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
