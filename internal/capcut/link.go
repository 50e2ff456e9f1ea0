package capcut

import "strings"

// deepLinkTemplate is the onelink redirector used by the CapCut app. The
// template identifier is substituted twice: once inside the single-encoded
// af_dp parameter and once inside the double-encoded deep_link_value.
const deepLinkTemplate = "https://capcut-yt.onelink.me/W3Oy/cw7bmax3" +
	"?af_dp=capcut%3A%2F%2Ftemplate%2Fdetail%3Fenter_app%3Dother%26enter_from%3DSEO_detail_page%26template_id%3D{id}%26template_language%3DNone" +
	"&af_xp=social" +
	"&deep_link_sub1=%7B%22share_token%22%3A%22None%22%7D" +
	"&deep_link_value=capcut%253A%252F%252Ftemplate%252Fdetail%253Fenter_app%253Dother%2526enter_from%253DSEO_detail_page%2526template_id%253D{id}%2526template_language%253DNone" +
	"&is_retargeting=true&pid=SEO_detail"

// DeepLink builds the app deep link for a template identifier. Returns the
// empty string when the identifier is absent. Purely textual; the resulting
// link is never resolved.
func DeepLink(templateID string) string {
	if templateID == "" {
		return ""
	}
	return strings.ReplaceAll(deepLinkTemplate, "{id}", templateID)
}
