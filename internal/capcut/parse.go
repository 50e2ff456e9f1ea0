// Package capcut holds the site-specific extraction rules for CapCut
// template pages: selector fallback chains, URL patterns and the deep-link
// template. The rules are plain ordered lists so that markup changes on the
// platform side stay a data edit.
package capcut

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTitle is used when no selector yields a usable title.
	DefaultTitle = "Untitled Template"
	// DefaultDuration is used when no duration-like token is found.
	DefaultDuration = "0:15"
	// MaxTags caps the tag set per template.
	MaxTags = 5
)

// Selector chains, most specific first.
var (
	titleSelectors = []string{
		`h1[class*="title"]`,
		`h1[data-testid*="title"]`,
		`.template-title`,
		`h1`,
		`[class*="template"] h1`,
	}

	descriptionMetaSelectors = []string{
		`meta[name="description"]`,
		`meta[property="og:description"]`,
	}

	descriptionBodySelectors = []string{
		`.description`,
		`.template-description`,
	}

	searchLinkSelectors = []string{
		`a[href*="/template-detail/"]`,
		`a[href*="/explore/"]`,
		`.template-item a`,
		`.template-card a`,
	}
)

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)

	durationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+:\d+`),
		regexp.MustCompile(`\d+s`),
		regexp.MustCompile(`\d+\s*sec`),
	}

	// Template identifiers only ever appear in the URL, not the page body.
	templateIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`template_id=(\d+)`),
		regexp.MustCompile(`template-detail/[^/]+/(\d+)`),
		regexp.MustCompile(`/(\d{19})/?$`),
		regexp.MustCompile(`template/(\d+)`),
		regexp.MustCompile(`/(\d{16,20})/?`),
	}

	videoURLPatterns = []*regexp.Regexp{
		regexp.MustCompile(`https://[^"\s]+\.mp4[^"\s]*`),
		regexp.MustCompile(`https://[^"\s]+/video/[^"\s]+`),
		regexp.MustCompile(`"(https://[^"]+\.mp4[^"]*)"`),
	}
)

// Title returns the first selector hit whose trimmed text is longer than
// three characters, or DefaultTitle.
func Title(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if len(text) > 3 {
			return text
		}
	}
	return DefaultTitle
}

// Description prefers meta-tag content over description-like body elements.
// Returns the empty string when nothing matches.
func Description(doc *goquery.Document) string {
	for _, sel := range descriptionMetaSelectors {
		if content := strings.TrimSpace(doc.Find(sel).First().AttrOr("content", "")); content != "" {
			return content
		}
	}
	for _, sel := range descriptionBodySelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// Tags unions the meta keywords with up to MaxTags hashtag tokens from the
// visible text, deduplicated in insertion order and capped at MaxTags.
func Tags(doc *goquery.Document) []string {
	var raw []string

	keywords := doc.Find(`meta[name="keywords"]`).First().AttrOr("content", "")
	for _, kw := range strings.Split(keywords, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			raw = append(raw, kw)
		}
	}

	hashtags := hashtagPattern.FindAllStringSubmatch(doc.Text(), -1)
	for i, m := range hashtags {
		if i >= MaxTags {
			break
		}
		raw = append(raw, m[1])
	}

	seen := make(map[string]struct{}, len(raw))
	var tags []string
	for _, tag := range raw {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}

// Duration returns the first duration-like token from the visible text
// verbatim (MM:SS, Ns or "N sec"), or DefaultDuration.
func Duration(doc *goquery.Document) string {
	text := doc.Text()
	for _, pattern := range durationPatterns {
		if m := pattern.FindString(text); m != "" {
			return m
		}
	}
	return DefaultDuration
}

// TemplateID extracts the numeric template identifier from a page URL.
// Returns the empty string when no pattern matches.
func TemplateID(rawURL string) string {
	for _, pattern := range templateIDPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// VideoSource resolves the direct media URL for a rendered page. Candidates
// are tried in order of preference: a video element's src attribute, nested
// source elements, the live DOM source reported by the browser, and finally
// a regex scan of the raw markup for mp4-looking URLs. Returns the empty
// string when nothing matches.
func VideoSource(doc *goquery.Document, liveSrc, rawHTML string) string {
	var found string
	doc.Find("video").EachWithBreak(func(_ int, video *goquery.Selection) bool {
		if src := normalizeMediaURL(video.AttrOr("src", "")); src != "" {
			found = src
			return false
		}
		video.Find("source").EachWithBreak(func(_ int, source *goquery.Selection) bool {
			if src := normalizeMediaURL(source.AttrOr("src", "")); src != "" {
				found = src
				return false
			}
			return true
		})
		return found == ""
	})
	if found != "" {
		return found
	}

	if liveSrc != "" {
		return liveSrc
	}

	for _, pattern := range videoURLPatterns {
		for _, m := range pattern.FindAllStringSubmatch(rawHTML, -1) {
			candidate := m[len(m)-1]
			if strings.Contains(strings.ToLower(candidate), "mp4") {
				return candidate
			}
		}
	}
	return ""
}

// TemplateLinks harvests template detail page URLs from a rendered search
// results page, resolved against baseURL and deduplicated in document order.
func TemplateLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	for _, sel := range searchLinkSelectors {
		doc.Find(sel).Each(func(_ int, a *goquery.Selection) {
			href := a.AttrOr("href", "")
			if href == "" || !strings.Contains(href, "template-detail") {
				return
			}
			ref, err := url.Parse(href)
			if err != nil {
				return
			}
			full := base.ResolveReference(ref).String()
			if _, dup := seen[full]; dup {
				return
			}
			seen[full] = struct{}{}
			links = append(links, full)
		})
	}
	return links
}

// normalizeMediaURL accepts absolute and protocol-relative sources only.
func normalizeMediaURL(src string) string {
	switch {
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case strings.HasPrefix(src, "http"):
		return src
	}
	return ""
}
