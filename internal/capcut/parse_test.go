package capcut

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestTemplateID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "template-detail path segment",
			url:  "https://x/template-detail/foo/123456789012345",
			want: "123456789012345",
		},
		{
			name: "query parameter",
			url:  "https://www.capcut.com/templates?template_id=987654",
			want: "987654",
		},
		{
			name: "bare 19 digit path segment",
			url:  "https://www.capcut.com/t/1234567890123456789/",
			want: "1234567890123456789",
		},
		{
			name: "template path",
			url:  "https://www.capcut.com/template/8877665544",
			want: "8877665544",
		},
		{
			name: "generic long digit run",
			url:  "https://www.capcut.com/share/12345678901234567/preview",
			want: "12345678901234567",
		},
		{
			name: "no identifier",
			url:  "https://www.capcut.com/explore/trending",
			want: "",
		},
		{
			name: "digit run too short",
			url:  "https://www.capcut.com/page/123456789",
			want: "",
		},
		{
			name: "empty",
			url:  "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TemplateID(tt.url); got != tt.want {
				t.Errorf("TemplateID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestTitleFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "class hint",
			html: `<html><body><h1 class="template-title-main">Phonk Magic</h1></body></html>`,
			want: "Phonk Magic",
		},
		{
			name: "plain h1",
			html: `<html><body><h1>Viral Transition</h1></body></html>`,
			want: "Viral Transition",
		},
		{
			name: "short text skipped",
			html: `<html><body><h1>ok</h1></body></html>`,
			want: DefaultTitle,
		},
		{
			name: "no heading",
			html: `<html><body><p>nothing here</p></body></html>`,
			want: DefaultTitle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(mustDoc(t, tt.html)); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	metaDoc := mustDoc(t, `<html><head><meta name="description" content="A phonk template"></head><body></body></html>`)
	require.Equal(t, "A phonk template", Description(metaDoc))

	ogDoc := mustDoc(t, `<html><head><meta property="og:description" content="OG text"></head><body></body></html>`)
	require.Equal(t, "OG text", Description(ogDoc))

	bodyDoc := mustDoc(t, `<html><body><div class="description">Body text</div></body></html>`)
	require.Equal(t, "Body text", Description(bodyDoc))

	emptyDoc := mustDoc(t, `<html><body><p>plain</p></body></html>`)
	require.Equal(t, "", Description(emptyDoc))
}

func TestTagsCappedAndUnique(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<meta name="keywords" content="phonk, beat, phonk, , drift">
		</head><body>
		<p>#phonk #viral #edit #trend #aesthetic #capcut #more</p>
		</body></html>`)

	tags := Tags(doc)
	require.LessOrEqual(t, len(tags), MaxTags)

	seen := map[string]bool{}
	for _, tag := range tags {
		require.False(t, seen[tag], "duplicate tag %q", tag)
		seen[tag] = true
	}
	// Keywords come first.
	require.Equal(t, []string{"phonk", "beat", "drift", "viral", "edit"}, tags)
}

func TestTagsEmptyDocument(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>no tags at all</p></body></html>`)
	require.Empty(t, Tags(doc))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "minute second",
			html: `<html><body><span>Length 1:23</span></body></html>`,
			want: "1:23",
		},
		{
			name: "seconds suffix",
			html: `<html><body><span>about 15s long</span></body></html>`,
			want: "15s",
		},
		{
			name: "sec word",
			html: `<html><body><span>roughly 20 sec</span></body></html>`,
			want: "20 sec",
		},
		{
			name: "no match falls back",
			html: `<html><body><span>no timing here</span></body></html>`,
			want: DefaultDuration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Duration(mustDoc(t, tt.html)); got != tt.want {
				t.Errorf("Duration() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVideoSource(t *testing.T) {
	t.Run("video src attribute wins", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><video src="https://cdn/clip.mp4"></video></body></html>`)
		require.Equal(t, "https://cdn/clip.mp4", VideoSource(doc, "https://live/other.mp4", ""))
	})

	t.Run("protocol relative normalized", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><video src="//cdn/clip.mp4"></video></body></html>`)
		require.Equal(t, "https://cdn/clip.mp4", VideoSource(doc, "", ""))
	})

	t.Run("nested source element", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><video><source src="https://cdn/alt.mp4"></video></body></html>`)
		require.Equal(t, "https://cdn/alt.mp4", VideoSource(doc, "", ""))
	})

	t.Run("live DOM source", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><video></video></body></html>`)
		require.Equal(t, "https://live/resolved.mp4", VideoSource(doc, "https://live/resolved.mp4", ""))
	})

	t.Run("raw markup scan", func(t *testing.T) {
		doc := mustDoc(t, `<html><body></body></html>`)
		raw := `<script>var u = "https://cdn.example.com/v/abc.mp4?sig=1";</script>`
		require.Equal(t, "https://cdn.example.com/v/abc.mp4?sig=1", VideoSource(doc, "", raw))
	})

	t.Run("nothing resolves", func(t *testing.T) {
		doc := mustDoc(t, `<html><body><p>static page</p></body></html>`)
		require.Equal(t, "", VideoSource(doc, "", "<html>no media</html>"))
	})
}

func TestTemplateLinks(t *testing.T) {
	doc := mustDoc(t, `<html><body>
		<a href="/template-detail/phonk/111">one</a>
		<a href="https://www.capcut.com/template-detail/phonk/222">two</a>
		<a href="/template-detail/phonk/111">duplicate</a>
		<a href="/explore/unrelated">not a template</a>
	</body></html>`)

	links := TemplateLinks(doc, "https://www.capcut.com")
	require.Equal(t, []string{
		"https://www.capcut.com/template-detail/phonk/111",
		"https://www.capcut.com/template-detail/phonk/222",
	}, links)
}
