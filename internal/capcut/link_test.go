package capcut

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeepLinkContainsIDTwice(t *testing.T) {
	const id = "987654321098765432"
	link := DeepLink(id)

	require.NotEmpty(t, link)
	require.True(t, strings.HasPrefix(link, "https://capcut-yt.onelink.me/"))
	require.Equal(t, 2, strings.Count(link, id),
		"identifier must appear once in af_dp and once in deep_link_value")
	require.NotContains(t, link, "{id}")
}

func TestDeepLinkEmptyID(t *testing.T) {
	require.Equal(t, "", DeepLink(""))
}

func TestDeepLinkDeterministic(t *testing.T) {
	require.Equal(t, DeepLink("1234567890123456"), DeepLink("1234567890123456"))
}
