package cloudinary

import (
	"io"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestPublicIDNormalisesNames(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9_-]+-[0-9a-f]{8}$`)

	id := PublicID("Week 1 Cover.PNG")
	require.Regexp(t, pattern, id)
	require.Regexp(t, `^week-1-cover-`, id)

	require.Regexp(t, `^thumbnail-`, PublicID("???.png"))
	require.NotEqual(t, PublicID("cover.png"), PublicID("cover.png"))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{CloudName: "demo"}, zerolog.New(io.Discard))
	require.Error(t, err)

	store, err := New(Config{CloudName: "demo", APIKey: "key", APISecret: "secret", Folder: "/champs/thumbnails/"}, zerolog.New(io.Discard))
	require.NoError(t, err)
	require.Equal(t, "champs/thumbnails", store.folder)
}
