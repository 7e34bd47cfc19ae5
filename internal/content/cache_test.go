package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListingCache_EmptyNeverStored(t *testing.T) {
	c := NewListingCache()
	c.SetAlbums(nil)
	c.SetAlbums([]string{})
	c.SetTracks("jazz", nil)

	_, ok := c.Albums()
	assert.False(t, ok)
	_, ok = c.Tracks("jazz")
	assert.False(t, ok)
}

func TestListingCache_KeepsOrderAndIsolatesCallers(t *testing.T) {
	c := NewListingCache()
	input := []string{"b.mp3", "a.mp3"}
	c.SetTracks("jazz", input)
	input[0] = "changed"

	got, ok := c.Tracks("jazz")
	assert.True(t, ok)
	assert.Equal(t, []string{"b.mp3", "a.mp3"}, got)

	got[1] = "changed"
	again, _ := c.Tracks("jazz")
	assert.Equal(t, []string{"b.mp3", "a.mp3"}, again)
}
