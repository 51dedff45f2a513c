package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestExcludeSet(t *testing.T) {
	set := NewExcludeSet("desktop.ini", "", "/scans/fmerge")

	assert.True(t, set.Contains("desktop.ini", "/scans/desktop.ini"))
	assert.True(t, set.Contains("fmerge", "/scans/./fmerge"))
	assert.False(t, set.Contains("Ch1", "/scans/Ch1"))
	assert.False(t, set.Contains("", ""))
	assert.Len(t, set, 2)
}

func TestFilter_Candidates(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := NewFilter(NewExcludeSet("Thumbs"), zap.New(core))

	entries := []SourceEntry{
		{Index: 0, Name: "Ch1", Path: "/scans/Ch1", IsDir: true},
		{Index: 1, Name: "Thumbs", Path: "/scans/Thumbs", IsDir: true},
		{Index: 2, Name: "notes.txt", Path: "/scans/notes.txt"},
		{Index: 3, Name: "Ch2", Path: "/scans/Ch2", IsDir: true},
	}

	got := f.Candidates(entries)
	require.Len(t, got, 2)
	assert.Equal(t, "Ch1", got[0].Name)
	assert.Equal(t, "Ch2", got[1].Name)

	excluded := logs.FilterMessage("Skipping excluded entry").All()
	require.Len(t, excluded, 1)
	assert.Equal(t, "Thumbs", excluded[0].ContextMap()["entry"])

	skipped := logs.FilterMessage("Skipping entry").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "notes.txt", skipped[0].ContextMap()["entry"])
	assert.Contains(t, skipped[0].ContextMap()["reason"], "not a directory")
}

func TestFilter_NilDefaults(t *testing.T) {
	f := NewFilter(nil, nil)
	assert.True(t, f.IsEligible(SourceEntry{Name: "Ch1", IsDir: true}))
	assert.False(t, f.IsEligible(SourceEntry{Name: "a.png"}))
}

func TestCollect(t *testing.T) {
	sess, _ := newTestSession(t, "Ch2/c.png", "Ch1/a.png", "notes.txt")

	entries, err := Collect(sess)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, SourceEntry{Index: 0, Name: "Ch1", Path: "/scans/Ch1", IsDir: true}, entries[0])
	assert.Equal(t, SourceEntry{Index: 1, Name: "Ch2", Path: "/scans/Ch2", IsDir: true}, entries[1])
	assert.Equal(t, SourceEntry{Index: 2, Name: "notes.txt", Path: "/scans/notes.txt", IsDir: false}, entries[2])
	assert.Equal(t, entries, sess.Entries)
}

func TestCollect_MissingRoot(t *testing.T) {
	sess, _ := newTestSession(t)
	sess.Root = "/missing"

	_, err := Collect(sess)
	assert.Error(t, err)
}
