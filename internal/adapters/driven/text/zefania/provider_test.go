package zefania

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdelmaseeh/SmartEgyBible/internal/core/domain"
)

const sample = `<?xml version="1.0" encoding="utf-8"?>
<XMLBIBLE biblename="Arabic Van Dyck">
  <BIBLEBOOK bnumber="1" bname="Genesis">
    <CHAPTER cnumber="1">
      <VERS vnumber="1">في البدء خلق الله السماوات والأرض.</VERS>
      <VERS vnumber="2">وكانت الأرض خربة وخالية</VERS>
    </CHAPTER>
  </BIBLEBOOK>
  <BIBLEBOOK bnumber="43" bname="John">
    <CHAPTER cnumber="3">
      <VERS vnumber="16">لأنه هكذا أحب الله العالم</VERS>
    </CHAPTER>
    <CHAPTER cnumber="4">
      <VERS vnumber="x">bad</VERS>
    </CHAPTER>
  </BIBLEBOOK>
</XMLBIBLE>`

func TestFetchChapter_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bible.xml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0600))
	p := New(path)

	verses, err := p.FetchChapter(context.Background(), "1", 1)

	require.NoError(t, err)
	assert.Equal(t, []domain.SourceVerse{
		{Number: 1, Text: "في البدء خلق الله السماوات والأرض."},
		{Number: 2, Text: "وكانت الأرض خربة وخالية"},
	}, verses)
}

func TestFetchChapter_SelectsBookAndChapter(t *testing.T) {
	p, err := NewFromBytes([]byte(sample))
	require.NoError(t, err)

	verses, err := p.FetchChapter(context.Background(), "43", 3)

	require.NoError(t, err)
	require.Len(t, verses, 1)
	assert.Equal(t, 16, verses[0].Number)
}

func TestFetchChapter_Missing(t *testing.T) {
	p, err := NewFromBytes([]byte(sample))
	require.NoError(t, err)

	_, err = p.FetchChapter(context.Background(), "43", 21)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetchChapter_BadVerseNumber(t *testing.T) {
	p, err := NewFromBytes([]byte(sample))
	require.NoError(t, err)

	_, err = p.FetchChapter(context.Background(), "43", 4)

	assert.ErrorIs(t, err, domain.ErrMalformed)
}

func TestFetchChapter_InvalidAddress(t *testing.T) {
	p, err := NewFromBytes([]byte(sample))
	require.NoError(t, err)

	_, err = p.FetchChapter(context.Background(), "", 1)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFetchChapter_MissingFile(t *testing.T) {
	p := New(filepath.Join(t.TempDir(), "absent.xml"))

	_, err := p.FetchChapter(context.Background(), "1", 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "zefania")
}

func TestFetchChapter_CancelledContext(t *testing.T) {
	p, err := NewFromBytes([]byte(sample))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.FetchChapter(ctx, "1", 1)

	assert.ErrorIs(t, err, context.Canceled)
}
