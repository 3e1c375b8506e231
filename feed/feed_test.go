package feed

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedJSON = `{"activeBuilds":[
  {"buildNumber":"1000","macDownloadUrl":"https://cdn.example.com/1000/OldApp.dmg"},
  {"buildNumber":"1050","macDownloadUrl":"https://cdn.example.com/1050/NewApp.dmg"}
]}`

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	t.Run("PlainJSON", func(t *testing.T) {
		doc, enc, err := Decode([]byte(feedJSON))
		require.NoError(t, err)
		assert.Equal(t, EncodingJSON, enc)
		assert.Len(t, doc.ActiveBuilds, 2)
	})
	t.Run("GzipJSON", func(t *testing.T) {
		doc, enc, err := Decode(gzipBytes(t, []byte(feedJSON)))
		require.NoError(t, err)
		assert.Equal(t, EncodingGzip, enc)
		assert.Len(t, doc.ActiveBuilds, 2)
	})
	t.Run("GzipAndPlainDecodeIdentically", func(t *testing.T) {
		plain, _, err := Decode([]byte(feedJSON))
		require.NoError(t, err)
		zipped, _, err := Decode(gzipBytes(t, []byte(feedJSON)))
		require.NoError(t, err)
		assert.Equal(t, plain, zipped)
	})
	t.Run("NeitherJSONNorGzip", func(t *testing.T) {
		doc, _, err := Decode([]byte("<html>not a feed</html>"))
		assert.Error(t, err)
		assert.Nil(t, doc)
	})
	t.Run("GzippedGarbage", func(t *testing.T) {
		doc, _, err := Decode(gzipBytes(t, []byte("still not json")))
		assert.Error(t, err)
		assert.Nil(t, doc)
	})
}

func TestMaxBuild(t *testing.T) {
	t.Run("NumericNotLexicographic", func(t *testing.T) {
		doc := &Document{ActiveBuilds: []BuildEntry{
			{BuildNumber: "9", MacDownloadURL: "https://cdn.example.com/9/app.dmg"},
			{BuildNumber: "10", MacDownloadURL: "https://cdn.example.com/10/app.dmg"},
		}}
		max, err := doc.MaxBuild()
		require.NoError(t, err)
		assert.Equal(t, "10", max.BuildNumber)
	})
	t.Run("OrderIndependent", func(t *testing.T) {
		doc := &Document{ActiveBuilds: []BuildEntry{
			{BuildNumber: "1050"},
			{BuildNumber: "1000"},
			{BuildNumber: "1025"},
		}}
		max, err := doc.MaxBuild()
		require.NoError(t, err)
		assert.Equal(t, "1050", max.BuildNumber)
	})
	t.Run("MaxCanLackURL", func(t *testing.T) {
		// Selection looks at build numbers only; the URL check is the
		// caller's concern.
		doc := &Document{ActiveBuilds: []BuildEntry{
			{BuildNumber: "1000", MacDownloadURL: "https://cdn.example.com/1000/app.dmg"},
			{BuildNumber: "1050"},
		}}
		max, err := doc.MaxBuild()
		require.NoError(t, err)
		assert.Equal(t, "1050", max.BuildNumber)
		assert.Empty(t, max.MacDownloadURL)
	})
	t.Run("EmptyFeed", func(t *testing.T) {
		doc := &Document{}
		_, err := doc.MaxBuild()
		assert.ErrorIs(t, err, ErrEmptyFeed)
	})
	t.Run("NonIntegerBuildNumber", func(t *testing.T) {
		doc := &Document{ActiveBuilds: []BuildEntry{{BuildNumber: "v1.2.3"}}}
		_, err := doc.MaxBuild()
		assert.Error(t, err)
	})
}

func TestNormalizeAssetURL(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "VersionedFilename",
			in:   "https://cdn.example.com/1050/NewApp.dmg",
			want: "https://cdn.example.com/1050/GoToMeeting.dmg",
		},
		{
			name: "ObfuscatedFilename",
			in:   "https://cdn.example.com/builds/g2m/8f3a9c.dmg",
			want: "https://cdn.example.com/builds/g2m/GoToMeeting.dmg",
		},
		{
			name: "AlreadyCanonical",
			in:   "https://cdn.example.com/1050/GoToMeeting.dmg",
			want: "https://cdn.example.com/1050/GoToMeeting.dmg",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeAssetURL(tc.in))
		})
	}
}
