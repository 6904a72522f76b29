package csvsource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanbq/tweetpdf/internal/app/models"
	"github.com/tanbq/tweetpdf/internal/utils/errs"
	"github.com/tanbq/tweetpdf/internal/utils/logger"
)

func TestMain(m *testing.M) {
	logger.InitTestLogger()
	m.Run()
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadPosts(t *testing.T) {
	csv := "Created At,Text,Tweet URL,media_urls,ID\n" +
		"2023-05-01 10:30:00,hello &amp; goodbye,https://x.com/u/status/111,https://pbs.twimg.com/a.jpg;https://pbs.twimg.com/b.png,111\n" +
		"2023-05-02,second post,https://x.com/u/status/222,,222\n" +
		",ignored: blank timestamp,https://x.com/u/status/333,,333\n" +
		"not-a-date,ignored: bad timestamp,https://x.com/u/status/444,,444\n"

	posts, err := ReadPosts(writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, posts, 2)

	first := posts[0]
	assert.Equal(t, "111", first.ID)
	assert.Equal(t, time.Date(2023, 5, 1, 10, 30, 0, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, "hello & goodbye", first.Text, "entities are unescaped on read")
	assert.Equal(t, []string{"https://pbs.twimg.com/a.jpg", "https://pbs.twimg.com/b.png"}, first.MediaURLs)

	second := posts[1]
	assert.Equal(t, "222", second.ID)
	assert.Empty(t, second.MediaURLs)
}

func TestReadPostsSniffsAlternateHeaders(t *testing.T) {
	csv := "\uFEFFdate,content,link\n" +
		"2023-01-15,some text,https://x.com/u/status/987654\n"

	posts, err := ReadPosts(writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "987654", posts[0].ID, "ID falls back to the last URL segment")
}

func TestReadPostsCaseInsensitiveHeaderFallback(t *testing.T) {
	csv := "CREATED_AT,TEXT,URL\n" +
		"2023-01-15 08:00,hi,https://x.com/u/status/5\n"

	posts, err := ReadPosts(writeCSV(t, csv))
	require.NoError(t, err)
	require.Len(t, posts, 1)
}

func TestReadPostsMissingColumns(t *testing.T) {
	csv := "foo,bar\n1,2\n"

	_, err := ReadPosts(writeCSV(t, csv))
	assert.ErrorIs(t, err, errs.ErrMissingColumns)
}

func TestParseWhen(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{
			name: "dateTimeSeconds",
			raw:  "2023-05-01 10:30:45",
			want: time.Date(2023, 5, 1, 10, 30, 45, 0, time.UTC),
		},
		{
			name: "dateTimeMinutes",
			raw:  "2023-05-01 10:30",
			want: time.Date(2023, 5, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name: "dateOnly",
			raw:  "2023-05-01",
			want: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "rfc3339Fallback",
			raw:  "2023-05-01T10:30:45Z",
			want: time.Date(2023, 5, 1, 10, 30, 45, 0, time.UTC),
		},
		{
			name:    "unsupported",
			raw:     "May 1st 2023",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWhen(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
		})
	}
}

func TestParseMediaURLs(t *testing.T) {
	tests := []struct {
		name     string
		cell     string
		expected []string
	}{
		{
			name:     "semicolonSeparated",
			cell:     "https://a.com/1.jpg;https://a.com/2.jpg",
			expected: []string{"https://a.com/1.jpg", "https://a.com/2.jpg"},
		},
		{
			name:     "commaAndNewlines",
			cell:     "https://a.com/1.jpg, https://a.com/2.jpg\nhttps://a.com/3.jpg",
			expected: []string{"https://a.com/1.jpg", "https://a.com/2.jpg", "https://a.com/3.jpg"},
		},
		{
			name:     "nonHTTPDropped",
			cell:     "ftp://a.com/1.jpg;https://a.com/2.jpg;javascript:alert(1)",
			expected: []string{"https://a.com/2.jpg"},
		},
		{
			name:     "empty",
			cell:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMediaURLs(tt.cell))
		})
	}
}

func TestSafeID(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "plainDigits",
			raw:      "1234567890",
			expected: "1234567890",
		},
		{
			name:     "specialsReplaced",
			raw:      "abc/def?x=1",
			expected: "abc_def_x_1",
		},
		{
			name:     "edgesTrimmed",
			raw:      "..abc..",
			expected: "abc",
		},
		{
			name:     "emptyFallsBack",
			raw:      "",
			expected: "tweet",
		},
		{
			name:     "onlySpecialsFallsBack",
			raw:      "///",
			expected: "tweet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeID(tt.raw))
		})
	}
}

func TestFilterByRange(t *testing.T) {
	posts := []*models.Post{
		{ID: "1", CreatedAt: time.Date(2023, 1, 1, 23, 59, 0, 0, time.UTC)},
		{ID: "2", CreatedAt: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
		{ID: "3", CreatedAt: time.Date(2023, 12, 31, 0, 1, 0, 0, time.UTC)},
	}

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)

	filtered := FilterByRange(posts, start, end, true)
	require.Len(t, filtered, 2)
	assert.Equal(t, "1", filtered[0].ID, "boundary day is inclusive")
	assert.Equal(t, "2", filtered[1].ID)

	unfiltered := FilterByRange(posts, time.Time{}, time.Time{}, false)
	assert.Len(t, unfiltered, 3)
}

func TestSortByDate(t *testing.T) {
	posts := []*models.Post{
		{ID: "b", CreatedAt: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "a", CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "c", CreatedAt: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	SortByDate(posts, false)
	assert.Equal(t, []string{"a", "b", "c"}, []string{posts[0].ID, posts[1].ID, posts[2].ID})

	SortByDate(posts, true)
	assert.Equal(t, []string{"c", "b", "a"}, []string{posts[0].ID, posts[1].ID, posts[2].ID})
}

func TestMediaTasks(t *testing.T) {
	posts := []*models.Post{
		{ID: "111", MediaURLs: []string{"https://pbs.twimg.com/a.jpg", "https://pbs.twimg.com/b"}},
		{ID: "222", MediaURLs: []string{"https://pbs.twimg.com/c.PNG"}},
		{ID: "333"},
	}

	tasks := MediaTasks(posts, "/cache/media")
	require.Len(t, tasks, 3)

	assert.Equal(t, "111", tasks[0].OwnerID)
	assert.Equal(t, filepath.Join("/cache/media", "111_00.jpg"), tasks[0].Dest)
	assert.Equal(t, filepath.Join("/cache/media", "111_01.bin"), tasks[1].Dest, "no extension falls back to .bin")
	assert.Equal(t, filepath.Join("/cache/media", "222_00.png"), tasks[2].Dest, "extension is lowercased")
}

func TestAttachMedia(t *testing.T) {
	posts := []*models.Post{
		{ID: "111"},
		{ID: "222"},
	}
	report := &models.FetchReport{
		Results: []models.FetchResult{
			{
				Task:    models.FetchTask{OwnerID: "111", Dest: "/cache/media/111_00.jpg"},
				Outcome: models.FetchOutcome{Kind: models.FetchSuccess},
			},
			{
				Task:    models.FetchTask{OwnerID: "111", Dest: "/cache/media/111_01.jpg"},
				Outcome: models.FetchOutcome{Kind: models.FetchPermanent, Reason: "http 404"},
			},
			{
				Task:    models.FetchTask{OwnerID: "222", Dest: "/cache/media/222_00.jpg"},
				Outcome: models.FetchOutcome{Kind: models.FetchSuccess, Cached: true},
			},
		},
	}

	AttachMedia(posts, report)

	require.Len(t, posts[0].MediaFiles, 1)
	assert.Contains(t, posts[0].MediaFiles[0], "file://")
	assert.Contains(t, posts[0].MediaFiles[0], "111_00.jpg")
	assert.Len(t, posts[1].MediaFiles, 1, "cache hits count as successes")
}
