package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/tanbq/tweetpdf/internal/app/models"
	"github.com/tanbq/tweetpdf/internal/utils/errs"
	"github.com/tanbq/tweetpdf/internal/utils/logger"
	"go.uber.org/zap"
)

// Candidate column names recognized in TwExport-style headers, checked
// exactly first, then case-insensitively.
var (
	candCreatedAt = []string{"Created At", "created_at", "Date", "date", "Time", "time"}
	candText      = []string{"Text", "text", "Full Text", "full_text", "Content", "content"}
	candURL       = []string{"Tweet URL", "tweet_url", "URL", "url", "Link", "link"}
	candMediaURLs = []string{"media_urls", "Media URLs", "media", "images", "image_urls"}
)

var datetimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var (
	mediaSplitRe = regexp.MustCompile(`[\r\n]+|[;,]\s*`)
	unsafeIDRe   = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)
	urlExtRe     = regexp.MustCompile(`\.([A-Za-z0-9]{2,5})$`)
)

// ReadPosts parses the export CSV into posts. Rows with a blank or
// unparsable timestamp are dropped, matching the export tools that emit
// trailing junk rows.
func ReadPosts(path string) ([]*models.Post, error) {
	const funcName = "csvsource.ReadPosts"

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	colCreatedAt := pickColumn(header, candCreatedAt)
	colText := pickColumn(header, candText)
	colURL := pickColumn(header, candURL)
	colMedia := pickColumn(header, candMediaURLs)
	colID := pickColumn(header, []string{"ID", "id"})

	if colCreatedAt < 0 || colText < 0 || colURL < 0 {
		return nil, fmt.Errorf("%w: header=%v (need one of created_at/date/time, text/full_text, tweet_url/url)",
			errs.ErrMissingColumns, header)
	}

	var posts []*models.Post
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		rawWhen := strings.TrimSpace(cell(record, colCreatedAt))
		if rawWhen == "" {
			continue
		}
		createdAt, err := ParseWhen(rawWhen)
		if err != nil {
			logger.Debug("skipping row with unparsable timestamp",
				zap.String("function", funcName),
				zap.String("raw", rawWhen),
			)
			continue
		}

		postURL := strings.TrimSpace(cell(record, colURL))
		rawID := strings.TrimSpace(cell(record, colID))
		if rawID == "" {
			segments := strings.Split(strings.TrimRight(postURL, "/"), "/")
			rawID = segments[len(segments)-1]
		}

		posts = append(posts, &models.Post{
			ID:        SafeID(rawID),
			CreatedAt: createdAt,
			Text:      html.UnescapeString(cell(record, colText)),
			URL:       postURL,
			MediaURLs: ParseMediaURLs(cell(record, colMedia)),
		})
	}

	logger.Info("csv parsed",
		zap.String("function", funcName),
		zap.String("path", path),
		zap.Int("posts", len(posts)),
	)

	return posts, nil
}

// pickColumn returns the index of the first candidate present in the header,
// preferring exact matches over case-insensitive ones, or -1.
func pickColumn(header []string, candidates []string) int {
	exact := make(map[string]int, len(header))
	lower := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, ok := exact[name]; !ok {
			exact[name] = i
		}
		key := strings.ToLower(name)
		if _, ok := lower[key]; !ok {
			lower[key] = i
		}
	}

	for _, name := range candidates {
		if i, ok := exact[name]; ok {
			return i
		}
	}
	for _, name := range candidates {
		if i, ok := lower[strings.ToLower(name)]; ok {
			return i
		}
	}

	return -1
}

func cell(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return record[col]
}

// ParseWhen parses the timestamp formats seen in export CSVs, falling back to
// RFC 3339.
func ParseWhen(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unsupported datetime format: %q", raw)
}

// ParseMediaURLs splits a media cell on newlines, semicolons, and commas,
// keeping only http(s) references.
func ParseMediaURLs(cellValue string) []string {
	trimmed := strings.TrimSpace(cellValue)
	if trimmed == "" {
		return nil
	}

	var out []string
	for _, part := range mediaSplitRe.Split(trimmed, -1) {
		p := strings.TrimSpace(part)
		if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
			out = append(out, p)
		}
	}

	return out
}

// SafeID sanitizes an identifier for use in file names: only ASCII word
// characters, dots, and dashes survive, capped at 80 bytes, with a stable
// fallback. The byte cap is exact because the replacement leaves ASCII only.
func SafeID(raw string) string {
	cleaned := unsafeIDRe.ReplaceAllString(strings.TrimSpace(raw), "_")
	if len(cleaned) > 80 {
		cleaned = cleaned[:80]
	}
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return "tweet"
	}

	return cleaned
}

// FilterByRange keeps posts whose calendar day falls inside [start, end]
// inclusive. With enabled false the input is returned unchanged.
func FilterByRange(posts []*models.Post, start, end time.Time, enabled bool) []*models.Post {
	if !enabled {
		return posts
	}

	startDay := truncateToDay(start)
	endDay := truncateToDay(end)

	out := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		day := truncateToDay(post.CreatedAt)
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		out = append(out, post)
	}

	return out
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SortByDate orders posts by creation time, ascending by default. The sort is
// stable so rows sharing a timestamp keep their CSV order.
func SortByDate(posts []*models.Post, desc bool) {
	sort.SliceStable(posts, func(i, j int) bool {
		if desc {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
}
