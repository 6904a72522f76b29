package csvsource

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tanbq/tweetpdf/internal/app/models"
)

// MediaTasks builds one acquisition task per media attachment. Destination
// names are collision-free by construction: <postID>_<NN><ext> under
// mediaDir, with the attachment index disambiguating repeats within a post.
func MediaTasks(posts []*models.Post, mediaDir string) []models.FetchTask {
	var tasks []models.FetchTask
	for _, post := range posts {
		for i, mediaURL := range post.MediaURLs {
			name := fmt.Sprintf("%s_%02d%s", post.ID, i, extFromURL(mediaURL))
			tasks = append(tasks, models.FetchTask{
				OwnerID: post.ID,
				URL:     mediaURL,
				Dest:    filepath.Join(mediaDir, name),
			})
		}
	}

	return tasks
}

// AttachMedia maps successful fetch results back onto their owning posts as
// file URIs. It runs single-threaded after the acquisition batch completes,
// so posts are never mutated concurrently.
func AttachMedia(posts []*models.Post, report *models.FetchReport) {
	byID := make(map[string]*models.Post, len(posts))
	for _, post := range posts {
		byID[post.ID] = post
	}

	for _, result := range report.Results {
		if result.Outcome.Kind != models.FetchSuccess {
			continue
		}
		post, ok := byID[result.Task.OwnerID]
		if !ok {
			continue
		}
		post.MediaFiles = append(post.MediaFiles, FileURI(result.Task.Dest))
	}
}

// FileURI converts a local path into a file:// URI usable from the rendered
// HTML.
func FileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

// extFromURL extracts a short alphanumeric extension from the URL path, or
// .bin when none is recognizable.
func extFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ".bin"
	}
	match := urlExtRe.FindStringSubmatch(parsed.Path)
	if match == nil {
		return ".bin"
	}

	return "." + strings.ToLower(match[1])
}
