package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/tanbq/tweetpdf/internal/app/models"
	"github.com/tanbq/tweetpdf/internal/utils/logger"
	"go.uber.org/zap"
)

//go:embed templates/template.html
var templateFS embed.FS

const timestampLayout = "2006-01-02 15:04:05"

type pageData struct {
	Title       string
	GeneratedAt string
	FontFaces   []fontFaceView
	Posts       []postView
}

// fontFaceView and postView carry template.URL so the file:// references to
// cached media and fonts survive html/template's URL filtering.
type fontFaceView struct {
	Family string
	Src    template.URL
	Format string
}

type postView struct {
	ID         string
	CreatedAt  string
	TextHTML   template.HTML
	URL        string
	MediaFiles []template.URL
}

// HTML renders the export document for the given posts and font faces.
func HTML(posts []*models.Post, faces []models.FontFace, title string) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/template.html")
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	data := pageData{
		Title:       title,
		GeneratedAt: time.Now().Format(timestampLayout),
		FontFaces:   make([]fontFaceView, 0, len(faces)),
		Posts:       make([]postView, 0, len(posts)),
	}
	for _, face := range faces {
		data.FontFaces = append(data.FontFaces, fontFaceView{
			Family: face.Family,
			Src:    template.URL(face.Src),
			Format: face.Format,
		})
	}
	for _, post := range posts {
		view := postView{
			ID:        post.ID,
			CreatedAt: post.CreatedAt.Format(timestampLayout),
			TextHTML:  textToHTML(post.Text),
			URL:       post.URL,
		}
		for _, mediaFile := range post.MediaFiles {
			view.MediaFiles = append(view.MediaFiles, template.URL(mediaFile))
		}
		data.Posts = append(data.Posts, view)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// WritePDF lays the rendered HTML out as a PDF at outPath. Local file access
// is enabled so the document can reference the cached media and fonts.
func WritePDF(html, outPath string) error {
	const funcName = "render.WritePDF"

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return fmt.Errorf("init wkhtmltopdf: %w", err)
	}
	pdfg.Dpi.Set(96)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := pdfg.WriteFile(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	logger.Info("pdf written",
		zap.String("function", funcName),
		zap.String("path", outPath),
		zap.Int("bytes", pdfg.Buffer().Len()),
	)

	return nil
}

// textToHTML escapes the post text and turns line breaks into <br> so the
// template can interpolate it verbatim.
func textToHTML(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\r", "\n")
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")

	return template.HTML(escaped)
}
