package httphandler

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/ericfisherdev/commitcheck/internal/domain/model"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// reportPage wraps a run's rendered report in a minimal HTML document,
// the same markdown GitHub shows in the posted comment.
func reportPage(run model.CheckRun) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		title := templ.EscapeString(fmt.Sprintf("%s#%d", run.RepoFullName, run.PRNumber))

		_, err := fmt.Fprintf(w,
			"<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>commitcheck %s</title></head>\n"+
				"<body>\n<h1>%s</h1>\n<p>Head <code>%s</code>, %d commits checked.</p>\n%s</body></html>\n",
			title, title, templ.EscapeString(run.HeadSHA), run.CommitCount, RenderMarkdown(run.ReportBody),
		)
		return err
	})
}

// renderReportPage renders reportPage into a string.
func renderReportPage(ctx context.Context, run model.CheckRun) (string, error) {
	var buf bytes.Buffer
	if err := reportPage(run).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
