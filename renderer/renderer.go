// Package renderer turns valuation results into markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// ReviewRenderOptions holds configuration for rendering a review report.
type ReviewRenderOptions struct {
	SkipTransactions bool // Do not render the per-purchase breakdown.
}

// RenderReview renders a portfolio review to a markdown string.
func RenderReview(r *Review, opts ReviewRenderOptions) string {
	partials := map[string]string{
		"review_title":    "review_title.md",
		"review_summary":  "review_summary.md",
		"review_funds":    "review_funds.md",
		"review_warnings": "review_warnings.md",
	}

	// An empty file name results in an empty template.
	if opts.SkipTransactions {
		partials["review_transactions"] = ""
	} else {
		partials["review_transactions"] = "review_transactions.md"
	}

	return renderTemplate("review", "review.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
