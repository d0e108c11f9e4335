// Package export produces the downloadable PNG and PDF forms of the rendered resume.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-forge/internal/rendering"
	"github.com/jonathan/resume-forge/internal/types"
)

// Format is an export file type
type Format string

// Export formats
const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "application/pdf"
}

// Renderer rasterizes the rendered page and wraps a raster in a one-page A4 document
type Renderer interface {
	RenderToRaster(ctx context.Context, html, background string) ([]byte, error)
	RenderToDocument(ctx context.Context, png []byte) ([]byte, error)
}

// Result is an exported file
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Export renders doc with its own design settings and converts it to format.
func Export(ctx context.Context, r Renderer, doc *types.ResumeDocument, format Format) (*Result, error) {
	_, html, err := rendering.RenderDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render resume: %w", err)
	}

	background := doc.BackgroundColor
	if background == "" {
		background = types.DefaultBackgroundColor
	}

	png, err := r.RenderToRaster(ctx, html, background)
	if err != nil {
		return nil, &Error{Message: "failed to capture resume", Cause: err}
	}

	data := png
	if format == FormatPDF {
		data, err = r.RenderToDocument(ctx, png)
		if err != nil {
			return nil, &Error{Message: "failed to build PDF", Cause: err}
		}
	}

	return &Result{
		Data:        data,
		Filename:    Filename(doc.PersonalInfo.FullName, format),
		ContentType: format.ContentType(),
	}, nil
}

// Filename returns "Resume_<Full_Name>.<ext>" with whitespace runs replaced by underscores.
func Filename(fullName string, format Format) string {
	name := strings.Join(strings.Fields(fullName), "_")
	if name == "" {
		return "Resume." + string(format)
	}
	return "Resume_" + name + "." + string(format)
}

// Error is an export failure. The resume document is never affected.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("export error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
