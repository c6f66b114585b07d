package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	texttemplate "text/template"
)

// Renderer renders a named template with vars.
type Renderer interface {
	Render(name string, vars map[string]any) (string, error)
}

type executor interface {
	Execute(w io.Writer, data any) error
}

const templateExt = ".tmpl"

// TemplateRenderer renders "*.tmpl" files from a file system, addressed by
// their path without extension, e.g. "feedback/subject". Subject templates are
// plain text; everything else is HTML-escaped.
type TemplateRenderer struct {
	templates map[string]executor
}

func NewTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	r := &TemplateRenderer{templates: map[string]executor{}}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, templateExt) {
			return nil
		}

		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(p, templateExt)
		var tpl executor
		if path.Base(name) == SubjectVar {
			tpl, err = texttemplate.New(name).Option("missingkey=zero").Parse(string(src))
		} else {
			tpl, err = htmltemplate.New(name).Option("missingkey=zero").Parse(string(src))
		}
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		r.templates[name] = tpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *TemplateRenderer) Render(name string, vars map[string]any) (string, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
