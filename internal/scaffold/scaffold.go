// Package scaffold writes new .organum source files.
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
)

const Ext = ".organum"

var ErrExists = errors.New("file already exists")

const skeleton = `\instruct {
  title: {{ .Title | trim }}
  composer: {{ .Composer | trim }}
}
# created {{ .Created | date "2006-01-02" }}

\score {
{{- range $i := until .Voices }}
  \voice {
  }
{{- end }}
}
`

var tmpl = template.Must(template.New("organum").Funcs(sprig.TxtFuncMap()).Parse(skeleton))

type Options struct {
	Title    string
	Composer string
	Voices   int
	Created  time.Time
}

// Render returns the source text of a new score. The title defaults to
// name and at least one voice is always written.
func Render(name string, opts Options) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = name
	}
	if opts.Voices < 1 {
		opts.Voices = 1
	}
	if opts.Created.IsZero() {
		opts.Created = time.Now()
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Path appends the .organum extension unless name already carries it.
func Path(name string) string {
	if strings.EqualFold(filepath.Ext(name), Ext) {
		return name
	}
	return name + Ext
}

// Create writes a new score next to dir and returns its path. It never
// overwrites an existing file.
func Create(dir, name string, opts Options) (string, error) {
	base := strings.TrimSuffix(filepath.Base(name), Ext)
	src, err := Render(base, opts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, Path(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%s: %w", path, ErrExists)
		}
		return "", err
	}
	if _, err := f.Write(src); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
