package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/raezil/qwant-go/qwant"
)

type renderer interface {
	Render(p *qwant.Page) error
}

func newRenderer(format string, w io.Writer, s qwant.Sanitizer) (renderer, error) {
	switch format {
	case "json":
		return jsonRenderer{w: w, sanitizer: s}, nil
	case "text", "":
		return textRenderer{w: w, sanitizer: s}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want json or text)", format)
	}
}

// jsonRenderer prints one indented JSON document per page. Without a
// sanitizer the body is printed as received.
type jsonRenderer struct {
	w         io.Writer
	sanitizer qwant.Sanitizer
}

func (r jsonRenderer) Render(p *qwant.Page) error {
	raw := []byte(p.Raw)
	if r.sanitizer != nil {
		b, err := json.Marshal(p.Envelope.Sanitize(r.sanitizer))
		if err != nil {
			return err
		}
		raw = b
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, err = fmt.Fprintln(r.w, string(raw))
		return err
	}
	_, err := fmt.Fprintln(r.w, buf.String())
	return err
}

type textRenderer struct {
	w         io.Writer
	sanitizer qwant.Sanitizer
}

func (r textRenderer) Render(p *qwant.Page) error {
	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	link := color.New(color.FgGreen).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	if r.sanitizer != nil {
		p = p.Sanitize(r.sanitizer)
	}
	for i, it := range p.Items() {
		fmt.Fprintf(r.w, "%3d. %s\n", p.Offset+i+1, title(it.Title))
		fmt.Fprintf(r.w, "     %s\n", link(it.URL))
		if it.Desc != "" {
			fmt.Fprintf(r.w, "     %s\n", it.Desc)
		}
		if src, ok := it.Source.Get(); ok {
			fmt.Fprintf(r.w, "     %s\n", faint("source: "+src))
		}
	}
	if len(p.Items()) == 0 {
		fmt.Fprintln(r.w, faint("no results"))
	}
	return nil
}
