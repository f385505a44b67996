package sitemap

import (
	"bytes"
	"encoding/xml"
	"time"
)

const (
	sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"
	imageNamespace   = "http://www.google.com/schemas/sitemap-image/1.1"
	newsNamespace    = "http://www.google.com/schemas/sitemap-news/0.9"
)

// Renderer writes sitemap documents. It does no filtering of its own.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) RenderIndex(rows []IndexEntry) string {
	var buf bytes.Buffer

	buf.WriteString(xml.Header)
	buf.WriteString(`<sitemapindex xmlns="` + sitemapNamespace + `">`)
	buf.WriteString("\n")

	for _, row := range rows {
		buf.WriteString("  <sitemap>\n")
		r.writeElement(&buf, "loc", row.Location, 4)
		r.writeElement(&buf, "lastmod", formatTime(row.LastModified), 4)
		buf.WriteString("  </sitemap>\n")
	}

	buf.WriteString("</sitemapindex>\n")
	return buf.String()
}

func (r *Renderer) RenderEntries(entries []*Entry) string {
	var buf bytes.Buffer

	buf.WriteString(xml.Header)
	buf.WriteString(`<urlset xmlns="` + sitemapNamespace + `" xmlns:image="` + imageNamespace +
		`" xmlns:news="` + newsNamespace + `">`)
	buf.WriteString("\n")

	for _, entry := range entries {
		r.writeEntry(&buf, entry)
	}

	buf.WriteString("</urlset>\n")
	return buf.String()
}

func (r *Renderer) writeEntry(buf *bytes.Buffer, entry *Entry) {
	buf.WriteString("  <url>\n")
	r.writeElement(buf, "loc", entry.Location(), 4)
	r.writeElement(buf, "lastmod", formatTime(entry.LastModified()), 4)

	for _, image := range entry.images {
		buf.WriteString("    <image:image>\n")
		r.writeElement(buf, "image:loc", image.Src, 6)
		r.writeElement(buf, "image:title", image.Title, 6)
		r.writeElement(buf, "image:caption", image.Alt, 6)
		buf.WriteString("    </image:image>\n")
	}

	if p, ok := entry.Publication(); ok {
		buf.WriteString("    <news:news>\n")
		buf.WriteString("      <news:publication>\n")
		r.writeElement(buf, "news:name", p.Name, 8)
		r.writeElement(buf, "news:language", p.LanguageCode, 8)
		buf.WriteString("      </news:publication>\n")
		r.writeElement(buf, "news:publication_date", formatTime(p.Time), 6)
		r.writeElement(buf, "news:title", entry.Title(), 6)
		buf.WriteString("    </news:news>\n")
	}

	buf.WriteString("  </url>\n")
}

func (r *Renderer) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

// formatTime renders W3C datetime in UTC.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
