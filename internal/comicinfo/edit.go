package comicinfo

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

var declEncodingPattern = regexp.MustCompile(`(?i)^\s*<\?xml[^>]*?encoding\s*=\s*["']([^"']+)["']`)

// SetElement rewrites the text of one direct child element of the document
// root, leaving every other byte of the document untouched. When the element
// does not exist it is appended as the last child of the root. Documents in
// legacy encodings are transcoded to UTF-8 first and their declaration is
// updated accordingly.
func SetElement(doc []byte, tag, value string) ([]byte, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, errors.New("element name is required")
	}
	src, err := toUTF8(doc)
	if err != nil {
		return nil, err
	}

	escaped, err := escapeText(value)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(src))
	depth := 0
	var (
		prevOffset   int64
		elemStart    int64 = -1
		contentStart int64 = -1
	)
	for {
		before := prevOffset
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document has no root element", ErrParse)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		prevOffset = dec.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 && contentStart < 0 && t.Name.Local == tag {
				elemStart = before
				contentStart = prevOffset
			}
		case xml.EndElement:
			if depth == 2 && contentStart >= 0 && t.Name.Local == tag {
				return spliceElement(src, tag, escaped, elemStart, contentStart, before), nil
			}
			if depth == 1 {
				// Root closes without the element; append it before the end tag.
				var out bytes.Buffer
				out.Write(src[:before])
				indent := "  "
				if before > 0 && src[before-1] != '\n' {
					out.WriteByte('\n')
				}
				out.WriteString(indent)
				writeElement(&out, tag, escaped)
				out.WriteByte('\n')
				out.Write(src[before:])
				return out.Bytes(), nil
			}
			depth--
		}
	}
}

func spliceElement(src []byte, tag, escaped string, elemStart, contentStart, contentEnd int64) []byte {
	var out bytes.Buffer
	if contentEnd == contentStart && bytes.HasSuffix(bytes.TrimRight(src[elemStart:contentStart], " \t\r\n"), []byte("/>")) {
		// Self-closing element: the synthesized end token consumed no input.
		out.Write(src[:elemStart])
		writeElement(&out, tag, escaped)
		out.Write(src[contentStart:])
		return out.Bytes()
	}
	out.Write(src[:contentStart])
	out.WriteString(escaped)
	out.Write(src[contentEnd:])
	return out.Bytes()
}

func writeElement(buf *bytes.Buffer, tag, escaped string) {
	buf.WriteByte('<')
	buf.WriteString(tag)
	buf.WriteByte('>')
	buf.WriteString(escaped)
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteByte('>')
}

func escapeText(value string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(value)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toUTF8(doc []byte) ([]byte, error) {
	m := declEncodingPattern.FindSubmatchIndex(doc)
	if m == nil {
		return doc, nil
	}
	label := strings.ToLower(string(doc[m[2]:m[3]]))
	if label == "utf-8" || label == "utf8" {
		return doc, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrParse, label)
	}
	decoded, err := enc.NewDecoder().Bytes(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrParse, label, err)
	}
	// The declaration is ASCII in every supported encoding, so the label
	// offsets still hold after decoding.
	var out bytes.Buffer
	out.Write(decoded[:m[2]])
	out.WriteString("UTF-8")
	out.Write(decoded[m[3]:])
	return out.Bytes(), nil
}
