package comicinfo

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// ErrParse reports a malformed descriptor document.
var ErrParse = errors.New("malformed ComicInfo document")

// document mirrors the serialized element order. Fields are never omitted.
type document struct {
	XMLName                   xml.Name `xml:"ComicInfo"`
	Title                     string   `xml:"Title"`
	Series                    string   `xml:"Series"`
	Number                    string   `xml:"Number"`
	Summary                   string   `xml:"Summary"`
	Writer                    string   `xml:"Writer"`
	Genre                     string   `xml:"Genre"`
	Web                       string   `xml:"Web"`
	PublishingStatusTachiyomi string   `xml:"PublishingStatusTachiyomi"`
	SourceMihon               string   `xml:"SourceMihon"`
	PublicationYear           string   `xml:"PublicationYear"`
	PublicationMonth          string   `xml:"PublicationMonth"`
}

// incoming accepts any root element name.
type incoming struct {
	Title                     string `xml:"Title"`
	Series                    string `xml:"Series"`
	Number                    string `xml:"Number"`
	Summary                   string `xml:"Summary"`
	Writer                    string `xml:"Writer"`
	Genre                     string `xml:"Genre"`
	Web                       string `xml:"Web"`
	PublishingStatusTachiyomi string `xml:"PublishingStatusTachiyomi"`
	SourceMihon               string `xml:"SourceMihon"`
	PublicationYear           string `xml:"PublicationYear"`
	PublicationMonth          string `xml:"PublicationMonth"`
}

// Marshal serializes d as an indented UTF-8 document with an XML declaration.
// Field values are trimmed; all eleven elements are always written.
func Marshal(d Descriptor) ([]byte, error) {
	d = d.Trimmed()
	doc := document{
		Title:                     d.Title,
		Series:                    d.Series,
		Number:                    d.Number,
		Summary:                   d.Summary,
		Writer:                    d.Writer,
		Genre:                     d.Genre,
		Web:                       d.Web,
		PublishingStatusTachiyomi: d.PublishingStatusTachiyomi,
		SourceMihon:               d.SourceMihon,
		PublicationYear:           d.PublicationYear,
		PublicationMonth:          d.PublicationMonth,
	}
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal ComicInfo: %w", err)
	}
	var buf bytes.Buffer
	buf.Grow(len(xml.Header) + len(body) + 1)
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Unmarshal decodes a descriptor document. Unknown elements are ignored and
// values are trimmed. Any decoding failure wraps ErrParse.
func Unmarshal(data []byte) (Descriptor, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Descriptor{}, fmt.Errorf("%w: empty document", ErrParse)
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader
	var in incoming
	if err := dec.Decode(&in); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	d := Descriptor{
		Title:                     in.Title,
		Series:                    in.Series,
		Number:                    in.Number,
		Summary:                   in.Summary,
		Writer:                    in.Writer,
		Genre:                     in.Genre,
		Web:                       in.Web,
		PublishingStatusTachiyomi: in.PublishingStatusTachiyomi,
		SourceMihon:               in.SourceMihon,
		PublicationYear:           in.PublicationYear,
		PublicationMonth:          in.PublicationMonth,
	}
	return d.Trimmed(), nil
}

// ReadFile decodes a standalone descriptor file.
func ReadFile(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, err
	}
	return Unmarshal(data)
}

// ReadTitle returns the trimmed Title of a standalone descriptor file.
func ReadTitle(path string) (string, error) {
	d, err := ReadFile(path)
	if err != nil {
		return "", err
	}
	return d.Title, nil
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" || label == "utf-8" || label == "utf8" {
		return input, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
