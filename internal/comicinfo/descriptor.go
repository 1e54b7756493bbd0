package comicinfo

import (
	"strings"
)

// EntryName is the canonical archive entry name of the descriptor.
const EntryName = "ComicInfo.xml"

// FieldNames lists descriptor element names in serialization order.
var FieldNames = []string{
	"Title",
	"Series",
	"Number",
	"Summary",
	"Writer",
	"Genre",
	"Web",
	"PublishingStatusTachiyomi",
	"SourceMihon",
	"PublicationYear",
	"PublicationMonth",
}

// FieldCount is the number of descriptor fields.
const FieldCount = 11

// Descriptor is the per-chapter metadata record. Every field is present;
// an empty string means unknown.
type Descriptor struct {
	Title                     string
	Series                    string
	Number                    string
	Summary                   string
	Writer                    string
	Genre                     string
	Web                       string
	PublishingStatusTachiyomi string
	SourceMihon               string
	PublicationYear           string
	PublicationMonth          string
}

func (d *Descriptor) fields() [FieldCount]*string {
	return [FieldCount]*string{
		&d.Title,
		&d.Series,
		&d.Number,
		&d.Summary,
		&d.Writer,
		&d.Genre,
		&d.Web,
		&d.PublishingStatusTachiyomi,
		&d.SourceMihon,
		&d.PublicationYear,
		&d.PublicationMonth,
	}
}

// Values returns the field values in FieldNames order.
func (d Descriptor) Values() []string {
	out := make([]string, 0, FieldCount)
	for _, p := range d.fields() {
		out = append(out, *p)
	}
	return out
}

// FromValues builds a descriptor from values in FieldNames order. Missing
// trailing values are empty and surplus values are ignored.
func FromValues(values []string) Descriptor {
	var d Descriptor
	for i, p := range d.fields() {
		if i < len(values) {
			*p = values[i]
		}
	}
	return d
}

// Get returns the value of the named field (case-insensitive).
func (d Descriptor) Get(name string) (string, bool) {
	idx := FieldIndex(name)
	if idx < 0 {
		return "", false
	}
	return *d.fields()[idx], true
}

// Set assigns the named field (case-insensitive) and reports whether the
// field exists.
func (d *Descriptor) Set(name, value string) bool {
	idx := FieldIndex(name)
	if idx < 0 {
		return false
	}
	*d.fields()[idx] = value
	return true
}

// FieldIndex returns the position of name in FieldNames or -1.
func FieldIndex(name string) int {
	name = strings.TrimSpace(name)
	for i, f := range FieldNames {
		if strings.EqualFold(f, name) {
			return i
		}
	}
	return -1
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (d Descriptor) Trimmed() Descriptor {
	for _, p := range d.fields() {
		*p = strings.TrimSpace(*p)
	}
	return d
}

// IsEmpty reports whether every field is empty.
func (d Descriptor) IsEmpty() bool {
	for _, p := range d.fields() {
		if *p != "" {
			return false
		}
	}
	return true
}
