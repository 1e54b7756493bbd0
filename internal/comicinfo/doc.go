// Package comicinfo encodes and decodes the ComicInfo.xml descriptor embedded
// in chapter archives.
//
// A Descriptor always carries the same eleven fields in the same order, and
// Marshal always emits all of them (empty elements for unknown values) so
// downstream readers never see a partial document. Decoding is tolerant:
// unknown elements are ignored, legacy encodings are transcoded, and field
// values are trimmed.
package comicinfo
