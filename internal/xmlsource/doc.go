// Package xmlsource works with descriptor files produced outside the archives,
// typically by a scraper that writes one folder per chapter:
//
//	<root>/<chapter>/ComicInfo.xml
//	<root>/<chapter>/xml/ComicInfo.xml
//
// Discover lists them as matching sources, Apply copies matched descriptors
// into archives, and Renumber sets each descriptor's Number from its folder's
// leading digits.
package xmlsource
