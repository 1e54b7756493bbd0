package tagsync

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mangatag/internal/comicinfo"
	"mangatag/internal/table"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z]+)(?::(\d{1,2}))?\}`)

// ruleContext carries the values a rule can reference for one row.
type ruleContext struct {
	index int
	name  string
	row   []string
}

// validateRule checks that rule is non-empty and only references known
// placeholders.
func validateRule(rule string) error {
	if strings.TrimSpace(rule) == "" {
		return fmt.Errorf("%w: rule is empty", ErrInvalidRule)
	}
	for _, m := range placeholderPattern.FindAllStringSubmatch(rule, -1) {
		if !knownPlaceholder(m[1]) {
			return fmt.Errorf("%w: unknown placeholder {%s}", ErrInvalidRule, m[1])
		}
	}
	if strings.Count(placeholderPattern.ReplaceAllString(rule, ""), "{") > 0 {
		return fmt.Errorf("%w: unbalanced or malformed placeholder in %q", ErrInvalidRule, rule)
	}
	return nil
}

func knownPlaceholder(name string) bool {
	switch strings.ToLower(name) {
	case "index", "name":
		return true
	}
	return comicinfo.FieldIndex(name) >= 0
}

// renderRule expands placeholders. {index} is the 1-based row position,
// {name} the current file name without extension, and any field name the
// row's value. A width (":03") zero-pads integral values.
func renderRule(rule string, ctx ruleContext) string {
	return placeholderPattern.ReplaceAllStringFunc(rule, func(match string) string {
		m := placeholderPattern.FindStringSubmatch(match)
		width := 0
		if m[2] != "" {
			width, _ = strconv.Atoi(m[2])
		}
		var value string
		switch strings.ToLower(m[1]) {
		case "index":
			value = strconv.Itoa(ctx.index)
		case "name":
			value = ctx.name
		default:
			cells := table.Pad(ctx.row, table.Width)
			value = strings.TrimSpace(cells[comicinfo.FieldIndex(m[1])+1])
		}
		return zeroPad(value, width)
	})
}

func zeroPad(value string, width int) string {
	if width <= len(value) || value == "" {
		return value
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return value
		}
	}
	return strings.Repeat("0", width-len(value)) + value
}
