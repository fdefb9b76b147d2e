package pattern

// Construct identifies the HTML construct an alternative recognizes.
type Construct uint8

const (
	ConstructUnknown Construct = iota
	ConstructDiv
	ConstructSpan
	ConstructAnchor
	ConstructImage
	ConstructInput
	ConstructHead
	ConstructHTML
	ConstructTabindex
	ConstructFrame
	ConstructStyle
	ConstructButton
	ConstructHeading
)

var constructNames = [...]string{
	ConstructUnknown:  "unknown",
	ConstructDiv:      "div",
	ConstructSpan:     "span",
	ConstructAnchor:   "anchor",
	ConstructImage:    "img",
	ConstructInput:    "input",
	ConstructHead:     "head",
	ConstructHTML:     "html",
	ConstructTabindex: "tabindex",
	ConstructFrame:    "iframe",
	ConstructStyle:    "style",
	ConstructButton:   "button",
	ConstructHeading:  "heading",
}

func (c Construct) String() string {
	if int(c) < len(constructNames) {
		return constructNames[c]
	}
	return constructNames[ConstructUnknown]
}

// attrs matches the inside of a start tag, skipping '>' within quoted values.
const attrs = `(?:"[^"]*"|'[^']*'|[^'">])*`

// Entry is one alternative of the combined pattern.
type Entry struct {
	Construct Construct
	Expr      string
}

// DefaultEntries lists the recognized constructs in priority order:
// commoner constructs first. Among matches starting at the same offset the
// earlier entry wins. Element constructs (anchor, head, button, heading)
// match the start tag only; their validators locate the element end so the
// scan still reaches markup nested inside them.
var DefaultEntries = []Entry{
	{ConstructDiv, `<div(?:\s` + attrs + `)?>`},
	{ConstructSpan, `<span(?:\s` + attrs + `)?>`},
	{ConstructAnchor, `<a(?:\s` + attrs + `)?>`},
	{ConstructImage, `<img(?:[\s/]` + attrs + `)?>`},
	{ConstructInput, `<input(?:[\s/]` + attrs + `)?>`},
	{ConstructHead, `<head(?:\s` + attrs + `)?>`},
	{ConstructHTML, `<html(?:\s` + attrs + `)?>`},
	{ConstructTabindex, `tabindex\s*=\s*(?:"[^"]*"|'[^']*'|[^\s"'>]+)`},
	{ConstructFrame, `<i?frame(?:[\s/]` + attrs + `)?>`},
	{ConstructStyle, `(?:[a-z0-9\[\]=:]+\s?|(?:(?:div|span)?[#.][a-z0-9\-_\s?:]+\s?)+)\{[^{}<]+\}`},
	{ConstructButton, `<button(?:\s` + attrs + `)?>`},
	{ConstructHeading, `<h[1-6](?:\s` + attrs + `)?>`},
}
