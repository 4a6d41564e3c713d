package xrechnung

import (
	"github.com/beevik/etree"
)

// newDocument starts an output document with the UTF-8 declaration. Empty
// elements keep an explicit end tag.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.WriteSettings.CanonicalEndTags = true
	return doc
}

// serialize indents with two spaces per level and returns the bytes.
func serialize(doc *etree.Document) ([]byte, error) {
	doc.Indent(2)
	return doc.WriteToBytes()
}

// leaf appends <tag>value</tag> to parent. etree escapes the five reserved
// characters with named entities, matching EscapeXML.
func leaf(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

// leafAttr is leaf with a single attribute.
func leafAttr(parent *etree.Element, tag, value, key, attrValue string) *etree.Element {
	el := leaf(parent, tag, value)
	el.CreateAttr(key, attrValue)
	return el
}

// optional appends the leaf only when value is not empty.
func optional(parent *etree.Element, tag, value string) {
	if value == "" {
		return
	}
	leaf(parent, tag, value)
}
