package distill

import "strings"

// Extractor turns an HTML document into records described by a schema.
type Extractor interface {
	Extract(html string) []Record
}

// SelectorEngine is the backend a schema is interpreted against. N is the
// backend's node handle. Every method is total: invalid selectors and
// missing attributes yield no value rather than an error.
type SelectorEngine[N any] interface {
	// Select returns the nodes matching selector relative to node,
	// in document order.
	Select(node N, selector string) []N

	// Text returns the text content of node's subtree.
	Text(node N) string

	// Attr returns the value of the named attribute of node.
	Attr(node N, name string) (string, bool)

	// HTML returns the serialized markup of node.
	HTML(node N) string
}

// ExtractRecords builds one record per node matched by the schema's base
// selector, in document order. Base fields are merged first.
func ExtractRecords[N any](engine SelectorEngine[N], root N, schema *Schema) []Record {
	bases := engine.Select(root, schema.BaseSelector)
	records := make([]Record, 0, len(bases))
	for _, base := range bases {
		rec := Record{}
		resolveFields(engine, base, schema.BaseFields, rec)
		resolveFields(engine, base, schema.Fields, rec)
		records = append(records, rec)
	}
	return records
}

func resolveFields[N any](engine SelectorEngine[N], node N, fields []Field, rec Record) {
	for i := range fields {
		if v, ok := resolveField(engine, node, &fields[i]); ok {
			rec[fields[i].Name] = v
		}
	}
}

func resolveField[N any](engine SelectorEngine[N], node N, f *Field) (any, bool) {
	switch f.Type {
	case FieldNested:
		target, ok := resolveTarget(engine, node, f.Selector)
		if !ok {
			return nil, false
		}
		sub := Record{}
		resolveFields(engine, target, f.Fields, sub)
		return sub, true
	case FieldList, FieldNestedList:
		targets := []N{node}
		if f.Selector != "" {
			targets = engine.Select(node, f.Selector)
		}
		items := make([]Record, 0, len(targets))
		for _, target := range targets {
			sub := Record{}
			resolveFields(engine, target, f.Fields, sub)
			items = append(items, sub)
		}
		return items, true
	}

	target, ok := resolveTarget(engine, node, f.Selector)
	if !ok {
		return f.Default, f.Default != nil
	}
	value, ok := leafValue(engine, target, f)
	if !ok {
		return f.Default, f.Default != nil
	}
	switch f.Transform {
	case TransformLowercase:
		value = strings.ToLower(value)
	case TransformUppercase:
		value = strings.ToUpper(value)
	}
	return value, true
}

func resolveTarget[N any](engine SelectorEngine[N], node N, selector string) (N, bool) {
	if selector == "" {
		return node, true
	}
	matches := engine.Select(node, selector)
	if len(matches) == 0 {
		var zero N
		return zero, false
	}
	return matches[0], true
}

func leafValue[N any](engine SelectorEngine[N], node N, f *Field) (string, bool) {
	switch f.Type {
	case FieldText:
		return strings.TrimSpace(engine.Text(node)), true
	case FieldAttribute:
		return engine.Attr(node, f.Attribute)
	case FieldHTML:
		return engine.HTML(node), true
	case FieldRegex:
		if f.re == nil {
			return "", false
		}
		m := f.re.FindStringSubmatch(engine.Text(node))
		switch {
		case m == nil:
			return "", false
		case len(m) > 1:
			return m[1], true
		default:
			return m[0], true
		}
	}
	return "", false
}

// StripNonXMLChars removes characters outside the XML 1.0 Char
// production. Selector engines apply it to text and attribute values so
// every backend reports the same strings.
func StripNonXMLChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r >= 0x20 && r <= 0xD7FF,
			r >= 0xE000 && r <= 0xFFFD,
			r >= 0x10000 && r <= 0x10FFFF:
			return r
		}
		return -1
	}, s)
}
