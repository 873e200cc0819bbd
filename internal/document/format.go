package document

import "strings"

// Format expands {doc[key]} placeholders in template with the document's
// field values. Unknown keys expand to the empty string, matching the
// forgiving behavior expected by --set values and importer URIs.
func Format(template string, doc *Document) string {
	var b strings.Builder
	for {
		start := strings.Index(template, "{doc[")
		if start < 0 {
			b.WriteString(template)
			return b.String()
		}
		end := strings.Index(template[start:], "]}")
		if end < 0 {
			b.WriteString(template)
			return b.String()
		}
		end += start

		b.WriteString(template[:start])
		key := template[start+len("{doc[") : end]
		b.WriteString(doc.GetString(key))
		template = template[end+len("]}"):]
	}
}
