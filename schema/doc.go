package schema

import (
	"strings"
)

// Doc holds documentation parsed from a declaration's doc comment.
type Doc struct {
	// Summary is the first sentence of the description.
	Summary string `json:"summary,omitempty"`

	// Body is the complete description without block tags.
	Body string `json:"body,omitempty"`

	// Params maps parameter names to their @param text.
	Params map[string]string `json:"params,omitempty"`

	// Properties maps property names to their @property text.
	Properties map[string]string `json:"properties,omitempty"`

	// Return is the @return text.
	Return string `json:"return,omitempty"`

	// Deprecated is non-nil if the declaration is marked deprecated,
	// either by a "Deprecated:" paragraph or a @deprecated tag.
	Deprecated *string `json:"deprecated,omitempty"`
}

// IsZero returns true if the documentation is empty.
func (d *Doc) IsZero() bool {
	return d == nil ||
		d.Summary == "" && d.Body == "" && d.Return == "" &&
			len(d.Params) == 0 && len(d.Properties) == 0 && d.Deprecated == nil
}

// ParseDoc parses doc comment text. Leading "*" decorations are removed,
// so both Go comments and Javadoc/KDoc blocks are accepted.
// Returns nil for blank text.
func ParseDoc(text string) *Doc {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	doc := &Doc{}
	var body []string
	var tag, tagArg string
	var tagText []string

	flush := func() {
		if tag == "" {
			return
		}
		value := strings.TrimSpace(strings.Join(tagText, "\n"))
		switch tag {
		case "param":
			if doc.Params == nil {
				doc.Params = make(map[string]string)
			}
			doc.Params[tagArg] = value
		case "property":
			if doc.Properties == nil {
				doc.Properties = make(map[string]string)
			}
			doc.Properties[tagArg] = value
		case "return":
			doc.Return = value
		case "deprecated":
			doc.Deprecated = &value
		}
		tag, tagArg, tagText = "", "", nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))

		if strings.HasPrefix(line, "@") {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				continue
			}
			tag = fields[0]
			rest := fields[1:]
			if (tag == "param" || tag == "property") && len(rest) > 0 {
				tagArg, rest = rest[0], rest[1:]
			}
			tagText = []string{strings.Join(rest, " ")}
			continue
		}
		if tag != "" {
			tagText = append(tagText, line)
			continue
		}
		if msg, ok := strings.CutPrefix(line, "Deprecated:"); ok {
			msg = strings.TrimSpace(msg)
			doc.Deprecated = &msg
			continue
		}
		body = append(body, line)
	}
	flush()

	doc.Body = strings.TrimSpace(strings.Join(body, "\n"))
	doc.Summary = summary(doc.Body)
	return doc
}

// summary returns the first sentence of the first paragraph.
func summary(body string) string {
	para, _, _ := strings.Cut(body, "\n\n")
	para = strings.Join(strings.Fields(para), " ")
	if i := strings.Index(para, ". "); i >= 0 {
		return para[:i+1]
	}
	return para
}
