package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Section names recognized by the parser and the applier.
const (
	SectionContactInfo    = "contactInfo"
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionAwards         = "awards"
	SectionLanguages      = "languages"
	SectionInterests      = "interests"
)

// SectionNames lists every section in render order.
var SectionNames = []string{
	SectionContactInfo,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionAwards,
	SectionLanguages,
	SectionInterests,
}

// Section is one named block of resume text.
type Section struct {
	Name    string
	Content string
}

// ParsedSections is an ordered mapping from section name to content.
// Order is first appearance in the source text.
type ParsedSections []Section

// Get returns the content for name, or "" when absent.
func (p ParsedSections) Get(name string) string {
	for _, s := range p {
		if s.Name == name {
			return s.Content
		}
	}
	return ""
}

// Has reports whether name was recorded, even with empty content.
func (p ParsedSections) Has(name string) bool {
	for _, s := range p {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Names returns section names in insertion order.
func (p ParsedSections) Names() []string {
	out := make([]string, 0, len(p))
	for _, s := range p {
		out = append(out, s.Name)
	}
	return out
}

// Set replaces the content of an existing section in place or appends a new one.
func (p *ParsedSections) Set(name, content string) {
	for i := range *p {
		if (*p)[i].Name == name {
			(*p)[i].Content = content
			return
		}
	}
	*p = append(*p, Section{Name: name, Content: content})
}

// MarshalJSON encodes the sections as a JSON object preserving order.
func (p ParsedSections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := p.writeMembers(&buf, false); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p ParsedSections) writeMembers(buf *bytes.Buffer, leadingComma bool) error {
	for i, s := range p {
		if i > 0 || leadingComma {
			buf.WriteByte(',')
		}
		if err := writeMember(buf, s.Name, s.Content); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalJSON decodes a JSON object keeping member order.
func (p *ParsedSections) UnmarshalJSON(data []byte) error {
	out := ParsedSections{}
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		content, ok := sectionText(raw)
		if !ok {
			return nil
		}
		out.Set(key, content)
		return nil
	})
	if err != nil {
		return err
	}
	*p = out
	return nil
}

// ContactDetails is a structured contact overlay rendered in place of parsed contact lines.
type ContactDetails struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Location string `json:"location,omitempty"`
}

// Lines renders the non-empty contact fields one per line.
func (c ContactDetails) Lines() string {
	parts := make([]string, 0, 5)
	for _, v := range []string{c.Name, c.Email, c.Phone, c.LinkedIn, c.Location} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}

const (
	keyEnhancedSummary = "enhanced_summary"
	keyEnhancedSkills  = "enhanced_skills"
	keyContact         = "contact"
)

// AnalyzedSections is the parser output plus optional overlays. When an
// overlay is set the applier prefers it over its own re-parse.
type AnalyzedSections struct {
	Sections        ParsedSections
	EnhancedSummary string
	EnhancedSkills  []string
	Contact         *ContactDetails
}

// MarshalJSON flattens sections and overlays into one object.
func (a AnalyzedSections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := a.Sections.writeMembers(&buf, false); err != nil {
		return nil, err
	}
	needComma := len(a.Sections) > 0
	writeRaw := func(key string, value any) error {
		if needComma {
			buf.WriteByte(',')
		}
		needComma = true
		return writeMember(&buf, key, value)
	}
	if a.EnhancedSummary != "" {
		if err := writeRaw(keyEnhancedSummary, a.EnhancedSummary); err != nil {
			return nil, err
		}
	}
	if len(a.EnhancedSkills) > 0 {
		if err := writeRaw(keyEnhancedSkills, a.EnhancedSkills); err != nil {
			return nil, err
		}
	}
	if a.Contact != nil {
		if err := writeRaw(keyContact, a.Contact); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON splits overlay members from section members.
func (a *AnalyzedSections) UnmarshalJSON(data []byte) error {
	out := AnalyzedSections{Sections: ParsedSections{}}
	err := decodeObject(data, func(key string, raw json.RawMessage) error {
		switch key {
		case keyEnhancedSummary:
			if isNull(raw) {
				return nil
			}
			if err := json.Unmarshal(raw, &out.EnhancedSummary); err != nil {
				return fmt.Errorf("%s: %w", keyEnhancedSummary, err)
			}
		case keyEnhancedSkills:
			if isNull(raw) {
				return nil
			}
			if err := json.Unmarshal(raw, &out.EnhancedSkills); err != nil {
				return fmt.Errorf("%s: %w", keyEnhancedSkills, err)
			}
		case keyContact:
			if isNull(raw) {
				return nil
			}
			var contact ContactDetails
			if err := json.Unmarshal(raw, &contact); err != nil {
				return fmt.Errorf("%s: %w", keyContact, err)
			}
			out.Contact = &contact
		default:
			if content, ok := sectionText(raw); ok {
				out.Sections.Set(key, content)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	*a = out
	return nil
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("sections: expected JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("sections: expected object key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

// sectionText accepts a string or a list of strings; lists are joined with ", ".
func sectionText(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", "), true
	}
	return "", false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
