package export

import (
	"encoding/xml"
	"io"
)

type xmlWriter struct{}

func (xmlWriter) Name() string { return "xml" }
func (xmlWriter) Ext() string  { return ".xml" }

func (xmlWriter) Write(w io.Writer, m *Model) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(m); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
