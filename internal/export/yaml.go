package export

import (
	"io"

	"gopkg.in/yaml.v3"
)

type yamlWriter struct{}

func (yamlWriter) Name() string { return "yaml" }
func (yamlWriter) Ext() string  { return ".yaml" }

func (yamlWriter) Write(w io.Writer, m *Model) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}
