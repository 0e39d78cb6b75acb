package export

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// msgpackWriter writes the model in binary form for editor plugins. Keys
// follow the yaml tags so both formats share one schema.
type msgpackWriter struct{}

func (msgpackWriter) Name() string { return "msgpack" }
func (msgpackWriter) Ext() string  { return ".msgpack" }

func (msgpackWriter) Write(w io.Writer, m *Model) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("yaml")
	enc.UseCompactInts(true)
	return enc.Encode(m)
}

// ReadMsgpack decodes a model written by the msgpack format.
func ReadMsgpack(r io.Reader) (*Model, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("yaml")
	var m Model
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}
