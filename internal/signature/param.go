package signature

import (
	"fmt"
	"strings"
)

// Param is one parameter as the compactor sees it. Two parameters are the
// same parameter when both type and name are equal.
type Param struct {
	Type string
	Name string
}

func (p Param) String() string {
	if p.Name == "" {
		return p.Type
	}
	return p.Type + " " + p.Name
}

// ParseParams parses a comma separated list of `type [name]` pairs.
// An empty string is the empty overload.
func ParseParams(s string) ([]Param, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]Param, 0, len(parts))
	for i, part := range parts {
		fields := strings.Fields(part)
		switch len(fields) {
		case 1:
			out = append(out, Param{Type: fields[0]})
		case 2:
			out = append(out, Param{Type: fields[0], Name: fields[1]})
		default:
			return nil, fmt.Errorf("parameter %d: expected \"type [name]\", got %q", i+1, strings.TrimSpace(part))
		}
	}
	return out, nil
}
