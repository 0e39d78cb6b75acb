package extract

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrNoCaptureGroup is returned for a registration pattern that cannot
// yield a class name.
var ErrNoCaptureGroup = errors.New("registration pattern has no capture group")

// CompileRegistration compiles a registration pattern. The class name is
// taken from the group named "name", or from the first group.
func CompileRegistration(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("registration pattern: %w", err)
	}
	if re.NumSubexp() == 0 {
		return nil, fmt.Errorf("registration pattern %q: %w", pattern, ErrNoCaptureGroup)
	}
	return re, nil
}

type registration struct {
	name       string
	start, end int
}

func findRegistrations(code []byte, re *regexp.Regexp) []registration {
	if re == nil {
		return nil
	}
	group := re.SubexpIndex("name")
	if group < 0 {
		group = 1
	}
	var out []registration
	for _, m := range re.FindAllSubmatchIndex(code, -1) {
		s, e := m[2*group], m[2*group+1]
		if s < 0 || s == e {
			continue
		}
		out = append(out, registration{name: string(code[s:e]), start: s, end: e})
	}
	return out
}
