package diag

import (
	"sync"

	"bindoc/internal/source"
)

type dedupKey struct {
	code  Code
	sev   Severity
	file  source.FileID
	start uint32
	end   uint32
	msg   string
}

// DedupReporter пропускает повторные диагностики с тем же кодом,
// severity, primary span и сообщением. Сборщик модели может прийти к
// одной и той же ссылке из разных блоков; дубли считаются в Suppressed.
type DedupReporter struct {
	mu         sync.Mutex
	next       Reporter
	seen       map[dedupKey]struct{}
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, sev: sev, file: primary.File, start: primary.Start, end: primary.End, msg: msg}
	r.mu.Lock()
	_, dup := r.seen[key]
	if dup {
		r.suppressed++
	} else {
		r.seen[key] = struct{}{}
	}
	r.mu.Unlock()
	if !dup && r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Suppressed returns how many reports were dropped as duplicates.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.suppressed
}
