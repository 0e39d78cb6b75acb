package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит хеш модели: H( config || file1 || file2 ... ).
// Порядок файлов должен быть детерминированным (driver сортирует пути).
func Combine(config Digest, files ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(config[:])
	for _, d := range files {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Short returns the first 12 hex digits, enough for export headers.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:6])
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}
