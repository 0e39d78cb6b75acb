package fuzztests

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

func addSourceSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, seed := range sourceSeeds {
		f.Add([]byte(seed))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все исходники C++
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".cpp", ".h", ".hpp":
		default:
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		return append([]byte(nil), src[:maxSeedBytes]...)
	}
	return bytes.Clone(src)
}

var sourceSeeds = []string{
	"",
	"/** @class Vector\n * @brief A vector.\n */\n",
	"/// @method Vector:len\n/// @return number\nint l_len(lua_State* L) { return 1; }\n",
	"/** @method A:b\n * @param number [x] Optional.\n * @overload\n * @param string s\n */\nstatic int f(L) { if (a) { return 2; } return 1; }\n",
	"/** unterminated @class X",
	"const char* s = \"/** @class NotDoc */\"; /* plain */ // @class Nope\n",
	"/**\n * @attribute Vector:x\n * @type number\n * @constant Vector.ZERO 0 zero\n * @flag Vector.ANY\n */\n",
	"\uFEFF/** @class Ünïcode\r\n * @brief Mixed\r\n */\r\n",
}

// overloadSeeds are newline separated overload lists for FuzzCompact.
var overloadSeeds = []string{
	"",
	"number x",
	"\nnumber x",
	"TypeX self\nTypeX self, number radius",
	"number x, number y\nnumber x, number y, number z\nVector v",
	"a p, b q\nb q\na p",
	strings.Join([]string{"a x, b y, c z", "a x, c z", "b y", ""}, "\n"),
}
