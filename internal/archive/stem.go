package archive

import (
	"strings"

	"github.com/Lllllllleong/csvsplitter/internal/apperr"
)

// Stem derives the chunk file prefix from an upload name: the last path
// element with its extension removed. Browsers on Windows may send the
// full client path, so both separators are honored. A name that is only an
// extension, like ".csv", is kept whole.
func Stem(filename string) (string, error) {
	name := strings.TrimSpace(filename)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	stem := name
	if dot := strings.LastIndex(name, "."); dot > 0 && strings.Trim(name[:dot], ".") != "" {
		stem = name[:dot]
	}
	if stem == "" || stem == "." || stem == ".." {
		return "", apperr.Inputf("archive.Stem", "cannot derive a file name from %q", filename)
	}
	return stem, nil
}
