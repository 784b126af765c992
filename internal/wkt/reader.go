package wkt

import (
	"bufio"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/woozymasta/geocore/internal/geo"
)

// ReadAll decodes one geometry per line of r. Blank lines and lines
// starting with # are skipped.
func ReadAll(r io.Reader, opts ...Option) ([]geo.Geometry, error) {
	var out []geo.Geometry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64<<20)

	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		g, err := Decode(text, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		out = append(out, g)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read wkt")
	}
	return out, nil
}
