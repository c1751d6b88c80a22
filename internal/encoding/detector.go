// Package encoding detects the text encoding of input logs. The case
// management system exports Shift_JIS, but hand-edited copies show up in
// EUC-JP and UTF-8 with or without a BOM, so a fixed probe order covers all
// observed variants.
package encoding

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/ymoriya/shienkiroku/internal/domain"
)

// probeLimit bounds how much of the file is decoded during detection.
const probeLimit = 32 << 10

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Encoding is one supported input text encoding.
type Encoding struct {
	Name    string
	decoder func() transform.Transformer
	bom     bool
}

func (e Encoding) String() string { return e.Name }

// NewReader wraps r so it yields UTF-8 text without a leading BOM.
func (e Encoding) NewReader(r io.Reader) io.Reader {
	if e.decoder != nil {
		return transform.NewReader(r, e.decoder())
	}
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// candidates are tried in order; the first whose probe succeeds wins.
var candidates = []Encoding{
	{Name: "shift_jis", decoder: func() transform.Transformer { return japanese.ShiftJIS.NewDecoder() }},
	{Name: "euc-jp", decoder: func() transform.Transformer { return japanese.EUCJP.NewDecoder() }},
	{Name: "utf-8-sig", bom: true},
	{Name: "utf-8"},
}

// Detect probes payload against the supported encodings and returns the
// first that decodes cleanly. Failing every probe is fatal for the run.
func Detect(payload []byte) (Encoding, error) {
	probe := payload
	truncated := false
	if len(probe) > probeLimit {
		probe = probe[:probeLimit]
		truncated = true
	}

	for _, enc := range candidates {
		if decodes(enc, probe, truncated) {
			return enc, nil
		}
	}
	return Encoding{}, domain.ErrDecode
}

// decodes reports whether probe is clean under enc. A truncated probe may
// cut a multi-byte sequence at the boundary; the cut sequence is tolerated
// rather than counted against the encoding.
func decodes(enc Encoding, probe []byte, truncated bool) bool {
	if enc.decoder != nil {
		dst := make([]byte, 3*len(probe)+utf8.UTFMax)
		nDst, _, err := enc.decoder().Transform(dst, probe, !truncated)
		if err != nil && !(truncated && errors.Is(err, transform.ErrShortSrc)) {
			return false
		}
		// x/text decoders substitute U+FFFD for unmapped byte sequences
		// instead of failing; treat any substitution as a failed probe.
		return !bytes.ContainsRune(dst[:nDst], utf8.RuneError)
	}

	body := probe
	if enc.bom {
		if !bytes.HasPrefix(body, utf8BOM) {
			return false
		}
		body = body[len(utf8BOM):]
	}
	if truncated {
		body = trimPartialRune(body)
	}
	return utf8.Valid(body)
}

// trimPartialRune drops the bytes of a multi-byte sequence cut off at the
// probe boundary.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		r, size := utf8.DecodeLastRune(b)
		if r != utf8.RuneError || size != 1 {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}
