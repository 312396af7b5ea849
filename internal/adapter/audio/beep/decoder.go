package beep

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/pinkcrab/jukebox/internal/domain"
)

// decode picks the decoder from the source's file extension.
func decode(source string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(stripQuery(source))) {
	case ".mp3":
		return mp3.Decode(rc)
	case ".wav":
		return wav.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	case ".ogg", ".oga":
		return vorbis.Decode(rc)
	default:
		rc.Close()
		return nil, beep.Format{}, domain.NewOutputError("decode", source,
			fmt.Errorf("unsupported media format %q", filepath.Ext(source)))
	}
}

// stripQuery drops a URL query string so the extension check sees the path.
func stripQuery(source string) string {
	if i := strings.IndexByte(source, '?'); i >= 0 {
		return source[:i]
	}
	return source
}
