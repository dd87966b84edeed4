package catalog

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// textImageTypes covers image formats filetype has no matcher for, since it
// only knows binary signatures.
var textImageTypes = map[string]string{
	"svg":  "image/svg+xml",
	"svgz": "image/svg+xml",
}

// MIMEType infers an image MIME type from a file name's extension. Extensions
// unknown to filetype fall back to image/<ext>.
func MIMEType(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		return "application/octet-stream"
	}
	if mime, ok := textImageTypes[ext]; ok {
		return mime
	}
	if t := filetype.GetType(ext); t != filetype.Unknown && t.MIME.Value != "" {
		return t.MIME.Value
	}
	return "image/" + ext
}

// Thumbnails returns the dataset's thumbnails as data URIs, in the order
// listed by its descriptor.
func (c *Catalog) Thumbnails(name string) ([]string, error) {
	e, ok := c.entries.ValueByKeyTry(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, name)
	}

	out := make([]string, 0, len(e.meta.Thumbnails))
	for _, fileName := range e.meta.Thumbnails {
		data, err := os.ReadFile(filepath.Join(e.dir, fileName))
		if err != nil {
			return nil, fmt.Errorf("catalog: thumbnail %s: %w", fileName, err)
		}
		out = append(out, "data:"+MIMEType(fileName)+";base64,"+base64.StdEncoding.EncodeToString(data))
	}
	return out, nil
}
