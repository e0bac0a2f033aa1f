// Package writer serializes node bundles into multi document yaml files, one file per node.
package writer

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"

	"github.com/cita-cloud/cita-manifests/pkg/manifest"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	k8syaml "sigs.k8s.io/yaml"
)

const documentSeparator = "---\n"

// Render returns the bundle as yaml documents in bundle order.
func Render(b *manifest.Bundle) ([]byte, error) {
	var buf bytes.Buffer
	for i, obj := range b.Objects() {
		data, err := k8syaml.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("marshal object %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteString(documentSeparator)
		}
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// Writer places rendered bundles in Dir.
type Writer struct {
	FS        afero.Fs
	Dir       string
	ChainName string
}

func New(fs afero.Fs, dir, chainName string) *Writer {
	return &Writer{FS: fs, Dir: dir, ChainName: chainName}
}

// WriteAll renders every bundle before touching the filesystem so a render failure leaves no
// partial output behind. It returns the written paths in bundle order.
func (w *Writer) WriteAll(bundles []*manifest.Bundle) ([]string, error) {
	rendered := make([][]byte, 0, len(bundles))
	for _, b := range bundles {
		data, err := Render(b)
		if err != nil {
			return nil, fmt.Errorf("render node %s: %w", b.Identity, err)
		}
		rendered = append(rendered, data)
	}

	if err := w.FS.MkdirAll(w.Dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create work dir")
	}

	paths := make([]string, 0, len(bundles))
	for i, b := range bundles {
		path := filepath.Join(w.Dir, manifest.FileName(w.ChainName, b.Identity))
		if err := afero.WriteFile(w.FS, path, rendered[i], 0644); err != nil {
			return nil, errors.Wrapf(err, "write %s", path)
		}
		logrus.Debugf("Wrote %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// Print writes every bundle to out, separated by yaml document markers.
func Print(out io.Writer, bundles []*manifest.Bundle) error {
	for i, b := range bundles {
		data, err := Render(b)
		if err != nil {
			return fmt.Errorf("render node %s: %w", b.Identity, err)
		}
		if i > 0 {
			if _, err := io.WriteString(out, documentSeparator); err != nil {
				return err
			}
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	return nil
}
