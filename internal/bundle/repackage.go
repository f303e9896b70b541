package bundle

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Fixed member names the edge runtime expects inside a repackaged bundle.
const (
	ParamsName = "model-0000.params"
	SymbolName = "model-symbol.json"
)

// ErrMissingArtifact reports a bundle that lacks the parameters blob or the
// network-topology descriptor.
var ErrMissingArtifact = errors.New("bundle missing required artifact")

// Repackage reads a trained model.tar.gz, renames the parameters blob and the
// symbol descriptor to the fixed names the edge runtime loads, and writes a
// fresh tar.gz to outPath. The member contents pass through untouched.
func Repackage(srcPath, outPath string) error {
	members, err := extract(srcPath)
	if err != nil {
		return err
	}
	defer func() {
		for _, m := range members {
			os.Remove(m.tempPath)
		}
	}()

	var params, symbol *member
	for i := range members {
		base := filepath.Base(members[i].name)
		switch {
		case strings.HasSuffix(base, "-symbol.json"):
			symbol = &members[i]
		case strings.HasSuffix(base, ".params"):
			params = &members[i]
		}
	}
	if params == nil {
		return fmt.Errorf("%w: no *.params in %q", ErrMissingArtifact, srcPath)
	}
	if symbol == nil {
		return fmt.Errorf("%w: no *-symbol.json in %q", ErrMissingArtifact, srcPath)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("bundle: create output dir: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("bundle: create %q: %w", outPath, err)
	}
	defer out.Close()

	gw := gzip.NewWriter(out)
	tw := tar.NewWriter(gw)

	if err := writeMember(tw, ParamsName, params.tempPath); err != nil {
		return err
	}
	if err := writeMember(tw, SymbolName, symbol.tempPath); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("bundle: finalize tar: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("bundle: finalize gzip: %w", err)
	}
	return nil
}

type member struct {
	name     string
	tempPath string
}

func extract(srcPath string) ([]member, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return nil, fmt.Errorf("bundle: open %q: %w", srcPath, err)
	}
	defer src.Close()

	gr, err := gzip.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("bundle: read gzip %q: %w", srcPath, err)
	}
	defer gr.Close()

	tempDir, err := os.MkdirTemp("", "trainyard-bundle-")
	if err != nil {
		return nil, fmt.Errorf("bundle: create temp dir: %w", err)
	}

	var members []member
	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return members, fmt.Errorf("bundle: read tar %q: %w", srcPath, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		tempPath := filepath.Join(tempDir, fmt.Sprintf("member-%d", len(members)))
		f, err := os.Create(tempPath)
		if err != nil {
			return members, fmt.Errorf("bundle: extract member: %w", err)
		}
		if _, err := io.Copy(f, tr); err != nil {
			f.Close()
			return members, fmt.Errorf("bundle: extract %q: %w", hdr.Name, err)
		}
		if err := f.Close(); err != nil {
			return members, fmt.Errorf("bundle: extract %q: %w", hdr.Name, err)
		}
		members = append(members, member{name: hdr.Name, tempPath: tempPath})
	}
	return members, nil
}

func writeMember(tw *tar.Writer, name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("bundle: stat member: %w", err)
	}
	hdr := &tar.Header{
		Name: name,
		Mode: 0o644,
		Size: info.Size(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("bundle: write header %q: %w", name, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("bundle: open member: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("bundle: write member %q: %w", name, err)
	}
	return nil
}
