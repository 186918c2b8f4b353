package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Create открывает файл для записи. Для ".gz" и ".zst" вывод сжимается.
// Закрытие возвращённого писателя сначала завершает поток сжатия, потом файл.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать %s: %w", path, err)
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		return &compressedFile{w: gzip.NewWriter(f), f: f}, nil
	case strings.HasSuffix(path, ".zst"):
		enc, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &compressedFile{w: enc, f: f}, nil
	default:
		return f, nil
	}
}

// Open открывает файл экспорта для чтения, распаковывая ".gz" и ".zst"
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		r, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &decompressedFile{r: r, close: r.Close, f: f}, nil
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &decompressedFile{r: dec, close: func() error { dec.Close(); return nil }, f: f}, nil
	default:
		return f, nil
	}
}

type compressedFile struct {
	w io.WriteCloser
	f *os.File
}

func (c *compressedFile) Write(p []byte) (int, error) {
	return c.w.Write(p)
}

func (c *compressedFile) Close() error {
	if err := c.w.Close(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}

type decompressedFile struct {
	r     io.Reader
	close func() error
	f     *os.File
}

func (d *decompressedFile) Read(p []byte) (int, error) {
	return d.r.Read(p)
}

func (d *decompressedFile) Close() error {
	err := d.close()
	if ferr := d.f.Close(); err == nil {
		err = ferr
	}
	return err
}
