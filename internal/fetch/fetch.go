package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"mls/internal/corpus"
	"mls/internal/logging"
)

const archiveExt = ".tar.gz"

// ErrChecksum reports a downloaded archive whose MD5 digest does not match
// the published value.
var ErrChecksum = errors.New("archive checksum mismatch")

// checksums holds the published MD5 digests of the opus corpus archives.
// Languages absent from the table are downloaded without verification.
var checksums = map[string]string{
	"mls_italian_opus":    "ca5a74d7e97cc62635022719e0ef529d",
	"mls_dutch_opus":      "96658c55ef85993a56cf2efbf6f83f57",
	"mls_german_opus":     "b24a9dfd3a8dd1aeabc1341982cc4775",
	"mls_english_opus":    "60390221eec6f456611563b37f0b052c",
	"mls_portuguese_opus": "4dbd6cbdda61268e5d26c4117b0bf769",
	"mls_polish_opus":     "21f83647876c61566c96fdc6298a7b65",
}

// Options controls one fetch run.
type Options struct {
	// BaseURL is the archive host, without a trailing slash.
	BaseURL string
	// Root is the directory the language tree is unpacked into.
	Root string
	// Language names the corpus archive, e.g. "mls_italian_opus".
	Language string
	// Force unpacks over an existing language directory. Without it an
	// existing directory aborts the run untouched.
	Force bool
	// Timeout bounds the whole download; zero means no limit.
	Timeout time.Duration
	// Checksum overrides the built-in digest table when non-empty.
	Checksum string
}

// Result summarizes a fetch run.
type Result struct {
	// Skipped is true when an existing language directory was left untouched.
	Skipped bool
	// Downloaded is false when an archive already on disk was reused.
	Downloaded bool
	// ArchivePath is where the archive lives after the run.
	ArchivePath string
	// Extracted counts regular files unpacked from the archive.
	Extracted int
}

// Fetcher downloads and unpacks corpus archives.
type Fetcher struct {
	client   *http.Client
	logger   *slog.Logger
	progress io.Writer
}

// New constructs a fetcher using the default HTTP client.
func New(logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: http.DefaultClient,
		logger: logging.NewComponentLogger(logger, "fetch"),
	}
}

// WithClient swaps the HTTP client.
func (f *Fetcher) WithClient(client *http.Client) {
	f.client = client
}

// WithProgress renders a download progress bar to w.
func (f *Fetcher) WithProgress(w io.Writer) {
	f.progress = w
}

// Fetch downloads <base_url>/<language>.tar.gz if no archive is on disk,
// verifies its digest, and unpacks it under the root directory.
func (f *Fetcher) Fetch(ctx context.Context, opts Options) (*Result, error) {
	if opts.Language == "" || opts.Root == "" || opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: fetch needs a base url, root, and language", corpus.ErrConfiguration)
	}

	result := &Result{ArchivePath: filepath.Join(opts.Root, opts.Language+archiveExt)}

	languageDir := filepath.Join(opts.Root, opts.Language)
	if info, err := os.Stat(languageDir); err == nil && info.IsDir() && !opts.Force {
		f.logger.Warn("language directory already exists, leaving it untouched",
			logging.String(logging.FieldPath, languageDir))
		result.Skipped = true
		return result, nil
	}

	if err := os.MkdirAll(opts.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create root directory: %w", err)
	}

	if _, err := os.Stat(result.ArchivePath); err == nil {
		f.logger.Info("archive already on disk, skipping download",
			logging.String(logging.FieldPath, result.ArchivePath))
	} else {
		url := strings.TrimSuffix(opts.BaseURL, "/") + "/" + opts.Language + archiveExt
		if err := f.download(ctx, url, result.ArchivePath, opts); err != nil {
			return nil, err
		}
		result.Downloaded = true
	}

	extracted, err := f.extract(result.ArchivePath, opts.Root)
	if err != nil {
		return nil, err
	}
	result.Extracted = extracted

	f.logger.Info("corpus ready",
		logging.String(logging.FieldLanguage, opts.Language),
		logging.String(logging.FieldPath, languageDir),
		logging.Int("extracted", result.Extracted))

	return result, nil
}

func (f *Fetcher) download(ctx context.Context, url, archivePath string, opts Options) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	f.logger.Info("downloading archive",
		logging.String("url", url),
		logging.Int64("bytes", resp.ContentLength))

	// Stream into a uniquely named partial file so an interrupted download
	// never masquerades as a complete archive.
	staging := filepath.Join(filepath.Dir(archivePath), "."+uuid.NewString()+".partial")
	file, err := os.Create(staging)
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	defer os.Remove(staging)

	hasher := md5.New()
	bar := f.newBar(resp.ContentLength)
	_, err = io.Copy(io.MultiWriter(file, hasher), bar.proxy(resp.Body))
	bar.wait()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("finish staging file: %w", err)
	}

	want := opts.Checksum
	if want == "" {
		want = checksums[filepath.Base(strings.TrimSuffix(archivePath, archiveExt))]
	}
	if want != "" {
		got := hex.EncodeToString(hasher.Sum(nil))
		if got != want {
			return fmt.Errorf("%w: %s: got %s, want %s", ErrChecksum, filepath.Base(archivePath), got, want)
		}
	}

	if err := os.Rename(staging, archivePath); err != nil {
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}

// extract unpacks the tar.gz archive under root. Entries escaping root are
// rejected.
func (f *Fetcher) extract(archivePath, root string) (int, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return 0, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return 0, fmt.Errorf("read archive %s: %w", archivePath, err)
	}
	defer gz.Close()

	extracted := 0
	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return extracted, fmt.Errorf("read archive %s: %w", archivePath, err)
		}

		name := filepath.FromSlash(header.Name)
		if filepath.IsAbs(name) || strings.Contains(name, "..") {
			return extracted, fmt.Errorf("archive entry %q escapes extraction root", header.Name)
		}
		target := filepath.Join(root, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return extracted, fmt.Errorf("create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, reader, header.FileInfo().Mode()); err != nil {
				return extracted, err
			}
			extracted++
		}
	}
	return extracted, nil
}

func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", target, err)
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return out.Close()
}

// downloadBar wraps one mpb bar so call sites stay nil-safe.
type downloadBar struct {
	pool *mpb.Progress
	bar  *mpb.Bar
}

func (f *Fetcher) newBar(total int64) *downloadBar {
	if f.progress == nil || total <= 0 {
		return nil
	}
	pool := mpb.New(mpb.WithOutput(f.progress), mpb.WithWidth(64))
	bar := pool.AddBar(total,
		mpb.PrependDecorators(
			decor.Name("Downloading: "),
			decor.Counters(decor.SizeB1024(0), "% .1f / % .1f"),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)
	return &downloadBar{pool: pool, bar: bar}
}

func (b *downloadBar) proxy(r io.Reader) io.Reader {
	if b == nil {
		return r
	}
	return b.bar.ProxyReader(r)
}

func (b *downloadBar) wait() {
	if b == nil {
		return
	}
	b.pool.Wait()
}
