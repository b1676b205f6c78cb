// Package catalog tracks the public archive of extracted lightcurves: per-
// galaxy filename indexes, coordinate search across them, and raw lightcurve
// downloads. Indexes are synced once to local CSVs and read from disk after
// that.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fluxlc/fluxlc/internal/coords"
)

// The archive is split across two repositories; a galaxy's group decides
// which one serves its lightcurves.
var (
	groupOne = []string{
		"M101", "M104", "M31", "M49", "M74", "M81", "M83", "M84", "M87",
		"NGC1399", "NGC5128", "NGC6946", "LMC", "SMC",
	}
	groupTwo = []string{"M51", "NGC4736", "NGC1313", "M82", "M33"}
)

// Default archive endpoints.
const (
	DefaultIndexURL = "https://raw.githubusercontent.com/sammarth-k/Chandra-Lightcurve-Download/main/file_dbs"
	DefaultDataURL  = "https://raw.githubusercontent.com/sammarth-k/CXO-lightcurves%d/main"
)

var (
	// ErrUnknownGalaxy is returned for a galaxy outside the archive.
	ErrUnknownGalaxy = errors.New("catalog: unknown galaxy")

	// ErrFileNotFound is returned when a filename is in no galaxy index.
	ErrFileNotFound = errors.New("catalog: file not in any galaxy index")
)

// DefaultGalaxies returns every galaxy with extracted lightcurves.
func DefaultGalaxies() []string {
	out := make([]string, 0, len(groupOne)+len(groupTwo))
	out = append(out, groupOne...)
	out = append(out, groupTwo...)
	return out
}

// Client reads and downloads from the lightcurve archive.
type Client struct {
	indexURL string
	dataURL  string
	dir      string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithIndexURL overrides the index endpoint, mainly for tests.
func WithIndexURL(url string) Option {
	return func(c *Client) { c.indexURL = url }
}

// WithDataURL overrides the lightcurve data endpoint. The string is a format
// template receiving the repository group number.
func WithDataURL(url string) Option {
	return func(c *Client) { c.dataURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a catalog client storing galaxy indexes under dir.
func New(dir string, opts ...Option) (*Client, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("catalog: create %s: %w", dir, err)
	}

	c := &Client{
		indexURL: DefaultIndexURL,
		dataURL:  DefaultDataURL,
		dir:      dir,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SyncIndex downloads the index CSV of every galaxy that is not yet on disk.
// It returns the number of indexes fetched.
func (c *Client) SyncIndex(ctx context.Context) (int, error) {
	fetched := 0
	for _, galaxy := range DefaultGalaxies() {
		path := c.indexPath(galaxy)
		if _, err := os.Stat(path); err == nil {
			continue
		}

		url := fmt.Sprintf("%s/%s.csv", c.indexURL, galaxy)
		body, err := c.get(ctx, url)
		if err != nil {
			return fetched, fmt.Errorf("catalog: sync %s: %w", galaxy, err)
		}
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return fetched, fmt.Errorf("catalog: write %s index: %w", galaxy, err)
		}
		fetched++
	}
	return fetched, nil
}

// Files returns the lightcurve filenames of one galaxy, read from its local
// index.
func (c *Client) Files(galaxy string) ([]string, error) {
	if groupOf(galaxy) == 0 {
		return nil, ErrUnknownGalaxy
	}

	f, err := os.Open(c.indexPath(galaxy))
	if err != nil {
		return nil, fmt.Errorf("catalog: %s index not synced: %w", galaxy, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var files []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s index: %w", galaxy, err)
		}
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		files = append(files, strings.TrimSpace(record[0]))
	}
	return files, nil
}

// AllFiles returns the filenames of every synced galaxy.
func (c *Client) AllFiles() ([]string, error) {
	var files []string
	for _, galaxy := range DefaultGalaxies() {
		galaxyFiles, err := c.Files(galaxy)
		if err != nil {
			// Unsynced galaxies are skipped rather than failing the walk.
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		files = append(files, galaxyFiles...)
	}
	return files, nil
}

// GalaxyOf returns the galaxy whose index contains the filename.
func (c *Client) GalaxyOf(filename string) (string, error) {
	filename = filepath.Base(filename)
	for _, galaxy := range DefaultGalaxies() {
		files, err := c.Files(galaxy)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f == filename {
				return galaxy, nil
			}
		}
	}
	return "", ErrFileNotFound
}

// Search returns the archive files whose source position lies within the
// coordinate match window of the given J2000 coordinates. Files whose names
// do not parse are skipped.
func (c *Client) Search(coordinates string) ([]string, error) {
	if _, _, err := coords.ToDegrees(coordinates); err != nil {
		return nil, err
	}

	files, err := c.AllFiles()
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, file := range files {
		ok, err := coords.Match(file, coordinates)
		if err != nil {
			continue
		}
		if ok {
			matches = append(matches, file)
		}
	}
	return matches, nil
}

// DownloadResult reports one batch download.
type DownloadResult struct {
	BatchID    string   `json:"batch_id"`
	Downloaded []string `json:"downloaded"`
	Failed     []string `json:"failed"`
	Bytes      int64    `json:"bytes"`
}

// Download fetches raw lightcurves into dir and reports the batch outcome.
// Files that cannot be resolved or fetched are recorded as failed rather than
// aborting the batch.
func (c *Client) Download(ctx context.Context, filenames []string, dir string) (*DownloadResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("catalog: create %s: %w", dir, err)
	}

	result := &DownloadResult{BatchID: uuid.New().String()}
	for _, filename := range filenames {
		galaxy, err := c.GalaxyOf(filename)
		if err != nil {
			result.Failed = append(result.Failed, filename)
			continue
		}

		url := fmt.Sprintf(c.dataURL, groupOf(galaxy))
		url = fmt.Sprintf("%s/%s/textfiles/%s", url, galaxy, filename)

		body, err := c.get(ctx, url)
		if err != nil {
			result.Failed = append(result.Failed, filename)
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, filename), body, 0o644); err != nil {
			result.Failed = append(result.Failed, filename)
			continue
		}

		result.Downloaded = append(result.Downloaded, filename)
		result.Bytes += int64(len(body))
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) indexPath(galaxy string) string {
	return filepath.Join(c.dir, galaxy+".csv")
}

// groupOf returns the repository group of a galaxy, or 0 if unknown.
func groupOf(galaxy string) int {
	for _, g := range groupOne {
		if g == galaxy {
			return 1
		}
	}
	for _, g := range groupTwo {
		if g == galaxy {
			return 2
		}
	}
	return 0
}
