package geo

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sells-group/suburb-cli/internal/fetcher"
	"github.com/sells-group/suburb-cli/internal/model"
)

// Format names a dataset encoding.
type Format string

// Dataset formats.
const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Tabular dataset columns, matched case-insensitively.
var datasetColumns = []string{"Pcode", "Locality", "State", "Longitude", "Latitude"}

// LoaderOptions configures dataset loading.
type LoaderOptions struct {
	// Source is a local path or an http(s)/ftp URL.
	Source string
	// Format overrides extension-based detection.
	Format Format
	// Sheet selects the XLSX sheet by name; the first sheet is used when empty.
	Sheet string
	// Fetch configures remote downloads.
	Fetch fetcher.Options
	// TempDir holds downloaded and unpacked files. Defaults to os.TempDir().
	TempDir string
}

// LoadStats summarises a dataset load.
type LoadStats struct {
	Read        int
	Loaded      int
	NonPhysical int
	Skipped     int
	Duration    time.Duration
}

// Loader reads the locality reference dataset.
type Loader struct {
	opts LoaderOptions
	log  *zap.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts LoaderOptions) *Loader {
	if opts.Format == "" {
		opts.Format = FormatAuto
	}
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &Loader{
		opts: opts,
		log:  zap.L().With(zap.String("component", "geo.loader")),
	}
}

// LoadLocalities loads the dataset and degrades to an empty slice on failure.
// The failure is logged; every later lookup then reports an unknown locality.
func LoadLocalities(ctx context.Context, opts LoaderOptions) ([]model.Locality, LoadStats) {
	l := NewLoader(opts)
	records, stats, err := l.Load(ctx)
	if err != nil {
		l.log.Warn("an error occurred while loading the suburbs, continuing with an empty dataset",
			zap.String("source", opts.Source),
			zap.Error(err),
		)
		return []model.Locality{}, LoadStats{}
	}
	return records, stats
}

// Load reads, validates, and returns every usable record in dataset order.
// Records that violate the locality invariants are skipped and counted.
func (l *Loader) Load(ctx context.Context) ([]model.Locality, LoadStats, error) {
	start := time.Now()
	if l.opts.Source == "" {
		return nil, LoadStats{}, eris.New("geo: dataset source is empty")
	}

	localPath := l.opts.Source
	if fetcher.IsRemote(l.opts.Source) {
		dir, err := os.MkdirTemp(l.opts.TempDir, "suburb-dataset-*")
		if err != nil {
			return nil, LoadStats{}, eris.Wrap(err, "geo: create download dir")
		}
		defer os.RemoveAll(dir) //nolint:errcheck

		localPath, err = l.download(ctx, dir)
		if err != nil {
			return nil, LoadStats{}, err
		}
	}

	raw, err := l.decodeFile(ctx, localPath)
	if err != nil {
		return nil, LoadStats{}, err
	}

	records, stats := l.validate(raw)
	stats.Duration = time.Since(start)

	l.log.Info("suburbs loaded",
		zap.String("source", l.opts.Source),
		zap.Int("read", stats.Read),
		zap.Int("loaded", stats.Loaded),
		zap.Int("non_physical", stats.NonPhysical),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", stats.Duration),
	)
	return records, stats, nil
}

// download fetches the remote source into dir and returns the local path.
func (l *Loader) download(ctx context.Context, dir string) (string, error) {
	f, err := fetcher.ForURL(l.opts.Source, l.opts.Fetch)
	if err != nil {
		return "", eris.Wrap(err, "geo: dataset fetcher")
	}

	dest := filepath.Join(dir, remoteFileName(l.opts.Source))
	l.log.Info("downloading suburb dataset", zap.String("url", l.opts.Source))

	n, err := f.DownloadToFile(ctx, l.opts.Source, dest)
	if err != nil {
		return "", eris.Wrap(err, "geo: download dataset")
	}
	l.log.Debug("suburb dataset downloaded", zap.Int64("bytes", n), zap.String("path", dest))
	return dest, nil
}

// decodeFile decodes a local dataset file, unwrapping single-file ZIPs.
func (l *Loader) decodeFile(ctx context.Context, p string) ([]model.Locality, error) {
	if strings.EqualFold(filepath.Ext(p), ".zip") {
		return l.decodeZIP(ctx, p)
	}

	format := resolveFormat(l.opts.Format, p)
	if format == FormatXLSX {
		return l.decodeXLSX(p)
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, eris.Wrap(err, "geo: open dataset")
	}
	defer f.Close() //nolint:errcheck

	return l.decodeStream(ctx, f, format)
}

func (l *Loader) decodeZIP(ctx context.Context, zipPath string) ([]model.Locality, error) {
	rc, name, err := fetcher.OpenZIPSingle(zipPath)
	if err != nil {
		return nil, eris.Wrap(err, "geo: open dataset archive")
	}
	defer rc.Close() //nolint:errcheck

	format := resolveFormat(l.opts.Format, name)
	if format != FormatXLSX {
		return l.decodeStream(ctx, rc, format)
	}

	// The XLSX reader needs a file on disk.
	dir, err := os.MkdirTemp(l.opts.TempDir, "suburb-xlsx-*")
	if err != nil {
		return nil, eris.Wrap(err, "geo: create unpack dir")
	}
	defer os.RemoveAll(dir) //nolint:errcheck

	tmp := filepath.Join(dir, filepath.Base(name))
	out, err := os.Create(tmp)
	if err != nil {
		return nil, eris.Wrap(err, "geo: create unpacked workbook")
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return nil, eris.Wrap(err, "geo: unpack workbook")
	}
	if err := out.Close(); err != nil {
		return nil, eris.Wrap(err, "geo: close unpacked workbook")
	}
	return l.decodeXLSX(tmp)
}

func (l *Loader) decodeXLSX(p string) ([]model.Locality, error) {
	rows, err := fetcher.ReadXLSX(p, fetcher.XLSXOptions{SheetName: l.opts.Sheet})
	if err != nil {
		return nil, eris.Wrap(err, "geo: read dataset workbook")
	}
	return l.rowsToLocalities(rows)
}

// decodeStream decodes JSON or CSV from r.
func (l *Loader) decodeStream(ctx context.Context, r io.Reader, format Format) ([]model.Locality, error) {
	switch format {
	case FormatJSON:
		records, err := fetcher.CollectJSONArray[model.Locality](ctx, r)
		if err != nil {
			return nil, eris.Wrap(err, "geo: decode dataset json")
		}
		return records, nil
	case FormatCSV:
		rows, err := fetcher.ReadCSV(ctx, r, fetcher.CSVOptions{TrimSpace: true})
		if err != nil {
			return nil, eris.Wrap(err, "geo: read dataset csv")
		}
		return l.rowsToLocalities(rows)
	default:
		return nil, eris.Errorf("geo: unsupported dataset format %q", format)
	}
}

// rowsToLocalities converts a header row plus data rows. Rows whose postcode
// or coordinates do not parse become zero-named records, which validate
// rejects and counts as skipped.
func (l *Loader) rowsToLocalities(rows [][]string) ([]model.Locality, error) {
	if len(rows) == 0 {
		return []model.Locality{}, nil
	}

	cols, err := fetcher.HeaderIndex(rows[0], datasetColumns...)
	if err != nil {
		return nil, eris.Wrap(err, "geo: dataset header")
	}

	cell := func(row []string, col string) string {
		i := cols[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]model.Locality, 0, len(rows)-1)
	for line, row := range rows[1:] {
		rec, err := parseRow(
			cell(row, "Pcode"), cell(row, "Locality"), cell(row, "State"),
			cell(row, "Latitude"), cell(row, "Longitude"),
		)
		if err != nil {
			l.log.Warn("geo: unparseable dataset row",
				zap.Int("row", line+2),
				zap.Error(err),
			)
			rec = model.Locality{}
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(pcode, name, state, lat, lon string) (model.Locality, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(pcode, ".0"))
	if err != nil {
		return model.Locality{}, eris.Wrapf(err, "postcode %q", pcode)
	}
	rec := model.Locality{Postcode: n, Name: name, State: state}

	if rec.Latitude, err = parseCoordinate(lat); err != nil {
		return model.Locality{}, eris.Wrapf(err, "latitude %q", lat)
	}
	if rec.Longitude, err = parseCoordinate(lon); err != nil {
		return model.Locality{}, eris.Wrapf(err, "longitude %q", lon)
	}
	return rec, nil
}

// parseCoordinate returns nil for blank and "null" cells.
func parseCoordinate(s string) (*decimal.Decimal, error) {
	if s == "" || strings.EqualFold(s, "null") {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (l *Loader) validate(raw []model.Locality) ([]model.Locality, LoadStats) {
	stats := LoadStats{Read: len(raw)}
	records := make([]model.Locality, 0, len(raw))
	for _, r := range raw {
		if err := r.Validate(); err != nil {
			stats.Skipped++
			l.log.Debug("geo: skipping invalid locality", zap.Error(err))
			continue
		}
		if !r.HasCoordinates() {
			stats.NonPhysical++
		}
		records = append(records, r)
	}
	stats.Loaded = len(records)
	return records, stats
}

// resolveFormat returns explicit unless it is auto, in which case the format
// follows the file extension, defaulting to JSON.
func resolveFormat(explicit Format, name string) Format {
	if explicit != "" && explicit != FormatAuto {
		return explicit
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatJSON
	}
}

// remoteFileName derives a local file name from a URL path.
func remoteFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "dataset"
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "dataset"
	}
	return base
}
