package schedule

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tnved-tariffs/core/tariff"
	"tnved-tariffs/internal/errors"
	"tnved-tariffs/internal/logging"
)

// batchSize is the number of rows one worker classifies per task
const batchSize = 256

// Options configures an Ingester
type Options struct {
	// Delimiters are tried in order; DefaultDelimiters when empty
	Delimiters []string

	// SampleRows bounds fixed-width inference
	SampleRows int

	// Workers is the classification pool size; GOMAXPROCS when <= 0
	Workers int

	// Encoding of text inputs; EncodingAuto when empty
	Encoding string

	// Keywords override the header vocabulary
	Keywords ColumnKeywords

	// Logger defaults to the "schedule" child of the global logger
	Logger *zap.Logger
}

// Ingester turns schedule files into classified commodity rows
type Ingester struct {
	classifier *tariff.Classifier
	strategies []Strategy
	keywords   ColumnKeywords
	delimiters string
	workers    int
	encoding   string
	logger     *zap.Logger
}

// NewIngester creates an ingester using the given classifier
func NewIngester(classifier *tariff.Classifier, opts Options) (*Ingester, error) {
	if classifier == nil {
		classifier = tariff.Default()
	}

	strategies, err := DefaultStrategies(opts.Delimiters, opts.SampleRows, classifier)
	if err != nil {
		return nil, errors.Config("invalid read strategy", err)
	}

	delimiters := opts.Delimiters
	if len(delimiters) == 0 {
		delimiters = DefaultDelimiters
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Named("schedule")
	}

	return &Ingester{
		classifier: classifier,
		strategies: strategies,
		keywords:   DefaultColumnKeywords().Merge(opts.Keywords),
		delimiters: strings.Join(delimiters, ""),
		workers:    workers,
		encoding:   opts.Encoding,
		logger:     logger,
	}, nil
}

// Ingest reads and processes the file at path
func (in *Ingester) Ingest(ctx context.Context, path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Input("cannot read schedule", err).WithContext("path", path)
	}
	return in.IngestBytes(ctx, path, raw)
}

// IngestBytes processes an in-memory file. name is used for logging and to
// recognize workbooks by extension.
//
// When every strategy fails the returned Result is empty but non-nil and
// the error lists each attempt.
func (in *Ingester) IngestBytes(ctx context.Context, name string, raw []byte) (*Result, error) {
	result := &Result{
		RunID:  uuid.New(),
		Source: name,
		Rows:   []CommodityRow{},
	}
	log := in.logger.With(zap.String("run_id", result.RunID.String()), zap.String("source", name))

	src, err := NewSource(name, raw, in.encoding)
	if err != nil {
		return result, err
	}
	result.Digest = src.Digest()
	log.Debug("source decoded", zap.String("digest", result.Digest), zap.Int("bytes", len(raw)))

	table, strategy, r := in.read(src, result, log)
	if table == nil {
		err := errors.Format("no read strategy recognized the input").
			WithContext("source", name).
			WithContext("attempts", result.Attempts)
		log.Warn("all read strategies failed", zap.Int("attempts", len(result.Attempts)))
		return result, err
	}
	result.Strategy = strategy

	result.Columns = r.columns(table.Header)
	log.Info("columns selected",
		zap.String("strategy", strategy),
		zap.String("code", result.Columns.Code),
		zap.String("tariff", result.Columns.Tariff),
		zap.String("name", result.Columns.Name),
	)

	candidates := make([]CommodityRow, 0, len(table.Rows))
	for i, row := range table.Rows {
		code := cell(row, r.code)
		if !ValidCode(code) {
			result.Dropped++
			log.Debug("row dropped: code shape", zap.Int("row", i+1), zap.String("code", code))
			continue
		}
		candidates = append(candidates, CommodityRow{
			Code:      code,
			Name:      cell(row, r.name),
			TariffRaw: cell(row, r.tariff),
		})
	}

	rows, err := in.classify(ctx, candidates)
	if err != nil {
		return result, err
	}
	result.Rows = rows

	log.Info("schedule ingested",
		zap.Int("rows", len(result.Rows)),
		zap.Int("dropped", result.Dropped),
	)
	return result, nil
}

// read runs strategies in order until one yields a table with two or more
// columns whose code cells are whole tokens. Every attempt is recorded on
// result.
func (in *Ingester) read(src *Source, result *Result, log *zap.Logger) (*Table, string, roles) {
	for _, s := range in.strategies {
		var r roles
		t, err := s.Read(src)
		if err == nil && t.Width() < 2 {
			err = fmt.Errorf("table has %d column", t.Width())
		}
		if err == nil {
			t.resolveHeader()
			r = assignRoles(t, in.keywords, in.classifier)
			if code, ok := in.strayDelimiter(t, r); ok {
				err = fmt.Errorf("code cell %q spans a delimiter", code)
			}
		}
		if err != nil {
			result.Attempts = append(result.Attempts, Attempt{Strategy: s.Name(), Error: err.Error()})
			log.Debug("read strategy rejected", zap.String("strategy", s.Name()), zap.Error(err))
			continue
		}
		result.Attempts = append(result.Attempts, Attempt{Strategy: s.Name()})
		log.Info("read strategy accepted", zap.String("strategy", s.Name()), zap.Int("rows", len(t.Rows)))
		return t, s.Name(), r
	}
	return nil, "", roles{}
}

// strayDelimiter finds a code cell that still carries a delimiter after its
// digit run, e.g. "0101210000;3" from splitting "3,5%" on the comma.
func (in *Ingester) strayDelimiter(t *Table, r roles) (string, bool) {
	for _, row := range t.Rows {
		code := cell(row, r.code)
		loc := codeShape.FindStringIndex(code)
		if loc == nil {
			continue
		}
		if strings.ContainsAny(code[loc[1]:], in.delimiters) {
			return code, true
		}
	}
	return "", false
}

// classify fills in the tariff records on a bounded pool. Each task owns a
// disjoint slice range, so output order equals input order.
func (in *Ingester) classify(ctx context.Context, rows []CommodityRow) ([]CommodityRow, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.workers)

	for start := 0; start < len(rows); start += batchSize {
		batch := rows[start:min(start+batchSize, len(rows))]
		g.Go(func() error {
			for i := range batch {
				if err := gctx.Err(); err != nil {
					return err
				}
				batch[i].Tariff = in.classifier.Classify(batch[i].TariffRaw)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
