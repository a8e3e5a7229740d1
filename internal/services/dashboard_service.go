package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"feargreed/internal/config"
	"feargreed/internal/dataprocessing"
	"feargreed/internal/infrastructure"
	"feargreed/internal/sources"
	apiv1 "feargreed/pkg/contracts/api/v1"
	"feargreed/pkg/contracts/domain"
)

// snapshot is one complete load. It is never modified after it is stored.
type snapshot struct {
	series   map[string]domain.Series
	loadedAt time.Time
}

// LoadResult summarizes a completed load.
type LoadResult struct {
	LoadedAt time.Time
	Sources  map[string]int
	Duration time.Duration
}

// ChartRequest selects what a chart render shows.
type ChartRequest struct {
	Chart  string
	Period string

	// Overlays lists the overlay keys to show when OverlaysSet is true.
	// Otherwise the chart's enabled-by-default overlays are shown.
	Overlays    []string
	OverlaysSet bool

	// HideSentiment drops the fear & greed line and its segments.
	HideSentiment bool
}

// DashboardService holds the loaded series and renders chart payloads from
// them. Renders never fetch; they read the snapshot current at call time.
type DashboardService struct {
	charts   []config.ChartConfig
	policies map[string]dataprocessing.Policy
	files    map[string]string
	loader   *sources.Loader
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger

	loadMu  sync.Mutex
	current atomic.Pointer[snapshot]
}

// NewDashboardService creates the service. metrics may be nil.
func NewDashboardService(cfg *config.Config, fetcher sources.Fetcher, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) (*DashboardService, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	base := logger
	logger = logger.With(slog.String("component", "dashboard_service"))

	policies := make(map[string]dataprocessing.Policy, len(cfg.Charts))
	for _, ch := range cfg.Charts {
		n := ch.Normalization
		p, err := dataprocessing.NewPolicy(n.Policy, n.Sensitivity, n.Lo, n.Hi)
		if err != nil {
			return nil, fmt.Errorf("chart %s: %w", ch.Name, err)
		}
		policies[ch.Name] = p
	}

	logger.Info("DashboardService initialized",
		slog.Int("charts", len(cfg.Charts)),
		slog.Int("sources", len(cfg.Sources.Files)),
		slog.String("backend", cfg.Sources.Backend))

	return &DashboardService{
		charts:   cfg.Charts,
		policies: policies,
		files:    cfg.Sources.Files,
		loader:   sources.NewLoader(fetcher, base),
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Load fetches and parses every source and replaces the snapshot. A fetch
// failure aborts the load and keeps the previous snapshot, if any. A source
// with no data lines becomes an empty series.
func (s *DashboardService) Load(ctx context.Context) (LoadResult, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	start := time.Now()
	docs, err := s.loader.Load(ctx, s.files)
	if err != nil {
		s.metrics.RecordLoad(ctx, time.Since(start), err)
		return LoadResult{}, err
	}

	snap := &snapshot{series: make(map[string]domain.Series, len(docs))}
	counts := make(map[string]int, len(docs))
	for name, doc := range docs {
		series, err := dataprocessing.Parse(string(doc.Body))
		if err != nil {
			if !errors.Is(err, dataprocessing.ErrEmptyInput) {
				loadErr := &sources.LoadError{Source: name, Path: doc.Path, Err: err}
				s.metrics.RecordLoad(ctx, time.Since(start), loadErr)
				return LoadResult{}, loadErr
			}
			s.logger.WarnContext(ctx, "source has no data, using empty series",
				slog.String("source", name),
				slog.String("path", doc.Path),
				slog.String("error", err.Error()))
			series = domain.Series{}
		}
		snap.series[name] = series
		counts[name] = len(series)
		s.metrics.RecordSourceSize(ctx, name, len(series))
	}
	s.warnMissingColumns(ctx, snap)

	snap.loadedAt = time.Now()
	s.current.Store(snap)

	duration := time.Since(start)
	s.metrics.RecordLoad(ctx, duration, nil)
	s.logger.InfoContext(ctx, "dashboard data loaded",
		slog.Any("records", counts),
		slog.Duration("duration", duration))

	return LoadResult{LoadedAt: snap.loadedAt, Sources: counts, Duration: duration}, nil
}

func (s *DashboardService) warnMissingColumns(ctx context.Context, snap *snapshot) {
	for _, ch := range s.charts {
		for _, sc := range ch.Series() {
			series := snap.series[sc.Source]
			if len(series) == 0 {
				continue
			}
			if _, ok := series[0].Get(sc.Column); !ok {
				s.logger.WarnContext(ctx, "column missing from source",
					slog.String("chart", ch.Name),
					slog.String("source", sc.Source),
					slog.String("column", sc.Column))
			}
		}
	}
}

// Ready reports whether a load has succeeded.
func (s *DashboardService) Ready() bool {
	return s.current.Load() != nil
}

// LoadedAt returns the time of the current snapshot, or the zero time.
func (s *DashboardService) LoadedAt() time.Time {
	if snap := s.current.Load(); snap != nil {
		return snap.loadedAt
	}
	return time.Time{}
}

// Charts lists the configured charts and their series.
func (s *DashboardService) Charts() []apiv1.ChartInfo {
	out := make([]apiv1.ChartInfo, 0, len(s.charts))
	for _, ch := range s.charts {
		info := apiv1.ChartInfo{
			Name:     ch.Name,
			Title:    ch.Title,
			Overlays: make([]apiv1.OverlayInfo, 0, len(ch.Overlays)),
		}
		if ch.Sentiment != nil {
			si := overlayInfo(*ch.Sentiment, true)
			info.Sentiment = &si
		}
		for _, o := range ch.Overlays {
			info.Overlays = append(info.Overlays, overlayInfo(o, o.Enabled))
		}
		out = append(out, info)
	}
	return out
}

func (s *DashboardService) chart(name string) (config.ChartConfig, bool) {
	for _, ch := range s.charts {
		if ch.Name == name {
			return ch, true
		}
	}
	return config.ChartConfig{}, false
}

// OverlayKeys returns the overlay keys of a chart.
func (s *DashboardService) OverlayKeys(chart string) ([]string, error) {
	ch, ok := s.chart(chart)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, chart)
	}
	keys := make([]string, 0, len(ch.Overlays))
	for _, o := range ch.Overlays {
		keys = append(keys, o.Key)
	}
	return keys, nil
}

// Chart renders one chart from the current snapshot.
//
// The primary series is the first shown one. The date domain is its dates
// kept only where every shown, non-optional series has a value, cut to the
// requested period. With nothing shown the payload is empty. Overlays are
// normalized with the chart's policy; the sentiment line is returned raw and
// split into category segments.
func (s *DashboardService) Chart(ctx context.Context, req ChartRequest) (*apiv1.ChartResponse, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}

	ch, ok := s.chart(req.Chart)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, req.Chart)
	}

	days, err := dataprocessing.ParsePeriod(req.Period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidPeriod, days)
	}

	shown, err := shownOverlays(ch, req)
	if err != nil {
		return nil, err
	}

	all := ch.Series()
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: %s has no series", ErrUnknownChart, ch.Name)
	}

	showSentiment := ch.Sentiment != nil && !req.HideSentiment
	visible := make([]config.SeriesConfig, 0, len(all))
	if showSentiment {
		visible = append(visible, *ch.Sentiment)
	}
	for _, o := range ch.Overlays {
		if shown[o.Key] {
			visible = append(visible, o)
		}
	}

	aligned := make([]dataprocessing.Aligned, 0, len(visible))
	for _, sc := range visible {
		aligned = append(aligned, dataprocessing.Aligned{
			Series:   snap.series[sc.Source],
			Column:   sc.Column,
			Required: !sc.Optional,
		})
	}
	dates := domain.Domain{}
	if len(visible) > 0 {
		primary := snap.series[visible[0].Source]
		dates = dataprocessing.SuffixWindow(dataprocessing.IntersectDomain(primary, aligned...), days)
	}

	policy := s.policies[ch.Name]
	resp := &apiv1.ChartResponse{
		Chart:    ch.Name,
		Title:    ch.Title,
		Period:   periodLabel(req.Period),
		Dates:    dates,
		Series:   make([]apiv1.SeriesPayload, 0, len(visible)),
		Segments: make([]apiv1.SegmentPayload, 0),
		Overlays: make([]apiv1.OverlayInfo, 0, len(ch.Overlays)),
		Policy:   policy.Name(),
		LoadedAt: snap.loadedAt,
	}
	if ch.Sentiment != nil {
		si := overlayInfo(*ch.Sentiment, showSentiment)
		resp.Sentiment = &si
	}

	for _, sc := range visible {
		idx := dataprocessing.NewIndex(snap.series[sc.Source], sc.Column)
		values := dataprocessing.Project(idx, sc.Column, dates)

		isSentiment := showSentiment && sc.Key == ch.Sentiment.Key
		raw := isSentiment || policy.Name() == dataprocessing.PolicyIdentity
		if !isSentiment {
			values = dataprocessing.Normalize(values, policy)
		}
		resp.Series = append(resp.Series, apiv1.SeriesPayload{
			Key:    sc.Key,
			Label:  sc.Label,
			Color:  sc.Color,
			Axis:   sc.Axis,
			Raw:    raw,
			Values: values,
		})

		if isSentiment {
			resp.Segments = segmentPayloads(dataprocessing.Segment(values, dates), dates)
		}
	}

	for _, o := range ch.Overlays {
		resp.Overlays = append(resp.Overlays, overlayInfo(o, shown[o.Key]))
	}

	s.metrics.RecordChartRender(ctx, ch.Name)
	s.logger.DebugContext(ctx, "chart rendered",
		slog.String("chart", ch.Name),
		slog.Int("points", len(dates)),
		slog.Int("series", len(resp.Series)),
		slog.Int("segments", len(resp.Segments)))

	return resp, nil
}

// Metrics returns the latest fear & greed reading of every chart that has a
// sentiment series. The reading is taken from the last record holding a
// number in the sentiment column; charts without one are skipped.
func (s *DashboardService) Metrics(ctx context.Context) ([]apiv1.MetricCard, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}

	cards := make([]apiv1.MetricCard, 0, len(s.charts))
	for _, ch := range s.charts {
		if ch.Sentiment == nil {
			continue
		}
		sc := *ch.Sentiment
		series := snap.series[sc.Source]
		for i := len(series) - 1; i >= 0; i-- {
			v := dataprocessing.ParseValue(series[i][sc.Column])
			if v == nil {
				continue
			}
			c := dataprocessing.Categorize(*v)
			cards = append(cards, apiv1.MetricCard{
				Chart:    ch.Name,
				Label:    sc.Label,
				Value:    int(math.Round(*v)),
				Category: c,
				Text:     dataprocessing.LabelOf(c),
				Color:    dataprocessing.ColorOf(c),
				Date:     series[i].Date(),
			})
			break
		}
	}
	return cards, nil
}

// SourceCounts returns the record count per source of the current snapshot.
func (s *DashboardService) SourceCounts() map[string]int {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	out := make(map[string]int, len(snap.series))
	for name, series := range snap.series {
		out[name] = len(series)
	}
	return out
}

func shownOverlays(ch config.ChartConfig, req ChartRequest) (map[string]bool, error) {
	shown := make(map[string]bool, len(ch.Overlays))
	if !req.OverlaysSet {
		for _, o := range ch.Overlays {
			shown[o.Key] = o.Enabled
		}
		return shown, nil
	}

	known := make(map[string]bool, len(ch.Overlays))
	for _, o := range ch.Overlays {
		known[o.Key] = true
	}
	var unknown []string
	for _, key := range req.Overlays {
		if !known[key] {
			unknown = append(unknown, key)
			continue
		}
		shown[key] = true
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %v", ErrUnknownOverlay, unknown)
	}
	return shown, nil
}

func segmentPayloads(segments []domain.Segment, dates domain.Domain) []apiv1.SegmentPayload {
	out := make([]apiv1.SegmentPayload, 0, len(segments))
	for _, seg := range segments {
		out = append(out, apiv1.SegmentPayload{
			Category: seg.Category,
			Label:    dataprocessing.LabelOf(seg.Category),
			Color:    dataprocessing.ColorOf(seg.Category),
			Value:    seg.Value,
			Start:    dates[seg.Start],
			End:      dates[seg.End],
			Days:     seg.Len(),
			Points:   seg.Points,
		})
	}
	return out
}

func overlayInfo(sc config.SeriesConfig, enabled bool) apiv1.OverlayInfo {
	return apiv1.OverlayInfo{
		Key:      sc.Key,
		Label:    sc.Label,
		Color:    sc.Color,
		Enabled:  enabled,
		Optional: sc.Optional,
	}
}

func periodLabel(p string) string {
	if p == "" {
		return dataprocessing.PeriodAll
	}
	return p
}
