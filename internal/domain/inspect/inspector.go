package inspect

import (
	"context"
	"strings"

	"github.com/okian/modtier/internal/domain/tiers"
	"github.com/okian/modtier/pkg/logger"
	"github.com/okian/modtier/pkg/metrics"
)

// DefaultMarkers are key fragments flagged on the item summary.
var DefaultMarkers = []string{"ChaosResist"}

// Option configures an Inspector.
type Option func(*Inspector)

// WithMarkers replaces the marker key fragments.
func WithMarkers(markers []string) Option {
	return func(in *Inspector) {
		if markers != nil {
			in.markers = append([]string(nil), markers...)
		}
	}
}

// WithLogger sets the inspector logger.
func WithLogger(l logger.Logger) Option {
	return func(in *Inspector) {
		if l != nil {
			in.logger = l
		}
	}
}

// Inspector classifies all modifiers on an item.
type Inspector struct {
	catalog    Catalog
	classifier *tiers.Classifier
	markers    []string
	logger     logger.Logger
}

// New creates an Inspector.
func New(c Catalog, classifier *tiers.Classifier, opts ...Option) *Inspector {
	in := &Inspector{
		catalog:    c,
		classifier: classifier,
		markers:    DefaultMarkers,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Inspect classifies every modifier on item. Keys missing from the catalog
// are listed in Report.Unknown and counted as unknown rolls. Every
// classification is recorded in the classifier metrics.
func (in *Inspector) Inspect(ctx context.Context, item Item) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	snap := NewSnapshot(in.catalog, item)
	base, ok := snap.BaseType()
	tags := tiers.ResolveTags(base, ok, item.Tags)

	rep := Report{
		ItemID:  item.ID,
		Tags:    tags.Sorted(),
		Mods:    make([]tiers.Result, 0, snap.ModCount()),
		Unknown: []string{},
	}
	rep.Summary.Markers = []string{}

	for i := 0; i < snap.ModCount(); i++ {
		rec, ok := snap.Record(i)
		if !ok {
			rep.Unknown = append(rep.Unknown, item.Mods[i].Key)
			rep.Summary.UnknownRolls++
			continue
		}
		res := in.classifier.Classify(tags, rec)
		metrics.RecordClassification(string(res.Source), res.TotalTiers)
		if res.OutOfRange() {
			metrics.RecordFallbackOutOfRange()
			in.warn(ctx, "fallback tier exceeds family size",
				logger.String("key", rec.Key),
				logger.String("group", rec.Group),
				logger.String("slot", string(rec.Slot)),
				logger.Int("tier", res.Tier),
				logger.Int("totalTiers", res.TotalTiers),
			)
		}
		rep.Mods = append(rep.Mods, res)
		in.count(&rep.Summary, res)
	}
	if n := len(rep.Unknown); n > 0 {
		metrics.RecordUnknownModifiers(n)
	}
	rep.Summary.Highlight = len(rep.Summary.Markers) > 0 && rep.Summary.BestRolls > 1
	return rep, nil
}

func (in *Inspector) count(s *Summary, res tiers.Result) {
	switch res.Tier {
	case 1:
		s.BestRolls++
	case 2:
		s.SecondBestRolls++
	case tiers.UnknownTier:
		s.UnknownRolls++
	}
	for _, m := range in.markers {
		if m != "" && strings.Contains(res.Record.Key, m) {
			s.Markers = append(s.Markers, res.Record.Key)
			break
		}
	}
}

func (in *Inspector) warn(ctx context.Context, msg string, fields ...logger.Field) {
	if in.logger == nil {
		return
	}
	in.logger.Warn(ctx, msg, fields...)
}
