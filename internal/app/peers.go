package service

import (
	"context"
	"strings"

	"github.com/tmarren/peerweave/internal/domain/aggregate"
	"github.com/tmarren/peerweave/internal/domain/resolve"
	"github.com/tmarren/peerweave/internal/domain/roster"
	"github.com/tmarren/peerweave/internal/domain/schema"
	"github.com/tmarren/peerweave/pkg/logger"
)

// peerRow is one peer evaluation remapped onto the first-peer-slot labels,
// keeping a pointer back to the source response for prompt context.
type peerRow struct {
	src  int
	vals aggregate.Row
}

// aggregatePeerEvals fans every peer slot's columns onto the canonical
// first-slot label set, resolves each row's named subject, buckets rows by
// resolved login, and reduces each bucket into the subject's record.
func (s *Service) aggregatePeerEvals(ctx context.Context, in RunInput, resolver *resolve.Resolver, rep *Report) error {
	slots := in.Schema.PeerSlots()
	if len(slots) == 0 {
		s.log.Warn(ctx, "no peer slots in schema; peer stage dropped")
		return nil
	}
	first := slots[0]

	firstEntries := in.Schema.Entries(first, schema.CategoryAny)
	commentLabels := in.Schema.Labels(first, schema.CategoryComment)
	ratingLabels := in.Schema.Labels(first, schema.CategoryRating)

	nameEntries := labeled(in.Schema.Entries(first, schema.CategoryName))
	if len(nameEntries) != 1 {
		s.log.Error(ctx, "peer stage dropped: no unique peer name column",
			logger.String("slot", first),
			logger.Int("candidates", len(nameEntries)))
		rep.SchemaErrors++
		s.metrics.RecordSchemaError()
		return nil
	}
	subjectLabel := nameEntries[0].Label

	outCols := []string{peerCountCol}
	outCols = append(outCols, commentLabels...)
	for _, label := range ratingLabels {
		outCols = append(outCols, suffixed(label, avgSuffix), suffixed(label, stdSuffix))
	}
	in.Roster.AddResultColumns(outCols)

	// Extract all slots onto union-compatible rows. Slots share the first
	// slot's category structure; a slot that does not is reported and
	// dropped rather than misaligned.
	var rows []peerRow
	for _, slot := range slots {
		entries := in.Schema.Entries(slot, schema.CategoryAny)
		if len(entries) != len(firstEntries) {
			s.log.Error(ctx, "peer slot shape differs from first slot; slot dropped",
				logger.String("slot", slot),
				logger.Int("columns", len(entries)),
				logger.Int("expected", len(firstEntries)))
			rep.SchemaErrors++
			s.metrics.RecordSchemaError()
			continue
		}
		for r := 0; r < in.Responses.Len(); r++ {
			vals := make(aggregate.Row, len(entries))
			for k, e := range entries {
				label := firstEntries[k].Label
				if label == "" || label == "nan" {
					continue
				}
				raw, err := in.Responses.Cell(r, e.Column)
				if err != nil {
					return err
				}
				vals[label] = raw
			}
			rows = append(rows, peerRow{src: r, vals: vals})
		}
	}

	// Distribute rows into per-subject buckets, in encounter order.
	buckets := make(map[string][]aggregate.Row)
	var order []string
	for _, pr := range rows {
		rep.PeerRows++
		s.metrics.RecordProcessed(stagePeer)

		subject := pr.vals[subjectLabel]
		if s.missing.Has(subject) {
			rep.PeerBlank++
			continue
		}

		info := s.respondentInfo(in, pr.src)
		info.Subject = subject

		res, err := resolver.Resolve(ctx, info, in.Roster)
		if err != nil {
			return err
		}
		login, ok := res.Login()
		if !ok {
			rep.PeerSkipped++
			s.metrics.RecordSkipped(stagePeer)
			s.log.Info(ctx, "peer response skipped",
				logger.String("subject", subject),
				logger.String("reviewer", info.Name))
			continue
		}
		if _, seen := buckets[login]; !seen {
			order = append(order, login)
		}
		buckets[login] = append(buckets[login], pr.vals)
		rep.PeerMerged++
		s.metrics.RecordMerged(stagePeer)
	}

	reducer := aggregate.NewReducer(in.Lexicon,
		aggregate.WithSeparator(s.separator),
		aggregate.WithPrecision(s.precision),
		aggregate.WithMissingSet(s.missing),
	)
	for _, login := range order {
		res, err := reducer.Reduce(buckets[login], ratingLabels, commentLabels)
		if err != nil {
			return err
		}
		rec, found := in.Roster.ByLogin(login)
		if !found {
			continue
		}
		rec.SetResult(peerCountCol, roster.Number(float64(res.Count)))
		for _, label := range commentLabels {
			if joined := res.Comments[label]; joined != "" {
				rec.SetResult(label, roster.Text(joined))
			}
		}
		for _, label := range ratingLabels {
			if m, ok := res.Means[label]; ok {
				rec.SetResult(suffixed(label, avgSuffix), roster.Number(m))
			}
			if d, ok := res.Stdevs[label]; ok {
				rec.SetResult(suffixed(label, stdSuffix), roster.Number(d))
			}
		}
	}

	rep.PeerSubjects = len(order)
	s.metrics.SetSubjectsWithPeerResponses(len(order))
	return nil
}

// ratingCategory reports whether a schema category counts as a rating.
func ratingCategory(category string) bool {
	return strings.Contains(category, schema.CategoryRating)
}
