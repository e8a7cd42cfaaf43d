package service

import (
	"context"

	"github.com/tmarren/peerweave/internal/domain/resolve"
	"github.com/tmarren/peerweave/internal/domain/roster"
	"github.com/tmarren/peerweave/internal/domain/schema"
	"github.com/tmarren/peerweave/pkg/logger"
)

// calcDiscrepancies writes self-minus-peer-average deltas for every rating
// category present in both schemas. A missing operand propagates missing;
// it is never computed against zero.
func (s *Service) calcDiscrepancies(ctx context.Context, in RunInput, _ *resolve.Resolver, rep *Report) error {
	slots := in.Schema.PeerSlots()
	if len(slots) == 0 {
		return nil
	}
	first := slots[0]

	peerSet := make(map[string]bool)
	for _, label := range in.Schema.Labels(first, schema.CategoryRating) {
		peerSet[label] = true
	}

	var matched []string
	for _, label := range in.Schema.Labels(schema.RoleSelf, schema.CategoryRating) {
		if peerSet[label] {
			matched = append(matched, label)
		}
	}
	if len(matched) == 0 {
		s.log.Debug(ctx, "no rating categories shared between self and peer schemas")
		return nil
	}

	var diffCols []string
	for _, label := range matched {
		diffCols = append(diffCols, prefixed(diffPrefix, label))
	}
	in.Roster.AddResultColumns(diffCols)

	for _, rec := range in.Roster.Records() {
		for _, label := range matched {
			sv, sok := rec.Result(prefixed(selfPrefix, label)).Float()
			pv, pok := rec.Result(suffixed(label, avgSuffix)).Float()
			if !sok || !pok {
				continue // column already holds the missing marker
			}
			rec.SetResult(prefixed(diffPrefix, label), roster.Number(s.round(sv-pv)))
		}
	}

	rep.DiscrepancyColumns = len(diffCols)
	s.log.Debug(ctx, "discrepancies written", logger.Int("columns", len(diffCols)))
	return nil
}
