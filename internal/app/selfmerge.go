package service

import (
	"context"
	"errors"

	"github.com/tmarren/peerweave/internal/domain/resolve"
	"github.com/tmarren/peerweave/internal/domain/schema"
	"github.com/tmarren/peerweave/pkg/logger"
)

// mergeSelfEvals routes every self-assessment response into its author's
// roster record. Self fields land under "SE: " labels, general fields under
// their plain labels. Duplicate responses for one person are
// last-write-wins; overwrites are counted and logged.
func (s *Service) mergeSelfEvals(ctx context.Context, in RunInput, resolver *resolve.Resolver, rep *Report) error {
	selfEntries := labeled(in.Schema.Entries(schema.RoleSelf, schema.CategoryAny))
	generalEntries := labeled(in.Schema.Entries(schema.RoleGeneral, schema.CategoryAny))

	var outCols []string
	for _, e := range selfEntries {
		outCols = append(outCols, prefixed(selfPrefix, e.Label))
	}
	for _, e := range generalEntries {
		outCols = append(outCols, e.Label)
	}
	in.Roster.AddResultColumns(outCols)

	emailCol, err := in.Schema.UniqueColumn(schema.RoleSelf, schema.CategoryEmail)
	if err != nil {
		// Without an email column no self response can be keyed; drop the
		// stage but keep the run alive for peer processing.
		if errors.Is(err, schema.ErrColumnNotFound) || errors.Is(err, schema.ErrColumnAmbiguous) {
			s.log.Error(ctx, "self stage dropped: no unique email column", logger.Error(err))
			rep.SchemaErrors++
			s.metrics.RecordSchemaError()
			return nil
		}
		return err
	}

	for row := 0; row < in.Responses.Len(); row++ {
		rep.SelfProcessed++
		s.metrics.RecordProcessed(stageSelf)

		email, err := in.Responses.Cell(row, emailCol)
		if err != nil {
			return err
		}

		info := s.respondentInfo(in, row)
		info.Email = email
		info.Self = true

		res, err := resolver.Resolve(ctx, info, in.Roster)
		if err != nil {
			return err
		}
		login, ok := res.Login()
		if !ok {
			rep.SelfSkipped++
			s.metrics.RecordSkipped(stageSelf)
			s.log.Info(ctx, "self response skipped",
				logger.String("email", email),
				logger.String("name", info.Name))
			continue
		}
		rec, found := in.Roster.ByLogin(login)
		if !found {
			// Resolver only returns logins taken from this roster.
			continue
		}

		rec.SelfMerges++
		if rec.SelfMerges > 1 {
			rep.SelfOverwrites++
			s.log.Warn(ctx, "duplicate self response overwrites earlier one",
				logger.String("login", login))
		}

		for _, e := range selfEntries {
			raw, err := in.Responses.Cell(row, e.Column)
			if err != nil {
				return err
			}
			rating := ratingCategory(e.Category)
			v, err := s.cellValue(raw, rating, in.Lexicon)
			if err != nil {
				return err
			}
			rec.SetResult(prefixed(selfPrefix, e.Label), v)
		}
		for _, e := range generalEntries {
			raw, err := in.Responses.Cell(row, e.Column)
			if err != nil {
				return err
			}
			v, err := s.cellValue(raw, false, in.Lexicon)
			if err != nil {
				return err
			}
			rec.SetResult(e.Label, v)
		}

		rep.SelfMerged++
		s.metrics.RecordMerged(stageSelf)
	}
	return nil
}
