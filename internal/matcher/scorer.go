package matcher

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/watchlist-screener/app/config"
	"github.com/watchlist-screener/app/models"
	"github.com/watchlist-screener/internal/trace"
)

// ErrNotPrepared is returned when an entity reaches the scorer without
// going through the normalization pipeline first.
var ErrNotPrepared = errors.New("entity not prepared for scoring")

// Piece weights. Names dominate; identifiers, dates, and supporting
// evidence corroborate; contact details barely move the needle.
const (
	weightName       = 40.0
	weightSupporting = 15.0
	weightIdentifier = 15.0
	weightDates      = 15.0
	weightCrypto     = 15.0
	weightAddress    = 10.0
	weightContact    = 5.0
)

// minPieceMatch is the score at which a compared piece counts as
// agreeing rather than disagreeing evidence.
const minPieceMatch = 0.5

// criticalFieldCount is how many field families count as critical:
// name, identifiers, address.
const criticalFieldCount = 3.0

// Scorer đánh giá mức tương đồng giữa query và một entity trong index,
// trả về ScoreBreakdown theo từng nhóm trường.
//
// Scorer is safe for concurrent use; it holds only immutable config.
type Scorer struct {
	sim    *Similarity
	cfg    *config.MatchConfig
	logger *zap.Logger
}

// NewScorer builds a scorer from match config. A nil config is a
// programming error and refuses construction.
func NewScorer(cfg *config.MatchConfig, logger *zap.Logger) (*Scorer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("scorer: %w", config.ErrMissingConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sim, err := NewSimilarity(cfg)
	if err != nil {
		return nil, err
	}
	return &Scorer{sim: sim, cfg: cfg, logger: logger}, nil
}

// Similarity exposes the underlying string scorer, used by debug
// endpoints to explain individual pair scores.
func (sc *Scorer) Similarity() *Similarity { return sc.sim }

// Score compares a prepared query against a prepared candidate and
// returns the per-field breakdown. Both entities must have passed
// through the normalizer; scoring itself never normalizes.
//
// Aggregation: weighted average over pieces that scored above zero,
// then a quality adjustment when the query's tokens barely overlap the
// candidate, then coverage penalties. An exact name where every
// compared piece agreed skips adjustment and penalties so complete
// exact records keep their full score. A bonus applies when name,
// identifier, and address evidence all line up on a well-covered
// record.
func (sc *Scorer) Score(q, idx *models.Entity, tr trace.Context) (models.ScoreBreakdown, error) {
	if tr == nil {
		tr = trace.Disabled()
	}
	if q == nil || idx == nil || !q.IsPrepared() || !idx.IsPrepared() {
		return models.ScoreBreakdown{}, ErrNotPrepared
	}

	nameRes := sc.compareNames(q, idx, tr)
	namePiece := models.ScorePiece{
		Score:          nameRes.combined,
		Weight:         weightName,
		Matched:        nameRes.combined >= minPieceMatch,
		Required:       true,
		Exact:          nameRes.exact,
		FieldsCompared: nameRes.fieldsCompared,
		PieceType:      models.PieceName,
	}

	breakdown := models.ScoreBreakdown{
		NameScore:      nameRes.primary,
		AltNamesScore:  nameRes.alt,
		MatchingTokens: nameRes.matchingTokens,
		ExactMatch:     nameRes.exact,
	}

	// Below the floor nothing else can rescue the candidate; skip the
	// remaining comparators entirely.
	if nameRes.combined < nameEarlyExit {
		breakdown.TotalWeightedScore = nameRes.combined
		breakdown.Pieces = []models.ScorePiece{namePiece}
		if tr.Enabled() {
			tr.RecordData(trace.PhaseFiltering, "candidate dropped on name score", func() map[string]any {
				return map[string]any{"entity_id": idx.ID, "name_score": nameRes.combined}
			})
		}
		return breakdown, nil
	}

	pieces := []models.ScorePiece{namePiece}

	if p, ok := sc.runPiece(tr, trace.PhaseDateComparison, models.PieceDates, func() (models.ScorePiece, bool) {
		score, fields, compared := sc.compareDates(q, idx)
		if !compared {
			return models.ScorePiece{}, false
		}
		return models.ScorePiece{
			Score:          score,
			Weight:         weightDates,
			Matched:        score > 0,
			Required:       true,
			Exact:          score > 0.99,
			FieldsCompared: fields,
			PieceType:      models.PieceDates,
		}, true
	}); ok {
		pieces = append(pieces, p)
		breakdown.DateScore = p.Score
	}

	if p, ok := sc.runPiece(tr, trace.PhaseGovIDComparison, models.PieceGovernmentID, func() (models.ScorePiece, bool) {
		score, fields, compared := sc.compareIdentifiers(q, idx)
		if !compared {
			return models.ScorePiece{}, false
		}
		return models.ScorePiece{
			Score:          score,
			Weight:         weightIdentifier,
			Matched:        score > 0,
			Required:       true,
			Exact:          score > 0.99,
			FieldsCompared: fields,
			PieceType:      models.PieceGovernmentID,
		}, true
	}); ok {
		pieces = append(pieces, p)
		breakdown.GovernmentIDScore = p.Score
	}

	if p, ok := sc.runPiece(tr, trace.PhaseCryptoComparison, models.PieceCrypto, func() (models.ScorePiece, bool) {
		score, compared := compareCryptoAddresses(q, idx)
		if !compared {
			return models.ScorePiece{}, false
		}
		return models.ScorePiece{
			Score:          score,
			Weight:         weightCrypto,
			Matched:        score > 0.99,
			Exact:          score > 0.99,
			FieldsCompared: 1,
			PieceType:      models.PieceCrypto,
		}, true
	}); ok {
		pieces = append(pieces, p)
		breakdown.CryptoAddressScore = p.Score
	}

	if p, ok := sc.runPiece(tr, trace.PhaseAddressComparison, models.PieceAddress, func() (models.ScorePiece, bool) {
		score, fields, compared := sc.compareAddresses(q, idx)
		if !compared {
			return models.ScorePiece{}, false
		}
		return models.ScorePiece{
			Score:          score,
			Weight:         weightAddress,
			Matched:        score >= minPieceMatch,
			Required:       true,
			Exact:          score > 0.99,
			FieldsCompared: fields,
			PieceType:      models.PieceAddress,
		}, true
	}); ok {
		pieces = append(pieces, p)
		breakdown.AddressScore = p.Score
	}

	if p, ok := sc.runPiece(tr, trace.PhaseContactComparison, models.PieceContact, func() (models.ScorePiece, bool) {
		score, fields, compared := compareContact(q, idx)
		if !compared {
			return models.ScorePiece{}, false
		}
		return models.ScorePiece{
			Score:          score,
			Weight:         weightContact,
			Matched:        score > 0,
			Exact:          score > 0.99,
			FieldsCompared: fields,
			PieceType:      models.PieceContact,
		}, true
	}); ok {
		pieces = append(pieces, p)
		breakdown.ContactScore = p.Score
	}

	histMatched := false
	if p, ok := sc.runPiece(tr, trace.PhaseAggregation, models.PieceSupporting, func() (models.ScorePiece, bool) {
		res := sc.compareSupportingInfo(q, idx)
		if !res.compared {
			return models.ScorePiece{}, false
		}
		histMatched = res.histMatched
		return models.ScorePiece{
			Score:          res.score,
			Weight:         weightSupporting,
			Matched:        res.score > 0,
			Exact:          res.score > 0.99,
			FieldsCompared: res.fields,
			PieceType:      models.PieceSupporting,
		}, true
	}); ok {
		pieces = append(pieces, p)
		breakdown.SupportingScore = p.Score
	}

	final := sc.aggregate(q, idx, nameRes, pieces, histMatched, tr)
	breakdown.TotalWeightedScore = final
	breakdown.HighConfidence = nameRes.matchingTokens >= 2 && final > 0.85
	breakdown.Pieces = pieces
	return breakdown, nil
}

// aggregate folds the pieces into the final score: weighted raw,
// quality adjustment, coverage penalties, completeness bonus.
func (sc *Scorer) aggregate(q, idx *models.Entity, nameRes nameResult, pieces []models.ScorePiece, histMatched bool, tr trace.Context) float64 {
	var num, den float64
	totalFields := 0
	requiredCompared := 0
	allMatched := true
	idCompared, idMatched, addrCompared := false, false, false

	for _, p := range pieces {
		totalFields += p.FieldsCompared
		if p.FieldsCompared > 0 {
			if !p.Matched {
				allMatched = false
			}
			if p.Required {
				requiredCompared++
			}
		}
		if p.Score > 0 {
			num += p.Score * p.Weight
			den += p.Weight
		}
		switch p.PieceType {
		case models.PieceGovernmentID:
			idCompared = p.FieldsCompared > 0
			idMatched = p.Matched
		case models.PieceAddress:
			addrCompared = p.FieldsCompared > 0
		}
	}

	raw := 0.0
	if den > 0 {
		raw = num / den
	}

	coverage := float64(totalFields) / float64(availableFields(idx.Type))
	criticalCompared := 1
	if idCompared {
		criticalCompared++
	}
	if addrCompared {
		criticalCompared++
	}
	criticalCoverage := float64(criticalCompared) / criticalFieldCount

	// An exact name where every compared piece agreed: the record is as
	// complete as it can be, penalizing sparse lists would only punish
	// the list, not the match.
	cleanExact := nameRes.exact && allMatched

	final := raw
	if !cleanExact {
		if len(q.Prepared.NameTokens) >= 2 && nameRes.matchingTokens < 2 && !nameRes.exact && !histMatched {
			final *= 0.8
		}
		if coverage < 0.35 {
			final *= 0.95
		}
		if criticalCoverage < 0.7 {
			final *= 0.90
		}
		if requiredCompared < 2 {
			final *= 0.90
		}
		if !idCompared && !addrCompared {
			final *= 0.95
		}
	}

	hasName := nameRes.combined >= minPieceMatch
	hasCritical := criticalCompared == int(criticalFieldCount)
	if hasName && idMatched && hasCritical && coverage > 0.70 && raw > 0.95 {
		final *= 1.15
	}
	final = clamp01(final)

	if tr.Enabled() {
		tr.RecordData(trace.PhaseAggregation, "pieces aggregated", func() map[string]any {
			return map[string]any{
				"entity_id":         idx.ID,
				"raw_score":         raw,
				"coverage":          coverage,
				"critical_coverage": criticalCoverage,
				"clean_exact":       cleanExact,
				"final_score":       final,
			}
		})
	}
	return final
}

// runPiece shields the aggregate from a panicking comparator: the piece
// contributes nothing, the failure lands in the trace and the log, and
// the remaining pieces still produce a score.
func (sc *Scorer) runPiece(tr trace.Context, phase trace.Phase, pieceType string, fn func() (models.ScorePiece, bool)) (piece models.ScorePiece, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			sc.logger.Error("comparator panicked",
				zap.String("piece", pieceType),
				zap.Any("panic", r),
			)
			tr.Record(phase, fmt.Sprintf("comparator %s failed: %v", pieceType, r))
			piece = models.ScorePiece{PieceType: pieceType}
			ok = true
		}
	}()
	return fn()
}

// availableFields is how many comparable field slots each entity type
// carries, the denominator for coverage.
func availableFields(t models.EntityType) int {
	switch t {
	case models.EntityPerson:
		return 14
	case models.EntityBusiness, models.EntityOrganization:
		return 12
	case models.EntityVessel:
		return 17
	case models.EntityAircraft:
		return 15
	default:
		return 10
	}
}
