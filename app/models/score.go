package models

import "errors"

// ErrInvalidEntity is returned when an entity's detail struct does not
// agree with its declared type. Invalid entities are logged and skipped
// during list ingestion, never installed.
var ErrInvalidEntity = errors.New("invalid entity")

// Piece types reported inside a ScoreBreakdown.
const (
	PieceName         = "name"
	PieceAltNames     = "alt_names"
	PieceAddress      = "address"
	PieceGovernmentID = "government_id"
	PieceCrypto       = "crypto_address"
	PieceContact      = "contact"
	PieceDates        = "dates"
	PieceTitle        = "title"
	PieceAffiliation  = "affiliation"
	PieceSupporting   = "supporting_info"
)

// ScorePiece is the outcome of one field comparator: a score in [0,1],
// the weight it carries in the final aggregation, and bookkeeping the
// aggregator uses for coverage and penalty decisions.
type ScorePiece struct {
	Score          float64 `json:"score"`
	Weight         float64 `json:"weight"`
	Matched        bool    `json:"matched"`
	Required       bool    `json:"required"`
	Exact          bool    `json:"exact"`
	FieldsCompared int     `json:"fields_compared"`
	PieceType      string  `json:"piece_type"`
}

// ScoreBreakdown is the per-field explanation of one query/candidate
// comparison. TotalWeightedScore is the final ranked value in [0,1].
type ScoreBreakdown struct {
	NameScore          float64 `json:"name_score"`
	AltNamesScore      float64 `json:"alt_names_score"`
	AddressScore       float64 `json:"address_score"`
	GovernmentIDScore  float64 `json:"government_id_score"`
	CryptoAddressScore float64 `json:"crypto_address_score"`
	ContactScore       float64 `json:"contact_score"`
	DateScore          float64 `json:"date_score"`
	SupportingScore    float64 `json:"supporting_score"`
	TotalWeightedScore float64 `json:"total_weighted_score"`

	// MatchingTokens counts query name tokens with an exact counterpart
	// on the candidate. Two or more plus a final score above 0.85 marks
	// the hit high confidence.
	MatchingTokens int  `json:"matching_tokens"`
	HighConfidence bool `json:"high_confidence"`
	ExactMatch     bool `json:"exact_match"`

	Pieces []ScorePiece `json:"pieces,omitempty"`
}

// SearchResult pairs an indexed entity with its breakdown for one query.
type SearchResult struct {
	Entity    *Entity        `json:"entity"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}
