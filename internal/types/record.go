package types

import (
	"encoding/json"
	"time"
)

// RawField is the intermediate result of one selector resolution attempt.
// It is discarded once the field has been normalized.
type RawField struct {
	// Value is the extracted text, valid only when Present is true.
	Value string

	// Present is false when every rule in the fallback chain missed.
	Present bool

	// RuleIndex is the zero-based index of the winning rule, or -1.
	RuleIndex int
}

// ExtractedField is the final resolved value for one logical field.
type ExtractedField struct {
	Name  string `bson:"name"  json:"name"`
	Value string `bson:"value" json:"value"`

	// SourceRuleIndex records which rule of the fallback chain produced
	// the value. -1 means the value came from page metadata rather than
	// a configured rule.
	SourceRuleIndex int `bson:"source_rule_index" json:"source_rule_index"`

	// Confidence decreases the further down the fallback chain the
	// value was found.
	Confidence float64 `bson:"confidence" json:"confidence"`
}

// ArticleRecord is the canonical, validated article produced by the
// assembler. Records are immutable once assembled and are consumed
// exactly once by the storage pipeline.
type ArticleRecord struct {
	SourceID           string                    `bson:"source_id"           json:"source_id"`
	URL                string                    `bson:"url"                 json:"url"`
	Title              string                    `bson:"title"               json:"title"`
	Body               string                    `bson:"body,omitempty"      json:"body,omitempty"`
	Author             string                    `bson:"author,omitempty"    json:"author,omitempty"`
	PublishedAt        *time.Time                `bson:"published_at"        json:"published_at"`
	FetchedAt          time.Time                 `bson:"fetched_at"          json:"fetched_at"`
	ContentFingerprint string                    `bson:"fingerprint"         json:"fingerprint"`
	RawFields          map[string]ExtractedField `bson:"raw_fields,omitempty" json:"raw_fields,omitempty"`
}

// ToJSON serializes the record to JSON bytes.
func (r *ArticleRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// StoreStatus is the outcome status of a storage attempt.
type StoreStatus string

const (
	StatusInserted  StoreStatus = "inserted"
	StatusDuplicate StoreStatus = "duplicate"
	StatusRejected  StoreStatus = "rejected"
)

// StorageOutcome reports what the storage pipeline did with a record.
type StorageOutcome struct {
	Fingerprint string      `json:"fingerprint"`
	Status      StoreStatus `json:"status"`

	// Reason is set for rejected outcomes.
	Reason string `json:"reason,omitempty"`
}
