package avail

import (
	"encoding/json"
	"time"
)

// LogKind tags a digest log entry, decoded once at ingestion.
type LogKind string

const (
	LogConsensus         LogKind = "Consensus"
	LogSeal              LogKind = "Seal"
	LogPreRuntime        LogKind = "PreRuntime"
	LogOther             LogKind = "Other"
	LogAuthoritiesChange LogKind = "AuthoritiesChange"
	LogChangesTrieRoot   LogKind = "ChangesTrieRoot"
)

// DigestLog is one consensus-metadata entry of a block header. Engine is only
// set for the kinds that carry a consensus-engine id.
type DigestLog struct {
	Kind   LogKind `json:"kind"`
	Engine string  `json:"engine,omitempty"`
	Data   string  `json:"data"`
}

// Header is a decoded block header. Extension carries the raw versioned
// header-extension sidecar when the block has one.
type Header struct {
	Number         uint64          `json:"number"`
	Hash           string          `json:"hash"`
	ParentHash     string          `json:"parent_hash"`
	StateRoot      string          `json:"state_root"`
	ExtrinsicsRoot string          `json:"extrinsics_root"`
	Digest         []DigestLog     `json:"digest"`
	Extension      json.RawMessage `json:"extension,omitempty"`
}

// Inspect is the structured byte inspection of a raw extrinsic payload: a tree
// of named fields, each with its encoded byte segments as unprefixed hex.
type Inspect struct {
	Name  string    `json:"name,omitempty"`
	Outer []string  `json:"outer,omitempty"`
	Inner []Inspect `json:"inner,omitempty"`
}

// Extrinsic is one decoded call of a block.
type Extrinsic struct {
	Index     int      `json:"index"`
	Module    string   `json:"module"`
	Call      string   `json:"call"`
	Hash      string   `json:"hash"`
	IsSigned  bool     `json:"is_signed"`
	Signer    string   `json:"signer,omitempty"`
	Signature string   `json:"signature,omitempty"`
	Nonce     uint32   `json:"nonce"`
	ArgsName  []string `json:"args_name"`
	ArgsValue []string `json:"args_value"`
	Docs      string   `json:"docs,omitempty"` // runtime documentation of the call kind
	Raw       string   `json:"raw"`            // canonical hex encoding, used for fee queries
	Inspect   *Inspect `json:"inspect,omitempty"`
}

// Phase states whether an event arose from applying a specific extrinsic.
type Phase struct {
	IsApplyExtrinsic bool `json:"is_apply_extrinsic"`
	ExtrinsicIndex   int  `json:"extrinsic_index"`
}

// Event is one decoded runtime event of a block.
type Event struct {
	Index     int      `json:"index"`
	Module    string   `json:"module"`
	Method    string   `json:"method"`
	Phase     Phase    `json:"phase"`
	ArgsName  []string `json:"args_name"`
	ArgsValue []string `json:"args_value"`
	Docs      string   `json:"docs,omitempty"` // runtime documentation of the event kind
}

// DecodedBlock is one fully decoded chain block as supplied by the node gateway.
type DecodedBlock struct {
	Header      Header      `json:"header"`
	Extrinsics  []Extrinsic `json:"extrinsics"`
	Events      []Event     `json:"events"`
	Timestamp   time.Time   `json:"timestamp"`
	SpecVersion uint32      `json:"spec_version"`
}

// FeeDetails itemizes the inclusion fee of an extrinsic. Empty fields mean the
// component was not reported.
type FeeDetails struct {
	BaseFee           string `json:"base_fee,omitempty"`
	LenFee            string `json:"len_fee,omitempty"`
	AdjustedWeightFee string `json:"adjusted_weight_fee,omitempty"`
	// NoInclusionFee is true when the node reported no inclusion-fee data at all.
	NoInclusionFee bool `json:"no_inclusion_fee,omitempty"`
}

// AccountInfo carries the raw balance fields of one address. Frozen is the
// newer single-field representation; MiscFrozen/FeeFrozen the older pair.
type AccountInfo struct {
	Address    string `json:"address"`
	Free       string `json:"free"`
	Reserved   string `json:"reserved"`
	Frozen     string `json:"frozen,omitempty"`
	MiscFrozen string `json:"misc_frozen,omitempty"`
	FeeFrozen  string `json:"fee_frozen,omitempty"`
}

// SessionInfo is the current session id with its validator set.
type SessionInfo struct {
	ID         uint64   `json:"id"`
	Validators []string `json:"validators"`
}
