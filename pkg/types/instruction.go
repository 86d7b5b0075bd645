// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// WorkInstructionTextItem is one step of a work instruction. Text holds the
// instruction text, or the base64 encoding of an image payload.
type WorkInstructionTextItem struct {
	// ID is a freshly generated unique identifier.
	ID string `json:"id" yaml:"id"`

	// GroupName labels the table the item came from. Items are grouped by
	// it when displayed as a survey. May be empty.
	GroupName string `json:"group_name" yaml:"group_name"`

	Text string `json:"text" yaml:"text"`

	// SubText is reserved and currently always empty.
	SubText string `json:"sub_text" yaml:"sub_text"`
}

// WorkInstruction is the ordered list of items extracted from one document.
type WorkInstruction struct {
	Items          []WorkInstructionTextItem `json:"items" yaml:"items"`
	SourceFilename string                    `json:"source_filename" yaml:"source_filename"`
}

// RuleViolation explains why an extraction degraded or failed. A critical
// violation aborts the conversion.
type RuleViolation struct {
	Rule     string `json:"rule" yaml:"rule"`
	Message  string `json:"message" yaml:"message"`
	Critical bool   `json:"critical" yaml:"critical"`
}

// Penalty is one deduction from the conversion score.
type Penalty struct {
	Reason string `json:"reason" yaml:"reason"`
	Points int    `json:"points" yaml:"points"`
}

// Outcome is the category a conversion result is filed under.
type Outcome string

const (
	OutcomeSuccess             Outcome = "Success"
	OutcomeSuccessWithWarnings Outcome = "SuccessWithWarnings"
	OutcomeAborted             Outcome = "Aborted"

	// OutcomeFailed is only produced by the batch driver, when a document
	// could not be parsed or its result could not be written.
	OutcomeFailed Outcome = "Failed"
)

// ConversionResult is the outcome of converting one document.
type ConversionResult struct {
	Filename         string          `json:"filename" yaml:"filename"`
	ConversionScore  int             `json:"conversion_score" yaml:"conversion_score"`
	RuleViolations   []RuleViolation `json:"rule_violations" yaml:"rule_violations"`
	Penalties        []Penalty       `json:"penalties,omitempty" yaml:"penalties,omitempty"`
	WorkInstructions WorkInstruction `json:"work_instructions" yaml:"work_instructions"`
}

// AddRuleViolation records a violation. A critical violation marks the
// result as aborted.
func (r *ConversionResult) AddRuleViolation(rule string, critical bool, message string) {
	r.RuleViolations = append(r.RuleViolations, RuleViolation{
		Rule:     rule,
		Message:  message,
		Critical: critical,
	})
}

// Aborted reports whether any critical violation was recorded.
func (r ConversionResult) Aborted() bool {
	for _, v := range r.RuleViolations {
		if v.Critical {
			return true
		}
	}
	return false
}

// HasRuleViolations reports whether any violation was recorded.
func (r ConversionResult) HasRuleViolations() bool {
	return len(r.RuleViolations) > 0
}

// Outcome returns the category the result belongs to.
func (r ConversionResult) Outcome() Outcome {
	switch {
	case r.Aborted():
		return OutcomeAborted
	case r.HasRuleViolations():
		return OutcomeSuccessWithWarnings
	default:
		return OutcomeSuccess
	}
}
