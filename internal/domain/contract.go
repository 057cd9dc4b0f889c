package domain

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/looplab/fsm"
)

type ContractStatus string

const (
	ContractDraft            ContractStatus = "DRAFT"
	ContractPendingSignature ContractStatus = "PENDING_SIGNATURE"
	ContractSigned           ContractStatus = "SIGNED"
	ContractExpired          ContractStatus = "EXPIRED"
	ContractCancelled        ContractStatus = "CANCELLED"
)

const (
	ContractEventSubmit = "submit"
	ContractEventSign   = "sign"
	ContractEventExpire = "expire"
	ContractEventCancel = "cancel"
)

const minSignatureLength = 6

var contractEvents = fsm.Events{
	{Name: ContractEventSubmit, Src: []string{string(ContractDraft)}, Dst: string(ContractPendingSignature)},
	{Name: ContractEventSign, Src: []string{string(ContractPendingSignature)}, Dst: string(ContractSigned)},
	{Name: ContractEventExpire, Src: []string{string(ContractDraft), string(ContractPendingSignature)}, Dst: string(ContractExpired)},
	{Name: ContractEventCancel, Src: []string{string(ContractDraft), string(ContractPendingSignature)}, Dst: string(ContractCancelled)},
}

type SalesContract struct {
	ContractID       uint64         `json:"contractId"`
	OrderID          uint64         `json:"orderId"`
	ContractNumber   string         `json:"contractNumber"`
	ContractDate     time.Time      `json:"contractDate"`
	ContractTerms    string         `json:"contractTerms,omitempty"`
	Status           ContractStatus `json:"contractStatus"`
	SigningDate      *time.Time     `json:"signingDate,omitempty"`
	DigitalSignature string         `json:"digitalSignature,omitempty"`
	ContractFileURL  string         `json:"contractFileUrl,omitempty"`
}

// CanSign reports whether the contract is waiting for a signature.
func (c SalesContract) CanSign() bool {
	return fsm.NewFSM(string(c.Status), contractEvents, fsm.Callbacks{}).Can(ContractEventSign)
}

func (c SalesContract) Terminal() bool {
	return c.Status == ContractSigned || c.Status == ContractExpired || c.Status == ContractCancelled
}

// ValidateSignature applies the signing form's rules: at least six
// characters with at least one letter and one digit. It proves nothing
// cryptographically.
func ValidateSignature(signature string) error {
	var hasLetter, hasDigit bool
	for _, r := range signature {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	var errs ValidationErrors
	if utf8.RuneCountInString(signature) < minSignatureLength {
		errs = append(errs, ValidationError{Field: "digitalSignature", Message: "must be at least 6 characters"})
	}
	if !hasLetter || !hasDigit {
		errs = append(errs, ValidationError{Field: "digitalSignature", Message: "must contain at least one letter and one digit"})
	}
	return errs.OrNil()
}
