package model

import (
	"time"

	"github.com/google/uuid"
)

// MerchantProfile holds the business details collected by merchant signup.
type MerchantProfile struct {
	AccountID               uuid.UUID `json:"account_id" gorm:"type:char(36);primaryKey"`
	BusinessName            string    `json:"business_name" gorm:"uniqueIndex;size:255;not null"`
	ContactPersonName       string    `json:"contact_person_name" gorm:"size:255;not null"`
	BankName                string    `json:"bank_name" gorm:"size:255;not null"`
	AccountNumber           string    `json:"account_number" gorm:"size:64;not null"`
	PreferredPaymentMethods string    `json:"preferred_payment_methods" gorm:"size:255;not null"`
	BusinessLicense         []byte    `json:"-" gorm:"type:longblob;not null"`
	BusinessLicenseType     string    `json:"business_license_type" gorm:"size:100"`
	IDProof                 []byte    `json:"-" gorm:"type:longblob;not null"`
	IDProofType             string    `json:"id_proof_type" gorm:"size:100"`
	AgreeTerms              bool      `json:"agree_terms" gorm:"not null"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
