package models

import "time"

type DocumentStatus string

const (
	DocumentStatusActive     DocumentStatus = "ACTIVE"
	DocumentStatusSuperseded DocumentStatus = "SUPERSEDED"
)

type DocumentType string

// Closed set of society document categories. Uploads carrying a tag
// outside this set are rejected.
const (
	TypeApplicationMembership  DocumentType = "APPLICATION_MEMBERSHIP"
	TypePaymentReceipt         DocumentType = "PAYMENT_RECEIPT"
	TypeShareCertificate       DocumentType = "SHARE_CERTIFICATE"
	TypeFlatRegistration       DocumentType = "FLAT_REGISTRATION"
	TypeSocietyMap             DocumentType = "SOCIETY_MAP"
	TypeCompletionCertificate  DocumentType = "COMPLETION_CERTIFICATE"
	TypeCompletionCertificate2 DocumentType = "COMPLETION_CERTIFICATE_2"
	TypeOccupationCertificate  DocumentType = "OCCUPATION_CERTIFICATE"
	TypeNOC                    DocumentType = "NOC"
	TypeNomination             DocumentType = "NOMINATION"
	TypeTaxOwnership           DocumentType = "TAX_OWNERSHIP"
	TypeMSEBConnection         DocumentType = "MSEB_CONNECTION"
	TypePipegasOwnership       DocumentType = "PIPEGAS_OWNERSHIP"
	TypeBankLoan               DocumentType = "BANK_LOAN"
	TypeDeedDocuments          DocumentType = "DEED_DOCUMENTS"
	TypeCommitteeMeetingCopy   DocumentType = "COMMITTEE_MEETING_COPY"
)

var documentTypes = map[DocumentType]struct{}{
	TypeApplicationMembership:  {},
	TypePaymentReceipt:         {},
	TypeShareCertificate:       {},
	TypeFlatRegistration:       {},
	TypeSocietyMap:             {},
	TypeCompletionCertificate:  {},
	TypeCompletionCertificate2: {},
	TypeOccupationCertificate:  {},
	TypeNOC:                    {},
	TypeNomination:             {},
	TypeTaxOwnership:           {},
	TypeMSEBConnection:         {},
	TypePipegasOwnership:       {},
	TypeBankLoan:               {},
	TypeDeedDocuments:          {},
	TypeCommitteeMeetingCopy:   {},
}

func (t DocumentType) Valid() bool {
	_, ok := documentTypes[t]
	return ok
}

type Document struct {
	ID           string
	UserID       string
	Title        string
	DocumentType DocumentType
	Description  *string
	Shareholding *string
	FileName     string
	Locator      string
	SizeBytes    int64
	MimeType     string
	Status       DocumentStatus
	IsSuperseded bool
	SupersededAt *time.Time
	CreatedAt    time.Time
}

// DocumentFilter narrows owner-scoped listings. Zero values match everything.
type DocumentFilter struct {
	Type   DocumentType
	Status DocumentStatus
}
