/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

// DocumentType is a closed enumeration of document types accepted by the registry.
type DocumentType string

// DocumentTypeLPIntroduceGoods is a document for introducing goods produced domestically.
const DocumentTypeLPIntroduceGoods DocumentType = "LP_INTRODUCE_GOODS"

// Document describes a single submission to the registry.
// The fields form the registry wire format and are serialized verbatim,
// no validation of their contents is performed by the client.
type Document struct {
	Description    Description  `json:"description"`
	DocID          string       `json:"doc_id"`
	DocStatus      string       `json:"doc_status"`
	DocType        DocumentType `json:"doc_type"`
	ImportRequest  bool         `json:"importRequest"`
	OwnerINN       string       `json:"owner_inn"`
	ParticipantINN string       `json:"participant_inn"`
	ProducerINN    string       `json:"producer_inn"`
	ProductionDate string       `json:"production_date"`
	ProductionType string       `json:"production_type"`
	Products       []Product    `json:"products"`
	RegDate        string       `json:"reg_date"`
	RegNumber      string       `json:"reg_number"`
}

// Description identifies the participant on whose behalf the document is submitted.
type Description struct {
	ParticipantINN string `json:"participantInn"`
}

// Product is a single product entry of a Document.
type Product struct {
	CertificateDocument       string `json:"certificate_document"`
	CertificateDocumentDate   string `json:"certificate_document_date"`
	CertificateDocumentNumber string `json:"certificate_document_number"`
	OwnerINN                  string `json:"owner_inn"`
	ProducerINN               string `json:"producer_inn"`
	ProductionDate            string `json:"production_date"`
	TNVEDCode                 string `json:"tnved_code"`
	UITCode                   string `json:"uit_code"`
	UITUCode                  string `json:"uitu_code"`
}
