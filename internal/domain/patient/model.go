package patient

import (
	"time"

	"github.com/clinicdesk/clinicdesk/internal/platform/docstore"
)

// Collections and field names match the documents the mobile client reads
// and writes; renaming either would strand existing data.
const (
	appointmentsCollection = "appointments"
	diagnosesCollection    = "diagnoses"
	treatmentsCollection   = "treatments"
)

const StatusPending = "pending"

type Appointment struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patientId"`
	PatientName    string    `json:"patientName"`
	StartTime      time.Time `json:"start_time"`
	ReasonForVisit string    `json:"reason_for_visit"`
	VisitType      string    `json:"visitType"`
	PaymentMethod  string    `json:"payment_method"`
	PaymentAmount  string    `json:"payment_amount"`
	PaymentStatus  string    `json:"paymentStatus"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func appointmentFromDoc(doc *docstore.Document) Appointment {
	a := Appointment{
		ID:             doc.ID,
		PatientID:      docstore.AsString(doc.Data["patientId"]),
		PatientName:    docstore.AsString(doc.Data["patientName"]),
		ReasonForVisit: docstore.AsString(doc.Data["reason_for_visit"]),
		VisitType:      docstore.AsString(doc.Data["visitType"]),
		PaymentMethod:  docstore.AsString(doc.Data["payment_method"]),
		PaymentAmount:  docstore.AsString(doc.Data["payment_amount"]),
		PaymentStatus:  docstore.AsString(doc.Data["paymentStatus"]),
		Status:         docstore.AsString(doc.Data["status"]),
	}
	if t, ok := docstore.AsTime(doc.Data["start_time"]); ok {
		a.StartTime = t
	}
	if t, ok := docstore.AsTime(doc.Data["createdAt"]); ok {
		a.CreatedAt = t
	}
	return a
}

// Diagnosis is read-only from this codebase's perspective; clinicians write
// them through a separate system.
type Diagnosis struct {
	ID           string `json:"id"`
	PatientID    string `json:"patientId"`
	Prescription string `json:"prescription"`
	Instructions string `json:"instructions"`
}

func diagnosisFromDoc(doc *docstore.Document) Diagnosis {
	return Diagnosis{
		ID:           doc.ID,
		PatientID:    docstore.AsString(doc.Data["patientId"]),
		Prescription: docstore.AsString(doc.Data["prescription"]),
		Instructions: docstore.AsString(doc.Data["instructions"]),
	}
}

// Treatment is read-only; fetched per diagnosis.
type Treatment struct {
	ID             string `json:"id"`
	DiagnosisID    string `json:"diagnosisId"`
	MedicationName string `json:"medicationName"`
	DiagnoseName   string `json:"diagnoseName"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Refills        int    `json:"refills"`
	Notes          string `json:"notes,omitempty"`
}

func treatmentFromDoc(doc *docstore.Document) Treatment {
	return Treatment{
		ID:             doc.ID,
		DiagnosisID:    docstore.AsString(doc.Data["diagnosisId"]),
		MedicationName: docstore.AsString(doc.Data["medicationName"]),
		DiagnoseName:   docstore.AsString(doc.Data["diagnoseName"]),
		Dosage:         docstore.AsString(doc.Data["dosage"]),
		Frequency:      docstore.AsString(doc.Data["frequency"]),
		Refills:        docstore.AsInt(doc.Data["refills"]),
		Notes:          docstore.AsString(doc.Data["notes"]),
	}
}
