package models

import "github.com/google/uuid"

// SeedSamples returns the demonstration applications shown to a new session
// when sample seeding is enabled.
func SeedSamples(sessionID string) []*Application {
	return []*Application{
		{
			ID:              uuid.New(),
			SessionID:       sessionID,
			SchemeID:        1,
			SchemeName:      "PM-KISAN Samman Nidhi",
			ApplicationDate: "2024-01-15",
			Status:          StatusApproved,
			Progress:        100,
			Amount:          "₹2,000",
			Reference:       "PMK2024001234",
			NextPayment:     "2024-06-15",
			Documents:       []string{"Aadhaar", "Bank Account", "Land Records"},
			Timeline: Timeline{
				{Date: "2024-01-15", Status: "submitted", Text: "Application Submitted"},
				{Date: "2024-01-20", Status: "review", Text: "Under Review"},
				{Date: "2024-01-25", Status: "verified", Text: "Documents Verified"},
				{Date: "2024-02-01", Status: "approved", Text: "Application Approved"},
			},
		},
		{
			ID:              uuid.New(),
			SessionID:       sessionID,
			SchemeID:        2,
			SchemeName:      "Ayushman Bharat - PMJAY",
			ApplicationDate: "2024-02-01",
			Status:          StatusProcessing,
			Progress:        60,
			Amount:          "₹5 lakh coverage",
			Reference:       "AB2024005678",
			Documents:       []string{"Aadhaar", "Ration Card", "Income Certificate"},
			Timeline: Timeline{
				{Date: "2024-02-01", Status: "submitted", Text: "Application Submitted"},
				{Date: "2024-02-05", Status: "review", Text: "Under Review"},
				{Date: "2024-02-10", Status: "verification", Text: "Document Verification in Progress"},
			},
		},
		{
			ID:              uuid.New(),
			SessionID:       sessionID,
			SchemeID:        4,
			SchemeName:      "Pradhan Mantri Awas Yojana",
			ApplicationDate: "2024-01-10",
			Status:          StatusRejected,
			Progress:        30,
			Amount:          "₹2.67 lakh subsidy",
			Reference:       "PMAY2024001122",
			Documents:       []string{"Income Certificate", "Property Papers", "Bank Account"},
			RejectionReason: "Income exceeds eligibility criteria",
			Timeline: Timeline{
				{Date: "2024-01-10", Status: "submitted", Text: "Application Submitted"},
				{Date: "2024-01-15", Status: "review", Text: "Under Review"},
				{Date: "2024-01-22", Status: "rejected", Text: "Application Rejected"},
			},
		},
	}
}
