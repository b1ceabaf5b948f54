package domain

import (
	"encoding/json"
	"io"
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is a single transcript entry. File holds the sanction letter name
// when the backend attaches one.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
	File   string `json:"file,omitempty"`
	Failed bool   `json:"-"`
}

// Customer is the decoded view of the CRM record. The record itself is kept
// as the backend sent it (Session.CustomerJSON); this struct is for display
// and the id lookup.
type Customer struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	City             string  `json:"city"`
	Phone            string  `json:"phone"`
	Age              int     `json:"age"`
	Salary           float64 `json:"salary"`
	PANNumber        string  `json:"pan_number"`
	AadhaarNumber    string  `json:"aadhaar_number"`
	CreditScore      int     `json:"credit_score"`
	PreapprovedLimit float64 `json:"preapproved_limit"`
	ExistingLoans    int     `json:"existing_loans"`
}

type Loan struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	Amount             float64  `json:"amount"`
	InterestRate       float64  `json:"interest_rate"`
	TenureMonths       int      `json:"tenure_months"`
	Status             string   `json:"status"`
	SanctionLetterPath *string  `json:"sanction_letter_path"`
	Purpose            *string  `json:"purpose,omitempty"`
	EMI                *float64 `json:"emi,omitempty"`
}

// Session pairs the backend issued chat session id with the cached customer.
// CustomerJSON is the stored record byte for byte, Customer its decoded view.
type Session struct {
	SessionID    string
	Customer     *Customer
	CustomerJSON json.RawMessage
}

func (s Session) LoggedIn() bool {
	return s.Customer != nil
}

// ChatReply is the response shape shared by /chat and the upload endpoints.
type ChatReply struct {
	Response           string `json:"response,omitempty"`
	Message            string `json:"message,omitempty"`
	Stage              Stage  `json:"stage"`
	AwaitingSalarySlip bool   `json:"awaitingSalarySlip"`
	AwaitingPan        bool   `json:"awaitingPan"`
	AwaitingAadhaar    bool   `json:"awaitingAadhaar"`
	File               string `json:"file,omitempty"`
	SessionID          string `json:"session_id,omitempty"`
}

// Text returns the bot text. Current backends send "response", older ones "message".
func (r *ChatReply) Text() string {
	if r.Response != "" {
		return r.Response
	}
	return r.Message
}

func (r *ChatReply) Flags() Awaiting {
	return Awaiting{
		SalarySlip: r.AwaitingSalarySlip,
		Pan:        r.AwaitingPan,
		Aadhaar:    r.AwaitingAadhaar,
	}
}

// Awaiting mirrors the per-document flags of the last reply.
type Awaiting struct {
	SalarySlip bool
	Pan        bool
	Aadhaar    bool
}

// Document is a file picked by the user for upload.
type Document struct {
	Name string
	Body io.Reader
}
