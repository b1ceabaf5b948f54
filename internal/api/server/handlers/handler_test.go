package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bz888/loanchat/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (http.Handler, *CRM) {
	t.Helper()
	crm := NewCRM()
	h := NewHandler(crm)

	r := chi.NewRouter()
	r.Post("/chat", h.ChatHandler)
	r.Post("/upload-pan", h.UploadPanHandler)
	r.Post("/upload-aadhaar", h.UploadAadhaarHandler)
	r.Post("/upload-salary-slip", h.UploadSalarySlipHandler)
	r.Get("/download-sanction/{filename}", h.DownloadSanctionHandler)
	r.Post("/crm/signup", h.SignupHandler)
	r.Post("/crm/login", h.LoginHandler)
	r.Get("/profile/{id}", h.ProfileHandler)
	r.Get("/offer-mart/user/{id}/loans", h.LoansHandler)
	r.Post("/offer-mart/user/{id}/loans", h.AddLoanHandler)
	return r, crm
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doUpload(t *testing.T, h http.Handler, path, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	part.Write([]byte("scan"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeReply(t *testing.T, rec *httptest.ResponseRecorder) domain.ChatReply {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var reply domain.ChatReply
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reply))
	return reply
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["detail"]
}

func TestSignupLoginProfile(t *testing.T) {
	h, _ := newRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/crm/signup", signUpIn{
		Name: "Neha Sharma", Age: 28, City: "Pune", Phone: "9", Salary: 60000,
		Email: "neha@example.com", Password: "pw", PANNumber: "P", AadhaarNumber: "A",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var signed struct {
		Success  bool            `json:"success"`
		Customer domain.Customer `json:"customer"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&signed))
	assert.True(t, signed.Success)
	assert.Equal(t, 1, signed.Customer.ID)
	assert.Equal(t, 740, signed.Customer.CreditScore)
	assert.Equal(t, float64(600000), signed.Customer.PreapprovedLimit)

	rec = doJSON(t, h, http.MethodPost, "/crm/signup", signUpIn{Name: "Dup", Email: "NEHA@example.com", Password: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", detail(t, rec))

	rec = doJSON(t, h, http.MethodPost, "/crm/login", loginIn{Email: "neha@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", detail(t, rec))

	rec = doJSON(t, h, http.MethodPost, "/crm/login", loginIn{Email: "neha@example.com", Password: "pw"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/profile/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile domain.Customer
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&profile))
	assert.Equal(t, "Neha Sharma", profile.Name)

	rec = doJSON(t, h, http.MethodGet, "/profile/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatWalksTheWorkflow(t *testing.T) {
	h, crm := newRouter(t)
	customer, err := crm.SignUp(domain.Customer{Name: "Rohan", Email: "r@example.com", Salary: 30000}, "pw")
	require.NoError(t, err)

	reply := decodeReply(t, doJSON(t, h, http.MethodPost, "/chat", chatRequest{Message: "hi", Customer: customer}))
	require.NotEmpty(t, reply.SessionID)
	assert.Equal(t, domain.StageSales, reply.Stage)
	assert.Contains(t, reply.Response, "Hi Rohan")
	sid := reply.SessionID

	reply = decodeReply(t, doJSON(t, h, http.MethodPost, "/chat", chatRequest{Message: "I want 5 lakh", SessionID: sid}))
	assert.Equal(t, domain.StagePanSlip, reply.Stage)
	assert.True(t, reply.AwaitingPan)

	// wrong document for the stage
	rec := doUpload(t, h, "/upload-aadhaar?session_id="+sid, "aadhaar.png")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No Aadhaar Card expected at stage pan_slip", detail(t, rec))

	reply = decodeReply(t, doUpload(t, h, "/upload-pan?session_id="+sid, "pan.png"))
	assert.Equal(t, domain.StageAadhaarSlip, reply.Stage)

	// 500000 is above the 300000 limit derived from the salary
	reply = decodeReply(t, doUpload(t, h, "/upload-aadhaar?session_id="+sid, "aadhaar.png"))
	assert.Equal(t, domain.StageSalarySlip, reply.Stage)
	assert.True(t, reply.AwaitingSalarySlip)

	reply = decodeReply(t, doUpload(t, h, "/upload-salary-slip?session_id="+sid, "slip.pdf"))
	assert.Equal(t, domain.StageUnderwriting, reply.Stage)

	reply = decodeReply(t, doJSON(t, h, http.MethodPost, "/chat", chatRequest{Message: "status?", SessionID: sid}))
	assert.Equal(t, domain.StageSanction, reply.Stage)

	reply = decodeReply(t, doJSON(t, h, http.MethodPost, "/chat", chatRequest{Message: "ok", SessionID: sid}))
	assert.Equal(t, domain.StageComplete, reply.Stage)
	require.NotEmpty(t, reply.File)

	rec = doJSON(t, h, http.MethodGet, "/download-sanction/"+reply.File, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dear Rohan")

	rec = doJSON(t, h, http.MethodGet, "/offer-mart/user/1/loans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var loans struct {
		Loans []domain.Loan `json:"loans"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loans))
	require.Len(t, loans.Loans, 1)
	assert.Equal(t, "1_1", loans.Loans[0].ID)
	assert.Equal(t, float64(500000), loans.Loans[0].Amount)
	require.NotNil(t, loans.Loans[0].SanctionLetterPath)
	assert.Equal(t, reply.File, *loans.Loans[0].SanctionLetterPath)
}

func TestUploadPreconditions(t *testing.T) {
	h, _ := newRouter(t)

	rec := doUpload(t, h, "/upload-pan", "pan.png")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing session_id", detail(t, rec))

	rec = doUpload(t, h, "/upload-pan?session_id=nope", "pan.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/download-sanction/none.txt", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "File not found", detail(t, rec))
}

func TestGreetingWithoutCustomer(t *testing.T) {
	conv := newConversation("abc")
	assert.Equal(t, domain.StageGreeting, conv.handleMessage("hello").Stage)
	assert.Equal(t, domain.StageGreeting, conv.handleMessage("not interested").Stage)
	assert.Equal(t, domain.StageSales, conv.handleMessage("yes").Stage)
	assert.Contains(t, conv.handleMessage("dunno").Response, "loan amount in rupees")
	assert.Equal(t, domain.StagePanSlip, conv.handleMessage("2,50,000").Stage)
	assert.Equal(t, float64(250000), conv.amount)
}

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"250000":          250000,
		"₹ 1,20,000 only": 120000,
		"3 lakh":          300000,
		"1 crore":         10000000,
	}
	for in, want := range cases {
		got, ok := parseAmount(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parseAmount("a lot")
	assert.False(t, ok)
}

func TestAddLoan(t *testing.T) {
	h, crm := newRouter(t)
	_, err := crm.SignUp(domain.Customer{Name: "A", Email: "a@example.com"}, "pw")
	require.NoError(t, err)

	rec := doJSON(t, h, http.MethodPost, "/offer-mart/user/1/loans", domain.Loan{Name: "Car", Type: "auto", Amount: 800000, TenureMonths: 60, Status: "active"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, crm.Loans(1), 1)

	customer, ok := crm.Customer(1)
	require.True(t, ok)
	assert.Equal(t, 1, customer.ExistingLoans)
}

func TestUploadRejectsAboveTwiceTheLimit(t *testing.T) {
	conv := newConversation("abc")
	conv.customer = &domain.Customer{Name: "A", PreapprovedLimit: 100000}
	conv.stage = domain.StageAadhaarSlip
	conv.amount = 250000

	reply, ok := conv.handleUpload(domain.DocumentAadhaar, "aadhaar.png")
	require.True(t, ok)
	assert.Equal(t, domain.StageComplete, reply.Stage)
	assert.Empty(t, reply.File)
	assert.Contains(t, reply.Response, "cannot approve")
}
