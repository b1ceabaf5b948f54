package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/bz888/loanchat/internal/domain"
	"github.com/bz888/loanchat/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20

// Handler serves the backend contract the client consumes, backed by memory.
type Handler struct {
	crm *CRM

	mu       sync.Mutex
	sessions map[string]*conversation
	letters  map[string][]byte

	localLogger *logger.Logger
}

func NewHandler(crm *CRM) *Handler {
	return &Handler{
		crm:         crm,
		sessions:    make(map[string]*conversation),
		letters:     make(map[string][]byte),
		localLogger: logger.NewLogger("dev backend"),
	}
}

type chatRequest struct {
	Message   string           `json:"message"`
	Customer  *domain.Customer `json:"customer"`
	SessionID string           `json:"session_id"`
}

type signUpIn struct {
	Name          string  `json:"name"`
	Age           int     `json:"age"`
	City          string  `json:"city"`
	Phone         string  `json:"phone"`
	Salary        float64 `json:"salary"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	PANNumber     string  `json:"pan_number"`
	AadhaarNumber string  `json:"aadhaar_number"`
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"detail": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Detail writes a FastAPI style error body.
func Detail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"detail": message})
}

func (h *Handler) conversationFor(id string) *conversation {
	if conv, ok := h.sessions[id]; ok && id != "" {
		return conv
	}
	conv := newConversation(uuid.NewString())
	h.sessions[conv.id] = conv
	return conv
}

func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Detail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	defer r.Body.Close()

	h.mu.Lock()
	conv := h.conversationFor(req.SessionID)
	if req.Customer != nil {
		if known, ok := h.crm.Customer(req.Customer.ID); ok {
			conv.customer = known
		} else {
			conv.customer = req.Customer
		}
	}
	reply := conv.handleMessage(req.Message)
	if reply.File != "" {
		h.letters[reply.File] = []byte(conv.letterText())
		if conv.customer != nil {
			h.crm.AddLoan(conv.customer.ID, sanctionedLoan(conv, reply.File))
		}
	}
	h.mu.Unlock()

	h.localLogger.Infow("chat", "session_id", reply.SessionID, "stage", reply.Stage)
	JSON(w, http.StatusOK, reply)
}

func (h *Handler) UploadPanHandler(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, domain.DocumentPan)
}

func (h *Handler) UploadAadhaarHandler(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, domain.DocumentAadhaar)
}

func (h *Handler) UploadSalarySlipHandler(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, domain.DocumentSalarySlip)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, doc domain.DocumentKind) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		Detail(w, http.StatusBadRequest, "Missing session_id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		Detail(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()
	size, err := io.Copy(io.Discard, file)
	if err != nil {
		Detail(w, http.StatusBadRequest, "Could not read upload")
		return
	}

	h.mu.Lock()
	conv, ok := h.sessions[sessionID]
	var reply domain.ChatReply
	var accepted bool
	var stage domain.Stage
	if ok {
		stage = conv.stage
		reply, accepted = conv.handleUpload(doc, header.Filename)
	}
	h.mu.Unlock()

	if !ok {
		Detail(w, http.StatusNotFound, "Session not found")
		return
	}
	if !accepted {
		Detail(w, http.StatusBadRequest, fmt.Sprintf("No %s expected at stage %s", doc.Label(), stage))
		return
	}

	h.localLogger.Infow("upload", "session_id", sessionID, "document", string(doc), "bytes", size)
	JSON(w, http.StatusOK, reply)
}

func (h *Handler) DownloadSanctionHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")

	h.mu.Lock()
	data, ok := h.letters[name]
	h.mu.Unlock()

	if !ok {
		Detail(w, http.StatusNotFound, "File not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var in signUpIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		Detail(w, http.StatusUnprocessableEntity, "Invalid signup payload")
		return
	}
	if in.Email == "" || in.Password == "" || in.Name == "" {
		Detail(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	created, err := h.crm.SignUp(domain.Customer{
		Name:          in.Name,
		Email:         in.Email,
		City:          in.City,
		Phone:         in.Phone,
		Age:           in.Age,
		Salary:        in.Salary,
		PANNumber:     in.PANNumber,
		AadhaarNumber: in.AadhaarNumber,
	}, in.Password)
	if errors.Is(err, errEmailTaken) {
		Detail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		Detail(w, http.StatusInternalServerError, err.Error())
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"success": true, "customer": created})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var in loginIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		Detail(w, http.StatusUnprocessableEntity, "Invalid login payload")
		return
	}
	customer, err := h.crm.Authenticate(in.Email, in.Password)
	if err != nil {
		Detail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"success": true, "customer": customer})
}

func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		Detail(w, http.StatusBadRequest, "Invalid customer id")
		return
	}
	customer, ok := h.crm.Customer(id)
	if !ok {
		Detail(w, http.StatusNotFound, "Customer not found")
		return
	}
	JSON(w, http.StatusOK, customer)
}

func (h *Handler) LoansHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		Detail(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"loans": h.crm.Loans(id)})
}

func (h *Handler) AddLoanHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		Detail(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var loan domain.Loan
	if err := json.NewDecoder(r.Body).Decode(&loan); err != nil {
		Detail(w, http.StatusUnprocessableEntity, "Invalid loan payload")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"message": "Loan added", "loan": h.crm.AddLoan(id, loan)})
}

func sanctionedLoan(conv *conversation, letter string) domain.Loan {
	purpose := "personal"
	return domain.Loan{
		Name:               "Personal Loan",
		Type:               "personal",
		Amount:             conv.amount,
		InterestRate:       11.5,
		TenureMonths:       conv.tenure,
		Status:             "sanctioned",
		SanctionLetterPath: &letter,
		Purpose:            &purpose,
	}
}
