// Package fakeapi is an in-memory stand-in for the diagram backend. It serves
// the same routes and JSON shapes, issues opaque bearer tokens and lets tests
// force failures and revoke sessions. cmd/devserver runs it for local work.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/umlgen/internal/client/models"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

// Recorded is one request as seen by the backend.
type Recorded struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	RequestID     string
}

type failure struct {
	status int
	detail string
	times  int // <0 means forever
}

type account struct {
	user         models.User
	passwordHash []byte
}

// passwordCost is the bcrypt minimum; accounts live only in memory.
const passwordCost = bcrypt.MinCost

// Backend implements http.Handler.
type Backend struct {
	router *mux.Router

	mu       sync.Mutex
	accounts map[string]*account // by email
	tokens   map[string]int64    // token -> user id
	diagrams []models.Diagram
	nextUser int64
	nextDiag int64
	requests []Recorded
	failures map[string]*failure // "METHOD /path"
	now      func() time.Time
}

func NewBackend() *Backend {
	b := &Backend{
		accounts: make(map[string]*account),
		tokens:   make(map[string]int64),
		failures: make(map[string]*failure),
		now:      time.Now,
	}
	b.router = b.routes()
	return b
}

func (b *Backend) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(b.record, b.injectFailures)

	r.HandleFunc("/auth/register", b.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", b.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", b.authed(b.handleMe)).Methods(http.MethodGet)

	r.HandleFunc("/diagrams/generate", b.authed(b.handleGenerate)).Methods(http.MethodPost)
	r.HandleFunc("/diagrams/save", b.authed(b.handleSave)).Methods(http.MethodPost)
	r.HandleFunc("/diagrams/", b.authed(b.handleListDiagrams)).Methods(http.MethodGet)
	r.HandleFunc("/diagrams/{id:[0-9]+}", b.authed(b.handleGetDiagram)).Methods(http.MethodGet)
	r.HandleFunc("/diagrams/{id:[0-9]+}", b.authed(b.handleDeleteDiagram)).Methods(http.MethodDelete)

	r.HandleFunc("/admin/stats", b.admin(b.handleStats)).Methods(http.MethodGet)
	r.HandleFunc("/admin/users", b.admin(b.handleListUsers)).Methods(http.MethodGet)
	r.HandleFunc("/admin/users/{id:[0-9]+}", b.admin(b.handleDeleteUser)).Methods(http.MethodDelete)

	return r
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.router.ServeHTTP(w, r)
}

// AddUser creates an account directly, bypassing /auth/register.
func (b *Backend) AddUser(email, password string, isAdmin bool, plan models.SubscriptionPlan) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(email, password, isAdmin, plan)
}

func (b *Backend) addUserLocked(email, password string, isAdmin bool, plan models.SubscriptionPlan) models.User {
	b.nextUser++
	if plan == "" {
		plan = models.PlanFree
	}
	u := models.User{
		ID:               b.nextUser,
		Email:            email,
		SubscriptionPlan: plan,
		IsAdmin:          isAdmin,
		CreatedAt:        models.Timestamp{Time: b.now().UTC()},
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		panic(err)
	}
	b.accounts[strings.ToLower(email)] = &account{user: u, passwordHash: hash}
	return u
}

// IssueToken mints a signed token for userID and marks it live.
func (b *Backend) IssueToken(userID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issueTokenLocked(userID)
}

func (b *Backend) issueTokenLocked(userID int64) string {
	token, err := generateToken(userID, b.now())
	if err != nil {
		panic(err)
	}
	b.tokens[token] = userID
	return token
}

// RevokeAll invalidates every issued token, so the next authenticated call
// gets a 401.
func (b *Backend) RevokeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens = make(map[string]int64)
}

// AddDiagram stores d for its UserID and returns it with an ID assigned.
func (b *Backend) AddDiagram(d models.Diagram) models.Diagram {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextDiag++
	d.ID = b.nextDiag
	if d.CreatedAt.IsZero() {
		d.CreatedAt = models.Timestamp{Time: b.now().UTC()}
	}
	b.diagrams = append(b.diagrams, d)
	return d
}

// Fail makes the next `times` requests to method+path answer status with
// detail; times < 0 keeps failing until ClearFailures, 0 means once.
func (b *Backend) Fail(method, path string, status int, detail string, times int) {
	if times == 0 {
		times = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = &failure{status: status, detail: detail, times: times}
}

func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]*failure)
}

// Requests returns a copy of everything received so far.
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Recorded, len(b.requests))
	copy(out, b.requests)
	return out
}

// Diagrams returns a copy of the stored diagrams.
func (b *Backend) Diagrams() []models.Diagram {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Diagram, len(b.diagrams))
	copy(out, b.diagrams)
	return out
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		b.mu.Lock()
		f, ok := b.failures[key]
		if ok {
			if f.times > 0 {
				f.times--
				if f.times == 0 {
					delete(b.failures, key)
				}
			}
		}
		b.mu.Unlock()

		if ok {
			writeDetail(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, u *account)

func (b *Backend) currentAccount(r *http.Request) *account {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return nil
	}

	id, err := userIDFromToken(token)
	if err != nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.tokens[token]; !ok {
		return nil
	}
	for _, a := range b.accounts {
		if a.user.ID == id {
			return a
		}
	}
	return nil
}

func (b *Backend) authed(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := b.currentAccount(r)
		if a == nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		h(w, r, a)
	}
}

func (b *Backend) admin(h authedHandler) http.HandlerFunc {
	return b.authed(func(w http.ResponseWriter, r *http.Request, a *account) {
		if !a.user.IsAdmin {
			writeDetail(w, http.StatusForbidden, "The user doesn't have enough privileges")
			return
		}
		h(w, r, a)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeValidation(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []map[string]any{{"loc": []string{"body", field}, "msg": msg, "type": "value_error"}},
	})
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if !strings.Contains(in.Email, "@") {
		writeValidation(w, "email", "value is not a valid email address")
		return
	}
	if len(in.Password) < 6 {
		writeValidation(w, "password", "String should have at least 6 characters")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.accounts[strings.ToLower(in.Email)]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	u := b.addUserLocked(in.Email, in.Password, false, models.PlanFree)
	writeJSON(w, http.StatusCreated, models.AuthResponse{AccessToken: b.issueTokenLocked(u.ID), TokenType: "bearer", User: u})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[strings.ToLower(in.Email)]
	if !ok || bcrypt.CompareHashAndPassword(a.passwordHash, []byte(in.Password)) != nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: b.issueTokenLocked(a.user.ID), TokenType: "bearer", User: a.user})
}

func (b *Backend) handleMe(w http.ResponseWriter, _ *http.Request, a *account) {
	writeJSON(w, http.StatusOK, a.user)
}

// MermaidFor returns the canned markup the fake generator produces.
func MermaidFor(t models.DiagramType, prompt string) string {
	title := strings.Fields(prompt)[0]
	switch t {
	case models.DiagramSequence:
		return fmt.Sprintf("sequenceDiagram\n    User->>%s: request\n    %s-->>User: response", title, title)
	case models.DiagramUseCase:
		return fmt.Sprintf("flowchart LR\n    actor((User)) --> uc1([%s])", title)
	case models.DiagramActivity:
		return fmt.Sprintf("flowchart TD\n    start([Start]) --> step[%s] --> stop([End])", title)
	default:
		return fmt.Sprintf("classDiagram\n    class %s", title)
	}
}

func (b *Backend) handleGenerate(w http.ResponseWriter, r *http.Request, _ *account) {
	var in models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if len(strings.TrimSpace(in.Prompt)) < 10 {
		writeValidation(w, "prompt", "String should have at least 10 characters")
		return
	}

	dt := models.DiagramClass
	if in.DiagramType != nil {
		dt = *in.DiagramType
	}
	if !dt.Valid() {
		writeJSON(w, http.StatusOK, models.GenerateResult{Success: false, DiagramType: dt, Error: "Unsupported diagram type"})
		return
	}
	writeJSON(w, http.StatusOK, models.GenerateResult{Success: true, MermaidCode: MermaidFor(dt, in.Prompt), DiagramType: dt})
}

func (b *Backend) handleSave(w http.ResponseWriter, r *http.Request, a *account) {
	var in models.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if in.MermaidCode == "" {
		writeValidation(w, "mermaid_code", "Field required")
		return
	}
	title := in.Title
	if title == "" {
		title = "Untitled Diagram"
	}
	d := b.AddDiagram(models.Diagram{
		UserID:      a.user.ID,
		Title:       title,
		Prompt:      in.Prompt,
		MermaidCode: in.MermaidCode,
		DiagramType: in.DiagramType,
	})
	writeJSON(w, http.StatusCreated, d)
}

func (b *Backend) handleListDiagrams(w http.ResponseWriter, r *http.Request, a *account) {
	page := max(queryInt(r, "page", 1), 1)
	pageSize := max(queryInt(r, "page_size", 20), 1)

	b.mu.Lock()
	mine := make([]models.Diagram, 0)
	for _, d := range b.diagrams {
		if d.UserID == a.user.ID {
			mine = append(mine, d)
		}
	}
	b.mu.Unlock()

	sort.SliceStable(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt.Time) })

	from := min((page-1)*pageSize, len(mine))
	to := min(from+pageSize, len(mine))

	writeJSON(w, http.StatusOK, models.DiagramList{Diagrams: mine[from:to], Total: len(mine), Page: page, PageSize: pageSize})
}

func (b *Backend) findDiagramLocked(id, userID int64) int {
	for i, d := range b.diagrams {
		if d.ID == id && d.UserID == userID {
			return i
		}
	}
	return -1
}

func (b *Backend) handleGetDiagram(w http.ResponseWriter, r *http.Request, a *account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.findDiagramLocked(pathID(r), a.user.ID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Diagram not found")
		return
	}
	writeJSON(w, http.StatusOK, b.diagrams[i])
}

func (b *Backend) handleDeleteDiagram(w http.ResponseWriter, r *http.Request, a *account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.findDiagramLocked(pathID(r), a.user.ID)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Diagram not found")
		return
	}
	b.diagrams = append(b.diagrams[:i], b.diagrams[i+1:]...)
	writeJSON(w, http.StatusOK, models.Ack{Message: "Diagram deleted successfully"})
}

func (b *Backend) handleStats(w http.ResponseWriter, _ *http.Request, _ *account) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := models.AdminStats{
		TotalUsers:     len(b.accounts),
		TotalDiagrams:  len(b.diagrams),
		DiagramsByType: make(map[string]int),
		RecentActivity: make([]models.Activity, 0),
	}
	emails := make(map[int64]string, len(b.accounts))
	for _, a := range b.accounts {
		emails[a.user.ID] = a.user.Email
		if a.user.SubscriptionPlan.IsPro() {
			stats.ProUsers++
		}
	}

	recent := make([]models.Diagram, len(b.diagrams))
	copy(recent, b.diagrams)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt.Time) })

	for i, d := range recent {
		stats.DiagramsByType[string(d.DiagramType)]++
		if i < 5 {
			email, ok := emails[d.UserID]
			if !ok {
				email = "Unknown"
			}
			stats.RecentActivity = append(stats.RecentActivity, models.Activity{
				ID: d.ID, Title: d.Title, Type: d.DiagramType, CreatedAt: d.CreatedAt, UserEmail: email,
			})
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (b *Backend) handleListUsers(w http.ResponseWriter, r *http.Request, _ *account) {
	skip := max(queryInt(r, "skip", 0), 0)
	limit := max(queryInt(r, "limit", 100), 0)

	b.mu.Lock()
	users := make([]models.User, 0, len(b.accounts))
	for _, a := range b.accounts {
		users = append(users, a.user)
	}
	b.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	from := min(skip, len(users))
	to := min(from+limit, len(users))
	writeJSON(w, http.StatusOK, users[from:to])
}

func (b *Backend) handleDeleteUser(w http.ResponseWriter, r *http.Request, _ *account) {
	id := pathID(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	for email, a := range b.accounts {
		if a.user.ID != id {
			continue
		}
		delete(b.accounts, email)
		kept := b.diagrams[:0]
		for _, d := range b.diagrams {
			if d.UserID != id {
				kept = append(kept, d)
			}
		}
		b.diagrams = kept
		for tok, uid := range b.tokens {
			if uid == id {
				delete(b.tokens, tok)
			}
		}
		writeJSON(w, http.StatusOK, models.Ack{Message: "User deleted successfully"})
		return
	}
	writeDetail(w, http.StatusNotFound, "User not found")
}
