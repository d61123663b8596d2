package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sarkie/sarkie-backend/internal/logging"
	"github.com/sarkie/sarkie-backend/internal/server/auth"
	"github.com/sarkie/sarkie-backend/internal/server/config"
	"github.com/sarkie/sarkie-backend/internal/server/metrics"
	"github.com/sarkie/sarkie-backend/internal/server/models"
	"github.com/sarkie/sarkie-backend/internal/server/services"
)

var errBoom = errors.New("boom")

type fakeAuth struct {
	registerFn func(name, email, password string) (*models.User, error)
	sendFn     func(email string) error
	verifyFn   func(email, code string) error
	loginFn    func(email, password string) (*services.LoginResult, error)
	tokens     map[string]*auth.Claims
	users      map[int64]*models.User
}

func (f *fakeAuth) Register(_ context.Context, name, email, password string) (*models.User, error) {
	return f.registerFn(name, email, password)
}

func (f *fakeAuth) SendVerificationCode(_ context.Context, email string) error {
	return f.sendFn(email)
}

func (f *fakeAuth) VerifyCode(_ context.Context, email, code string) error {
	return f.verifyFn(email, code)
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*services.LoginResult, error) {
	return f.loginFn(email, password)
}

func (f *fakeAuth) Authenticate(token string) (*auth.Claims, error) {
	if c, ok := f.tokens[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

func (f *fakeAuth) Me(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

type fakeSupplements struct {
	created  []models.Supplement
	effects  []models.SupplementEffect
	createFn func(userID int64, name, dosage, frequency string) (*models.Supplement, error)
	deleteFn func(id int64) error
	updateFn func(id int64, name, dosage, frequency string) (*models.Supplement, error)
	effectFn func(userID int64, supplementID *int64, effectType, description string) (*models.SupplementEffect, error)
	delEffFn func(id int64) error
	listErr  error
}

func (f *fakeSupplements) Create(_ context.Context, userID int64, name, dosage, frequency string) (*models.Supplement, error) {
	return f.createFn(userID, name, dosage, frequency)
}

func (f *fakeSupplements) ListByUser(_ context.Context, userID int64) ([]models.Supplement, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Supplement{}
	for _, s := range f.created {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSupplements) Update(_ context.Context, id int64, name, dosage, frequency string) (*models.Supplement, error) {
	return f.updateFn(id, name, dosage, frequency)
}

func (f *fakeSupplements) Delete(_ context.Context, id int64) error {
	return f.deleteFn(id)
}

func (f *fakeSupplements) AddEffect(_ context.Context, userID int64, supplementID *int64, effectType, description string) (*models.SupplementEffect, error) {
	return f.effectFn(userID, supplementID, effectType, description)
}

func (f *fakeSupplements) DeleteEffect(_ context.Context, id int64) error {
	return f.delEffFn(id)
}

func (f *fakeSupplements) ListWithEffects(_ context.Context, userID int64) ([]models.SupplementWithEffect, error) {
	out := []models.SupplementWithEffect{}
	for _, s := range f.created {
		if s.UserID == userID {
			out = append(out, models.SupplementWithEffect{SupplementID: s.ID, Name: s.Name, Dosage: s.Dosage, Frequency: s.Frequency})
		}
	}
	return out, nil
}

func (f *fakeSupplements) ListEffectsByUser(_ context.Context, userID int64) ([]models.SupplementEffect, error) {
	out := []models.SupplementEffect{}
	for _, e := range f.effects {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeConversations struct {
	appendFn func(userID int64, message, sender string) (*models.ConversationMessage, error)
	history  []models.ConversationMessage
}

func (f *fakeConversations) Append(_ context.Context, userID int64, message, sender string) (*models.ConversationMessage, error) {
	return f.appendFn(userID, message, sender)
}

func (f *fakeConversations) List(_ context.Context, _ int64) ([]models.ConversationMessage, error) {
	return f.history, nil
}

type fakeMemories struct {
	stored map[int64]*models.Memory
	setErr error
}

func (f *fakeMemories) Get(_ context.Context, userID int64) (*models.Memory, error) {
	if m, ok := f.stored[userID]; ok {
		return m, nil
	}
	return nil, notFound()
}

func (f *fakeMemories) Set(_ context.Context, userID int64, instruction string) (*models.Memory, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	m := &models.Memory{UserID: userID, Instruction: instruction}
	f.stored[userID] = m
	return m, nil
}

func (f *fakeMemories) Clear(_ context.Context, userID int64) error {
	if _, ok := f.stored[userID]; !ok {
		return notFound()
	}
	delete(f.stored, userID)
	return nil
}

type fakeChat struct {
	calls []chatCall
	reply string
	err   error
}

type chatCall struct {
	message string
	userID  *int64
}

func (f *fakeChat) Chat(_ context.Context, message string, userID *int64) (*services.ChatResult, error) {
	f.calls = append(f.calls, chatCall{message: message, userID: userID})
	if f.err != nil {
		return nil, f.err
	}
	return &services.ChatResult{Reply: f.reply}, nil
}

type testEnv struct {
	srv      *HTTPServer
	cfg      *config.Config
	auth     *fakeAuth
	supp     *fakeSupplements
	conv     *fakeConversations
	memories *fakeMemories
	chat     *fakeChat
	metrics  *metrics.Metrics
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddrHTTP = "127.0.0.1:0"
	cfg.ChatRateLimit = 0
	for _, fn := range mutate {
		fn(cfg)
	}

	env := &testEnv{
		cfg:      cfg,
		auth:     &fakeAuth{tokens: map[string]*auth.Claims{}, users: map[int64]*models.User{}},
		supp:     &fakeSupplements{},
		conv:     &fakeConversations{},
		memories: &fakeMemories{stored: map[int64]*models.Memory{}},
		chat:     &fakeChat{reply: "hello"},
		metrics:  metrics.New(),
	}
	env.srv = NewHTTPServer(cfg, logging.Nop(), Services{
		Auth:          env.auth,
		Supplements:   env.supp,
		Conversations: env.conv,
		Memories:      env.memories,
		Chat:          env.chat,
	}, env.metrics)
	return env
}

func (e *testEnv) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}
