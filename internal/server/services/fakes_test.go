package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sarkie/sarkie-backend/internal/common"
	"github.com/sarkie/sarkie-backend/internal/dbx"
	"github.com/sarkie/sarkie-backend/internal/server/completion"
	"github.com/sarkie/sarkie-backend/internal/server/mailer"
	"github.com/sarkie/sarkie-backend/internal/server/models"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/conversations"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/effects"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/memories"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/supplements"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/users"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/verificationcodes"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// memStore backs every fake repository. errs injects a failure by operation
// name, e.g. "conversations.Create".
type memStore struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time
	errs   map[string]error

	users         map[string]*models.User
	codes         map[string]models.VerificationCode
	supplements   []models.Supplement
	effects       []models.SupplementEffect
	conversations []models.ConversationMessage
	memories      map[int64]models.Memory
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		errs:     map[string]error{},
		users:    map[string]*models.User{},
		codes:    map[string]models.VerificationCode{},
		memories: map[int64]models.Memory{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) fail(op string) error {
	return s.errs[op]
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return &fakeUsers{m.s} }
func (m *fakeRepoManager) VerificationCodes(dbx.DBTX) verificationcodes.Repository {
	return &fakeCodes{m.s}
}
func (m *fakeRepoManager) Supplements(dbx.DBTX) supplements.Repository { return &fakeSupplements{m.s} }
func (m *fakeRepoManager) Effects(dbx.DBTX) effects.Repository         { return &fakeEffects{m.s} }
func (m *fakeRepoManager) Conversations(dbx.DBTX) conversations.Repository {
	return &fakeConversations{m.s}
}
func (m *fakeRepoManager) Memories(dbx.DBTX) memories.Repository { return &fakeMemories{m.s} }

// --- users ---

type fakeUsers struct{ s *memStore }

func (r *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.Create"); err != nil {
		return nil, err
	}
	if _, ok := r.s.users[u.Email]; ok {
		return nil, common.ErrUserExists
	}
	c := *u
	c.ID = r.s.id()
	c.CreatedAt = r.s.tick()
	r.s.users[c.Email] = &c
	out := c
	return &out, nil
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.GetByEmail"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsers) MarkVerified(_ context.Context, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.MarkVerified"); err != nil {
		return err
	}
	u, ok := r.s.users[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.Verified = true
	return nil
}

// --- verification codes ---

type fakeCodes struct{ s *memStore }

func (r *fakeCodes) Upsert(_ context.Context, c *models.VerificationCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("codes.Upsert"); err != nil {
		return err
	}
	r.s.codes[c.Email] = *c
	return nil
}

func (r *fakeCodes) Find(_ context.Context, email string) (*models.VerificationCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.codes[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *fakeCodes) Delete(_ context.Context, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.codes, email)
	return nil
}

// --- supplements ---

type fakeSupplements struct{ s *memStore }

func (r *fakeSupplements) Create(_ context.Context, sup *models.Supplement) (*models.Supplement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("supplements.Create"); err != nil {
		return nil, err
	}
	c := *sup
	c.ID = r.s.id()
	r.s.supplements = append(r.s.supplements, c)
	return &c, nil
}

func (r *fakeSupplements) ListByUser(_ context.Context, userID int64) ([]models.Supplement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("supplements.ListByUser"); err != nil {
		return nil, err
	}
	out := make([]models.Supplement, 0)
	for _, s := range r.s.supplements {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSupplements) Update(_ context.Context, sup *models.Supplement) (*models.Supplement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.supplements {
		if r.s.supplements[i].ID == sup.ID {
			r.s.supplements[i].Name = sup.Name
			r.s.supplements[i].Dosage = sup.Dosage
			r.s.supplements[i].Frequency = sup.Frequency
			out := r.s.supplements[i]
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeSupplements) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, s := range r.s.supplements {
		if s.ID == id {
			r.s.supplements = append(r.s.supplements[:i], r.s.supplements[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *fakeSupplements) ListWithEffects(_ context.Context, userID int64) ([]models.SupplementWithEffect, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.SupplementWithEffect, 0)
	for _, s := range r.s.supplements {
		if s.UserID != userID {
			continue
		}
		matched := false
		for _, e := range r.s.effects {
			if e.SupplementID != nil && *e.SupplementID == s.ID && e.UserID == userID {
				et, ed := e.EffectType, e.EffectDescription
				out = append(out, models.SupplementWithEffect{SupplementID: s.ID, Name: s.Name, Dosage: s.Dosage,
					Frequency: s.Frequency, EffectType: &et, EffectDescription: &ed})
				matched = true
			}
		}
		if !matched {
			out = append(out, models.SupplementWithEffect{SupplementID: s.ID, Name: s.Name, Dosage: s.Dosage, Frequency: s.Frequency})
		}
	}
	return out, nil
}

// --- effects ---

type fakeEffects struct{ s *memStore }

func (r *fakeEffects) Create(_ context.Context, e *models.SupplementEffect) (*models.SupplementEffect, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *e
	c.ID = r.s.id()
	c.Timestamp = r.s.tick()
	r.s.effects = append(r.s.effects, c)
	return &c, nil
}

func (r *fakeEffects) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, e := range r.s.effects {
		if e.ID == id {
			r.s.effects = append(r.s.effects[:i], r.s.effects[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *fakeEffects) byUser(userID int64) []models.SupplementEffect {
	out := make([]models.SupplementEffect, 0)
	for _, e := range r.s.effects {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func (r *fakeEffects) ListByUser(_ context.Context, userID int64) ([]models.SupplementEffect, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.byUser(userID)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EffectType != out[j].EffectType {
			return out[i].EffectType < out[j].EffectType
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (r *fakeEffects) ListLatest(_ context.Context, userID int64) ([]models.SupplementEffect, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("effects.ListLatest"); err != nil {
		return nil, err
	}
	out := r.byUser(userID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// --- conversations ---

type fakeConversations struct{ s *memStore }

func (r *fakeConversations) Create(_ context.Context, m *models.ConversationMessage) (*models.ConversationMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("conversations.Create"); err != nil {
		return nil, err
	}
	if m.Sender == common.SenderAI {
		if err := r.s.fail("conversations.Create.ai"); err != nil {
			return nil, err
		}
	}
	c := *m
	c.ID = r.s.id()
	c.Timestamp = r.s.tick()
	r.s.conversations = append(r.s.conversations, c)
	return &c, nil
}

func (r *fakeConversations) Exists(_ context.Context, userID int64, message, sender string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("conversations.Exists"); err != nil {
		return false, err
	}
	for _, c := range r.s.conversations {
		if c.UserID == userID && c.Message == message && c.Sender == sender {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConversations) ListByUser(_ context.Context, userID int64) ([]models.ConversationMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.ConversationMessage, 0)
	for _, c := range r.s.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeConversations) Recent(ctx context.Context, userID int64, limit int) ([]models.ConversationMessage, error) {
	if err := r.s.fail("conversations.Recent"); err != nil {
		return nil, err
	}
	all, _ := r.ListByUser(ctx, userID)
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

// --- memories ---

type fakeMemories struct{ s *memStore }

func (r *fakeMemories) Get(_ context.Context, userID int64) (*models.Memory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("memories.Get"); err != nil {
		return nil, err
	}
	m, ok := r.s.memories[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &m, nil
}

func (r *fakeMemories) Upsert(_ context.Context, userID int64, instruction string) (*models.Memory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("memories.Upsert"); err != nil {
		return nil, err
	}
	m := models.Memory{UserID: userID, Instruction: instruction, UpdatedAt: r.s.tick()}
	r.s.memories[userID] = m
	return &m, nil
}

func (r *fakeMemories) Delete(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.memories[userID]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.memories, userID)
	return nil
}

// --- mailer / provider ---

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeProvider struct {
	mu       sync.Mutex
	reply    string
	err      error
	received [][]completion.Message
}

func (f *fakeProvider) Complete(_ context.Context, messages []completion.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, append([]completion.Message(nil), messages...))
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
