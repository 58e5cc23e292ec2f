package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"staffhub/config"
	"staffhub/internal/repository/mockrepo"
	"staffhub/pkg/jwt"
)

// ── 测试替身 ──

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type fakeBlacklist struct {
	tokens map[string]time.Duration
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{tokens: make(map[string]time.Duration)}
}

func (b *fakeBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.tokens[jti] = ttl
	return nil
}

func (b *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := b.tokens[jti]
	return ok, nil
}

// fixClock 固定当前时间，测试结束后恢复
func fixClock(t *testing.T, now time.Time) {
	t.Helper()
	orig := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = orig })
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          "test-secret-0123456789",
			AccessTokenTTL:     15 * time.Minute,
			RefreshTokenTTL:    24 * time.Hour,
			RegistrationOpened: true,
		},
		Mail: config.MailConfig{AdminAddress: "admin@example.com"},
		Jobs: config.JobsConfig{ReviewDueSoonDays: 7, ReviewDedupWindow: 24 * time.Hour},
	}
}

type testEnv struct {
	store     *mockrepo.Store
	mailer    *fakeMailer
	blacklist *fakeBlacklist
	jwtMgr    *jwt.Manager
	svc       *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	store := mockrepo.New()
	mailer := &fakeMailer{}
	blacklist := newFakeBlacklist()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewService(cfg, store.Repository(), jwtMgr, blacklist, mailer, zap.NewNop())
	return &testEnv{store: store, mailer: mailer, blacklist: blacklist, jwtMgr: jwtMgr, svc: svc}
}

func strPtr(s string) *string { return &s }
