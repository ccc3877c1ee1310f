package auth_test

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	auth "github.com/prestalink/auth"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) SignIn(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) SignUp(ctx context.Context, msg auth.RegisterUserMessage) (string, *auth.User, error) {
	args := m.Called(ctx, msg)
	var user *auth.User
	if args.Get(1) != nil {
		user = args.Get(1).(*auth.User)
	}
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthenticator) SignOut(ctx context.Context, authorizationHeader string) error {
	args := m.Called(ctx, authorizationHeader)
	return args.Error(0)
}

func (m *MockAuthenticator) AuthorizeUser(ctx context.Context, rawToken string) (*auth.User, error) {
	args := m.Called(ctx, rawToken)
	var user *auth.User
	if args.Get(0) != nil {
		user = args.Get(0).(*auth.User)
	}
	return user, args.Error(1)
}

func (m *MockAuthenticator) ValidateUser(ctx context.Context, email, password string) (*auth.User, error) {
	args := m.Called(ctx, email, password)
	var user *auth.User
	if args.Get(0) != nil {
		user = args.Get(0).(*auth.User)
	}
	return user, args.Error(1)
}

// stubUsers implements auth.Users backed by an in-memory map keyed by
// email. Only the methods the orchestrator exercises are implemented.
type stubUsers struct {
	repository.Repository[*auth.User]

	byEmail   map[string]*auth.User
	createErr error
	online    map[uuid.UUID]bool
}

func newStubUsers(seed ...*auth.User) *stubUsers {
	s := &stubUsers{
		byEmail: map[string]*auth.User{},
		online:  map[uuid.UUID]bool{},
	}
	for _, u := range seed {
		s.byEmail[u.Email] = u
	}
	return s
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, repository.NewRecordNotFound().WithMetadata(map[string]any{"email": email})
}

func (s *stubUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.User, error) {
	return s.GetByEmail(ctx, email)
}

func (s *stubUsers) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, taken := s.byEmail[user.Email]; taken {
		return nil, errDuplicateKey
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if len(user.Roles) == 0 {
		user.Roles = []auth.Role{auth.RoleClient}
	}
	if user.VerificationStatus == "" {
		user.VerificationStatus = auth.VerificationNotSubmitted
	}
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *auth.User) (*auth.User, error) {
	return s.Register(ctx, user)
}

func (s *stubUsers) Create(ctx context.Context, record *auth.User, criteria ...repository.InsertCriteria) (*auth.User, error) {
	return s.Register(ctx, record)
}

func (s *stubUsers) CreateTx(ctx context.Context, tx bun.IDB, record *auth.User, criteria ...repository.InsertCriteria) (*auth.User, error) {
	return s.Register(ctx, record)
}

func (s *stubUsers) MarkOnline(ctx context.Context, id uuid.UUID, online bool) error {
	s.online[id] = online
	return nil
}

func (s *stubUsers) MarkOnlineTx(ctx context.Context, tx bun.IDB, id uuid.UUID, online bool) error {
	return s.MarkOnline(ctx, id, online)
}

// stubSessionLogs implements auth.SessionLogs in memory
type stubSessionLogs struct {
	repository.Repository[*auth.SessionLog]

	logs      map[uuid.UUID]*auth.SessionLog
	createErr error
}

func newStubSessionLogs() *stubSessionLogs {
	return &stubSessionLogs{logs: map[uuid.UUID]*auth.SessionLog{}}
}

func (s *stubSessionLogs) Create(ctx context.Context, record *auth.SessionLog, criteria ...repository.InsertCriteria) (*auth.SessionLog, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.LoginAt.IsZero() {
		record.LoginAt = time.Now()
	}
	s.logs[record.ID] = record
	return record, nil
}

func (s *stubSessionLogs) CreateTx(ctx context.Context, tx bun.IDB, record *auth.SessionLog, criteria ...repository.InsertCriteria) (*auth.SessionLog, error) {
	return s.Create(ctx, record)
}

func (s *stubSessionLogs) GetByLogID(ctx context.Context, id uuid.UUID) (*auth.SessionLog, error) {
	if record, ok := s.logs[id]; ok {
		return record, nil
	}
	return nil, repository.NewRecordNotFound().WithMetadata(map[string]any{"log_id": id.String()})
}

func (s *stubSessionLogs) GetByLogIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*auth.SessionLog, error) {
	return s.GetByLogID(ctx, id)
}

func (s *stubSessionLogs) MarkLoggedOut(ctx context.Context, id uuid.UUID, at time.Time) error {
	if record, ok := s.logs[id]; ok {
		record.LogoutAt = &at
	}
	return nil
}

func (s *stubSessionLogs) MarkLoggedOutTx(ctx context.Context, tx bun.IDB, id uuid.UUID, at time.Time) error {
	return s.MarkLoggedOut(ctx, id, at)
}

// stubRepoManager wires the stubs behind auth.RepositoryManager.
// RunInTx invokes the callback directly with a zero tx.
type stubRepoManager struct {
	users       *stubUsers
	sessionLogs *stubSessionLogs
	txErr       error
}

func newStubRepoManager(users *stubUsers, logs *stubSessionLogs) *stubRepoManager {
	return &stubRepoManager{users: users, sessionLogs: logs}
}

func (m *stubRepoManager) Validate() error { return nil }
func (m *stubRepoManager) MustValidate()   {}

func (m *stubRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	return f(ctx, bun.Tx{})
}

func (m *stubRepoManager) Users() auth.Users             { return m.users }
func (m *stubRepoManager) SessionLogs() auth.SessionLogs { return m.sessionLogs }

// errDuplicateKey mimics a driver-level unique constraint failure
var errDuplicateKey = errors.New("UNIQUE constraint failed: users.email")

// MockContext mocks the router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}
