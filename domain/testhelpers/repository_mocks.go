package testhelpers

import (
	"context"
	"time"

	"quizclash/domain/entities"
	"quizclash/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByUID(ctx context.Context, uid string) (*entities.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByReferralCode(ctx context.Context, code string) (*entities.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Credit(ctx context.Context, uid string, amount int64) (int64, error) {
	args := m.Called(ctx, uid, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Debit(ctx context.Context, uid string, amount int64) (int64, error) {
	args := m.Called(ctx, uid, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) IncrementStats(ctx context.Context, uid string, won bool) error {
	args := m.Called(ctx, uid, won)
	return args.Error(0)
}

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *entities.GameRoom) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, id string) (*entities.GameRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameRoom), args.Error(1)
}

func (m *MockGameRepository) GetByIDForUpdate(ctx context.Context, id string) (*entities.GameRoom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameRoom), args.Error(1)
}

func (m *MockGameRepository) AddPlayer(ctx context.Context, gameID string, player *entities.GamePlayer) error {
	args := m.Called(ctx, gameID, player)
	return args.Error(0)
}

func (m *MockGameRepository) UpdatePlayer(ctx context.Context, gameID string, player *entities.GamePlayer) error {
	args := m.Called(ctx, gameID, player)
	return args.Error(0)
}

func (m *MockGameRepository) Update(ctx context.Context, game *entities.GameRoom) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) ListOpen(ctx context.Context, kind entities.GameKind) ([]*entities.GameRoom, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GameRoom), args.Error(1)
}

func (m *MockGameRepository) ListExpiredQuestions(ctx context.Context, cutoff time.Time) ([]string, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, tx *entities.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByUser(ctx context.Context, uid string, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, uid, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, w *entities.WithdrawalRequest) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByUser(ctx context.Context, uid string, limit int) ([]*entities.WithdrawalRequest, error) {
	args := m.Called(ctx, uid, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) UpdateStatus(ctx context.Context, id int64, status entities.WithdrawalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockPaymentOrderRepository is a mock implementation of PaymentOrderRepository
type MockPaymentOrderRepository struct {
	mock.Mock
}

func (m *MockPaymentOrderRepository) Create(ctx context.Context, order *entities.PaymentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPaymentOrderRepository) GetForUpdate(ctx context.Context, orderID string) (*entities.PaymentOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) MarkPaid(ctx context.Context, orderID, paymentID string) error {
	args := m.Called(ctx, orderID, paymentID)
	return args.Error(0)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Create(ctx context.Context, r *entities.Referral) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReferralRepository) CountByReferrer(ctx context.Context, referrerUID string) (int, error) {
	args := m.Called(ctx, referrerUID)
	return args.Int(0), args.Error(1)
}

// MockPlatformEarningsRepository is a mock implementation of PlatformEarningsRepository
type MockPlatformEarningsRepository struct {
	mock.Mock
}

func (m *MockPlatformEarningsRepository) AddCommission(ctx context.Context, day time.Time, kind entities.GameKind, amount int64) error {
	args := m.Called(ctx, day, kind, amount)
	return args.Error(0)
}

func (m *MockPlatformEarningsRepository) TotalSince(ctx context.Context, day time.Time) (int64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(int64), args.Error(1)
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetRandom(ctx context.Context, count int) ([]entities.Question, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Question), args.Error(1)
}

// MockTriviaClient is a mock implementation of TriviaClient
type MockTriviaClient struct {
	mock.Mock
}

func (m *MockTriviaClient) FetchQuestions(ctx context.Context, count int) ([]entities.Question, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Question), args.Error(1)
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, amount int64, receipt string) (string, error) {
	args := m.Called(ctx, amount, receipt)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// NoopEventPublisher swallows events for tests that do not assert on them
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(event events.Event) error { return nil }

// MockQuestionService is a mock implementation of QuestionService
type MockQuestionService struct {
	mock.Mock
}

func (m *MockQuestionService) QuestionsFor(ctx context.Context, kind entities.GameKind) ([]entities.Question, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Question), args.Error(1)
}

// MockSettlementService is a mock implementation of SettlementService
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, gameID string) (*entities.GameRoom, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameRoom), args.Error(1)
}
