package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/sublet-market/internal/api/middleware"
	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

// newContext builds an echo context for a JSON request. A non-empty userID
// simulates a request that already passed the Auth middleware.
func newContext(method, target string, body io.Reader, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.KeyUserID, userID)
		c.Set(middleware.KeyRole, role)
	}
	return c, rec
}

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	verifyFn   func(ctx context.Context, token string) error
	forgotFn   func(ctx context.Context, email string) error
	resetFn    func(ctx context.Context, token, password string) error
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) VerifyEmail(ctx context.Context, token string) error {
	return s.verifyFn(ctx, token)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return s.forgotFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, password string) error {
	return s.resetFn(ctx, token, password)
}

type stubUserService struct {
	meFn             func(ctx context.Context, caller domain.Caller) (*domain.User, error)
	updateProfileFn  func(ctx context.Context, caller domain.Caller, input ports.UpdateProfileInput) (*domain.User, error)
	changePasswordFn func(ctx context.Context, caller domain.Caller, current, next string) error
	deleteAccountFn  func(ctx context.Context, caller domain.Caller) error
	listUsersFn      func(ctx context.Context, caller domain.Caller, page, limit int) (*ports.ListUsersResult, error)
	deleteUserFn     func(ctx context.Context, caller domain.Caller, id string) error
}

func (s *stubUserService) Me(ctx context.Context, caller domain.Caller) (*domain.User, error) {
	return s.meFn(ctx, caller)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, caller domain.Caller, input ports.UpdateProfileInput) (*domain.User, error) {
	return s.updateProfileFn(ctx, caller, input)
}

func (s *stubUserService) ChangePassword(ctx context.Context, caller domain.Caller, current, next string) error {
	return s.changePasswordFn(ctx, caller, current, next)
}

func (s *stubUserService) DeleteAccount(ctx context.Context, caller domain.Caller) error {
	return s.deleteAccountFn(ctx, caller)
}

func (s *stubUserService) ListUsers(ctx context.Context, caller domain.Caller, page, limit int) (*ports.ListUsersResult, error) {
	return s.listUsersFn(ctx, caller, page, limit)
}

func (s *stubUserService) DeleteUser(ctx context.Context, caller domain.Caller, id string) error {
	return s.deleteUserFn(ctx, caller, id)
}

type stubListingService struct {
	searchFn    func(ctx context.Context, caller domain.Caller, input ports.ListingQueryInput) ([]ports.ListingView, error)
	getFn       func(ctx context.Context, caller domain.Caller, id string) (*ports.ListingView, error)
	createFn    func(ctx context.Context, caller domain.Caller, input ports.ListingInput) (*ports.ListingView, error)
	updateFn    func(ctx context.Context, caller domain.Caller, id string, patch ports.ListingPatch) (*ports.ListingView, error)
	deleteFn    func(ctx context.Context, caller domain.Caller, id string) error
	saveFn      func(ctx context.Context, caller domain.Caller, listingID string) error
	unsaveFn    func(ctx context.Context, caller domain.Caller, listingID string) error
	listSavedFn func(ctx context.Context, caller domain.Caller) ([]ports.ListingView, error)
}

func (s *stubListingService) Search(ctx context.Context, caller domain.Caller, input ports.ListingQueryInput) ([]ports.ListingView, error) {
	return s.searchFn(ctx, caller, input)
}

func (s *stubListingService) Get(ctx context.Context, caller domain.Caller, id string) (*ports.ListingView, error) {
	return s.getFn(ctx, caller, id)
}

func (s *stubListingService) Create(ctx context.Context, caller domain.Caller, input ports.ListingInput) (*ports.ListingView, error) {
	return s.createFn(ctx, caller, input)
}

func (s *stubListingService) Update(ctx context.Context, caller domain.Caller, id string, patch ports.ListingPatch) (*ports.ListingView, error) {
	return s.updateFn(ctx, caller, id, patch)
}

func (s *stubListingService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	return s.deleteFn(ctx, caller, id)
}

func (s *stubListingService) Save(ctx context.Context, caller domain.Caller, listingID string) error {
	return s.saveFn(ctx, caller, listingID)
}

func (s *stubListingService) Unsave(ctx context.Context, caller domain.Caller, listingID string) error {
	return s.unsaveFn(ctx, caller, listingID)
}

func (s *stubListingService) ListSaved(ctx context.Context, caller domain.Caller) ([]ports.ListingView, error) {
	return s.listSavedFn(ctx, caller)
}

type stubMessageService struct {
	sendFn          func(ctx context.Context, caller domain.Caller, input ports.SendMessageInput) (*domain.Message, error)
	conversationsFn func(ctx context.Context, caller domain.Caller) ([]domain.Conversation, error)
	threadFn        func(ctx context.Context, caller domain.Caller, otherID string, limit int) ([]*domain.Message, error)
	markReadFn      func(ctx context.Context, caller domain.Caller, otherID string) (int64, error)
	unreadCountFn   func(ctx context.Context, caller domain.Caller) (int64, error)
}

func (s *stubMessageService) Send(ctx context.Context, caller domain.Caller, input ports.SendMessageInput) (*domain.Message, error) {
	return s.sendFn(ctx, caller, input)
}

func (s *stubMessageService) Conversations(ctx context.Context, caller domain.Caller) ([]domain.Conversation, error) {
	return s.conversationsFn(ctx, caller)
}

func (s *stubMessageService) Thread(ctx context.Context, caller domain.Caller, otherID string, limit int) ([]*domain.Message, error) {
	return s.threadFn(ctx, caller, otherID, limit)
}

func (s *stubMessageService) MarkRead(ctx context.Context, caller domain.Caller, otherID string) (int64, error) {
	return s.markReadFn(ctx, caller, otherID)
}

func (s *stubMessageService) UnreadCount(ctx context.Context, caller domain.Caller) (int64, error) {
	return s.unreadCountFn(ctx, caller)
}

type stubModerationService struct {
	reportFn        func(ctx context.Context, caller domain.Caller, input ports.CreateReportInput) (*domain.Report, error)
	listReportsFn   func(ctx context.Context, caller domain.Caller, status string) ([]*domain.Report, error)
	resolveReportFn func(ctx context.Context, caller domain.Caller, input ports.ResolveReportInput) (*domain.Report, error)
	deleteListingFn func(ctx context.Context, caller domain.Caller, listingID string) error
}

func (s *stubModerationService) Report(ctx context.Context, caller domain.Caller, input ports.CreateReportInput) (*domain.Report, error) {
	return s.reportFn(ctx, caller, input)
}

func (s *stubModerationService) ListReports(ctx context.Context, caller domain.Caller, status string) ([]*domain.Report, error) {
	return s.listReportsFn(ctx, caller, status)
}

func (s *stubModerationService) ResolveReport(ctx context.Context, caller domain.Caller, input ports.ResolveReportInput) (*domain.Report, error) {
	return s.resolveReportFn(ctx, caller, input)
}

func (s *stubModerationService) DeleteListing(ctx context.Context, caller domain.Caller, listingID string) error {
	return s.deleteListingFn(ctx, caller, listingID)
}
