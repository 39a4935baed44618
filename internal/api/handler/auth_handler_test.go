package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/devmatch/account-service/internal/core/domain"
	"github.com/devmatch/account-service/internal/core/ports"
)

type stubAccountService struct {
	registerFn     func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	authenticateFn func(ctx context.Context, in ports.SignInInput) (string, *domain.Account, error)
	getFn          func(ctx context.Context, id string) (*domain.Account, error)
	getByEmailFn   func(ctx context.Context, email string) (*domain.Account, error)
	listFn         func(ctx context.Context) ([]*domain.Account, error)
	updateFn       func(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error)
	softDeleteFn   func(ctx context.Context, id string) (*domain.Account, error)
}

func (s *stubAccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAccountService) Authenticate(ctx context.Context, in ports.SignInInput) (string, *domain.Account, error) {
	return s.authenticateFn(ctx, in)
}

func (s *stubAccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *stubAccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.listFn(ctx)
}

func (s *stubAccountService) Update(ctx context.Context, id string, patch domain.AccountPatch) (*domain.Account, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubAccountService) SoftDelete(ctx context.Context, id string) (*domain.Account, error) {
	return s.softDeleteFn(ctx, id)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAccountService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.Account, error) {
			if in.Email != "A@x.com" || in.FirstName != "Alice" || len(in.Skills) != 2 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: "acc-1", Email: "a@x.com"}, nil
		},
	}
	handler := NewAuthHandler(stub, false)

	req := jsonRequest(http.MethodPost, "/v1/api/signUp",
		`{"firstName":"Alice","lastName":"Walker","age":29,"contactNumber":"+447700900123","email":"A@x.com","password":"Str0ng!Pass","primaryRole":"Backend Engineer","skills":["go","sql"]}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp signUpResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "User signed up successfully" || resp.User != "acc-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_SignUp_PropagatesServiceErrors(t *testing.T) {
	e := echo.New()
	stub := &stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			return nil, &domain.DuplicateKeyError{Field: "email"}
		},
	}
	handler := NewAuthHandler(stub, false)

	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/api/signUp", `{"email":"a@x.com"}`), httptest.NewRecorder())
	if err := handler.SignUp(c); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestAuthHandler_SignUp_BadPayload(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAccountService{}, false)

	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/api/signUp", `{"age":"old"`), httptest.NewRecorder())
	err := handler.SignUp(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_SignIn_SetsCookie(t *testing.T) {
	e := echo.New()
	stub := &stubAccountService{
		authenticateFn: func(_ context.Context, in ports.SignInInput) (string, *domain.Account, error) {
			if in.Email != "a@x.com" || in.Password != "Str0ng!Pass" {
				t.Fatalf("unexpected credentials: %+v", in)
			}
			return "signed.jwt.token", &domain.Account{ID: "acc-1"}, nil
		},
	}
	handler := NewAuthHandler(stub, true)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/api/signIn", `{"email":"a@x.com","password":"Str0ng!Pass"}`), rec)

	if err := handler.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp signInResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "signed.jwt.token" || resp.User != "acc-1" || resp.Message != "User signed in successfully" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	ck := cookies[0]
	if ck.Name != "token" || ck.Value != "signed.jwt.token" {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
	if !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteStrictMode || ck.MaxAge != 3600 || ck.Path != "/" {
		t.Fatalf("unexpected cookie attributes: %+v", ck)
	}
}

func TestAuthHandler_SignIn_InvalidCredentials(t *testing.T) {
	e := echo.New()
	stub := &stubAccountService{
		authenticateFn: func(context.Context, ports.SignInInput) (string, *domain.Account, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, false)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/api/signIn", `{"email":"a@x.com","password":"nope"}`), rec)

	if err := handler.SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie expected on failure")
	}
}

func TestAuthHandler_SignIn_UnknownEmail(t *testing.T) {
	e := echo.New()
	stub := &stubAccountService{
		authenticateFn: func(context.Context, ports.SignInInput) (string, *domain.Account, error) {
			return "", nil, domain.ErrNotFound
		},
	}
	handler := NewAuthHandler(stub, false)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/api/signIn", `{"email":"nobody@x.com","password":"Str0ng!Pass"}`), rec)

	if err := handler.SignIn(c); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Message != "User not found with the provided email" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie expected on failure")
	}
}
