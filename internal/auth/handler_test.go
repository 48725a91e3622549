package auth_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/budget-approval/internal/auth"
	"github.com/frahmantamala/budget-approval/internal/user"
)

func testHandlerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("Auth Handler", func() {
	var (
		repo    *mockUserRepository
		tokens  *auth.JWTTokenGenerator
		service *auth.Service
		handler *auth.Handler
	)

	secret := "0123456789abcdef0123456789abcdef"

	register := func(email, password, role string) {
		body, _ := json.Marshal(auth.RegisterDTO{Email: email, Password: password, Role: role})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Register(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))
	}

	login := func(email, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(auth.LoginDTO{Email: email, Password: password})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	cookieByName := func(rec *httptest.ResponseRecorder, name string) *http.Cookie {
		for _, c := range rec.Result().Cookies() {
			if c.Name == name {
				return c
			}
		}
		return nil
	}

	BeforeEach(func() {
		repo = newMockUserRepository()
		tokens = auth.NewJWTTokenGenerator(secret, time.Hour)
		service = auth.NewService(repo, tokens, 0, testHandlerLogger())
		handler = auth.NewHandler(service, false)
	})

	Describe("Register", func() {
		It("confirms a successful registration", func() {
			body := bytes.NewBufferString(`{"email":"alice@example.com","password":"s3cret","role":"Employee"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("User registered successfully!"))
		})

		It("maps a duplicate email to 400", func() {
			register("alice@example.com", "s3cret", "Employee")

			body := bytes.NewBufferString(`{"email":"alice@example.com","password":"other","role":"Employee"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			var resp map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("User already exists."))
		})

		It("rejects an unknown role", func() {
			body := bytes.NewBufferString(`{"email":"alice@example.com","password":"s3cret","role":"Root"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
			rec := httptest.NewRecorder()

			handler.Register(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			register("alice@example.com", "s3cret", "Manager")
		})

		It("sets HttpOnly session cookies and returns role and user id", func() {
			rec := login("alice@example.com", "s3cret")

			Expect(rec.Code).To(Equal(http.StatusOK))

			jwtCookie := cookieByName(rec, "jwt")
			Expect(jwtCookie).NotTo(BeNil())
			Expect(jwtCookie.HttpOnly).To(BeTrue())
			Expect(jwtCookie.SameSite).To(Equal(http.SameSiteStrictMode))
			Expect(jwtCookie.Path).To(Equal("/"))
			Expect(jwtCookie.Expires).To(BeTemporally("~", time.Now().Add(time.Hour), 10*time.Second))

			userIDCookie := cookieByName(rec, "userId")
			Expect(userIDCookie).NotTo(BeNil())

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("Login successful!"))
			Expect(resp["role"]).To(Equal("Manager"))
			Expect(resp["userId"]).To(Equal(userIDCookie.Value))
		})

		It("returns 401 for wrong credentials without cookies", func() {
			rec := login("alice@example.com", "wrong")

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Result().Cookies()).To(BeEmpty())

			var resp map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("Invalid email or password."))
		})
	})

	Describe("Logout", func() {
		It("expires both session cookies", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
			rec := httptest.NewRecorder()

			handler.Logout(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))

			jwtCookie := cookieByName(rec, "jwt")
			Expect(jwtCookie).NotTo(BeNil())
			Expect(jwtCookie.Value).To(BeEmpty())
			Expect(jwtCookie.MaxAge).To(BeNumerically("<", 0))

			userIDCookie := cookieByName(rec, "userId")
			Expect(userIDCookie).NotTo(BeNil())
			Expect(userIDCookie.MaxAge).To(BeNumerically("<", 0))
		})
	})

	Describe("AuthMiddleware", func() {
		var (
			next      http.Handler
			seenUser  *auth.SessionUser
			nextCalls int
		)

		BeforeEach(func() {
			register("alice@example.com", "s3cret", "Employee")
			seenUser = nil
			nextCalls = 0
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalls++
				seenUser, _ = auth.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
		})

		It("accepts a session cookie and derives identity from claims", func() {
			rec := login("alice@example.com", "s3cret")
			jwtCookie := cookieByName(rec, "jwt")

			req := httptest.NewRequest(http.MethodGet, "/api/budgets/user", nil)
			req.AddCookie(jwtCookie)
			mrec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(mrec, req)

			Expect(mrec.Code).To(Equal(http.StatusOK))
			Expect(nextCalls).To(Equal(1))
			Expect(seenUser).NotTo(BeNil())
			Expect(seenUser.Email).To(Equal("alice@example.com"))
			Expect(seenUser.Role).To(Equal(user.RoleEmployee))
		})

		It("accepts a Bearer token as fallback", func() {
			rec := login("alice@example.com", "s3cret")
			jwtCookie := cookieByName(rec, "jwt")

			req := httptest.NewRequest(http.MethodGet, "/api/budgets/user", nil)
			req.Header.Set("Authorization", "Bearer "+jwtCookie.Value)
			mrec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(mrec, req)

			Expect(mrec.Code).To(Equal(http.StatusOK))
			Expect(seenUser).NotTo(BeNil())
		})

		It("returns a normalized 401 JSON body without a token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/budgets/user", nil)
			mrec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(mrec, req)

			Expect(mrec.Code).To(Equal(http.StatusUnauthorized))
			Expect(nextCalls).To(BeZero())

			var resp map[string]string
			Expect(json.Unmarshal(mrec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("Unauthorized access. Please log in with a valid token."))
		})

		It("returns 401 for a tampered token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/budgets/user", nil)
			req.AddCookie(&http.Cookie{Name: "jwt", Value: "tampered.token.value"})
			mrec := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(mrec, req)

			Expect(mrec.Code).To(Equal(http.StatusUnauthorized))
			Expect(nextCalls).To(BeZero())
		})
	})

	Describe("RoleAuthorization", func() {
		var (
			roleAuth *auth.RoleAuthorization
			next     http.Handler
		)

		BeforeEach(func() {
			roleAuth = auth.NewRoleAuthorization(testHandlerLogger())
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})

		serveAs := func(role user.Role, mw func(http.Handler) http.Handler) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, "/api/budgets/pending", nil)
			ctx := auth.ContextWithUser(req.Context(), &auth.SessionUser{
				ID:   "u-1",
				Role: role,
			})
			rec := httptest.NewRecorder()
			mw(next).ServeHTTP(rec, req.WithContext(ctx))
			return rec
		}

		It("lets a manager through the manager gate", func() {
			rec := serveAs(user.RoleManager, roleAuth.RequireManager())
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("blocks an employee from the manager gate with 403", func() {
			rec := serveAs(user.RoleEmployee, roleAuth.RequireManager())
			Expect(rec.Code).To(Equal(http.StatusForbidden))

			var resp map[string]string
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("Forbidden: insufficient role"))
		})

		It("blocks a manager from the admin gate", func() {
			rec := serveAs(user.RoleManager, roleAuth.RequireAdmin())
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("lets an admin through the admin gate", func() {
			rec := serveAs(user.RoleAdmin, roleAuth.RequireAdmin())
			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("returns 401 when no session user is present", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/budgets/pending", nil)
			rec := httptest.NewRecorder()
			roleAuth.RequireManager()(next).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
