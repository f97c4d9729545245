package service_test

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/model"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/service"
	"github.com/muski85/ai-therapist-agent22-backend-clean/internal/store"
)

var _ = Describe("AuthService", func() {
	var (
		svc   service.AuthService
		users *mockUserStore
		ctx   context.Context
	)

	const secret = "test-secret"

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserStore{}
		svc = service.NewAuthService(users, secret)
	})

	It("round-trips an issued token back to the user", func() {
		users.getByIDFn = func(_ context.Context, id int64) (*model.User, error) {
			Expect(id).To(Equal(int64(42)))
			return &model.User{ID: 42, Name: "Ada", Email: "ada@example.com"}, nil
		}

		token, err := svc.IssueToken(42)
		Expect(err).NotTo(HaveOccurred())

		user, err := svc.ValidateToken(ctx, token)
		Expect(err).NotTo(HaveOccurred())
		Expect(user.ID).To(Equal(int64(42)))
	})

	It("rejects garbage tokens", func() {
		_, err := svc.ValidateToken(ctx, "not-a-token")
		Expect(err).To(MatchError(service.ErrInvalidToken))
	})

	It("rejects tokens signed with a different secret", func() {
		other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"})
		signed, err := other.SignedString([]byte("wrong-secret"))
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.ValidateToken(ctx, signed)
		Expect(err).To(MatchError(service.ErrInvalidToken))
	})

	It("rejects tokens without a numeric subject", func() {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "abc"})
		signed, err := token.SignedString([]byte(secret))
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.ValidateToken(ctx, signed)
		Expect(err).To(MatchError(service.ErrInvalidToken))
	})

	It("maps an unknown subject to ErrUserNotFound", func() {
		users.getByIDFn = func(_ context.Context, _ int64) (*model.User, error) {
			return nil, store.ErrNotFound
		}

		token, err := svc.IssueToken(7)
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.ValidateToken(ctx, token)
		Expect(err).To(MatchError(service.ErrUserNotFound))
	})
})
