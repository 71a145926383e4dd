package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock Repository for testing
type mockRepository struct {
	creds         map[string]*Credentials // email -> credentials
	companies     map[int64]int64         // userID -> companyID
	returnError   bool
	errorToReturn error
}

func newMockRepository() *mockRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockRepository{
		creds: map[string]*Credentials{
			"ana@x.com":    {UserID: 1, Email: "ana@x.com", PasswordHash: string(hashedPassword), Role: identity.RoleApplicant, Status: user.StatusActive},
			"carlos@x.com": {UserID: 2, Email: "carlos@x.com", PasswordHash: string(hashedPassword), Role: identity.RoleEmployer, Status: user.StatusActive},
			"old@x.com":    {UserID: 3, Email: "old@x.com", PasswordHash: string(hashedPassword), Role: identity.RoleApplicant, Status: user.StatusInactive},
		},
		companies: map[int64]int64{2: 20},
	}
}

func (m *mockRepository) GetCredentials(ctx context.Context, email string) (*Credentials, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if c, ok := m.creds[email]; ok {
		return c, nil
	}
	return nil, user.ErrNotFound
}

func (m *mockRepository) LoadPrincipal(ctx context.Context, userID int64) (identity.Principal, string, error) {
	if m.returnError {
		return identity.Principal{}, "", m.errorToReturn
	}
	for _, c := range m.creds {
		if c.UserID == userID {
			p := identity.Principal{UserID: c.UserID, Email: c.Email, Role: c.Role}
			if companyID, ok := m.companies[userID]; ok {
				p.CompanyID = &companyID
			}
			return p, c.Status, nil
		}
	}
	return identity.Principal{}, "", user.ErrNotFound
}

func (m *mockRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

type mockRegistrar struct {
	repo *mockRepository
}

func (m *mockRegistrar) Register(ctx context.Context, dto user.RegisterDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	id := int64(len(m.repo.creds) + 1)
	m.repo.creds[dto.Email] = &Credentials{UserID: id, Email: dto.Email, Role: dto.Role, Status: user.StatusActive}
	return &user.User{ID: id, Email: dto.Email, Role: dto.Role, Status: user.StatusActive}, nil
}

func (m *mockRegistrar) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	for _, c := range m.repo.creds {
		if c.UserID == userID {
			return &user.User{ID: c.UserID, Email: c.Email, Role: c.Role, Status: c.Status}, nil
		}
	}
	return nil, user.ErrNotFound
}

type memoryRevoker struct {
	revoked map[string]time.Duration
}

func (m *memoryRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *memoryRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		ctx           context.Context
		service       *Service
		mockRepo      *mockRepository
		revoker       *memoryRevoker
		tokenGen      *JWTTokenGenerator
		accessSecret  string        = "test-access-secret-0123456789abcdef"
		refreshSecret string        = "test-refresh-secret-0123456789abcdef"
		accessTTL     time.Duration = 15 * time.Minute
		refreshTTL    time.Duration = 24 * time.Hour
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockRepository()
		revoker = &memoryRevoker{revoked: make(map[string]time.Duration)}
		tokenGen = NewJWTTokenGenerator(accessSecret, refreshSecret, accessTTL, refreshTTL)
		service = NewService(mockRepo, &mockRegistrar{repo: mockRepo}, tokenGen, revoker, nil)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens with the user", func() {
				// Given
				dto := LoginDTO{Email: "Ana@X.com", Password: "correct_password"}

				// When
				resp, err := service.Authenticate(ctx, dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(resp.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(resp.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(resp.AccessToken).ToNot(gomega.Equal(resp.RefreshToken))
				gomega.Expect(resp.User.Email).To(gomega.Equal("ana@x.com"))
			})

			ginkgo.It("should carry the role in the access token", func() {
				resp, err := service.Authenticate(ctx, LoginDTO{Email: "carlos@x.com", Password: "correct_password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(ctx, resp.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(2)))
				gomega.Expect(claims.Role).To(gomega.Equal(identity.RoleEmployer))
				gomega.Expect(claims.ID).ToNot(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return invalid credentials for an unknown email", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "nobody@x.com", Password: "any_password"})
				gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
			})

			ginkgo.It("should return invalid credentials for a wrong password", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "ana@x.com", Password: "wrong"})
				gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
			})

			ginkgo.It("should reject inactive users", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "old@x.com", Password: "correct_password"})
				gomega.Expect(errors.Is(err, internal.ErrUserInactive)).To(gomega.BeTrue())
			})

			ginkgo.It("should validate required fields", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "ana@x.com"})
				gomega.Expect(err).To(gomega.MatchError("password is required"))
			})

			ginkgo.It("should surface repository failures", func() {
				mockRepo.setError(errors.New("database connection failed"))
				_, err := service.Authenticate(ctx, LoginDTO{Email: "ana@x.com", Password: "correct_password"})
				gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("database connection failed")))
			})
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should log the new account in", func() {
			resp, err := service.Register(ctx, user.RegisterDTO{
				Email: "new@x.com", Password: "1234", Password2: "1234", FirstName: "New", Role: identity.RoleApplicant,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.User.Email).To(gomega.Equal("new@x.com"))

			claims, err := service.ValidateAccessToken(ctx, resp.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal(resp.User.ID))
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should rotate the refresh token", func() {
			resp, err := service.Authenticate(ctx, LoginDTO{Email: "ana@x.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			tokens, err := service.RefreshTokens(ctx, resp.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(tokens.RefreshToken).ToNot(gomega.Equal(resp.RefreshToken))

			_, err = service.RefreshTokens(ctx, resp.RefreshToken)
			gomega.Expect(errors.Is(err, internal.ErrTokenRevoked)).To(gomega.BeTrue())
		})

		ginkgo.It("should not accept an access token as refresh token", func() {
			resp, err := service.Authenticate(ctx, LoginDTO{Email: "ana@x.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, resp.AccessToken)
			gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should report expired tokens", func() {
			expired := NewJWTTokenGenerator(accessSecret, refreshSecret, time.Millisecond, refreshTTL)
			token, err := expired.GenerateAccessToken(Subject{UserID: 1, Email: "ana@x.com", Role: identity.RoleApplicant})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			time.Sleep(1100 * time.Millisecond)

			_, err = service.ValidateAccessToken(ctx, token)
			gomega.Expect(errors.Is(err, internal.ErrTokenExpired)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject tokens signed with another secret", func() {
			other := NewJWTTokenGenerator("another-access-secret-0123456789abcdef", refreshSecret, accessTTL, refreshTTL)
			token, err := other.GenerateAccessToken(Subject{UserID: 1})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(ctx, token)
			gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject the none algorithm", func() {
			claims := &Claims{UserID: 1, TokenType: TokenTypeAccess, RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}}
			token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(ctx, token)
			gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("ResolvePrincipal", func() {
		ginkgo.It("should attach the company of an employer", func() {
			p, err := service.ResolvePrincipal(ctx, &Claims{UserID: 2})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(p.IsEmployer()).To(gomega.BeTrue())
			gomega.Expect(*p.CompanyID).To(gomega.Equal(int64(20)))
		})

		ginkgo.It("should reject accounts deactivated after login", func() {
			_, err := service.ResolvePrincipal(ctx, &Claims{UserID: 3})
			gomega.Expect(errors.Is(err, internal.ErrUserInactive)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject deleted accounts as invalid tokens", func() {
			_, err := service.ResolvePrincipal(ctx, &Claims{UserID: 99})
			gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should revoke the access and refresh tokens", func() {
			resp, err := service.Authenticate(ctx, LoginDTO{Email: "ana@x.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			err = service.Logout(ctx, resp.AccessToken, LogoutDTO{RefreshToken: resp.RefreshToken})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(revoker.revoked).To(gomega.HaveLen(2))

			_, err = service.ValidateAccessToken(ctx, resp.AccessToken)
			gomega.Expect(errors.Is(err, internal.ErrTokenRevoked)).To(gomega.BeTrue())

			_, err = service.RefreshTokens(ctx, resp.RefreshToken)
			gomega.Expect(errors.Is(err, internal.ErrTokenRevoked)).To(gomega.BeTrue())
		})
	})
})
