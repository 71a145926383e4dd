package auth_test

import (
	"context"
	"testing"

	authPostgres "github.com/frahmantamala/empleoya/internal/auth/postgres"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/core/testdb"
	"github.com/frahmantamala/empleoya/internal/user"
	userPostgres "github.com/frahmantamala/empleoya/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

var _ = Describe("Auth Repository", func() {
	var (
		ctx   context.Context
		db    *gorm.DB
		repo  *authPostgres.Repository
		users *user.Service
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = authPostgres.NewRepository(db)
		users = user.NewService(userPostgres.NewUserRepository(db), bcrypt.MinCost, nil)
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	register := func(email string, role identity.Role) *user.User {
		u, err := users.Register(ctx, user.RegisterDTO{
			Email: email, Password: "1234", Password2: "1234", FirstName: "Test", Role: role,
		})
		Expect(err).NotTo(HaveOccurred())
		return u
	}

	It("loads credentials by email", func() {
		u := register("carlos@x.com", identity.RoleEmployer)

		creds, err := repo.GetCredentials(ctx, "carlos@x.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(creds.UserID).To(Equal(u.ID))
		Expect(creds.Role).To(Equal(identity.RoleEmployer))
		Expect(user.VerifyPassword(creds.PasswordHash, "1234")).To(Succeed())
	})

	It("returns not found for unknown emails", func() {
		_, err := repo.GetCredentials(ctx, "nobody@x.com")
		Expect(err).To(MatchError(user.ErrNotFound))
	})

	It("resolves the company of an employer", func() {
		u := register("carlos@x.com", identity.RoleEmployer)

		p, status, err := repo.LoadPrincipal(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal(user.StatusActive))
		Expect(p.CompanyID).NotTo(BeNil())
		Expect(p.ProfileID).To(BeNil())
	})

	It("resolves the profile of an applicant", func() {
		u := register("ana@x.com", identity.RoleApplicant)

		p, _, err := repo.LoadPrincipal(ctx, u.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.IsApplicant()).To(BeTrue())
		Expect(p.ProfileID).NotTo(BeNil())
		Expect(p.CompanyID).To(BeNil())
	})
})
