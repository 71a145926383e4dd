package company_test

import (
	"context"
	"errors"
	"testing"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/company"
	companyPostgres "github.com/frahmantamala/empleoya/internal/company/postgres"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/core/testdb"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestCompany(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Company Suite")
}

func strPtr(s string) *string { return &s }

var _ = Describe("Company Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *company.Service
		owner   identity.Principal
		other   identity.Principal
	)

	createEmployer := func(email, companyName string) identity.Principal {
		u := &userDatamodel.User{Email: email, PasswordHash: "h", FirstName: "Owner", Role: "empleador", Status: "activo"}
		Expect(db.Create(u).Error).To(Succeed())
		c := &companyDatamodel.Company{UserID: u.ID, Name: companyName, Size: company.SizePyme}
		Expect(db.Create(c).Error).To(Succeed())
		return identity.Principal{UserID: u.ID, Email: email, Role: identity.RoleEmployer, CompanyID: &c.ID}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		service = company.NewService(companyPostgres.NewCompanyRepository(db), nil)

		owner = createEmployer("carlos@x.com", "Empresa de Carlos")
		other = createEmployer("maria@x.com", "Empresa de Maria")
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	Describe("GetMine", func() {
		It("returns the caller's company with its owner", func() {
			c, err := service.GetMine(ctx, owner)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Empresa de Carlos"))
			Expect(c.Owner.Email).To(Equal("carlos@x.com"))
			Expect(c.TotalOffers).To(BeZero())
		})

		It("is forbidden for applicants", func() {
			_, err := service.GetMine(ctx, identity.Principal{UserID: 9, Role: identity.RoleApplicant})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
		})

		It("is not found for employers without company", func() {
			_, err := service.GetMine(ctx, identity.Principal{UserID: 9, Role: identity.RoleEmployer})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("UpdateMine", func() {
		It("applies a partial update and keeps other fields", func() {
			_, err := service.UpdateMine(ctx, owner, company.UpdateCompanyDTO{Sector: strPtr("Tecnología")}, false)
			Expect(err).NotTo(HaveOccurred())

			c, err := service.UpdateMine(ctx, owner, company.UpdateCompanyDTO{Size: strPtr(company.SizeMedium)}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(*c.Sector).To(Equal("Tecnología"))
			Expect(c.Size).To(Equal(company.SizeMedium))
			Expect(c.Name).To(Equal("Empresa de Carlos"))
		})

		It("requires nombre_empresa on a full update", func() {
			_, err := service.UpdateMine(ctx, owner, company.UpdateCompanyDTO{Sector: strPtr("Salud")}, true)
			Expect(err).To(MatchError("nombre_empresa is required"))
		})

		It("rejects invalid size bands and urls", func() {
			_, err := service.UpdateMine(ctx, owner, company.UpdateCompanyDTO{Size: strPtr("enorme")}, false)
			Expect(err).To(HaveOccurred())
			_, err = service.UpdateMine(ctx, owner, company.UpdateCompanyDTO{Website: strPtr("not a url")}, false)
			Expect(err).To(HaveOccurred())
		})

		It("rejects a ruc used by another company", func() {
			_, err := service.UpdateMine(ctx, owner, company.UpdateCompanyDTO{RUC: strPtr("20123456789")}, false)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UpdateMine(ctx, other, company.UpdateCompanyDTO{RUC: strPtr("20123456789")}, false)
			Expect(errors.Is(err, company.ErrDuplicateRUC)).To(BeTrue())

			_, err = service.UpdateMine(ctx, owner, company.UpdateCompanyDTO{RUC: strPtr("20123456789")}, false)
			Expect(err).NotTo(HaveOccurred())
		})

		It("stores an empty ruc as null so several companies can omit it", func() {
			a, err := service.UpdateMine(ctx, owner, company.UpdateCompanyDTO{RUC: strPtr("")}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.RUC).To(BeNil())
			_, err = service.UpdateMine(ctx, other, company.UpdateCompanyDTO{RUC: strPtr("  ")}, false)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Verify and List", func() {
		It("marks the company verified and filters on it", func() {
			c, err := service.Verify(ctx, *other.CompanyID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Verified).To(BeTrue())

			verified := true
			companies, total, err := service.List(ctx, company.ListFilter{Verified: &verified, Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(companies[0].Name).To(Equal("Empresa de Maria"))
		})

		It("searches by name and paginates", func() {
			companies, total, err := service.List(ctx, company.ListFilter{Search: "empresa", Limit: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(companies).To(HaveLen(1))
			Expect(companies[0].Name).To(Equal("Empresa de Carlos"))
		})

		It("returns not found for unknown companies", func() {
			_, err := service.Verify(ctx, 999)
			Expect(errors.Is(err, company.ErrNotFound)).To(BeTrue())
		})
	})
})
