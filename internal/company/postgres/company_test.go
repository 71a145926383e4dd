package postgres_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/empleoya/internal/company"
	companyPostgres "github.com/frahmantamala/empleoya/internal/company/postgres"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/testdb"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestCompanyPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Company Postgres Suite")
}

var _ = Describe("Company Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo company.RepositoryAPI
		acme *companyDatamodel.Company
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = companyPostgres.NewCompanyRepository(db)

		u := &userDatamodel.User{Email: "carlos@x.com", PasswordHash: "h", FirstName: "Carlos", Role: "empleador", Status: "activo"}
		Expect(db.Create(u).Error).To(Succeed())
		acme = &companyDatamodel.Company{UserID: u.ID, Name: "Acme", Size: "pyme"}
		Expect(db.Create(acme).Error).To(Succeed())
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	It("counts offers per company in one query", func() {
		for _, status := range []string{"activa", "borrador", "cerrada"} {
			Expect(db.Create(&offerDatamodel.JobOffer{
				CompanyID: acme.ID, Title: "Dev", Description: "Go", Mode: "remoto",
				ContractType: "tiempo_completo", ExperienceLevel: "junior", Status: status,
			}).Error).To(Succeed())
		}

		counts, err := repo.CountOffers(ctx, []int64{acme.ID, 999})
		Expect(err).NotTo(HaveOccurred())
		Expect(counts).To(HaveKeyWithValue(acme.ID, int64(3)))
		Expect(counts).NotTo(HaveKey(int64(999)))
	})

	It("does not touch the owner when saving", func() {
		row, err := repo.GetByID(ctx, acme.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(row.User).NotTo(BeNil())

		row.User.Email = "changed@x.com"
		row.Name = "Acme SAC"
		Expect(repo.Update(ctx, row)).To(Succeed())

		var u userDatamodel.User
		Expect(db.First(&u, row.UserID).Error).To(Succeed())
		Expect(u.Email).To(Equal("carlos@x.com"))
	})

	It("detects a taken ruc excluding the company itself", func() {
		ruc := "20123456789"
		acme.RUC = &ruc
		Expect(repo.Update(ctx, acme)).To(Succeed())

		taken, err := repo.RUCTaken(ctx, ruc, acme.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(BeFalse())

		taken, err = repo.RUCTaken(ctx, ruc, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(taken).To(BeTrue())
	})
})
