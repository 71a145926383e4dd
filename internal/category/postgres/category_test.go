package postgres_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/empleoya/internal/category"
	categoryPostgres "github.com/frahmantamala/empleoya/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/category"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/testdb"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestCategoryPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Postgres Suite")
}

var _ = Describe("Category PostgreSQL Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo category.RepositoryAPI
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = categoryPostgres.NewCategoryRepository(db)
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	seedOffer := func(categoryID int64, status string) {
		var company companyDatamodel.Company
		if err := db.First(&company).Error; err != nil {
			owner := &userDatamodel.User{Email: "carlos@x.com", PasswordHash: "h", FirstName: "Carlos", Role: "empleador", Status: "activo"}
			Expect(db.Create(owner).Error).To(Succeed())
			company = companyDatamodel.Company{UserID: owner.ID, Name: "Acme", Size: "pyme"}
			Expect(db.Create(&company).Error).To(Succeed())
		}
		offer := &offerDatamodel.JobOffer{
			CompanyID: company.ID, CategoryID: &categoryID, Title: "Dev", Description: "Go",
			Mode: "remoto", ContractType: "tiempo_completo", ExperienceLevel: "junior", Status: status,
		}
		Expect(db.Create(offer).Error).To(Succeed())
	}

	Describe("Create", func() {
		It("should create a new category successfully", func() {
			cat := &categoryDatamodel.Category{Name: "Tecnología", Active: true}
			Expect(repo.Create(ctx, cat)).To(Succeed())
			Expect(cat.ID).To(BeNumerically(">", 0))
			Expect(cat.CreatedAt).NotTo(BeZero())
		})

		It("should fail to create duplicate category", func() {
			Expect(repo.Create(ctx, &categoryDatamodel.Category{Name: "Ventas", Active: true})).To(Succeed())
			err := repo.Create(ctx, &categoryDatamodel.Category{Name: "Ventas", Active: true})
			Expect(err).To(MatchError(category.ErrDuplicateName))
		})
	})

	Describe("ListActiveWithCounts", func() {
		It("counts only active offers and skips inactive categories", func() {
			tech := &categoryDatamodel.Category{Name: "Tecnología", Active: true}
			sales := &categoryDatamodel.Category{Name: "Ventas", Active: true}
			old := &categoryDatamodel.Category{Name: "Antigua", Active: false}
			for _, c := range []*categoryDatamodel.Category{tech, sales, old} {
				Expect(repo.Create(ctx, c)).To(Succeed())
			}
			seedOffer(tech.ID, "activa")
			seedOffer(tech.ID, "activa")
			seedOffer(tech.ID, "borrador")

			rows, err := repo.ListActiveWithCounts(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
			Expect(rows[0].Name).To(Equal("Tecnología"))
			Expect(rows[0].OfferCount).To(Equal(int64(2)))
			Expect(rows[1].Name).To(Equal("Ventas"))
			Expect(rows[1].OfferCount).To(BeZero())
		})
	})

	Describe("GetByID and GetByName", func() {
		It("finds categories and reports missing ones", func() {
			cat := &categoryDatamodel.Category{Name: "Salud", Active: true}
			Expect(repo.Create(ctx, cat)).To(Succeed())

			found, err := repo.GetByID(ctx, cat.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Name).To(Equal("Salud"))

			byName, err := repo.GetByName(ctx, "salud")
			Expect(err).NotTo(HaveOccurred())
			Expect(byName.ID).To(Equal(cat.ID))

			_, err = repo.GetByID(ctx, 999)
			Expect(err).To(MatchError(category.ErrNotFound))

			missing, err := repo.GetByName(ctx, "Nada")
			Expect(err).NotTo(HaveOccurred())
			Expect(missing).To(BeNil())
		})
	})
})
