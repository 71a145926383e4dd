package postgres_test

import (
	"context"
	"errors"
	"testing"

	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	applicationDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/application"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	favoriteDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/favorite"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/testdb"
	"github.com/frahmantamala/empleoya/internal/offer"
	offerPostgres "github.com/frahmantamala/empleoya/internal/offer/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestOfferPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Offer Postgres Suite")
}

var _ = Describe("Offer Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo offer.RepositoryAPI
		row  *offerDatamodel.JobOffer
		ana  *userDatamodel.User
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = offerPostgres.NewOfferRepository(db)

		carlos := &userDatamodel.User{Email: "carlos@x.com", PasswordHash: "h", FirstName: "Carlos", Role: "empleador", Status: "activo"}
		Expect(db.Create(carlos).Error).To(Succeed())
		acme := &companyDatamodel.Company{UserID: carlos.ID, Name: "Acme", Size: "pyme"}
		Expect(db.Create(acme).Error).To(Succeed())

		ana = &userDatamodel.User{Email: "ana@x.com", PasswordHash: "h", FirstName: "Ana", Role: "postulante", Status: "activo"}
		Expect(db.Create(ana).Error).To(Succeed())

		row = &offerDatamodel.JobOffer{
			CompanyID: acme.ID, Title: "Backend Dev", Description: "Go", Mode: "remoto",
			ContractType: "tiempo_completo", ExperienceLevel: "senior", Status: "activa", Approved: true,
		}
		Expect(repo.Create(ctx, row)).To(Succeed())
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	It("leaves the view counter alone when saving a stale row", func() {
		stale, err := repo.GetByID(ctx, row.ID)
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 2; i++ {
			_, err = repo.IncrementViews(ctx, row.ID)
			Expect(err).NotTo(HaveOccurred())
		}

		stale.Title = "Backend Dev Sr"
		Expect(repo.Update(ctx, stale)).To(Succeed())

		fresh, err := repo.GetByID(ctx, row.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(fresh.Title).To(Equal("Backend Dev Sr"))
		Expect(fresh.Views).To(Equal(int64(2)))
	})

	It("removes applications and favorites together with the offer", func() {
		profile := &applicantDatamodel.ApplicantProfile{UserID: ana.ID}
		Expect(db.Create(profile).Error).To(Succeed())
		Expect(db.Create(&applicationDatamodel.Application{OfferID: row.ID, ApplicantID: profile.ID, Status: "pendiente"}).Error).To(Succeed())
		Expect(db.Create(&favoriteDatamodel.Favorite{UserID: ana.ID, OfferID: row.ID}).Error).To(Succeed())

		Expect(repo.Delete(ctx, row.ID)).To(Succeed())

		var applications, favorites int64
		Expect(db.Model(&applicationDatamodel.Application{}).Where("oferta_id = ?", row.ID).Count(&applications).Error).To(Succeed())
		Expect(db.Model(&favoriteDatamodel.Favorite{}).Where("oferta_id = ?", row.ID).Count(&favorites).Error).To(Succeed())
		Expect(applications).To(BeZero())
		Expect(favorites).To(BeZero())

		_, err := repo.GetByID(ctx, row.ID)
		Expect(errors.Is(err, offer.ErrNotFound)).To(BeTrue())
	})

	It("reports unknown offers on delete", func() {
		Expect(repo.Delete(ctx, row.ID+100)).To(MatchError(offer.ErrNotFound))
	})
})
