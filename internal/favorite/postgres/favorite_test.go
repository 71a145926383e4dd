package postgres_test

import (
	"context"
	"errors"
	"testing"

	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	favoriteDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/favorite"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/testdb"
	"github.com/frahmantamala/empleoya/internal/favorite"
	favoritePostgres "github.com/frahmantamala/empleoya/internal/favorite/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestFavoritePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Favorite Postgres Suite")
}

var _ = Describe("Favorite Repository", func() {
	var (
		ctx  context.Context
		db   *gorm.DB
		repo favorite.RepositoryAPI
		job  *offerDatamodel.JobOffer
		ana  *userDatamodel.User
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		repo = favoritePostgres.NewFavoriteRepository(db)

		carlos := &userDatamodel.User{Email: "carlos@x.com", PasswordHash: "h", FirstName: "Carlos", Role: "empleador", Status: "activo"}
		Expect(db.Create(carlos).Error).To(Succeed())
		acme := &companyDatamodel.Company{UserID: carlos.ID, Name: "Acme", Size: "pyme"}
		Expect(db.Create(acme).Error).To(Succeed())
		job = &offerDatamodel.JobOffer{
			CompanyID: acme.ID, Title: "Backend Dev", Description: "Go", Mode: "remoto",
			ContractType: "tiempo_completo", ExperienceLevel: "senior", Status: "activa", Approved: true,
		}
		Expect(db.Create(job).Error).To(Succeed())

		ana = &userDatamodel.User{Email: "ana@x.com", PasswordHash: "h", FirstName: "Ana", Role: "postulante", Status: "activo"}
		Expect(db.Create(ana).Error).To(Succeed())
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	It("rejects bookmarking the same offer twice at the unique index", func() {
		Expect(repo.Create(ctx, &favoriteDatamodel.Favorite{UserID: ana.ID, OfferID: job.ID})).To(Succeed())

		err := repo.Create(ctx, &favoriteDatamodel.Favorite{UserID: ana.ID, OfferID: job.ID})
		Expect(errors.Is(err, favorite.ErrAlreadyFavorited)).To(BeTrue())

		_, total, err := repo.ListByUser(ctx, ana.ID, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(1)))
	})
})
