package applicant_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/applicant"
	applicantPostgres "github.com/frahmantamala/empleoya/internal/applicant/postgres"
	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/core/testdb"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestApplicant(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Applicant Suite")
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

type fakeStorage struct {
	keys []string
	body string
	err  error
}

func (f *fakeStorage) Upload(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(r)
	f.body = string(b)
	f.keys = append(f.keys, key)
	return "http://files.local/empleoya-cv/" + key, nil
}

var _ = Describe("Applicant Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		store   *fakeStorage
		service *applicant.Service
		ana     identity.Principal
	)

	createApplicant := func(email, name string) identity.Principal {
		u := &userDatamodel.User{Email: email, PasswordHash: "h", FirstName: name, Role: "postulante", Status: "activo"}
		Expect(db.Create(u).Error).To(Succeed())
		p := &applicantDatamodel.ApplicantProfile{UserID: u.ID, ExperienceLevel: applicant.LevelNone, SalaryCurrency: "PEN", Availability: "negociable"}
		Expect(db.Create(p).Error).To(Succeed())
		return identity.Principal{UserID: u.ID, Email: email, Role: identity.RoleApplicant, ProfileID: &p.ID}
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		store = &fakeStorage{}
		service = applicant.NewService(applicantPostgres.NewApplicantRepository(db), store, nil)
		ana = createApplicant("ana@x.com", "Ana")
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	Describe("UpdateMine", func() {
		It("marks the profile complete once title, skills and summary are present", func() {
			p, err := service.UpdateMine(ctx, ana, applicant.UpdateProfileDTO{Title: strPtr("Backend Developer")}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Completed).To(BeFalse())

			p, err = service.UpdateMine(ctx, ana, applicant.UpdateProfileDTO{
				Skills:  strPtr("Go, SQL"),
				Summary: strPtr("Cinco años construyendo APIs"),
			}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Completed).To(BeTrue())
			Expect(*p.Title).To(Equal("Backend Developer"))
		})

		It("honours an explicit completado", func() {
			done := false
			p, err := service.UpdateMine(ctx, ana, applicant.UpdateProfileDTO{
				Title:     strPtr("QA"),
				Skills:    strPtr("Selenium"),
				Summary:   strPtr("Tester"),
				Completed: &done,
			}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Completed).To(BeFalse())
		})

		It("rejects out of range years and unknown enums", func() {
			_, err := service.UpdateMine(ctx, ana, applicant.UpdateProfileDTO{YearsExperience: intPtr(51)}, false)
			Expect(err).To(HaveOccurred())
			_, err = service.UpdateMine(ctx, ana, applicant.UpdateProfileDTO{Availability: strPtr("mañana")}, false)
			Expect(err).To(HaveOccurred())
			_, err = service.UpdateMine(ctx, ana, applicant.UpdateProfileDTO{SalaryCurrency: strPtr("SOLES")}, false)
			Expect(err).To(HaveOccurred())
		})

		It("normalises the currency code", func() {
			p, err := service.UpdateMine(ctx, ana, applicant.UpdateProfileDTO{SalaryCurrency: strPtr("usd")}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.SalaryCurrency).To(Equal("USD"))
		})

		It("requires nivel_experiencia on a full update", func() {
			_, err := service.UpdateMine(ctx, ana, applicant.UpdateProfileDTO{Title: strPtr("Dev")}, true)
			Expect(err).To(MatchError("nivel_experiencia is required"))
		})

		It("is forbidden for employers", func() {
			_, err := service.UpdateMine(ctx, identity.Principal{UserID: 7, Role: identity.RoleEmployer}, applicant.UpdateProfileDTO{}, false)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
		})
	})

	Describe("UploadCV", func() {
		It("stores the file and sets cv_url", func() {
			p, err := service.UploadCV(ctx, ana, "CV Ana.PDF", strings.NewReader("%PDF-1.4"), 8)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.keys).To(HaveLen(1))
			Expect(store.keys[0]).To(HavePrefix("cv/"))
			Expect(store.keys[0]).To(HaveSuffix(".pdf"))
			Expect(store.body).To(Equal("%PDF-1.4"))
			Expect(*p.CVURL).To(Equal("http://files.local/empleoya-cv/" + store.keys[0]))
		})

		It("rejects other formats and oversized files", func() {
			_, err := service.UploadCV(ctx, ana, "cv.exe", strings.NewReader("x"), 1)
			Expect(errors.Is(err, applicant.ErrInvalidCV)).To(BeTrue())
			_, err = service.UploadCV(ctx, ana, "cv.pdf", strings.NewReader("x"), applicant.MaxCVSize+1)
			Expect(errors.Is(err, applicant.ErrInvalidCV)).To(BeTrue())
			Expect(store.keys).To(BeEmpty())
		})

		It("reports storage failures without touching the profile", func() {
			store.err = internal.NewExternalError("down", internal.ErrCodeStorageNotAvailable, nil)
			_, err := service.UploadCV(ctx, ana, "cv.docx", strings.NewReader("x"), 1)
			Expect(err).To(HaveOccurred())

			p, err := service.GetMine(ctx, ana)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.CVURL).To(BeNil())
		})
	})

	Describe("List", func() {
		It("filters by level and search", func() {
			beto := createApplicant("beto@x.com", "Beto")
			_, err := service.UpdateMine(ctx, beto, applicant.UpdateProfileDTO{
				Title:           strPtr("Data Engineer"),
				ExperienceLevel: strPtr(applicant.LevelSenior),
			}, false)
			Expect(err).NotTo(HaveOccurred())

			profiles, total, err := service.List(ctx, applicant.ListFilter{ExperienceLevel: applicant.LevelSenior, Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(profiles[0].Owner.Email).To(Equal("beto@x.com"))

			_, total, err = service.List(ctx, applicant.ListFilter{Search: "data", Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})

		It("returns not found for unknown ids", func() {
			_, err := service.GetByID(ctx, 999)
			Expect(errors.Is(err, applicant.ErrNotFound)).To(BeTrue())
		})
	})
})
