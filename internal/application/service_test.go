package application_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/application"
	applicationPostgres "github.com/frahmantamala/empleoya/internal/application/postgres"
	applicantDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/applicant"
	applicationDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/application"
	companyDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/company"
	offerDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/offer"
	userDatamodel "github.com/frahmantamala/empleoya/internal/core/datamodel/user"
	"github.com/frahmantamala/empleoya/internal/core/events"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	"github.com/frahmantamala/empleoya/internal/core/testdb"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func TestApplication(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Application Suite")
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

var _ = Describe("Application Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		publisher *recordingPublisher
		service   *application.Service
		carlos    identity.Principal
		maria     identity.Principal
		ana       identity.Principal
		beto      identity.Principal
		offerID   int64
		carlosUID int64
	)

	createEmployer := func(email, name string) identity.Principal {
		u := &userDatamodel.User{Email: email, PasswordHash: "h", FirstName: name, Role: "empleador", Status: "activo"}
		Expect(db.Create(u).Error).To(Succeed())
		c := &companyDatamodel.Company{UserID: u.ID, Name: "Empresa de " + name, Size: "pyme"}
		Expect(db.Create(c).Error).To(Succeed())
		return identity.Principal{UserID: u.ID, Email: email, Role: identity.RoleEmployer, CompanyID: &c.ID}
	}

	createApplicant := func(email, name string) identity.Principal {
		u := &userDatamodel.User{Email: email, PasswordHash: "h", FirstName: name, LastName: "Pérez", Role: "postulante", Status: "activo"}
		Expect(db.Create(u).Error).To(Succeed())
		cv := "http://files.local/cv/" + name + ".pdf"
		p := &applicantDatamodel.ApplicantProfile{UserID: u.ID, ExperienceLevel: "junior", SalaryCurrency: "PEN", Availability: "inmediata", CVURL: &cv}
		Expect(db.Create(p).Error).To(Succeed())
		return identity.Principal{UserID: u.ID, Email: email, Role: identity.RoleApplicant, ProfileID: &p.ID}
	}

	createOffer := func(companyID int64, title, status string) int64 {
		o := &offerDatamodel.JobOffer{
			CompanyID: companyID, Title: title, Description: "d", Currency: "PEN",
			Mode: "remoto", ContractType: "tiempo_completo", ExperienceLevel: "junior",
			Vacancies: 1, Status: status, Approved: true,
		}
		Expect(db.Create(o).Error).To(Succeed())
		return o.ID
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		publisher = &recordingPublisher{}
		service = application.NewService(applicationPostgres.NewApplicationRepository(db), publisher, nil)

		carlos = createEmployer("carlos@x.com", "Carlos")
		carlosUID = carlos.UserID
		maria = createEmployer("maria@x.com", "Maria")
		ana = createApplicant("ana@x.com", "Ana")
		beto = createApplicant("beto@x.com", "Beto")
		offerID = createOffer(*carlos.CompanyID, "Backend Dev", "activa")
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	Describe("Create", func() {
		It("accepts one application per applicant and offer", func() {
			a, err := service.Create(ctx, ana, application.CreateApplicationDTO{OfferID: offerID, CoverLetter: strPtr("Hola")})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Status).To(Equal(application.StatusPending))
			Expect(a.OfferTitle).To(Equal("Backend Dev"))
			Expect(a.ApplicantEmail).To(Equal("ana@x.com"))
			Expect(*a.CVURL).To(Equal("http://files.local/cv/Ana.pdf"))

			_, err = service.Create(ctx, ana, application.CreateApplicationDTO{OfferID: offerID})
			Expect(errors.Is(err, application.ErrAlreadyApplied)).To(BeTrue())
			Expect(err).To(MatchError("ya postulado"))

			var count int64
			Expect(db.Model(&applicationDatamodel.Application{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})

		It("publishes a submission event addressed to the offer owner", func() {
			_, err := service.Create(ctx, ana, application.CreateApplicationDTO{OfferID: offerID})
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.types()).To(Equal([]string{events.EventTypeApplicationSubmitted}))
			e := publisher.events[0].(*events.ApplicationSubmittedEvent)
			Expect(e.EmployerUserID).To(Equal(carlosUID))
			Expect(e.ApplicantName).To(Equal("Ana Pérez"))
		})

		It("rejects offers that are not active", func() {
			paused := createOffer(*carlos.CompanyID, "Paused", "pausada")
			_, err := service.Create(ctx, ana, application.CreateApplicationDTO{OfferID: paused})
			Expect(errors.Is(err, application.ErrOfferNotActive)).To(BeTrue())
			Expect(errors.Is(err, application.ErrAlreadyApplied)).To(BeFalse())
		})

		It("returns not found for unknown offers", func() {
			_, err := service.Create(ctx, ana, application.CreateApplicationDTO{OfferID: 999})
			Expect(errors.Is(err, application.ErrOfferNotFound)).To(BeTrue())
		})

		It("is forbidden for employers", func() {
			_, err := service.Create(ctx, carlos, application.CreateApplicationDTO{OfferID: offerID})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
		})
	})

	Describe("ChangeStatus", func() {
		var appID int64

		BeforeEach(func() {
			a, err := service.Create(ctx, ana, application.CreateApplicationDTO{OfferID: offerID})
			Expect(err).NotTo(HaveOccurred())
			appID = a.ID
		})

		It("lets the owner accept and stamps the change", func() {
			a, err := service.ChangeStatus(ctx, carlos, appID, application.ChangeStatusDTO{
				Status:        application.StatusAccepted,
				EmployerNotes: strPtr("Excelente perfil"),
				MatchScore:    intPtr(90),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Status).To(Equal(application.StatusAccepted))
			Expect(a.StatusChangedAt).NotTo(BeNil())
			Expect(*a.EmployerNotes).To(Equal("Excelente perfil"))
			Expect(*a.MatchScore).To(Equal(90))
			Expect(publisher.types()).To(ContainElement(events.EventTypeApplicationStatusChanged))
		})

		It("does not touch the timestamp or the notes on a no-op", func() {
			first, err := service.ChangeStatus(ctx, carlos, appID, application.ChangeStatusDTO{
				Status:        application.StatusInReview,
				EmployerNotes: strPtr("Revisar"),
			})
			Expect(err).NotTo(HaveOccurred())

			again, err := service.ChangeStatus(ctx, carlos, appID, application.ChangeStatusDTO{
				Status:        application.StatusInReview,
				EmployerNotes: strPtr(""),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(again.StatusChangedAt.Equal(*first.StatusChangedAt)).To(BeTrue())
			Expect(*again.EmployerNotes).To(Equal("Revisar"))
			Expect(publisher.types()).To(Equal([]string{
				events.EventTypeApplicationSubmitted,
				events.EventTypeApplicationStatusChanged,
			}))
		})

		It("forbids other employers", func() {
			_, err := service.ChangeStatus(ctx, maria, appID, application.ChangeStatusDTO{Status: application.StatusAccepted})
			Expect(errors.Is(err, application.ErrNotOwner)).To(BeTrue())
		})

		It("rejects unknown statuses and scores out of range", func() {
			_, err := service.ChangeStatus(ctx, carlos, appID, application.ChangeStatusDTO{Status: "contratado"})
			Expect(err).To(MatchError("Estado inválido"))
			_, err = service.ChangeStatus(ctx, carlos, appID, application.ChangeStatusDTO{Status: application.StatusAccepted, MatchScore: intPtr(101)})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List, Get and Withdraw", func() {
		var anaApp int64

		BeforeEach(func() {
			a, err := service.Create(ctx, ana, application.CreateApplicationDTO{OfferID: offerID})
			Expect(err).NotTo(HaveOccurred())
			anaApp = a.ID
			_, err = service.Create(ctx, beto, application.CreateApplicationDTO{OfferID: offerID})
			Expect(err).NotTo(HaveOccurred())
		})

		It("scopes listings by role", func() {
			_, total, err := service.List(ctx, ana, application.ListFilter{Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))

			_, total, err = service.List(ctx, carlos, application.ListFilter{Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))

			_, total, err = service.List(ctx, maria, application.ListFilter{Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())

			_, total, err = service.List(ctx, identity.Principal{UserID: 1, Role: identity.RoleAdmin}, application.ListFilter{Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
		})

		It("filters the employer listing by status", func() {
			_, err := service.ChangeStatus(ctx, carlos, anaApp, application.ChangeStatusDTO{Status: application.StatusRejected})
			Expect(err).NotTo(HaveOccurred())

			list, total, err := service.List(ctx, carlos, application.ListFilter{Status: application.StatusPending, OfferID: &offerID, Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(list[0].ApplicantEmail).To(Equal("beto@x.com"))
		})

		It("hides other applicants' applications", func() {
			_, err := service.Get(ctx, beto, anaApp)
			Expect(errors.Is(err, application.ErrNotFound)).To(BeTrue())
			_, err = service.Get(ctx, carlos, anaApp)
			Expect(err).NotTo(HaveOccurred())
		})

		It("hides employer notes from the applicant", func() {
			_, err := service.ChangeStatus(ctx, carlos, anaApp, application.ChangeStatusDTO{Status: application.StatusInterview, EmployerNotes: strPtr("privado")})
			Expect(err).NotTo(HaveOccurred())
			a, err := service.Get(ctx, ana, anaApp)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.EmployerNotes).To(BeNil())
		})

		It("withdraws only pending applications of the caller", func() {
			Expect(service.Withdraw(ctx, beto, anaApp)).To(MatchError(application.ErrNotOwner))

			_, err := service.ChangeStatus(ctx, carlos, anaApp, application.ChangeStatusDTO{Status: application.StatusInReview})
			Expect(err).NotTo(HaveOccurred())
			Expect(errors.Is(service.Withdraw(ctx, ana, anaApp), application.ErrCannotWithdraw)).To(BeTrue())

			_, betoList, err := service.List(ctx, beto, application.ListFilter{Limit: 20})
			Expect(err).NotTo(HaveOccurred())
			Expect(betoList).To(Equal(int64(1)))
		})

		It("exports the owner's applications as a workbook", func() {
			var buf bytes.Buffer
			Expect(service.Export(ctx, carlos, offerID, &buf)).To(Succeed())

			f, err := excelize.OpenReader(&buf)
			Expect(err).NotTo(HaveOccurred())
			defer f.Close()
			rows, err := f.GetRows("Postulaciones")
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
			Expect(rows[0][0]).To(Equal("Postulante"))
			Expect(rows[1][1]).To(Equal("ana@x.com"))

			Expect(errors.Is(service.Export(ctx, maria, offerID, &buf), application.ErrNotOwner)).To(BeTrue())
		})
	})
})
