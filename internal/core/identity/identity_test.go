package identity_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/empleoya/internal"
	"github.com/frahmantamala/empleoya/internal/core/identity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestIdentity(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Identity Suite")
}

func ptr(v int64) *int64 { return &v }

var _ = Describe("Principal", func() {
	It("resolves the employer's company", func() {
		p := identity.Principal{UserID: 1, Role: identity.RoleEmployer, CompanyID: ptr(7)}
		id, err := p.Employer()
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(int64(7)))
		Expect(p.OwnsCompany(7)).To(BeTrue())
		Expect(p.OwnsCompany(8)).To(BeFalse())
	})

	It("rejects applicants acting as employers", func() {
		p := identity.Principal{UserID: 2, Role: identity.RoleApplicant, ProfileID: ptr(3)}
		_, err := p.Employer()
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
	})

	It("reports a missing company as not found", func() {
		p := identity.Principal{UserID: 3, Role: identity.RoleEmployer}
		_, err := p.Employer()
		appErr, _ := internal.IsAppError(err)
		Expect(appErr.Code).To(Equal(internal.ErrCodeCompanyNotFound))
	})

	It("lets admins own any company", func() {
		Expect(identity.Principal{Role: identity.RoleAdmin}.OwnsCompany(99)).To(BeTrue())
	})

	It("round-trips through the context", func() {
		ctx := identity.WithPrincipal(context.Background(), identity.Principal{UserID: 5, Role: identity.RoleAdmin})
		p, ok := identity.FromContext(ctx)
		Expect(ok).To(BeTrue())
		Expect(p.UserID).To(Equal(int64(5)))

		_, ok = identity.FromContext(context.Background())
		Expect(ok).To(BeFalse())
	})

	It("only lets applicants and employers self register", func() {
		Expect(identity.RoleApplicant.SelfRegistrable()).To(BeTrue())
		Expect(identity.RoleEmployer.SelfRegistrable()).To(BeTrue())
		Expect(identity.RoleAdmin.SelfRegistrable()).To(BeFalse())
		Expect(identity.Role("root").Valid()).To(BeFalse())
	})
})
