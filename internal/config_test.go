package internal_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/frahmantamala/empleoya/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Database: internal.DatabaseConfig{Source: "postgres://localhost/empleoya"},
		Security: internal.SecurityConfig{
			JWTAccessSecret:  strings.Repeat("a", 32),
			JWTRefreshSecret: strings.Repeat("r", 32),
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("Config", func() {
	It("fills defaults", func() {
		cfg := validConfig()
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Offers.SimilarLimit).To(Equal(internal.DefaultSimilarLimit))
		Expect(cfg.Offers.ExpiryCron).To(Equal(internal.DefaultExpiryCron))
		Expect(cfg.Security.BCryptCost).To(Equal(10))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("rejects short or identical secrets", func() {
		cfg := validConfig()
		cfg.Security.JWTRefreshSecret = cfg.Security.JWTAccessSecret
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("must differ")))

		cfg.Security.JWTAccessSecret = "short"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("jwt_access_secret")))
	})

	It("requires bucket credentials once storage is enabled", func() {
		cfg := validConfig()
		cfg.Storage.Endpoint = "localhost:9000"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("storage config")))

		cfg.Storage.BucketName = "cv"
		cfg.Storage.AccessKeyID = "minio"
		cfg.Storage.SecretAccessKey = "minio123"
		Expect(cfg.Validate()).To(Succeed())
	})

	It("splits allowed origins", func() {
		cfg := validConfig()
		cfg.Server.AllowedOrigins = "http://a.pe, http://b.pe"
		Expect(cfg.Server.Origins()).To(Equal([]string{"http://a.pe", "http://b.pe"}))
	})
})

var _ = Describe("AppError", func() {
	It("matches sentinels through wrapping", func() {
		err := internal.ErrInvalidToken.WithCause(errors.New("bad signature"))
		Expect(errors.Is(err, internal.ErrInvalidToken)).To(BeTrue())
		Expect(internal.ErrInvalidToken.Cause).To(BeNil())
	})

	It("surfaces the first field message", func() {
		err := internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
		Expect(err.Error()).To(Equal("email is required"))
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
	})

	It("tells field errors apart by their field code", func() {
		email := internal.NewValidationFieldError("email", "email already registered", internal.ErrCodeEmailTaken)
		salary := internal.NewValidationFieldError("salario_min", "salario_min > salario_max", internal.ErrCodeInvalidSalaryRange)
		wrapped := fmt.Errorf("register: %w", email)

		Expect(errors.Is(wrapped, email)).To(BeTrue())
		Expect(errors.Is(wrapped, salary)).To(BeFalse())
		Expect(errors.Is(salary, internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed))).To(BeTrue())
	})
})
