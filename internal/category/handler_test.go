package category_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/empleoya/internal/category"
	categoryPostgres "github.com/frahmantamala/empleoya/internal/category/postgres"
	"github.com/frahmantamala/empleoya/internal/core/testdb"
	"github.com/frahmantamala/empleoya/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *category.Handler
		router  chi.Router
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		repo := categoryPostgres.NewCategoryRepository(db)
		service := category.NewService(repo, slogger)
		handler = category.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/api/categorias", handler.GetCategories)
		router.Get("/api/categorias/{id}", handler.GetCategory)
		router.Post("/api/admin/categorias", handler.CreateCategory)
		router.Patch("/api/admin/categorias/{id}", handler.UpdateCategory)
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("creates and lists categories", func() {
		rec := do(http.MethodPost, "/api/admin/categorias", `{"nombre":"Tecnología","icono":"laptop"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		rec = do(http.MethodGet, "/api/categorias", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body struct {
			Categorias []struct {
				ID         int64  `json:"id"`
				Nombre     string `json:"nombre"`
				Icono      string `json:"icono"`
				NumOfertas int64  `json:"num_ofertas"`
			} `json:"categorias"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Categorias).To(HaveLen(1))
		Expect(body.Categorias[0].Nombre).To(Equal("Tecnología"))
		Expect(body.Categorias[0].Icono).To(Equal("laptop"))
		Expect(body.Categorias[0].NumOfertas).To(BeZero())
	})

	It("answers duplicates with a validation error", func() {
		Expect(do(http.MethodPost, "/api/admin/categorias", `{"nombre":"Salud"}`).Code).To(Equal(http.StatusCreated))

		rec := do(http.MethodPost, "/api/admin/categorias", `{"nombre":"Salud"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(ContainSubstring("DUPLICATE_CATEGORY"))
	})

	It("hides deactivated categories from the public list", func() {
		Expect(do(http.MethodPost, "/api/admin/categorias", `{"nombre":"Salud"}`).Code).To(Equal(http.StatusCreated))

		rec := do(http.MethodPatch, "/api/admin/categorias/1", `{"activa":false}`)
		Expect(rec.Code).To(Equal(http.StatusOK))

		rec = do(http.MethodGet, "/api/categorias", "")
		Expect(rec.Body.String()).To(MatchJSON(`{"categorias":[]}`))
	})

	It("returns 404 and 400 for bad ids", func() {
		Expect(do(http.MethodGet, "/api/categorias/99", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodGet, "/api/categorias/abc", "").Code).To(Equal(http.StatusBadRequest))
	})
})
