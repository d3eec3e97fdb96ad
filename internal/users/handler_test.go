package users_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	internal "github.com/frahmantamala/user-backoffice/internal"
	"github.com/frahmantamala/user-backoffice/internal/users"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockServiceAPI implements users.ServiceAPI for handler tests
type MockServiceAPI struct {
	listItems []users.ListItem
	summary   *users.Summary
	err       error

	lastActor *internal.Actor
	lastID    int64
}

func (m *MockServiceAPI) List() ([]users.ListItem, error) {
	return m.listItems, m.err
}

func (m *MockServiceAPI) Create(ctx context.Context, dto *users.CreateUserDTO, actor *internal.Actor) (*users.Summary, error) {
	m.lastActor = actor
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *MockServiceAPI) Update(ctx context.Context, id int64, dto *users.UpdateUserDTO, actor *internal.Actor) (*users.Summary, error) {
	m.lastID = id
	m.lastActor = actor
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *MockServiceAPI) Delete(ctx context.Context, id int64, actor *internal.Actor) error {
	m.lastID = id
	m.lastActor = actor
	return m.err
}

func (m *MockServiceAPI) SendResetPassword(ctx context.Context, id int64, actor *internal.Actor) error {
	m.lastID = id
	m.lastActor = actor
	return m.err
}

var _ = Describe("User Handler", func() {
	var (
		mockService *MockServiceAPI
		handler     *users.Handler
		router      *chi.Mux
	)

	BeforeEach(func() {
		mockService = &MockServiceAPI{
			summary: &users.Summary{ID: 1, Username: "jdoe", Fullname: "John Doe", Email: "jdoe@example.com"},
		}
		handler = users.NewHandler(mockService)

		router = chi.NewRouter()
		router.Get("/users", handler.ListUsers)
		router.Post("/users", handler.CreateUser)
		router.Put("/users/{id}", handler.UpdateUser)
		router.Delete("/users/{id}", handler.DeleteUser)
		router.Post("/users/{id}/reset-password", handler.SendResetPassword)
	})

	Describe("GET /users", func() {
		It("should return the listing as a JSON array", func() {
			mockService.listItems = []users.ListItem{
				{ID: 1, Username: "jdoe", Fullname: "John Doe", Email: "jdoe@example.com", IsActive: true},
			}

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

			var response []users.ListItem
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response).To(HaveLen(1))
			Expect(response[0].Username).To(Equal("jdoe"))
		})
	})

	Describe("POST /users", func() {
		It("should return 201 with the summary envelope", func() {
			body := bytes.NewBufferString(`{"username":"jdoe","fullname":"John Doe","email":"jdoe@example.com","role_id":1,"major_id":1}`)
			req := httptest.NewRequest(http.MethodPost, "/users", body)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var response users.UserEnvelope
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Message).To(Equal("user created"))
			Expect(response.User.Username).To(Equal("jdoe"))
		})

		It("should never include a password in the response body", func() {
			body := bytes.NewBufferString(`{"username":"jdoe","fullname":"John Doe","email":"jdoe@example.com","role_id":1,"major_id":1}`)
			req := httptest.NewRequest(http.MethodPost, "/users", body)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Body.String()).NotTo(ContainSubstring("password"))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewBufferString("{not json"))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map a duplicate identity to 400", func() {
			mockService.err = internal.ErrDuplicateUser

			body := bytes.NewBufferString(`{"username":"jdoe","fullname":"John Doe","email":"jdoe@example.com","role_id":1,"major_id":1}`)
			req := httptest.NewRequest(http.MethodPost, "/users", body)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("already in use"))
		})

		It("should hand the context actor to the service", func() {
			actor := &internal.Actor{ID: 7, Username: "admin"}
			body := bytes.NewBufferString(`{"username":"jdoe","fullname":"John Doe","email":"jdoe@example.com","role_id":1,"major_id":1}`)
			req := httptest.NewRequest(http.MethodPost, "/users", body)
			req = req.WithContext(internal.ContextWithActor(req.Context(), actor))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(mockService.lastActor).To(Equal(actor))
		})
	})

	Describe("PUT /users/{id}", func() {
		It("should parse the id and return the updated summary", func() {
			body := bytes.NewBufferString(`{"username":"jdoe","fullname":"John Q. Doe","email":"jdoe@example.com","role_id":1,"major_id":1}`)
			req := httptest.NewRequest(http.MethodPut, "/users/42", body)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mockService.lastID).To(Equal(int64(42)))
		})

		It("should return 400 for a non-numeric id", func() {
			body := bytes.NewBufferString(`{}`)
			req := httptest.NewRequest(http.MethodPut, "/users/abc", body)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map not found to 404", func() {
			mockService.err = internal.ErrUserNotFound

			body := bytes.NewBufferString(`{"username":"jdoe","fullname":"John Doe","email":"jdoe@example.com","role_id":1,"major_id":1}`)
			req := httptest.NewRequest(http.MethodPut, "/users/42", body)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("DELETE /users/{id}", func() {
		It("should return a confirmation message", func() {
			req := httptest.NewRequest(http.MethodDelete, "/users/42", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response users.MessageResponse
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Message).To(Equal("user deleted"))
		})

		It("should map the self-delete guard to 400", func() {
			mockService.err = internal.ErrSelfDelete

			req := httptest.NewRequest(http.MethodDelete, "/users/42", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /users/{id}/reset-password", func() {
		It("should confirm the reset mail", func() {
			req := httptest.NewRequest(http.MethodPost, "/users/42/reset-password", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("reset password email sent"))
			Expect(mockService.lastID).To(Equal(int64(42)))
		})

		It("should map a mail dispatch failure to 500", func() {
			mockService.err = internal.ErrMailSendFailed

			req := httptest.NewRequest(http.MethodPost, "/users/42/reset-password", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})
})
