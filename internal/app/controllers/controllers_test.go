package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mentormatch/internal/app/models"
	"github.com/yigit/mentormatch/internal/app/models/dto"
	"github.com/yigit/mentormatch/internal/app/services"
	"github.com/yigit/mentormatch/internal/middleware"
	"github.com/yigit/mentormatch/internal/pkg/apperrors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		dto.UseJSONFieldNames(v)
	}
	m.Run()
}

// stubMatchService records the last call and returns canned results
type stubMatchService struct {
	lastActor models.Actor
	lastID    int64
	lastReq   *dto.CreateMatchRequestRequest
	resp      *dto.MatchRequestResponse
	err       error
}

func (s *stubMatchService) Create(_ context.Context, actor models.Actor, req *dto.CreateMatchRequestRequest) (*dto.MatchRequestResponse, error) {
	s.lastActor, s.lastReq = actor, req
	return s.resp, s.err
}

func (s *stubMatchService) ListIncoming(_ context.Context, actor models.Actor) ([]dto.IncomingMatchRequestResponse, error) {
	s.lastActor = actor
	return []dto.IncomingMatchRequestResponse{}, s.err
}

func (s *stubMatchService) ListOutgoing(_ context.Context, actor models.Actor) ([]dto.OutgoingMatchRequestResponse, error) {
	s.lastActor = actor
	return []dto.OutgoingMatchRequestResponse{{ID: 1, MentorID: 2, MenteeID: 3, Status: "pending", MentorName: "Tom", MentorEmail: "tom@example.com"}}, s.err
}

func (s *stubMatchService) transition(actor models.Actor, id int64) (*dto.MatchRequestResponse, error) {
	s.lastActor, s.lastID = actor, id
	return s.resp, s.err
}

func (s *stubMatchService) Accept(_ context.Context, actor models.Actor, id int64) (*dto.MatchRequestResponse, error) {
	return s.transition(actor, id)
}

func (s *stubMatchService) Reject(_ context.Context, actor models.Actor, id int64) (*dto.MatchRequestResponse, error) {
	return s.transition(actor, id)
}

func (s *stubMatchService) Cancel(_ context.Context, actor models.Actor, id int64) (*dto.MatchRequestResponse, error) {
	return s.transition(actor, id)
}

type stubUserService struct {
	image *services.ProfileImage
	err   error
}

func (s *stubUserService) GetCurrentUser(_ context.Context, actor models.Actor) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: actor.ID, Role: string(actor.Role)}, s.err
}

func (s *stubUserService) UpdateProfile(_ context.Context, actor models.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.UserResponse{ID: actor.ID, Profile: dto.ProfileResponse{Name: req.Name, Bio: req.Bio}}, nil
}

func (s *stubUserService) ListMentors(_ context.Context, _ models.Actor, query *dto.MentorListQuery) ([]dto.UserResponse, error) {
	return []dto.UserResponse{{ID: 1, Profile: dto.ProfileResponse{Name: query.Skill + "/" + query.OrderBy}}}, s.err
}

func (s *stubUserService) GetProfileImage(context.Context, string, int64) (*services.ProfileImage, error) {
	return s.image, s.err
}

type stubAuthService struct {
	err error
}

func (s *stubAuthService) Signup(_ context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SignupResponse{Message: "User created successfully", User: dto.AccountSummary{ID: 1, Email: req.Email, Name: req.Name, Role: req.Role}}, nil
}

func (s *stubAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LoginResponse{Token: "signed", User: dto.AccountSummary{ID: 1, Email: req.Email}}, nil
}

// as stands in for the JWT middleware
func as(actor models.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, actor.ID)
		c.Set(middleware.ContextKeyRole, actor.Role)
		c.Next()
	}
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestMatchRequestController_Create(t *testing.T) {
	mentee := models.Actor{ID: 5, Role: models.RoleMentee}
	svc := &stubMatchService{resp: &dto.MatchRequestResponse{ID: 10, MentorID: 3, MenteeID: 5, Message: "hi", Status: "pending"}}
	ctrl := NewMatchRequestController(svc, zerolog.Nop())
	r := gin.New()
	r.POST("/match-requests", as(mentee), ctrl.Create)

	w := serve(r, http.MethodPost, "/match-requests", `{"mentorId":3,"message":"hi"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":10,"mentorId":3,"menteeId":5,"message":"hi","status":"pending"}`, w.Body.String())
	assert.Equal(t, mentee, svc.lastActor)
	assert.Equal(t, int64(3), svc.lastReq.MentorID)

	w = serve(r, http.MethodPost, "/match-requests", `{"message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.NewErrorResponse(dto.ErrorCodeInvalidInput, "mentorId is required"), errorBody(t, w))

	w = serve(r, http.MethodPost, "/match-requests", `{"mentorId":"three","message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidInput, errorBody(t, w).Error)

	svc.err = apperrors.ErrPendingRequestExists
	w = serve(r, http.MethodPost, "/match-requests", `{"mentorId":3,"message":"hi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodePendingRequestExists, errorBody(t, w).Error)

	svc.err = apperrors.ErrDuplicateRequest
	w = serve(r, http.MethodPost, "/match-requests", `{"mentorId":3,"message":"hi"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeDuplicateRequest, errorBody(t, w).Error)
}

func TestMatchRequestController_Transitions(t *testing.T) {
	mentor := models.Actor{ID: 3, Role: models.RoleMentor}
	svc := &stubMatchService{resp: &dto.MatchRequestResponse{ID: 10, MentorID: 3, MenteeID: 5, Message: "hi", Status: "accepted"}}
	ctrl := NewMatchRequestController(svc, zerolog.Nop())
	r := gin.New()
	r.PUT("/match-requests/:id/accept", as(mentor), ctrl.Accept)
	r.PUT("/match-requests/:id/reject", as(mentor), ctrl.Reject)
	r.DELETE("/match-requests/:id", as(mentor), ctrl.Cancel)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPut, "/match-requests/10/accept"},
		{http.MethodPut, "/match-requests/10/reject"},
		{http.MethodDelete, "/match-requests/10"},
	} {
		w := serve(r, tc.method, tc.path, "")
		require.Equal(t, http.StatusOK, w.Code, tc.path)
		assert.Equal(t, int64(10), svc.lastID)
	}

	w := serve(r, http.MethodPut, "/match-requests/abc/accept", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidInput, errorBody(t, w).Error)

	w = serve(r, http.MethodPut, "/match-requests/0/reject", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = apperrors.ErrNotFoundOrUnauthorized
	w = serve(r, http.MethodPut, "/match-requests/10/accept", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeNotFoundOrUnauthorized, errorBody(t, w).Error)

	svc.err = apperrors.ErrAlreadyMatched
	w = serve(r, http.MethodPut, "/match-requests/10/accept", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeAlreadyMatched, errorBody(t, w).Error)
}

func TestMatchRequestController_Lists(t *testing.T) {
	svc := &stubMatchService{}
	ctrl := NewMatchRequestController(svc, zerolog.Nop())
	r := gin.New()
	r.GET("/incoming", as(models.Actor{ID: 3, Role: models.RoleMentor}), ctrl.ListIncoming)
	r.GET("/outgoing", as(models.Actor{ID: 5, Role: models.RoleMentee}), ctrl.ListOutgoing)
	r.GET("/anonymous", ctrl.ListIncoming)

	w := serve(r, http.MethodGet, "/incoming", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = serve(r, http.MethodGet, "/outgoing", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"mentorId":2,"menteeId":3,"status":"pending","mentorName":"Tom","mentorEmail":"tom@example.com"}]`, w.Body.String())

	w = serve(r, http.MethodGet, "/anonymous", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	svc.err = apperrors.NewForbiddenError("Only mentors can view incoming requests")
	w = serve(r, http.MethodGet, "/incoming", "")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.NewErrorResponse(dto.ErrorCodeForbidden, "Only mentors can view incoming requests"), errorBody(t, w))
}

func TestAuthController(t *testing.T) {
	svc := &stubAuthService{}
	ctrl := NewAuthController(svc, zerolog.Nop())
	r := gin.New()
	r.POST("/signup", ctrl.Signup)
	r.POST("/login", ctrl.Login)

	w := serve(r, http.MethodPost, "/signup", `{"email":"mia@example.com","password":"secret1","name":"Mia","role":"mentee"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"User created successfully","user":{"id":1,"email":"mia@example.com","name":"Mia","role":"mentee"}}`, w.Body.String())

	w = serve(r, http.MethodPost, "/signup", `{"email":"mia@example.com","password":"secret1","role":"mentee"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", errorBody(t, w).Details)

	w = serve(r, http.MethodPost, "/signup", `not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPost, "/login", `{"email":"mia@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"signed"`)

	svc.err = apperrors.ErrInvalidCredentials
	w = serve(r, http.MethodPost, "/login", `{}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, errorBody(t, w).Error)

	svc.err = apperrors.ErrEmailAlreadyExists
	w = serve(r, http.MethodPost, "/signup", `{"email":"mia@example.com","password":"secret1","name":"Mia","role":"mentee"}`)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeEmailAlreadyExists, errorBody(t, w).Error)
}

func TestUserController(t *testing.T) {
	mentee := models.Actor{ID: 5, Role: models.RoleMentee}
	svc := &stubUserService{}
	ctrl := NewUserController(svc)
	r := gin.New()
	r.GET("/me", as(mentee), ctrl.GetCurrentUser)
	r.PUT("/profile", as(mentee), ctrl.UpdateProfile)
	r.GET("/mentors", as(mentee), ctrl.ListMentors)
	r.GET("/images/:role/:id", as(mentee), ctrl.GetProfileImage)

	w := serve(r, http.MethodGet, "/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":5`)

	w = serve(r, http.MethodPut, "/profile", `{"id":5,"name":"Mia","role":"mentee","bio":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bio":"hi"`)

	w = serve(r, http.MethodPut, "/profile", `{"id":5,"role":"mentee","bio":"hi"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "name is required", errorBody(t, w).Details)

	w = serve(r, http.MethodGet, "/mentors?skill=go&orderBy=name", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"go/name"`)

	svc.image = &services.ProfileImage{RedirectURL: "https://placehold.co/500x500.jpg?text=MENTOR"}
	w = serve(r, http.MethodGet, "/images/mentor/1", "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://placehold.co/500x500.jpg?text=MENTOR", w.Header().Get("Location"))

	svc.image = &services.ProfileImage{ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	w = serve(r, http.MethodGet, "/images/mentor/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, w.Body.Bytes())

	w = serve(r, http.MethodGet, "/images/mentor/x", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = apperrors.NewResourceNotFoundError("User does not exist")
	w = serve(r, http.MethodGet, "/images/mentor/9", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.NewErrorResponse(dto.ErrorCodeNotFound, "User does not exist"), errorBody(t, w))
}
