package client

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yakir1992/todoapp/config"
	"github.com/yakir1992/todoapp/dto"
	"github.com/yakir1992/todoapp/model"
	"github.com/yakir1992/todoapp/services"
	"github.com/yakir1992/todoapp/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := utils.InitValidator(); err != nil {
		panic(err)
	}
}

// fakeAPI serves the subset of the todo API the client speaks, with the
// real response envelope.
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server
	tokens *services.TokenService

	mu             sync.Mutex
	users          map[string]string
	access         map[string]bool
	refresh        map[string]bool
	todos          map[string]model.Todo
	nextID         int
	requests       int
	refreshes      int
	indexMissing   bool
	healthy        bool
	lastLogoutHdr  string
	lastUpdateBody dto.TodoUpdate
}

func newFakeAPI(t *testing.T) *fakeAPI {
	f := &fakeAPI{
		t: t,
		tokens: services.NewTokenService(config.JWTConfig{
			Secret:            "test_secret_key",
			Issuer:            "test",
			Expiration:        time.Hour,
			RefreshExpiration: 24 * time.Hour,
		}),
		users:   map[string]string{},
		access:  map[string]bool{},
		refresh: map[string]bool{},
		todos:   map[string]model.Todo{},
		healthy: true,
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		f.mu.Lock()
		f.requests++
		f.mu.Unlock()
	})
	r.GET("/api/health", f.health)
	r.POST("/api/auth/register", f.register)
	r.POST("/api/auth/login", f.login)
	r.POST("/api/auth/refresh", f.rotate)

	authed := r.Group("/api", f.requireToken)
	authed.POST("/user/logout", f.logout)
	authed.GET("/todos", f.list)
	authed.GET("/todos/stats", f.stats)
	authed.POST("/todos", f.create)
	authed.PATCH("/todos/:id", f.update)
	authed.DELETE("/todos/:id", f.remove)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeAPI) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func (f *fakeAPI) setIndexMissing(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexMissing = v
}

func (f *fakeAPI) lastRequests() (update dto.TodoUpdate, logoutRefresh string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastUpdateBody, f.lastLogoutHdr
}

// revokeAccess invalidates every issued access token.
func (f *fakeAPI) revokeAccess() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = map[string]bool{}
}

func (f *fakeAPI) revokeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = map[string]bool{}
	f.refresh = map[string]bool{}
}

func (f *fakeAPI) issue(c *gin.Context, email string, status int) {
	pair, err := f.tokens.GeneratePair("user-"+email, "session-1")
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}
	f.access[pair.Token] = true
	f.refresh[pair.Refresh] = true
	c.JSON(status, &utils.Response{Status: status, Data: dto.AuthResponse{
		Token:   pair.Token,
		Refresh: pair.Refresh,
		User:    model.Account{ID: "user-" + email, Email: email},
	}})
}

func (f *fakeAPI) register(c *gin.Context) {
	var creds model.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.BadRequest(c, "Email and password are required")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case !strings.Contains(creds.Email, "@"):
		utils.Fail(c, http.StatusBadRequest, dto.CodeInvalidEmail, "Invalid email format")
	case len(creds.Password) < 6:
		utils.Fail(c, http.StatusBadRequest, dto.CodeWeakPassword, "Password should be at least 6 characters")
	case f.users[creds.Email] != "":
		utils.Conflict(c, dto.CodeEmailInUse, "Email is already registered")
	default:
		f.users[creds.Email] = creds.Password
		f.issue(c, creds.Email, http.StatusCreated)
	}
}

func (f *fakeAPI) login(c *gin.Context) {
	var creds model.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.BadRequest(c, "Email and password are required")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if pw, ok := f.users[creds.Email]; !ok || pw != creds.Password {
		utils.Fail(c, http.StatusUnauthorized, dto.CodeInvalidCredentials, "Invalid email or password")
		return
	}
	f.issue(c, creds.Email, http.StatusOK)
}

func (f *fakeAPI) rotate(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Refresh token is required")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++

	if !f.refresh[req.Refresh] {
		utils.Fail(c, http.StatusUnauthorized, dto.CodeInvalidCredentials, "Invalid email or password")
		return
	}
	delete(f.refresh, req.Refresh)

	pair, err := f.tokens.GeneratePair("user-1", "session-1")
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}
	f.access[pair.Token] = true
	f.refresh[pair.Refresh] = true
	utils.Success(c, pair)
}

func (f *fakeAPI) requireToken(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	f.mu.Lock()
	ok := f.access[token]
	f.mu.Unlock()
	if !ok {
		utils.Unauthorized(c, "Invalid or expired token")
		return
	}
	c.Next()
}

func (f *fakeAPI) logout(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLogoutHdr = c.GetHeader("Refresh-Token")
	delete(f.access, strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	delete(f.refresh, f.lastLogoutHdr)
	utils.Success(c, gin.H{"message": "Successfully logged out"})
}

func (f *fakeAPI) list(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indexMissing {
		utils.IndexMissing(c, "The todos query requires an index that has not been created", "create user_date_range")
		return
	}

	start, end := c.Query("start"), c.Query("end")
	var out []*model.Todo
	for _, t := range f.todos {
		if t.Date >= start && t.Date <= end {
			t := t
			out = append(out, &t)
		}
	}
	utils.Success(c, gin.H{"todos": dto.ToTodoResponses(out)})
}

func (f *fakeAPI) stats(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var stats model.TodoStats
	for _, t := range f.todos {
		stats.Total++
		if t.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	utils.Success(c, stats)
}

func (f *fakeAPI) create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	todo := model.Todo{
		TodoID:    "srv-" + strconv.Itoa(f.nextID),
		Text:      req.Text,
		Completed: req.Completed,
		Date:      req.Date,
		Color:     req.Color,
		Recurring: req.Recurring,
	}
	f.todos[todo.TodoID] = todo
	utils.Created(c, dto.ToTodoResponse(&todo))
}

func (f *fakeAPI) update(c *gin.Context) {
	var req dto.TodoUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUpdateBody = req
	todo, ok := f.todos[c.Param("id")]
	if !ok {
		utils.NotFound(c, "Todo not found")
		return
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	f.todos[todo.TodoID] = todo
	utils.Success(c, dto.ToTodoResponse(&todo))
}

func (f *fakeAPI) remove(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.todos[c.Param("id")]; !ok {
		utils.NotFound(c, "Todo not found")
		return
	}
	delete(f.todos, c.Param("id"))
	utils.Success(c, gin.H{"message": "Todo deleted successfully"})
}

func (f *fakeAPI) health(c *gin.Context) {
	f.mu.Lock()
	healthy := f.healthy
	f.mu.Unlock()

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, &utils.Response{Status: status, Data: dto.HealthResponse{Connected: healthy, Redis: healthy}})
}
